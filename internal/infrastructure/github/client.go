package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/devconnector/connector-api/internal/core/domain"
)

const (
	DefaultBaseURL = "https://api.github.com"
	defaultTimeout = 5 * time.Second
	userAgent      = "connector-api"
	maxBodyBytes   = 1 << 20
)

// Config captures the settings for the GitHub REST client.
type Config struct {
	BaseURL string
	// Token is optional; anonymous calls are subject to lower rate limits.
	Token   string
	Timeout time.Duration
}

// Client lists public repositories through the GitHub REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		baseURL: base,
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
	}
}

// ListRepos returns the five oldest-created public repositories of username
// as the raw upstream JSON. Any non-200 answer maps to
// domain.ErrGithubProfileNotFound.
func (c *Client) ListRepos(ctx context.Context, username string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("per_page", "5")
	q.Set("sort", "created:asc")
	endpoint := fmt.Sprintf("%s/users/%s/repos?%s", c.baseURL, url.PathEscape(username), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("github: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, domain.ErrGithubProfileNotFound
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("github: read body: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("github: upstream returned invalid json")
	}
	return json.RawMessage(body), nil
}
