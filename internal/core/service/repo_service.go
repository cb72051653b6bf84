package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/devconnector/connector-api/internal/api/metrics"
	"github.com/devconnector/connector-api/internal/core/domain"
	"github.com/devconnector/connector-api/internal/core/ports"
)

const repoCachePrefix = "github:repos:"

// RepoService fronts the GitHub lookup with an optional response cache.
// Cache failures are logged and bypassed.
type RepoService struct {
	upstream ports.RepoLookup
	cache    ports.ResponseCache
	ttl      time.Duration
	log      zerolog.Logger
}

// NewRepoService returns a RepoService. cache may be nil, which disables caching.
func NewRepoService(upstream ports.RepoLookup, cache ports.ResponseCache, ttl time.Duration, log zerolog.Logger) *RepoService {
	return &RepoService{upstream: upstream, cache: cache, ttl: ttl, log: log}
}

func (s *RepoService) ListRepos(ctx context.Context, username string) (json.RawMessage, error) {
	key := repoCachePrefix + strings.ToLower(username)

	if s.cache != nil && s.ttl > 0 {
		cached, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("username", username).Msg("repo cache read failed")
		case ok:
			metrics.GithubCacheTotal.WithLabelValues("hit").Inc()
			return json.RawMessage(cached), nil
		default:
			metrics.GithubCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	start := time.Now()
	repos, err := s.upstream.ListRepos(ctx, username)
	metrics.GithubLookupDuration.WithLabelValues(lookupOutcome(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.Set(ctx, key, repos, s.ttl); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("repo cache write failed")
		}
	}
	return repos, nil
}

func lookupOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrGithubProfileNotFound):
		return "not_found"
	default:
		return "error"
	}
}
