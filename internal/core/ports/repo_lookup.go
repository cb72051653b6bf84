package ports

import (
	"context"
	"encoding/json"
	"time"
)

// RepoLookup lists a GitHub user's public repositories. The upstream JSON
// is returned untouched.
type RepoLookup interface {
	ListRepos(ctx context.Context, username string) (json.RawMessage, error)
}

// ResponseCache stores upstream payloads for a bounded time.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
