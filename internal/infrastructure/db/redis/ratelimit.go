package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/devconnector/connector-api/internal/core/ports"
)

// RateLimiter is a fixed-window request counter.
// Key format: ratelimit:<scope>:<subject>:<window_start_unix>
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter allows limit hits per subject in each window.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window, now: time.Now}
}

// Allow records a hit for subject and reports whether it is within the limit.
func (l *RateLimiter) Allow(ctx context.Context, scope, subject string) (ports.RateDecision, error) {
	start := l.now().Truncate(l.window)
	reset := start.Add(l.window)
	key := windowKey(scope, subject, start)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireAt(ctx, key, reset)
	if _, err := pipe.Exec(ctx); err != nil {
		return ports.RateDecision{}, fmt.Errorf("rate limit: %w", err)
	}

	count := int(incr.Val())
	return ports.RateDecision{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: max(l.limit-count, 0),
		Reset:     reset,
	}, nil
}

func windowKey(scope, subject string, start time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", scope, subject, start.Unix())
}
