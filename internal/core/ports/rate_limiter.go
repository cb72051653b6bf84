package ports

import (
	"context"
	"time"
)

// RateDecision is the outcome of counting one hit against a limit.
type RateDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// RateLimiter counts hits per scope and subject (for example "login" and a client IP).
type RateLimiter interface {
	Allow(ctx context.Context, scope, subject string) (RateDecision, error)
}
