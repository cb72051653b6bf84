package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/devconnector/connector-api/internal/core/ports"
)

type stubLimiter struct {
	decision ports.RateDecision
	err      error
	scope    string
	subject  string
}

func (s *stubLimiter) Allow(_ context.Context, scope, subject string) (ports.RateDecision, error) {
	s.scope, s.subject = scope, subject
	return s.decision, s.err
}

func runRateLimit(t *testing.T, l *stubLimiter) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := RateLimit(l, "login", zerolog.Nop())(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, called
}

func TestRateLimit_Allowed(t *testing.T) {
	reset := time.Unix(1700000060, 0)
	l := &stubLimiter{decision: ports.RateDecision{Allowed: true, Limit: 10, Remaining: 9, Reset: reset}}
	rec, called := runRateLimit(t, l)

	if !called {
		t.Fatal("next not called")
	}
	if l.scope != "login" || l.subject != "10.1.2.3" {
		t.Fatalf("limiter called with %q/%q", l.scope, l.subject)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "9" {
		t.Fatalf("remaining header = %q", got)
	}
	if got := rec.Header().Get("X-RateLimit-Reset"); got != "1700000060" {
		t.Fatalf("reset header = %q", got)
	}
}

func TestRateLimit_Exceeded(t *testing.T) {
	l := &stubLimiter{decision: ports.RateDecision{Allowed: false, Limit: 10, Remaining: 0, Reset: time.Now()}}
	rec, called := runRateLimit(t, l)

	if called {
		t.Fatal("next must not run")
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	rec, called := runRateLimit(t, &stubLimiter{err: errors.New("redis down")})
	if !called {
		t.Fatal("next must run when limiter fails")
	}
	if rec.Header().Get("X-RateLimit-Limit") != "" {
		t.Fatal("no limit headers expected on failure")
	}
}
