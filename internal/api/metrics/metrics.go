// Package metrics defines and registers the custom Prometheus metrics of the
// connector API. It is the single source of truth for metric names, labels,
// and help strings. HTTP request metrics come from echoprometheus and are not
// declared here.
//
// All metrics register with the default registry at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "connector"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts credential checks.
// Label:
//   - result: "success" or "invalid_credentials"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RateLimitedTotal counts requests rejected by the rate limiter.
// Label:
//   - scope: the limiter scope (e.g. "login")
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected with 429.",
	},
	[]string{"scope"},
)

// ── Profile metrics ───────────────────────────────────────────────────────────

// ProfileUpsertsTotal counts profile writes.
// Label:
//   - op: "created" or "updated"
var ProfileUpsertsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_upserts_total",
		Help:      "Total number of profile create-or-update operations, by outcome.",
	},
	[]string{"op"},
)

// ProfileEntriesTotal counts experience/education list mutations.
// Labels:
//   - kind: "experience" or "education"
//   - op: "add" or "remove"
var ProfileEntriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_entries_total",
		Help:      "Total number of experience/education entry mutations.",
	},
	[]string{"kind", "op"},
)

// AccountsDeletedTotal counts completed account deletions.
var AccountsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_deleted_total",
		Help:      "Total number of accounts deleted together with their profile and posts.",
	},
)

// ── GitHub metrics ────────────────────────────────────────────────────────────

// GithubLookupDuration measures upstream GitHub calls.
// Label:
//   - outcome: "ok", "not_found" or "error"
var GithubLookupDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "github_lookup_duration_seconds",
		Help:      "Duration of GitHub repository lookups.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// GithubCacheTotal counts repository cache reads.
// Label:
//   - result: "hit" or "miss"
var GithubCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "github_cache_total",
		Help:      "Total number of GitHub response cache reads, by result.",
	},
	[]string{"result"},
)
