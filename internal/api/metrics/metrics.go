// Package metrics defines and registers all custom Prometheus metrics for
// the factory console. It is the single source of truth for metric names,
// labels, and help strings; metrics register with the default registry at
// package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "rejected" (platform said no), or "superseded"
//     (a newer attempt was issued before this one resolved)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// GuardDecisionsTotal counts route-guard verdicts.
// Label:
//   - decision: "allow", "sign_in", "unauthorized", or "wait"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by verdict.",
	},
	[]string{"decision"},
)

// SessionsCleared counts persisted sessions discarded because they failed
// structural parsing.
var SessionsCleared = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_cleared_total",
		Help:      "Total number of corrupt persisted sessions discarded.",
	},
)

// UpstreamRequestsTotal counts calls to the platform API.
// Labels:
//   - operation: logical operation name (e.g. "list_factories")
//   - status: HTTP status code, or "error" when no response arrived
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of requests to the platform API, by operation and status.",
	},
	[]string{"operation", "status"},
)

// UpstreamRequestDuration measures platform API round-trip time.
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of platform API requests from send to decode.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)
