// Package metrics defines all custom Prometheus metrics of the users and calls
// APIs. It is the single source of truth for metric names, labels, and help
// strings. Metrics register with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "callcoach"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthDecisionsTotal counts request gate decisions.
// Labels:
//   - stage:  "authenticate" (global gate) or "authorize" (route role guard)
//   - result: "allow" or "deny"
//   - reason: "public", "token", "role", or the denial error (e.g. "token has expired")
var AuthDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_decisions_total",
		Help:      "Total number of authentication and role decisions taken by the request gate.",
	},
	[]string{"stage", "result", "reason"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "disabled", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts successful registrations.
// Label:
//   - role: the role assigned at registration (e.g. "LEARNER")
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// ── Call metrics ──────────────────────────────────────────────────────────────

// CallsCreatedTotal counts newly logged calls.
// Label:
//   - transcript: "true" or "false"
var CallsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calls_created_total",
		Help:      "Total number of calls logged, by transcript presence.",
	},
	[]string{"transcript"},
)

// ── Analysis metrics ──────────────────────────────────────────────────────────

// AnalysesTotal counts finished analysis jobs.
// Label:
//   - result: "done", "error", or "skipped" (lock held elsewhere)
var AnalysesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analyses_total",
		Help:      "Total number of analysis jobs processed, by result.",
	},
	[]string{"result"},
)

// AnalysisDuration measures how long a job takes from dequeue to persistence.
// Label:
//   - result: same values as AnalysesTotal
var AnalysisDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analysis_duration_seconds",
		Help:      "Duration of analysis jobs from dequeue to persistence.",
		Buckets:   []float64{.5, 1, 2.5, 5, 10, 20, 30, 60, 120, 300},
	},
	[]string{"result"},
)

// AnalysisQueueDepth tracks the number of jobs waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AnalysisQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "analysis_queue_depth",
		Help:      "Current number of analysis jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
