// Package metrics defines and registers the custom Prometheus metrics for the
// admin console. It is the single source of truth for metric names, labels
// and help strings.
//
// Every metric is registered with the default registry at package init via
// promauto; /metrics serves them alongside echoprometheus' HTTP metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cdportal/admin-console/internal/core/ports"
)

const namespace = "admin_console"

// ── Search metrics ────────────────────────────────────────────────────────────

// SearchAttemptsTotal counts backend queries issued by the search cascade.
// Labels:
//   - resource: "company" or "driver"
//   - strategy: the filter field tried (e.g. "email", "companyName", "unfiltered")
var SearchAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_attempts_total",
		Help:      "Total number of backend search requests issued, by strategy.",
	},
	[]string{"resource", "strategy"},
)

// SearchFallbackDepth records how many attempts one user search needed.
var SearchFallbackDepth = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_fallback_depth",
		Help:      "Number of backend attempts per search before a result was accepted.",
		Buckets:   []float64{1, 2, 3, 4},
	},
	[]string{"resource"},
)

// SearchErrorsTotal counts searches aborted by a transport failure.
var SearchErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_errors_total",
		Help:      "Total number of searches that aborted on a backend error.",
	},
	[]string{"resource"},
)

// ── Policy metrics ────────────────────────────────────────────────────────────

// PolicyDenialsTotal counts actions refused before reaching the backend.
// Label:
//   - reason: "forbidden" (role lacks the grant) or "self" (self-action veto)
var PolicyDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "policy_denials_total",
		Help:      "Total number of actions denied by the role policy.",
	},
	[]string{"resource", "operation", "reason"},
)

// SessionEventsTotal counts session transitions.
// Label:
//   - event: "login", "login_failed", "logout", "rejected"
var SessionEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_total",
		Help:      "Total number of session lifecycle transitions.",
	},
	[]string{"event"},
)

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestsTotal counts REST exchanges with the backend.
// Labels:
//   - op: logical operation (e.g. "companies.search")
//   - code: HTTP status, or "error" when no response arrived
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of requests sent to the REST backend.",
	},
	[]string{"op", "code"},
)

// BackendRequestDuration measures backend round trips.
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests to the REST backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditDroppedTotal counts entries discarded because a dispatcher shard was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit entries dropped on a full queue.",
	},
)

// AuditFailedTotal counts entries the audit repository rejected.
var AuditFailedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_failed_total",
		Help:      "Total number of audit entries that failed to persist.",
	},
)

// ObserveBackend has the shape of backend.ObserveFunc.
func ObserveBackend(op string, status int, elapsed time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	BackendRequestsTotal.WithLabelValues(op, code).Inc()
	BackendRequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ObserveSearch records the attempts of one finished search.
func ObserveSearch(resource string, attempts []string, err error) {
	for _, s := range attempts {
		SearchAttemptsTotal.WithLabelValues(resource, s).Inc()
	}
	if err != nil {
		SearchErrorsTotal.WithLabelValues(resource).Inc()
		return
	}
	SearchFallbackDepth.WithLabelValues(resource).Observe(float64(len(attempts)))
}

// Observer feeds the page controllers' measurements into the metrics above.
type Observer struct{}

var _ ports.Observer = Observer{}

func (Observer) SearchFinished(resource string, attempts []string, err error) {
	ObserveSearch(resource, attempts, err)
}

func (Observer) PolicyDenied(resource, operation, reason string) {
	PolicyDenialsTotal.WithLabelValues(resource, operation, reason).Inc()
}
