// Package metrics defines and registers all custom Prometheus metrics of the
// portal. It is the single source of truth for metric names, labels and help
// strings.
//
// Metrics register with the default Prometheus registry on import. Recorder
// adapts them to the hooks the HTTP binding, the query cache and the
// validator expose.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Backend operations ───────────────────────────────────────────────────────

// OperationRequestsTotal counts backend calls.
// Labels:
//   - operation: operation name (e.g. "list jobs", "send email")
//   - outcome: "success", "client_error", "server_error" or "transport_error"
var OperationRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operation_requests_total",
		Help:      "Total number of backend API calls, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// OperationDuration measures backend call latency, including rate limiting.
// Label:
//   - operation: operation name
var OperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Duration of backend API calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Query cache ──────────────────────────────────────────────────────────────

// CacheQueriesTotal counts cache reads.
// Labels:
//   - family: first segment of the cache key (e.g. "jobs", "job", "mails")
//   - outcome: "hit", "miss" or "stale"
var CacheQueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_queries_total",
		Help:      "Total number of query cache reads, by key family and outcome.",
	},
	[]string{"family", "outcome"},
)

// CacheInvalidationsTotal counts keys marked stale by writes.
var CacheInvalidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_invalidations_total",
		Help:      "Total number of cache keys invalidated, by key family.",
	},
	[]string{"family"},
)

// ── Forms ────────────────────────────────────────────────────────────────────

// ValidationRejectionsTotal counts forms rejected before dispatch.
var ValidationRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_rejections_total",
		Help:      "Total number of forms rejected by client-side validation.",
	},
	[]string{"form"},
)

// ── Background dispatch ──────────────────────────────────────────────────────

// DispatchQueueDepth tracks the tasks waiting in each dispatcher worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var DispatchQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dispatch_queue_depth",
		Help:      "Current number of tasks pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// Recorder feeds the metrics above from the portal's hooks.
type Recorder struct{}

func (Recorder) ObserveRequest(operation, outcome string, elapsed time.Duration) {
	OperationRequestsTotal.WithLabelValues(operation, outcome).Inc()
	OperationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (Recorder) QueryServed(family, outcome string) {
	CacheQueriesTotal.WithLabelValues(family, outcome).Inc()
}

func (Recorder) KeyInvalidated(family string) {
	CacheInvalidationsTotal.WithLabelValues(family).Inc()
}

// Rejected is the validator's reject hook.
func (Recorder) Rejected(form string) {
	ValidationRejectionsTotal.WithLabelValues(form).Inc()
}

// WatchQueue samples depths every interval until ctx is done.
func WatchQueue(ctx context.Context, depths func() []int, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		sampleQueue(depths())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func sampleQueue(depths []int) {
	for i, n := range depths {
		DispatchQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(n))
	}
}
