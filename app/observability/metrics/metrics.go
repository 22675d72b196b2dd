// Package metrics defines the operation and batch metrics recorded by the
// ranking services, along with Prometheus and no-op implementations.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the contract services, workers and the stats queue record against.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)

	// RecordPageCommitted counts a batch page whose writes were committed.
	RecordPageCommitted(ctx context.Context, job string, items int)
	// RecordPageFailed counts a batch page whose writes were discarded.
	RecordPageFailed(ctx context.Context, job string)

	RecordOwnershipOutcome(ctx context.Context, outcome string)
	SetQueueDepth(ctx context.Context, queue string, depth int)
}

// PrometheusMetrics records metrics into a Prometheus registry.
type PrometheusMetrics struct {
	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
	pages      *prometheus.CounterVec
	pageItems  *prometheus.CounterVec
	ownership  *prometheus.CounterVec
	queueDepth *prometheus.GaugeVec
}

var _ Metrics = (*PrometheusMetrics)(nil)

// NewPrometheusMetrics creates the collectors and registers them on reg.
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Service operations by outcome.",
		}, []string{"operation", "service", "outcome"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Service operation duration.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "service"}),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_pages_total",
			Help:      "Batch job pages by outcome.",
		}, []string{"job", "outcome"}),
		pageItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_items_committed_total",
			Help:      "Items written by committed batch pages.",
		}, []string{"job"}),
		ownership: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clan_ownership_outcomes_total",
			Help:      "Clan contest outcomes.",
		}, []string{"outcome"}),
		queueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Pending items in in-process queues.",
		}, []string{"queue"}),
	}

	collectors := []prometheus.Collector{m.operations, m.durations, m.pages, m.pageItems, m.ownership, m.queueDepth}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *PrometheusMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(operation, service, "attempt").Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(operation, service, "success").Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(operation, service, "failure").Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(_ context.Context, operation, service string, duration time.Duration) {
	m.durations.WithLabelValues(operation, service).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordPageCommitted(_ context.Context, job string, items int) {
	m.pages.WithLabelValues(job, "committed").Inc()
	m.pageItems.WithLabelValues(job).Add(float64(items))
}

func (m *PrometheusMetrics) RecordPageFailed(_ context.Context, job string) {
	m.pages.WithLabelValues(job, "failed").Inc()
}

func (m *PrometheusMetrics) RecordOwnershipOutcome(_ context.Context, outcome string) {
	m.ownership.WithLabelValues(outcome).Inc()
}

func (m *PrometheusMetrics) SetQueueDepth(_ context.Context, queue string, depth int) {
	m.queueDepth.WithLabelValues(queue).Set(float64(depth))
}

// NoOpMetrics discards everything.
type NoOpMetrics struct{}

var _ Metrics = NoOpMetrics{}

func NewNoop() Metrics { return NoOpMetrics{} }

func (NoOpMetrics) RecordOperationAttempt(context.Context, string, string)                 {}
func (NoOpMetrics) RecordOperationSuccess(context.Context, string, string)                 {}
func (NoOpMetrics) RecordOperationFailure(context.Context, string, string)                 {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (NoOpMetrics) RecordPageCommitted(context.Context, string, int)                       {}
func (NoOpMetrics) RecordPageFailed(context.Context, string)                               {}
func (NoOpMetrics) RecordOwnershipOutcome(context.Context, string)                         {}
func (NoOpMetrics) SetQueueDepth(context.Context, string, int)                             {}
