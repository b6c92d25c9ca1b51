package submissionmetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "strategy_ledger"

type prometheusMetrics struct {
	operations   *prometheus.CounterVec
	durations    *prometheus.HistogramVec
	submissions  *prometheus.CounterVec
	rejections   *prometheus.CounterVec
	raceFallback prometheus.Counter
}

// NewPrometheus registers the submission collectors on reg.
func NewPrometheus(reg prometheus.Registerer) (SubmissionMetrics, error) {
	m := &prometheusMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Service operations by result.",
		}, []string{"service", "operation", "result"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Duration of service operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "operation"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Admitted submissions by hash status.",
		}, []string{"outcome"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submission_rejections_total",
			Help:      "Rejected submissions by error kind.",
		}, []string{"kind"}),
		raceFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hash_race_fallbacks_total",
			Help:      "Original inserts that lost a concurrent race.",
		}),
	}

	for _, c := range []prometheus.Collector{m.operations, m.durations, m.submissions, m.rejections, m.raceFallback} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *prometheusMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(service, operation, "attempt").Inc()
}

func (m *prometheusMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(service, operation, "success").Inc()
}

func (m *prometheusMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(service, operation, "failure").Inc()
}

func (m *prometheusMetrics) RecordOperationDuration(_ context.Context, operation, service string, duration time.Duration) {
	m.durations.WithLabelValues(service, operation).Observe(duration.Seconds())
}

func (m *prometheusMetrics) RecordSubmissionOutcome(_ context.Context, hashStatus string) {
	m.submissions.WithLabelValues(hashStatus).Inc()
}

func (m *prometheusMetrics) RecordRejection(_ context.Context, kind string) {
	m.rejections.WithLabelValues(kind).Inc()
}

func (m *prometheusMetrics) RecordHashRaceFallback(context.Context) {
	m.raceFallback.Inc()
}
