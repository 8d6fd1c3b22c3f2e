package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusScoringMetrics implements ScoringMetrics on a prometheus registry.
type PrometheusScoringMetrics struct {
	attempts   *prometheus.CounterVec
	successes  *prometheus.CounterVec
	failures   *prometheus.CounterVec
	durations  *prometheus.HistogramVec
	rollbacks  prometheus.Counter
	staleDrops prometheus.Counter
}

// NewPrometheusScoringMetrics registers and returns session metrics.
func NewPrometheusScoringMetrics(reg prometheus.Registerer) *PrometheusScoringMetrics {
	m := &PrometheusScoringMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scorecard", Subsystem: "session",
			Name: "operation_attempts_total", Help: "Session operations started.",
		}, []string{"operation"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scorecard", Subsystem: "session",
			Name: "operation_successes_total", Help: "Session operations completed successfully.",
		}, []string{"operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scorecard", Subsystem: "session",
			Name: "operation_failures_total", Help: "Session operations that failed.",
		}, []string{"operation"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "scorecard", Subsystem: "session",
			Name: "operation_duration_seconds", Help: "Session operation latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		rollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scorecard", Subsystem: "session",
			Name: "cell_rollbacks_total", Help: "Cells rolled back after a rejected edit.",
		}),
		staleDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scorecard", Subsystem: "session",
			Name: "stale_responses_discarded_total", Help: "Superseded in-flight responses discarded.",
		}),
	}
	reg.MustRegister(m.attempts, m.successes, m.failures, m.durations, m.rollbacks, m.staleDrops)
	return m
}

func (m *PrometheusScoringMetrics) RecordOperationAttempt(_ context.Context, op string) {
	m.attempts.WithLabelValues(op).Inc()
}

func (m *PrometheusScoringMetrics) RecordOperationSuccess(_ context.Context, op string) {
	m.successes.WithLabelValues(op).Inc()
}

func (m *PrometheusScoringMetrics) RecordOperationFailure(_ context.Context, op string) {
	m.failures.WithLabelValues(op).Inc()
}

func (m *PrometheusScoringMetrics) RecordOperationDuration(_ context.Context, op string, d time.Duration) {
	m.durations.WithLabelValues(op).Observe(d.Seconds())
}

func (m *PrometheusScoringMetrics) RecordCellRollback(context.Context) {
	m.rollbacks.Inc()
}

func (m *PrometheusScoringMetrics) RecordStaleResponseDiscarded(context.Context) {
	m.staleDrops.Inc()
}

// PrometheusGatewayMetrics implements GatewayMetrics on a prometheus registry.
type PrometheusGatewayMetrics struct {
	requests  *prometheus.CounterVec
	failures  *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

// NewPrometheusGatewayMetrics registers and returns gateway metrics.
func NewPrometheusGatewayMetrics(reg prometheus.Registerer) *PrometheusGatewayMetrics {
	m := &PrometheusGatewayMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scorecard", Subsystem: "gateway",
			Name: "requests_total", Help: "Gateway round trips started.",
		}, []string{"operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scorecard", Subsystem: "gateway",
			Name: "request_failures_total", Help: "Gateway round trips that failed.",
		}, []string{"operation"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "scorecard", Subsystem: "gateway",
			Name: "request_duration_seconds", Help: "Gateway round trip latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(m.requests, m.failures, m.durations)
	return m
}

func (m *PrometheusGatewayMetrics) RecordRequest(_ context.Context, op string) {
	m.requests.WithLabelValues(op).Inc()
}

func (m *PrometheusGatewayMetrics) RecordRequestFailure(_ context.Context, op string) {
	m.failures.WithLabelValues(op).Inc()
}

func (m *PrometheusGatewayMetrics) RecordRequestDuration(_ context.Context, op string, d time.Duration) {
	m.durations.WithLabelValues(op).Observe(d.Seconds())
}
