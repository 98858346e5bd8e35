// Package middleware provides cross-cutting concerns for the poll tracker.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-polltrack/internal/ports"
)

const namespace = "polltrack"

// PrometheusMetrics implements the MetricsCollector interface using Prometheus.
// It tracks poll additions, rendered reports, and operation latency.
type PrometheusMetrics struct {
	pollsAdded       *prometheus.CounterVec
	renders          *prometheus.CounterVec
	partiesRendered  *prometheus.HistogramVec
	operationLatency *prometheus.HistogramVec
	operationCounter *prometheus.CounterVec
	systemGauges     *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a PrometheusMetrics instance and registers
// its metrics with reg. A nil reg uses the default registerer. Registering
// twice with the same registry panics.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		pollsAdded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "polls_added_total",
				Help:      "Polls offered to the poll list, by outcome.",
			},
			[]string{"result"},
		),
		renders: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "renders_total",
				Help:      "Reports rendered, by view, metric and status.",
			},
			[]string{"view", "metric", "status"},
		),
		partiesRendered: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "parties_rendered",
				Help:      "Party lines in each rendered report.",
				Buckets:   prometheus.LinearBuckets(0, 10, 11),
			},
			[]string{"view"},
		),
		operationLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Execution time of tracker operations.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation", "view"},
		),
		operationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Other counted operations.",
			},
			[]string{"operation", "view"},
		),
		systemGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "system_state",
				Help:      "Current state values such as the number of polls tracked.",
			},
			[]string{"metric"},
		),
	}
}

func labelOr(labels map[string]string, key, fallback string) string {
	if v := labels[key]; v != "" {
		return v
	}
	return fallback
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	pm.operationLatency.WithLabelValues(operation, labelOr(labels, "view", "unknown")).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case ports.MetricPollsAdded:
		pm.pollsAdded.WithLabelValues(labelOr(labels, "result", "unknown")).Add(value)
	case ports.MetricRenders:
		pm.renders.WithLabelValues(
			labelOr(labels, "view", "unknown"),
			labelOr(labels, "metric", "unknown"),
			labelOr(labels, "status", "unknown"),
		).Add(value)
	default:
		pm.operationCounter.WithLabelValues(metric, labelOr(labels, "view", "unknown")).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, _ map[string]string,
) {
	pm.systemGauges.WithLabelValues(metric).Set(value)
}

// RecordHistogram implements the MetricsCollector interface. Party counts
// go to their own histogram; anything else is treated as a latency in
// seconds.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	view := labelOr(labels, "view", "unknown")
	if metric == ports.MetricPartiesRendered {
		pm.partiesRendered.WithLabelValues(view).Observe(value)
		return
	}
	pm.operationLatency.WithLabelValues(metric, view).Observe(value)
}

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
