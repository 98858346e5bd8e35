package ports

import (
	"context"
	"time"

	"github.com/ahrav/go-polltrack/internal/domain"
)

// Metric names shared by the tracker and the collectors that export them.
const (
	// MetricPollsAdded counts AddPoll calls, labelled by "result".
	MetricPollsAdded = "polls_added_total"
	// MetricPollsTracked is the number of occupied poll slots.
	MetricPollsTracked = "polls_tracked"
	// MetricRenders counts rendered reports, labelled by "view", "metric"
	// and "status".
	MetricRenders = "renders_total"
	// MetricPartiesRendered observes the party lines in each report.
	MetricPartiesRendered = "parties_rendered"
)

// MetricsCollector defines the interface for collecting operational metrics.
// Implementations should integrate with observability platforms like
// Prometheus or OpenTelemetry. A nil MetricsCollector is never passed to
// callers; use NoopMetrics when metrics are not wanted.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric, for example poll adds by
	// outcome or rendering failures.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric, for example
	// the number of polls tracked.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram metric, for example
	// the number of parties rendered per report.
	RecordHistogram(metric string, value float64, labels map[string]string)
}

// PollListGenerator produces a populated PollList for an election.
// The random poll factory implements it; tests substitute fixed lists.
type PollListGenerator interface {
	// GeneratePollList builds a list holding numPolls polls. It returns an
	// error if ctx is cancelled or a poll cannot be built.
	GeneratePollList(ctx context.Context, numPolls int) (*domain.PollList, error)
}

// NoopMetrics is a MetricsCollector that discards everything.
type NoopMetrics struct{}

// RecordLatency implements MetricsCollector.
func (NoopMetrics) RecordLatency(string, time.Duration, map[string]string) {}

// RecordCounter implements MetricsCollector.
func (NoopMetrics) RecordCounter(string, float64, map[string]string) {}

// RecordGauge implements MetricsCollector.
func (NoopMetrics) RecordGauge(string, float64, map[string]string) {}

// RecordHistogram implements MetricsCollector.
func (NoopMetrics) RecordHistogram(string, float64, map[string]string) {}

var _ MetricsCollector = NoopMetrics{}
