package testutils

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ahrav/go-polltrack/internal/ports"
)

// MetricCall is one recorded MetricsCollector call.
type MetricCall struct {
	Kind   string
	Name   string
	Value  float64
	Labels map[string]string
}

// RecordingMetrics implements ports.MetricsCollector by remembering every
// call. It is safe for concurrent use.
type RecordingMetrics struct {
	mu    sync.Mutex
	calls []MetricCall
}

// NewRecordingMetrics returns an empty recorder.
func NewRecordingMetrics() *RecordingMetrics { return &RecordingMetrics{} }

func (m *RecordingMetrics) record(kind, name string, value float64, labels map[string]string) {
	copied := make(map[string]string, len(labels))
	for k, v := range labels {
		copied[k] = v
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MetricCall{Kind: kind, Name: name, Value: value, Labels: copied})
}

// RecordLatency implements ports.MetricsCollector.
func (m *RecordingMetrics) RecordLatency(operation string, d time.Duration, labels map[string]string) {
	m.record("latency", operation, d.Seconds(), labels)
}

// RecordCounter implements ports.MetricsCollector.
func (m *RecordingMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	m.record("counter", metric, value, labels)
}

// RecordGauge implements ports.MetricsCollector.
func (m *RecordingMetrics) RecordGauge(metric string, value float64, labels map[string]string) {
	m.record("gauge", metric, value, labels)
}

// RecordHistogram implements ports.MetricsCollector.
func (m *RecordingMetrics) RecordHistogram(metric string, value float64, labels map[string]string) {
	m.record("histogram", metric, value, labels)
}

// Calls returns a copy of every recorded call in order.
func (m *RecordingMetrics) Calls() []MetricCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MetricCall(nil), m.calls...)
}

// CounterTotal sums counter increments for metric whose labels include
// every pair in match.
func (m *RecordingMetrics) CounterTotal(metric string, match map[string]string) float64 {
	var total float64
	for _, c := range m.Calls() {
		if c.Kind == "counter" && c.Name == metric && labelsMatch(c.Labels, match) {
			total += c.Value
		}
	}
	return total
}

// LastGauge returns the most recent value set for metric.
func (m *RecordingMetrics) LastGauge(metric string) (float64, bool) {
	calls := m.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Kind == "gauge" && calls[i].Name == metric {
			return calls[i].Value, true
		}
	}
	return 0, false
}

// Names lists the distinct "kind:name" pairs recorded, sorted.
func (m *RecordingMetrics) Names() []string {
	seen := make(map[string]struct{})
	for _, c := range m.Calls() {
		seen[c.Kind+":"+c.Name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// String renders the calls one per line, for failure messages.
func (m *RecordingMetrics) String() string {
	var b strings.Builder
	for _, c := range m.Calls() {
		b.WriteString(c.Kind + " " + c.Name + "\n")
	}
	return b.String()
}

func labelsMatch(labels, match map[string]string) bool {
	for k, v := range match {
		if labels[k] != v {
			return false
		}
	}
	return true
}

var _ ports.MetricsCollector = (*RecordingMetrics)(nil)
