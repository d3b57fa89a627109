package observability

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// Metrics is the recording surface used by handlers, the sweep and the HTTP
// layer. PrometheusMetrics backs it in the binaries.
type Metrics interface {
	Counter(name string, value int64, tags ...Tag)
	Gauge(name string, value float64, tags ...Tag)
	Histogram(name string, value float64, tags ...Tag)
	Timing(name string, duration time.Duration, tags ...Tag)
}

// Tag is a metric label.
type Tag struct {
	Key   string
	Value string
}

// T creates a new Tag.
func T(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) Counter(name string, value int64, tags ...Tag)        {}
func (NoopMetrics) Gauge(name string, value float64, tags ...Tag)        {}
func (NoopMetrics) Histogram(name string, value float64, tags ...Tag)    {}
func (NoopMetrics) Timing(name string, duration time.Duration, tags ...Tag) {}

// InMemoryMetrics records every sample in memory. Series are keyed by name
// plus tags sorted by key, so tag order at the call site does not matter.
type InMemoryMetrics struct {
	mu     sync.RWMutex
	series map[string]*series
}

type series struct {
	count   int64
	gauge   float64
	samples []float64
	timings []time.Duration
}

// NewInMemoryMetrics creates an empty collector.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{series: make(map[string]*series)}
}

func (m *InMemoryMetrics) record(name string, tags []Tag, fn func(*series)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := formatKey(name, tags)
	s, ok := m.series[key]
	if !ok {
		s = &series{}
		m.series[key] = s
	}
	fn(s)
}

func (m *InMemoryMetrics) lookup(name string, tags []Tag) series {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.series[formatKey(name, tags)]; ok {
		return *s
	}
	return series{}
}

func (m *InMemoryMetrics) Counter(name string, value int64, tags ...Tag) {
	m.record(name, tags, func(s *series) { s.count += value })
}

func (m *InMemoryMetrics) Gauge(name string, value float64, tags ...Tag) {
	m.record(name, tags, func(s *series) { s.gauge = value })
}

func (m *InMemoryMetrics) Histogram(name string, value float64, tags ...Tag) {
	m.record(name, tags, func(s *series) { s.samples = append(s.samples, value) })
}

func (m *InMemoryMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	m.record(name, tags, func(s *series) { s.timings = append(s.timings, duration) })
}

func (m *InMemoryMetrics) GetCounter(name string, tags ...Tag) int64 {
	return m.lookup(name, tags).count
}

func (m *InMemoryMetrics) GetGauge(name string, tags ...Tag) float64 {
	return m.lookup(name, tags).gauge
}

func (m *InMemoryMetrics) GetHistogram(name string, tags ...Tag) []float64 {
	return m.lookup(name, tags).samples
}

func (m *InMemoryMetrics) GetTimings(name string, tags ...Tag) []time.Duration {
	return m.lookup(name, tags).timings
}

// Reset drops all series.
func (m *InMemoryMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.series)
}

func formatKey(name string, tags []Tag) string {
	if len(tags) == 0 {
		return name
	}
	sorted := slices.Clone(tags)
	slices.SortStableFunc(sorted, func(a, b Tag) int { return strings.Compare(a.Key, b.Key) })

	var b strings.Builder
	b.WriteString(name)
	for _, t := range sorted {
		b.WriteString(":" + t.Key + "=" + t.Value)
	}
	return b.String()
}

// Metric names. Dots become underscores in the Prometheus backend.
const (
	MetricOperationTotal    = "cockpit.operation.total"
	MetricOperationDuration = "cockpit.operation.duration"
	MetricOperationErrors   = "cockpit.operation.errors"

	// MetricHealthEvaluations counts computed project health results by status.
	MetricHealthEvaluations = "cockpit.project_health.evaluations"
	// MetricHealthNotFound counts computations that fell back to the not-found result.
	MetricHealthNotFound = "cockpit.project_health.not_found"
	// MetricAggregateSourceFailures counts aggregate sources that degraded to their default.
	MetricAggregateSourceFailures = "cockpit.aggregate_source.failures"
	// MetricBreakerState records circuit breaker states (0 closed, 1 half-open, 2 open).
	MetricBreakerState = "cockpit.aggregate_source.breaker_state"

	MetricSweepRuns         = "cockpit.sweep.runs"
	MetricSweepDuration     = "cockpit.sweep.duration"
	MetricAlertsPublished   = "cockpit.alerts.published"
	MetricAlertPublishFails = "cockpit.alerts.publish_failures"

	MetricHTTPRequests      = "cockpit.http.requests"
	MetricHTTPDuration      = "cockpit.http.duration"
	MetricHTTPRateLimitHits = "cockpit.http.rate_limit_hits"
)
