package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	var m Metrics = NoopMetrics{}

	assert.NotPanics(t, func() {
		m.Counter(MetricHealthEvaluations, 1, T("status", "green"))
		m.Gauge(MetricBreakerState, 2)
		m.Histogram(MetricHTTPDuration, 0.2)
		m.Timing(MetricSweepDuration, time.Second)
	})
}

func TestInMemoryMetrics_Counter(t *testing.T) {
	m := NewInMemoryMetrics()

	m.Counter(MetricHealthEvaluations, 1, T("status", "red"))
	m.Counter(MetricHealthEvaluations, 1, T("status", "green"))
	m.Counter(MetricHealthEvaluations, 1, T("status", "red"))

	assert.Equal(t, int64(2), m.GetCounter(MetricHealthEvaluations, T("status", "red")))
	assert.Equal(t, int64(1), m.GetCounter(MetricHealthEvaluations, T("status", "green")))
	assert.Equal(t, int64(0), m.GetCounter(MetricHealthEvaluations))
}

func TestInMemoryMetrics_GaugeHistogramTiming(t *testing.T) {
	m := NewInMemoryMetrics()

	m.Gauge(MetricBreakerState, 1, T("source", "time"))
	m.Gauge(MetricBreakerState, 2, T("source", "time"))
	m.Histogram(MetricHTTPDuration, 0.1)
	m.Histogram(MetricHTTPDuration, 0.3)
	m.Timing(MetricSweepDuration, 20*time.Millisecond)

	assert.Equal(t, 2.0, m.GetGauge(MetricBreakerState, T("source", "time")))
	assert.Equal(t, []float64{0.1, 0.3}, m.GetHistogram(MetricHTTPDuration))
	assert.Equal(t, []time.Duration{20 * time.Millisecond}, m.GetTimings(MetricSweepDuration))

	m.Reset()
	assert.Equal(t, 0.0, m.GetGauge(MetricBreakerState, T("source", "time")))
	assert.Empty(t, m.GetHistogram(MetricHTTPDuration))
}

func TestFormatKey(t *testing.T) {
	assert.Equal(t, "requests", formatKey("requests", nil))
	assert.Equal(t, "requests:method=GET:status=200",
		formatKey("requests", []Tag{T("method", "GET"), T("status", "200")}))
}

func TestInMemoryMetrics_TagOrderIgnored(t *testing.T) {
	m := NewInMemoryMetrics()

	m.Counter(MetricHTTPRequests, 1, T("route", "/health"), T("code", "200"))
	m.Counter(MetricHTTPRequests, 1, T("code", "200"), T("route", "/health"))

	assert.Equal(t, int64(2), m.GetCounter(MetricHTTPRequests, T("route", "/health"), T("code", "200")))
}
