package observability

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *PrometheusMetrics) string {
	t.Helper()
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestPrometheusMetrics_Counter(t *testing.T) {
	m := NewPrometheusMetrics(prometheus.NewRegistry())

	m.Counter(MetricHealthEvaluations, 1, T("status", "red"))
	m.Counter(MetricHealthEvaluations, 2, T("status", "red"))
	m.Counter(MetricHealthEvaluations, 1, T("status", "green"))

	body := scrape(t, m)
	assert.Contains(t, body, `cockpit_project_health_evaluations_total{status="red"} 3`)
	assert.Contains(t, body, `cockpit_project_health_evaluations_total{status="green"} 1`)
}

func TestPrometheusMetrics_LabelOrderIsStable(t *testing.T) {
	m := NewPrometheusMetrics(prometheus.NewRegistry())

	m.Counter(MetricHTTPRequests, 1, T("route", "/health"), T("method", "GET"))
	m.Counter(MetricHTTPRequests, 1, T("method", "GET"), T("route", "/health"))

	assert.Contains(t, scrape(t, m), `cockpit_http_requests_total{method="GET",route="/health"} 2`)
}

func TestPrometheusMetrics_MismatchedLabelsAreDropped(t *testing.T) {
	m := NewPrometheusMetrics(prometheus.NewRegistry())

	m.Counter(MetricAlertsPublished, 1, T("routing_key", "projects.health.red"))

	assert.NotPanics(t, func() {
		m.Counter(MetricAlertsPublished, 1)
	})
}

func TestPrometheusMetrics_GaugeAndTiming(t *testing.T) {
	m := NewPrometheusMetrics(prometheus.NewRegistry())

	m.Gauge(MetricBreakerState, 2, T("source", "invoice"))
	m.Timing(MetricSweepDuration, 150*time.Millisecond)
	m.Histogram(MetricHTTPDuration, 0.02)

	body := scrape(t, m)
	assert.Contains(t, body, `cockpit_aggregate_source_breaker_state{source="invoice"} 2`)
	assert.Contains(t, body, "cockpit_sweep_duration_seconds_count 1")
	assert.Contains(t, body, "cockpit_http_duration_count 1")
}

func TestPrometheusMetrics_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewPrometheusMetrics(reg)
	second := NewPrometheusMetrics(reg)

	first.Counter(MetricSweepRuns, 1)
	second.Counter(MetricSweepRuns, 1)

	assert.Contains(t, scrape(t, first), "cockpit_sweep_runs_total 2")
}
