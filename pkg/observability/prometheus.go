package observability

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var histogramBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

// PrometheusMetrics implements Metrics on a Prometheus registry. Collectors
// are created on first use; the label names of a metric are fixed by the tags
// of its first observation and later observations with other labels are
// dropped.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusMetrics creates a Metrics backend on registry. A nil registry
// gets a fresh one with the Go and process collectors registered.
func NewPrometheusMetrics(registry *prometheus.Registry) *PrometheusMetrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return &PrometheusMetrics{
		registry:   registry,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (p *PrometheusMetrics) Registry() *prometheus.Registry {
	return p.registry
}

func (p *PrometheusMetrics) Counter(name string, value int64, tags ...Tag) {
	keys, values := splitTags(tags)
	vec := p.counterVec(promName(name)+"_total", keys)
	if c, err := vec.GetMetricWithLabelValues(values...); err == nil {
		c.Add(float64(value))
	}
}

func (p *PrometheusMetrics) Gauge(name string, value float64, tags ...Tag) {
	keys, values := splitTags(tags)
	vec := p.gaugeVec(promName(name), keys)
	if g, err := vec.GetMetricWithLabelValues(values...); err == nil {
		g.Set(value)
	}
}

func (p *PrometheusMetrics) Histogram(name string, value float64, tags ...Tag) {
	keys, values := splitTags(tags)
	vec := p.histogramVec(promName(name), keys)
	if h, err := vec.GetMetricWithLabelValues(values...); err == nil {
		h.Observe(value)
	}
}

func (p *PrometheusMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	keys, values := splitTags(tags)
	vec := p.histogramVec(promName(name)+"_seconds", keys)
	if h, err := vec.GetMetricWithLabelValues(values...); err == nil {
		h.Observe(duration.Seconds())
	}
}

func (p *PrometheusMetrics) counterVec(name string, labels []string) *prometheus.CounterVec {
	p.mu.Lock()
	defer p.mu.Unlock()
	if vec, ok := p.counters[name]; ok {
		return vec
	}
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: name}, labels)
	if existing := p.register(vec); existing != nil {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			vec = v
		}
	}
	p.counters[name] = vec
	return vec
}

func (p *PrometheusMetrics) gaugeVec(name string, labels []string) *prometheus.GaugeVec {
	p.mu.Lock()
	defer p.mu.Unlock()
	if vec, ok := p.gauges[name]; ok {
		return vec
	}
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: name}, labels)
	if existing := p.register(vec); existing != nil {
		if v, ok := existing.(*prometheus.GaugeVec); ok {
			vec = v
		}
	}
	p.gauges[name] = vec
	return vec
}

func (p *PrometheusMetrics) histogramVec(name string, labels []string) *prometheus.HistogramVec {
	p.mu.Lock()
	defer p.mu.Unlock()
	if vec, ok := p.histograms[name]; ok {
		return vec
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    name,
		Help:    name,
		Buckets: histogramBuckets,
	}, labels)
	if existing := p.register(vec); existing != nil {
		if v, ok := existing.(*prometheus.HistogramVec); ok {
			vec = v
		}
	}
	p.histograms[name] = vec
	return vec
}

// register returns the already registered collector when one exists.
func (p *PrometheusMetrics) register(c prometheus.Collector) prometheus.Collector {
	err := p.registry.Register(c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		return are.ExistingCollector
	}
	return nil
}

func promName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(name)
}

// splitTags orders tags by key so label names are stable across calls.
func splitTags(tags []Tag) ([]string, []string) {
	sorted := make([]Tag, len(tags))
	copy(sorted, tags)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	keys := make([]string, len(sorted))
	values := make([]string, len(sorted))
	for i, t := range sorted {
		keys[i] = t.Key
		values[i] = t.Value
	}
	return keys, values
}
