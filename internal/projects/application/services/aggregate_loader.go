package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/cockpit/internal/projects/domain"
	"github.com/felixgeelhaar/cockpit/pkg/observability"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"
)

// Aggregate source names used in logs, metrics and breaker names.
const (
	SourceTime     = "time"
	SourceMaterial = "material"
	SourceInvoice  = "invoice"
)

// AggregateLoaderConfig configures the aggregate loader.
type AggregateLoaderConfig struct {
	// Timeout bounds each source call. Zero disables the timeout.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that opens a
	// source's circuit breaker.
	FailureThreshold uint32

	// OpenTimeout is how long an open breaker rejects calls before probing.
	OpenTimeout time.Duration

	// MaxRequests is the number of probe calls allowed while half-open.
	MaxRequests uint32

	// Interval is the cyclic period after which a closed breaker clears its counts.
	Interval time.Duration
}

// DefaultAggregateLoaderConfig returns the default configuration.
func DefaultAggregateLoaderConfig() AggregateLoaderConfig {
	return AggregateLoaderConfig{
		Timeout:          5 * time.Second,
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
		MaxRequests:      1,
		Interval:         time.Minute,
	}
}

// AggregateLoader reads the observed values of a project from three
// independent sources. The sources are queried concurrently and each one
// degrades to its zero value on failure, so a broken source never fails the
// whole computation.
type AggregateLoader struct {
	time     domain.TimeSource
	material domain.MaterialSource
	invoice  domain.InvoiceSource

	timeBreaker     *gobreaker.CircuitBreaker[float64]
	materialBreaker *gobreaker.CircuitBreaker[float64]
	invoiceBreaker  *gobreaker.CircuitBreaker[bool]

	metrics observability.Metrics
	logger  *slog.Logger
	config  AggregateLoaderConfig
}

// NewAggregateLoader creates an aggregate loader. Nil sources contribute
// their zero value.
func NewAggregateLoader(
	timeSource domain.TimeSource,
	materialSource domain.MaterialSource,
	invoiceSource domain.InvoiceSource,
	metrics observability.Metrics,
	logger *slog.Logger,
	config AggregateLoaderConfig,
) *AggregateLoader {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}

	l := &AggregateLoader{
		time:     timeSource,
		material: materialSource,
		invoice:  invoiceSource,
		metrics:  metrics,
		logger:   logger,
		config:   config,
	}
	l.timeBreaker = gobreaker.NewCircuitBreaker[float64](l.breakerSettings(SourceTime))
	l.materialBreaker = gobreaker.NewCircuitBreaker[float64](l.breakerSettings(SourceMaterial))
	l.invoiceBreaker = gobreaker.NewCircuitBreaker[bool](l.breakerSettings(SourceInvoice))
	return l
}

func (l *AggregateLoader) breakerSettings(source string) gobreaker.Settings {
	threshold := l.config.FailureThreshold
	if threshold == 0 {
		threshold = 1
	}
	return gobreaker.Settings{
		Name:        source,
		MaxRequests: l.config.MaxRequests,
		Interval:    l.config.Interval,
		Timeout:     l.config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A caller that gave up says nothing about the source.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			l.logger.Info("aggregate source breaker state changed",
				"source", name,
				"from", from.String(),
				"to", to.String(),
			)
			l.metrics.Gauge(observability.MetricBreakerState, float64(to), observability.T("source", name))
		},
	}
}

// Load returns the aggregates of a project. It never fails.
func (l *AggregateLoader) Load(ctx context.Context, projectID uuid.UUID) domain.Aggregates {
	var (
		hours      float64
		costs      float64
		hasInvoice bool
	)

	var g errgroup.Group
	if l.time != nil {
		g.Go(func() error {
			hours = fetch(ctx, l, l.timeBreaker, SourceTime, projectID, l.time.SumActualHours)
			return nil
		})
	}
	if l.material != nil {
		g.Go(func() error {
			costs = fetch(ctx, l, l.materialBreaker, SourceMaterial, projectID, l.material.SumMaterialCosts)
			return nil
		})
	}
	if l.invoice != nil {
		g.Go(func() error {
			hasInvoice = fetch(ctx, l, l.invoiceBreaker, SourceInvoice, projectID, l.invoice.HasInvoice)
			return nil
		})
	}
	_ = g.Wait()

	return domain.NewAggregates(hours, costs, hasInvoice)
}

// BreakerStates reports the current breaker state of every source.
func (l *AggregateLoader) BreakerStates() map[string]string {
	return map[string]string{
		SourceTime:     l.timeBreaker.State().String(),
		SourceMaterial: l.materialBreaker.State().String(),
		SourceInvoice:  l.invoiceBreaker.State().String(),
	}
}

func fetch[T any](
	ctx context.Context,
	l *AggregateLoader,
	breaker *gobreaker.CircuitBreaker[T],
	source string,
	projectID uuid.UUID,
	read func(context.Context, uuid.UUID) (T, error),
) T {
	if l.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.config.Timeout)
		defer cancel()
	}

	value, err := breaker.Execute(func() (T, error) {
		return read(ctx, projectID)
	})
	if err != nil {
		l.logger.WarnContext(ctx, "aggregate source failed, using default",
			observability.ProjectIDKey, projectID,
			"source", source,
			"breaker_open", errors.Is(err, gobreaker.ErrOpenState),
			observability.ErrorKey, err,
		)
		l.metrics.Counter(observability.MetricAggregateSourceFailures, 1, observability.T("source", source))
		var zero T
		return zero
	}
	return value
}
