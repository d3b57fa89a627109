package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/cockpit/internal/projects/domain"
	"github.com/felixgeelhaar/cockpit/pkg/observability"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestLoader(ts *mockTimeSource, ms *mockMaterialSource, is *mockInvoiceSource, metrics observability.Metrics, cfg AggregateLoaderConfig) *AggregateLoader {
	return NewAggregateLoader(ts, ms, is, metrics, nil, cfg)
}

func TestAggregateLoader_Load(t *testing.T) {
	projectID := uuid.New()
	ts, ms, is := new(mockTimeSource), new(mockMaterialSource), new(mockInvoiceSource)
	ts.On("SumActualHours", mock.Anything, projectID).Return(12.34, nil)
	ms.On("SumMaterialCosts", mock.Anything, projectID).Return(99.999, nil)
	is.On("HasInvoice", mock.Anything, projectID).Return(true, nil)

	loader := newTestLoader(ts, ms, is, nil, DefaultAggregateLoaderConfig())
	aggregates := loader.Load(context.Background(), projectID)

	assert.Equal(t, domain.Aggregates{ActualHours: 12.3, ActualCosts: 100, HasInvoice: true}, aggregates)
	ts.AssertExpectations(t)
	ms.AssertExpectations(t)
	is.AssertExpectations(t)
}

func TestAggregateLoader_SourcesFailIndependently(t *testing.T) {
	projectID := uuid.New()
	metrics := observability.NewInMemoryMetrics()
	ts, ms, is := new(mockTimeSource), new(mockMaterialSource), new(mockInvoiceSource)
	ts.On("SumActualHours", mock.Anything, projectID).Return(0.0, errors.New("time entries unavailable"))
	ms.On("SumMaterialCosts", mock.Anything, projectID).Return(250.0, nil)
	is.On("HasInvoice", mock.Anything, projectID).Return(false, errors.New("invoices unavailable"))

	loader := newTestLoader(ts, ms, is, metrics, DefaultAggregateLoaderConfig())
	aggregates := loader.Load(context.Background(), projectID)

	assert.Equal(t, 0.0, aggregates.ActualHours)
	assert.Equal(t, 250.0, aggregates.ActualCosts)
	assert.False(t, aggregates.HasInvoice)
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricAggregateSourceFailures, observability.T("source", SourceTime)))
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricAggregateSourceFailures, observability.T("source", SourceInvoice)))
	assert.Equal(t, int64(0), metrics.GetCounter(observability.MetricAggregateSourceFailures, observability.T("source", SourceMaterial)))
}

func TestAggregateLoader_NilSources(t *testing.T) {
	loader := NewAggregateLoader(nil, nil, nil, nil, nil, DefaultAggregateLoaderConfig())

	assert.Equal(t, domain.Aggregates{}, loader.Load(context.Background(), uuid.New()))
}

func TestAggregateLoader_BreakerOpensAfterThreshold(t *testing.T) {
	projectID := uuid.New()
	ts := new(mockTimeSource)
	ts.On("SumActualHours", mock.Anything, projectID).Return(0.0, errors.New("timeout"))

	cfg := DefaultAggregateLoaderConfig()
	cfg.FailureThreshold = 2
	cfg.OpenTimeout = time.Minute
	loader := NewAggregateLoader(ts, nil, nil, nil, nil, cfg)

	for i := 0; i < 4; i++ {
		loader.Load(context.Background(), projectID)
	}

	ts.AssertNumberOfCalls(t, "SumActualHours", 2)
	assert.Equal(t, "open", loader.BreakerStates()[SourceTime])
	assert.Equal(t, "closed", loader.BreakerStates()[SourceMaterial])
}

func TestAggregateLoader_TimeoutDegradesToDefault(t *testing.T) {
	projectID := uuid.New()
	ms := new(mockMaterialSource)
	ms.On("SumMaterialCosts", mock.Anything, projectID).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(500.0, context.DeadlineExceeded)

	cfg := DefaultAggregateLoaderConfig()
	cfg.Timeout = 10 * time.Millisecond
	loader := NewAggregateLoader(nil, ms, nil, nil, nil, cfg)

	aggregates := loader.Load(context.Background(), projectID)

	assert.Equal(t, 0.0, aggregates.ActualCosts)
}
