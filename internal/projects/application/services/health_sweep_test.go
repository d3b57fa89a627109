package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/cockpit/internal/projects/domain"
	"github.com/felixgeelhaar/cockpit/pkg/observability"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var sweepNow = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

type sweepFixture struct {
	reader    *mockTargetsReader
	timeSrc   *mockTimeSource
	material  *mockMaterialSource
	invoice   *mockInvoiceSource
	publisher *mockPublisher
	metrics   *observability.InMemoryMetrics
	sweep     *HealthSweep
}

func newSweepFixture() *sweepFixture {
	f := &sweepFixture{
		reader:    new(mockTargetsReader),
		timeSrc:   new(mockTimeSource),
		material:  new(mockMaterialSource),
		invoice:   new(mockInvoiceSource),
		publisher: new(mockPublisher),
		metrics:   observability.NewInMemoryMetrics(),
	}
	loader := NewAggregateLoader(f.timeSrc, f.material, f.invoice, f.metrics, nil, DefaultAggregateLoaderConfig())
	f.sweep = NewHealthSweep(f.reader, loader, f.publisher, f.metrics, nil, 4).
		WithClock(func() time.Time { return sweepNow })
	return f
}

func (f *sweepFixture) withAggregates(id uuid.UUID, hours, costs float64, invoice bool) {
	f.timeSrc.On("SumActualHours", mock.Anything, id).Return(hours, nil)
	f.material.On("SumMaterialCosts", mock.Anything, id).Return(costs, nil)
	f.invoice.On("HasInvoice", mock.Anything, id).Return(invoice, nil)
}

func completeTargets(name string, status domain.Status) domain.Targets {
	manager := uuid.New()
	return domain.Targets{
		ID:               uuid.New(),
		Name:             name,
		Status:           status,
		PlannedHours:     domain.Float(40),
		TargetRevenue:    domain.Float(5000),
		EndDate:          domain.Date(sweepNow.AddDate(0, 1, 0)),
		ProjectManagerID: &manager,
	}
}

func TestHealthSweep_Run(t *testing.T) {
	f := newSweepFixture()

	healthy := completeTargets("Attic insulation", domain.StatusInProgress)
	overrun := completeTargets("Bathroom", domain.StatusInProgress)
	unbilled := completeTargets("Carport", domain.StatusCompleted)

	f.reader.On("ListTargets", mock.Anything, domain.ListFilter{}).
		Return([]domain.Targets{healthy, overrun, unbilled}, nil)
	f.withAggregates(healthy.ID, 20, 1000, false)
	f.withAggregates(overrun.ID, 60, 1000, false)
	f.withAggregates(unbilled.ID, 30, 2000, false)
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result, err := f.sweep.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, SweepResult{Evaluated: 3, Red: 1, Yellow: 1, Green: 1, Published: 2}, result)

	require.Len(t, f.publisher.messages, 2)
	assert.Equal(t, RoutingKeyHealthRed, f.publisher.messages[0].routingKey)
	assert.Equal(t, RoutingKeyInvoiceMissing, f.publisher.messages[1].routingKey)

	var alert ProjectHealthAlert
	require.NoError(t, json.Unmarshal(f.publisher.messages[0].payload, &alert))
	assert.Equal(t, overrun.ID, alert.ProjectID)
	assert.Equal(t, "red", alert.Status)
	require.Len(t, alert.Reasons, 1)
	assert.Equal(t, "TIME_OVER_PLANNED", alert.Reasons[0].Code)
	assert.Equal(t, sweepNow, alert.ComputedAt)

	assert.Equal(t, int64(1), f.metrics.GetCounter(observability.MetricHealthEvaluations, observability.T("status", "red")))
	assert.Equal(t, int64(1), f.metrics.GetCounter(observability.MetricAlertsPublished, observability.T("routing_key", RoutingKeyHealthRed)))
}

func TestHealthSweep_PublishFailureIsCounted(t *testing.T) {
	f := newSweepFixture()

	overrun := completeTargets("Roof", domain.StatusInProgress)
	f.reader.On("ListTargets", mock.Anything, domain.ListFilter{}).Return([]domain.Targets{overrun}, nil)
	f.withAggregates(overrun.ID, 60, 0, false)
	f.publisher.On("Publish", mock.Anything, RoutingKeyHealthRed, mock.Anything).Return(errors.New("broker down"))

	result, err := f.sweep.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.PublishFailures)
	assert.Equal(t, 0, result.Published)
	assert.Equal(t, int64(1), f.metrics.GetCounter(observability.MetricAlertPublishFails, observability.T("routing_key", RoutingKeyHealthRed)))
}

func TestHealthSweep_ListFailure(t *testing.T) {
	f := newSweepFixture()
	f.reader.On("ListTargets", mock.Anything, domain.ListFilter{}).Return(nil, errors.New("db down"))

	_, err := f.sweep.Run(context.Background())

	assert.ErrorContains(t, err, "list projects")
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestHealthSweep_RunEveryStopsOnCancel(t *testing.T) {
	f := newSweepFixture()
	f.reader.On("ListTargets", mock.Anything, domain.ListFilter{}).Return([]domain.Targets{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.sweep.RunEvery(ctx, time.Hour)

	assert.ErrorIs(t, err, context.Canceled)
	f.reader.AssertNumberOfCalls(t, "ListTargets", 1)
}

func TestNewProjectHealthAlert_IncludesNextAction(t *testing.T) {
	targets := completeTargets("Garden", domain.StatusCompleted)
	health := domain.Evaluate(targets.ID, targets, domain.NewAggregates(10, 10, false), sweepNow)

	alert := NewProjectHealthAlert(targets, health)

	require.NotNil(t, alert.NextAction)
	assert.Equal(t, "CREATE_INVOICE", alert.NextAction.Key)
	assert.Equal(t, "/invoices/new?project="+targets.ID.String(), alert.NextAction.CTARoute)
}
