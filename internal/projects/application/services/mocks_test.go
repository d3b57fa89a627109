package services

import (
	"context"

	"github.com/felixgeelhaar/cockpit/internal/projects/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockTimeSource struct {
	mock.Mock
}

func (m *mockTimeSource) SumActualHours(ctx context.Context, projectID uuid.UUID) (float64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(float64), args.Error(1)
}

type mockMaterialSource struct {
	mock.Mock
}

func (m *mockMaterialSource) SumMaterialCosts(ctx context.Context, projectID uuid.UUID) (float64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(float64), args.Error(1)
}

type mockInvoiceSource struct {
	mock.Mock
}

func (m *mockInvoiceSource) HasInvoice(ctx context.Context, projectID uuid.UUID) (bool, error) {
	args := m.Called(ctx, projectID)
	return args.Bool(0), args.Error(1)
}

type mockTargetsReader struct {
	mock.Mock
}

func (m *mockTargetsReader) LoadTargets(ctx context.Context, projectID uuid.UUID) (domain.Targets, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(domain.Targets), args.Error(1)
}

func (m *mockTargetsReader) ListTargets(ctx context.Context, filter domain.ListFilter) ([]domain.Targets, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Targets), args.Error(1)
}

type recordedMessage struct {
	routingKey string
	payload    []byte
}

type mockPublisher struct {
	mock.Mock
	messages []recordedMessage
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	args := m.Called(ctx, routingKey, payload)
	if args.Error(0) == nil {
		m.messages = append(m.messages, recordedMessage{routingKey: routingKey, payload: payload})
	}
	return args.Error(0)
}

func (m *mockPublisher) Close() error {
	return nil
}
