package queries

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/cockpit/internal/projects/domain"
	"github.com/felixgeelhaar/cockpit/pkg/observability"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// AggregatesLoader loads the observed values of a project. Implementations
// absorb source failures and always return a value.
type AggregatesLoader interface {
	Load(ctx context.Context, projectID uuid.UUID) domain.Aggregates
}

// GetProjectHealthQuery contains the parameters for computing a project's health.
type GetProjectHealthQuery struct {
	ProjectID uuid.UUID
}

// GetProjectHealthHandler computes the live health of one project.
type GetProjectHealthHandler struct {
	targets    domain.TargetsReader
	aggregates AggregatesLoader
	metrics    observability.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

// NewGetProjectHealthHandler creates a new GetProjectHealthHandler.
func NewGetProjectHealthHandler(
	targets domain.TargetsReader,
	aggregates AggregatesLoader,
	metrics observability.Metrics,
	logger *slog.Logger,
) *GetProjectHealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &GetProjectHealthHandler{
		targets:    targets,
		aggregates: aggregates,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock replaces the clock used for deadline evaluation.
func (h *GetProjectHealthHandler) WithClock(now func() time.Time) *GetProjectHealthHandler {
	h.now = now
	return h
}

// Handle executes the GetProjectHealthQuery. It returns
// domain.ErrProjectNotFound when the project does not exist.
func (h *GetProjectHealthHandler) Handle(ctx context.Context, query GetProjectHealthQuery) (*domain.ProjectHealth, error) {
	ctx, span := observability.StartSpan(ctx, "projects.get_health",
		attribute.String(observability.ProjectIDKey, query.ProjectID.String()))

	targets, err := h.targets.LoadTargets(ctx, query.ProjectID)
	if err != nil {
		if !errors.Is(err, domain.ErrProjectNotFound) {
			err = fmt.Errorf("load targets: %w", err)
		}
		observability.EndSpan(span, err)
		return nil, err
	}

	aggregates := h.aggregates.Load(ctx, query.ProjectID)
	health := domain.Evaluate(query.ProjectID, targets, aggregates, h.now())

	h.metrics.Counter(observability.MetricHealthEvaluations, 1,
		observability.T("status", health.Status.String()))
	span.SetAttributes(
		attribute.String("health.status", health.Status.String()),
		attribute.Int("health.reasons", len(health.Reasons)),
	)
	observability.EndSpan(span, nil)

	return &health, nil
}

// ComputeHealth always returns a health result. A project that does not exist
// or cannot be loaded yields the fixed not-found result.
func (h *GetProjectHealthHandler) ComputeHealth(ctx context.Context, projectID uuid.UUID) domain.ProjectHealth {
	health, err := h.Handle(ctx, GetProjectHealthQuery{ProjectID: projectID})
	if err == nil {
		return *health
	}

	if errors.Is(err, domain.ErrProjectNotFound) {
		h.logger.InfoContext(ctx, "project not found, using fallback health",
			observability.ProjectIDKey, projectID)
	} else {
		h.logger.WarnContext(ctx, "project could not be loaded, using fallback health",
			observability.ProjectIDKey, projectID,
			observability.ErrorKey, err)
	}
	h.metrics.Counter(observability.MetricHealthNotFound, 1)
	return domain.NotFoundHealth(h.now())
}
