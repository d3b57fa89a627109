package queries

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/felixgeelhaar/cockpit/internal/projects/domain"
	"github.com/felixgeelhaar/cockpit/pkg/observability"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// DefaultListConcurrency bounds how many projects are evaluated at once.
const DefaultListConcurrency = 8

// ProjectHealthSummary is the health of one project in a portfolio listing.
type ProjectHealthSummary struct {
	ProjectID uuid.UUID
	Name      string
	Health    domain.ProjectHealth
}

// ListProjectHealthQuery contains the parameters for listing project health.
type ListProjectHealthQuery struct {
	Status           string // Filter by lifecycle status ("anfrage", ..., "abgeschlossen")
	ExcludeCompleted bool
	Limit            int
}

// ListProjectHealthHandler computes the health of many projects.
type ListProjectHealthHandler struct {
	targets     domain.TargetsReader
	aggregates  AggregatesLoader
	metrics     observability.Metrics
	logger      *slog.Logger
	now         func() time.Time
	concurrency int
}

// NewListProjectHealthHandler creates a new ListProjectHealthHandler.
func NewListProjectHealthHandler(
	targets domain.TargetsReader,
	aggregates AggregatesLoader,
	metrics observability.Metrics,
	logger *slog.Logger,
	concurrency int,
) *ListProjectHealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if concurrency < 1 {
		concurrency = DefaultListConcurrency
	}
	return &ListProjectHealthHandler{
		targets:     targets,
		aggregates:  aggregates,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
		concurrency: concurrency,
	}
}

// WithClock replaces the clock used for deadline evaluation.
func (h *ListProjectHealthHandler) WithClock(now func() time.Time) *ListProjectHealthHandler {
	h.now = now
	return h
}

// Handle executes the ListProjectHealthQuery. Results are ordered red, yellow,
// green and then by project name.
func (h *ListProjectHealthHandler) Handle(ctx context.Context, query ListProjectHealthQuery) ([]ProjectHealthSummary, error) {
	filter := domain.ListFilter{
		ExcludeCompleted: query.ExcludeCompleted,
		Limit:            query.Limit,
	}
	if query.Status != "" {
		status, err := domain.ParseStatus(query.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}

	ctx, span := observability.StartSpan(ctx, "projects.list_health")

	projects, err := observability.TimeOperationResult(h.logger, h.metrics, "projects.list_targets",
		func() ([]domain.Targets, error) { return h.targets.ListTargets(ctx, filter) })
	if err != nil {
		err = fmt.Errorf("list projects: %w", err)
		observability.EndSpan(span, err)
		return nil, err
	}

	now := h.now()
	summaries := make([]ProjectHealthSummary, len(projects))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.concurrency)
	for i, targets := range projects {
		g.Go(func() error {
			aggregates := h.aggregates.Load(gctx, targets.ID)
			health := domain.Evaluate(targets.ID, targets, aggregates, now)
			h.metrics.Counter(observability.MetricHealthEvaluations, 1,
				observability.T("status", health.Status.String()))
			summaries[i] = ProjectHealthSummary{
				ProjectID: targets.ID,
				Name:      targets.Name,
				Health:    health,
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(summaries, func(i, j int) bool {
		ri, rj := summaries[i].Health.Status.Rank(), summaries[j].Health.Status.Rank()
		if ri != rj {
			return ri < rj
		}
		return summaries[i].Name < summaries[j].Name
	})

	span.SetAttributes(attribute.Int("projects.count", len(summaries)))
	observability.EndSpan(span, nil)

	h.logger.DebugContext(ctx, "project health listed", "count", len(summaries))
	return summaries, nil
}

// ToSummaryDTOs maps portfolio results to their wire representation.
func ToSummaryDTOs(summaries []ProjectHealthSummary) []ProjectHealthSummaryDTO {
	dtos := make([]ProjectHealthSummaryDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = ProjectHealthSummaryDTO{
			ProjectID: s.ProjectID,
			Name:      s.Name,
			Health:    ToProjectHealthDTO(s.Health),
		}
	}
	return dtos
}
