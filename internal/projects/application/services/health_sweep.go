package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/felixgeelhaar/cockpit/internal/projects/domain"
	"github.com/felixgeelhaar/cockpit/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/cockpit/pkg/observability"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Routing keys of health alerts.
const (
	RoutingKeyHealthRed      = "projects.health.red"
	RoutingKeyInvoiceMissing = "projects.health.invoice_missing"
)

// ProjectHealthAlert is the message published for a project that needs
// attention.
type ProjectHealthAlert struct {
	ProjectID  uuid.UUID     `json:"project_id"`
	Name       string        `json:"name"`
	Status     string        `json:"status"`
	Reasons    []AlertReason `json:"reasons"`
	NextAction *AlertAction  `json:"next_action,omitempty"`
	ComputedAt time.Time     `json:"computed_at"`
}

// AlertReason is one reason carried by an alert.
type AlertReason struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Detail   string `json:"detail"`
}

// AlertAction is the recommended next step carried by an alert.
type AlertAction struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	CTALabel string `json:"cta_label"`
	CTARoute string `json:"cta_route"`
}

// SweepResult summarises one sweep.
type SweepResult struct {
	Evaluated       int
	Red             int
	Yellow          int
	Green           int
	Published       int
	PublishFailures int
}

// HealthSweep evaluates every project and publishes alerts for red projects
// and for completed projects without an invoice. Results are published,
// never stored.
type HealthSweep struct {
	targets     domain.TargetsReader
	aggregates  *AggregateLoader
	publisher   eventbus.Publisher
	metrics     observability.Metrics
	logger      *slog.Logger
	now         func() time.Time
	concurrency int
}

// NewHealthSweep creates a health sweep.
func NewHealthSweep(
	targets domain.TargetsReader,
	aggregates *AggregateLoader,
	publisher eventbus.Publisher,
	metrics observability.Metrics,
	logger *slog.Logger,
	concurrency int,
) *HealthSweep {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &HealthSweep{
		targets:     targets,
		aggregates:  aggregates,
		publisher:   publisher,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
		concurrency: concurrency,
	}
}

// WithClock replaces the clock used for evaluation.
func (s *HealthSweep) WithClock(now func() time.Time) *HealthSweep {
	s.now = now
	return s
}

// Run performs one sweep. It fails only when the project list cannot be read;
// publish failures are logged and counted.
func (s *HealthSweep) Run(ctx context.Context) (SweepResult, error) {
	timer := observability.StartTimer("health_sweep").WithMetrics(s.metrics)
	s.metrics.Counter(observability.MetricSweepRuns, 1)

	projects, err := s.targets.ListTargets(ctx, domain.ListFilter{})
	if err != nil {
		timer.StopWithError(err)
		return SweepResult{}, fmt.Errorf("list projects: %w", err)
	}

	now := s.now()
	var (
		mu     sync.Mutex
		result SweepResult
		alerts []alert
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, targets := range projects {
		g.Go(func() error {
			aggregates := s.aggregates.Load(gctx, targets.ID)
			health := domain.Evaluate(targets.ID, targets, aggregates, now)
			s.metrics.Counter(observability.MetricHealthEvaluations, 1,
				observability.T("status", health.Status.String()))

			mu.Lock()
			defer mu.Unlock()
			result.Evaluated++
			switch health.Status {
			case domain.TrafficLightRed:
				result.Red++
			case domain.TrafficLightYellow:
				result.Yellow++
			default:
				result.Green++
			}
			alerts = append(alerts, alertsFor(targets, health)...)
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].message.Name < alerts[j].message.Name
	})
	for _, a := range alerts {
		if err := s.publish(ctx, a); err != nil {
			result.PublishFailures++
			continue
		}
		result.Published++
	}

	s.metrics.Timing(observability.MetricSweepDuration, timer.Stop())
	s.logger.InfoContext(ctx, "health sweep finished",
		"evaluated", result.Evaluated,
		"red", result.Red,
		"yellow", result.Yellow,
		"green", result.Green,
		"published", result.Published,
		"publish_failures", result.PublishFailures,
	)
	return result, nil
}

// RunEvery runs a sweep immediately and then on every tick until ctx is done.
func (s *HealthSweep) RunEvery(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		runCtx := observability.WithCorrelationID(ctx, "")
		if _, err := s.Run(runCtx); err != nil {
			s.logger.ErrorContext(runCtx, "health sweep failed", observability.ErrorKey, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

type alert struct {
	routingKey string
	message    ProjectHealthAlert
}

func alertsFor(targets domain.Targets, health domain.ProjectHealth) []alert {
	var out []alert
	if health.Status == domain.TrafficLightRed {
		out = append(out, alert{routingKey: RoutingKeyHealthRed, message: NewProjectHealthAlert(targets, health)})
	}
	for _, r := range health.Reasons {
		if r.Code == domain.ReasonMissingInvoice {
			out = append(out, alert{routingKey: RoutingKeyInvoiceMissing, message: NewProjectHealthAlert(targets, health)})
			break
		}
	}
	return out
}

func (s *HealthSweep) publish(ctx context.Context, a alert) error {
	payload, err := json.Marshal(a.message)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	if err := s.publisher.Publish(ctx, a.routingKey, payload); err != nil {
		s.metrics.Counter(observability.MetricAlertPublishFails, 1, observability.T("routing_key", a.routingKey))
		s.logger.ErrorContext(ctx, "failed to publish health alert",
			observability.ProjectIDKey, a.message.ProjectID,
			"routing_key", a.routingKey,
			observability.ErrorKey, err,
		)
		return err
	}
	s.metrics.Counter(observability.MetricAlertsPublished, 1, observability.T("routing_key", a.routingKey))
	return nil
}

// NewProjectHealthAlert builds the alert message for a project.
func NewProjectHealthAlert(targets domain.Targets, health domain.ProjectHealth) ProjectHealthAlert {
	reasons := make([]AlertReason, len(health.Reasons))
	for i, r := range health.Reasons {
		reasons[i] = AlertReason{
			Code:     r.Code.String(),
			Severity: r.Severity.String(),
			Title:    r.Title,
			Detail:   r.Detail,
		}
	}

	msg := ProjectHealthAlert{
		ProjectID:  targets.ID,
		Name:       targets.Name,
		Status:     health.Status.String(),
		Reasons:    reasons,
		ComputedAt: health.ComputedAt,
	}
	if a := health.NextAction; a != nil {
		msg.NextAction = &AlertAction{
			Key:      a.Key.String(),
			Title:    a.Title,
			CTALabel: a.CTALabel,
			CTARoute: a.CTARoute,
		}
	}
	return msg
}
