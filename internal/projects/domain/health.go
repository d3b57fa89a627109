package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProjectHealth is the live-computed health of a project. It is rebuilt on
// every request and never persisted.
type ProjectHealth struct {
	Status     TrafficLight
	Reasons    []HealthReason
	NextAction *NextAction
	Economy    EconomySummary
	ComputedAt time.Time
}

// Evaluate computes the health of a project from its targets and aggregates.
// It performs no I/O and returns the same status, reasons and next action for
// the same inputs within one calendar day.
func Evaluate(projectID uuid.UUID, t Targets, a Aggregates, now time.Time) ProjectHealth {
	reasons := EvaluateReasons(t, a, now)

	health := ProjectHealth{
		Status:     StatusOf(reasons),
		Reasons:    reasons,
		Economy:    SummarizeEconomy(t, a),
		ComputedAt: now.UTC(),
	}
	if action, ok := ResolveNextAction(projectID, a, reasons); ok {
		health.NextAction = &action
	}
	return health
}

// NotFoundHealth is the fixed result used when a project could not be
// loaded: yellow, one synthetic reason, no next action and an empty economy.
func NotFoundHealth(now time.Time) ProjectHealth {
	return ProjectHealth{
		Status: TrafficLightYellow,
		Reasons: []HealthReason{{
			Code:     ReasonMissingTargets,
			Severity: SeverityYellow,
			Title:    "Project not found",
			Detail:   "The project data could not be loaded.",
		}},
		Economy:    EconomySummary{},
		ComputedAt: now.UTC(),
	}
}

// IsNotFound reports whether h is the fallback built by NotFoundHealth.
func (h ProjectHealth) IsNotFound() bool {
	return len(h.Reasons) == 1 &&
		h.Reasons[0].Code == ReasonMissingTargets &&
		h.Reasons[0].Title == "Project not found"
}
