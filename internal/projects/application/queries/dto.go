package queries

import (
	"time"

	"github.com/felixgeelhaar/cockpit/internal/projects/domain"
	"github.com/google/uuid"
)

// ProjectHealthDTO is the wire representation of a project's health.
type ProjectHealthDTO struct {
	Status     string            `json:"status"`
	Reasons    []HealthReasonDTO `json:"reasons"`
	NextAction *NextActionDTO    `json:"next_action"`
	Economy    EconomySummaryDTO `json:"economy"`
	ComputedAt time.Time         `json:"computed_at"`
}

// HealthReasonDTO is the wire representation of a health reason.
type HealthReasonDTO struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Detail   string `json:"detail"`
}

// NextActionDTO is the wire representation of a next action.
type NextActionDTO struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CTALabel    string `json:"cta_label"`
	CTARoute    string `json:"cta_route"`
}

// EconomySummaryDTO is the wire representation of the economy summary.
type EconomySummaryDTO struct {
	TargetRevenue  *float64 `json:"target_revenue"`
	ActualCosts    float64  `json:"actual_costs"`
	GrossProfit    *float64 `json:"gross_profit"`
	GrossMarginPct *int     `json:"gross_margin_pct"`
}

// ProjectHealthSummaryDTO is one entry of a portfolio listing.
type ProjectHealthSummaryDTO struct {
	ProjectID uuid.UUID        `json:"project_id"`
	Name      string           `json:"name"`
	Health    ProjectHealthDTO `json:"health"`
}

// ToProjectHealthDTO maps a domain result to its wire representation.
func ToProjectHealthDTO(h domain.ProjectHealth) ProjectHealthDTO {
	reasons := make([]HealthReasonDTO, len(h.Reasons))
	for i, r := range h.Reasons {
		reasons[i] = HealthReasonDTO{
			Code:     r.Code.String(),
			Severity: r.Severity.String(),
			Title:    r.Title,
			Detail:   r.Detail,
		}
	}

	dto := ProjectHealthDTO{
		Status:  h.Status.String(),
		Reasons: reasons,
		Economy: EconomySummaryDTO{
			TargetRevenue:  h.Economy.TargetRevenue,
			ActualCosts:    h.Economy.ActualCosts,
			GrossProfit:    h.Economy.GrossProfit,
			GrossMarginPct: h.Economy.GrossMarginPct,
		},
		ComputedAt: h.ComputedAt,
	}
	if a := h.NextAction; a != nil {
		dto.NextAction = &NextActionDTO{
			Key:         a.Key.String(),
			Title:       a.Title,
			Description: a.Description,
			CTALabel:    a.CTALabel,
			CTARoute:    a.CTARoute,
		}
	}
	return dto
}
