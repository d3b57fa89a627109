package domain

// ReasonCode identifies why a project is not green.
type ReasonCode string

const (
	// ReasonMissingTargets indicates planned hours, target revenue or end date are unset.
	ReasonMissingTargets ReasonCode = "MISSING_TARGETS"
	// ReasonNoTimeEntries indicates no working time has been logged.
	ReasonNoTimeEntries ReasonCode = "NO_TIME_ENTRIES"
	// ReasonNoProjectManager indicates nobody is responsible for the project.
	ReasonNoProjectManager ReasonCode = "NO_PROJECT_MANAGER"
	// ReasonTimeOverPlanned indicates logged hours exceed the plan.
	ReasonTimeOverPlanned ReasonCode = "TIME_OVER_PLANNED"
	// ReasonCostOverTarget indicates costs exceed the target revenue.
	ReasonCostOverTarget ReasonCode = "COST_OVER_TARGET"
	// ReasonDeadlineRisk indicates the end date is close.
	ReasonDeadlineRisk ReasonCode = "DEADLINE_RISK"
	// ReasonMissingInvoice indicates a completed project has no invoice.
	ReasonMissingInvoice ReasonCode = "MISSING_INVOICE"
)

// String returns the string representation of the reason code.
func (c ReasonCode) String() string {
	return string(c)
}

// IsValid returns true if the reason code is a known value.
func (c ReasonCode) IsValid() bool {
	switch c {
	case ReasonMissingTargets, ReasonNoTimeEntries, ReasonNoProjectManager,
		ReasonTimeOverPlanned, ReasonCostOverTarget, ReasonDeadlineRisk, ReasonMissingInvoice:
		return true
	default:
		return false
	}
}

// Title returns the short headline shown for the reason code.
func (c ReasonCode) Title() string {
	switch c {
	case ReasonMissingTargets:
		return "Targets missing"
	case ReasonNoTimeEntries:
		return "No time entries"
	case ReasonNoProjectManager:
		return "No project manager"
	case ReasonTimeOverPlanned:
		return "Hours over plan"
	case ReasonCostOverTarget:
		return "Costs over target"
	case ReasonDeadlineRisk:
		return "Deadline at risk"
	case ReasonMissingInvoice:
		return "Invoice missing"
	default:
		return ""
	}
}

// Severity is the severity of a single reason. There is no green severity:
// the absence of reasons is what makes a project green.
type Severity string

const (
	SeverityYellow Severity = "yellow"
	SeverityRed    Severity = "red"
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// IsValid returns true if the severity is a known value.
func (s Severity) IsValid() bool {
	return s == SeverityYellow || s == SeverityRed
}

// HealthReason explains one detected deviation between targets and actuals.
type HealthReason struct {
	Code     ReasonCode
	Severity Severity
	Title    string
	Detail   string
}

// NewHealthReason creates a reason titled after its code.
func NewHealthReason(code ReasonCode, severity Severity, detail string) HealthReason {
	return HealthReason{
		Code:     code,
		Severity: severity,
		Title:    code.Title(),
		Detail:   detail,
	}
}
