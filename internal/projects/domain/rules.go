package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Rule inspects targets and aggregates and reports at most one reason.
// Rules are pure and independent of each other.
type Rule func(t Targets, a Aggregates, now time.Time) (HealthReason, bool)

// Rules lists every rule in declaration order. The order only determines the
// order of reasons in the output; status aggregation does not depend on it.
var Rules = []Rule{
	func(t Targets, _ Aggregates, _ time.Time) (HealthReason, bool) { return CheckMissingTargets(t) },
	func(_ Targets, a Aggregates, _ time.Time) (HealthReason, bool) { return CheckNoTimeEntries(a) },
	func(t Targets, _ Aggregates, _ time.Time) (HealthReason, bool) { return CheckNoProjectManager(t) },
	func(t Targets, a Aggregates, _ time.Time) (HealthReason, bool) { return CheckTimeOverPlanned(t, a) },
	func(t Targets, a Aggregates, _ time.Time) (HealthReason, bool) { return CheckCostOverTarget(t, a) },
	func(t Targets, _ Aggregates, now time.Time) (HealthReason, bool) { return CheckDeadlineRisk(t, now) },
	CheckMissingInvoice,
}

// CheckMissingTargets reports a yellow reason listing every unset target
// field in canonical order: planned hours, target revenue, end date.
func CheckMissingTargets(t Targets) (HealthReason, bool) {
	var missing []string
	if t.PlannedHours == nil {
		missing = append(missing, "planned hours")
	}
	if t.TargetRevenue == nil {
		missing = append(missing, "target revenue")
	}
	if t.EndDate == nil {
		missing = append(missing, "end date")
	}
	if len(missing) == 0 {
		return HealthReason{}, false
	}
	return NewHealthReason(ReasonMissingTargets, SeverityYellow,
		"Missing: "+strings.Join(missing, ", ")), true
}

// CheckNoTimeEntries reports a yellow reason when no hours are logged. It
// does not try to tell a project that has not started from a misconfigured one.
func CheckNoTimeEntries(a Aggregates) (HealthReason, bool) {
	if a.ActualHours != 0 {
		return HealthReason{}, false
	}
	return NewHealthReason(ReasonNoTimeEntries, SeverityYellow,
		"No working hours have been logged yet."), true
}

// CheckNoProjectManager reports a yellow reason when no manager is assigned.
func CheckNoProjectManager(t Targets) (HealthReason, bool) {
	if t.HasProjectManager() {
		return HealthReason{}, false
	}
	return NewHealthReason(ReasonNoProjectManager, SeverityYellow,
		"Please assign a project manager."), true
}

// CheckTimeOverPlanned compares logged hours against planned hours.
func CheckTimeOverPlanned(t Targets, a Aggregates) (HealthReason, bool) {
	if t.PlannedHours == nil || *t.PlannedHours <= 0 {
		return HealthReason{}, false
	}
	planned := *t.PlannedHours
	overPct := (a.ActualHours - planned) / planned

	severity, ok := overrunSeverity(overPct, TimeWarningPctOver, TimeCriticalPctOver)
	if !ok {
		return HealthReason{}, false
	}
	detail := fmt.Sprintf("%.1fh of %sh planned (%d%% over plan)",
		a.ActualHours, formatNumber(planned), roundHalfUp(overPct*100))
	return NewHealthReason(ReasonTimeOverPlanned, severity, detail), true
}

// CheckCostOverTarget compares actual costs against the target revenue.
func CheckCostOverTarget(t Targets, a Aggregates) (HealthReason, bool) {
	if t.TargetRevenue == nil || *t.TargetRevenue <= 0 {
		return HealthReason{}, false
	}
	target := *t.TargetRevenue
	overPct := (a.ActualCosts - target) / target

	severity, ok := overrunSeverity(overPct, CostWarningPctOver, CostCriticalPctOver)
	if !ok {
		return HealthReason{}, false
	}
	detail := fmt.Sprintf("%.0f€ costs against %s€ target revenue (%d%% over plan)",
		a.ActualCosts, formatNumber(target), roundHalfUp(overPct*100))
	return NewHealthReason(ReasonCostOverTarget, severity, detail), true
}

// CheckDeadlineRisk reports an approaching end date. Deadlines that have
// already passed are not flagged here.
func CheckDeadlineRisk(t Targets, now time.Time) (HealthReason, bool) {
	days, ok := DaysUntilDeadline(t.EndDate, now)
	if !ok || days < 0 {
		return HealthReason{}, false
	}

	var severity Severity
	switch {
	case days <= DeadlineCriticalDays:
		severity = SeverityRed
	case days <= DeadlineWarningDays:
		severity = SeverityYellow
	default:
		return HealthReason{}, false
	}

	unit := "days"
	if days == 1 {
		unit = "day"
	}
	return NewHealthReason(ReasonDeadlineRisk, severity,
		fmt.Sprintf("Only %d %s left until the planned end.", days, unit)), true
}

// CheckMissingInvoice reports a completed project that has no invoice.
func CheckMissingInvoice(t Targets, a Aggregates, _ time.Time) (HealthReason, bool) {
	if !t.Status.IsCompleted() || a.HasInvoice {
		return HealthReason{}, false
	}
	return NewHealthReason(ReasonMissingInvoice, SeverityYellow,
		"The project is completed but no invoice is linked."), true
}

// EvaluateReasons runs every rule and collects the reasons that fired.
func EvaluateReasons(t Targets, a Aggregates, now time.Time) []HealthReason {
	reasons := make([]HealthReason, 0, len(Rules))
	for _, rule := range Rules {
		if reason, ok := rule(t, a, now); ok {
			reasons = append(reasons, reason)
		}
	}
	return reasons
}

// overrunSeverity checks the critical threshold first so a value above both
// thresholds is always red.
func overrunSeverity(overPct, warning, critical float64) (Severity, bool) {
	switch {
	case overPct > critical:
		return SeverityRed, true
	case overPct > warning:
		return SeverityYellow, true
	default:
		return "", false
	}
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
