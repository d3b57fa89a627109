package domain

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// NextActionKey identifies a recommended remedial step.
type NextActionKey string

const (
	NextActionSetTargets     NextActionKey = "SET_TARGETS"
	NextActionBookFirstTime  NextActionKey = "BOOK_FIRST_TIME"
	NextActionAssignManager  NextActionKey = "ASSIGN_MANAGER"
	NextActionReviewDeadline NextActionKey = "REVIEW_DEADLINE"
	NextActionCreateInvoice  NextActionKey = "CREATE_INVOICE"
	NextActionAddMaterial    NextActionKey = "ADD_MATERIAL"
)

// RouteProjectPlaceholder is replaced by the project ID in CTA routes.
const RouteProjectPlaceholder = "{id}"

// NextAction is the single recommended step for a project.
type NextAction struct {
	Key         NextActionKey
	Title       string
	Description string
	CTALabel    string
	CTARoute    string
}

type nextActionDefinition struct {
	priority    int
	title       string
	description string
	ctaLabel    string
	ctaRoute    string
}

// nextActionCatalogue is ordered by priority: lower numbers win.
var nextActionCatalogue = map[NextActionKey]nextActionDefinition{
	NextActionSetTargets: {
		priority:    1,
		title:       "Set targets",
		description: "Define planned hours, target revenue and end date",
		ctaLabel:    "Edit project",
		ctaRoute:    "/projects/{id}/edit",
	},
	NextActionBookFirstTime: {
		priority:    2,
		title:       "Book first time",
		description: "Log working time for this project",
		ctaLabel:    "Log time",
		ctaRoute:    "/projects/{id}?tab=time",
	},
	NextActionAssignManager: {
		priority:    3,
		title:       "Assign project manager",
		description: "Pick a project manager who is responsible for delivery",
		ctaLabel:    "Edit team",
		ctaRoute:    "/projects/{id}/edit",
	},
	NextActionReviewDeadline: {
		priority:    4,
		title:       "Review deadline",
		description: "The end date is close, check the progress",
		ctaLabel:    "View project",
		ctaRoute:    "/projects/{id}",
	},
	NextActionCreateInvoice: {
		priority:    5,
		title:       "Create invoice",
		description: "The project is completed, create the invoice",
		ctaLabel:    "Create invoice",
		ctaRoute:    "/invoices/new?project={id}",
	},
	NextActionAddMaterial: {
		priority:    6,
		title:       "Record material",
		description: "Add the materials used on this project",
		ctaLabel:    "Add material",
		ctaRoute:    "/projects/{id}?tab=materials",
	},
}

// reasonActions maps reason codes to their remedy. Time and cost overruns
// have no remedy in the catalogue.
var reasonActions = map[ReasonCode]NextActionKey{
	ReasonMissingTargets:   NextActionSetTargets,
	ReasonNoTimeEntries:    NextActionBookFirstTime,
	ReasonNoProjectManager: NextActionAssignManager,
	ReasonDeadlineRisk:     NextActionReviewDeadline,
	ReasonMissingInvoice:   NextActionCreateInvoice,
}

// String returns the string representation of the key.
func (k NextActionKey) String() string {
	return string(k)
}

// IsValid returns true if the key is part of the catalogue.
func (k NextActionKey) IsValid() bool {
	_, ok := nextActionCatalogue[k]
	return ok
}

// Priority returns the static priority of the key; 1 is the most urgent.
// Unknown keys sort last.
func (k NextActionKey) Priority() int {
	def, ok := nextActionCatalogue[k]
	if !ok {
		return len(nextActionCatalogue) + 1
	}
	return def.priority
}

// ActionForReason returns the remedy for a reason code, if there is one.
func ActionForReason(code ReasonCode) (NextActionKey, bool) {
	key, ok := reasonActions[code]
	return key, ok
}

// ResolveNextAction picks the highest priority action implied by the reasons.
// Without any candidate it falls back to booking time when no hours are
// logged, then to recording material when no costs are logged.
func ResolveNextAction(projectID uuid.UUID, a Aggregates, reasons []HealthReason) (NextAction, bool) {
	seen := make(map[NextActionKey]bool)
	var candidates []NextActionKey
	for _, r := range reasons {
		key, ok := reasonActions[r.Code]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		candidates = append(candidates, key)
	}

	if len(candidates) == 0 && a.ActualHours == 0 {
		candidates = append(candidates, NextActionBookFirstTime)
	}
	if len(candidates) == 0 && a.ActualCosts == 0 {
		candidates = append(candidates, NextActionAddMaterial)
	}
	if len(candidates) == 0 {
		return NextAction{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority() < candidates[j].Priority()
	})
	return newNextAction(candidates[0], projectID), true
}

func newNextAction(key NextActionKey, projectID uuid.UUID) NextAction {
	def := nextActionCatalogue[key]
	return NextAction{
		Key:         key,
		Title:       def.title,
		Description: def.description,
		CTALabel:    def.ctaLabel,
		CTARoute:    strings.ReplaceAll(def.ctaRoute, RouteProjectPlaceholder, projectID.String()),
	}
}
