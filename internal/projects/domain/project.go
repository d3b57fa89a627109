package domain

import (
	"time"

	"github.com/google/uuid"
)

// Targets holds the planned values of a project as loaded for one health
// computation. A nil pointer means the value was never set, which is not the
// same as a legitimate zero.
type Targets struct {
	ID               uuid.UUID
	Name             string
	Status           Status
	PlannedHours     *float64
	TargetRevenue    *float64
	EndDate          *time.Time
	ProjectManagerID *uuid.UUID
	Budget           *float64
}

// HasProjectManager returns true if a project manager is assigned.
func (t Targets) HasProjectManager() bool {
	return t.ProjectManagerID != nil && *t.ProjectManagerID != uuid.Nil
}

// Float returns a pointer to v. It keeps optional target literals short.
func Float(v float64) *float64 {
	return &v
}

// Date returns a pointer to the calendar day of t at midnight UTC.
func Date(t time.Time) *time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &day
}
