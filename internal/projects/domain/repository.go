package domain

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows the projects returned by TargetsReader.ListTargets.
type ListFilter struct {
	// Status restricts the result to one lifecycle status when set.
	Status Status
	// ExcludeCompleted drops completed projects.
	ExcludeCompleted bool
	// Limit caps the number of projects. Zero means no limit.
	Limit int
}

// TargetsReader loads the planned values of projects.
type TargetsReader interface {
	// LoadTargets returns ErrProjectNotFound when no project has the given ID.
	LoadTargets(ctx context.Context, projectID uuid.UUID) (Targets, error)
	ListTargets(ctx context.Context, filter ListFilter) ([]Targets, error)
}

// TimeSource sums the working hours logged on a project.
type TimeSource interface {
	SumActualHours(ctx context.Context, projectID uuid.UUID) (float64, error)
}

// MaterialSource sums the material costs recorded on a project.
type MaterialSource interface {
	SumMaterialCosts(ctx context.Context, projectID uuid.UUID) (float64, error)
}

// InvoiceSource reports whether an invoice references a project.
type InvoiceSource interface {
	HasInvoice(ctx context.Context, projectID uuid.UUID) (bool, error)
}
