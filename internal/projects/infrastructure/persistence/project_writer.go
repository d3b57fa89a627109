package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/cockpit/internal/projects/domain"
	"github.com/felixgeelhaar/cockpit/internal/shared/infrastructure/database"
)

// TimeEntry is a raw working-time record.
type TimeEntry struct {
	ID           uuid.UUID
	ProjectID    uuid.UUID
	EmployeeID   *uuid.UUID
	Start        time.Time
	End          *time.Time
	BreakMinutes *int
}

// MaterialEntry is a raw material record.
type MaterialEntry struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	Description string
	Quantity    *float64
	UnitPrice   *float64
	TotalCost   *float64
}

// Invoice is a raw invoice record. ProjectID may be nil for unassigned invoices.
type Invoice struct {
	ID        uuid.UUID
	ProjectID *uuid.UUID
	Number    string
	Amount    float64
}

// ProjectWriter stores projects and their raw records. It backs the seed
// command and integration tests; health itself is never written.
type ProjectWriter struct {
	exec   database.Executor
	driver database.Driver
}

// NewProjectWriter creates a writer for the given driver's SQL dialect.
func NewProjectWriter(exec database.Executor, driver database.Driver) *ProjectWriter {
	return &ProjectWriter{exec: exec, driver: driver}
}

// SaveProject inserts or updates a project's targets.
func (w *ProjectWriter) SaveProject(ctx context.Context, t domain.Targets) error {
	status := t.Status
	if status == "" {
		status = domain.StatusInquiry
	}

	query := database.Rebind(w.driver, `INSERT INTO projects
		(id, name, status, planned_hours, target_revenue, budget, end_date, project_manager_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			status = excluded.status,
			planned_hours = excluded.planned_hours,
			target_revenue = excluded.target_revenue,
			budget = excluded.budget,
			end_date = excluded.end_date,
			project_manager_id = excluded.project_manager_id,
			updated_at = CURRENT_TIMESTAMP`)

	_, err := w.exec.Exec(ctx, query,
		t.ID.String(), t.Name, status.String(),
		nullable(t.PlannedHours), nullable(t.TargetRevenue), nullable(t.Budget),
		nullableDate(t.EndDate), nullableUUID(t.ProjectManagerID),
	)
	if err != nil {
		return fmt.Errorf("save project %s: %w", t.ID, err)
	}
	return nil
}

// AddTimeEntry records working time on a project.
func (w *ProjectWriter) AddTimeEntry(ctx context.Context, e TimeEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	var end any
	if e.End != nil {
		end = e.End.UTC().Format(time.RFC3339)
	}

	query := database.Rebind(w.driver, `INSERT INTO time_entries
		(id, project_id, employee_id, start_time, end_time, break_duration)
		VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := w.exec.Exec(ctx, query,
		e.ID.String(), e.ProjectID.String(), nullableUUID(e.EmployeeID),
		e.Start.UTC().Format(time.RFC3339), end, nullable(e.BreakMinutes),
	)
	if err != nil {
		return fmt.Errorf("add time entry: %w", err)
	}
	return nil
}

// AddMaterialEntry records material on a project.
func (w *ProjectWriter) AddMaterialEntry(ctx context.Context, e MaterialEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	query := database.Rebind(w.driver, `INSERT INTO material_entries
		(id, project_id, description, quantity, unit_price, total_cost)
		VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := w.exec.Exec(ctx, query,
		e.ID.String(), e.ProjectID.String(), e.Description,
		nullable(e.Quantity), nullable(e.UnitPrice), nullable(e.TotalCost),
	)
	if err != nil {
		return fmt.Errorf("add material entry: %w", err)
	}
	return nil
}

// AddInvoice records an invoice.
func (w *ProjectWriter) AddInvoice(ctx context.Context, inv Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}

	query := database.Rebind(w.driver, `INSERT INTO invoices (id, project_id, number, amount)
		VALUES (?, ?, ?, ?)`)

	_, err := w.exec.Exec(ctx, query,
		inv.ID.String(), nullableUUID(inv.ProjectID), inv.Number, inv.Amount)
	if err != nil {
		return fmt.Errorf("add invoice: %w", err)
	}
	return nil
}

func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func nullableUUID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}
