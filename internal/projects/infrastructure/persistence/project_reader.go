// Package persistence loads project targets and raw aggregates from SQL
// storage.
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/cockpit/internal/projects/domain"
	"github.com/felixgeelhaar/cockpit/internal/shared/infrastructure/database"
)

const dateLayout = "2006-01-02"

// ProjectReader reads project targets and sums raw time, material and invoice
// records. It implements domain.TargetsReader, domain.TimeSource,
// domain.MaterialSource and domain.InvoiceSource.
type ProjectReader struct {
	exec    database.Executor
	driver  database.Driver
	queries dialectQueries
}

// NewProjectReader creates a reader for the given driver's SQL dialect.
func NewProjectReader(exec database.Executor, driver database.Driver) *ProjectReader {
	return &ProjectReader{
		exec:    exec,
		driver:  driver,
		queries: queriesFor(driver),
	}
}

// LoadTargets returns the targets of one project, or domain.ErrProjectNotFound.
func (r *ProjectReader) LoadTargets(ctx context.Context, projectID uuid.UUID) (domain.Targets, error) {
	query := database.Rebind(r.driver, r.queries.selectTargets+` WHERE id = ?`)

	targets, err := scanTargets(r.exec.QueryRow(ctx, query, projectID.String()))
	if err != nil {
		if database.IsNoRows(err) {
			return domain.Targets{}, domain.ErrProjectNotFound
		}
		return domain.Targets{}, fmt.Errorf("load project %s: %w", projectID, err)
	}
	return targets, nil
}

// ListTargets returns the targets of all projects matching filter, ordered by name.
func (r *ProjectReader) ListTargets(ctx context.Context, filter domain.ListFilter) ([]domain.Targets, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status.String())
	}
	if filter.ExcludeCompleted {
		conditions = append(conditions, "status <> ?")
		args = append(args, domain.StatusCompleted.String())
	}

	query := r.queries.selectTargets
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.exec.Query(ctx, database.Rebind(r.driver, query), args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Targets
	for rows.Next() {
		targets, err := scanTargets(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, targets)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// SumActualHours sums the net working hours of all finished time entries,
// rounded to one decimal.
func (r *ProjectReader) SumActualHours(ctx context.Context, projectID uuid.UUID) (float64, error) {
	var hours float64
	query := database.Rebind(r.driver, r.queries.sumActualHours)
	if err := r.exec.QueryRow(ctx, query, projectID.String()).Scan(&hours); err != nil {
		return 0, fmt.Errorf("sum hours: %w", err)
	}
	return domain.RoundHours(hours), nil
}

// SumMaterialCosts sums the total cost of all material entries, rounded to
// two decimals.
func (r *ProjectReader) SumMaterialCosts(ctx context.Context, projectID uuid.UUID) (float64, error) {
	var costs float64
	query := database.Rebind(r.driver, r.queries.sumMaterialCost)
	if err := r.exec.QueryRow(ctx, query, projectID.String()).Scan(&costs); err != nil {
		return 0, fmt.Errorf("sum material costs: %w", err)
	}
	return domain.RoundCosts(costs), nil
}

// HasInvoice reports whether any invoice references the project.
func (r *ProjectReader) HasInvoice(ctx context.Context, projectID uuid.UUID) (bool, error) {
	var exists bool
	query := database.Rebind(r.driver, r.queries.hasInvoice)
	if err := r.exec.QueryRow(ctx, query, projectID.String()).Scan(&exists); err != nil {
		return false, fmt.Errorf("check invoice: %w", err)
	}
	return exists, nil
}

func scanTargets(row database.Row) (domain.Targets, error) {
	var (
		id            string
		name          string
		status        string
		plannedHours  sql.NullFloat64
		targetRevenue sql.NullFloat64
		budget        sql.NullFloat64
		endDate       sql.NullString
		managerID     sql.NullString
	)
	if err := row.Scan(&id, &name, &status, &plannedHours, &targetRevenue, &budget, &endDate, &managerID); err != nil {
		return domain.Targets{}, err
	}

	projectID, err := uuid.Parse(id)
	if err != nil {
		return domain.Targets{}, fmt.Errorf("project id %q: %w", id, err)
	}

	targets := domain.Targets{
		ID:            projectID,
		Name:          name,
		Status:        domain.Status(status),
		PlannedHours:  nullFloat(plannedHours),
		TargetRevenue: nullFloat(targetRevenue),
		Budget:        nullFloat(budget),
	}

	if endDate.Valid && endDate.String != "" {
		day, err := parseDate(endDate.String)
		if err != nil {
			return domain.Targets{}, fmt.Errorf("project %s end date: %w", projectID, err)
		}
		targets.EndDate = &day
	}

	if managerID.Valid && managerID.String != "" {
		manager, err := uuid.Parse(managerID.String)
		if err != nil {
			return domain.Targets{}, fmt.Errorf("project %s manager id: %w", projectID, err)
		}
		targets.ProjectManagerID = &manager
	}

	return targets, nil
}

// parseDate accepts a bare date or a timestamp and keeps only the calendar day.
func parseDate(value string) (time.Time, error) {
	if len(value) > len(dateLayout) {
		value = value[:len(dateLayout)]
	}
	return time.ParseInLocation(dateLayout, value, time.UTC)
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
