package persistence

import "github.com/felixgeelhaar/cockpit/internal/shared/infrastructure/database"

// dialectQueries holds the statements that differ between backends. All
// statements use '?' placeholders and are rebound for the driver.
type dialectQueries struct {
	selectTargets   string
	sumActualHours  string
	sumMaterialCost string
	hasInvoice      string
}

var sqliteQueries = dialectQueries{
	selectTargets: `SELECT id, name, status, planned_hours, target_revenue, budget,
		end_date, project_manager_id
		FROM projects`,
	sumActualHours: `SELECT COALESCE(SUM(MAX(0,
			(julianday(end_time) - julianday(start_time)) * 24.0
			- COALESCE(break_duration, 0) / 60.0)), 0)
		FROM time_entries
		WHERE project_id = ? AND end_time IS NOT NULL`,
	sumMaterialCost: `SELECT COALESCE(SUM(total_cost), 0) FROM material_entries WHERE project_id = ?`,
	hasInvoice:      `SELECT EXISTS(SELECT 1 FROM invoices WHERE project_id = ?)`,
}

var postgresQueries = dialectQueries{
	selectTargets: `SELECT id::text, name, status, planned_hours, target_revenue, budget,
		to_char(end_date, 'YYYY-MM-DD'), project_manager_id::text
		FROM projects`,
	sumActualHours: `SELECT COALESCE(SUM(GREATEST(0,
			EXTRACT(EPOCH FROM (end_time - start_time)) / 3600.0
			- COALESCE(break_duration, 0) / 60.0)), 0)::float8
		FROM time_entries
		WHERE project_id = ? AND end_time IS NOT NULL`,
	sumMaterialCost: `SELECT COALESCE(SUM(total_cost), 0)::float8 FROM material_entries WHERE project_id = ?`,
	hasInvoice:      `SELECT EXISTS(SELECT 1 FROM invoices WHERE project_id = ?)`,
}

func queriesFor(driver database.Driver) dialectQueries {
	if driver == database.DriverPostgres {
		return postgresQueries
	}
	return sqliteQueries
}
