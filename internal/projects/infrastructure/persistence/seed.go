package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/cockpit/internal/projects/domain"
	"github.com/felixgeelhaar/cockpit/internal/shared/infrastructure/database"
)

// SeedDemo writes a small demo portfolio covering green, yellow and red
// projects in a single transaction. Dates are relative to now.
func SeedDemo(ctx context.Context, conn database.Connection, now time.Time) ([]domain.Targets, error) {
	today := *domain.Date(now)
	manager := uuid.New()
	day := func(offset int) *time.Time {
		d := today.AddDate(0, 0, offset)
		return &d
	}

	projects := []domain.Targets{
		{
			ID: uuid.New(), Name: "Bathroom renovation Huber", Status: domain.StatusInProgress,
			PlannedHours: domain.Float(40), TargetRevenue: domain.Float(10000),
			EndDate: day(45), ProjectManagerID: &manager,
		},
		{
			ID: uuid.New(), Name: "Roof repair Meier", Status: domain.StatusInProgress,
			PlannedHours: domain.Float(20), TargetRevenue: domain.Float(4000),
			EndDate: day(2), ProjectManagerID: &manager,
		},
		{
			ID: uuid.New(), Name: "Kitchen inquiry Schulz", Status: domain.StatusInquiry,
		},
		{
			ID: uuid.New(), Name: "Facade Becker", Status: domain.StatusCompleted,
			PlannedHours: domain.Float(60), TargetRevenue: domain.Float(15000),
			EndDate: day(-10), ProjectManagerID: &manager,
		},
	}

	entries := map[int][]TimeEntry{
		0: {workday(projects[0].ID, today.AddDate(0, 0, -3), 8, 30), workday(projects[0].ID, today.AddDate(0, 0, -2), 8, 30)},
		1: {workday(projects[1].ID, today.AddDate(0, 0, -4), 9, 30), workday(projects[1].ID, today.AddDate(0, 0, -3), 9, 30), workday(projects[1].ID, today.AddDate(0, 0, -2), 9, 0)},
		3: {workday(projects[3].ID, today.AddDate(0, 0, -12), 8, 0)},
	}
	materials := map[int][]MaterialEntry{
		0: {{ProjectID: projects[0].ID, Description: "Tiles", TotalCost: domain.Float(3000)}},
		1: {{ProjectID: projects[1].ID, Description: "Roof tiles", TotalCost: domain.Float(4900)}},
		3: {{ProjectID: projects[3].ID, Description: "Plaster", TotalCost: domain.Float(6200)}},
	}

	err := database.RunInTx(ctx, conn, func(ctx context.Context, tx database.Executor) error {
		writer := NewProjectWriter(tx, conn.Driver())
		for i, p := range projects {
			if err := writer.SaveProject(ctx, p); err != nil {
				return err
			}
			for _, e := range entries[i] {
				if err := writer.AddTimeEntry(ctx, e); err != nil {
					return err
				}
			}
			for _, m := range materials[i] {
				if err := writer.AddMaterialEntry(ctx, m); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// workday builds a time entry starting at 07:00 on day.
func workday(projectID uuid.UUID, day time.Time, hours, breakMinutes int) TimeEntry {
	start := day.Add(7 * time.Hour)
	end := start.Add(time.Duration(hours)*time.Hour + time.Duration(breakMinutes)*time.Minute)
	return TimeEntry{
		ProjectID:    projectID,
		Start:        start,
		End:          &end,
		BreakMinutes: &breakMinutes,
	}
}
