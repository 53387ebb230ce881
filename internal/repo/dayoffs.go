// internal/repo/dayoffs.go
package repo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alex-de-haas/projectmanager/internal/models"
)

// ---------------- Day-off calendar ----------------

func (p *pgRepo) ListDayOffs(ctx context.Context, projectID int64) ([]models.DayOff, error) {
	slog.DebugContext(ctx, "ListDayOffs", "project_id", projectID)
	rows, err := p.pool.Query(ctx, `
		SELECT id, project_id, user_id, day, note, created_at
		FROM day_offs WHERE project_id = $1
		ORDER BY day, id`, projectID)
	if err != nil {
		slog.ErrorContext(ctx, "ListDayOffs failed", "err", err)
		return nil, fmt.Errorf("list day offs: %w", err)
	}
	defer rows.Close()

	res := []models.DayOff{}
	for rows.Next() {
		var d models.DayOff
		if err := rows.Scan(&d.ID, &d.ProjectID, &d.UserID, &d.Date, &d.Note, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan day off: %w", err)
		}
		res = append(res, d)
	}
	return res, rows.Err()
}

func (p *pgRepo) CreateDayOff(ctx context.Context, d models.DayOff) (models.DayOff, error) {
	slog.DebugContext(ctx, "CreateDayOff", "project_id", d.ProjectID, "user_id", d.UserID)
	err := p.pool.QueryRow(ctx, `
		INSERT INTO day_offs (project_id, user_id, day, note)
		VALUES ($1, $2, $3, $4)
		RETURNING id, project_id, user_id, day, note, created_at`,
		d.ProjectID, d.UserID, d.Date, d.Note,
	).Scan(&d.ID, &d.ProjectID, &d.UserID, &d.Date, &d.Note, &d.CreatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "CreateDayOff failed", "err", err)
		return models.DayOff{}, fmt.Errorf("create day off: %w", err)
	}
	return d, nil
}

func (p *pgRepo) DeleteDayOff(ctx context.Context, projectID, dayOffID int64) error {
	slog.DebugContext(ctx, "DeleteDayOff", "project_id", projectID, "day_off_id", dayOffID)
	_, err := p.pool.Exec(ctx, `
		DELETE FROM day_offs WHERE project_id = $1 AND id = $2`, projectID, dayOffID)
	if err != nil {
		slog.ErrorContext(ctx, "DeleteDayOff failed", "err", err)
		return fmt.Errorf("delete day off: %w", err)
	}
	return nil
}
