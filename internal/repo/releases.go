// internal/repo/releases.go
package repo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alex-de-haas/projectmanager/internal/models"
)

// ---------------- Releases ----------------

func (p *pgRepo) ListReleases(ctx context.Context, projectID int64) ([]models.Release, error) {
	slog.DebugContext(ctx, "ListReleases", "project_id", projectID)
	rows, err := p.pool.Query(ctx, `
		SELECT id, project_id, name, ship_date, created_at
		FROM releases WHERE project_id = $1
		ORDER BY ship_date, id`, projectID)
	if err != nil {
		slog.ErrorContext(ctx, "ListReleases failed", "err", err)
		return nil, fmt.Errorf("list releases: %w", err)
	}
	defer rows.Close()

	res := []models.Release{}
	for rows.Next() {
		var rel models.Release
		if err := rows.Scan(&rel.ID, &rel.ProjectID, &rel.Name, &rel.ShipDate, &rel.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan release: %w", err)
		}
		res = append(res, rel)
	}
	return res, rows.Err()
}

func (p *pgRepo) CreateRelease(ctx context.Context, rel models.Release) (models.Release, error) {
	slog.DebugContext(ctx, "CreateRelease", "project_id", rel.ProjectID, "name", rel.Name)
	err := p.pool.QueryRow(ctx, `
		INSERT INTO releases (project_id, name, ship_date)
		VALUES ($1, $2, $3)
		RETURNING id, project_id, name, ship_date, created_at`,
		rel.ProjectID, rel.Name, rel.ShipDate,
	).Scan(&rel.ID, &rel.ProjectID, &rel.Name, &rel.ShipDate, &rel.CreatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "CreateRelease failed", "err", err)
		return models.Release{}, fmt.Errorf("create release: %w", err)
	}
	return rel, nil
}

func (p *pgRepo) DeleteRelease(ctx context.Context, projectID, releaseID int64) error {
	slog.DebugContext(ctx, "DeleteRelease", "project_id", projectID, "release_id", releaseID)
	_, err := p.pool.Exec(ctx, `
		DELETE FROM releases WHERE project_id = $1 AND id = $2`, projectID, releaseID)
	if err != nil {
		slog.ErrorContext(ctx, "DeleteRelease failed", "err", err)
		return fmt.Errorf("delete release: %w", err)
	}
	return nil
}
