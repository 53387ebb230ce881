// internal/repo/projects.go
package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/alex-de-haas/projectmanager/internal/models"
)

// ---------------- Projects & Memberships ----------------

func (p *pgRepo) GetProjectByID(ctx context.Context, id int64) (models.Project, error) {
	var pr models.Project
	err := p.pool.QueryRow(ctx, `
		SELECT id, owner_id, name, created_at
		FROM projects WHERE id = $1`, id,
	).Scan(&pr.ID, &pr.OwnerID, &pr.Name, &pr.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Project{}, models.ErrProjectNotFound
		}
		slog.ErrorContext(ctx, "GetProjectByID failed", "err", err)
		return models.Project{}, fmt.Errorf("get project by id: %w", err)
	}
	return pr, nil
}

func (p *pgRepo) ListUserProjects(ctx context.Context, userID int64) ([]models.Project, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT p.id, p.owner_id, p.name, p.created_at
		FROM projects p
		JOIN memberships m ON m.project_id = p.id
		WHERE m.user_id = $1
		ORDER BY p.created_at, p.id`, userID)
	if err != nil {
		slog.ErrorContext(ctx, "ListUserProjects failed", "err", err)
		return nil, fmt.Errorf("list user projects: %w", err)
	}
	defer rows.Close()

	res := []models.Project{}
	for rows.Next() {
		var pr models.Project
		if err := rows.Scan(&pr.ID, &pr.OwnerID, &pr.Name, &pr.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		res = append(res, pr)
	}
	return res, rows.Err()
}

func (p *pgRepo) HasMembership(ctx context.Context, projectID, userID int64) (bool, error) {
	var ok bool
	err := p.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM memberships WHERE project_id = $1 AND user_id = $2
		)`, projectID, userID,
	).Scan(&ok)
	if err != nil {
		slog.ErrorContext(ctx, "HasMembership failed", "err", err)
		return false, fmt.Errorf("check membership: %w", err)
	}
	return ok, nil
}

func (p *pgRepo) GetEarliestProjectForUser(ctx context.Context, userID int64) (models.Project, error) {
	var pr models.Project
	err := p.pool.QueryRow(ctx, `
		SELECT p.id, p.owner_id, p.name, p.created_at
		FROM projects p
		JOIN memberships m ON m.project_id = p.id
		WHERE m.user_id = $1
		ORDER BY m.created_at, p.id LIMIT 1`, userID,
	).Scan(&pr.ID, &pr.OwnerID, &pr.Name, &pr.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Project{}, models.ErrNoMembership
		}
		slog.ErrorContext(ctx, "GetEarliestProjectForUser failed", "err", err)
		return models.Project{}, fmt.Errorf("get earliest project: %w", err)
	}
	return pr, nil
}

// EnsureDefaultProject returns the user's earliest membership project,
// creating a "Default" project plus membership when none exists. The schema
// carries a partial unique index on projects(owner_id) WHERE name='Default';
// the upsert below rides on it so two concurrent first requests converge on
// the same row instead of creating duplicates.
func (p *pgRepo) EnsureDefaultProject(ctx context.Context, userID int64) (models.Project, error) {
	slog.DebugContext(ctx, "EnsureDefaultProject", "user_id", userID)

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return models.Project{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var pr models.Project
	err = tx.QueryRow(ctx, `
		SELECT p.id, p.owner_id, p.name, p.created_at
		FROM projects p
		JOIN memberships m ON m.project_id = p.id
		WHERE m.user_id = $1
		ORDER BY m.created_at, p.id LIMIT 1`, userID,
	).Scan(&pr.ID, &pr.OwnerID, &pr.Name, &pr.CreatedAt)
	if err == nil {
		return pr, tx.Commit(ctx)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		slog.ErrorContext(ctx, "EnsureDefaultProject lookup failed", "err", err)
		return models.Project{}, fmt.Errorf("lookup membership: %w", err)
	}

	// No membership at all: self-heal. The DO UPDATE no-op makes RETURNING
	// yield the surviving row on conflict.
	err = tx.QueryRow(ctx, `
		INSERT INTO projects (owner_id, name)
		VALUES ($1, $2)
		ON CONFLICT (owner_id) WHERE name = 'Default'
		DO UPDATE SET name = EXCLUDED.name
		RETURNING id, owner_id, name, created_at`,
		userID, models.DefaultProjectName,
	).Scan(&pr.ID, &pr.OwnerID, &pr.Name, &pr.CreatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "EnsureDefaultProject insert failed", "err", err)
		return models.Project{}, fmt.Errorf("create default project: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO memberships (project_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (project_id, user_id) DO NOTHING`,
		pr.ID, userID,
	); err != nil {
		slog.ErrorContext(ctx, "EnsureDefaultProject membership failed", "err", err)
		return models.Project{}, fmt.Errorf("grant membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Project{}, fmt.Errorf("commit: %w", err)
	}
	slog.InfoContext(ctx, "created default project", "user_id", userID, "project_id", pr.ID)
	return pr, nil
}
