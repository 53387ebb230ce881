// internal/repo/tasks.go
package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/alex-de-haas/projectmanager/internal/models"
)

// ---------------- Tasks ----------------

const taskColumns = `id, project_id, assignee_id, title, description, status,
	estimate_hours, spent_hours, release_id, created_at, updated_at`

func scanTask(row pgx.Row) (models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.ProjectID, &t.AssigneeID, &t.Title, &t.Description,
		&t.Status, &t.Estimate, &t.Spent, &t.ReleaseID, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (p *pgRepo) ListTasks(ctx context.Context, projectID int64) ([]models.Task, error) {
	slog.DebugContext(ctx, "ListTasks", "project_id", projectID)
	rows, err := p.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks WHERE project_id = $1
		ORDER BY created_at DESC, id DESC`, projectID)
	if err != nil {
		slog.ErrorContext(ctx, "ListTasks failed", "err", err)
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (p *pgRepo) CreateTask(ctx context.Context, t models.Task) (models.Task, error) {
	slog.DebugContext(ctx, "CreateTask", "project_id", t.ProjectID, "title", t.Title)
	row := p.pool.QueryRow(ctx, `
		INSERT INTO tasks (project_id, assignee_id, title, description, status,
			estimate_hours, spent_hours, release_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+taskColumns,
		t.ProjectID, t.AssigneeID, t.Title, t.Description, t.Status,
		t.Estimate, t.Spent, t.ReleaseID)
	created, err := scanTask(row)
	if err != nil {
		slog.ErrorContext(ctx, "CreateTask failed", "err", err)
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	return created, nil
}

func (p *pgRepo) UpdateTask(ctx context.Context, t models.Task) (models.Task, error) {
	slog.DebugContext(ctx, "UpdateTask", "project_id", t.ProjectID, "task_id", t.ID)
	row := p.pool.QueryRow(ctx, `
		UPDATE tasks
		SET assignee_id = $3, title = $4, description = $5, status = $6,
			estimate_hours = $7, spent_hours = $8, release_id = $9,
			updated_at = now()
		WHERE project_id = $1 AND id = $2
		RETURNING `+taskColumns,
		t.ProjectID, t.ID, t.AssigneeID, t.Title, t.Description, t.Status,
		t.Estimate, t.Spent, t.ReleaseID)
	updated, err := scanTask(row)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			slog.ErrorContext(ctx, "UpdateTask failed", "err", err)
		}
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	return updated, nil
}

func (p *pgRepo) DeleteTask(ctx context.Context, projectID, taskID int64) error {
	slog.DebugContext(ctx, "DeleteTask", "project_id", projectID, "task_id", taskID)
	_, err := p.pool.Exec(ctx, `
		DELETE FROM tasks WHERE project_id = $1 AND id = $2`, projectID, taskID)
	if err != nil {
		slog.ErrorContext(ctx, "DeleteTask failed", "err", err)
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
