// internal/repo/users.go
package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/alex-de-haas/projectmanager/internal/models"
)

// ---------------- Users ----------------

func (p *pgRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		slog.ErrorContext(ctx, "CountUsers failed", "err", err)
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (p *pgRepo) CreateUser(ctx context.Context, name, email, passwordHash string, admin bool) (models.User, error) {
	slog.DebugContext(ctx, "CreateUser", "email", email, "admin", admin)
	var u models.User
	err := p.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, is_admin)
		VALUES ($1, lower($2), $3, $4)
		RETURNING id, name, email, password_hash, is_admin, created_at`,
		name, strings.TrimSpace(email), passwordHash, admin,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Admin, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, models.ErrEmailTaken
		}
		slog.ErrorContext(ctx, "CreateUser failed", "err", err)
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (p *pgRepo) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := p.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, is_admin, created_at
		FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Admin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, models.ErrUserNotFound
		}
		slog.ErrorContext(ctx, "GetUserByID failed", "err", err)
		return models.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

func (p *pgRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := p.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, is_admin, created_at
		FROM users WHERE email = lower($1)`, strings.TrimSpace(email),
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Admin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, models.ErrUserNotFound
		}
		slog.ErrorContext(ctx, "GetUserByEmail failed", "err", err)
		return models.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (p *pgRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, email, password_hash, is_admin, created_at
		FROM users ORDER BY created_at, id`)
	if err != nil {
		slog.ErrorContext(ctx, "ListUsers failed", "err", err)
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	res := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Admin, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func (p *pgRepo) GetEarliestUser(ctx context.Context) (models.User, error) {
	var u models.User
	err := p.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, is_admin, created_at
		FROM users ORDER BY created_at, id LIMIT 1`,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Admin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, models.ErrUserNotFound
		}
		slog.ErrorContext(ctx, "GetEarliestUser failed", "err", err)
		return models.User{}, fmt.Errorf("get earliest user: %w", err)
	}
	return u, nil
}
