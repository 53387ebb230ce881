// internal/repo/repo.go
package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alex-de-haas/projectmanager/internal/models"
)

// Repo defines the methods the rest of the app uses.
type Repo interface {
	// Users
	CountUsers(ctx context.Context) (int64, error)
	CreateUser(ctx context.Context, name, email, passwordHash string, admin bool) (models.User, error)
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetEarliestUser(ctx context.Context) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	// Projects & memberships
	GetProjectByID(ctx context.Context, id int64) (models.Project, error)
	ListUserProjects(ctx context.Context, userID int64) ([]models.Project, error)
	HasMembership(ctx context.Context, projectID, userID int64) (bool, error)
	GetEarliestProjectForUser(ctx context.Context, userID int64) (models.Project, error)
	// EnsureDefaultProject is NOT read-only: when the user has no
	// membership at all it creates a "Default" project plus a membership
	// row inside one transaction. Safe under concurrent calls for the
	// same user.
	EnsureDefaultProject(ctx context.Context, userID int64) (models.Project, error)

	// Tasks
	ListTasks(ctx context.Context, projectID int64) ([]models.Task, error)
	CreateTask(ctx context.Context, t models.Task) (models.Task, error)
	UpdateTask(ctx context.Context, t models.Task) (models.Task, error)
	DeleteTask(ctx context.Context, projectID, taskID int64) error

	// Releases
	ListReleases(ctx context.Context, projectID int64) ([]models.Release, error)
	CreateRelease(ctx context.Context, rel models.Release) (models.Release, error)
	DeleteRelease(ctx context.Context, projectID, releaseID int64) error

	// Day-off calendar
	ListDayOffs(ctx context.Context, projectID int64) ([]models.DayOff, error)
	CreateDayOff(ctx context.Context, d models.DayOff) (models.DayOff, error)
	DeleteDayOff(ctx context.Context, projectID, dayOffID int64) error
}

// pgRepo runs hand-written parameterized SQL against a pgx pool.
type pgRepo struct{ pool *pgxpool.Pool }

func New(pool *pgxpool.Pool) Repo { return &pgRepo{pool: pool} }

// ---------------- Helpers ----------------

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
