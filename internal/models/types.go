// internal/models/types.go
package models

import (
	"errors"
	"time"
)

// DefaultUserID is the conventional fallback identity used when a request
// carries no usable user candidate. See identity.Resolver.
const DefaultUserID int64 = 1

// DefaultProjectName is the name given to auto-provisioned projects.
const DefaultProjectName = "Default"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrNoMembership    = errors.New("no membership")
	ErrEmailTaken      = errors.New("email already registered")
	ErrNotBootstrap    = errors.New("users already exist")
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Admin        bool      `json:"admin"`
	CreatedAt    time.Time `json:"created_at"`
}

type Project struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Membership grants a user the right to act within a project's data scope.
// (project_id, user_id) is unique in the store.
type Membership struct {
	ProjectID int64     `json:"project_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type TaskStatus string

const (
	TaskOpen       TaskStatus = "Open"
	TaskInProgress TaskStatus = "InProgress"
	TaskDone       TaskStatus = "Done"
)

type Task struct {
	ID          int64      `json:"id"`
	ProjectID   int64      `json:"project_id"`
	AssigneeID  int64      `json:"assignee_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	Estimate    float64    `json:"estimate_hours"`
	Spent       float64    `json:"spent_hours"`
	ReleaseID   *int64     `json:"release_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Release struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Name      string    `json:"name"`
	ShipDate  time.Time `json:"ship_date"`
	CreatedAt time.Time `json:"created_at"`
}

type DayOff struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	UserID    int64     `json:"user_id"`
	Date      time.Time `json:"date"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}
