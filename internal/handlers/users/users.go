// internal/handlers/users/users.go
package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/alex-de-haas/projectmanager/internal/auth"
	httpserver "github.com/alex-de-haas/projectmanager/internal/http"
	"github.com/alex-de-haas/projectmanager/internal/identity"
	"github.com/alex-de-haas/projectmanager/internal/models"
	"github.com/alex-de-haas/projectmanager/internal/repo"
)

type Handler struct {
	repo     repo.Repo
	resolver *identity.Resolver
}

func New(r repo.Repo, rs *identity.Resolver) *Handler {
	return &Handler{repo: r, resolver: rs}
}

// List returns all users, for assignee and day-off pickers. Password hashes
// never serialize (json:"-").
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	us, err := h.repo.ListUsers(r.Context())
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to fetch users")
		return
	}
	httpserver.JSON(w, http.StatusOK, us)
}

// Create provisions a user. Only admins may call it; bootstrap owns the
// first user.
// POST /api/users { "name": "...", "email": "...", "password": "...", "admin": false }
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	type bodyT struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Admin    bool   `json:"admin"`
	}
	actorID, err := h.resolver.ResolveUserID(r)
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to resolve identity")
		return
	}
	actor, err := h.repo.GetUserByID(r.Context(), actorID)
	if err != nil || !actor.Admin {
		httpserver.Error(w, http.StatusForbidden, "admin required")
		return
	}
	var b bodyT
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil || strings.TrimSpace(b.Email) == "" {
		httpserver.Error(w, http.StatusBadRequest, "bad json")
		return
	}
	if len(b.Password) < 8 {
		httpserver.Error(w, http.StatusBadRequest, "weak password")
		return
	}
	phc, err := auth.HashPassword(b.Password)
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "hash error")
		return
	}
	u, err := h.repo.CreateUser(r.Context(), strings.TrimSpace(b.Name), b.Email, phc, b.Admin)
	if err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			httpserver.Error(w, http.StatusConflict, err.Error())
			return
		}
		httpserver.Error(w, http.StatusInternalServerError, "create user failed")
		return
	}
	httpserver.JSON(w, http.StatusCreated, u)
}
