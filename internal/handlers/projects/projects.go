// internal/handlers/projects/projects.go
package projects

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/alex-de-haas/projectmanager/internal/auth"
	httpserver "github.com/alex-de-haas/projectmanager/internal/http"
	"github.com/alex-de-haas/projectmanager/internal/identity"
	"github.com/alex-de-haas/projectmanager/internal/repo"
)

type Handler struct {
	repo          repo.Repo
	resolver      *identity.Resolver
	cookieTTL     time.Duration
	secureCookies bool
}

func New(r repo.Repo, rs *identity.Resolver, cookieTTL time.Duration, secureCookies bool) *Handler {
	return &Handler{repo: r, resolver: rs, cookieTTL: cookieTTL, secureCookies: secureCookies}
}

// List returns the projects the acting user is a member of.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := h.resolver.ResolveUserID(r)
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to resolve identity")
		return
	}
	prs, err := h.repo.ListUserProjects(r.Context(), userID)
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to fetch projects")
		return
	}
	httpserver.JSON(w, http.StatusOK, prs)
}

// Select validates membership for the requested project and records it in
// the pm_project_id cookie. The cookie stays a hint: the resolver re-checks
// membership on every request.
// POST /api/projects/select { "project_id": 3 }
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	type bodyT struct {
		ProjectID int64 `json:"project_id"`
	}
	userID, err := h.resolver.ResolveUserID(r)
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to resolve identity")
		return
	}
	var b bodyT
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil || b.ProjectID <= 0 {
		httpserver.Error(w, http.StatusBadRequest, "bad json")
		return
	}
	member, err := h.repo.HasMembership(r.Context(), b.ProjectID, userID)
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "server error")
		return
	}
	if !member {
		httpserver.Error(w, http.StatusForbidden, "not a project member")
		return
	}
	auth.SetProjectCookie(w, b.ProjectID, h.cookieTTL, h.secureCookies)
	httpserver.JSON(w, http.StatusOK, map[string]any{"ok": true, "project_id": b.ProjectID})
}

// Current reports the resolved identity pair for this request. Useful for
// the UI header and for debugging fallback behavior.
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	userID, projectID, err := h.resolver.Resolve(r)
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to resolve identity")
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]int64{
		"user_id":    userID,
		"project_id": projectID,
	})
}
