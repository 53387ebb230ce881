// internal/handlers/dayoffs/dayoffs.go
package dayoffs

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	_, projectID, err := h.resolver.Resolve(r)
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to resolve identity")
		return
	}
	offs, err := h.repo.ListDayOffs(r.Context(), projectID)
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to fetch day offs")
		return
	}
	httpserver.JSON(w, http.StatusOK, offs)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, projectID, err := h.resolver.Resolve(r)
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to resolve identity")
		return
	}
	var d models.DayOff
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil || d.Date.IsZero() {
		httpserver.Error(w, http.StatusBadRequest, "bad json")
		return
	}
	d.ProjectID = projectID
	if d.UserID == 0 {
		d.UserID = userID
	}
	created, err := h.repo.CreateDayOff(r.Context(), d)
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to create day off")
		return
	}
	httpserver.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	_, projectID, err := h.resolver.Resolve(r)
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to resolve identity")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "dayOffID"), 10, 64)
	if err != nil {
		httpserver.Error(w, http.StatusBadRequest, "invalid day off ID")
		return
	}
	if err := h.repo.DeleteDayOff(r.Context(), projectID, id); err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to delete day off")
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]any{"ok": true})
}
