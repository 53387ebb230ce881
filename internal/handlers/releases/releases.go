// internal/handlers/releases/releases.go
package releases

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
	rels, err := h.repo.ListReleases(r.Context(), projectID)
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to fetch releases")
		return
	}
	httpserver.JSON(w, http.StatusOK, rels)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	_, projectID, err := h.resolver.Resolve(r)
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to resolve identity")
		return
	}
	var rel models.Release
	if err := json.NewDecoder(r.Body).Decode(&rel); err != nil || rel.Name == "" {
		httpserver.Error(w, http.StatusBadRequest, "bad json")
		return
	}
	rel.ProjectID = projectID
	created, err := h.repo.CreateRelease(r.Context(), rel)
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to create release")
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
	relID, err := strconv.ParseInt(chi.URLParam(r, "releaseID"), 10, 64)
	if err != nil {
		httpserver.Error(w, http.StatusBadRequest, "invalid release ID")
		return
	}
	if err := h.repo.DeleteRelease(r.Context(), projectID, relID); err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to delete release")
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]any{"ok": true})
}
