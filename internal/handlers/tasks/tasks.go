// internal/handlers/tasks/tasks.go
package tasks

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
	tasks, err := h.repo.ListTasks(r.Context(), projectID)
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to fetch tasks")
		return
	}
	httpserver.JSON(w, http.StatusOK, tasks)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, projectID, err := h.resolver.Resolve(r)
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to resolve identity")
		return
	}
	var t models.Task
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil || t.Title == "" {
		httpserver.Error(w, http.StatusBadRequest, "bad json")
		return
	}
	t.ProjectID = projectID
	if t.AssigneeID == 0 {
		t.AssigneeID = userID
	}
	if t.Status == "" {
		t.Status = models.TaskOpen
	}
	created, err := h.repo.CreateTask(r.Context(), t)
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to create task")
		return
	}
	httpserver.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	_, projectID, err := h.resolver.Resolve(r)
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to resolve identity")
		return
	}
	taskID, err := strconv.ParseInt(chi.URLParam(r, "taskID"), 10, 64)
	if err != nil {
		httpserver.Error(w, http.StatusBadRequest, "invalid task ID")
		return
	}
	var t models.Task
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		httpserver.Error(w, http.StatusBadRequest, "bad json")
		return
	}
	t.ID = taskID
	t.ProjectID = projectID
	updated, err := h.repo.UpdateTask(r.Context(), t)
	if err != nil {
		httpserver.Error(w, http.StatusNotFound, "task not found")
		return
	}
	httpserver.JSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	_, projectID, err := h.resolver.Resolve(r)
	if err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to resolve identity")
		return
	}
	taskID, err := strconv.ParseInt(chi.URLParam(r, "taskID"), 10, 64)
	if err != nil {
		httpserver.Error(w, http.StatusBadRequest, "invalid task ID")
		return
	}
	if err := h.repo.DeleteTask(r.Context(), projectID, taskID); err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to delete task")
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]any{"ok": true})
}
