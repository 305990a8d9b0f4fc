package handler

import (
	"net/http"

	"github.com/yndnr/taskadmin-go/internal/telemetry/logger"
)

// handleListTasks handles GET /tasks.
func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, tasks)
}

// handleGetTask handles GET /tasks/{id}.
func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.tasks.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, task)
}

// handleDeleteTask handles DELETE /tasks/{id}.
func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.tasks.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	logger.L(r.Context()).Info("task deleted", "task_id", id)
	h.writeJSON(w, r, http.StatusOK, MessageResponse{Message: "Task deleted successfully"})
}

// handleStatsByStatus handles GET /tasks/stats/status.
func (h *Handler) handleStatsByStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := h.tasks.StatsByStatus(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, stats)
}

// handleStatsByType handles GET /tasks/stats/type.
func (h *Handler) handleStatsByType(w http.ResponseWriter, r *http.Request) {
	stats, err := h.tasks.StatsByType(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, stats)
}
