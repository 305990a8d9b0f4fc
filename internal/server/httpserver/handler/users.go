package handler

import (
	"net/http"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
	"github.com/yndnr/taskadmin-go/internal/telemetry/logger"
)

// handleListUsers handles GET /users.
func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, users)
}

// handleCreateUser handles POST /users.
func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req domain.UserCreate
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.users.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	logger.L(r.Context()).Info("user created", "user_id", user.ID, "username", user.Username, "role", user.Role)
	h.writeJSON(w, r, http.StatusCreated, user)
}

// handleUpdateUser handles PATCH /users/{id}.
func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req domain.UserUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.users.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	logger.L(r.Context()).Info("user updated",
		"user_id", user.ID,
		"role_changed", req.Role != nil,
		"password_changed", req.Password != nil,
	)
	h.writeJSON(w, r, http.StatusOK, user)
}

// handleDeleteUser handles DELETE /users/{id}.
func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := UserFromContext(r.Context())
	if actor == nil {
		h.writeError(w, r, domain.ErrInvalidToken)
		return
	}

	id := r.PathValue("id")
	if err := h.users.Delete(r.Context(), actor.ID, id); err != nil {
		h.writeError(w, r, err)
		return
	}

	logger.L(r.Context()).Info("user deleted", "user_id", id, "by", actor.Username)
	h.writeJSON(w, r, http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}
