package handler

import (
	"net/http"
	"strings"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
	"github.com/yndnr/taskadmin-go/internal/telemetry/logger"
)

// handleToken handles POST /token. The body is an OAuth2 password form
// with username and password fields.
func (h *Handler) handleToken(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		h.writeError(w, r, domain.ErrUnprocessable.WithMessage("Invalid form body").WithCause(err))
		return
	}
	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	if username == "" {
		h.writeError(w, r, domain.ErrUsernameRequired)
		return
	}
	if password == "" {
		h.writeError(w, r, domain.ErrUnprocessable.WithMessage("Password is required"))
		return
	}

	log := logger.L(r.Context())
	user, err := h.users.Authenticate(r.Context(), username, password)
	if err != nil {
		h.recordLogin("failure")
		log.Warn("login failed", "username", username)
		h.writeError(w, r, err)
		return
	}

	token, _, err := h.tokens.Issue(user.Username)
	if err != nil {
		h.recordLogin("error")
		h.writeError(w, r, domain.ErrInternal.WithCause(err))
		return
	}

	h.recordLogin("success")
	log.Info("login succeeded", "username", user.Username, "role", user.Role)
	h.writeJSON(w, r, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// handleMe handles GET /users/me.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		h.writeError(w, r, domain.ErrInvalidToken)
		return
	}
	h.writeJSON(w, r, http.StatusOK, user)
}

func (h *Handler) recordLogin(result string) {
	if h.metrics != nil {
		h.metrics.RecordLogin(result)
	}
}
