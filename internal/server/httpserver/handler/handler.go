package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
	"github.com/yndnr/taskadmin-go/internal/core/service"
	"github.com/yndnr/taskadmin-go/internal/telemetry/logger"
	"github.com/yndnr/taskadmin-go/internal/telemetry/metric"
)

// maxBodyBytes bounds JSON and form request bodies.
const maxBodyBytes = 1 << 20

// Config holds the dependencies of Handler.
type Config struct {
	Users  *service.UserService
	Tasks  *service.TaskService
	Tokens *service.TokenService

	// Metrics backs GET /metrics and login counters. Optional.
	Metrics *metric.Registry

	// Logger defaults to logger.Default().
	Logger logger.Logger

	// Version is reported by GET /health.
	Version string

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Handler is the main HTTP handler that routes requests to the endpoint
// handlers.
type Handler struct {
	users   *service.UserService
	tasks   *service.TaskService
	tokens  *service.TokenService
	metrics *metric.Registry
	logger  logger.Logger
	version string
	now     func() time.Time
	started time.Time
	mux     *http.ServeMux
}

// New creates a new Handler.
func New(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	h := &Handler{
		users:   cfg.Users,
		tasks:   cfg.Tasks,
		tokens:  cfg.Tokens,
		metrics: cfg.Metrics,
		logger:  cfg.Logger.Named("handler"),
		version: cfg.Version,
		now:     cfg.Now,
		started: cfg.Now(),
		mux:     http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /metrics", h.handleMetrics)

	h.mux.HandleFunc("POST /token", h.handleToken)
	h.mux.HandleFunc("GET /users/me", h.handleMe)

	h.mux.HandleFunc("GET /users", h.handleListUsers)
	h.mux.HandleFunc("POST /users", h.handleCreateUser)
	h.mux.HandleFunc("PATCH /users/{id}", h.handleUpdateUser)
	h.mux.HandleFunc("DELETE /users/{id}", h.handleDeleteUser)

	h.mux.HandleFunc("GET /tasks", h.handleListTasks)
	h.mux.HandleFunc("GET /tasks/stats/status", h.handleStatsByStatus)
	h.mux.HandleFunc("GET /tasks/stats/type", h.handleStatsByType)
	h.mux.HandleFunc("GET /tasks/{id}", h.handleGetTask)
	h.mux.HandleFunc("DELETE /tasks/{id}", h.handleDeleteTask)

	h.mux.HandleFunc("/", h.handleNotFound)
}

type userContextKey struct{}

// WithUser returns a copy of ctx carrying the authenticated caller.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

// UserFromContext returns the authenticated caller, or nil.
func UserFromContext(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userContextKey{}).(*domain.User)
	return u
}

// writeJSON writes v as a JSON response.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L(r.Context()).Error("failed to encode response", "error", err)
	}
}

// writeError converts a service error into a response. Errors without a
// client-facing status are logged and reported as 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if status := statusOf(err); status >= http.StatusInternalServerError {
		logger.L(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
	}
	WriteError(w, err)
}

// WriteError writes err as a {"detail": ...} response.
func WriteError(w http.ResponseWriter, err error) {
	status := statusOf(err)

	var de *domain.DomainError
	if !errors.As(err, &de) || status >= http.StatusInternalServerError {
		de = domain.ErrInternal
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", de.Code)
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.WriteHeader(status)

	var body ErrorResponse
	if status == http.StatusUnprocessableEntity {
		loc := []string{"body"}
		if field := fieldOf(de); field != "" {
			loc = append(loc, field)
		}
		body.Detail = []ValidationIssue{{Loc: loc, Msg: de.Message, Type: "value_error"}}
	} else {
		body.Detail = de.Message
	}
	_ = json.NewEncoder(w).Encode(body)
}

// WriteDetail writes a plain {"detail": msg} response.
func WriteDetail(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Detail: msg})
}

func statusOf(err error) int {
	var de *domain.DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}
	status := de.HTTPStatus()
	if status < http.StatusBadRequest || status > 599 {
		return http.StatusInternalServerError
	}
	return status
}

// fieldOf names the request field a validation error refers to.
func fieldOf(de *domain.DomainError) string {
	switch de.Code {
	case domain.ErrUsernameRequired.Code:
		return "username"
	case domain.ErrPasswordTooShort.Code:
		return "password"
	case domain.ErrInvalidRole.Code:
		return "role"
	}
	return ""
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.ErrUnprocessable.WithMessage("Invalid JSON body").WithCause(err)
	}
	return nil
}

func (h *Handler) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	WriteDetail(w, http.StatusNotFound, "Not Found")
}
