package httpserver

import (
	"net/http"

	"github.com/yndnr/taskadmin-go/internal/core/service"
	"github.com/yndnr/taskadmin-go/internal/server/httpserver/handler"
	"github.com/yndnr/taskadmin-go/internal/telemetry/logger"
	"github.com/yndnr/taskadmin-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	Users  *service.UserService
	Tasks  *service.TaskService
	Tokens *service.TokenService

	// Metrics records HTTP metrics and backs GET /metrics. Optional.
	Metrics *metric.Registry

	// Logger for request logging. Defaults to logger.Default().
	Logger logger.Logger

	// Version is reported by GET /health.
	Version string

	// CORSAllowedOrigins is the list of allowed CORS origins.
	CORSAllowedOrigins []string

	// RateLimit is the per-IP request rate (requests/second); zero disables it.
	RateLimit float64
	Burst     int

	// EnableAudit enables per-request logging.
	EnableAudit bool
}

// NewRouter creates the HTTP router with all routes and middleware.
//
// Access levels: /health, /metrics and POST /token are public, GET
// /users/me needs a valid token, everything else needs an admin.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	log = log.Named("http")

	h := handler.New(handler.Config{
		Users:   cfg.Users,
		Tasks:   cfg.Tasks,
		Tokens:  cfg.Tokens,
		Metrics: cfg.Metrics,
		Logger:  log,
		Version: cfg.Version,
	})

	// Order: RequestID -> Metrics -> RateLimit -> Audit -> [Auth -> [Admin]] -> Handler
	common := []Middleware{
		RequestID(log),
		Metrics(cfg.Metrics),
		RateLimit(cfg.RateLimit, cfg.Burst, cfg.Metrics),
	}
	if cfg.EnableAudit {
		common = append(common, Audit())
	}
	authCfg := &AuthConfig{Tokens: cfg.Tokens, Users: cfg.Users}

	public := Chain(h, common...)
	authenticated := Chain(h, append(common[:len(common):len(common)], Auth(authCfg))...)
	admin := Chain(h, append(common[:len(common):len(common)], Auth(authCfg), RequireAdmin())...)

	mux := http.NewServeMux()

	// Probes
	mux.Handle("GET /health", Chain(h, RequestID(log), Metrics(cfg.Metrics)))
	mux.Handle("GET /metrics", Chain(h, RequestID(log)))

	// Authentication
	mux.Handle("POST /token", public)
	mux.Handle("GET /users/me", authenticated)

	// User administration
	mux.Handle("GET /users", admin)
	mux.Handle("POST /users", admin)
	mux.Handle("PATCH /users/{id}", admin)
	mux.Handle("DELETE /users/{id}", admin)

	// Task monitoring
	mux.Handle("GET /tasks", admin)
	mux.Handle("GET /tasks/stats/status", admin)
	mux.Handle("GET /tasks/stats/type", admin)
	mux.Handle("GET /tasks/{id}", admin)
	mux.Handle("DELETE /tasks/{id}", admin)

	mux.Handle("/", public)

	return Chain(mux, Recover(), CORS(cfg.CORSAllowedOrigins))
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		RateLimit:   50,
		Burst:       100,
		EnableAudit: true,
	}
}
