// Package httpservertest runs the development backend in-process for
// tests of HTTP clients.
//
// A Backend wraps the real router in an httptest.Server, so clients are
// tested against the same routes, status codes and error bodies the
// devserver produces. Every request is recorded, which lets tests assert
// that an operation made no network call at all.
package httpservertest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
	"github.com/yndnr/taskadmin-go/internal/core/service"
	"github.com/yndnr/taskadmin-go/internal/server/httpserver"
	"github.com/yndnr/taskadmin-go/internal/storage/memory"
	"github.com/yndnr/taskadmin-go/internal/telemetry/logger"
	"github.com/yndnr/taskadmin-go/internal/telemetry/metric"
)

// Credentials of the accounts every Backend starts with.
const (
	AdminUsername = "admin"
	AdminPassword = "admin-password"
	UserUsername  = "alice"
	UserPassword  = "alice-password"
)

const secret = "httpservertest-signing-secret"

// Request is a recorded request.
type Request struct {
	Method        string
	Path          string
	Authorization string
}

// Backend is a running development backend.
type Backend struct {
	*httptest.Server

	Users   *service.UserService
	Tasks   *service.TaskService
	Tokens  *service.TokenService
	Metrics *metric.Registry

	// Admin and User are the preloaded accounts.
	Admin *domain.User
	User  *domain.User

	mu       sync.Mutex
	requests []Request
}

type options struct {
	seedTasks int
	rateLimit float64
	burst     int
	handler   func(http.Handler) http.Handler
}

// Option configures a Backend.
type Option func(*options)

// WithSeedTasks preloads n deterministic tasks owned by the preloaded
// accounts. Default 12.
func WithSeedTasks(n int) Option {
	return func(o *options) { o.seedTasks = n }
}

// WithRateLimit enables the per-IP rate limiter.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		o.rateLimit = rps
		o.burst = burst
	}
}

// WithMiddleware wraps the router, e.g. to inject faults.
func WithMiddleware(mw func(http.Handler) http.Handler) Option {
	return func(o *options) { o.handler = mw }
}

// New starts a Backend and registers its shutdown with t.Cleanup.
func New(t testing.TB, opts ...Option) *Backend {
	t.Helper()
	o := &options{seedTasks: 12}
	for _, opt := range opts {
		opt(o)
	}

	ctx := context.Background()
	userStore, err := memory.NewUserStore(ctx, nil)
	if err != nil {
		t.Fatalf("httpservertest: user store: %v", err)
	}
	taskStore, err := memory.NewTaskStore(ctx, nil)
	if err != nil {
		t.Fatalf("httpservertest: task store: %v", err)
	}

	tokens, err := service.NewTokenService(service.TokenServiceConfig{Secret: []byte(secret)})
	if err != nil {
		t.Fatalf("httpservertest: token service: %v", err)
	}

	b := &Backend{
		Users:   service.NewUserService(userStore, &service.UserServiceConfig{BcryptCost: bcrypt.MinCost}),
		Tasks:   service.NewTaskService(taskStore, userStore),
		Tokens:  tokens,
		Metrics: metric.NewRegistry(),
	}

	if _, err := b.Users.EnsureAdmin(ctx, AdminUsername, AdminPassword); err != nil {
		t.Fatalf("httpservertest: bootstrap admin: %v", err)
	}
	if b.Admin, err = b.Users.GetByUsername(ctx, AdminUsername); err != nil {
		t.Fatalf("httpservertest: %v", err)
	}
	b.User = b.AddUser(t, UserUsername, UserPassword, domain.RoleUser)

	if _, err := b.Tasks.Seed(ctx, o.seedTasks, []*domain.User{b.Admin, b.User}, 1); err != nil {
		t.Fatalf("httpservertest: seed tasks: %v", err)
	}

	var h http.Handler = httpserver.NewRouter(&httpserver.RouterConfig{
		Users:     b.Users,
		Tasks:     b.Tasks,
		Tokens:    b.Tokens,
		Metrics:   b.Metrics,
		Logger:    logger.Discard(),
		Version:   "test",
		RateLimit: o.rateLimit,
		Burst:     o.burst,
	})
	if o.handler != nil {
		h = o.handler(h)
	}

	b.Server = httptest.NewServer(b.record(h))
	t.Cleanup(b.Server.Close)
	return b
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
		})
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// Requests returns the requests received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// RequestCount returns the number of requests received so far.
func (b *Backend) RequestCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

// Reset forgets recorded requests.
func (b *Backend) Reset() {
	b.mu.Lock()
	b.requests = nil
	b.mu.Unlock()
}

// IssueToken returns a valid access token for username.
func (b *Backend) IssueToken(t testing.TB, username string) string {
	t.Helper()
	token, _, err := b.Tokens.Issue(username)
	if err != nil {
		t.Fatalf("httpservertest: issue token: %v", err)
	}
	return token
}

// ExpiredToken returns a correctly signed token for username that expired
// an hour ago.
func (b *Backend) ExpiredToken(t testing.TB, username string) string {
	t.Helper()
	token, _, err := b.Tokens.IssueWithTTL(username, -time.Hour)
	if err != nil {
		t.Fatalf("httpservertest: issue token: %v", err)
	}
	return token
}

// AddUser creates an account.
func (b *Backend) AddUser(t testing.TB, username, password string, role domain.Role) *domain.User {
	t.Helper()
	u, err := b.Users.Create(context.Background(), domain.UserCreate{Username: username, Password: password, Role: role})
	if err != nil {
		t.Fatalf("httpservertest: create user %q: %v", username, err)
	}
	return u
}

// TaskList returns the stored tasks, newest first.
func (b *Backend) TaskList(t testing.TB) []*domain.Task {
	t.Helper()
	tasks, err := b.Tasks.List(context.Background())
	if err != nil {
		t.Fatalf("httpservertest: list tasks: %v", err)
	}
	return tasks
}
