package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
	"github.com/yndnr/taskadmin-go/internal/telemetry/logger"
	"github.com/yndnr/taskadmin-go/internal/telemetry/metric"
)

// Status is the session lifecycle state.
type Status string

const (
	StatusUnauthenticated Status = "unauthenticated"
	StatusVerifying       Status = "verifying"
	StatusAuthenticated   Status = "authenticated"
)

// State is an observable snapshot of the session.
type State struct {
	Status   Status
	Identity *domain.Identity
	// Error is the message of the last failed login or restore.
	Error string
}

// Authenticated reports whether a token is held.
func (s State) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

// Backend is the part of the API the session needs.
type Backend interface {
	Login(ctx context.Context, username, password string) (string, error)
	GetCurrentUser(ctx context.Context) (*domain.User, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the clock used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithMetrics records state transitions in reg.
func WithMetrics(reg *metric.Registry) Option {
	return func(m *Manager) { m.metrics = reg }
}

type subscriber struct {
	id int
	fn func(State)
}

// Manager owns the token and the identity derived from it. It is safe for
// concurrent use; subscribers are called outside the lock, one state at a
// time, in transition order.
type Manager struct {
	store   TokenStore
	now     func() time.Time
	log     logger.Logger
	metrics *metric.Registry

	mu       sync.Mutex
	backend  Backend
	state    State
	token    string
	epoch    uint64
	restored bool

	subs       []subscriber
	nextSub    int
	pending    []State
	delivering bool
}

// NewManager creates an unauthenticated manager over store. The backend
// may be attached later with SetBackend.
func NewManager(store TokenStore, backend Backend, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		backend: backend,
		now:     time.Now,
		log:     logger.Discard(),
		state:   State{Status: StatusUnauthenticated},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetBackend attaches the backend. The API client takes the manager as
// its token source, so the two are wired after construction.
func (m *Manager) SetBackend(b Backend) {
	m.mu.Lock()
	m.backend = b
	m.mu.Unlock()
}

// Snapshot returns the current state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers fn for every later transition and returns a func
// that removes it.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.mu.Lock()
	m.nextSub++
	id := m.nextSub
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, s := range m.subs {
				if s.id == id {
					m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Token returns the token to send, or "" when there is none. An expired
// token is discarded and ends the session.
func (m *Manager) Token() string {
	m.mu.Lock()
	token := m.token
	if token == "" {
		m.mu.Unlock()
		return ""
	}
	claims, err := DecodeClaims(token)
	if err == nil && !claims.Expired(m.now()) {
		m.mu.Unlock()
		return token
	}
	m.epoch++
	m.token = ""
	m.setStateLocked(State{Status: StatusUnauthenticated})
	m.mu.Unlock()

	m.log.Info("session token expired")
	m.clearStore(context.Background())
	m.flush()
	return ""
}

// Login exchanges credentials for a token, persists it and confirms the
// identity with the backend. On failure no token is kept.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	m.mu.Lock()
	backend := m.backend
	m.epoch++
	epoch := m.epoch
	// The old token must not ride along on the login request.
	m.token = ""
	m.mu.Unlock()

	if backend == nil {
		return errors.New("session: no backend")
	}

	token, err := backend.Login(ctx, username, password)
	if err == nil {
		var claims *Claims
		claims, err = DecodeClaims(token)
		if err == nil && claims.Expired(m.now()) {
			err = domain.ErrTokenExpired
		}
		if err == nil {
			username = claims.Subject
		}
	}
	if err != nil {
		m.fail(ctx, epoch, err)
		return err
	}

	if err := m.store.Save(ctx, token); err != nil {
		err = domain.ErrTokenNotSaved.WithCause(err)
		m.fail(ctx, epoch, err)
		return err
	}

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return domain.ErrNotAuthenticated
	}
	m.token = token
	m.setStateLocked(State{Status: StatusAuthenticated, Identity: domain.TentativeIdentity(username)})
	m.mu.Unlock()
	m.flush()

	m.log.Info("logged in", "username", username)
	return m.confirm(ctx, backend, epoch)
}

// RestoreSession loads a persisted token and confirms it with the
// backend. Malformed or expired tokens are discarded without a network
// call. Only the first call does any work.
func (m *Manager) RestoreSession(ctx context.Context) State {
	m.mu.Lock()
	if m.restored {
		defer m.mu.Unlock()
		return m.state
	}
	m.restored = true
	backend := m.backend
	epoch := m.epoch
	m.mu.Unlock()

	token, err := m.store.Load(ctx)
	if err != nil {
		m.log.Warn("load token failed", "error", err)
		m.clearStore(ctx)
		token = ""
	}
	if token == "" {
		return m.Snapshot()
	}

	claims, err := DecodeClaims(token)
	if err != nil || claims.Expired(m.now()) {
		m.log.Info("discarding stored token", "reason", restoreReason(err))
		m.clearStore(ctx)
		return m.Snapshot()
	}

	m.mu.Lock()
	if m.epoch != epoch {
		defer m.mu.Unlock()
		return m.state
	}
	m.token = token
	m.setStateLocked(State{Status: StatusVerifying, Identity: domain.TentativeIdentity(claims.Subject)})
	m.mu.Unlock()
	m.flush()

	if backend == nil {
		m.fail(ctx, epoch, errors.New("session: no backend"))
		return m.Snapshot()
	}
	_ = m.confirm(ctx, backend, epoch)
	return m.Snapshot()
}

// Logout discards the token. It makes no network call.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.epoch++
	m.token = ""
	m.setStateLocked(State{Status: StatusUnauthenticated})
	m.mu.Unlock()

	m.clearStore(ctx)
	m.flush()
	m.log.Info("logged out")
}

func (m *Manager) confirm(ctx context.Context, backend Backend, epoch uint64) error {
	user, err := backend.GetCurrentUser(ctx)
	if err != nil {
		m.fail(ctx, epoch, err)
		return err
	}

	m.mu.Lock()
	if m.epoch != epoch || m.token == "" {
		m.mu.Unlock()
		return domain.ErrNotAuthenticated
	}
	m.setStateLocked(State{Status: StatusAuthenticated, Identity: domain.ConfirmedIdentity(user)})
	m.mu.Unlock()
	m.flush()

	m.log.Debug("identity confirmed", "username", user.Username, "role", user.Role)
	return nil
}

// fail ends the session unless a newer operation has started since epoch.
func (m *Manager) fail(ctx context.Context, epoch uint64, err error) {
	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return
	}
	m.token = ""
	m.setStateLocked(State{Status: StatusUnauthenticated, Error: domain.MessageOf(err)})
	m.mu.Unlock()

	m.log.Warn("session ended", "error", err)
	m.clearStore(ctx)
	m.flush()
}

func (m *Manager) clearStore(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.log.Warn("clear token failed", "error", err)
	}
}

// setStateLocked must be called with mu held.
func (m *Manager) setStateLocked(s State) {
	m.state = s
	m.pending = append(m.pending, s)
	if m.metrics != nil {
		m.metrics.RecordSessionTransition(string(s.Status))
	}
}

// flush delivers pending states. A re-entrant call from a subscriber
// returns at once; the outer loop picks up what it queued.
func (m *Manager) flush() {
	m.mu.Lock()
	if m.delivering {
		m.mu.Unlock()
		return
	}
	m.delivering = true
	for len(m.pending) > 0 {
		s := m.pending[0]
		m.pending = m.pending[1:]
		subs := append([]subscriber(nil), m.subs...)
		m.mu.Unlock()
		for _, sub := range subs {
			sub.fn(s)
		}
		m.mu.Lock()
	}
	m.delivering = false
	m.mu.Unlock()
}

func restoreReason(err error) string {
	if err != nil {
		return "malformed"
	}
	return "expired"
}
