package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
)

// UserServiceConfig holds configuration for UserService.
type UserServiceConfig struct {
	// BcryptCost is the hashing cost (default: bcrypt.DefaultCost).
	BcryptCost int

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// UserService handles authentication and user administration.
type UserService struct {
	repo UserRepository
	cost int
	now  func() time.Time

	// dummyHash is compared against when the username is unknown, so
	// both failure paths cost one bcrypt comparison.
	dummyHash []byte
}

// NewUserService creates a new UserService.
func NewUserService(repo UserRepository, cfg *UserServiceConfig) *UserService {
	if cfg == nil {
		cfg = &UserServiceConfig{}
	}
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("taskadmin-dummy"), cost)

	return &UserService{repo: repo, cost: cost, now: now, dummyHash: dummy}
}

// Authenticate verifies a username/password pair and records the login
// time. Every failure is reported as domain.ErrIncorrectLogin.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	acc, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, domain.ErrIncorrectLogin
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)) != nil {
		return nil, domain.ErrIncorrectLogin
	}

	acc.LastLogin = domain.NewTimestamp(s.now())
	if err := s.repo.Update(ctx, acc); err != nil {
		return nil, err
	}
	u := acc.User
	return &u, nil
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	acc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	u := acc.User
	return &u, nil
}

// GetByUsername returns a user by username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	acc, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	u := acc.User
	return &u, nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]*domain.User, len(accounts))
	for i, acc := range accounts {
		u := acc.User
		users[i] = &u
	}
	return users, nil
}

// Create validates the payload and stores a new user.
func (s *UserService) Create(ctx context.Context, req domain.UserCreate) (*domain.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, domain.ErrInternal.WithCause(err)
	}

	acc := &domain.Account{
		User: domain.User{
			ID:        uuid.NewString(),
			Username:  req.Username,
			Role:      req.Role,
			CreatedAt: domain.NewTimestamp(s.now()),
		},
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, acc); err != nil {
		return nil, err
	}
	u := acc.User
	return &u, nil
}

// Update applies a partial update to the user with the given ID.
func (s *UserService) Update(ctx context.Context, id string, req domain.UserUpdate) (*domain.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	acc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Role != nil {
		acc.Role = *req.Role
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.cost)
		if err != nil {
			return nil, domain.ErrInternal.WithCause(err)
		}
		acc.PasswordHash = hash
	}
	if err := s.repo.Update(ctx, acc); err != nil {
		return nil, err
	}
	u := acc.User
	return &u, nil
}

// Delete removes the user with the given ID. actorID is the caller; users
// cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actorID, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	if actorID == id {
		return domain.ErrCannotDeleteSelf
	}
	return s.repo.Delete(ctx, id)
}

// EnsureAdmin creates an admin account when username does not exist yet.
// It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.repo.GetByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return false, err
	}
	if _, err := s.Create(ctx, domain.UserCreate{Username: username, Password: password, Role: domain.RoleAdmin}); err != nil {
		return false, err
	}
	return true, nil
}
