package service

import (
	"context"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
)

// UserRepository defines the storage interface for user accounts.
type UserRepository interface {
	// Get retrieves an account by ID. Returns domain.ErrUserNotFound.
	Get(ctx context.Context, id string) (*domain.Account, error)

	// GetByUsername retrieves an account by exact username.
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)

	// Create stores a new account. Returns domain.ErrUserExists when the
	// username is taken.
	Create(ctx context.Context, account *domain.Account) error

	// Update replaces an existing account.
	Update(ctx context.Context, account *domain.Account) error

	// Delete removes an account by ID.
	Delete(ctx context.Context, id string) error

	// List returns all accounts ordered by creation time.
	List(ctx context.Context) ([]*domain.Account, error)
}

// TaskRepository defines the storage interface for tasks.
type TaskRepository interface {
	Get(ctx context.Context, id string) (*domain.Task, error)

	// Put creates or replaces a task.
	Put(ctx context.Context, task *domain.Task) error

	Delete(ctx context.Context, id string) error

	// List returns all tasks, newest first.
	List(ctx context.Context) ([]*domain.Task, error)
}
