package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
)

// UsersAPI is the part of the API the users view calls.
type UsersAPI interface {
	GetUsers(ctx context.Context) ([]*domain.User, error)
	CreateUser(ctx context.Context, req domain.UserCreate) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, req domain.UserUpdate) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// Users is the user management view.
type Users struct {
	lifecycle
	api UsersAPI

	users  []*domain.User
	filter string
}

// NewUsers creates an unmounted view.
func NewUsers(api UsersAPI, opts ...Option) *Users {
	v := &Users{api: api}
	v.init(opts)
	return v
}

// Mount loads the user list.
func (v *Users) Mount(ctx context.Context) error {
	return v.Refresh(ctx)
}

// Refresh refetches the user list. The returned error is also sent to the
// notifier; the previous list is kept on failure.
func (v *Users) Refresh(ctx context.Context) error {
	gen, ok := v.begin()
	if !ok {
		return nil
	}
	users, err := v.api.GetUsers(ctx)
	v.finish(gen, err, func() { v.users = users })
	return err
}

// Create adds a user and refetches.
func (v *Users) Create(ctx context.Context, req domain.UserCreate) error {
	u, err := v.api.CreateUser(ctx, req)
	msg := ""
	if err == nil {
		msg = fmt.Sprintf("User %s created", u.Username)
	}
	return v.afterMutation(ctx, err, msg)
}

// Update changes user id and refetches.
func (v *Users) Update(ctx context.Context, id string, req domain.UserUpdate) error {
	u, err := v.api.UpdateUser(ctx, id, req)
	msg := ""
	if err == nil {
		msg = fmt.Sprintf("User %s updated", u.Username)
	}
	return v.afterMutation(ctx, err, msg)
}

// Delete removes user id and refetches.
func (v *Users) Delete(ctx context.Context, id string) error {
	err := v.api.DeleteUser(ctx, id)
	return v.afterMutation(ctx, err, fmt.Sprintf("User %s deleted", v.nameOf(id)))
}

func (v *Users) afterMutation(ctx context.Context, err error, success string) error {
	if !v.mutated(err, success) || err != nil {
		return err
	}
	_ = v.Refresh(ctx)
	return nil
}

func (v *Users) nameOf(id string) string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, u := range v.users {
		if u.ID == id {
			return u.Username
		}
	}
	return id
}

// SetFilter sets the username search term.
func (v *Users) SetFilter(term string) {
	v.mu.Lock()
	v.filter = term
	v.mu.Unlock()
	v.changed()
}

// All returns the held list, unfiltered.
func (v *Users) All() []*domain.User {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]*domain.User(nil), v.users...)
}

// Visible returns the users matching the filter.
func (v *Users) Visible() []*domain.User {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return FilterUsers(v.users, v.filter)
}

// FilterUsers keeps users whose name contains term, ignoring case. An
// empty term keeps all.
func FilterUsers(users []*domain.User, term string) []*domain.User {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]*domain.User, 0, len(users))
	for _, u := range users {
		if term == "" || strings.Contains(strings.ToLower(u.Username), term) {
			out = append(out, u)
		}
	}
	return out
}
