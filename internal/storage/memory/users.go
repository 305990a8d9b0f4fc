package memory

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
	"github.com/yndnr/taskadmin-go/internal/storage"
	"github.com/yndnr/taskadmin-go/pkg/cmap"
)

// storedAccount is the persisted form of a domain.Account; the hash is
// excluded from the account's JSON encoding.
type storedAccount struct {
	domain.User
	PasswordHash []byte `json:"password_hash"`
}

// UserStore is an in-memory service.UserRepository.
type UserStore struct {
	users     *cmap.Map[string, *domain.Account]
	usernames *UsernameIndex
	mirror    mirror
}

// NewUserStore creates a user store. kv may be nil; otherwise existing
// records are loaded from it.
func NewUserStore(ctx context.Context, kv storage.KVEngine) (*UserStore, error) {
	s := &UserStore{
		users:     cmap.New[string, *domain.Account](),
		usernames: NewUsernameIndex(),
		mirror:    mirror{kv: kv, prefix: userPrefix},
	}

	err := s.mirror.load(ctx, func(data []byte) error {
		var rec storedAccount
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		acc := &domain.Account{User: rec.User, PasswordHash: rec.PasswordHash}
		s.users.Set(acc.ID, acc)
		s.usernames.Reserve(normalizeKey(acc.Username), acc.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Get retrieves an account by ID.
func (s *UserStore) Get(_ context.Context, id string) (*domain.Account, error) {
	acc, ok := s.users.Get(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneAccount(acc), nil
}

// GetByUsername retrieves an account by username.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	id, ok := s.usernames.Lookup(normalizeKey(username))
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return s.Get(ctx, id)
}

// Create stores a new account.
func (s *UserStore) Create(ctx context.Context, acc *domain.Account) error {
	if !s.usernames.Reserve(normalizeKey(acc.Username), acc.ID) {
		return domain.ErrUserExists
	}
	stored := cloneAccount(acc)
	if !s.users.SetIfAbsent(acc.ID, stored) {
		s.usernames.Release(normalizeKey(acc.Username), acc.ID)
		return domain.ErrUserExists
	}
	if err := s.persist(ctx, stored); err != nil {
		s.users.Delete(acc.ID)
		s.usernames.Release(normalizeKey(acc.Username), acc.ID)
		return err
	}
	return nil
}

// Update replaces an existing account. Usernames are immutable.
func (s *UserStore) Update(ctx context.Context, acc *domain.Account) error {
	stored := cloneAccount(acc)
	_, ok := s.users.Compute(acc.ID, func(current *domain.Account, exists bool) (*domain.Account, bool) {
		if !exists {
			return current, false
		}
		stored.Username = current.Username
		return stored, true
	})
	if !ok {
		return domain.ErrUserNotFound
	}
	return s.persist(ctx, stored)
}

// Delete removes an account by ID.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	acc, ok := s.users.Pop(id)
	if !ok {
		return domain.ErrUserNotFound
	}
	s.usernames.Release(normalizeKey(acc.Username), id)
	return s.mirror.delete(ctx, id)
}

// List returns all accounts ordered by creation time, then username.
func (s *UserStore) List(_ context.Context) ([]*domain.Account, error) {
	values := s.users.Values()
	out := make([]*domain.Account, len(values))
	for i, acc := range values {
		out[i] = cloneAccount(acc)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].CreatedAt, out[j].CreatedAt
		if a != nil && b != nil && !a.Equal(b.Time) {
			return a.Before(b.Time)
		}
		return out[i].Username < out[j].Username
	})
	return out, nil
}

// Count returns the number of stored users.
func (s *UserStore) Count() int {
	return s.users.Count()
}

func (s *UserStore) persist(ctx context.Context, acc *domain.Account) error {
	return s.mirror.put(ctx, acc.ID, storedAccount{User: acc.User, PasswordHash: acc.PasswordHash})
}

func cloneAccount(acc *domain.Account) *domain.Account {
	c := *acc
	c.PasswordHash = append([]byte(nil), acc.PasswordHash...)
	if acc.CreatedAt != nil {
		t := *acc.CreatedAt
		c.CreatedAt = &t
	}
	if acc.LastLogin != nil {
		t := *acc.LastLogin
		c.LastLogin = &t
	}
	return &c
}
