package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
	"github.com/yndnr/taskadmin-go/internal/storage"
	"github.com/yndnr/taskadmin-go/internal/telemetry/logger"
)

func newAccount(id, username string, role domain.Role, created time.Time) *domain.Account {
	return &domain.Account{
		User: domain.User{
			ID:        id,
			Username:  username,
			Role:      role,
			CreatedAt: domain.NewTimestamp(created),
		},
		PasswordHash: []byte("hash-" + id),
	}
}

func newKV(t *testing.T, dir string) storage.KVEngine {
	t.Helper()
	kv, err := storage.NewBadgerEngine(storage.DefaultKVConfig(dir), logger.Discard())
	if err != nil {
		t.Fatalf("NewBadgerEngine() error = %v", err)
	}
	return kv
}

func TestUserStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s, err := NewUserStore(ctx, nil)
	if err != nil {
		t.Fatalf("NewUserStore() error = %v", err)
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := s.Create(ctx, newAccount("1", "admin", domain.RoleAdmin, base)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Create(ctx, newAccount("2", "admin", domain.RoleUser, base)); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("duplicate username error = %v, want ErrUserExists", err)
	}
	if err := s.Create(ctx, newAccount("2", "bob", domain.RoleUser, base.Add(time.Hour))); err != nil {
		t.Fatalf("Create(bob) error = %v", err)
	}

	acc, err := s.GetByUsername(ctx, "bob")
	if err != nil || acc.ID != "2" {
		t.Fatalf("GetByUsername() = %v, %v", acc, err)
	}

	acc.Role = domain.RoleAdmin
	acc.Username = "renamed"
	if err := s.Update(ctx, acc); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _ := s.Get(ctx, "2")
	if got.Role != domain.RoleAdmin {
		t.Errorf("Role = %q after update", got.Role)
	}
	if got.Username != "bob" {
		t.Errorf("Username = %q, usernames are immutable", got.Username)
	}

	if err := s.Update(ctx, newAccount("404", "x", domain.RoleUser, base)); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Update(missing) error = %v", err)
	}

	list, _ := s.List(ctx)
	if len(list) != 2 || list[0].Username != "admin" || list[1].Username != "bob" {
		t.Errorf("List() order = %v", list)
	}

	if err := s.Delete(ctx, "2"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.GetByUsername(ctx, "bob"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("GetByUsername() after delete error = %v", err)
	}
	if err := s.Delete(ctx, "2"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("second Delete() error = %v", err)
	}
	if s.Count() != 1 {
		t.Errorf("Count() = %d", s.Count())
	}
}

func TestUserStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s, _ := NewUserStore(ctx, nil)
	_ = s.Create(ctx, newAccount("1", "alice", domain.RoleUser, time.Now()))

	acc, _ := s.Get(ctx, "1")
	acc.Role = domain.RoleAdmin
	acc.PasswordHash[0] = 'X'

	again, _ := s.Get(ctx, "1")
	if again.Role != domain.RoleUser || again.PasswordHash[0] == 'X' {
		t.Error("mutating a returned account changed the store")
	}
}

func TestUserStore_Persistence(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	kv := newKV(t, dir)
	s, err := NewUserStore(ctx, kv)
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Create(ctx, newAccount("1", "alice", domain.RoleAdmin, time.Now()))
	_ = s.Create(ctx, newAccount("2", "bob", domain.RoleUser, time.Now()))
	_ = s.Delete(ctx, "2")
	if err := kv.Close(); err != nil {
		t.Fatal(err)
	}

	kv = newKV(t, dir)
	defer kv.Close()
	reloaded, err := NewUserStore(ctx, kv)
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if reloaded.Count() != 1 {
		t.Fatalf("Count() = %d after reload, want 1", reloaded.Count())
	}
	acc, err := reloaded.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if string(acc.PasswordHash) != "hash-1" {
		t.Errorf("PasswordHash = %q, want it persisted", acc.PasswordHash)
	}
}
