package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
	"github.com/yndnr/taskadmin-go/internal/storage"
	"github.com/yndnr/taskadmin-go/internal/telemetry/logger"
	"github.com/yndnr/taskadmin-go/pkg/crypto/adaptive"
)

// StorageKey is the key the token is persisted under.
const StorageKey = "authToken"

// TokenStore persists the session token.
type TokenStore interface {
	// Load returns the stored token, or "" when there is none.
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// MemoryTokenStore keeps the token in memory.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryTokenStore creates a store holding initial ("" for none).
func NewMemoryTokenStore(initial string) *MemoryTokenStore {
	return &MemoryTokenStore{token: initial}
}

func (s *MemoryTokenStore) Load(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryTokenStore) Clear(context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}

// KVTokenStore persists the token in a KV engine, sealed with an AEAD
// cipher bound to StorageKey.
type KVTokenStore struct {
	kv     storage.KVEngine
	cipher adaptive.Cipher
	owned  bool
}

// NewKVTokenStore creates a store over kv. A nil cipher stores the token
// in plain text.
func NewKVTokenStore(kv storage.KVEngine, cipher adaptive.Cipher) *KVTokenStore {
	return &KVTokenStore{kv: kv, cipher: cipher}
}

// OpenKVTokenStore opens the on-disk store under dir: a Badger database in
// dir/state sealed with the key in dir/token.key, created on first use.
// Close releases the database.
func OpenKVTokenStore(dir string, l logger.Logger) (*KVTokenStore, error) {
	key, err := adaptive.LoadOrCreateKey(filepath.Join(dir, "token.key"))
	if err != nil {
		return nil, err
	}
	cipher, err := adaptive.New(key)
	if err != nil {
		return nil, err
	}

	cfg := storage.DefaultKVConfig(filepath.Join(dir, "state"))
	cfg.GCInterval = 0
	kv, err := storage.NewBadgerEngine(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}
	return &KVTokenStore{kv: kv, cipher: cipher, owned: true}, nil
}

// Load returns the stored token. A value that cannot be unsealed is
// reported as domain.ErrTokenMalformed.
func (s *KVTokenStore) Load(ctx context.Context) (string, error) {
	data, err := s.kv.Get(ctx, []byte(StorageKey))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if s.cipher == nil {
		return string(data), nil
	}
	plain, err := s.cipher.Decrypt(data, []byte(StorageKey))
	if err != nil {
		return "", domain.ErrTokenMalformed.WithCause(err)
	}
	return string(plain), nil
}

func (s *KVTokenStore) Save(ctx context.Context, token string) error {
	data := []byte(token)
	if s.cipher != nil {
		sealed, err := s.cipher.Encrypt(data, []byte(StorageKey))
		if err != nil {
			return err
		}
		data = sealed
	}
	return s.kv.Set(ctx, []byte(StorageKey), data)
}

func (s *KVTokenStore) Clear(ctx context.Context) error {
	err := s.kv.Delete(ctx, []byte(StorageKey))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil
	}
	return err
}

// Close closes the KV engine when the store opened it.
func (s *KVTokenStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.kv.Close()
}
