package memory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yndnr/taskadmin-go/internal/storage"
)

// Key prefixes in the KV engine.
const (
	userPrefix = "user/"
	taskPrefix = "task/"
)

// mirror writes records through to an optional KV engine.
type mirror struct {
	kv     storage.KVEngine
	prefix string
}

func (m mirror) put(ctx context.Context, id string, v any) error {
	if m.kv == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s%s: %w", m.prefix, id, err)
	}
	return m.kv.Set(ctx, []byte(m.prefix+id), data)
}

func (m mirror) delete(ctx context.Context, id string) error {
	if m.kv == nil {
		return nil
	}
	return m.kv.Delete(ctx, []byte(m.prefix+id))
}

// load decodes every record under the prefix with decode.
func (m mirror) load(ctx context.Context, decode func(data []byte) error) error {
	if m.kv == nil {
		return nil
	}
	var decodeErr error
	err := m.kv.Scan(ctx, []byte(m.prefix), func(key, value []byte) bool {
		if err := decode(value); err != nil {
			decodeErr = fmt.Errorf("decode %s: %w", key, err)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	return decodeErr
}
