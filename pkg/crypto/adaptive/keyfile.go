package adaptive

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yndnr/taskadmin-go/pkg/token"
)

// LoadOrCreateKey reads a hex encoded key from path, creating the file with
// a fresh random key (mode 0600) when it does not exist.
func LoadOrCreateKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		key, err := hex.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, fmt.Errorf("adaptive: decode key file %s: %w", path, err)
		}
		if len(key) != KeySize {
			return nil, fmt.Errorf("adaptive: key file %s holds %d bytes, want %d", path, len(key), KeySize)
		}
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("adaptive: read key file: %w", err)
	}

	key, err := token.GenerateBytes(KeySize)
	if err != nil {
		return nil, fmt.Errorf("adaptive: generate key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("adaptive: create key dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(key)+"\n"), 0o600); err != nil {
		return nil, fmt.Errorf("adaptive: write key file: %w", err)
	}
	return key, nil
}
