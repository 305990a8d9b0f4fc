package confloader

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/taskadmin-go/internal/telemetry/logger"
)

func TestNewWatcher(t *testing.T) {
	w, err := NewWatcher(WithWatcherLogger(logger.Discard()), WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if w.watcher == nil || w.done == nil || w.logger == nil {
		t.Error("NewWatcher() left fields unset")
	}
	if w.debounce != 10*time.Millisecond {
		t.Errorf("debounce = %v", w.debounce)
	}
}

func TestWatcher_StopTwice(t *testing.T) {
	w, err := NewWatcher(WithWatcherLogger(logger.Discard()))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}

func TestWatcher_NotifiesOnlyWatchedFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	otherFile := filepath.Join(dir, "other.yaml")
	if err := os.WriteFile(configFile, []byte("a: 1"), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(WithWatcherLogger(logger.Discard()), WithDebounce(200*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if err := w.Watch(configFile); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	var mu sync.Mutex
	var changed []string
	notified := make(chan struct{}, 4)
	w.OnChange(func(path string) {
		mu.Lock()
		changed = append(changed, path)
		mu.Unlock()
		notified <- struct{}{}
	})
	w.StartAsync()

	if err := os.WriteFile(otherFile, []byte("b: 2"), 0o600); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(configFile, []byte("a: 2"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-notified:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
	time.Sleep(400 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(changed) != 1 {
		t.Fatalf("got %d notifications (%v), want 1 after debounce", len(changed), changed)
	}
	abs, _ := filepath.Abs(configFile)
	if changed[0] != abs {
		t.Errorf("changed = %q, want %q", changed[0], abs)
	}
}
