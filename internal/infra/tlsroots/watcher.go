package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"sync"
	"time"

	"github.com/yndnr/taskadmin-go/internal/infra/confloader"
	"github.com/yndnr/taskadmin-go/internal/telemetry/logger"
)

// Watcher serves a certificate and key pair and reloads it when either
// file changes. A pair that fails to load is logged and the previous one
// keeps serving.
type Watcher struct {
	certFile string
	keyFile  string
	debounce time.Duration
	logger   logger.Logger

	mu       sync.RWMutex
	cert     *tls.Certificate
	notAfter time.Time
	files    *confloader.Watcher
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets the logger for the watcher.
func WithLogger(l logger.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce sets how long to wait after the last write before
// reloading. Cert and key are usually rewritten one after the other.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// NewWatcher loads the key pair. Call StartAsync to follow changes.
func NewWatcher(certFile, keyFile string, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		certFile: certFile,
		keyFile:  keyFile,
		debounce: 500 * time.Millisecond,
		logger:   logger.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.load(); err != nil {
		return nil, fmt.Errorf("tlsroots: initial load: %w", err)
	}
	return w, nil
}

// StartAsync watches both files in the background until Stop.
func (w *Watcher) StartAsync() {
	files, err := confloader.NewWatcher(
		confloader.WithWatcherLogger(w.logger),
		confloader.WithDebounce(w.debounce),
	)
	if err != nil {
		w.logger.Error("certificate watcher not started", "error", err)
		return
	}
	for _, path := range []string{w.certFile, w.keyFile} {
		if err := files.Watch(path); err != nil {
			_ = files.Stop()
			w.logger.Error("certificate watcher not started", "file", path, "error", err)
			return
		}
	}
	files.OnChange(func(string) {
		if err := w.load(); err != nil {
			w.logger.Error("certificate reload failed", "cert_file", w.certFile, "error", err)
		}
	})

	w.mu.Lock()
	if w.files != nil {
		w.mu.Unlock()
		_ = files.Stop()
		return
	}
	w.files = files
	w.mu.Unlock()

	files.StartAsync()
}

// Stop stops watching. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	files := w.files
	w.mu.Unlock()
	if files != nil {
		_ = files.Stop()
	}
}

// GetCertificate implements tls.Config.GetCertificate.
func (w *Watcher) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cert, nil
}

// NotAfter returns the expiry of the current leaf certificate.
func (w *Watcher) NotAfter() time.Time {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.notAfter
}

// ServerConfig returns a server TLS config backed by the watcher.
func (w *Watcher) ServerConfig() *tls.Config {
	return &tls.Config{
		GetCertificate: w.GetCertificate,
		MinVersion:     tls.VersionTLS12,
	}
}

func (w *Watcher) load() error {
	pair, err := tls.LoadX509KeyPair(w.certFile, w.keyFile)
	if err != nil {
		return err
	}
	leaf, err := x509.ParseCertificate(pair.Certificate[0])
	if err != nil {
		return fmt.Errorf("parse leaf: %w", err)
	}
	pair.Leaf = leaf

	w.mu.Lock()
	w.cert = &pair
	w.notAfter = leaf.NotAfter
	w.mu.Unlock()

	w.logger.Info("certificate loaded", "cert_file", w.certFile, "subject", leaf.Subject.CommonName,
		"not_after", leaf.NotAfter.Format(time.RFC3339))
	return nil
}
