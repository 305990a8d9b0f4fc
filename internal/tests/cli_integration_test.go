// Package tests provides end-to-end tests of taskadmin-cli against the
// development backend.
//
// The backend runs on a real listener with Badger-backed stores, and the
// CLI uses its default encrypted on-disk token store, so these tests cover
// what the package tests replace with in-memory doubles:
//   - the session surviving separate CLI invocations
//   - backend data surviving a restart
package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yndnr/taskadmin-go/internal/cli/command"
	"github.com/yndnr/taskadmin-go/internal/core/domain"
	"github.com/yndnr/taskadmin-go/internal/core/service"
	"github.com/yndnr/taskadmin-go/internal/server/httpserver"
	"github.com/yndnr/taskadmin-go/internal/storage"
	"github.com/yndnr/taskadmin-go/internal/storage/memory"
	"github.com/yndnr/taskadmin-go/internal/telemetry/logger"
	"github.com/yndnr/taskadmin-go/internal/telemetry/metric"
)

const (
	adminUser     = "root"
	adminPassword = "root-password"
	signingSecret = "integration-signing-secret"
)

// backend is a devserver stack bound to a fixed address.
type backend struct {
	addr string
	kv   *storage.BadgerEngine
	srv  *httpserver.Server
	done chan error
}

func startBackend(t *testing.T, dataDir, addr string) *backend {
	t.Helper()
	ctx := context.Background()

	kv, err := storage.NewBadgerEngine(storage.DefaultKVConfig(dataDir), logger.Discard())
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	users, err := memory.NewUserStore(ctx, kv)
	if err != nil {
		t.Fatalf("load users: %v", err)
	}
	tasks, err := memory.NewTaskStore(ctx, kv)
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	tokens, err := service.NewTokenService(service.TokenServiceConfig{Secret: []byte(signingSecret)})
	if err != nil {
		t.Fatal(err)
	}

	userSvc := service.NewUserService(users, &service.UserServiceConfig{BcryptCost: bcrypt.MinCost})
	taskSvc := service.NewTaskService(tasks, users)
	if created, err := userSvc.EnsureAdmin(ctx, adminUser, adminPassword); err != nil {
		t.Fatalf("bootstrap admin: %v", err)
	} else if created {
		admin, err := userSvc.GetByUsername(ctx, adminUser)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := taskSvc.Seed(ctx, 6, []*domain.User{admin}, 7); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Users:   userSvc,
		Tasks:   taskSvc,
		Tokens:  tokens,
		Metrics: metric.NewRegistry(),
		Logger:  logger.Discard(),
		Version: "integration",
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	b := &backend{
		addr: ln.Addr().String(),
		kv:   kv,
		srv:  httpserver.New(httpserver.Options{Logger: logger.Discard()}, router),
		done: make(chan error, 1),
	}
	go func() { b.done <- b.srv.Serve(ln) }()
	t.Cleanup(func() { b.stop(t) })
	return b
}

func (b *backend) url() string { return "http://" + b.addr }

func (b *backend) stop(t *testing.T) {
	t.Helper()
	if b.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := b.srv.Shutdown(ctx); err != nil {
		t.Errorf("shutdown: %v", err)
	}
	if err := <-b.done; err != nil {
		t.Errorf("serve: %v", err)
	}
	if err := b.kv.Close(); err != nil {
		t.Errorf("close storage: %v", err)
	}
	b.srv = nil
}

// cli runs one CLI invocation as a separate process would, sharing only
// the data directory.
type cli struct {
	t       *testing.T
	server  string
	dataDir string
	config  string
}

func (c *cli) run(stdin string, args ...string) (string, error) {
	c.t.Helper()
	app := command.App(command.WithMetrics(metric.NewRegistry()))
	var stdout, stderr bytes.Buffer
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.Reader = strings.NewReader(stdin)

	full := append([]string{"taskadmin-cli", "--config", c.config, "--data-dir", c.dataDir, "--server", c.server}, args...)
	err := app.Run(full)
	return stdout.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run("", args...)
	if err != nil {
		c.t.Fatalf("%v: %v", args, err)
	}
	return out
}

func TestCLI_SessionPersistsAcrossInvocations(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	base := t.TempDir()
	b := startBackend(t, filepath.Join(base, "server"), "127.0.0.1:0")
	c := &cli{t: t, server: b.url(), dataDir: filepath.Join(base, "client"), config: filepath.Join(base, "cli.yaml")}

	if _, err := c.run("", "whoami"); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("whoami before login: %v", err)
	}

	out := c.mustRun("login", "-u", adminUser, "-p", adminPassword)
	if !strings.Contains(out, "Logged in as root (admin)") {
		t.Fatalf("login output = %q", out)
	}

	var id domain.Identity
	if err := json.Unmarshal([]byte(c.mustRun("-o", "json", "whoami")), &id); err != nil {
		t.Fatal(err)
	}
	if id.Username != adminUser || !id.IsAdmin() {
		t.Errorf("identity = %+v", id)
	}

	c.mustRun("user", "create", "-p", "carol-password", "carol")

	c.mustRun("logout")
	if _, err := c.run("", "user", "list"); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Errorf("user list after logout: %v", err)
	}
}

func TestCLI_BackendRestart(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	base := t.TempDir()
	serverDir := filepath.Join(base, "server")
	b := startBackend(t, serverDir, "127.0.0.1:0")
	addr := b.addr
	c := &cli{t: t, server: b.url(), dataDir: filepath.Join(base, "client"), config: filepath.Join(base, "cli.yaml")}

	c.mustRun("login", "-u", adminUser, "-p", adminPassword)
	c.mustRun("user", "create", "-p", "dave-password", "dave")
	before := c.mustRun("-o", "json", "stats")

	b.stop(t)
	if _, err := c.run("", "system", "health"); !errors.Is(err, domain.ErrConnection) {
		t.Errorf("health while down: %v", err)
	}

	// Same address and signing secret, so the stored token stays valid.
	startBackend(t, serverDir, addr)

	var users []*domain.User
	if err := json.Unmarshal([]byte(c.mustRun("-o", "json", "user", "list", "-q", "dave")), &users); err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 {
		t.Errorf("dave after restart: %+v", users)
	}
	if after := c.mustRun("-o", "json", "stats"); after != before {
		t.Errorf("stats changed across restart:\n%s\n%s", before, after)
	}
}
