package command

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yndnr/taskadmin-go/internal/cli/session"
	"github.com/yndnr/taskadmin-go/internal/server/httpserver/httpservertest"
	"github.com/yndnr/taskadmin-go/internal/telemetry/metric"
)

// harness runs the CLI against an in-process backend with an in-memory
// token store and a private config file.
type harness struct {
	t       *testing.T
	backend *httpservertest.Backend
	store   *session.MemoryTokenStore
	metrics *metric.Registry
	config  string
	dataDir string
}

func newHarness(t *testing.T, opts ...httpservertest.Option) *harness {
	t.Helper()
	dir := t.TempDir()
	return &harness{
		t:       t,
		backend: httpservertest.New(t, opts...),
		store:   session.NewMemoryTokenStore(""),
		metrics: metric.NewRegistry(),
		config:  filepath.Join(dir, "cli.yaml"),
		dataDir: dir,
	}
}

// result is the outcome of one invocation.
type result struct {
	stdout string
	stderr string
	err    error
}

// run executes the CLI pointed at the backend.
func (h *harness) run(stdin string, args ...string) result {
	h.t.Helper()
	full := append([]string{"--server", h.backend.URL}, args...)
	return h.runRaw(stdin, full...)
}

// runRaw executes the CLI with only the config and data dir preset.
func (h *harness) runRaw(stdin string, args ...string) result {
	h.t.Helper()
	app := App(WithTokenStore(h.store), WithMetrics(h.metrics))
	var stdout, stderr bytes.Buffer
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.Reader = strings.NewReader(stdin)

	full := append([]string{"taskadmin-cli", "--config", h.config, "--data-dir", h.dataDir}, args...)
	err := app.Run(full)
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// mustRun fails the test when the invocation fails.
func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	r := h.run("", args...)
	if r.err != nil {
		h.t.Fatalf("%v: %v (stderr %q)", args, r.err, r.stderr)
	}
	return r.stdout
}

// loginAs stores a valid token for username without any request.
func (h *harness) loginAs(username string) {
	h.t.Helper()
	if err := h.store.Save(context.Background(), h.backend.IssueToken(h.t, username)); err != nil {
		h.t.Fatal(err)
	}
}

func (h *harness) storedToken() string {
	h.t.Helper()
	token, err := h.store.Load(context.Background())
	if err != nil {
		h.t.Fatal(err)
	}
	return token
}

// paths returns the recorded request paths as "METHOD /path".
func (h *harness) paths() []string {
	var out []string
	for _, r := range h.backend.Requests() {
		out = append(out, r.Method+" "+r.Path)
	}
	return out
}
