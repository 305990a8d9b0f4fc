// Package command provides CLI command definitions for taskadmin-cli.
//
// It uses urfave/cli/v2 for command parsing and supports both
// single-command mode and interactive REPL mode.
package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/taskadmin-go/internal/cli/api"
	"github.com/yndnr/taskadmin-go/internal/cli/config"
	"github.com/yndnr/taskadmin-go/internal/cli/connection"
	"github.com/yndnr/taskadmin-go/internal/cli/output"
	"github.com/yndnr/taskadmin-go/internal/cli/session"
	"github.com/yndnr/taskadmin-go/internal/core/domain"
	"github.com/yndnr/taskadmin-go/internal/infra/buildinfo"
	"github.com/yndnr/taskadmin-go/internal/infra/tlsroots"
	"github.com/yndnr/taskadmin-go/internal/telemetry/logger"
	"github.com/yndnr/taskadmin-go/internal/telemetry/metric"
)

const (
	metaEnv     = "env"
	metaOptions = "options"
)

// AppOption customizes the application.
type AppOption func(*appOptions)

type appOptions struct {
	store   session.TokenStore
	metrics *metric.Registry
}

// WithTokenStore replaces the token store selected by configuration.
func WithTokenStore(s session.TokenStore) AppOption {
	return func(o *appOptions) { o.store = s }
}

// WithMetrics sets the registry API calls are recorded in.
func WithMetrics(reg *metric.Registry) AppOption {
	return func(o *appOptions) { o.metrics = reg }
}

// App creates the CLI application.
func App(opts ...AppOption) *cli.App {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.metrics == nil {
		o.metrics = metric.Global()
	}

	app := &cli.App{
		Name:    "taskadmin-cli",
		Usage:   "Task service administration client",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			LoginCommand(),
			LogoutCommand(),
			WhoamiCommand(),
			UserCommand(),
			TaskCommand(),
			StatsCommand(),
			SystemCommand(),
			ConfigCommand(),
			ShellCommand(),
		},
		Metadata: map[string]any{metaOptions: o},
		Before:   before,
		After:    after,
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Config file path (default ~/.taskadmin/cli.yaml)",
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "API base URL (e.g., http://localhost:8000)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Request timeout",
		},
		&cli.StringFlag{
			Name:  "data-dir",
			Usage: "Directory holding the stored session",
		},
		&cli.StringFlag{
			Name:  "ca-file",
			Usage: "CA certificate for https servers",
		},
		&cli.BoolFlag{
			Name:  "ephemeral",
			Usage: "Keep the session in memory only",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable verbose output",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Config string

	// Overrides for config values; only set flags apply.
	Server    string
	Output    string
	Timeout   string
	DataDir   string
	CAFile    string
	Wide      bool
	Verbose   bool
	Ephemeral bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	f := &GlobalFlags{
		Config:    c.String("config"),
		Server:    c.String("server"),
		Output:    c.String("output"),
		DataDir:   c.String("data-dir"),
		CAFile:    c.String("ca-file"),
		Wide:      c.Bool("wide"),
		Verbose:   c.Bool("verbose"),
		Ephemeral: c.Bool("ephemeral"),
	}
	if c.IsSet("timeout") {
		f.Timeout = c.Duration("timeout").String()
	}
	return f
}

// overrides maps the set flags to config keys.
func (f *GlobalFlags) overrides() map[string]any {
	out := make(map[string]any)
	set := func(key, v string) {
		if v != "" {
			out[key] = v
		}
	}
	set("server", f.Server)
	set("output", f.Output)
	set("timeout", f.Timeout)
	set("data_dir", f.DataDir)
	set("ca_file", f.CAFile)
	if f.Verbose {
		out["log.level"] = "debug"
	}
	return out
}

// Env is the per-process state shared by every command, including
// commands run from the shell.
type Env struct {
	Config     *config.CLIConfig
	ConfigPath string
	Log        logger.Logger
	Metrics    *metric.Registry
	Wide       bool

	ephemeral bool
	store     session.TokenStore
	closers   []func() error
	sessions  *session.Manager
	client    *api.Client
	restored  bool
	depth     int
	input     *bufio.Reader
}

func before(c *cli.Context) error {
	if env, ok := c.App.Metadata[metaEnv].(*Env); ok {
		env.depth++
		return nil
	}

	o, _ := c.App.Metadata[metaOptions].(*appOptions)
	if o == nil {
		o = &appOptions{metrics: metric.Global()}
	}

	flags := ParseGlobalFlags(c)
	path := flags.Config
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path, flags.overrides())
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Name:   "taskadmin-cli",
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.App.ErrWriter,
	})
	if err != nil {
		return err
	}

	c.App.Metadata[metaEnv] = &Env{
		Config:     cfg,
		ConfigPath: path,
		Log:        log,
		Metrics:    o.metrics,
		Wide:       flags.Wide,
		ephemeral:  flags.Ephemeral,
		store:      o.store,
		depth:      1,
	}
	return nil
}

func after(c *cli.Context) error {
	env, ok := c.App.Metadata[metaEnv].(*Env)
	if !ok {
		return nil
	}
	env.depth--
	if env.depth > 0 {
		return nil
	}
	delete(c.App.Metadata, metaEnv)
	return env.Close()
}

// Close releases the token store.
func (e *Env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i]())
	}
	e.closers = nil
	return errors.Join(errs...)
}

// connect builds the session manager and API client on first use.
func (e *Env) connect() error {
	if e.sessions != nil {
		return nil
	}

	store := e.store
	if store == nil {
		if e.ephemeral {
			store = session.NewMemoryTokenStore("")
		} else {
			kv, err := session.OpenKVTokenStore(e.Config.DataDir, e.Log.Named("store"))
			if err != nil {
				return fmt.Errorf("open token store: %w", err)
			}
			e.closers = append(e.closers, kv.Close)
			store = kv
		}
	}

	mgr := session.NewManager(store, nil,
		session.WithLogger(e.Log.Named("session")),
		session.WithMetrics(e.Metrics))

	httpOpts := []connection.Option{
		connection.WithTimeout(e.Config.Timeout),
		connection.WithTokenSource(mgr),
	}
	if e.Config.CAFile != "" {
		tlsCfg, err := tlsroots.ClientConfig(e.Config.CAFile)
		if err != nil {
			return err
		}
		httpOpts = append(httpOpts, connection.WithTLSConfig(tlsCfg))
	}
	client := api.New(connection.NewHTTPClient(e.Config.Server, httpOpts...),
		api.WithMetrics(e.Metrics),
		api.WithLogger(e.Log.Named("api")))
	mgr.SetBackend(client)

	e.sessions = mgr
	e.client = client
	return nil
}

// Client returns the API client without touching the session.
func (e *Env) Client() (*api.Client, error) {
	if err := e.connect(); err != nil {
		return nil, err
	}
	return e.client, nil
}

// Manager returns the session manager without restoring the stored
// session.
func (e *Env) Manager() (*session.Manager, error) {
	if err := e.connect(); err != nil {
		return nil, err
	}
	return e.sessions, nil
}

// Session returns the session manager after restoring the stored session
// once per process.
func (e *Env) Session(ctx context.Context) (*session.Manager, error) {
	if err := e.connect(); err != nil {
		return nil, err
	}
	if !e.restored {
		e.restored = true
		e.sessions.RestoreSession(ctx)
	}
	return e.sessions, nil
}

// Authenticated returns the API client for a confirmed session.
func (e *Env) Authenticated(ctx context.Context) (*api.Client, *domain.Identity, error) {
	mgr, err := e.Session(ctx)
	if err != nil {
		return nil, nil, err
	}
	state := mgr.Snapshot()
	if !state.Authenticated() {
		return nil, nil, domain.ErrNotAuthenticated.WithDetails("run 'taskadmin-cli login'")
	}
	return e.client, state.Identity, nil
}

// Admin is Authenticated plus a confirmed admin role.
func (e *Env) Admin(ctx context.Context) (*api.Client, error) {
	client, id, err := e.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	if !id.IsAdmin() {
		return nil, domain.ErrNotAdmin
	}
	return client, nil
}

// GetEnv retrieves the shared environment from context.
func GetEnv(c *cli.Context) (*Env, error) {
	if env, ok := c.App.Metadata[metaEnv].(*Env); ok {
		return env, nil
	}
	return nil, errors.New("command environment not initialized")
}

// requestContext bounds a command by the configured timeout.
func requestContext(c *cli.Context, env *Env) (context.Context, context.CancelFunc) {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, env.Config.Timeout)
}

// formatter returns the output formatter for this invocation. A flag given
// to a shell line wins over the configured format.
func formatter(c *cli.Context, env *Env) (output.Formatter, output.Format, error) {
	name := env.Config.Output
	if v := c.String("output"); v != "" {
		name = v
	}
	format, err := output.ParseFormat(name)
	if err != nil {
		return nil, "", err
	}
	return output.NewFormatter(format, env.Wide || c.Bool("wide")), format, nil
}

// startSpinner shows progress on interactive terminals only.
func startSpinner(c *cli.Context, message string) *output.Spinner {
	f, ok := c.App.ErrWriter.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return nil
	}
	s := output.NewSpinner(f, message)
	s.Start()
	return s
}

func stopSpinner(s *output.Spinner) {
	if s != nil {
		s.Stop()
	}
}

// FormatError renders err for the terminal.
func FormatError(err error) string {
	var de *domain.DomainError
	if errors.As(err, &de) {
		msg := de.Message
		if de.Details != "" {
			msg += " (" + de.Details + ")"
		}
		return msg
	}
	return err.Error()
}

// PrintError prints an error message to w.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %s\n", FormatError(err))
}
