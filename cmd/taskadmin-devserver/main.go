package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
	"github.com/yndnr/taskadmin-go/internal/core/service"
	"github.com/yndnr/taskadmin-go/internal/infra/buildinfo"
	"github.com/yndnr/taskadmin-go/internal/infra/confloader"
	"github.com/yndnr/taskadmin-go/internal/infra/shutdown"
	"github.com/yndnr/taskadmin-go/internal/infra/tlsroots"
	"github.com/yndnr/taskadmin-go/internal/server/config"
	"github.com/yndnr/taskadmin-go/internal/server/httpserver"
	"github.com/yndnr/taskadmin-go/internal/storage"
	"github.com/yndnr/taskadmin-go/internal/storage/memory"
	"github.com/yndnr/taskadmin-go/internal/telemetry/logger"
	"github.com/yndnr/taskadmin-go/internal/telemetry/metric"
	"github.com/yndnr/taskadmin-go/pkg/token"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		addr        = flag.String("addr", "", "Listen address (overrides server.http.addr)")
		dataDir     = flag.String("data-dir", "", "Persist data under this directory (overrides storage.data_dir)")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("taskadmin-devserver %s\n", buildinfo.String())
		return nil
	}

	overrides := map[string]any{}
	if *addr != "" {
		overrides["server.http.addr"] = *addr
	}
	if *dataDir != "" {
		overrides["storage.data_dir"] = *dataDir
	}

	cfg, err := loadConfig(*configFile, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	info := buildinfo.Get()
	log.Info("starting taskadmin-devserver",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile)
	log.Debug("effective configuration", "config", fmt.Sprintf("%+v", *config.Sanitize(cfg)))

	ctx := context.Background()
	shutdownHandler := shutdown.NewHandler(cfg.Server.HTTP.ShutdownTimeout)
	reg := metric.Global()

	// Hooks run in reverse order: HTTP server first, storage last.
	kv, err := initStorage(cfg, log, reg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	if kv != nil {
		shutdownHandler.OnShutdown(func(context.Context) error {
			log.Info("closing storage engine")
			return kv.Close()
		})
	}

	svc, err := initServices(ctx, cfg, kv, log, reg)
	if err != nil {
		return fmt.Errorf("init services: %w", err)
	}

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Users:              svc.users,
		Tasks:              svc.tasks,
		Tokens:             svc.tokens,
		Metrics:            reg,
		Logger:             log,
		Version:            info.Version,
		CORSAllowedOrigins: cfg.Server.CORSOrigins,
		RateLimit:          cfg.Server.RateLimit.RequestsPerSecond,
		Burst:              cfg.Server.RateLimit.Burst,
		EnableAudit:        true,
	})

	opts := httpserver.Options{
		Addr:         cfg.Server.HTTP.Addr,
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		Logger:       log,
	}
	if cfg.Server.HTTP.TLSEnabled() {
		certWatcher, err := tlsroots.NewWatcher(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile,
			tlsroots.WithLogger(log.Named("tls")))
		if err != nil {
			return fmt.Errorf("load TLS certificate: %w", err)
		}
		certWatcher.StartAsync()
		shutdownHandler.OnShutdown(func(context.Context) error {
			certWatcher.Stop()
			return nil
		})
		opts.TLSConfig = certWatcher.ServerConfig()
		log.Info("TLS enabled", "cert_file", cfg.Server.HTTP.TLSCertFile, "not_after", certWatcher.NotAfter())
	}

	if *configFile != "" {
		stop, err := watchConfig(*configFile, overrides, log)
		if err != nil {
			log.Warn("configuration hot reload disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown(func(context.Context) error { return stop() })
		}
	}

	ln, err := net.Listen("tcp", cfg.Server.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	httpServer := httpserver.New(opts, router)

	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})

	go func() {
		scheme := "http"
		if httpServer.TLS() {
			scheme = "https"
		}
		log.Info("HTTP server listening", "url", scheme+"://"+ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil {
			log.Error("HTTP server error", "error", err)
			shutdownHandler.Trigger()
		}
	}()

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from defaults, file, environment and
// flag overrides, in increasing precedence.
func loadConfig(configFile string, overrides map[string]any) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithOverrides(overrides)}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// initLogger creates the process logger and installs it as the default.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Name:   "devserver",
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return log, nil
}

// initStorage opens the Badger engine when a data directory is configured.
// A nil engine keeps all data in memory.
func initStorage(cfg *config.ServerConfig, log logger.Logger, reg *metric.Registry) (*storage.BadgerEngine, error) {
	if cfg.Storage.DataDir == "" {
		log.Info("storage: in-memory only")
		return nil, nil
	}
	if err := os.MkdirAll(cfg.Storage.DataDir, 0o700); err != nil {
		return nil, err
	}

	kv, err := storage.NewBadgerEngine(storage.DefaultKVConfig(cfg.Storage.DataDir), log.Named("storage"))
	if err != nil {
		return nil, err
	}
	reg.MustRegister(kv.Collector())
	log.Info("storage: badger", "dir", cfg.Storage.DataDir)
	return kv, nil
}

type services struct {
	users  *service.UserService
	tasks  *service.TaskService
	tokens *service.TokenService
}

// initServices builds the stores and services, creates the bootstrap admin
// and seeds sample tasks into an empty task store.
func initServices(ctx context.Context, cfg *config.ServerConfig, kv *storage.BadgerEngine, log logger.Logger, reg *metric.Registry) (*services, error) {
	var engine storage.KVEngine
	if kv != nil {
		engine = kv
	}

	userStore, err := memory.NewUserStore(ctx, engine)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	taskStore, err := memory.NewTaskStore(ctx, engine)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	reg.MustRegister(metric.NewCollector(func() (int, map[string]int) {
		return userStore.Count(), taskStore.CountByStatus()
	}))

	secret := []byte(cfg.Auth.Secret)
	if len(secret) == 0 {
		if secret, err = token.GenerateBytes(32); err != nil {
			return nil, err
		}
		log.Warn("auth.secret not set, using a random signing key; tokens will not survive a restart")
	}
	tokens, err := service.NewTokenService(service.TokenServiceConfig{Secret: secret, TTL: cfg.Auth.TokenTTL})
	if err != nil {
		return nil, err
	}

	users := service.NewUserService(userStore, &service.UserServiceConfig{BcryptCost: cfg.Auth.BcryptCost})
	tasks := service.NewTaskService(taskStore, userStore)

	var owners []*domain.User
	if cfg.Auth.BootstrapAdmin != "" {
		created, err := users.EnsureAdmin(ctx, cfg.Auth.BootstrapAdmin, cfg.Auth.BootstrapPassword)
		if err != nil {
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
		if created {
			log.Info("bootstrap admin created", "username", cfg.Auth.BootstrapAdmin)
		}
		admin, err := users.GetByUsername(ctx, cfg.Auth.BootstrapAdmin)
		if err != nil {
			return nil, err
		}
		owners = append(owners, admin)
	}

	if taskStore.Count() == 0 && cfg.Seed.Tasks > 0 {
		for _, name := range cfg.Seed.Users {
			u, err := ensureUser(ctx, users, name, log)
			if err != nil {
				return nil, err
			}
			owners = append(owners, u)
		}
		if len(owners) > 0 {
			seeded, err := tasks.Seed(ctx, cfg.Seed.Tasks, owners, cfg.Seed.Seed)
			if err != nil {
				return nil, fmt.Errorf("seed tasks: %w", err)
			}
			log.Info("sample tasks created", "count", len(seeded))
		}
	}

	return &services{users: users, tasks: tasks, tokens: tokens}, nil
}

// ensureUser returns the user named name, creating it with the password
// "<name>-password" when missing.
func ensureUser(ctx context.Context, users *service.UserService, name string, log logger.Logger) (*domain.User, error) {
	u, err := users.GetByUsername(ctx, name)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	u, err = users.Create(ctx, domain.UserCreate{Username: name, Password: name + "-password", Role: domain.RoleUser})
	if err != nil {
		return nil, fmt.Errorf("seed user %q: %w", name, err)
	}
	log.Info("sample user created", "username", name)
	return u, nil
}

// watchConfig reloads log.level when the configuration file changes.
func watchConfig(path string, overrides map[string]any, log logger.Logger) (func() error, error) {
	w, err := confloader.NewWatcher(
		confloader.WithWatcherLogger(log.Named("config")),
		confloader.WithDebounce(250*time.Millisecond),
	)
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, err
	}

	w.OnChange(func(string) {
		cfg, err := loadConfig(path, overrides)
		if err != nil {
			log.Warn("configuration reload rejected", "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	w.StartAsync()
	return w.Stop, nil
}
