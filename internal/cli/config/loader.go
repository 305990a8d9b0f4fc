package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/taskadmin-go/internal/cli/output"
	"github.com/yndnr/taskadmin-go/internal/infra/confloader"
)

// Load reads the configuration. A missing file is not an error. path
// defaults to DefaultPath; overrides are dotted keys from flags.
func Load(path string, overrides map[string]any) (*CLIConfig, error) {
	return load(path,
		confloader.WithEnvPrefix(EnvPrefix),
		confloader.WithOverrides(overrides))
}

// LoadFile reads defaults and the file only, ignoring the environment.
// It is the base for edits that are saved back to the file.
func LoadFile(path string) (*CLIConfig, error) {
	return load(path, confloader.WithEnvPrefix(""))
}

func load(path string, extra ...confloader.Option) (*CLIConfig, error) {
	if path == "" {
		path = DefaultPath()
	}

	opts := []confloader.Option{
		confloader.WithDefaults(Default().toMap()),
		confloader.WithConfigFile(path),
		confloader.WithOptionalFile(),
	}
	loader := confloader.NewLoader(append(opts, extra...)...)

	cfg := &CLIConfig{}
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	cfg.DataDir = ExpandHome(cfg.DataDir)
	cfg.CAFile = ExpandHome(cfg.CAFile)

	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path (DefaultPath when empty) readable only by the
// owner.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".cli-*.yaml")
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// Keys returns the settable keys in order.
func Keys() []string {
	keys := make([]string, 0, len(Default().toMap()))
	for k := range Default().toMap() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of key as a string.
func Get(cfg *CLIConfig, key string) (string, error) {
	v, ok := cfg.toMap()[key]
	if !ok {
		return "", unknownKey(key)
	}
	return fmt.Sprint(v), nil
}

// Set assigns value to key and validates the result. cfg is left
// unchanged on error.
func Set(cfg *CLIConfig, key, value string) error {
	next := *cfg
	switch key {
	case "server":
		next.Server = strings.TrimRight(value, "/")
	case "output":
		next.Output = value
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		next.Timeout = d
	case "data_dir":
		next.DataDir = ExpandHome(value)
	case "ca_file":
		next.CAFile = ExpandHome(value)
	case "log.level":
		next.Log.Level = value
	case "log.format":
		next.Log.Format = value
	default:
		return unknownKey(key)
	}

	if err := Verify(&next); err != nil {
		return err
	}
	*cfg = next
	return nil
}

func unknownKey(key string) error {
	return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
}

// Verify checks cfg.
func Verify(cfg *CLIConfig) error {
	var errs []error

	if u, err := url.Parse(cfg.Server); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("server %q must be an http or https URL", cfg.Server))
	}
	if _, err := output.ParseFormat(cfg.Output); err != nil {
		errs = append(errs, err)
	}
	if cfg.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout))
	}
	if cfg.DataDir == "" {
		errs = append(errs, errors.New("data_dir must not be empty"))
	}
	if cfg.CAFile != "" {
		if _, err := os.Stat(cfg.CAFile); err != nil {
			errs = append(errs, fmt.Errorf("ca_file: %w", err))
		}
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error", "off":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error, off", cfg.Log.Level))
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not one of text, json", cfg.Log.Format))
	}

	return errors.Join(errs...)
}
