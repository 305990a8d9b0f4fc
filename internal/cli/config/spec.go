package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "TASKADMIN_CLI_"

// Defaults.
const (
	DefaultServer    = "http://localhost:8000"
	DefaultOutput    = "table"
	DefaultTimeout   = 30 * time.Second
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
	defaultDirName   = ".taskadmin"
	configFileName   = "cli.yaml"
)

// CLIConfig is the client configuration.
type CLIConfig struct {
	// Server is the base URL of the task service.
	Server string `koanf:"server" yaml:"server"`
	// Output is the default output format: table, json or yaml.
	Output  string        `koanf:"output" yaml:"output"`
	Timeout time.Duration `koanf:"timeout" yaml:"timeout"`
	// DataDir holds the session token store.
	DataDir string `koanf:"data_dir" yaml:"data_dir"`
	// CAFile is a PEM bundle trusted for https servers, in addition to
	// the system roots.
	CAFile string    `koanf:"ca_file" yaml:"ca_file,omitempty"`
	Log    LogConfig `koanf:"log" yaml:"log"`
}

// LogConfig configures client logging. Logs go to stderr.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:  DefaultServer,
		Output:  DefaultOutput,
		Timeout: DefaultTimeout,
		DataDir: DefaultDataDir(),
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

func (c *CLIConfig) toMap() map[string]any {
	return map[string]any{
		"server":     c.Server,
		"output":     c.Output,
		"timeout":    c.Timeout.String(),
		"data_dir":   c.DataDir,
		"ca_file":    c.CAFile,
		"log.level":  c.Log.Level,
		"log.format": c.Log.Format,
	}
}

// DefaultDataDir returns ~/.taskadmin, or .taskadmin when the home
// directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultDirName
	}
	return filepath.Join(home, defaultDirName)
}

// DefaultPath returns the config file path.
func DefaultPath() string {
	return filepath.Join(DefaultDataDir(), configFileName)
}

// ExpandHome replaces a leading "~/" with the home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
