package logger

import (
	"context"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/hashicorp/go-hclog"
)

// Logger is the application logger interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	Named(name string) Logger
	WithContext(ctx context.Context) Logger
}

// Config holds logger configuration.
type Config struct {
	// Name is prefixed to every entry.
	Name string
	// Level is the minimum log level (debug, info, warn, error, off).
	Level string
	// Format is the output format (json, text).
	Format string
	// Output is the output writer (defaults to os.Stderr).
	Output io.Writer
	// AddSource adds source file information to log entries.
	AddSource bool
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		Output: os.Stderr,
	}
}

type hcLogger struct {
	base hclog.Logger
	ctx  context.Context
}

// New creates a new logger with the given configuration.
func New(cfg Config) (Logger, error) {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	base := hclog.New(&hclog.LoggerOptions{
		Name:            cfg.Name,
		Level:           parseLevel(cfg.Level),
		Output:          output,
		JSONFormat:      !isText(cfg.Format),
		IncludeLocation: cfg.AddSource,
		Color:           hclog.ColorOff,
	})

	return &hcLogger{base: base, ctx: context.Background()}, nil
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	return &hcLogger{base: hclog.NewNullLogger(), ctx: context.Background()}
}

func isText(format string) bool {
	switch strings.ToLower(format) {
	case "text", "console":
		return true
	}
	return false
}

// SetLevel changes the level of the default logger and every logger
// derived from it.
func SetLevel(level string) {
	defaultLogger.Load().base.SetLevel(parseLevel(level))
}

// GetLevel returns the default logger's level as a string.
func GetLevel() string {
	switch defaultLogger.Load().base.GetLevel() {
	case hclog.Trace, hclog.Debug:
		return "debug"
	case hclog.Warn:
		return "warn"
	case hclog.Error:
		return "error"
	case hclog.Off:
		return "off"
	default:
		return "info"
	}
}

func (l *hcLogger) Debug(msg string, args ...any) {
	l.base.Debug(msg, l.args(args)...)
}

func (l *hcLogger) Info(msg string, args ...any) {
	l.base.Info(msg, l.args(args)...)
}

func (l *hcLogger) Warn(msg string, args ...any) {
	l.base.Warn(msg, l.args(args)...)
}

func (l *hcLogger) Error(msg string, args ...any) {
	l.base.Error(msg, l.args(args)...)
}

func (l *hcLogger) With(args ...any) Logger {
	return &hcLogger{base: l.base.With(redactArgs(args)...), ctx: l.ctx}
}

func (l *hcLogger) Named(name string) Logger {
	return &hcLogger{base: l.base.Named(name), ctx: l.ctx}
}

func (l *hcLogger) WithContext(ctx context.Context) Logger {
	return &hcLogger{base: l.base, ctx: ctx}
}

// args redacts the pairs and appends the request ID carried by the bound
// context, if any.
func (l *hcLogger) args(args []any) []any {
	out := redactArgs(args)
	if id := RequestIDFromContext(l.ctx); id != "" {
		out = append(out, "request_id", id)
	}
	return out
}

// StandardLogger adapts l for APIs that take a *log.Logger, such as
// http.Server.ErrorLog.
func StandardLogger(l Logger) *log.Logger {
	if hl, ok := l.(*hcLogger); ok {
		return hl.base.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true})
	}
	return log.New(io.Discard, "", 0)
}

func parseLevel(level string) hclog.Level {
	switch strings.ToLower(level) {
	case "debug", "trace":
		return hclog.Debug
	case "warn", "warning":
		return hclog.Warn
	case "error":
		return hclog.Error
	case "off", "none":
		return hclog.Off
	default:
		return hclog.Info
	}
}

var defaultLogger atomic.Pointer[hcLogger]

func init() {
	l, _ := New(DefaultConfig())
	defaultLogger.Store(l.(*hcLogger))
}

// SetDefault sets the default global logger.
func SetDefault(l Logger) {
	if hl, ok := l.(*hcLogger); ok {
		defaultLogger.Store(hl)
	}
}

// Default returns the default global logger.
func Default() Logger {
	return defaultLogger.Load()
}

// Debug logs at debug level using the default logger.
func Debug(msg string, args ...any) {
	defaultLogger.Load().Debug(msg, args...)
}

// Info logs at info level using the default logger.
func Info(msg string, args ...any) {
	defaultLogger.Load().Info(msg, args...)
}

// Warn logs at warn level using the default logger.
func Warn(msg string, args ...any) {
	defaultLogger.Load().Warn(msg, args...)
}

// Error logs at error level using the default logger.
func Error(msg string, args ...any) {
	defaultLogger.Load().Error(msg, args...)
}
