package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr        = "127.0.0.1:8000"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	DefaultTokenTTL          = 30 * time.Minute
	DefaultBcryptCost        = 10
	DefaultBootstrapAdmin    = "admin"
	DefaultBootstrapPassword = "admin123"

	DefaultRateLimit = 50
	DefaultBurst     = 100

	DefaultSeedTasks = 25
	DefaultSeed      = 1

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:            DefaultHTTPAddr,
				ReadTimeout:     DefaultReadTimeout,
				WriteTimeout:    DefaultWriteTimeout,
				ShutdownTimeout: DefaultShutdownTimeout,
			},
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			RateLimit: RateLimitConfig{
				RequestsPerSecond: DefaultRateLimit,
				Burst:             DefaultBurst,
			},
		},
		Auth: AuthSection{
			TokenTTL:          DefaultTokenTTL,
			BcryptCost:        DefaultBcryptCost,
			BootstrapAdmin:    DefaultBootstrapAdmin,
			BootstrapPassword: DefaultBootstrapPassword,
		},
		Seed: SeedSection{
			Tasks: DefaultSeedTasks,
			Users: []string{"alice", "bob"},
			Seed:  DefaultSeed,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
