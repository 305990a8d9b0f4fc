package config

import "time"

// ServerConfig is the root configuration for taskadmin-devserver.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Auth    AuthSection    `koanf:"auth"`
	Storage StorageSection `koanf:"storage"`
	Seed    SeedSection    `koanf:"seed"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures the HTTP endpoint.
type ServerSection struct {
	HTTP        HTTPConfig      `koanf:"http"`
	CORSOrigins []string        `koanf:"cors_origins"`
	RateLimit   RateLimitConfig `koanf:"rate_limit"`
}

// HTTPConfig configures the HTTP server. TLS is enabled when both files
// are set.
type HTTPConfig struct {
	Addr            string        `koanf:"addr"`
	TLSCertFile     string        `koanf:"tls_cert_file"`
	TLSKeyFile      string        `koanf:"tls_key_file"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// TLSEnabled reports whether a key pair is configured.
func (c HTTPConfig) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// RateLimitConfig configures per-client request limiting. A zero
// RequestsPerSecond disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`
}

// AuthSection configures token issuing and the bootstrap administrator.
type AuthSection struct {
	// Secret is the HMAC key for access tokens. Generated at startup when
	// empty, which invalidates tokens across restarts.
	Secret            string        `koanf:"secret"`
	TokenTTL          time.Duration `koanf:"token_ttl"`
	BcryptCost        int           `koanf:"bcrypt_cost"`
	BootstrapAdmin    string        `koanf:"bootstrap_admin"`
	BootstrapPassword string        `koanf:"bootstrap_password"`
}

// StorageSection configures persistence. An empty DataDir keeps
// everything in memory.
type StorageSection struct {
	DataDir string `koanf:"data_dir"`
}

// SeedSection configures demo data created at startup.
type SeedSection struct {
	Tasks int      `koanf:"tasks"`
	Users []string `koanf:"users"`
	Seed  uint64   `koanf:"seed"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
