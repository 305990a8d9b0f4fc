package config

import "strings"

// Sanitize returns a copy of the config with secrets masked, for logging.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg
	sanitized.Server.CORSOrigins = append([]string(nil), cfg.Server.CORSOrigins...)
	sanitized.Seed.Users = append([]string(nil), cfg.Seed.Users...)

	if sanitized.Auth.Secret != "" {
		sanitized.Auth.Secret = maskSecret(sanitized.Auth.Secret)
	}
	if sanitized.Auth.BootstrapPassword != "" {
		sanitized.Auth.BootstrapPassword = maskSecret(sanitized.Auth.BootstrapPassword)
	}
	return &sanitized
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
