// Package config defines the development backend's configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values
//   - verify.go: validation
//   - sanitize.go: masking secrets for logs
//
// Configuration is loaded via internal/infra/confloader from a YAML file
// and TASKADMIN_* environment variables.
package config
