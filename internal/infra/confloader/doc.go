// Package confloader loads layered configuration with koanf.
//
// Priority (highest to lowest):
//
//  1. Explicit overrides (command-line flags)
//  2. Environment variables
//  3. Configuration file (YAML)
//  4. Defaults
//
// Environment variables use a double underscore as the nesting separator so
// that keys may contain single underscores:
//
//	TASKADMIN_AUTH__TOKEN_TTL=1h  ->  auth.token_ttl
//
// Watcher reports writes to a configuration file through fsnotify.
package confloader
