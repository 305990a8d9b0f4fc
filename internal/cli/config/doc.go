// Package config holds taskadmin-cli settings.
//
// Settings come from, in increasing priority: built-in defaults, the YAML
// file at DefaultPath (~/.taskadmin/cli.yaml), TASKADMIN_CLI_* environment
// variables and command-line flags. Nested keys use "__" in variable
// names, so TASKADMIN_CLI_LOG__LEVEL sets log.level.
package config
