// Package command provides CLI command definitions for taskadmin-cli.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: root command, global flags and the shared Env
//   - auth.go: login, logout and whoami
//   - user.go: user subcommand group
//   - task.go: task subcommand group
//   - stats.go: task statistics charts
//   - system.go: health, version and metrics
//   - config.go: configuration subcommand group
//   - shell.go: interactive shell running the same commands
//
// Commands follow a consistent pattern of resolving the Env, mounting a
// view or calling the API client, and formatting output.
package command
