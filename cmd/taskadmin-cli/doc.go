// Package main provides the entry point for taskadmin-cli.
//
// The CLI administers a task-processing service:
//
//   - Session management (login, logout, whoami)
//   - User management (list, create, update, delete)
//   - Task monitoring (list, get, delete) and statistics
//   - Configuration and server health
//
// Usage:
//
//	taskadmin-cli [global flags] command [flags] [args]
//	taskadmin-cli login -u admin
//	taskadmin-cli -o json task list --status failed
//	taskadmin-cli shell
//
// The session token is stored encrypted under ~/.taskadmin and reused by
// later invocations until it expires or the user logs out.
package main
