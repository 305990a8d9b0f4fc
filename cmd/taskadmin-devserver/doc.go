// Package main provides the entry point for taskadmin-devserver.
//
// The devserver is a self-contained backend for the task administration
// client. It serves the same REST surface as the production task service:
//
//   - POST /token password login issuing HS256 bearer tokens
//   - user administration and task monitoring for admins
//   - /health and Prometheus /metrics
//
// Usage:
//
//	taskadmin-devserver [flags]
//	taskadmin-devserver -config /path/to/devserver.yaml
//
// Without storage.data_dir everything lives in memory and a bootstrap admin
// plus sample tasks are created on every start.
package main
