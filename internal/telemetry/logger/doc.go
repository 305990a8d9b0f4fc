// Package logger provides structured logging for taskadmin.
//
// It wraps hashicorp/go-hclog behind a small Logger interface:
//
//   - logger.go: construction, level control and the process default
//   - context.go: context-aware logging with request IDs
//   - redact.go: sensitive data redaction
//
// Key/value pairs whose key looks sensitive (password, token, secret...)
// are redacted before they reach the sink, and values shaped like a JWT
// are masked regardless of key.
package logger
