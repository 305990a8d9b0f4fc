// Package tlsroots manages TLS material.
//
//   - roots.go: trusted roots for the client (system pool plus a custom CA)
//   - watcher.go: a server key pair that reloads when its files change
package tlsroots
