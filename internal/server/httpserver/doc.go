// Package httpserver provides the HTTP/HTTPS server of the development
// backend.
//
// It serves the task service's REST surface on stdlib net/http:
//
//   - Authentication: POST /token, GET /users/me
//   - Administration: /users, /users/{id}, /tasks, /tasks/{id}, /tasks/stats/*
//   - Probes: /health, /metrics
//
// Middleware chain: Recover, CORS, RequestID, Metrics, RateLimit, Audit,
// then Auth and RequireAdmin on protected routes. TLS certificates can be
// hot-reloaded through tlsroots.Watcher.
package httpserver
