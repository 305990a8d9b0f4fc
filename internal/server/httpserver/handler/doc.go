// Package handler provides the HTTP request handlers of the development
// backend.
//
// Routes mirror the task service's REST surface:
//
//   - POST /token: password login, returns a bearer token
//   - GET /users/me: the caller's profile
//   - GET, POST /users and PATCH, DELETE /users/{id}: user administration
//   - GET /tasks, GET, DELETE /tasks/{id}: task monitoring
//   - GET /tasks/stats/status, GET /tasks/stats/type: statistics
//   - GET /health, GET /metrics: probes
//
// Errors are written as {"detail": ...} bodies. Validation failures use the
// list form [{"loc": [...], "msg": ..., "type": ...}].
//
// Authentication and role checks are applied by the httpserver middleware;
// handlers read the caller with UserFromContext.
package handler
