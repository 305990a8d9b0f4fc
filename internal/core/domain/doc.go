// Package domain defines the data model shared by the admin client and the
// development backend.
//
//   - User, UserCreate, UserUpdate and Account (user plus password hash)
//   - Task, TaskStatus and the per-status / per-type statistics
//   - Identity: who the client believes it is authenticated as
//   - DomainError: coded errors with a client-facing Kind
//
// Types here carry JSON tags matching the REST surface and have no IO
// dependencies.
package domain
