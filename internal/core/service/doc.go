// Package service implements the development backend's business logic.
//
//   - UserService: authentication and user administration
//   - TaskService: task queries, deletion and statistics
//   - TokenService: issuing and verifying HS256 access tokens
//
// Storage is abstracted by UserRepository and TaskRepository; package
// storage/memory provides the implementation.
package service
