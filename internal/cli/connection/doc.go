// Package connection provides the HTTP transport of taskadmin-cli.
//
// HTTPClient sends JSON and form requests to the task service and attaches
// the bearer token supplied by a TokenSource. ParseResponse turns
// responses into values or errors:
//
//   - transport failures become domain.ErrConnection
//   - non-2xx statuses become *StatusError carrying the backend detail
//   - undecodable 2xx bodies become domain.ErrProtocol
//
// Requests are never retried.
package connection
