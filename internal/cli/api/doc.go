// Package api is the typed client of the task service REST API.
//
// Every method sends at most one request and never retries. Non-2xx
// responses become *domain.DomainError values classified by status; the
// message is the backend's detail when it sent one, otherwise a fixed
// per-operation text such as "failed to fetch users". Transport failures
// are domain.ErrConnection and undecodable 2xx bodies are
// domain.ErrProtocol.
package api
