// Package session owns the client's authentication lifecycle.
//
// A Manager moves between three states:
//
//	Unauthenticated --Login--> Authenticated (tentative) --/users/me--> Authenticated (confirmed)
//	Unauthenticated --RestoreSession--> Verifying --/users/me--> Authenticated (confirmed)
//
// Any failure lands in Unauthenticated and discards the stored token. The
// token is the only persisted value; it lives in a TokenStore under the
// key "authToken". Tokens are decoded locally and an expired token is
// never handed out by Token, so it is never sent to the backend.
package session
