// Package token generates random secrets.
//
// It backs the development server's signing secret when none is
// configured, and the key files used to seal tokens at rest.
package token
