// Package storage provides the embedded key/value layer.
//
// KVEngine is implemented by BadgerEngine. The CLI keeps its encrypted
// session token in it; the development backend can persist its user and
// task records through it (see package memory).
package storage
