// Package storage provides the optional delivery journal.
//
// The journal is append-only: every notification attempt is recorded for
// operators, and nothing is read back at startup.
package storage
