package storage

import (
	"errors"
	"time"
)

var ErrClosed = errors.New("journal closed")

// Config configures the journal.
//
// Driver values:
//   - "file": JSON Lines file
//   - "sqlite": SQLite database file
//
// If Driver is empty or "none", the journal is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// DeliveryEntry is one notification attempt.
type DeliveryEntry struct {
	At     time.Time `json:"at"`
	ChatID int64     `json:"chat_id,omitempty"`
	Chat   string    `json:"chat,omitempty"`
	Text   string    `json:"text"`
	OK     bool      `json:"ok"`
	Error  string    `json:"err,omitempty"`
	TookMS int64     `json:"took_ms"`
}
