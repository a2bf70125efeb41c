package models

import "time"

// LogEntry is one line of the append-only audit trail. Entries live for the
// process lifetime and are never mutated or deleted.
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}
