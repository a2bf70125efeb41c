package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/depack/cashflow-backend/internal/models"
)

// auditLog is the append-only trail of every mutation. Entries are kept for
// the process lifetime and never rewritten.
type auditLog struct {
	mu       sync.Mutex
	entries  []models.LogEntry
	clockNow func() time.Time
}

func NewAuditLog() *auditLog {
	return &auditLog{clockNow: time.Now}
}

func (l *auditLog) Append(message string) models.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := models.LogEntry{
		ID:        uuid.NewString(),
		Timestamp: l.clockNow(),
		Message:   message,
	}
	l.entries = append(l.entries, entry)
	return entry
}

func (l *auditLog) List() []models.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
