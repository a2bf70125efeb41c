package store

import (
	"testing"
	"time"
)

func TestAuditLogAppendAndList(t *testing.T) {
	l := NewAuditLog()
	fixed := time.Date(2023, time.October, 15, 9, 30, 0, 0, time.UTC)
	l.clockNow = func() time.Time { return fixed }

	entry := l.Append("Uploaded file with 3 transactions.")
	if entry.ID == "" {
		t.Fatalf("expected a generated id")
	}
	if !entry.Timestamp.Equal(fixed) {
		t.Fatalf("timestamp mismatch: %v", entry.Timestamp)
	}

	l.Append("Deleted transaction: Alpha Corp - 100 USD")

	list := l.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list))
	}
	if list[0].Message != "Uploaded file with 3 transactions." {
		t.Fatalf("entries must keep append order: %q", list[0].Message)
	}

	// returned slice is a copy
	list[0].Message = "tampered"
	if l.List()[0].Message == "tampered" {
		t.Fatalf("List must return a copy")
	}
}
