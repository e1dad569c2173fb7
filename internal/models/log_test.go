// ABOUTME: Test suite for the LogEntry model
// ABOUTME: Checks ID generation, UTC stamping, and status helpers

package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewLogEntry(t *testing.T) {
	loc := time.FixedZone("EST", -5*60*60)
	now := time.Date(2024, 3, 13, 10, 0, 0, 0, loc)

	entry := NewLogEntry(StatusSuccess, "Created: Foo", "Tech/Foo.md", now)

	if _, err := uuid.Parse(entry.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", entry.ID, err)
	}
	if entry.Timestamp.Location() != time.UTC {
		t.Errorf("Timestamp location = %v, want UTC", entry.Timestamp.Location())
	}
	if !entry.Timestamp.Equal(now) {
		t.Errorf("Timestamp = %v, want %v", entry.Timestamp, now)
	}
	if entry.Message != "Created: Foo" || entry.Details != "Tech/Foo.md" {
		t.Errorf("unexpected entry %+v", entry)
	}

	other := NewLogEntry(StatusSuccess, "Created: Foo", "", now)
	if other.ID == entry.ID {
		t.Error("expected unique IDs")
	}
}

func TestLogEntry_IsError(t *testing.T) {
	if (&LogEntry{Status: StatusInfo}).IsError() {
		t.Error("info entry reported as error")
	}
	if !(&LogEntry{Status: StatusError}).IsError() {
		t.Error("error entry not reported as error")
	}
}
