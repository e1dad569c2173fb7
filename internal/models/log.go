// ABOUTME: LogEntry model for the user-facing sync activity log
// ABOUTME: Each entry records one status message produced during a sync

package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity log statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusInfo    = "info"
)

// LogEntry is one line of the activity log.
type LogEntry struct {
	ID        string
	Timestamp time.Time
	Status    string
	Message   string
	Details   string
}

// NewLogEntry creates a LogEntry with a fresh ID stamped at now.
func NewLogEntry(status, message, details string, now time.Time) *LogEntry {
	return &LogEntry{
		ID:        uuid.New().String(),
		Timestamp: now.UTC(),
		Status:    status,
		Message:   message,
		Details:   details,
	}
}

// IsError reports whether the entry records a failure.
func (e *LogEntry) IsError() bool {
	return e.Status == StatusError
}
