// ABOUTME: Activity log database operations
// ABOUTME: Appends sync log entries, caps the table size, and lists or clears entries

package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harper/inosync/internal/config"
	"github.com/harper/inosync/internal/models"
	"github.com/harper/inosync/internal/timeutil"
)

// AddLog inserts an entry and drops the oldest rows beyond config.MaxLogEntries.
func AddLog(db *sql.DB, entry *models.LogEntry) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(
		`INSERT INTO sync_log (id, timestamp, status, message, details) VALUES (?, ?, ?, ?, ?)`,
		entry.ID,
		timeutil.FormatISO(entry.Timestamp),
		entry.Status,
		entry.Message,
		entry.Details,
	)
	if err != nil {
		return fmt.Errorf("failed to add log entry: %w", err)
	}

	_, err = tx.Exec(`
		DELETE FROM sync_log
		WHERE id NOT IN (
			SELECT id FROM sync_log ORDER BY timestamp DESC, rowid DESC LIMIT ?
		)`, config.MaxLogEntries)
	if err != nil {
		return fmt.Errorf("failed to trim log: %w", err)
	}

	return tx.Commit()
}

// ListLogs returns entries newest first.
// Both filters are optional:
// - since: only entries at or after since (nil = all)
// - limit: maximum number of results (nil = no limit)
func ListLogs(db *sql.DB, since *time.Time, limit *int) ([]*models.LogEntry, error) {
	query := `
		SELECT id, timestamp, status, message, details
		FROM sync_log
		WHERE 1=1
	`
	args := []interface{}{}

	if since != nil {
		query += " AND timestamp >= ?"
		args = append(args, timeutil.FormatISO(*since))
	}

	query += " ORDER BY timestamp DESC, rowid DESC"

	if limit != nil {
		query += " LIMIT ?"
		args = append(args, *limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	defer rows.Close()

	entries := []*models.LogEntry{}
	for rows.Next() {
		entry := &models.LogEntry{}
		var ts string
		if err := rows.Scan(&entry.ID, &ts, &entry.Status, &entry.Message, &entry.Details); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		entry.Timestamp, err = time.Parse(timeutil.ISOFormat, ts)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q: %w", ts, err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating logs: %w", err)
	}
	return entries, nil
}

// CountLogs returns the number of stored entries.
func CountLogs(db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sync_log`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count logs: %w", err)
	}
	return count, nil
}

// ClearLogs deletes every entry and returns how many were removed.
func ClearLogs(db *sql.DB) (int64, error) {
	result, err := db.Exec(`DELETE FROM sync_log`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear logs: %w", err)
	}
	return result.RowsAffected()
}
