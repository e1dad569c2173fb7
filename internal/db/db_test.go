// ABOUTME: Tests for database connection and path helpers
// ABOUTME: Validates XDG path resolution and schema creation

package db

import (
	"path/filepath"
	"testing"
)

func TestGetDefaultDBPath(t *testing.T) {
	path := GetDefaultDBPath()

	if !filepath.IsAbs(path) {
		t.Errorf("expected absolute path, got %s", path)
	}
	if filepath.Base(path) != "inosync.db" {
		t.Errorf("expected inosync.db, got %s", filepath.Base(path))
	}
}

func TestGetDefaultDBPath_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	want := filepath.Join(dir, "inosync", "inosync.db")
	if got := GetDefaultDBPath(); got != want {
		t.Errorf("GetDefaultDBPath() = %s, want %s", got, want)
	}
}

func TestInitDB(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	conn, err := InitDB(dbPath)
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	defer conn.Close()

	var count int
	err = conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='sync_log'").Scan(&count)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 1 {
		t.Error("sync_log table not created")
	}

	// Migrations are idempotent
	if err := runMigrations(conn); err != nil {
		t.Errorf("second migration run failed: %v", err)
	}
}
