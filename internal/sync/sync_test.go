// ABOUTME: Tests for the sync orchestrator
// ABOUTME: Uses an in-memory tag source, temp vaults, and a temp SQLite activity log

package sync

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	gosync "sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/harper/inosync/internal/config"
	"github.com/harper/inosync/internal/db"
	"github.com/harper/inosync/internal/fetch"
	"github.com/harper/inosync/internal/inoreader"
	"github.com/harper/inosync/internal/models"
	"github.com/harper/inosync/internal/parse"
	"github.com/harper/inosync/internal/vault"
)

var fixedNow = time.Date(2024, 3, 13, 15, 30, 45, 0, time.UTC)

// fakeSource serves canned feeds per tag and can fail a set number of times.
type fakeSource struct {
	mu       gosync.Mutex
	items    map[string][]models.FeedItem
	errs     map[string][]error
	calls    map[string]int
	lastForc bool
	block    chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		items: map[string][]models.FeedItem{},
		errs:  map[string][]error{},
		calls: map[string]int{},
	}
}

func (f *fakeSource) FetchTag(ctx context.Context, userID, tag string, force bool) (*parse.Feed, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[tag]++
	f.lastForc = force
	if userID == "" {
		return nil, inoreader.ErrEmptyUserID
	}
	if queue := f.errs[tag]; len(queue) > 0 {
		f.errs[tag] = queue[1:]
		return nil, queue[0]
	}
	return &parse.Feed{Title: tag, Format: "atom", Items: f.items[tag]}, nil
}

func item(id, title string) models.FeedItem {
	return models.FeedItem{
		ID:          id,
		Title:       title,
		ContentHTML: "<p>Hello <b>world</b></p>",
		Published:   fixedNow,
		SourceTitle: "Example",
		Link:        "https://example.com/" + id,
		Author:      "Unknown",
	}
}

type fixture struct {
	cfg    *config.Config
	source *fakeSource
	vault  *vault.Vault
	conn   *sql.DB
	syncer *Syncer
}

func newFixture(t *testing.T, tags ...config.TagConfig) *fixture {
	t.Helper()
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	retries := 2
	cfg := &config.Config{UserID: "1005", Tags: tags, TargetFolder: "Inbox", MaxRetries: &retries}
	f := &fixture{
		cfg:    cfg,
		source: newFakeSource(),
		vault:  vault.New(t.TempDir()),
		conn:   conn,
	}
	f.syncer = NewSyncer(cfg, Options{
		Source:  f.source,
		Vault:   f.vault,
		DB:      conn,
		Now:     func() time.Time { return fixedNow },
		BackOff: func() backoff.BackOff { return &backoff.ZeroBackOff{} },
	})
	return f
}

func (f *fixture) messages(t *testing.T) []string {
	t.Helper()
	logs, err := db.ListLogs(f.conn, nil, nil)
	if err != nil {
		t.Fatalf("ListLogs: %v", err)
	}
	var out []string
	for i := len(logs) - 1; i >= 0; i-- {
		out = append(out, logs[i].Message)
	}
	return out
}

func TestRun_CreatesThenSkipsThenUpdates(t *testing.T) {
	f := newFixture(t, config.TagConfig{Name: "golang", Folder: "Go"})
	f.source.items["golang"] = []models.FeedItem{item("a", "First: Post"), item("b", "Second")}

	result, err := f.syncer.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Processed != 2 {
		t.Errorf("Processed = %d, want 2", result.Processed)
	}
	if len(result.Tags) != 1 || len(result.Tags[0].Created) != 2 {
		t.Fatalf("unexpected result %+v", result.Tags)
	}
	if result.Tags[0].Format != "atom" {
		t.Errorf("Format = %q, want atom", result.Tags[0].Format)
	}

	path := filepath.Join(f.vault.Root(), "Go", "First- Post.md")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("note not written: %v", err)
	}
	if !strings.Contains(string(data), "Hello **world**") {
		t.Errorf("note body not converted:\n%s", data)
	}

	result, err = f.syncer.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Processed != 0 || result.Tags[0].Skipped != 2 {
		t.Errorf("second run: processed %d skipped %d, want 0 and 2", result.Processed, result.Tags[0].Skipped)
	}

	result, err = f.syncer.Run(context.Background(), true)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Tags[0].Updated) != 2 {
		t.Errorf("forced run updated %d, want 2", len(result.Tags[0].Updated))
	}
	if !f.source.lastForc {
		t.Error("force flag not passed to source")
	}

	msgs := f.messages(t)
	for _, want := range []string{
		"Sync started",
		"Fetching feed for tag: golang...",
		"Created: First- Post",
		"No new items for tag: golang",
		"Force Sync started",
		"Updated: Second",
		"Sync complete. 2 notes processed.",
	} {
		found := false
		for _, m := range msgs {
			if m == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("activity log missing %q; got %v", want, msgs)
		}
	}
}

func TestRun_DefaultFolderFallback(t *testing.T) {
	f := newFixture(t, config.TagConfig{Name: "news", Folder: "   "})
	f.source.items["news"] = []models.FeedItem{item("a", "A")}

	if _, err := f.syncer.Run(context.Background(), false); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.vault.Root(), "Inbox", "A.md")); err != nil {
		t.Errorf("expected note in target folder: %v", err)
	}
}

func TestRun_TagFailureIsIsolated(t *testing.T) {
	f := newFixture(t, config.TagConfig{Name: "blocked"}, config.TagConfig{Name: "ok"})
	f.source.errs["blocked"] = []error{parse.ErrBlockedResponse}
	f.source.items["ok"] = []models.FeedItem{item("a", "A")}

	result, err := f.syncer.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Failed != 1 || result.Processed != 1 {
		t.Errorf("Failed = %d, Processed = %d; want 1 and 1", result.Failed, result.Processed)
	}
	if !errors.Is(result.Tags[0].Err, parse.ErrBlockedResponse) {
		t.Errorf("Tags[0].Err = %v", result.Tags[0].Err)
	}
	if f.source.calls["blocked"] != 1 {
		t.Errorf("blocked response retried %d times, want a single attempt", f.source.calls["blocked"])
	}

	logs, err := db.ListLogs(f.conn, nil, nil)
	if err != nil {
		t.Fatalf("ListLogs: %v", err)
	}
	var failed *models.LogEntry
	for _, l := range logs {
		if l.Message == "Failed to process tag: blocked" {
			failed = l
		}
	}
	if failed == nil || !failed.IsError() {
		t.Fatalf("expected error log entry for blocked tag, got %+v", logs)
	}
}

func TestRun_RetriesTransientErrors(t *testing.T) {
	f := newFixture(t, config.TagConfig{Name: "flaky"})
	f.source.errs["flaky"] = []error{&fetch.HTTPError{StatusCode: 503}, &fetch.HTTPError{StatusCode: 429}}
	f.source.items["flaky"] = []models.FeedItem{item("a", "A")}

	result, err := f.syncer.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.source.calls["flaky"] != 3 {
		t.Errorf("calls = %d, want 3", f.source.calls["flaky"])
	}
	if result.Processed != 1 || result.Failed != 0 {
		t.Errorf("Processed = %d, Failed = %d", result.Processed, result.Failed)
	}
}

func TestRun_GivesUpAfterMaxRetries(t *testing.T) {
	f := newFixture(t, config.TagConfig{Name: "down"})
	f.source.errs["down"] = []error{
		&fetch.HTTPError{StatusCode: 502},
		&fetch.HTTPError{StatusCode: 502},
		&fetch.HTTPError{StatusCode: 502},
		&fetch.HTTPError{StatusCode: 502},
	}

	result, err := f.syncer.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.source.calls["down"] != 3 {
		t.Errorf("calls = %d, want 3 (1 + 2 retries)", f.source.calls["down"])
	}
	var httpErr *fetch.HTTPError
	if !errors.As(result.Tags[0].Err, &httpErr) || httpErr.StatusCode != 502 {
		t.Errorf("Tags[0].Err = %v", result.Tags[0].Err)
	}
}

func TestRun_ClientErrorsArePermanent(t *testing.T) {
	f := newFixture(t, config.TagConfig{Name: "missing"})
	f.source.errs["missing"] = []error{&fetch.HTTPError{StatusCode: 404}}

	if _, err := f.syncer.Run(context.Background(), false); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.source.calls["missing"] != 1 {
		t.Errorf("calls = %d, want 1", f.source.calls["missing"])
	}
}

func TestRun_EmptyUserID(t *testing.T) {
	f := newFixture(t, config.TagConfig{Name: "golang"})
	f.cfg.UserID = ""

	result, err := f.syncer.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !errors.Is(result.Tags[0].Err, inoreader.ErrEmptyUserID) {
		t.Errorf("Tags[0].Err = %v, want ErrEmptyUserID", result.Tags[0].Err)
	}
	if f.source.calls["golang"] != 1 {
		t.Errorf("calls = %d, want 1", f.source.calls["golang"])
	}
}

func TestRun_RejectsConcurrentRuns(t *testing.T) {
	f := newFixture(t, config.TagConfig{Name: "slow"})
	f.source.block = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := f.syncer.Run(context.Background(), false)
		done <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !f.syncer.Running() {
		if time.Now().After(deadline) {
			t.Fatal("first run never started")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if _, err := f.syncer.Run(context.Background(), false); !errors.Is(err, ErrSyncInProgress) {
		t.Errorf("second Run error = %v, want ErrSyncInProgress", err)
	}

	close(f.source.block)
	if err := <-done; err != nil {
		t.Errorf("first Run error = %v", err)
	}
	if f.syncer.Running() {
		t.Error("Running() still true after run finished")
	}
}

func TestRun_CanceledContext(t *testing.T) {
	f := newFixture(t, config.TagConfig{Name: "a"}, config.TagConfig{Name: "b"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.syncer.Run(ctx, false); !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
	if len(f.source.calls) != 0 {
		t.Errorf("expected no fetches, got %v", f.source.calls)
	}
}

func TestPreview(t *testing.T) {
	f := newFixture(t)
	f.source.items["golang"] = []models.FeedItem{item("a", "A"), item("b", "B"), item("c", "C")}

	preview, err := f.syncer.Preview(context.Background(), "golang", 2)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if preview.Format != "atom" || preview.Title != "golang" {
		t.Errorf("Format = %q, Title = %q", preview.Format, preview.Title)
	}
	notes := preview.Notes
	if len(notes) != 2 {
		t.Fatalf("len(notes) = %d, want 2", len(notes))
	}
	if notes[0].FileNameStem != "A" || !strings.Contains(notes[0].Document, "# A") {
		t.Errorf("unexpected note %+v", notes[0])
	}

	entries, err := os.ReadDir(f.vault.Root())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Preview wrote %d files to the vault", len(entries))
	}

	all, err := f.syncer.Preview(context.Background(), "golang", 0)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(all.Notes) != 3 {
		t.Errorf("len(all.Notes) = %d, want 3", len(all.Notes))
	}
}

func TestIsPermanent(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{inoreader.ErrEmptyUserID, true},
		{parse.ErrBlockedResponse, true},
		{parse.ErrMalformedFeed, true},
		{&fetch.HTTPError{StatusCode: 403}, true},
		{&fetch.HTTPError{StatusCode: 429}, false},
		{&fetch.HTTPError{StatusCode: 500}, false},
		{errors.New("connection reset"), false},
	}

	for _, tt := range tests {
		if got := isPermanent(tt.err); got != tt.want {
			t.Errorf("isPermanent(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
