// ABOUTME: Tests for vault note writing and listing
// ABOUTME: Uses temp dirs to check create, skip, overwrite, and frontmatter reads

package vault

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harper/inosync/internal/models"
	"github.com/harper/inosync/internal/render"
)

func testNote(title string, published time.Time) render.Note {
	item := models.FeedItem{
		ID:          "id-" + title,
		Title:       title,
		Published:   published,
		SourceTitle: "Example Blog",
		Link:        "https://example.com/" + title,
		Author:      "Unknown",
		Categories:  []string{"Go"},
	}
	return render.Render(item, "body", "")
}

func TestWrite_CreateSkipUpdate(t *testing.T) {
	v := New(t.TempDir())
	note := testNote("First", time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))

	outcome, path, err := v.Write("Feeds/Tech", note, false)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if outcome != Created {
		t.Errorf("first write outcome = %v, want created", outcome)
	}
	if path != filepath.Join(v.Root(), "Feeds", "Tech", "First.md") {
		t.Errorf("path = %s", path)
	}

	if err := os.WriteFile(path, []byte("edited by hand"), 0644); err != nil {
		t.Fatal(err)
	}

	outcome, _, err = v.Write("Feeds/Tech", note, false)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if outcome != Skipped {
		t.Errorf("second write outcome = %v, want skipped", outcome)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "edited by hand" {
		t.Error("skipped write modified the file")
	}

	outcome, _, err = v.Write("Feeds/Tech", note, true)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if outcome != Updated {
		t.Errorf("forced write outcome = %v, want updated", outcome)
	}
	data, _ = os.ReadFile(path)
	if string(data) != note.Document {
		t.Error("forced write did not replace the file")
	}
}

func TestWrite_RootFolder(t *testing.T) {
	v := New(t.TempDir())
	_, path, err := v.Write("", testNote("Root", time.Now()), false)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if filepath.Dir(path) != v.Root() {
		t.Errorf("expected note in vault root, got %s", path)
	}
}

func TestWrite_RejectsEscapingFolders(t *testing.T) {
	v := New(t.TempDir())

	for _, folder := range []string{"..", "../outside", "a/../../b", "/etc"} {
		_, _, err := v.Write(folder, testNote("x", time.Now()), false)
		if !errors.Is(err, ErrOutsideVault) {
			t.Errorf("Write(%q) error = %v, want ErrOutsideVault", folder, err)
		}
	}
}

func TestOutcomeString(t *testing.T) {
	if Created.String() != "created" || Updated.String() != "updated" || Skipped.String() != "skipped" {
		t.Error("unexpected outcome names")
	}
}

func TestList(t *testing.T) {
	v := New(t.TempDir())

	older := testNote("Older", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	newer := testNote("Newer", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	for _, n := range []render.Note{older, newer} {
		if _, _, err := v.Write("Tech", n, false); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	dir := filepath.Join(v.Root(), "Tech")
	os.WriteFile(filepath.Join(dir, "plain.md"), []byte("# no frontmatter"), 0644)
	os.WriteFile(filepath.Join(dir, "broken.md"), []byte("---\ntitle: [unclosed\n---\n"), 0644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644)

	notes, err := v.List("Tech")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(notes) != 3 {
		t.Fatalf("expected 3 notes, got %d", len(notes))
	}
	if notes[0].Title != "Newer" || notes[1].Title != "Older" {
		t.Errorf("expected newest first, got %q then %q", notes[0].Title, notes[1].Title)
	}
	if notes[0].ID != "id-Newer" || notes[0].Source != "Example Blog" {
		t.Errorf("frontmatter not decoded: %+v", notes[0])
	}
	if notes[0].Date != "2024-03-05T00:00:00.000Z" {
		t.Errorf("Date = %q", notes[0].Date)
	}
	if len(notes[0].Tags) != 3 || notes[0].Tags[2] != "go" {
		t.Errorf("Tags = %v", notes[0].Tags)
	}
	if notes[2].Title != "plain" {
		t.Errorf("expected file name fallback title, got %q", notes[2].Title)
	}
}

func TestList_MissingFolder(t *testing.T) {
	v := New(t.TempDir())
	notes, err := v.List("nope")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("expected no notes, got %d", len(notes))
	}
}

func TestSplitFrontmatter(t *testing.T) {
	yamlStr, body := splitFrontmatter("---\nid: x\n---\n\n# Title")
	if yamlStr != "id: x" || body != "# Title" {
		t.Errorf("got %q, %q", yamlStr, body)
	}

	yamlStr, body = splitFrontmatter("# Just markdown")
	if yamlStr != "" || body != "# Just markdown" {
		t.Errorf("got %q, %q", yamlStr, body)
	}
}
