// ABOUTME: Reads note frontmatter back out of the vault
// ABOUTME: Used to list synced notes per folder

package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// NoteInfo is the frontmatter summary of a note file.
type NoteInfo struct {
	Path   string
	ID     string
	Title  string
	Date   string
	Source string
	URL    string
	Tags   []string
}

type noteFrontmatter struct {
	ID     string   `yaml:"id"`
	Title  string   `yaml:"title"`
	Date   string   `yaml:"date"`
	Source string   `yaml:"source"`
	URL    string   `yaml:"url"`
	Tags   []string `yaml:"tags"`
}

// splitFrontmatter returns the YAML block and the remaining body. The YAML is
// empty when the document has no leading --- block.
func splitFrontmatter(doc string) (string, string) {
	doc = strings.TrimPrefix(doc, "\ufeff")
	if !strings.HasPrefix(doc, "---\n") && !strings.HasPrefix(doc, "---\r\n") {
		return "", doc
	}
	rest := doc[strings.Index(doc, "\n")+1:]
	if strings.HasPrefix(rest, "---") {
		return "", strings.TrimLeft(rest[3:], "\r\n")
	}
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return "", doc
	}
	body := rest[end+len("\n---"):]
	return rest[:end], strings.TrimLeft(body, "\r\n")
}

// readNote reads a single note file. Notes without frontmatter fall back to
// their file name as title.
func readNote(path string) (*NoteInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	info := &NoteInfo{Path: path, Title: strings.TrimSuffix(filepath.Base(path), ".md")}

	yamlStr, _ := splitFrontmatter(string(data))
	if yamlStr == "" {
		return info, nil
	}

	var fm noteFrontmatter
	if err := yaml.Unmarshal([]byte(yamlStr), &fm); err != nil {
		return nil, fmt.Errorf("parse frontmatter in %s: %w", path, err)
	}

	info.ID = fm.ID
	if fm.Title != "" {
		info.Title = fm.Title
	}
	info.Date = fm.Date
	info.Source = fm.Source
	info.URL = fm.URL
	info.Tags = fm.Tags
	return info, nil
}

// List returns the notes directly inside folder, newest date first.
// Files with unreadable frontmatter are skipped.
func (v *Vault) List(folder string) ([]*NoteInfo, error) {
	dir, err := v.FolderPath(folder)
	if err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read folder: %w", err)
	}

	var notes []*NoteInfo
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".md") {
			continue
		}
		note, err := readNote(filepath.Join(dir, de.Name()))
		if err != nil {
			// Skip malformed files
			continue
		}
		notes = append(notes, note)
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Date > notes[j].Date
	})
	return notes, nil
}
