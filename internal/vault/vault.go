// ABOUTME: Writes rendered notes into the vault directory tree
// ABOUTME: Decides create, overwrite, or skip per note and reads notes back for listing

package vault

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harper/inosync/internal/fsutil"
	"github.com/harper/inosync/internal/render"
)

// Outcome describes what Write did with a note.
type Outcome int

const (
	Skipped Outcome = iota
	Created
	Updated
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Updated:
		return "updated"
	default:
		return "skipped"
	}
}

// ErrOutsideVault is returned for folders that resolve outside the vault root.
var ErrOutsideVault = errors.New("folder is outside the vault")

// Vault is a directory of Markdown notes.
type Vault struct {
	root string
}

// New returns a Vault rooted at root. The directory is created on first write.
func New(root string) *Vault {
	return &Vault{root: root}
}

// Root returns the vault directory.
func (v *Vault) Root() string {
	return v.root
}

// FolderPath resolves a vault-relative folder to an absolute path.
func (v *Vault) FolderPath(folder string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimSpace(folder)))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideVault, folder)
	}
	return filepath.Join(v.root, clean), nil
}

// NotePath returns where note would be written inside folder.
func (v *Vault) NotePath(folder string, note render.Note) (string, error) {
	dir, err := v.FolderPath(folder)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, note.FileName()), nil
}

// Write stores note in folder. An existing file is left alone unless force
// is set, in which case it is replaced.
func (v *Vault) Write(folder string, note render.Note, force bool) (Outcome, string, error) {
	path, err := v.NotePath(folder, note)
	if err != nil {
		return Skipped, "", err
	}

	_, statErr := os.Stat(path)
	exists := statErr == nil
	if statErr != nil && !os.IsNotExist(statErr) {
		return Skipped, path, fmt.Errorf("stat note: %w", statErr)
	}
	if exists && !force {
		return Skipped, path, nil
	}

	if err := fsutil.AtomicWrite(path, []byte(note.Document)); err != nil {
		return Skipped, path, fmt.Errorf("write note: %w", err)
	}
	if exists {
		return Updated, path, nil
	}
	return Created, path, nil
}
