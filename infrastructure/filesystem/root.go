package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrOutsideRoot is returned when a request path would resolve outside the shared root
var ErrOutsideRoot = errors.New("path is outside the shared root")

// ErrNotFound marks a referenced file that does not exist under the root
var ErrNotFound = errors.New("file not found")

// Root confines all path resolution to one shared directory. Every input
// and output path the system touches is resolved through a Root, so a
// request can never name a file outside it.
type Root struct {
	dir string
}

// NewRoot creates a Root anchored at dir
func NewRoot(dir string) Root {
	return Root{dir: filepath.Clean(dir)}
}

// Dir returns the root directory
func (r Root) Dir() string {
	return r.dir
}

// Resolve joins rel onto the root. Absolute paths and paths that would
// escape the root (via .. or otherwise) are rejected.
func (r Root) Resolve(rel string) (string, error) {
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("path %q: %w", rel, ErrOutsideRoot)
	}
	return filepath.Join(r.dir, rel), nil
}

// EnsureDir resolves rel and creates the directory if it does not exist.
// A pre-existing directory is not an error.
func (r Root) EnsureDir(rel string) (string, error) {
	dir, err := r.Resolve(rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return dir, nil
}

// Entry describes one item directly under the root
type Entry struct {
	Name  string `json:"name"`
	Size  int64  `json:"size"`
	IsDir bool   `json:"is_dir"`
	Path  string `json:"path"`
}

// List returns the entries directly under the root, sorted by name
func (r Root) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", r.dir, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		info, err := de.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", de.Name(), err)
		}
		entries = append(entries, Entry{
			Name:  de.Name(),
			Size:  info.Size(),
			IsDir: de.IsDir(),
			Path:  filepath.Join(r.dir, de.Name()),
		})
	}

	return entries, nil
}
