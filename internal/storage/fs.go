package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Collection file names. These match what earlier versions of the app wrote,
// so an existing data directory keeps working.
var collectionFiles = map[Collection]string{
	Notes:      "notes.json",
	Categories: "categories.json",
	Links:      "note_links.json",
	UIState:    "ui_state.json",
}

// FS implements Provider with one JSON document per collection in a local
// data directory.
type FS struct {
	root string // absolute path to the data directory
}

// NewFS creates an FS provider rooted at dir, creating it if needed.
func NewFS(dir string) (*FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create data dir: %w", err)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute data directory path.
func (f *FS) Root() string { return f.root }

func (f *FS) filePath(c Collection) (string, error) {
	name, ok := collectionFiles[c]
	if !ok {
		return "", fmt.Errorf("storage: unknown collection %q", c)
	}
	return filepath.Join(f.root, name), nil
}

// Load reads the collection document from disk.
func (f *FS) Load(c Collection) ([]byte, error) {
	path, err := f.filePath(c)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCollection
		}
		return nil, fmt.Errorf("storage: read %s: %w", c, err)
	}
	return data, nil
}

// Save atomically replaces the collection document: tmp file → fsync → rename.
func (f *FS) Save(c Collection, data []byte) error {
	path, err := f.filePath(c)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.root, ".lattice-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

// Close is a no-op for the file-system provider.
func (f *FS) Close() error { return nil }
