// Package testutil provides shared test helpers for setting up knowledge bases.
package testutil

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/vportnov/lattice/internal/kb"
	"github.com/vportnov/lattice/internal/storage"
	"github.com/vportnov/lattice/internal/titler"
)

// TestStore creates a temporary file-backed storage provider.
func TestStore(t *testing.T) *storage.FS {
	t.Helper()
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return store
}

// TestSQLite creates a temporary SQLite-backed storage provider that is
// automatically cleaned up.
func TestSQLite(t *testing.T) *storage.SQLite {
	t.Helper()
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "lattice-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestKB creates a knowledge base over temporary file storage with a silent
// logger and no AI title generation.
func TestKB(t *testing.T) (*kb.KB, *storage.FS) {
	t.Helper()
	store := TestStore(t)
	return TestKBWith(t, store, nil), store
}

// TestKBWith creates a knowledge base over the given storage and title
// generator.
func TestKBWith(t *testing.T, store storage.Provider, gen titler.Generator) *kb.KB {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return kb.New(store, gen, logger)
}
