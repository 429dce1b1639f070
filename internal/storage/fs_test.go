package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFSLoadMissingCollection(t *testing.T) {
	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	if _, err := fs.Load(Notes); !errors.Is(err, ErrNoCollection) {
		t.Errorf("Load missing = %v, want ErrNoCollection", err)
	}
}

func TestFSSaveAndLoad(t *testing.T) {
	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	doc := []byte(`{"notes":[]}`)
	if err := fs.Save(Notes, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := fs.Load(Notes)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != string(doc) {
		t.Errorf("Load = %s, want %s", got, doc)
	}
}

func TestFSFileNames(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	// The on-disk names must stay what earlier app versions wrote.
	saves := map[Collection]string{
		Notes:      "notes.json",
		Categories: "categories.json",
		Links:      "note_links.json",
		UIState:    "ui_state.json",
	}
	for c, name := range saves {
		if err := fs.Save(c, []byte("{}")); err != nil {
			t.Fatalf("Save %s: %v", c, err)
		}
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("collection %s: expected file %s: %v", c, name, err)
		}
	}
}

func TestFSSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	if err := fs.Save(Categories, []byte(`{"categories":[]}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "categories.json" {
			t.Errorf("unexpected file in data dir: %s", e.Name())
		}
	}
}

func TestFSUnknownCollection(t *testing.T) {
	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	if _, err := fs.Load(Collection("bogus")); err == nil {
		t.Error("Load of unknown collection should fail")
	}
	if err := fs.Save(Collection("bogus"), nil); err == nil {
		t.Error("Save of unknown collection should fail")
	}
}
