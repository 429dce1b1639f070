package kb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/vportnov/lattice/internal/apperr"
	"github.com/vportnov/lattice/internal/hierarchy"
	"github.com/vportnov/lattice/internal/storage"
)

// stubTitler is a canned title-generation collaborator.
type stubTitler struct {
	title string
	err   error
	calls int
}

func (s *stubTitler) Generate(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.title, s.err
}

func testKBWithTitler(t *testing.T, gen *stubTitler) *KB {
	t.Helper()
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store, gen, logger)
}

func TestSaveNoteDefaultsToGeneral(t *testing.T) {
	kb, _ := testKB(t)

	note, err := kb.SaveNote(context.Background(), "hello world", nil, "")
	if err != nil {
		t.Fatalf("SaveNote: %v", err)
	}
	if !hierarchy.Equal(note.CategoryPath, []string{"General"}) {
		t.Errorf("path = %v, want [General]", note.CategoryPath)
	}
	if note.ID == "" || note.Timestamp.IsZero() {
		t.Errorf("identity not assigned: %+v", note)
	}
	if note.Tags == nil || len(note.Tags) != 0 {
		t.Errorf("tags = %v, want empty", note.Tags)
	}

	// The default category was auto-created and counted.
	cats, _ := kb.Categories()
	g := findByPath(cats, []string{"General"})
	if g == nil {
		t.Fatal("General category not auto-created")
	}
	if g.NoteCount != 1 {
		t.Errorf("note_count = %d, want 1", g.NoteCount)
	}
}

func TestSaveNoteAutoCreatesPathRootToLeaf(t *testing.T) {
	kb, _ := testKB(t)

	_, err := kb.SaveNote(context.Background(), "x", []string{"Technical", "Python", "Flask"}, "t")
	if err != nil {
		t.Fatalf("SaveNote: %v", err)
	}

	cats, _ := kb.Categories()
	tech := findByPath(cats, []string{"Technical"})
	py := findByPath(cats, []string{"Technical", "Python"})
	fl := findByPath(cats, []string{"Technical", "Python", "Flask"})
	if tech == nil || py == nil || fl == nil {
		t.Fatalf("missing auto-created segments: %v %v %v", tech, py, fl)
	}
	if py.ParentID == nil || *py.ParentID != tech.ID {
		t.Error("Python should point at Technical")
	}
	if fl.ParentID == nil || *fl.ParentID != py.ID {
		t.Error("Flask should point at Python")
	}
}

func TestSaveNoteExistingPathCreatesNothing(t *testing.T) {
	kb, _ := testKB(t)
	mustCreate(t, kb, "A", nil)

	if _, err := kb.SaveNote(context.Background(), "x", []string{"A"}, "t"); err != nil {
		t.Fatal(err)
	}
	cats, _ := kb.Categories()
	if len(cats) != 1 {
		t.Errorf("category count = %d, want 1", len(cats))
	}
}

func TestSaveNoteTitleResolution(t *testing.T) {
	kb, _ := testKB(t)
	ctx := context.Background()

	// Custom title wins, trimmed.
	n, err := kb.SaveNote(ctx, "some content here longer than twenty", nil, "  My Title  ")
	if err != nil {
		t.Fatal(err)
	}
	if n.Title != "My Title" {
		t.Errorf("title = %q", n.Title)
	}

	// Short content is used verbatim, trimmed.
	n, err = kb.SaveNote(ctx, "  quick thought ", nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if n.Title != "quick thought" {
		t.Errorf("title = %q", n.Title)
	}

	// Substantial content without a generator falls back to the rule.
	n, err = kb.SaveNote(ctx, "Q: How do I center a div?\n\nA: Use flexbox", nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if n.Title != "How do I center a div?" {
		t.Errorf("title = %q", n.Title)
	}
}

func TestSaveNoteUsesGenerator(t *testing.T) {
	gen := &stubTitler{title: "Generated Title"}
	kb := testKBWithTitler(t, gen)

	n, err := kb.SaveNote(context.Background(), "this content is long enough for generation", nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if n.Title != "Generated Title" {
		t.Errorf("title = %q", n.Title)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d", gen.calls)
	}
}

func TestSaveNoteGeneratorFailureFallsBack(t *testing.T) {
	gen := &stubTitler{err: fmt.Errorf("service unreachable")}
	kb := testKBWithTitler(t, gen)

	n, err := kb.SaveNote(context.Background(), "First meaningful line\nand more body text", nil, "")
	if err != nil {
		t.Fatalf("generator failure must not fail the save: %v", err)
	}
	if n.Title != "First meaningful line" {
		t.Errorf("title = %q, want simple-rule fallback", n.Title)
	}
}

func TestSaveNoteGeneratorSkippedForCustomTitle(t *testing.T) {
	gen := &stubTitler{title: "unwanted"}
	kb := testKBWithTitler(t, gen)

	if _, err := kb.SaveNote(context.Background(), "long enough content for generation", nil, "Mine"); err != nil {
		t.Fatal(err)
	}
	if gen.calls != 0 {
		t.Errorf("generator should not run when a custom title is given, calls = %d", gen.calls)
	}
}

func TestUpdateNote(t *testing.T) {
	kb, _ := testKB(t)
	ctx := context.Background()

	n, err := kb.SaveNote(ctx, "original", nil, "Old Title")
	if err != nil {
		t.Fatal(err)
	}

	// Explicit title.
	updated, err := kb.UpdateNote(ctx, n.ID, "new content", " New Title ")
	if err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	if updated.Content != "new content" || updated.Title != "New Title" {
		t.Errorf("updated = %+v", updated)
	}

	// Empty title regenerates from content.
	updated, err = kb.UpdateNote(ctx, n.ID, "short", "")
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "short" {
		t.Errorf("regenerated title = %q", updated.Title)
	}

	notes, _ := kb.Notes()
	if len(notes) != 1 || notes[0].Content != "short" {
		t.Errorf("persisted notes = %+v", notes)
	}
}

func TestUpdateNoteNotFound(t *testing.T) {
	kb, _ := testKB(t)
	_, err := kb.UpdateNote(context.Background(), "nope", "c", "")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteNoteIdempotentAndRecounts(t *testing.T) {
	kb, _ := testKB(t)
	ctx := context.Background()

	n, err := kb.SaveNote(ctx, "bye", []string{"A"}, "")
	if err != nil {
		t.Fatal(err)
	}

	if err := kb.DeleteNote(n.ID); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	// Deleting again is not an error.
	if err := kb.DeleteNote(n.ID); err != nil {
		t.Errorf("second delete: %v", err)
	}

	cats, _ := kb.Categories()
	if a := findByPath(cats, []string{"A"}); a.NoteCount != 0 {
		t.Errorf("note_count after delete = %d, want 0", a.NoteCount)
	}
}

func TestNotesByCategoryPrefix(t *testing.T) {
	kb, _ := testKB(t)
	ctx := context.Background()

	if _, err := kb.SaveNote(ctx, "one", []string{"A", "B"}, "n1"); err != nil {
		t.Fatal(err)
	}
	if _, err := kb.SaveNote(ctx, "two", []string{"A", "B", "C"}, "n2"); err != nil {
		t.Fatal(err)
	}
	if _, err := kb.SaveNote(ctx, "three", []string{"X"}, "n3"); err != nil {
		t.Fatal(err)
	}

	notes, err := kb.NotesByCategory([]string{"A", "B"})
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 2 {
		t.Fatalf("got %d notes, want 2", len(notes))
	}
}

func TestSetNotePosition(t *testing.T) {
	kb, _ := testKB(t)
	ctx := context.Background()

	n, err := kb.SaveNote(ctx, "positioned", nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := kb.SaveNote(ctx, "unpositioned", nil, ""); err != nil {
		t.Fatal(err)
	}

	if err := kb.SetNotePosition(n.ID, 12.5, -3); err != nil {
		t.Fatalf("SetNotePosition: %v", err)
	}
	if err := kb.SetNotePosition("missing", 0, 0); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	positions, err := kb.NotePositions()
	if err != nil {
		t.Fatal(err)
	}
	if len(positions) != 1 {
		t.Fatalf("got %d positions, want 1", len(positions))
	}
	p := positions[0]
	if p.NoteID != n.ID || p.Position.X != 12.5 || p.Position.Y != -3 {
		t.Errorf("position = %+v", p)
	}
	if p.Position.ZIndex != nil {
		t.Errorf("z_index = %v, want unset", p.Position.ZIndex)
	}
}
