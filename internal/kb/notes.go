package kb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vportnov/lattice/internal/apperr"
	"github.com/vportnov/lattice/internal/hierarchy"
	"github.com/vportnov/lattice/internal/models"
	"github.com/vportnov/lattice/internal/titler"
)

// defaultCategory is where notes land when no path is given.
var defaultCategory = []string{"General"}

// aiTitleThreshold is the content length above which the title-generation
// collaborator is attempted.
const aiTitleThreshold = 20

// Notes returns all notes, running migration if needed.
func (kb *KB) Notes() ([]models.Note, error) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	doc, err := kb.loadNotes()
	if err != nil {
		return nil, err
	}
	return doc.Notes, nil
}

// NotesByCategory returns the notes whose category path has path as a
// prefix, so a category lists its own notes and its descendants'.
func (kb *KB) NotesByCategory(path []string) ([]models.Note, error) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	doc, err := kb.loadNotes()
	if err != nil {
		return nil, err
	}
	var out []models.Note
	for _, n := range doc.Notes {
		if hierarchy.IsAncestorOrSelf(path, n.CategoryPath) {
			out = append(out, n)
		}
	}
	return out, nil
}

// SaveNote creates a note. A nil categoryPath defaults to "General"; a path
// that does not validate has every missing segment auto-created root to
// leaf. customTitle wins when non-empty after trimming; otherwise the title
// is derived (see resolveTitle).
//
// The title-generation call happens before the store lock is taken so a
// slow collaborator never stalls other operations.
func (kb *KB) SaveNote(ctx context.Context, content string, categoryPath []string, customTitle string) (models.Note, error) {
	title := kb.resolveTitle(ctx, content, customTitle)

	kb.mu.Lock()
	defer kb.mu.Unlock()

	path := categoryPath
	if len(path) == 0 {
		path = defaultCategory
	}
	if err := kb.ensurePath(path); err != nil {
		return models.Note{}, err
	}

	note := models.Note{
		ID:           uuid.NewString(),
		Title:        title,
		Content:      content,
		CategoryPath: path,
		Timestamp:    time.Now().UTC(),
		Tags:         []string{},
	}

	doc, err := kb.loadNotes()
	if err != nil {
		return models.Note{}, err
	}
	doc.Notes = append(doc.Notes, note)
	if err := kb.saveNotes(doc); err != nil {
		return models.Note{}, err
	}
	if err := kb.recountNotes(); err != nil {
		return models.Note{}, err
	}
	return note, nil
}

// ensurePath validates path and creates every missing segment in order,
// root to leaf.
func (kb *KB) ensurePath(path []string) error {
	ok, err := kb.validatePath(path)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	for i := 1; i <= len(path); i++ {
		prefix := path[:i]
		ok, err := kb.validatePath(prefix)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if _, err := kb.createCategory(path[i-1], prefix[:i-1]); err != nil {
			return err
		}
	}
	return nil
}

// UpdateNote replaces a note's content. A non-empty title (after trimming)
// is used as-is; otherwise the title is rederived from the new content.
func (kb *KB) UpdateNote(ctx context.Context, id, content, title string) (models.Note, error) {
	newTitle := strings.TrimSpace(title)
	if newTitle == "" {
		newTitle = kb.resolveTitle(ctx, content, "")
	}

	kb.mu.Lock()
	defer kb.mu.Unlock()

	doc, err := kb.loadNotes()
	if err != nil {
		return models.Note{}, err
	}
	idx := -1
	for i := range doc.Notes {
		if doc.Notes[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Note{}, fmt.Errorf("%w: note %s", apperr.ErrNotFound, id)
	}

	doc.Notes[idx].Content = content
	doc.Notes[idx].Title = newTitle

	if err := kb.saveNotes(doc); err != nil {
		return models.Note{}, err
	}
	if err := kb.recountNotes(); err != nil {
		return models.Note{}, err
	}
	return doc.Notes[idx], nil
}

// DeleteNote removes the note with the given id. Deletion is idempotent:
// an unknown id is not an error.
func (kb *KB) DeleteNote(id string) error {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	doc, err := kb.loadNotes()
	if err != nil {
		return err
	}
	kept := doc.Notes[:0]
	for _, n := range doc.Notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	doc.Notes = kept

	if err := kb.saveNotes(doc); err != nil {
		return err
	}
	return kb.recountNotes()
}

// SetNotePosition stores the graph-view position of a note.
func (kb *KB) SetNotePosition(id string, x, y float64) error {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	doc, err := kb.loadNotes()
	if err != nil {
		return err
	}
	for i := range doc.Notes {
		if doc.Notes[i].ID == id {
			doc.Notes[i].Position = &models.GraphPosition{X: x, Y: y}
			return kb.saveNotes(doc)
		}
	}
	return fmt.Errorf("%w: note %s", apperr.ErrNotFound, id)
}

// NotePositions returns the stored position of every note that has one, in
// storage order.
func (kb *KB) NotePositions() ([]models.NotePosition, error) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	doc, err := kb.loadNotes()
	if err != nil {
		return nil, err
	}
	var out []models.NotePosition
	for _, n := range doc.Notes {
		if n.Position != nil {
			out = append(out, models.NotePosition{NoteID: n.ID, Position: *n.Position})
		}
	}
	return out, nil
}

// resolveTitle picks a title for content. Priority: a non-empty custom
// title; the title-generation collaborator for substantial content, falling
// back to the deterministic rule on any failure; the trimmed content itself
// for short notes. Collaborator failures are logged, never surfaced, since
// a fallback title is always substitutable.
func (kb *KB) resolveTitle(ctx context.Context, content, custom string) string {
	if t := strings.TrimSpace(custom); t != "" {
		return t
	}
	if len(content) > aiTitleThreshold {
		if kb.titler == nil {
			return titler.Simple(content)
		}
		title, err := kb.titler.Generate(ctx, content)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				kb.logger.Warn("title generation failed, using simple title",
					slog.String("error", err.Error()))
			}
			return titler.Simple(content)
		}
		return title
	}
	return strings.TrimSpace(content)
}
