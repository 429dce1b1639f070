// Package kb implements the knowledge-base stores: the category tree, the
// note collection, the typed link graph, and the persisted UI state.
//
// The three entity stores are mutually recursive: saving a note validates
// and auto-creates category paths, renaming or deleting a category rewrites
// or removes notes, and both trigger a note-count recount. They therefore
// live in one package on a single KB value.
//
// Every operation goes load → mutate → save through the blob store; nothing
// is cached in memory. Multi-collection operations persist each collection
// independently and are not atomic across collections: RecountNotes and
// RebuildHierarchy are the idempotent repair procedures for the states an
// interruption can leave behind.
package kb

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vportnov/lattice/internal/apperr"
	"github.com/vportnov/lattice/internal/hierarchy"
	"github.com/vportnov/lattice/internal/models"
	"github.com/vportnov/lattice/internal/storage"
	"github.com/vportnov/lattice/internal/titler"
)

// KB is the knowledge base. The mutex serializes all store operations: the
// host process is the single logical owner of the backing store.
type KB struct {
	mu     sync.Mutex
	store  storage.Provider
	titler titler.Generator // nil when title generation is disabled
	logger *slog.Logger
}

// New creates a KB over the given blob store. gen may be nil, in which case
// titles always come from the deterministic rule.
func New(store storage.Provider, gen titler.Generator, logger *slog.Logger) *KB {
	if logger == nil {
		logger = slog.Default()
	}
	return &KB{store: store, titler: gen, logger: logger}
}

// loadCategories loads the categories collection, initializing and
// persisting an empty one on first load. Records missing a cached full_path
// or carrying a level inconsistent with their path are migrated in place and
// persisted immediately.
func (kb *KB) loadCategories() (models.CategoriesDocument, error) {
	var doc models.CategoriesDocument

	data, err := kb.store.Load(storage.Categories)
	if errors.Is(err, storage.ErrNoCollection) {
		return doc, kb.saveCategories(doc)
	}
	if err != nil {
		return doc, err
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("categories: %w: %v", apperr.ErrCorruptStore, err)
	}

	migrated := false
	for i := range doc.Categories {
		c := &doc.Categories[i]
		if c.FullPath == "" {
			c.FullPath = hierarchy.Render(c.Path)
			migrated = true
		}
		if lv := hierarchy.Level(c.Path); c.Level != lv {
			c.Level = lv
			migrated = true
		}
	}
	if migrated {
		if err := kb.saveCategories(doc); err != nil {
			return doc, err
		}
	}
	return doc, nil
}

func (kb *KB) saveCategories(doc models.CategoriesDocument) error {
	if doc.Categories == nil {
		doc.Categories = []models.Category{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}
	return kb.store.Save(storage.Categories, data)
}

// loadLinks loads the links collection, initializing an empty one on first
// load. No migration is needed for links.
func (kb *KB) loadLinks() (models.LinksDocument, error) {
	var doc models.LinksDocument

	data, err := kb.store.Load(storage.Links)
	if errors.Is(err, storage.ErrNoCollection) {
		return doc, kb.saveLinks(doc)
	}
	if err != nil {
		return doc, err
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("links: %w: %v", apperr.ErrCorruptStore, err)
	}
	return doc, nil
}

func (kb *KB) saveLinks(doc models.LinksDocument) error {
	if doc.Links == nil {
		doc.Links = []models.NoteLink{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode links: %w", err)
	}
	return kb.store.Save(storage.Links, data)
}

// loadNotes loads the notes collection through the migration layer,
// backfilling empty titles via the deterministic rule. Any migration or
// backfill is persisted back in the current schema immediately.
func (kb *KB) loadNotes() (models.NotesDocument, error) {
	var doc models.NotesDocument

	data, err := kb.store.Load(storage.Notes)
	if errors.Is(err, storage.ErrNoCollection) {
		return doc, kb.saveNotes(doc)
	}
	if err != nil {
		return doc, err
	}

	notes, migrated, err := decodeNotes(data)
	if err != nil {
		return doc, err
	}

	for i := range notes {
		if notes[i].Title == "" {
			notes[i].Title = titler.Simple(notes[i].Content)
			migrated = true
		}
	}

	doc.Notes = notes
	if migrated {
		if err := kb.saveNotes(doc); err != nil {
			return doc, err
		}
	}
	return doc, nil
}

func (kb *KB) saveNotes(doc models.NotesDocument) error {
	if doc.Notes == nil {
		doc.Notes = []models.Note{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode notes: %w", err)
	}
	return kb.store.Save(storage.Notes, data)
}
