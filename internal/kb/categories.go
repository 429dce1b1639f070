package kb

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vportnov/lattice/internal/apperr"
	"github.com/vportnov/lattice/internal/hierarchy"
	"github.com/vportnov/lattice/internal/models"
)

// Categories returns all categories, running load-time migration if needed.
func (kb *KB) Categories() ([]models.Category, error) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	doc, err := kb.loadCategories()
	if err != nil {
		return nil, err
	}
	return doc.Categories, nil
}

// CategoryByID returns the category with the given id, or nil if unknown.
func (kb *KB) CategoryByID(id string) (*models.Category, error) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	doc, err := kb.loadCategories()
	if err != nil {
		return nil, err
	}
	for i := range doc.Categories {
		if doc.Categories[i].ID == id {
			c := doc.Categories[i]
			return &c, nil
		}
	}
	return nil, nil
}

// Hierarchy returns all categories sorted by level, then name.
func (kb *KB) Hierarchy() ([]models.Category, error) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	doc, err := kb.loadCategories()
	if err != nil {
		return nil, err
	}
	cats := doc.Categories
	sort.SliceStable(cats, func(i, j int) bool {
		if cats[i].Level != cats[j].Level {
			return cats[i].Level < cats[j].Level
		}
		return cats[i].Name < cats[j].Name
	})
	return cats, nil
}

// CreateCategory creates a category named name under parentPath (nil for a
// root category). The parent path must already exist; the resulting path
// must not.
func (kb *KB) CreateCategory(name string, parentPath []string) (models.Category, error) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	return kb.createCategory(name, parentPath)
}

// createCategory is the unlocked implementation, shared with note saving
// which auto-creates missing path segments.
func (kb *KB) createCategory(name string, parentPath []string) (models.Category, error) {
	doc, err := kb.loadCategories()
	if err != nil {
		return models.Category{}, err
	}

	path := make([]string, 0, len(parentPath)+1)
	path = append(path, parentPath...)
	path = append(path, name)

	var parentID *string
	if len(parentPath) > 0 {
		parent := findByPath(doc.Categories, parentPath)
		if parent == nil {
			return models.Category{}, fmt.Errorf("%w: %s", apperr.ErrParentNotFound, hierarchy.Render(parentPath))
		}
		parentID = &parent.ID
	}
	if findByPath(doc.Categories, path) != nil {
		return models.Category{}, fmt.Errorf("%w: %s", apperr.ErrDuplicatePath, hierarchy.Render(path))
	}

	cat := models.Category{
		ID:        uuid.NewString(),
		Name:      name,
		ParentID:  parentID,
		FullPath:  hierarchy.Render(path),
		Path:      path,
		Level:     hierarchy.Level(path),
		NoteCount: 0,
		CreatedAt: time.Now().UTC(),
	}

	doc.Categories = append(doc.Categories, cat)
	if err := kb.saveCategories(doc); err != nil {
		return models.Category{}, err
	}
	return cat, nil
}

// RenameCategory replaces the last path segment of the category with
// newName, rewriting the paths of all descendant categories and of all
// notes under the old path. Both collections are persisted.
func (kb *KB) RenameCategory(id, newName string) error {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	catsDoc, err := kb.loadCategories()
	if err != nil {
		return err
	}
	notesDoc, err := kb.loadNotes()
	if err != nil {
		return err
	}

	target := findByID(catsDoc.Categories, id)
	if target == nil {
		return fmt.Errorf("%w: category %s", apperr.ErrNotFound, id)
	}

	oldPath := append([]string(nil), target.Path...)
	newPath := append([]string(nil), oldPath...)
	newPath[len(newPath)-1] = newName

	target.Name = newName
	target.Path = newPath
	target.FullPath = hierarchy.Render(newPath)

	for i := range catsDoc.Categories {
		c := &catsDoc.Categories[i]
		if len(c.Path) > len(oldPath) && hierarchy.IsAncestorOrSelf(oldPath, c.Path) {
			c.Path = hierarchy.Rewrite(c.Path, oldPath, newPath)
			c.FullPath = hierarchy.Render(c.Path)
		}
	}
	for i := range notesDoc.Notes {
		n := &notesDoc.Notes[i]
		if hierarchy.IsAncestorOrSelf(oldPath, n.CategoryPath) {
			n.CategoryPath = hierarchy.Rewrite(n.CategoryPath, oldPath, newPath)
		}
	}

	if err := kb.saveCategories(catsDoc); err != nil {
		return err
	}
	return kb.saveNotes(notesDoc)
}

// DeleteCategory removes the category, every descendant category, and every
// note under the category's path, then recounts. The collections are
// persisted independently; an interruption between saves is repaired by
// RecountNotes.
func (kb *KB) DeleteCategory(id string) error {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	catsDoc, err := kb.loadCategories()
	if err != nil {
		return err
	}
	notesDoc, err := kb.loadNotes()
	if err != nil {
		return err
	}

	target := findByID(catsDoc.Categories, id)
	if target == nil {
		return fmt.Errorf("%w: category %s", apperr.ErrNotFound, id)
	}
	path := target.Path

	kept := catsDoc.Categories[:0]
	for _, c := range catsDoc.Categories {
		if !hierarchy.IsAncestorOrSelf(path, c.Path) {
			kept = append(kept, c)
		}
	}
	catsDoc.Categories = kept

	keptNotes := notesDoc.Notes[:0]
	for _, n := range notesDoc.Notes {
		if !hierarchy.IsAncestorOrSelf(path, n.CategoryPath) {
			keptNotes = append(keptNotes, n)
		}
	}
	notesDoc.Notes = keptNotes

	if err := kb.saveCategories(catsDoc); err != nil {
		return err
	}
	if err := kb.saveNotes(notesDoc); err != nil {
		return err
	}
	return kb.recountNotes()
}

// RecountNotes recomputes every category's note_count from the notes
// collection. Counts are cumulative: a note increments the count of its own
// category and of every ancestor. Safe to run at any time.
func (kb *KB) RecountNotes() error {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	return kb.recountNotes()
}

func (kb *KB) recountNotes() error {
	catsDoc, err := kb.loadCategories()
	if err != nil {
		return err
	}
	notesDoc, err := kb.loadNotes()
	if err != nil {
		return err
	}

	for i := range catsDoc.Categories {
		c := &catsDoc.Categories[i]
		c.NoteCount = 0
		for _, n := range notesDoc.Notes {
			if hierarchy.IsAncestorOrSelf(c.Path, n.CategoryPath) {
				c.NoteCount++
			}
		}
	}
	return kb.saveCategories(catsDoc)
}

// RebuildHierarchy force-recomputes level and full_path for every category
// from its path, backfills missing created_at stamps, persists, and
// recounts. Safe to run at any time; running it twice yields the same
// persisted state.
func (kb *KB) RebuildHierarchy() error {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	doc, err := kb.loadCategories()
	if err != nil {
		return err
	}
	for i := range doc.Categories {
		c := &doc.Categories[i]
		c.Level = hierarchy.Level(c.Path)
		c.FullPath = hierarchy.Render(c.Path)
		if c.CreatedAt.IsZero() || c.CreatedAt.Unix() == 0 {
			c.CreatedAt = time.Now().UTC()
		}
	}
	if err := kb.saveCategories(doc); err != nil {
		return err
	}
	return kb.recountNotes()
}

// ValidatePath reports whether path exists as a category. An empty path is
// simply invalid. A path that exists while one of its strict prefixes does
// not is a data-integrity violation and returns ErrInconsistentHierarchy
// rather than being silently healed.
func (kb *KB) ValidatePath(path []string) (bool, error) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	return kb.validatePath(path)
}

func (kb *KB) validatePath(path []string) (bool, error) {
	if len(path) == 0 {
		return false, nil
	}
	doc, err := kb.loadCategories()
	if err != nil {
		return false, err
	}
	if findByPath(doc.Categories, path) == nil {
		return false, nil
	}
	for i := 1; i < len(path); i++ {
		if findByPath(doc.Categories, path[:i]) == nil {
			return false, fmt.Errorf("%w: missing ancestor %s", apperr.ErrInconsistentHierarchy, hierarchy.Render(path[:i]))
		}
	}
	return true, nil
}

// FindCategories does a case-insensitive substring search on category
// names, ranked exact match first, then prefix match, then any substring,
// with alphabetical tiebreaks.
func (kb *KB) FindCategories(query string) ([]models.Category, error) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	doc, err := kb.loadCategories()
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	var matches []models.Category
	for _, c := range doc.Categories {
		if strings.Contains(strings.ToLower(c.Name), q) {
			matches = append(matches, c)
		}
	}

	rank := func(c models.Category) int {
		name := strings.ToLower(c.Name)
		switch {
		case name == q:
			return 0
		case strings.HasPrefix(name, q):
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		ri, rj := rank(matches[i]), rank(matches[j])
		if ri != rj {
			return ri < rj
		}
		return matches[i].Name < matches[j].Name
	})
	return matches, nil
}

func findByID(cats []models.Category, id string) *models.Category {
	for i := range cats {
		if cats[i].ID == id {
			return &cats[i]
		}
	}
	return nil
}

func findByPath(cats []models.Category, path []string) *models.Category {
	for i := range cats {
		if hierarchy.Equal(cats[i].Path, path) {
			return &cats[i]
		}
	}
	return nil
}
