package kb

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vportnov/lattice/internal/apperr"
	"github.com/vportnov/lattice/internal/models"
)

// Links returns all links.
func (kb *KB) Links() ([]models.NoteLink, error) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	doc, err := kb.loadLinks()
	if err != nil {
		return nil, err
	}
	return doc.Links, nil
}

// LinksForNote returns the links where the note is either endpoint.
func (kb *KB) LinksForNote(noteID string) ([]models.NoteLink, error) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	doc, err := kb.loadLinks()
	if err != nil {
		return nil, err
	}
	var out []models.NoteLink
	for _, l := range doc.Links {
		if l.SourceID == noteID || l.TargetID == noteID {
			out = append(out, l)
		}
	}
	return out, nil
}

// CreateLink creates a typed link between two existing notes. At most one
// link of a given type may exist between an unordered pair of notes; once
// created, the link keeps its own direction. Unrecognized link types become
// the Custom variant; unrecognized colors are dropped silently. label,
// color, and directional are optional ("" / nil for absent).
func (kb *KB) CreateLink(sourceID, targetID, linkType, label, color string, directional *bool) (models.NoteLink, error) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	notesDoc, err := kb.loadNotes()
	if err != nil {
		return models.NoteLink{}, err
	}
	if !noteExists(notesDoc.Notes, sourceID) {
		return models.NoteLink{}, fmt.Errorf("%w: %s", apperr.ErrSourceNotFound, sourceID)
	}
	if !noteExists(notesDoc.Notes, targetID) {
		return models.NoteLink{}, fmt.Errorf("%w: %s", apperr.ErrTargetNotFound, targetID)
	}

	lt := models.ParseLinkType(linkType)

	linksDoc, err := kb.loadLinks()
	if err != nil {
		return models.NoteLink{}, err
	}
	for _, l := range linksDoc.Links {
		samePair := (l.SourceID == sourceID && l.TargetID == targetID) ||
			(l.SourceID == targetID && l.TargetID == sourceID)
		if samePair && l.LinkType.Equal(lt) {
			return models.NoteLink{}, fmt.Errorf("%w: %s", apperr.ErrDuplicateLink, lt)
		}
	}

	link := models.NoteLink{
		ID:          uuid.NewString(),
		SourceID:    sourceID,
		TargetID:    targetID,
		LinkType:    lt,
		Color:       models.ParseLinkColor(color),
		Directional: directional,
		CreatedAt:   time.Now().UTC(),
	}
	if label != "" {
		link.Label = &label
	}

	linksDoc.Links = append(linksDoc.Links, link)
	if err := kb.saveLinks(linksDoc); err != nil {
		return models.NoteLink{}, err
	}
	return link, nil
}

// DeleteLink removes the link with the given id.
func (kb *KB) DeleteLink(id string) error {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	doc, err := kb.loadLinks()
	if err != nil {
		return err
	}
	kept := doc.Links[:0]
	for _, l := range doc.Links {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(doc.Links) {
		return fmt.Errorf("%w: link %s", apperr.ErrNotFound, id)
	}
	doc.Links = kept
	return kb.saveLinks(doc)
}

func noteExists(notes []models.Note, id string) bool {
	for i := range notes {
		if notes[i].ID == id {
			return true
		}
	}
	return false
}
