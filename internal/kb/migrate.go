package kb

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vportnov/lattice/internal/apperr"
	"github.com/vportnov/lattice/internal/models"
	"github.com/vportnov/lattice/internal/titler"
)

// The notes collection has gone through three schemas. Decoding is an
// ordered list of attempts over the whole document; the first decoder that
// accepts every note wins. Losing this tolerance would break pre-existing
// stores, so the decoders stay even though new writes always use the
// current schema.
//
//  1. current: title + category_path (+ position).
//  2. category_path but no title; title derived, position absent.
//  3. a single "category" string; wrapped into a one-element path, title
//     derived, confidence absent.

type noteDecoder func(raw []json.RawMessage) ([]models.Note, error)

var noteDecoders = []noteDecoder{decodeCurrentNotes, decodePathNotes, decodeFlatNotes}

// decodeNotes decodes a persisted notes document. migrated reports whether
// an older schema was used, in which case the caller persists the result
// back in the current schema.
func decodeNotes(data []byte) (notes []models.Note, migrated bool, err error) {
	var envelope struct {
		Notes []json.RawMessage `json:"notes"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, false, fmt.Errorf("notes: %w: %v", apperr.ErrCorruptStore, err)
	}
	if envelope.Notes == nil {
		return nil, false, fmt.Errorf("notes: %w: missing notes array", apperr.ErrCorruptStore)
	}

	var firstErr error
	for i, decode := range noteDecoders {
		decoded, err := decode(envelope.Notes)
		if err == nil {
			return decoded, i > 0, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, false, fmt.Errorf("notes: %w: %v", apperr.ErrCorruptStore, firstErr)
}

// decodeCurrentNotes handles the current schema. The title and
// category_path keys must be present (an empty title is fine; it is
// backfilled after decoding); their absence means an older schema.
func decodeCurrentNotes(raw []json.RawMessage) ([]models.Note, error) {
	notes := make([]models.Note, 0, len(raw))
	for _, r := range raw {
		var probe struct {
			ID           string                `json:"id"`
			Title        *string               `json:"title"`
			Content      string                `json:"content"`
			CategoryPath []string              `json:"category_path"`
			Timestamp    time.Time             `json:"timestamp"`
			Tags         []string              `json:"tags"`
			AIConfidence *float64              `json:"ai_confidence"`
			Position     *models.GraphPosition `json:"position"`
		}
		if err := json.Unmarshal(r, &probe); err != nil {
			return nil, err
		}
		if probe.Title == nil {
			return nil, fmt.Errorf("note %s: no title field", probe.ID)
		}
		if probe.CategoryPath == nil {
			return nil, fmt.Errorf("note %s: no category_path field", probe.ID)
		}
		notes = append(notes, models.Note{
			ID:           probe.ID,
			Title:        *probe.Title,
			Content:      probe.Content,
			CategoryPath: probe.CategoryPath,
			Timestamp:    probe.Timestamp,
			Tags:         ensureTags(probe.Tags),
			AIConfidence: probe.AIConfidence,
			Position:     probe.Position,
		})
	}
	return notes, nil
}

// decodePathNotes handles the intermediate schema: category_path present,
// title not yet introduced.
func decodePathNotes(raw []json.RawMessage) ([]models.Note, error) {
	notes := make([]models.Note, 0, len(raw))
	for _, r := range raw {
		var probe struct {
			ID           string    `json:"id"`
			Content      string    `json:"content"`
			CategoryPath []string  `json:"category_path"`
			Timestamp    time.Time `json:"timestamp"`
			Tags         []string  `json:"tags"`
			AIConfidence *float64  `json:"ai_confidence"`
		}
		if err := json.Unmarshal(r, &probe); err != nil {
			return nil, err
		}
		if probe.CategoryPath == nil {
			return nil, fmt.Errorf("note %s: no category_path field", probe.ID)
		}
		notes = append(notes, models.Note{
			ID:           probe.ID,
			Title:        titler.Simple(probe.Content),
			Content:      probe.Content,
			CategoryPath: probe.CategoryPath,
			Timestamp:    probe.Timestamp,
			Tags:         ensureTags(probe.Tags),
			AIConfidence: probe.AIConfidence,
		})
	}
	return notes, nil
}

// decodeFlatNotes handles the oldest schema: a single category string.
func decodeFlatNotes(raw []json.RawMessage) ([]models.Note, error) {
	notes := make([]models.Note, 0, len(raw))
	for _, r := range raw {
		var probe struct {
			ID        string    `json:"id"`
			Content   string    `json:"content"`
			Category  *string   `json:"category"`
			Timestamp time.Time `json:"timestamp"`
			Tags      []string  `json:"tags"`
		}
		if err := json.Unmarshal(r, &probe); err != nil {
			return nil, err
		}
		if probe.Category == nil {
			return nil, fmt.Errorf("note %s: no category field", probe.ID)
		}
		notes = append(notes, models.Note{
			ID:           probe.ID,
			Title:        titler.Simple(probe.Content),
			Content:      probe.Content,
			CategoryPath: []string{*probe.Category},
			Timestamp:    probe.Timestamp,
			Tags:         ensureTags(probe.Tags),
		})
	}
	return notes, nil
}

func ensureTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
