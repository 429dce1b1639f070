package models

import "time"

// Note is a short text note classified under a category path. The path is a
// string match against the category tree, not a foreign key.
type Note struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Content      string         `json:"content"`
	CategoryPath []string       `json:"category_path"`
	Timestamp    time.Time      `json:"timestamp"`
	Tags         []string       `json:"tags"`
	AIConfidence *float64       `json:"ai_confidence"`
	Position     *GraphPosition `json:"position"`
}

// GraphPosition is a free-form 2D layout position for the graph view.
type GraphPosition struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	ZIndex *int    `json:"z_index"`
}

// NotePosition pairs a note id with its stored position.
type NotePosition struct {
	NoteID   string        `json:"note_id"`
	Position GraphPosition `json:"position"`
}

// NotesDocument is the persisted shape of the notes collection.
type NotesDocument struct {
	Notes []Note `json:"notes"`
}
