// Package models defines the domain types for Lattice.
package models

import "time"

// PathSeparator joins category path segments for display.
const PathSeparator = " → "

// Category is a node in the category tree. Path is the source of truth;
// FullPath, Level, and NoteCount are derived and recomputable.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id"`
	FullPath  string    `json:"full_path"`
	Path      []string  `json:"path"`
	Level     int       `json:"level"`
	NoteCount int       `json:"note_count"`
	CreatedAt time.Time `json:"created_at"`
	Color     *string   `json:"color"`
}

// CategoriesDocument is the persisted shape of the categories collection.
type CategoriesDocument struct {
	Categories []Category `json:"categories"`
}
