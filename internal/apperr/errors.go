// Package apperr defines the sentinel errors shared across stores.
package apperr

import "errors"

var (
	// ErrNotFound is returned when a note, category, or link id is unknown.
	ErrNotFound = errors.New("not found")
	// ErrParentNotFound is returned when a category is created under a
	// parent path that does not exist.
	ErrParentNotFound = errors.New("parent category not found")
	// ErrInconsistentHierarchy is returned when a category path exists but
	// one of its ancestor paths does not. This is a data-integrity
	// violation, surfaced rather than silently healed.
	ErrInconsistentHierarchy = errors.New("inconsistent category hierarchy")
	// ErrDuplicatePath is returned when a category with the same path
	// already exists.
	ErrDuplicatePath = errors.New("category path already exists")
	// ErrDuplicateLink is returned when a link of the same type already
	// exists between an unordered pair of notes.
	ErrDuplicateLink = errors.New("link of this type already exists between these notes")
	// ErrSourceNotFound is returned when a link source does not reference
	// an existing note.
	ErrSourceNotFound = errors.New("source note not found")
	// ErrTargetNotFound is returned when a link target does not reference
	// an existing note.
	ErrTargetNotFound = errors.New("target note not found")
	// ErrCorruptStore is returned when a persisted collection cannot be
	// decoded under any known schema.
	ErrCorruptStore = errors.New("corrupt store")
)
