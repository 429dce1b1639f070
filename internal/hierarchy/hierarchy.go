// Package hierarchy provides pure functions over category paths.
//
// A category path is an ordered sequence of name segments from the root of
// the tree to a node (["Technical", "Python", "Flask"]). It doubles as the
// category's identity key and as a note's classification key.
package hierarchy

import (
	"strings"

	"github.com/vportnov/lattice/internal/models"
)

// IsAncestorOrSelf reports whether b is a extended with zero or more
// additional segments (prefix relation). Every path is an ancestor of
// itself; the empty path is an ancestor of everything.
func IsAncestorOrSelf(a, b []string) bool {
	if len(a) > len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Level is the hierarchy depth of a path: 0 for a root category.
func Level(path []string) int {
	if len(path) == 0 {
		return 0
	}
	return len(path) - 1
}

// Render joins a path into its display form ("A → B → C").
func Render(path []string) string {
	return strings.Join(path, models.PathSeparator)
}

// Parent returns the path minus its last segment, or nil for a root or
// empty path.
func Parent(path []string) []string {
	if len(path) <= 1 {
		return nil
	}
	return path[:len(path)-1]
}

// Rewrite replaces the oldPrefix of path with newPrefix, preserving the
// suffix. The caller must have established the prefix relation first.
func Rewrite(path, oldPrefix, newPrefix []string) []string {
	out := make([]string, 0, len(newPrefix)+len(path)-len(oldPrefix))
	out = append(out, newPrefix...)
	out = append(out, path[len(oldPrefix):]...)
	return out
}

// Equal reports whether two paths are segment-for-segment identical.
func Equal(a, b []string) bool {
	return len(a) == len(b) && IsAncestorOrSelf(a, b)
}
