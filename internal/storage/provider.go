// Package storage defines the blob store that persists whole collections.
package storage

import "errors"

// Collection names a persisted aggregate. Each collection is loaded and
// saved wholesale; there is no cross-collection transaction.
type Collection string

// The four collections the stores persist.
const (
	Notes      Collection = "notes"
	Categories Collection = "categories"
	Links      Collection = "links"
	UIState    Collection = "ui-state"
)

// ErrNoCollection is returned by Load when a collection has never been
// saved. It is not a failure: stores initialize an empty default and
// persist it on first load.
var ErrNoCollection = errors.New("collection does not exist")

// Provider is the interface for collection persistence.
type Provider interface {
	// Load returns the raw document bytes for the collection, or
	// ErrNoCollection if it has never been saved.
	Load(c Collection) ([]byte, error)
	// Save atomically replaces the collection document.
	Save(c Collection, data []byte) error
	// Close releases any resources held by the provider.
	Close() error
}
