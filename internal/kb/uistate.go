package kb

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vportnov/lattice/internal/apperr"
	"github.com/vportnov/lattice/internal/models"
	"github.com/vportnov/lattice/internal/storage"
)

// Viewport returns the persisted graph camera position, initializing and
// persisting the default on first load. The record is always read through;
// nothing is cached.
func (kb *KB) Viewport() (models.GraphViewport, error) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	data, err := kb.store.Load(storage.UIState)
	if errors.Is(err, storage.ErrNoCollection) {
		doc := models.DefaultUIState()
		return doc.UIState.GraphViewport, kb.saveUIState(doc)
	}
	if err != nil {
		return models.GraphViewport{}, err
	}

	var doc models.UIStateDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.GraphViewport{}, fmt.Errorf("ui-state: %w: %v", apperr.ErrCorruptStore, err)
	}
	return doc.UIState.GraphViewport, nil
}

// SaveViewport overwrites the viewport record wholesale.
func (kb *KB) SaveViewport(v models.GraphViewport) error {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	return kb.saveUIState(models.UIStateDocument{
		UIState: models.UIState{GraphViewport: v},
	})
}

func (kb *KB) saveUIState(doc models.UIStateDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ui-state: %w", err)
	}
	return kb.store.Save(storage.UIState, data)
}
