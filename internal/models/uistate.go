package models

// GraphViewport is the last camera position of the graph view.
type GraphViewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// UIState is the single process-wide UI record, overwritten wholesale.
type UIState struct {
	GraphViewport GraphViewport `json:"graph_viewport"`
}

// UIStateDocument is the persisted shape of the ui-state collection.
type UIStateDocument struct {
	UIState UIState `json:"ui_state"`
}

// DefaultUIState is the viewport used when no ui-state collection exists.
func DefaultUIState() UIStateDocument {
	return UIStateDocument{
		UIState: UIState{
			GraphViewport: GraphViewport{X: 0, Y: 0, Zoom: 0.8},
		},
	}
}
