package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vportnov/lattice/internal/kb"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(store *kb.KB, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(store)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Categories. Fixed paths are registered before the {id} routes so
	// chi does not treat "hierarchy" or "search" as an id.
	r.Get("/categories", h.ListCategories)
	r.Post("/categories", h.CreateCategory)
	r.Get("/categories/hierarchy", h.Hierarchy)
	r.Get("/categories/search", h.SearchCategories)
	r.Post("/categories/validate", h.ValidatePath)
	r.Post("/categories/rebuild", h.RebuildHierarchy)
	r.Post("/categories/recount", h.RecountNotes)
	r.Get("/categories/{id}", h.GetCategory)
	r.Put("/categories/{id}", h.RenameCategory)
	r.Delete("/categories/{id}", h.DeleteCategory)

	// Notes.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Put("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)
	r.Put("/notes/{id}/position", h.SetNotePosition)
	r.Get("/notes/{id}/links", h.NoteLinks)
	r.Get("/positions", h.Positions)

	// Links.
	r.Get("/links", h.ListLinks)
	r.Post("/links", h.CreateLink)
	r.Delete("/links/{id}", h.DeleteLink)

	// Viewport.
	r.Get("/viewport", h.Viewport)
	r.Put("/viewport", h.SaveViewport)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
