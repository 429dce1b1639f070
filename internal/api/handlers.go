package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vportnov/lattice/internal/kb"
	"github.com/vportnov/lattice/internal/models"
)

// Handler holds API route handlers.
type Handler struct {
	kb *kb.KB
}

// NewHandler creates a new Handler.
func NewHandler(store *kb.KB) *Handler {
	return &Handler{kb: store}
}

// ListCategories handles GET /api/categories.
//
//	@Summary		List all categories in storage order
//	@Tags			categories
//	@Produce		json
//	@Success		200	{object}	CategoryListResponse
//	@Security		BearerAuth
//	@Router			/categories [get]
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.kb.Categories()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CategoryListResponse{Categories: cats, Total: len(cats)})
}

// CreateCategory handles POST /api/categories.
//
//	@Summary		Create a category under an optional parent path
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateCategoryRequest	true	"Category to create"
//	@Success		201		{object}	models.Category
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/categories [post]
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	cat, err := h.kb.CreateCategory(req.Name, req.ParentPath)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

// GetCategory handles GET /api/categories/{id}.
//
//	@Summary		Get a single category by id
//	@Tags			categories
//	@Produce		json
//	@Param			id	path		string	true	"Category id"
//	@Success		200	{object}	models.Category
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/categories/{id} [get]
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	cat, err := h.kb.CategoryByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if cat == nil {
		writeJSON(w, http.StatusNotFound, errorBody("category not found"))
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// Hierarchy handles GET /api/categories/hierarchy.
//
//	@Summary		List categories sorted by level, then name
//	@Tags			categories
//	@Produce		json
//	@Success		200	{object}	CategoryListResponse
//	@Security		BearerAuth
//	@Router			/categories/hierarchy [get]
func (h *Handler) Hierarchy(w http.ResponseWriter, r *http.Request) {
	cats, err := h.kb.Hierarchy()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CategoryListResponse{Categories: cats, Total: len(cats)})
}

// SearchCategories handles GET /api/categories/search.
//
//	@Summary		Fuzzy-search categories by name
//	@Tags			categories
//	@Produce		json
//	@Param			q	query		string	true	"Search query"
//	@Success		200	{object}	CategoryListResponse
//	@Security		BearerAuth
//	@Router			/categories/search [get]
func (h *Handler) SearchCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.kb.FindCategories(r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CategoryListResponse{Categories: cats, Total: len(cats)})
}

// ValidatePath handles POST /api/categories/validate.
//
//	@Summary		Check whether a category path exists and is consistent
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ValidatePathRequest	true	"Path to check"
//	@Success		200		{object}	ValidatePathResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/categories/validate [post]
func (h *Handler) ValidatePath(w http.ResponseWriter, r *http.Request) {
	var req ValidatePathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	ok, err := h.kb.ValidatePath(req.Path)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ValidatePathResponse{Valid: ok})
}

// RebuildHierarchy handles POST /api/categories/rebuild.
//
//	@Summary		Recompute levels, full paths and note counts for all categories
//	@Tags			categories
//	@Produce		json
//	@Success		200	{object}	CategoryListResponse
//	@Security		BearerAuth
//	@Router			/categories/rebuild [post]
func (h *Handler) RebuildHierarchy(w http.ResponseWriter, r *http.Request) {
	if err := h.kb.RebuildHierarchy(); err != nil {
		writeError(w, err)
		return
	}
	cats, err := h.kb.Categories()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CategoryListResponse{Categories: cats, Total: len(cats)})
}

// RecountNotes handles POST /api/categories/recount.
//
//	@Summary		Recompute cumulative note counts for all categories
//	@Tags			categories
//	@Produce		json
//	@Success		200	{object}	CategoryListResponse
//	@Security		BearerAuth
//	@Router			/categories/recount [post]
func (h *Handler) RecountNotes(w http.ResponseWriter, r *http.Request) {
	if err := h.kb.RecountNotes(); err != nil {
		writeError(w, err)
		return
	}
	cats, err := h.kb.Categories()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CategoryListResponse{Categories: cats, Total: len(cats)})
}

// RenameCategory handles PUT /api/categories/{id}.
//
//	@Summary		Rename a category and rewrite descendant and note paths
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Category id"
//	@Param			body	body		RenameCategoryRequest	true	"New name"
//	@Success		200		{object}	models.Category
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/categories/{id} [put]
func (h *Handler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	var req RenameCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.kb.RenameCategory(id, req.Name); err != nil {
		writeError(w, err)
		return
	}
	cat, err := h.kb.CategoryByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if cat == nil {
		writeJSON(w, http.StatusNotFound, errorBody("category not found"))
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// DeleteCategory handles DELETE /api/categories/{id}.
//
//	@Summary		Delete a category, its descendants and the notes filed under them
//	@Tags			categories
//	@Param			id	path	string	true	"Category id"
//	@Success		204
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/categories/{id} [delete]
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.kb.DeleteCategory(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes, optionally filtered by category subtree
//	@Tags			notes
//	@Produce		json
//	@Param			path	query		[]string	false	"Category path segments, repeated per segment"
//	@Success		200		{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query()["path"]

	var (
		notes []models.Note
		err   error
	)
	if len(path) > 0 {
		notes, err = h.kb.NotesByCategory(path)
	} else {
		notes, err = h.kb.Notes()
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Total: len(notes)})
}

// CreateNote handles POST /api/notes.
//
//	@Summary		Save a note, creating missing categories along its path
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateNoteRequest	true	"Note to save"
//	@Success		201		{object}	models.Note
//	@Failure		400		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	note, err := h.kb.SaveNote(r.Context(), req.Content, req.CategoryPath, req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote handles PUT /api/notes/{id}.
//
//	@Summary		Update a note's content and title
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Note id"
//	@Param			body	body		UpdateNoteRequest	true	"New content"
//	@Success		200		{object}	models.Note
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [put]
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	note, err := h.kb.UpdateNote(r.Context(), chi.URLParam(r, "id"), req.Content, req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/{id}.
//
//	@Summary		Delete a note and refresh category note counts
//	@Tags			notes
//	@Param			id	path	string	true	"Note id"
//	@Success		204
//	@Security		BearerAuth
//	@Router			/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.kb.DeleteNote(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetNotePosition handles PUT /api/notes/{id}/position.
//
//	@Summary		Store a note's graph position
//	@Tags			notes
//	@Accept			json
//	@Param			id		path	string				true	"Note id"
//	@Param			body	body	SetPositionRequest	true	"Position"
//	@Success		204
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/position [put]
func (h *Handler) SetNotePosition(w http.ResponseWriter, r *http.Request) {
	var req SetPositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.kb.SetNotePosition(chi.URLParam(r, "id"), req.X, req.Y); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NoteLinks handles GET /api/notes/{id}/links.
//
//	@Summary		List links where the note is either endpoint
//	@Tags			links
//	@Produce		json
//	@Param			id	path		string	true	"Note id"
//	@Success		200	{object}	LinkListResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/links [get]
func (h *Handler) NoteLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.kb.LinksForNote(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LinkListResponse{Links: links, Total: len(links)})
}

// Positions handles GET /api/positions.
//
//	@Summary		List stored graph positions for all notes
//	@Tags			notes
//	@Produce		json
//	@Success		200	{object}	PositionListResponse
//	@Security		BearerAuth
//	@Router			/positions [get]
func (h *Handler) Positions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.kb.NotePositions()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PositionListResponse{Positions: positions})
}

// ListLinks handles GET /api/links.
//
//	@Summary		List all note links
//	@Tags			links
//	@Produce		json
//	@Success		200	{object}	LinkListResponse
//	@Security		BearerAuth
//	@Router			/links [get]
func (h *Handler) ListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.kb.Links()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LinkListResponse{Links: links, Total: len(links)})
}

// CreateLink handles POST /api/links.
//
//	@Summary		Link two notes with a typed relationship
//	@Tags			links
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateLinkRequest	true	"Link to create"
//	@Success		201		{object}	models.NoteLink
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/links [post]
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	link, err := h.kb.CreateLink(req.SourceID, req.TargetID, req.LinkType, req.Label, req.Color, req.Directional)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

// DeleteLink handles DELETE /api/links/{id}.
//
//	@Summary		Delete a link by id
//	@Tags			links
//	@Param			id	path	string	true	"Link id"
//	@Success		204
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/links/{id} [delete]
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	if err := h.kb.DeleteLink(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Viewport handles GET /api/viewport.
//
//	@Summary		Get the persisted graph viewport
//	@Tags			ui
//	@Produce		json
//	@Success		200	{object}	models.GraphViewport
//	@Security		BearerAuth
//	@Router			/viewport [get]
func (h *Handler) Viewport(w http.ResponseWriter, r *http.Request) {
	v, err := h.kb.Viewport()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// SaveViewport handles PUT /api/viewport.
//
//	@Summary		Persist the graph viewport
//	@Tags			ui
//	@Accept			json
//	@Param			body	body	models.GraphViewport	true	"Viewport"
//	@Success		204
//	@Security		BearerAuth
//	@Router			/viewport [put]
func (h *Handler) SaveViewport(w http.ResponseWriter, r *http.Request) {
	var v models.GraphViewport
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.kb.SaveViewport(v); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
