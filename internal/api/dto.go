package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/vportnov/lattice/internal/models"
)

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	Name       string   `json:"name" example:"Python" validate:"required"`
	ParentPath []string `json:"parent_path" example:"Technical"`
}

// Validate validates the create-category request.
func (r CreateCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
	)
}

// RenameCategoryRequest is the request body for renaming a category.
type RenameCategoryRequest struct {
	Name string `json:"name" example:"Python3" validate:"required"`
}

// Validate validates the rename request.
func (r RenameCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
	)
}

// ValidatePathRequest asks whether a category path exists.
type ValidatePathRequest struct {
	Path []string `json:"path" example:"Technical,Python"`
}

// ValidatePathResponse is the validation result.
type ValidatePathResponse struct {
	Valid bool `json:"valid"`
}

// CreateNoteRequest is the request body for saving a note.
type CreateNoteRequest struct {
	Content      string   `json:"content" example:"flexbox centers with justify-content" validate:"required"`
	CategoryPath []string `json:"category_path" example:"Technical,CSS"`
	Title        string   `json:"title" example:"CSS Centering"`
}

// Validate validates the create-note request.
func (r CreateNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required),
	)
}

// UpdateNoteRequest is the request body for updating a note.
type UpdateNoteRequest struct {
	Content string `json:"content" validate:"required"`
	Title   string `json:"title"`
}

// Validate validates the update-note request.
func (r UpdateNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required),
	)
}

// SetPositionRequest is the request body for storing a graph position.
type SetPositionRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CreateLinkRequest is the request body for linking two notes.
type CreateLinkRequest struct {
	SourceID    string `json:"source_id" validate:"required"`
	TargetID    string `json:"target_id" validate:"required"`
	LinkType    string `json:"link_type" example:"Related" validate:"required"`
	Label       string `json:"label"`
	Color       string `json:"color" example:"purple"`
	Directional *bool  `json:"directional"`
}

// Validate validates the create-link request.
func (r CreateLinkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SourceID, validation.Required),
		validation.Field(&r.TargetID, validation.Required),
		validation.Field(&r.LinkType, validation.Required),
	)
}

// CategoryListResponse wraps category listings.
type CategoryListResponse struct {
	Categories []models.Category `json:"categories" validate:"required"`
	Total      int               `json:"total" example:"7" validate:"required"`
}

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []models.Note `json:"notes" validate:"required"`
	Total int           `json:"total" example:"42" validate:"required"`
}

// LinkListResponse wraps link listings.
type LinkListResponse struct {
	Links []models.NoteLink `json:"links" validate:"required"`
	Total int               `json:"total" validate:"required"`
}

// PositionListResponse wraps stored graph positions.
type PositionListResponse struct {
	Positions []models.NotePosition `json:"positions" validate:"required"`
}
