package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vportnov/lattice/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// writeError maps the store error taxonomy onto HTTP statuses. Validation
// errors surface their descriptive message; anything unexpected is an
// internal error with the detail logged, not leaked.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound),
		errors.Is(err, apperr.ErrParentNotFound),
		errors.Is(err, apperr.ErrSourceNotFound),
		errors.Is(err, apperr.ErrTargetNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrDuplicatePath),
		errors.Is(err, apperr.ErrDuplicateLink):
		writeJSON(w, http.StatusConflict, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrInconsistentHierarchy),
		errors.Is(err, apperr.ErrCorruptStore):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
	default:
		slog.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
