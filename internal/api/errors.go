package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/johnwards/niyog/internal/store"
	"github.com/johnwards/niyog/pkg/pipeline"
)

// Error categories used in error envelopes.
const (
	CategoryValidationError = "VALIDATION_ERROR"
	CategoryObjectNotFound  = "OBJECT_NOT_FOUND"
	CategoryConflict        = "CONFLICT"
	CategoryInternalError   = "INTERNAL_ERROR"
)

// Error is the JSON error envelope returned by every endpoint.
type Error struct {
	Status        string        `json:"status"`
	Message       string        `json:"message"`
	CorrelationID string        `json:"correlationId"`
	Category      string        `json:"category"`
	SubCategory   string        `json:"subCategory,omitempty"`
	Errors        []ErrorDetail `json:"errors,omitempty"`
}

// ErrorDetail represents a single error within an Error.
type ErrorDetail struct {
	Message     string              `json:"message"`
	Code        string              `json:"code,omitempty"`
	In          string              `json:"in,omitempty"`
	Context     map[string][]string `json:"context,omitempty"`
	SubCategory string              `json:"subCategory,omitempty"`
}

// NewNotFoundError creates a 404 error with the OBJECT_NOT_FOUND category.
func NewNotFoundError(message, correlationID string) *Error {
	return &Error{
		Status:        "error",
		Message:       message,
		CorrelationID: correlationID,
		Category:      CategoryObjectNotFound,
	}
}

// NewValidationError creates a 400 error with the VALIDATION_ERROR category.
func NewValidationError(message, correlationID string, details []ErrorDetail) *Error {
	return &Error{
		Status:        "error",
		Message:       message,
		CorrelationID: correlationID,
		Category:      CategoryValidationError,
		Errors:        details,
	}
}

// NewConflictError creates a 409 error with the CONFLICT category.
func NewConflictError(message, correlationID string) *Error {
	return &Error{
		Status:        "error",
		Message:       message,
		CorrelationID: correlationID,
		Category:      CategoryConflict,
	}
}

// NewInternalError creates a 500 error with the INTERNAL_ERROR category.
func NewInternalError(correlationID string) *Error {
	return &Error{
		Status:        "error",
		Message:       "Internal Server Error",
		CorrelationID: correlationID,
		Category:      CategoryInternalError,
	}
}

// WriteError writes an Error as a JSON response with the given HTTP status code.
func WriteError(w http.ResponseWriter, statusCode int, apiErr *Error) {
	WriteJSON(w, statusCode, apiErr)
}

// WriteStoreError maps store and evaluator errors to an error response.
// Unknown errors are logged and reported as 500.
func WriteStoreError(w http.ResponseWriter, r *http.Request, err error) {
	corrID := CorrelationID(r.Context())
	switch {
	case errors.Is(err, store.ErrNotFound):
		WriteError(w, http.StatusNotFound, NewNotFoundError(err.Error(), corrID))
	case errors.Is(err, store.ErrRejected), errors.Is(err, store.ErrConflict):
		WriteError(w, http.StatusConflict, NewConflictError(err.Error(), corrID))
	case errors.Is(err, pipeline.ErrInvalidArgument):
		WriteError(w, http.StatusBadRequest, NewValidationError(err.Error(), corrID, nil))
	default:
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path, "correlation_id", corrID)
		WriteError(w, http.StatusInternalServerError, NewInternalError(corrID))
	}
}
