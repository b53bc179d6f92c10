// Package response provides utilities for sending consistent HTTP responses.
// It includes helpers for JSON responses and standardized error responses.
package response

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/apperrors"
)

// ErrorResponse represents a structured error response returned by the API.
// The Details field is optional and can contain additional context about the error.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// Sets the Content-Type header to application/json and writes the status code.
// If data is nil, only the status code is sent (useful for 204 No Content).
// Logs encoding errors but does not fail the response.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("failed to encode JSON response: %v", err)
		}
	}
}

// RespondError sends a structured error response with the given status code.
// The message should be a user-friendly error description.
// The details parameter can be an error string, additional context, or nil.
//
// Example:
//
//	response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
//	response.RespondError(w, http.StatusServiceUnavailable, "server busy", "")
func RespondError(w http.ResponseWriter, status int, message string, details interface{}) {
	response := ErrorResponse{
		Error:   message,
		Details: details,
	}
	RespondJSON(w, status, response)
}

// StatusFor maps an extraction or request error to its HTTP status:
// request problems are 400, oversized bodies 413, workbooks that decode but cannot be
// used 422, a saturated limiter 503, and anything else 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrMissingUpload),
		errors.Is(err, apperrors.ErrInvalidAsOfDate),
		errors.Is(err, apperrors.ErrInvalidStatusReference):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, apperrors.ErrInvalidWorkbook),
		errors.Is(err, apperrors.ErrUnsupportedFormat),
		errors.Is(err, apperrors.ErrDashboardSheetMissing):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrServerBusy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
