package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/validation"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	response.RespondJSON(w, status, data)
}

// respondError maps err to a status and sends it with the given message.
// Validation errors are returned as 400 with their per-field messages as details.
func respondError(w http.ResponseWriter, message string, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
		return
	}

	status := response.StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[http] %s: %v", message, err)
	}
	response.RespondError(w, status, message, err.Error())
}
