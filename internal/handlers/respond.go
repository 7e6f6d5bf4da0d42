package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/therabridge/therabridge-backend/internal/models"
	"github.com/therabridge/therabridge-backend/internal/services"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes the standard failure envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// writeServiceError maps service errors onto HTTP statuses. Validation
// failures carry a field → message map.
func writeServiceError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Validation failed",
			"errors":  models.FormatValidationErrors(err),
		})
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "Record not found")
	case errors.Is(err, services.ErrProfileExists):
		writeError(w, http.StatusConflict, "A profile already exists for this user")
	case errors.Is(err, services.ErrIllegalTransition):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUnknownDocument), errors.Is(err, services.ErrDocumentMissing):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Database error")
	}
}
