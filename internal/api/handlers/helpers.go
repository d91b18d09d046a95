package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/precisionhealth/skinsight-be/internal/apperrors"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError reports a failure with its stable category and human-readable
// message. The category never leaks which internal check failed beyond what
// the taxonomy allows.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperrors.HTTPStatus(err), map[string]string{
		"error":  apperrors.Category(err),
		"detail": err.Error(),
	})
}
