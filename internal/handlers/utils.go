package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"medialib/internal/library"
	"medialib/internal/logging"
	"medialib/internal/metadata"
	"medialib/internal/pathsafe"
)

// writeJSON encodes v as JSON onto the response writer. Encoding errors
// are logged; there is nothing useful to send the client at that point.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"error": message})
}

// writeServiceError maps facade errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, library.ErrUnknownLibrary), errors.Is(err, library.ErrNotFound):
		writeJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, pathsafe.ErrInvalidPath),
		errors.Is(err, pathsafe.ErrPathTraversal),
		errors.Is(err, pathsafe.ErrPathEscape):
		writeJSONError(w, "invalid path", http.StatusBadRequest)
	case errors.Is(err, metadata.ErrMetadataWriteFailed):
		writeJSONError(w, err.Error(), http.StatusBadGateway)
	default:
		logging.Error("request failed: %v", err)
		writeJSONError(w, "internal error", http.StatusInternalServerError)
	}
}
