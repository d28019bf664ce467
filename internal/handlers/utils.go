package handlers

import (
	"encoding/json"
	"net/http"

	"media-clipper/internal/logging"
	"media-clipper/internal/session"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Encoding or write errors are logged since we typically cannot recover
// from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, statusCode int, fields map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, fields)
}

// errorBody builds the minimal error payload.
func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}

// sessionID extracts the client session id, defaulting when absent.
func sessionID(r *http.Request) string {
	if id := r.Header.Get("x-session-id"); id != "" {
		return id
	}
	return session.DefaultID
}
