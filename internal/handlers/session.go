package handlers

import "net/http"

// Heartbeat refreshes the session's activity window.
// POST /api/heartbeat
func (h *Handlers) Heartbeat(w http.ResponseWriter, r *http.Request) {
	h.sessions.Heartbeat(sessionID(r))
	writeJSON(w, map[string]interface{}{"ok": true})
}

// Cleanup immediately reclaims the session's scratch files.
// POST /api/cleanup
func (h *Handlers) Cleanup(w http.ResponseWriter, r *http.Request) {
	h.sessions.Cleanup(sessionID(r))
	writeJSON(w, map[string]interface{}{
		"ok":      true,
		"message": "Session cleaned up",
	})
}
