package handlers

import (
	"net/http"

	"media-clipper/internal/startup"
)

// GetVersion returns build and version information.
// GET /version
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, startup.GetBuildInfo())
}
