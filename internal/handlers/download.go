package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"media-clipper/internal/download"
	"media-clipper/internal/logging"
)

type downloadRequest struct {
	URL string `json:"url"`
}

type downloadResponse struct {
	Filename  string `json:"filename"`
	Path      string `json:"path"`
	FullPath  string `json:"fullPath"`
	SessionID string `json:"sessionId"`
	Source    string `json:"source"`
}

// DownloadURL resolves a remote URL into a session-tracked local asset.
// POST /api/download-url
func (h *Handlers) DownloadURL(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeJSONError(w, http.StatusBadRequest, errorBody("Missing URL"))
		return
	}

	result, err := h.pipeline.Fetch(r.Context(), req.URL)
	if err != nil {
		h.writeDownloadError(w, err)
		return
	}

	sid := sessionID(r)
	h.sessions.Track(sid, result.Path)

	writeJSON(w, downloadResponse{
		Filename:  result.Filename,
		Path:      "/uploads/" + result.Filename,
		FullPath:  result.Path,
		SessionID: sid,
		Source:    string(result.Source),
	})
}

// writeDownloadError maps pipeline failures to the client-facing
// taxonomy: every fatal is a 400 with an error string, and tool-chain
// exhaustion adds an actionable hint.
func (h *Handlers) writeDownloadError(w http.ResponseWriter, err error) {
	logging.Error("download failed: %v", err)

	var noTool *download.NoToolError
	if errors.As(err, &noTool) {
		writeJSONError(w, http.StatusBadRequest, map[string]string{
			"error": "YouTube videos require yt-dlp or youtube-dl to be installed",
			"hint":  noTool.Hint,
		})
		return
	}

	var dlErr *download.Error
	if errors.As(err, &dlErr) {
		writeJSONError(w, http.StatusBadRequest, map[string]string{
			"error":   "Failed to download from URL",
			"details": dlErr.Err.Error(),
		})
		return
	}

	var badURL *download.InvalidURLError
	if errors.As(err, &badURL) {
		writeJSONError(w, http.StatusBadRequest, errorBody("Invalid URL"))
		return
	}

	writeJSONError(w, http.StatusInternalServerError, errorBody(err.Error()))
}
