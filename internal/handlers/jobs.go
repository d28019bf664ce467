package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"media-clipper/internal/logging"
	"media-clipper/internal/mediatypes"
	"media-clipper/internal/transcoder"
)

type trimRequest struct {
	Filename  string  `json:"filename"`
	StartTime float64 `json:"startTime"`
	Duration  float64 `json:"duration"`
	IsAudio   bool    `json:"isAudio"`
}

type trimResponse struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	TaskID   string `json:"taskId"`
}

// Trim runs a trim job to completion, reporting live progress through
// the task tracker while the response is pending.
// POST /api/trim
func (h *Handlers) Trim(w http.ResponseWriter, r *http.Request) {
	var req trimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Filename == "" {
		writeJSONError(w, http.StatusBadRequest, errorBody("Missing filename"))
		return
	}

	inputPath, ok := h.resolveUpload(req.Filename)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, errorBody("Invalid filename"))
		return
	}

	result, err := h.transcoder.Trim(r.Context(), transcoder.TrimJob{
		InputPath: inputPath,
		StartTime: req.StartTime,
		Duration:  req.Duration,
		IsAudio:   req.IsAudio || mediatypes.Classify(req.Filename) == mediatypes.KindAudio,
	})
	if err != nil {
		logging.Error("trim failed for %s: %v", req.Filename, err)
		writeJSONError(w, http.StatusInternalServerError, errorBody("FFmpeg trim error"))
		return
	}

	h.sessions.Track(sessionID(r), result.Path)

	writeJSON(w, trimResponse{
		Filename: result.Filename,
		Path:     "/uploads/" + result.Filename,
		TaskID:   result.TaskID,
	})
}

type extractRequest struct {
	Filename string  `json:"filename"`
	Mode     string  `json:"mode"`
	Interval float64 `json:"interval"`
	Count    int     `json:"count"`
	Duration float64 `json:"duration"`
}

type extractResponse struct {
	Frames []transcoder.Frame `json:"frames"`
	TaskID string             `json:"taskId"`
}

// ExtractFrames runs a frame-extraction job to completion.
// POST /api/extract-frames
func (h *Handlers) ExtractFrames(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Filename == "" {
		writeJSONError(w, http.StatusBadRequest, errorBody("Missing filename"))
		return
	}

	inputPath, ok := h.resolveUpload(req.Filename)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, errorBody("Invalid filename"))
		return
	}

	mode := transcoder.ModeCount
	if req.Mode == string(transcoder.ModeInterval) {
		mode = transcoder.ModeInterval
	}

	result, err := h.transcoder.ExtractFrames(r.Context(), transcoder.ExtractJob{
		InputPath: inputPath,
		Mode:      mode,
		Interval:  req.Interval,
		Count:     req.Count,
		Duration:  req.Duration,
	})
	if err != nil {
		logging.Error("frame extraction failed for %s: %v", req.Filename, err)
		writeJSONError(w, http.StatusInternalServerError, errorBody("FFmpeg extraction error"))
		return
	}

	sid := sessionID(r)
	for _, path := range transcoder.FramePaths(h.uploadDir, result.Frames) {
		h.sessions.Track(sid, path)
	}

	writeJSON(w, extractResponse{
		Frames: result.Frames,
		TaskID: result.TaskID,
	})
}

// resolveUpload maps a client-supplied filename onto the upload dir,
// rejecting anything that escapes it.
func (h *Handlers) resolveUpload(filename string) (string, bool) {
	if filepath.Base(filename) != filename {
		return "", false
	}
	return filepath.Join(h.uploadDir, filename), true
}
