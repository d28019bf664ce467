package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"media-clipper/internal/logging"
	"media-clipper/internal/mediatypes"
)

// maxUploadMemory bounds the multipart parse buffer; larger bodies
// spill to temp files.
const maxUploadMemory = 32 << 20 // 32MB

// uploadResponse mirrors the original client's expectations: a
// server-relative playback path plus the absolute scratch path.
type uploadResponse struct {
	Filename  string `json:"filename"`
	Path      string `json:"path"`
	FullPath  string `json:"fullPath"`
	SessionID string `json:"sessionId"`
}

// Upload handles direct media uploads.
// POST /api/upload (multipart, field "media")
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSONError(w, http.StatusBadRequest, errorBody("No file uploaded"))
		return
	}

	file, header, err := r.FormFile("media")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, errorBody("No file uploaded"))
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Debug("failed to close upload stream: %v", err)
		}
	}()

	original := filepath.Base(header.Filename)
	if kind := mediatypes.Classify(original); kind == mediatypes.KindOther {
		logging.Warn("upload %s has unrecognized media extension", original)
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), original)
	fullPath := filepath.Join(h.uploadDir, filename)

	dst, err := os.Create(fullPath)
	if err != nil {
		logging.Error("failed to create upload file: %v", err)
		writeJSONError(w, http.StatusInternalServerError, errorBody("Failed to store upload"))
		return
	}

	_, copyErr := io.Copy(dst, file)
	closeErr := dst.Close()
	if copyErr != nil || closeErr != nil {
		logging.Error("failed to write upload %s: copy=%v close=%v", fullPath, copyErr, closeErr)
		if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
			logging.Warn("failed to remove partial upload %s: %v", fullPath, err)
		}
		writeJSONError(w, http.StatusInternalServerError, errorBody("Failed to store upload"))
		return
	}

	sid := sessionID(r)
	h.sessions.Track(sid, fullPath)

	writeJSON(w, uploadResponse{
		Filename:  filename,
		Path:      "/uploads/" + filename,
		FullPath:  fullPath,
		SessionID: sid,
	})
}
