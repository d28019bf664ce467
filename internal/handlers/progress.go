package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"media-clipper/internal/logging"
	"media-clipper/internal/metrics"
	"media-clipper/internal/streaming"
)

// Progress streams task progress snapshots as server-sent events until
// the task finishes or the client disconnects.
// GET /api/progress/{taskId}
//
// Unknown task ids emit nothing; the client applies its own give-up
// timeout. Disconnecting never cancels the underlying job.
func (h *Handlers) Progress(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskId"]

	ew, err := streaming.NewEventWriter(w)
	if err != nil {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	metrics.ProgressSubscribers.Inc()
	defer metrics.ProgressSubscribers.Dec()

	for snapshot := range h.tracker.Subscribe(r.Context(), taskID) {
		if err := ew.WriteEvent(snapshot); err != nil {
			logging.Debug("progress stream for %s ended: %v", taskID, err)
			return
		}
	}
}
