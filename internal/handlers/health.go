package handlers

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"media-clipper/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Ready   bool   `json:"ready"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`

	Tools startup.ToolStatus `json:"tools"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service.
// GET /health, /healthz
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	response := HealthResponse{
		Ready:        h.ready(),
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		Tools:        h.tools,
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	response.Status = statusHealthy
	if !h.tools.FFmpeg || !h.tools.FFprobe {
		// Uploads and session handling still work without the engine.
		response.Status = statusDegraded
	}

	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe.
// GET /livez
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{"status": "alive"})
	}
}

// ReadinessCheck returns 200 only when the scratch directory is usable.
// GET /readyz
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	if h.ready() {
		writeJSON(w, map[string]string{"status": "ready"})
		return
	}
	writeJSONError(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
}

func (h *Handlers) ready() bool {
	info, err := os.Stat(h.uploadDir)
	return err == nil && info.IsDir()
}
