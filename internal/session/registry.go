package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"media-clipper/internal/logging"
	"media-clipper/internal/metrics"
)

const (
	// DefaultID is used when a request carries no x-session-id header.
	DefaultID = "default"

	// DefaultTimeout is how long a session may stay idle before the
	// sweeper reclaims it.
	DefaultTimeout = 5 * time.Minute

	// FramesDirPrefix marks transient frame-output directories. Cleanup
	// removes a tracked file's parent directory recursively when its
	// base name carries this prefix.
	FramesDirPrefix = "frames-"
)

type record struct {
	files        []string
	lastActivity time.Time
}

// Registry tracks which scratch files belong to which client session and
// reclaims them on timeout or explicit request. It is the sole authority
// for which files may be deleted.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*record
	timeout  time.Duration
}

// NewRegistry returns a registry with the given idle timeout. A zero or
// negative timeout falls back to DefaultTimeout.
func NewRegistry(timeout time.Duration) *Registry {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Registry{
		sessions: make(map[string]*record),
		timeout:  timeout,
	}
}

// Touch creates the session if absent and refreshes its activity time.
func (r *Registry) Touch(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touchLocked(sessionID)
}

// Track appends path to the session's file set, creating the session if
// absent, and refreshes its activity time. Every file path handed to a
// client must be tracked before the response is sent so a sweep can
// never miss a live reference.
func (r *Registry) Track(sessionID, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := r.touchLocked(sessionID)
	rec.files = append(rec.files, path)
}

// Heartbeat refreshes an existing session's activity time. Unlike Touch
// it does not create the session; a heartbeat for an unknown session is
// a no-op.
func (r *Registry) Heartbeat(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.sessions[sessionID]; ok {
		rec.lastActivity = time.Now()
	}
}

func (r *Registry) touchLocked(sessionID string) *record {
	rec, ok := r.sessions[sessionID]
	if !ok {
		rec = &record{}
		r.sessions[sessionID] = rec
		metrics.SessionsActive.Inc()
		logging.Debug("session %s created", sessionID)
	}
	rec.lastActivity = time.Now()
	return rec
}

// Cleanup deletes every file tracked by the session, removes transient
// frame directories those files live in, and drops the session record.
// It is idempotent: a second call, or a call for an unknown session, is
// a no-op. Individual deletion failures are logged and swallowed.
func (r *Registry) Cleanup(sessionID string) {
	r.mu.Lock()
	rec, ok := r.sessions[sessionID]
	if ok {
		delete(r.sessions, sessionID)
	}
	r.mu.Unlock()

	if !ok {
		return
	}
	metrics.SessionsActive.Dec()

	logging.Info("cleaning up session %s (%d files)", sessionID, len(rec.files))

	for _, path := range rec.files {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logging.Warn("cleanup: failed to delete %s: %v", path, err)
		} else {
			metrics.SessionFilesReclaimed.Inc()
			logging.Debug("cleanup: deleted %s", path)
		}

		// Frame sequences live in transient per-job directories; remove
		// the whole directory once any file inside it is reclaimed.
		parent := filepath.Dir(path)
		if strings.HasPrefix(filepath.Base(parent), FramesDirPrefix) {
			if err := os.RemoveAll(parent); err != nil {
				logging.Warn("cleanup: failed to delete directory %s: %v", parent, err)
			} else {
				logging.Debug("cleanup: deleted directory %s", parent)
			}
		}
	}
}

// Sweep removes every session idle longer than the registry timeout,
// relative to now. The clock is passed in so tests control expiry.
func (r *Registry) Sweep(now time.Time) {
	start := time.Now()

	r.mu.Lock()
	var expired []string
	for id, rec := range r.sessions {
		if now.Sub(rec.lastActivity) > r.timeout {
			expired = append(expired, id)
		}
	}
	r.mu.Unlock()

	for _, id := range expired {
		logging.Info("session %s expired", id)
		r.Cleanup(id)
	}

	metrics.SessionSweepDuration.Observe(time.Since(start).Seconds())
}

// CleanupAll reclaims every live session. Called on shutdown: scratch
// files are process-lifetime-scoped.
func (r *Registry) CleanupAll() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		r.Cleanup(id)
	}
}

// Files returns a copy of the session's tracked file set.
func (r *Registry) Files(sessionID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.sessions[sessionID]
	if !ok {
		return nil
	}
	files := make([]string, len(rec.files))
	copy(files, rec.files)
	return files
}
