package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// PollInterval is the cadence at which Subscribe samples the last-value
// store. It matches the client-facing progress event cadence.
const PollInterval = 100 * time.Millisecond

// Snapshot is one sampled progress value for a task.
type Snapshot struct {
	Progress float64 `json:"progress"`
}

// Tracker is a process-wide registry of task id -> percent complete.
//
// It is a last-value store, not a queue: updates overwrite, and a
// subscriber only sees whatever value is current at each sample. A task
// absent from the registry means "unknown"; callers that previously saw
// a value must treat later absence as failure.
type Tracker struct {
	mu    sync.RWMutex
	tasks map[string]float64
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{tasks: make(map[string]float64)}
}

// NewTaskID builds a task id embedding the job kind and start time.
func NewTaskID(kind string) string {
	return fmt.Sprintf("%s-%d", kind, time.Now().UnixMilli())
}

// Start registers the task at progress 0.
func (t *Tracker) Start(taskID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tasks[taskID] = 0
}

// Update stores percent clamped to [0,99]. It never decreases the stored
// value and is a no-op if the task has been removed (already failed).
func (t *Tracker) Update(taskID string, percent float64) {
	if percent < 0 {
		percent = 0
	}
	if percent > 99 {
		percent = 99
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	current, ok := t.tasks[taskID]
	if !ok || percent < current {
		return
	}
	t.tasks[taskID] = percent
}

// Complete marks the task finished by storing exactly 100.
func (t *Tracker) Complete(taskID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.tasks[taskID]; ok {
		t.tasks[taskID] = 100
	}
}

// Fail removes the task. Subscribers observe indefinite silence, which
// clients interpret as failure once they have seen an earlier value.
func (t *Tracker) Fail(taskID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.tasks, taskID)
}

// Progress returns the current value and whether the task is known.
func (t *Tracker) Progress(taskID string) (float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.tasks[taskID]
	return p, ok
}

// Subscribe opens a fresh polling loop against the store and returns a
// channel of snapshots sampled every PollInterval. The channel closes
// after a snapshot of 100 is delivered or when ctx is done. Unknown task
// ids produce no snapshots at all; the caller applies its own give-up
// policy.
//
// Cancelling ctx stops only this subscription, never the underlying job.
func (t *Tracker) Subscribe(ctx context.Context, taskID string) <-chan Snapshot {
	out := make(chan Snapshot)

	go func() {
		defer close(out)

		ticker := time.NewTicker(PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				progress, ok := t.Progress(taskID)
				if !ok {
					continue
				}

				select {
				case out <- Snapshot{Progress: progress}:
				case <-ctx.Done():
					return
				}

				if progress >= 100 {
					return
				}
			}
		}
	}()

	return out
}
