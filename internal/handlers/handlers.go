package handlers

import (
	"time"

	"media-clipper/internal/download"
	"media-clipper/internal/session"
	"media-clipper/internal/startup"
	"media-clipper/internal/tasks"
	"media-clipper/internal/transcoder"
)

// Handlers carries the wired dependencies for every HTTP endpoint.
type Handlers struct {
	sessions   *session.Registry
	tracker    *tasks.Tracker
	transcoder *transcoder.Orchestrator
	pipeline   *download.Pipeline
	uploadDir  string
	tools      startup.ToolStatus
	startTime  time.Time
}

// New wires the handler set.
func New(sessions *session.Registry, tracker *tasks.Tracker, orch *transcoder.Orchestrator, pipeline *download.Pipeline, config *startup.Config) *Handlers {
	return &Handlers{
		sessions:   sessions,
		tracker:    tracker,
		transcoder: orch,
		pipeline:   pipeline,
		uploadDir:  config.UploadDir,
		tools:      config.Tools,
		startTime:  time.Now(),
	}
}
