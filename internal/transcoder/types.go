package transcoder

import "fmt"

// ExtractMode selects how frame sampling is derived.
type ExtractMode string

const (
	// ModeInterval samples one frame every Interval seconds.
	ModeInterval ExtractMode = "interval"
	// ModeCount spreads Count frames evenly across the asset duration.
	ModeCount ExtractMode = "count"
)

// TrimJob describes a clip-extraction job.
type TrimJob struct {
	InputPath string
	StartTime float64
	Duration  float64
	IsAudio   bool
}

// ExtractJob describes a still-frame extraction job.
type ExtractJob struct {
	InputPath string
	Mode      ExtractMode
	Interval  float64
	Count     int
	// Duration is the total duration of the source asset, supplied by
	// the client. It drives the sampling rate in count mode and the
	// progress percentage for both modes.
	Duration float64
}

// Frame is one extracted still image.
//
// Timestamp is derived from the sampling formula (index*interval, or
// index*duration/count), not from engine-reported per-frame timing. It
// is an approximation whose error grows with variable-frame-rate
// sources.
type Frame struct {
	ID        string  `json:"id"`
	Timestamp float64 `json:"timestamp"`
	URL       string  `json:"url"`
	Selected  bool    `json:"selected"`
}

// TrimResult is the outcome of a successful trim job.
type TrimResult struct {
	Filename string
	Path     string
	TaskID   string
}

// ExtractResult is the outcome of a successful frame-extraction job.
type ExtractResult struct {
	Frames []Frame
	TaskID string
}

// TranscodeError indicates the media engine failed mid-job.
type TranscodeError struct {
	Kind string
	Err  error
}

func (e *TranscodeError) Error() string {
	return fmt.Sprintf("ffmpeg %s failed: %v", e.Kind, e.Err)
}

func (e *TranscodeError) Unwrap() error {
	return e.Err
}
