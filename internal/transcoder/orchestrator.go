package transcoder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"media-clipper/internal/command"
	"media-clipper/internal/logging"
	"media-clipper/internal/metrics"
	"media-clipper/internal/tasks"
)

// FrameWidth is the fixed width extracted frames are scaled down to.
// This is purely a throughput optimization; aspect ratio is preserved.
const FrameWidth = 480

// Orchestrator translates high-level job descriptions into single ffmpeg
// invocations, manages output paths under the upload directory, and
// reports progress through the task tracker.
type Orchestrator struct {
	runner    command.Runner
	tracker   *tasks.Tracker
	uploadDir string
	jobs      *semaphore.Weighted

	// degradeOnNormalizeFailure renames the raw downloaded file into the
	// expected output slot when normalization fails, preferring a
	// playable-but-unverified file over no file.
	degradeOnNormalizeFailure bool
}

// New creates an orchestrator writing outputs into uploadDir. maxJobs
// caps concurrently running engine invocations.
func New(runner command.Runner, tracker *tasks.Tracker, uploadDir string, maxJobs int, degradeOnNormalizeFailure bool) *Orchestrator {
	if maxJobs < 1 {
		maxJobs = 1
	}
	return &Orchestrator{
		runner:                    runner,
		tracker:                   tracker,
		uploadDir:                 uploadDir,
		jobs:                      semaphore.NewWeighted(int64(maxJobs)),
		degradeOnNormalizeFailure: degradeOnNormalizeFailure,
	}
}

// Trim re-encodes the [StartTime, StartTime+Duration] segment of the
// input into a browser-compatible clip. The task is registered before
// the engine starts; the returned task id can be subscribed to while
// the call is still in flight.
func (o *Orchestrator) Trim(ctx context.Context, job TrimJob) (*TrimResult, error) {
	taskID := tasks.NewTaskID("trim")

	outputFilename := fmt.Sprintf("trimmed-%d-%s", time.Now().UnixMilli(), filepath.Base(job.InputPath))
	outputPath := filepath.Join(o.uploadDir, outputFilename)

	args := []string{
		"-ss", formatSeconds(job.StartTime),
		"-i", job.InputPath,
		"-t", formatSeconds(job.Duration),
		"-threads", "0",
	}
	if job.IsAudio {
		// Drop any video stream and let ffmpeg pick the container's
		// default audio codec from the output extension.
		args = append(args, "-vn")
	} else {
		args = append(args, "-preset", "ultrafast", "-c:v", "libx264", "-crf", "22")
	}
	args = append(args, "-y", outputPath)

	if err := o.runEngine(ctx, "trim", taskID, args, job.Duration); err != nil {
		return nil, err
	}

	return &TrimResult{
		Filename: outputFilename,
		Path:     outputPath,
		TaskID:   taskID,
	}, nil
}

// ExtractFrames samples still images from the input into a fresh
// transient directory and returns one record per produced frame.
func (o *Orchestrator) ExtractFrames(ctx context.Context, job ExtractJob) (*ExtractResult, error) {
	taskID := tasks.NewTaskID("extract")

	outputDir := filepath.Join(o.uploadDir, fmt.Sprintf("frames-%d", time.Now().UnixMilli()))
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create frame directory: %w", err)
	}

	args := []string{
		"-i", job.InputPath,
		"-threads", "0",
		"-vf", fmt.Sprintf("%s,scale=%d:-1", samplingFilter(job), FrameWidth),
		filepath.Join(outputDir, "frame-%03d.png"),
	}

	if err := o.runEngine(ctx, "extract", taskID, args, job.Duration); err != nil {
		// A failed extraction leaves nothing worth keeping behind.
		if rmErr := os.RemoveAll(outputDir); rmErr != nil {
			logging.Warn("failed to remove frame directory %s: %v", outputDir, rmErr)
		}
		return nil, err
	}

	frames, err := o.enumerateFrames(outputDir, job)
	if err != nil {
		return nil, err
	}

	return &ExtractResult{Frames: frames, TaskID: taskID}, nil
}

// Normalize re-encodes an arbitrary downloaded container into the
// browser-compatible H.264/AAC fast-start profile. On engine failure
// with the degrade policy enabled, the raw file is renamed into the
// output slot instead: best effort beats no file.
func (o *Orchestrator) Normalize(ctx context.Context, rawPath, outputPath string) error {
	taskID := tasks.NewTaskID("normalize")

	// Progress totals come from probing the raw file; a probe failure
	// only costs progress reporting, not the job.
	total, err := o.Probe(ctx, rawPath)
	if err != nil {
		logging.Debug("normalize: probe failed for %s: %v", rawPath, err)
		total = 0
	}

	args := []string{
		"-i", rawPath,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-movflags", "+faststart",
		"-preset", "fast",
		"-crf", "23",
		"-y", outputPath,
	}

	if err := o.runEngine(ctx, "normalize", taskID, args, total); err != nil {
		if !o.degradeOnNormalizeFailure {
			return err
		}

		logging.Warn("normalize failed for %s, falling back to raw file: %v", rawPath, err)
		if renameErr := os.Rename(rawPath, outputPath); renameErr != nil {
			return fmt.Errorf("normalize fallback rename failed: %w", renameErr)
		}
		metrics.NormalizeDegraded.Inc()
	}

	return nil
}

// runEngine runs one ffmpeg invocation under the job gate with full
// task lifecycle: Start before, clamped progress updates during, and
// exactly one of Complete/Fail after.
func (o *Orchestrator) runEngine(ctx context.Context, kind, taskID string, args []string, totalSeconds float64) error {
	if err := o.jobs.Acquire(ctx, 1); err != nil {
		return err
	}
	defer o.jobs.Release(1)

	o.tracker.Start(taskID)
	metrics.JobsActive.Inc()
	defer metrics.JobsActive.Dec()

	start := time.Now()
	parser := newProgressParser(totalSeconds, func(percent float64) {
		o.tracker.Update(taskID, percent)
	})

	fullArgs := append([]string{"-progress", "pipe:1", "-nostats"}, args...)

	logging.Debug("ffmpeg %s job %s: %v", kind, taskID, fullArgs)
	_, err := o.runner.Run(ctx, command.Spec{
		Program:        "ffmpeg",
		Args:           fullArgs,
		OnProgressLine: parser.Line,
	})

	metrics.JobDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	if err != nil {
		o.tracker.Fail(taskID)
		metrics.JobsTotal.WithLabelValues(kind, "error").Inc()
		return &TranscodeError{Kind: kind, Err: err}
	}

	o.tracker.Complete(taskID)
	metrics.JobsTotal.WithLabelValues(kind, "success").Inc()
	return nil
}

// enumerateFrames builds one record per produced frame file. Timestamps
// use the sampling formula, not decoded frame timing.
func (o *Orchestrator) enumerateFrames(outputDir string, job ExtractJob) ([]Frame, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate frames: %w", err)
	}

	dirBase := filepath.Base(outputDir)
	frames := make([]Frame, 0, len(entries))
	for i, entry := range entries {
		if entry.IsDir() {
			continue
		}
		frames = append(frames, Frame{
			ID:        uuid.NewString(),
			Timestamp: frameTimestamp(job, i),
			URL:       fmt.Sprintf("/uploads/%s/%s", dirBase, entry.Name()),
			Selected:  true,
		})
	}
	return frames, nil
}

// samplingFilter derives the fps filter expression for an extract job.
func samplingFilter(job ExtractJob) string {
	if job.Mode == ModeInterval {
		return fmt.Sprintf("fps=1/%s", formatSeconds(job.Interval))
	}

	duration := job.Duration
	if duration <= 0 {
		duration = 1
	}
	return fmt.Sprintf("fps=%s", formatSeconds(float64(job.Count)/duration))
}

// frameTimestamp approximates the source position of frame index i.
func frameTimestamp(job ExtractJob, i int) float64 {
	if job.Mode == ModeInterval {
		return float64(i) * job.Interval
	}
	if job.Count == 0 {
		return 0
	}
	return float64(i) * job.Duration / float64(job.Count)
}

// formatSeconds renders a duration value without trailing zeros, the
// way ffmpeg command lines conventionally carry them.
func formatSeconds(v float64) string {
	return fmt.Sprintf("%g", v)
}

// FramePaths returns the absolute paths of all frame files referenced
// by the records, for session tracking.
func FramePaths(uploadDir string, frames []Frame) []string {
	paths := make([]string, 0, len(frames))
	for _, f := range frames {
		rel, ok := strings.CutPrefix(f.URL, "/uploads/")
		if !ok || rel == "" {
			continue
		}
		paths = append(paths, filepath.Join(uploadDir, rel))
	}
	return paths
}
