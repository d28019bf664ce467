package transcoder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"media-clipper/internal/command"
	"media-clipper/internal/tasks"
)

type fakeRunner struct {
	specs []command.Spec
	run   func(ctx context.Context, spec command.Spec) (command.Result, error)
}

func (f *fakeRunner) Run(ctx context.Context, spec command.Spec) (command.Result, error) {
	f.specs = append(f.specs, spec)
	if f.run != nil {
		return f.run(ctx, spec)
	}
	return command.Result{}, nil
}

func hasArgPair(args []string, key, value string) bool {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == key && args[i+1] == value {
			return true
		}
	}
	return false
}

func hasArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

// outputPattern finds the frame output pattern in an extract invocation.
func outputPattern(args []string) string {
	for _, a := range args {
		if strings.Contains(a, "frame-%03d.png") {
			return a
		}
	}
	return ""
}

func newTestOrchestrator(t *testing.T, runner command.Runner, degrade bool) (*Orchestrator, *tasks.Tracker, string) {
	t.Helper()
	dir := t.TempDir()
	tracker := tasks.NewTracker()
	return New(runner, tracker, dir, 2, degrade), tracker, dir
}

func TestTrimBuildsExpectedCommand(t *testing.T) {
	runner := &fakeRunner{}
	orch, tracker, dir := newTestOrchestrator(t, runner, false)

	result, err := orch.Trim(context.Background(), TrimJob{
		InputPath: filepath.Join(dir, "1712-clip.mp4"),
		StartTime: 2,
		Duration:  3,
	})
	if err != nil {
		t.Fatalf("Trim returned error: %v", err)
	}

	if len(runner.specs) != 1 {
		t.Fatalf("Expected 1 invocation, got %d", len(runner.specs))
	}
	spec := runner.specs[0]

	if spec.Program != "ffmpeg" {
		t.Errorf("Expected program ffmpeg, got %s", spec.Program)
	}
	if !hasArgPair(spec.Args, "-ss", "2") {
		t.Errorf("Expected -ss 2 in args: %v", spec.Args)
	}
	if !hasArgPair(spec.Args, "-t", "3") {
		t.Errorf("Expected -t 3 in args: %v", spec.Args)
	}
	if !hasArgPair(spec.Args, "-c:v", "libx264") {
		t.Errorf("Expected -c:v libx264 in args: %v", spec.Args)
	}
	if !hasArgPair(spec.Args, "-preset", "ultrafast") {
		t.Errorf("Expected -preset ultrafast in args: %v", spec.Args)
	}
	if !hasArgPair(spec.Args, "-progress", "pipe:1") {
		t.Errorf("Expected -progress pipe:1 in args: %v", spec.Args)
	}
	if spec.OnProgressLine == nil {
		t.Error("Expected a progress line handler")
	}

	if !strings.HasPrefix(result.Filename, "trimmed-") {
		t.Errorf("Expected trimmed- output name, got %s", result.Filename)
	}
	if !strings.HasSuffix(result.Filename, "1712-clip.mp4") {
		t.Errorf("Expected original name suffix, got %s", result.Filename)
	}
	if !strings.HasPrefix(result.TaskID, "trim-") {
		t.Errorf("Expected trim- task id, got %s", result.TaskID)
	}

	progress, ok := tracker.Progress(result.TaskID)
	if !ok || progress != 100 {
		t.Errorf("Expected task complete at 100, got %f (known=%v)", progress, ok)
	}
}

func TestTrimAudioDropsVideoFlags(t *testing.T) {
	runner := &fakeRunner{}
	orch, _, dir := newTestOrchestrator(t, runner, false)

	_, err := orch.Trim(context.Background(), TrimJob{
		InputPath: filepath.Join(dir, "song.mp3"),
		StartTime: 0,
		Duration:  5,
		IsAudio:   true,
	})
	if err != nil {
		t.Fatalf("Trim returned error: %v", err)
	}

	args := runner.specs[0].Args
	if !hasArg(args, "-vn") {
		t.Errorf("Expected -vn for audio trim: %v", args)
	}
	if hasArgPair(args, "-c:v", "libx264") {
		t.Errorf("Audio trim must not carry video codec flags: %v", args)
	}
}

func TestTrimFailureRemovesTask(t *testing.T) {
	runner := &fakeRunner{
		run: func(_ context.Context, _ command.Spec) (command.Result, error) {
			return command.Result{ExitCode: 1}, &command.ExternalToolError{Program: "ffmpeg", ExitCode: 1}
		},
	}
	orch, _, dir := newTestOrchestrator(t, runner, false)

	_, err := orch.Trim(context.Background(), TrimJob{
		InputPath: filepath.Join(dir, "clip.mp4"),
		Duration:  3,
	})
	if err == nil {
		t.Fatal("Expected error from failed trim")
	}

	var transcodeErr *TranscodeError
	if !errors.As(err, &transcodeErr) {
		t.Fatalf("Expected *TranscodeError, got %T", err)
	}
	if transcodeErr.Kind != "trim" {
		t.Errorf("Expected kind trim, got %s", transcodeErr.Kind)
	}
}

func TestExtractFramesCountMode(t *testing.T) {
	runner := &fakeRunner{
		run: func(_ context.Context, spec command.Spec) (command.Result, error) {
			if spec.Program != "ffmpeg" {
				return command.Result{}, nil
			}
			dir := filepath.Dir(outputPattern(spec.Args))
			for i := 1; i <= 10; i++ {
				name := filepath.Join(dir, fmt.Sprintf("frame-%03d.png", i))
				if err := os.WriteFile(name, []byte("png"), 0o644); err != nil {
					return command.Result{}, err
				}
			}
			return command.Result{}, nil
		},
	}
	orch, _, dir := newTestOrchestrator(t, runner, false)

	result, err := orch.ExtractFrames(context.Background(), ExtractJob{
		InputPath: filepath.Join(dir, "clip.mp4"),
		Mode:      ModeCount,
		Count:     10,
		Duration:  100,
	})
	if err != nil {
		t.Fatalf("ExtractFrames returned error: %v", err)
	}

	args := runner.specs[0].Args
	if !hasArgPair(args, "-vf", "fps=0.1,scale=480:-1") {
		t.Errorf("Expected fps=0.1,scale=480:-1 filter: %v", args)
	}

	if len(result.Frames) != 10 {
		t.Fatalf("Expected 10 frames, got %d", len(result.Frames))
	}
	for i, frame := range result.Frames {
		want := float64(i) * 10
		if frame.Timestamp != want {
			t.Errorf("frame[%d].Timestamp = %f, want %f", i, frame.Timestamp, want)
		}
		if !strings.HasPrefix(frame.URL, "/uploads/frames-") {
			t.Errorf("frame[%d].URL = %s, want /uploads/frames- prefix", i, frame.URL)
		}
		if !frame.Selected {
			t.Errorf("frame[%d] should be selected by default", i)
		}
		if frame.ID == "" {
			t.Errorf("frame[%d] has empty id", i)
		}
	}
}

func TestExtractFramesIntervalMode(t *testing.T) {
	runner := &fakeRunner{
		run: func(_ context.Context, spec command.Spec) (command.Result, error) {
			dir := filepath.Dir(outputPattern(spec.Args))
			// 23s asset sampled every 5s: five frames, remainder dropped.
			for i := 1; i <= 5; i++ {
				name := filepath.Join(dir, fmt.Sprintf("frame-%03d.png", i))
				if err := os.WriteFile(name, []byte("png"), 0o644); err != nil {
					return command.Result{}, err
				}
			}
			return command.Result{}, nil
		},
	}
	orch, _, dir := newTestOrchestrator(t, runner, false)

	result, err := orch.ExtractFrames(context.Background(), ExtractJob{
		InputPath: filepath.Join(dir, "clip.mp4"),
		Mode:      ModeInterval,
		Interval:  5,
		Duration:  23,
	})
	if err != nil {
		t.Fatalf("ExtractFrames returned error: %v", err)
	}

	args := runner.specs[0].Args
	if !hasArgPair(args, "-vf", "fps=1/5,scale=480:-1") {
		t.Errorf("Expected fps=1/5,scale=480:-1 filter: %v", args)
	}

	want := []float64{0, 5, 10, 15, 20}
	if len(result.Frames) != len(want) {
		t.Fatalf("Expected %d frames, got %d", len(want), len(result.Frames))
	}
	for i, frame := range result.Frames {
		if frame.Timestamp != want[i] {
			t.Errorf("frame[%d].Timestamp = %f, want %f", i, frame.Timestamp, want[i])
		}
	}
}

func TestExtractFailureRemovesDirectory(t *testing.T) {
	runner := &fakeRunner{
		run: func(_ context.Context, _ command.Spec) (command.Result, error) {
			return command.Result{ExitCode: 1}, &command.ExternalToolError{Program: "ffmpeg", ExitCode: 1}
		},
	}
	orch, _, dir := newTestOrchestrator(t, runner, false)

	_, err := orch.ExtractFrames(context.Background(), ExtractJob{
		InputPath: filepath.Join(dir, "clip.mp4"),
		Mode:      ModeInterval,
		Interval:  5,
		Duration:  23,
	})
	if err == nil {
		t.Fatal("Expected error from failed extraction")
	}

	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "frames-") {
			t.Errorf("Expected transient frame directory to be removed, found %s", entry.Name())
		}
	}
}

func TestNormalizeSuccess(t *testing.T) {
	runner := &fakeRunner{
		run: func(_ context.Context, spec command.Spec) (command.Result, error) {
			if spec.Program == "ffprobe" {
				return command.Result{Stdout: "12.5\n"}, nil
			}
			return command.Result{}, nil
		},
	}
	orch, _, dir := newTestOrchestrator(t, runner, true)

	raw := filepath.Join(dir, "yt-raw-1.mp4")
	out := filepath.Join(dir, "yt-1.mp4")
	if err := orch.Normalize(context.Background(), raw, out); err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	// ffprobe then ffmpeg
	if len(runner.specs) != 2 {
		t.Fatalf("Expected 2 invocations, got %d", len(runner.specs))
	}
	args := runner.specs[1].Args
	if !hasArgPair(args, "-movflags", "+faststart") {
		t.Errorf("Expected faststart layout: %v", args)
	}
	if !hasArgPair(args, "-preset", "fast") {
		t.Errorf("Expected fast preset: %v", args)
	}
	if !hasArgPair(args, "-c:a", "aac") {
		t.Errorf("Expected aac audio: %v", args)
	}
}

func TestNormalizeDegradesToRawFile(t *testing.T) {
	runner := &fakeRunner{
		run: func(_ context.Context, spec command.Spec) (command.Result, error) {
			if spec.Program == "ffprobe" {
				return command.Result{Stdout: "12.5\n"}, nil
			}
			return command.Result{ExitCode: 1}, &command.ExternalToolError{Program: "ffmpeg", ExitCode: 1}
		},
	}
	orch, _, dir := newTestOrchestrator(t, runner, true)

	raw := filepath.Join(dir, "yt-raw-1.mp4")
	out := filepath.Join(dir, "yt-1.mp4")
	if err := os.WriteFile(raw, []byte("raw video"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := orch.Normalize(context.Background(), raw, out); err != nil {
		t.Fatalf("Expected degraded success, got error: %v", err)
	}

	if _, err := os.Stat(out); err != nil {
		t.Error("Expected raw file renamed into output slot")
	}
	if _, err := os.Stat(raw); !os.IsNotExist(err) {
		t.Error("Expected raw file to be gone after rename")
	}
}

func TestNormalizeWithoutDegradePolicy(t *testing.T) {
	runner := &fakeRunner{
		run: func(_ context.Context, spec command.Spec) (command.Result, error) {
			if spec.Program == "ffprobe" {
				return command.Result{Stdout: "12.5\n"}, nil
			}
			return command.Result{ExitCode: 1}, &command.ExternalToolError{Program: "ffmpeg", ExitCode: 1}
		},
	}
	orch, _, dir := newTestOrchestrator(t, runner, false)

	err := orch.Normalize(context.Background(), filepath.Join(dir, "raw.mp4"), filepath.Join(dir, "out.mp4"))
	if err == nil {
		t.Fatal("Expected error when the degrade policy is disabled")
	}
}

func TestProbe(t *testing.T) {
	runner := &fakeRunner{
		run: func(_ context.Context, spec command.Spec) (command.Result, error) {
			if spec.Program != "ffprobe" {
				t.Errorf("Expected ffprobe, got %s", spec.Program)
			}
			return command.Result{Stdout: "42.75\n"}, nil
		},
	}
	orch, _, _ := newTestOrchestrator(t, runner, false)

	duration, err := orch.Probe(context.Background(), "/tmp/clip.mp4")
	if err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}
	if duration != 42.75 {
		t.Errorf("Expected duration 42.75, got %f", duration)
	}
}

func TestProbeUnparseable(t *testing.T) {
	runner := &fakeRunner{
		run: func(_ context.Context, _ command.Spec) (command.Result, error) {
			return command.Result{Stdout: "N/A\n"}, nil
		},
	}
	orch, _, _ := newTestOrchestrator(t, runner, false)

	if _, err := orch.Probe(context.Background(), "/tmp/clip.mp4"); err == nil {
		t.Fatal("Expected error for unparseable duration")
	}
}

func TestProgressParser(t *testing.T) {
	var got []float64
	parser := newProgressParser(10, func(p float64) { got = append(got, p) })

	parser.Line("frame=12")
	parser.Line("out_time_us=5000000")
	parser.Line("out_time_ms=7500000")
	parser.Line("not a progress line")
	parser.Line("progress=end")

	want := []float64{50, 75, 100}
	if len(got) != len(want) {
		t.Fatalf("Expected %d callbacks, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("callback[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestProgressParserZeroTotal(t *testing.T) {
	called := false
	parser := newProgressParser(0, func(float64) { called = true })
	parser.Line("out_time_us=5000000")

	if called {
		t.Error("Parser with unknown total must not emit percentages")
	}
}

func TestFramePaths(t *testing.T) {
	frames := []Frame{
		{URL: "/uploads/frames-1/frame-001.png"},
		{URL: "/uploads/frames-1/frame-002.png"},
		{URL: "bogus"},
	}

	paths := FramePaths("/scratch", frames)
	if len(paths) != 2 {
		t.Fatalf("Expected 2 paths, got %d", len(paths))
	}
	if paths[0] != filepath.Join("/scratch", "frames-1", "frame-001.png") {
		t.Errorf("Unexpected path: %s", paths[0])
	}
}
