package transcoder

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"media-clipper/internal/command"
)

// Probe returns the duration of a media file in seconds, via ffprobe.
func (o *Orchestrator) Probe(ctx context.Context, path string) (float64, error) {
	result, err := o.runner.Run(ctx, command.Spec{
		Program: "ffprobe",
		Args: []string{
			"-v", "error",
			"-show_entries", "format=duration",
			"-of", "default=noprint_wrappers=1:nokey=1",
			path,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed for %s: %w", path, err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(result.Stdout), 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable ffprobe duration %q: %w", result.Stdout, err)
	}
	return duration, nil
}
