// Package command executes external tools (ffmpeg, ffprobe, yt-dlp,
// youtube-dl) with captured output and typed failure classification.
//
// Spawn failures (binary missing) surface as *ToolUnavailableError so
// callers can fall through an ordered tool chain; non-zero exits surface
// as *ExternalToolError carrying the exit code and stderr.
package command
