// Package transcoder orchestrates ffmpeg jobs: trimming clips,
// extracting still-frame sequences, and normalizing downloaded files
// into a browser-compatible H.264/AAC profile.
//
// Every job registers a progress task before the engine starts and
// reports completion or failure exactly once. Engine progress events
// (-progress pipe:1) are parsed and forwarded to the task tracker,
// clamped to [0,99] while the job runs.
//
// ffmpeg and ffprobe must be installed and available on PATH.
package transcoder
