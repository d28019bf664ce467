// Package workers calculates sensible concurrency limits from the
// available CPU count, used to default the transcoding-job gate.
package workers
