// Package mediatypes provides file-extension based classification of
// media files into broad kinds (video, audio, image).
//
// The classification is intentionally shallow: it is used for upload
// validation and for choosing audio-only codec flags on trim jobs, not
// for container inspection. Anything deeper goes through ffprobe.
package mediatypes
