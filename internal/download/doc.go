// Package download resolves remote URLs into local media assets.
//
// URLs on known video-platform domains go through an ordered fallback
// chain of external tools (yt-dlp, then youtube-dl) followed by a
// normalization transcode; everything else is streamed directly over
// HTTP with a bounded redirect count and no normalization.
package download
