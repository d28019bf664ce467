package mediatypes

import (
	"path/filepath"
	"strings"
)

// Kind represents the broad media category of a file.
type Kind string

const (
	// KindVideo represents a video file.
	KindVideo Kind = "video"
	// KindAudio represents an audio-only file.
	KindAudio Kind = "audio"
	// KindImage represents a still-image file.
	KindImage Kind = "image"
	// KindOther represents an unknown or unsupported file type.
	KindOther Kind = "other"
)

// VideoExtensions maps file extensions to whether they are supported video formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
	".ts":   true,
}

// AudioExtensions maps file extensions to whether they are supported audio formats.
var AudioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".aac":  true,
	".m4a":  true,
	".ogg":  true,
	".oga":  true,
	".opus": true,
	".wma":  true,
}

// ImageExtensions maps file extensions to whether they are supported image formats.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// Classify returns the media kind for a filename based on its extension.
func Classify(filename string) Kind {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case VideoExtensions[ext]:
		return KindVideo
	case AudioExtensions[ext]:
		return KindAudio
	case ImageExtensions[ext]:
		return KindImage
	default:
		return KindOther
	}
}

// IsMedia reports whether the filename looks like an uploadable media file.
func IsMedia(filename string) bool {
	return Classify(filename) != KindOther
}
