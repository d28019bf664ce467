package download

import "fmt"

// InstallHint is the remediation suggested when no platform download
// tool can be found.
const InstallHint = "Install with: pip install yt-dlp"

// Error indicates a direct URL fetch failed (network error or a non-2xx
// final status).
type Error struct {
	URL string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to download from URL: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NoToolError indicates every tool in the platform download chain was
// unavailable or failed. Hint carries an actionable install suggestion.
type NoToolError struct {
	Hint string
}

func (e *NoToolError) Error() string {
	return "no download tool available"
}

// InvalidURLError indicates the request URL could not be parsed.
type InvalidURLError struct {
	URL string
	Err error
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid URL %q: %v", e.URL, e.Err)
}

func (e *InvalidURLError) Unwrap() error {
	return e.Err
}
