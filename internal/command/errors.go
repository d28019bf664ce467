package command

import (
	"errors"
	"fmt"
)

// ToolUnavailableError indicates the external binary could not be
// spawned at all, typically because it is not installed or not on PATH.
type ToolUnavailableError struct {
	Program string
	Err     error
}

func (e *ToolUnavailableError) Error() string {
	return fmt.Sprintf("%s is not available: %v", e.Program, e.Err)
}

func (e *ToolUnavailableError) Unwrap() error {
	return e.Err
}

// ExternalToolError indicates the external binary ran but exited with a
// non-zero status. Stderr is captured for diagnostics.
type ExternalToolError struct {
	Program  string
	ExitCode int
	Stderr   string
}

func (e *ExternalToolError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Program, e.ExitCode)
}

// IsToolUnavailable reports whether err wraps a ToolUnavailableError.
func IsToolUnavailable(err error) bool {
	var unavailable *ToolUnavailableError
	return errors.As(err, &unavailable)
}
