package command

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os/exec"

	"media-clipper/internal/logging"
)

// Spec describes one external-tool invocation.
type Spec struct {
	Program string
	Args    []string

	// OnProgressLine, when set, receives each line the tool writes to
	// stdout as it appears. Used for ffmpeg's -progress pipe:1 output.
	// Stdout is not captured into Result while a line handler is set.
	OnProgressLine func(line string)
}

// Result holds the outcome of a completed invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes external tools. The interface exists so that the
// download pipeline and transcode orchestrator can be tested without
// spawning real processes.
type Runner interface {
	Run(ctx context.Context, spec Spec) (Result, error)
}

// ExecRunner runs tools via os/exec.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the spec and blocks until the process exits or ctx is
// cancelled. A missing binary yields *ToolUnavailableError; a non-zero
// exit yields *ExternalToolError with captured stderr.
func (r *ExecRunner) Run(ctx context.Context, spec Spec) (Result, error) {
	cmd := exec.CommandContext(ctx, spec.Program, spec.Args...)

	var stdout, stderr bytes.Buffer
	cmd.Stderr = &stderr

	if spec.OnProgressLine != nil {
		pipe, err := cmd.StdoutPipe()
		if err != nil {
			return Result{}, err
		}

		if err := cmd.Start(); err != nil {
			return Result{}, classifyStartError(spec.Program, err)
		}

		scanner := bufio.NewScanner(pipe)
		for scanner.Scan() {
			spec.OnProgressLine(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			logging.Debug("progress pipe read error for %s: %v", spec.Program, err)
		}

		return finish(spec.Program, cmd, nil, &stderr)
	}

	cmd.Stdout = &stdout
	if err := cmd.Start(); err != nil {
		return Result{}, classifyStartError(spec.Program, err)
	}

	return finish(spec.Program, cmd, &stdout, &stderr)
}

// finish waits for the process and classifies its exit. stdout is nil
// when the output was consumed by a progress scanner.
func finish(program string, cmd *exec.Cmd, stdout, stderr *bytes.Buffer) (Result, error) {
	err := cmd.Wait()

	result := Result{Stderr: stderr.String()}
	if stdout != nil {
		result.Stdout = stdout.String()
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, &ExternalToolError{
				Program:  program,
				ExitCode: exitErr.ExitCode(),
				Stderr:   result.Stderr,
			}
		}
		return result, err
	}

	return result, nil
}

func classifyStartError(program string, err error) error {
	if errors.Is(err, exec.ErrNotFound) {
		return &ToolUnavailableError{Program: program, Err: err}
	}
	return err
}
