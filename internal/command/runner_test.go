package command

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-based tests require a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found in PATH")
	}
}

func TestRunCapturesOutput(t *testing.T) {
	requireShell(t)

	runner := NewExecRunner()
	result, err := runner.Run(context.Background(), Spec{
		Program: "sh",
		Args:    []string{"-c", "echo out; echo err 1>&2"},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if result.ExitCode != 0 {
		t.Errorf("Expected exit code 0, got %d", result.ExitCode)
	}
	if result.Stdout != "out\n" {
		t.Errorf("Expected stdout %q, got %q", "out\n", result.Stdout)
	}
	if result.Stderr != "err\n" {
		t.Errorf("Expected stderr %q, got %q", "err\n", result.Stderr)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	requireShell(t)

	runner := NewExecRunner()
	result, err := runner.Run(context.Background(), Spec{
		Program: "sh",
		Args:    []string{"-c", "echo boom 1>&2; exit 3"},
	})
	if err == nil {
		t.Fatal("Expected error for non-zero exit")
	}

	var toolErr *ExternalToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("Expected *ExternalToolError, got %T: %v", err, err)
	}
	if toolErr.ExitCode != 3 {
		t.Errorf("Expected exit code 3, got %d", toolErr.ExitCode)
	}
	if toolErr.Program != "sh" {
		t.Errorf("Expected program sh, got %s", toolErr.Program)
	}
	if toolErr.Stderr != "boom\n" {
		t.Errorf("Expected stderr captured, got %q", toolErr.Stderr)
	}
	if result.ExitCode != 3 {
		t.Errorf("Expected result exit code 3, got %d", result.ExitCode)
	}
}

func TestRunMissingBinary(t *testing.T) {
	runner := NewExecRunner()
	_, err := runner.Run(context.Background(), Spec{
		Program: "definitely-not-a-real-binary-name",
	})
	if err == nil {
		t.Fatal("Expected error for missing binary")
	}

	var unavailable *ToolUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("Expected *ToolUnavailableError, got %T: %v", err, err)
	}
	if unavailable.Program != "definitely-not-a-real-binary-name" {
		t.Errorf("Unexpected program name: %s", unavailable.Program)
	}
	if !IsToolUnavailable(err) {
		t.Error("IsToolUnavailable should report true")
	}
}

func TestRunProgressLines(t *testing.T) {
	requireShell(t)

	var lines []string
	runner := NewExecRunner()
	_, err := runner.Run(context.Background(), Spec{
		Program: "sh",
		Args:    []string{"-c", "echo one; echo two"},
		OnProgressLine: func(line string) {
			lines = append(lines, line)
		},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(lines) != 2 || lines[0] != "one" || lines[1] != "two" {
		t.Errorf("Expected progress lines [one two], got %v", lines)
	}
}

func TestRunContextCancel(t *testing.T) {
	requireShell(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewExecRunner()
	_, err := runner.Run(ctx, Spec{
		Program: "sh",
		Args:    []string{"-c", "sleep 10"},
	})
	if err == nil {
		t.Fatal("Expected error for cancelled context")
	}
}

func TestIsToolUnavailableFalse(t *testing.T) {
	err := &ExternalToolError{Program: "ffmpeg", ExitCode: 1}
	if IsToolUnavailable(err) {
		t.Error("IsToolUnavailable should report false for ExternalToolError")
	}
}
