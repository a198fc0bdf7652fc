package exiftool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Result captures the streams and exit status of one exiftool invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes exiftool with the provided arguments. A returned error means
// the process could not be run to completion (missing binary, cancellation,
// timeout); a non-zero exit status alone is not an error.
type Runner interface {
	Run(ctx context.Context, args []string) (Result, error)
}

// CommandRunner runs the configured exiftool binary as a subprocess.
type CommandRunner struct {
	binary  string
	timeout time.Duration
}

// NewCommandRunner constructs a runner. A zero timeout disables the per-call deadline.
func NewCommandRunner(binary string, timeout time.Duration) *CommandRunner {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "exiftool"
	}
	return &CommandRunner{binary: binary, timeout: timeout}
}

// Binary returns the executable invoked by the runner.
func (r *CommandRunner) Binary() string {
	return r.binary
}

// Run implements Runner.
func (r *CommandRunner) Run(ctx context.Context, args []string) (Result, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.binary, args...) //nolint:gosec
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		result.ExitCode = -1
		return result, fmt.Errorf("exiftool interrupted: %w", ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	result.ExitCode = -1
	return result, fmt.Errorf("run %s: %w", r.binary, err)
}
