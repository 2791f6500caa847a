// Package executor runs approved commands on the host shell, streaming
// output to the terminal while capturing it for history.
package executor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/nlshell/nlsh/internal/domain"
	"github.com/nlshell/nlsh/internal/ports"
)

// LocalExecutor implements the CommandExecutor port.
type LocalExecutor struct {
	shell  string
	stdout io.Writer
	stderr io.Writer
}

// NewLocalExecutor builds a new executor. Shell resolution order:
// explicit argument, $SHELL, /bin/sh.
func NewLocalExecutor(shell string) *LocalExecutor {
	if shell == "" || shell == "auto" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	return &LocalExecutor{shell: shell, stdout: os.Stdout, stderr: os.Stderr}
}

// Run implements ports.CommandExecutor. A non-zero exit code is not an
// error: the result carries the code and the pipeline reports it as a
// warning.
func (e *LocalExecutor) Run(ctx context.Context, command string) (domain.ExecutionResult, error) {
	cmd := exec.CommandContext(ctx, e.shell, "-c", command)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = io.MultiWriter(e.stdout, &stdout)
	cmd.Stderr = io.MultiWriter(e.stderr, &stderr)
	cmd.Stdin = os.Stdin

	start := time.Now()
	err := cmd.Run()
	result := domain.ExecutionResult{
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		DurationMS: time.Since(start).Milliseconds(),
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if err != nil {
		return result, err
	}
	return result, nil
}

var _ ports.CommandExecutor = (*LocalExecutor)(nil)
