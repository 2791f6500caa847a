package executor

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func newQuietExecutor() *LocalExecutor {
	e := NewLocalExecutor("/bin/sh")
	e.stdout = io.Discard
	e.stderr = io.Discard
	return e
}

func TestRunCapturesOutput(t *testing.T) {
	e := newQuietExecutor()

	result, err := e.Run(context.Background(), "echo hello; echo oops >&2")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.ExitCode != 0 {
		t.Fatalf("exit code = %d", result.ExitCode)
	}
	if strings.TrimSpace(result.Stdout) != "hello" {
		t.Fatalf("stdout = %q", result.Stdout)
	}
	if strings.TrimSpace(result.Stderr) != "oops" {
		t.Fatalf("stderr = %q", result.Stderr)
	}
}

func TestRunNonZeroExitIsNotAnError(t *testing.T) {
	e := newQuietExecutor()

	result, err := e.Run(context.Background(), "exit 3")
	if err != nil {
		t.Fatalf("Run() error = %v, non-zero exit must not be an error", err)
	}
	if result.ExitCode != 3 {
		t.Fatalf("exit code = %d, want 3", result.ExitCode)
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	e := newQuietExecutor()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	result, _ := e.Run(ctx, "sleep 5")
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("cancelled command ran for %v", elapsed)
	}
	if result.ExitCode == 0 {
		t.Fatal("killed command must not report success")
	}
}

func TestShellResolution(t *testing.T) {
	if e := NewLocalExecutor("/bin/bash"); e.shell != "/bin/bash" {
		t.Fatalf("shell = %s, want explicit value", e.shell)
	}

	t.Setenv("SHELL", "/bin/zsh")
	if e := NewLocalExecutor("auto"); e.shell != "/bin/zsh" {
		t.Fatalf("shell = %s, want $SHELL for auto", e.shell)
	}

	t.Setenv("SHELL", "")
	if e := NewLocalExecutor(""); e.shell != "/bin/sh" {
		t.Fatalf("shell = %s, want /bin/sh fallback", e.shell)
	}
}
