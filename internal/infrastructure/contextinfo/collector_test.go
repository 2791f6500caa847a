package contextinfo

import (
	"context"
	"testing"

	"github.com/nlshell/nlsh/internal/domain"
)

func TestCollectPopulatesBasics(t *testing.T) {
	collector := NewCollector()

	snapshot, err := collector.Collect(context.Background(), domain.Config{})
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if snapshot.WorkingDir == "" {
		t.Fatal("working directory missing")
	}
	if snapshot.OS == "" {
		t.Fatal("OS missing")
	}
	if snapshot.Shell == "" {
		t.Fatal("shell missing")
	}
}

func TestDetectShell(t *testing.T) {
	cfg := domain.Config{Execution: domain.ExecutionSettings{Shell: "/bin/fish"}}
	if got := detectShell(cfg); got != "/bin/fish" {
		t.Fatalf("shell = %s, want configured value", got)
	}

	t.Setenv("SHELL", "/usr/bin/zsh")
	if got := detectShell(domain.Config{}); got != "zsh" {
		t.Fatalf("shell = %s, want basename of $SHELL", got)
	}

	t.Setenv("SHELL", "")
	if got := detectShell(domain.Config{Execution: domain.ExecutionSettings{Shell: "auto"}}); got != "sh" {
		t.Fatalf("shell = %s, want sh fallback", got)
	}
}

func TestCollectGitOutsideRepo(t *testing.T) {
	if status := collectGit(context.Background(), t.TempDir()); status != nil {
		t.Fatalf("expected nil outside a repository, got %+v", status)
	}
}
