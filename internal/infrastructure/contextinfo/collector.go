// Package contextinfo gathers environment data injected into generation
// prompts: working directory, shell, OS, discovered tools and git state.
package contextinfo

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/nlshell/nlsh/internal/domain"
	"github.com/nlshell/nlsh/internal/ports"
)

// Collector implements the ContextCollector port.
type Collector struct {
	tools []domain.ToolInfo
}

func NewCollector() *Collector {
	return &Collector{
		tools: []domain.ToolInfo{
			{Name: "git", Category: "vcs"},
			{Name: "docker", Category: "containers"},
			{Name: "kubectl", Category: "kubernetes"},
			{Name: "npm", Category: "node"},
			{Name: "node", Category: "node"},
			{Name: "python3", Category: "python"},
			{Name: "pip3", Category: "python"},
			{Name: "go", Category: "go"},
			{Name: "cargo", Category: "rust"},
			{Name: "make", Category: "build"},
			{Name: "curl", Category: "network"},
			{Name: "jq", Category: "data"},
		},
	}
}

// Collect implements ports.ContextCollector.
func (c *Collector) Collect(ctx context.Context, cfg domain.Config) (domain.ContextSnapshot, error) {
	wd, _ := os.Getwd()
	return domain.ContextSnapshot{
		WorkingDir:     wd,
		Shell:          detectShell(cfg),
		OS:             runtime.GOOS,
		User:           os.Getenv("USER"),
		AvailableTools: c.availableTools(),
		Git:            collectGit(ctx, wd),
	}, nil
}

func (c *Collector) availableTools() []domain.ToolInfo {
	var available []domain.ToolInfo
	for _, tool := range c.tools {
		if _, err := exec.LookPath(tool.Name); err == nil {
			available = append(available, tool)
		}
	}
	return available
}

func detectShell(cfg domain.Config) string {
	if cfg.Execution.Shell != "" && cfg.Execution.Shell != "auto" {
		return cfg.Execution.Shell
	}
	if shell := os.Getenv("SHELL"); shell != "" {
		return filepath.Base(shell)
	}
	return "sh"
}

func collectGit(ctx context.Context, dir string) *domain.GitStatus {
	branchOut, err := exec.CommandContext(ctx, "git", "-C", dir, "rev-parse", "--abbrev-ref", "HEAD").Output()
	if err != nil {
		return nil
	}
	status := &domain.GitStatus{Branch: strings.TrimSpace(string(branchOut))}

	statusOut, err := exec.CommandContext(ctx, "git", "-C", dir, "status", "--porcelain").Output()
	if err != nil {
		return status
	}
	for _, line := range strings.Split(string(statusOut), "\n") {
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "??") {
			status.UntrackedCount++
			continue
		}
		status.ModifiedCount++
	}
	return status
}

var _ ports.ContextCollector = (*Collector)(nil)
