package ai

import (
	"strings"
	"testing"

	"github.com/nlshell/nlsh/internal/domain"
)

func TestGenerationMessages(t *testing.T) {
	snapshot := domain.ContextSnapshot{
		WorkingDir: "/home/dev/project",
		Shell:      "zsh",
		OS:         "linux",
		AvailableTools: []domain.ToolInfo{
			{Name: "git", Category: "vcs"},
			{Name: "jq"},
		},
		Git:            &domain.GitStatus{Branch: "main", ModifiedCount: 2},
		HistorySummary: `- "list files" -> ls (executed, exit 0)`,
	}

	messages, err := GenerationMessages("  show disk usage  ", snapshot)
	if err != nil {
		t.Fatalf("GenerationMessages() error = %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if messages[0].Role != domain.RoleSystem || messages[1].Role != domain.RoleUser {
		t.Fatalf("roles = %s/%s", messages[0].Role, messages[1].Role)
	}

	system := messages[0].Content
	for _, want := range []string{"/home/dev/project", "zsh", "git (vcs)", "jq", "branch main", "list files"} {
		if !strings.Contains(system, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	if messages[1].Content != "show disk usage" {
		t.Fatalf("user message = %q, want trimmed query", messages[1].Content)
	}
}

func TestGenerationMessagesSparseContext(t *testing.T) {
	messages, err := GenerationMessages("list files", domain.ContextSnapshot{WorkingDir: "/tmp", Shell: "sh", OS: "linux"})
	if err != nil {
		t.Fatalf("GenerationMessages() error = %v", err)
	}
	system := messages[0].Content
	for _, absent := range []string{"Available tools", "Git:", "Recent interactions"} {
		if strings.Contains(system, absent) {
			t.Errorf("sparse context should omit %q section", absent)
		}
	}
}

func TestVerificationMessagesIncludeCandidate(t *testing.T) {
	messages, err := verificationMessages("df -h", "show disk usage", domain.ContextSnapshot{OS: "linux", Shell: "bash", WorkingDir: "/tmp"})
	if err != nil {
		t.Fatalf("verificationMessages() error = %v", err)
	}
	if !strings.Contains(messages[1].Content, "df -h") || !strings.Contains(messages[1].Content, "show disk usage") {
		t.Fatalf("user message missing request or command: %q", messages[1].Content)
	}
	if !strings.Contains(messages[0].Content, "confidence") {
		t.Fatal("system prompt must request the verdict schema")
	}
}
