// Package ports defines the interfaces between the application core and the
// external adapters (infrastructure). The application depends only on these
// abstractions, never on a concrete provider, store, or terminal.
package ports

import (
	"context"

	"github.com/nlshell/nlsh/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.nlsh/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ContextCollector gathers environmental context (cwd, shell, tools, git)
// to enrich generation prompts.
type ContextCollector interface {
	Collect(context.Context, domain.Config) (domain.ContextSnapshot, error)
}

// ProviderFactory builds chat providers based on model definitions.
type ProviderFactory interface {
	ForModel(domain.ModelDefinition) (ChatProvider, error)
}

// ChatProvider is the single contract every LLM backend implements: given a
// list of role-tagged messages, return completion text.
type ChatProvider interface {
	Name() string
	Chat(ctx context.Context, messages []domain.ChatMessage) (string, error)
}

// Extractor turns raw model text into a clean command candidate.
type Extractor interface {
	Extract(raw string) (domain.GeneratedCommand, error)
}

// Verifier runs the structured judgment for a command/query pair, including
// the informational-response detection. It degrades instead of failing: a
// flaky judge never blocks display.
type Verifier interface {
	Verify(ctx context.Context, command, query string, snapshot domain.ContextSnapshot, threshold int) domain.VerificationOutcome
}

// VerifierFactory binds a verifier to the provider chosen for this query, so
// judgment calls ride the same backend as generation.
type VerifierFactory interface {
	ForProvider(ChatProvider) Verifier
}

// SecurityService scores a command against the severity rule table.
type SecurityService interface {
	Classify(command string) domain.SeverityCheck
}

// CommandExecutor runs shell commands, streaming output live while
// capturing it.
type CommandExecutor interface {
	Run(ctx context.Context, command string) (domain.ExecutionResult, error)
}

// Prompter handles interactive questions. The core is agnostic to rendering;
// implementations may use form libraries or plain stdio.
type Prompter interface {
	Confirm(question string, defaultYes bool) (bool, error)
	Choose(question string, options []string, defaultOption string) (string, error)
	Input(question string, prefill string) (string, error)
	Enabled() bool
}

// SessionStore persists per-terminal command history.
type SessionStore interface {
	AddRecord(record domain.SessionRecord) error
	Records(limit int, search string) ([]domain.SessionRecord, error)
	ContextSummary(n int) (string, error)
	Clear() error
}

// Presenter renders pipeline output. The core decides what to show and
// when; the implementation decides how it looks.
type Presenter interface {
	ShowCommand(gen domain.GeneratedCommand, verification domain.VerificationOutcome, severity domain.SeverityCheck)
	ShowInformational(message string, questions []string)
	ShowClarification(issues []string, questions []string)
	ShowExitWarning(exitCode int)
	ShowUpdateNotice(latest string)
}

// UpdateChecker is observed once, non-blocking, after command execution.
type UpdateChecker interface {
	Observe() (latest string, available bool)
}

// Logger provides structured logging for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
