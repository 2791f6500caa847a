// Package domain defines core business entities and value objects for nlsh.
// The domain layer is independent of infrastructure concerns.
package domain

// ProviderKind tags which chat API implementation serves a model.
type ProviderKind string

const (
	ProviderKindAnthropic ProviderKind = "anthropic"
	ProviderKindOpenAI    ProviderKind = "openai"
	ProviderKindOllama    ProviderKind = "ollama"
)

// ModelDefinition describes a chat model configuration declared in the
// config file.
type ModelDefinition struct {
	Name       string       `yaml:"name"`
	Provider   ProviderKind `yaml:"provider"`
	Endpoint   string       `yaml:"endpoint,omitempty"`
	AuthEnvVar string       `yaml:"auth_env_var,omitempty"`
	ModelID    string       `yaml:"model_id"`
	MaxTokens  int          `yaml:"max_tokens,omitempty"`
}

// ChatMessage follows the role/content pair required by chat APIs.
type ChatMessage struct {
	Role    string `yaml:"role" json:"role"`
	Content string `yaml:"content" json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
