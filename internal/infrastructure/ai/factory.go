// Package ai holds the chat provider adapters plus the model-output
// processing pipeline: extraction, verification and informational detection.
package ai

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/nlshell/nlsh/internal/domain"
	"github.com/nlshell/nlsh/internal/ports"
)

// Factory builds chat providers from model definitions.
type Factory struct {
	httpClient *http.Client
}

func NewFactory() *Factory {
	return &Factory{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// ForModel implements ports.ProviderFactory. Provider selection is by the
// declared provider tag; credential resolution happens here so the adapters
// stay free of environment access.
func (f *Factory) ForModel(model domain.ModelDefinition) (ports.ChatProvider, error) {
	switch model.Provider {
	case domain.ProviderKindAnthropic:
		key, err := resolveAuth(model)
		if err != nil {
			return nil, err
		}
		return newAnthropicProvider(model, key), nil
	case domain.ProviderKindOpenAI:
		key, err := resolveAuth(model)
		if err != nil {
			return nil, err
		}
		return newOpenAIProvider(model, key), nil
	case domain.ProviderKindOllama:
		return newOllamaProvider(model, f.httpClient), nil
	default:
		return nil, fmt.Errorf("unsupported provider kind: %s", model.Provider)
	}
}

func resolveAuth(model domain.ModelDefinition) (string, error) {
	if model.AuthEnvVar == "" {
		return "", fmt.Errorf("model %s: no auth_env_var configured", model.Name)
	}
	key := os.Getenv(model.AuthEnvVar)
	if key == "" {
		return "", fmt.Errorf("model %s: environment variable %s is empty", model.Name, model.AuthEnvVar)
	}
	return key, nil
}

func maxTokensOrDefault(value int) int {
	if value == 0 {
		return 1024
	}
	return value
}

var _ ports.ProviderFactory = (*Factory)(nil)
