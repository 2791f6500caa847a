package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/nlshell/nlsh/internal/domain"
	"github.com/nlshell/nlsh/internal/ports"
)

// ollamaProvider speaks the OpenAI-compatible chat-completions wire format
// against a local or self-hosted endpoint.
type ollamaProvider struct {
	model      domain.ModelDefinition
	httpClient *http.Client
}

func newOllamaProvider(model domain.ModelDefinition, client *http.Client) ports.ChatProvider {
	return &ollamaProvider{model: model, httpClient: client}
}

func (p *ollamaProvider) Name() string {
	return "ollama"
}

type chatCompletionRequest struct {
	Model     string               `json:"model"`
	Messages  []domain.ChatMessage `json:"messages"`
	MaxTokens int                  `json:"max_tokens,omitempty"`
	Stream    bool                 `json:"stream"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message domain.ChatMessage `json:"message"`
	} `json:"choices"`
}

func (r chatCompletionResponse) firstMessage() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Choices[0].Message.Content)
}

func (p *ollamaProvider) Chat(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:     p.model.ModelID,
		Messages:  messages,
		MaxTokens: maxTokensOrDefault(p.model.MaxTokens),
	})
	if err != nil {
		return "", err
	}

	endpoint := p.model.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:11434/v1/chat/completions"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("content-type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("ollama: %s", resp.Status)
	}

	var parsed chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("ollama: decode response: %w", err)
	}
	return parsed.firstMessage(), nil
}

var _ ports.ChatProvider = (*ollamaProvider)(nil)
