package ai

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/nlshell/nlsh/internal/domain"
	"github.com/nlshell/nlsh/internal/ports"
)

type anthropicProvider struct {
	client anthropic.Client
	model  domain.ModelDefinition
}

func newAnthropicProvider(model domain.ModelDefinition, apiKey string) ports.ChatProvider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if model.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(model.Endpoint))
	}
	return &anthropicProvider{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (p *anthropicProvider) Name() string {
	return "anthropic"
}

func (p *anthropicProvider) Chat(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	var system []anthropic.TextBlockParam
	var chat []anthropic.MessageParam

	for _, msg := range messages {
		switch msg.Role {
		case domain.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case domain.RoleAssistant:
			chat = append(chat, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			chat = append(chat, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model.ModelID),
		Messages:  chat,
		MaxTokens: int64(maxTokensOrDefault(p.model.MaxTokens)),
	}
	if len(system) > 0 {
		params.System = system
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.AsText().Text
		}
	}
	return content, nil
}

var _ ports.ChatProvider = (*anthropicProvider)(nil)
