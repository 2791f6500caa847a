package ai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/nlshell/nlsh/internal/domain"
	"github.com/nlshell/nlsh/internal/ports"
)

type openaiProvider struct {
	client openai.Client
	model  domain.ModelDefinition
}

func newOpenAIProvider(model domain.ModelDefinition, apiKey string) ports.ChatProvider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if model.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(model.Endpoint))
	}
	return &openaiProvider{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (p *openaiProvider) Name() string {
	return "openai"
}

func (p *openaiProvider) Chat(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	chat := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case domain.RoleSystem:
			chat = append(chat, openai.SystemMessage(msg.Content))
		case domain.RoleAssistant:
			chat = append(chat, openai.AssistantMessage(msg.Content))
		default:
			chat = append(chat, openai.UserMessage(msg.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(p.model.ModelID),
		Messages:            chat,
		MaxCompletionTokens: openai.Int(int64(maxTokensOrDefault(p.model.MaxTokens))),
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

var _ ports.ChatProvider = (*openaiProvider)(nil)
