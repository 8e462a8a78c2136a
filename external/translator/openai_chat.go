package translator

import (
	"context"
	"log/slog"

	"github.com/foxseedlab/tsuyaku/internal/translator"
	"github.com/sashabaranov/go-openai"
)

type ChatConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	TargetLanguage string
	Temperature    float32
	MaxTokens      int
}

type ChatTranslator struct {
	client      *openai.Client
	model       string
	instruction string
	temperature float32
	maxTokens   int
}

func NewChatTranslator(cfg ChatConfig) translator.Translator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &ChatTranslator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		instruction: translator.SystemInstruction(cfg.TargetLanguage),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// Translate returns the first choice's content, or "" when the model returns no choices.
func (t *ChatTranslator) Translate(ctx context.Context, text string) (string, error) {
	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: t.instruction},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: t.temperature,
		MaxTokens:   t.maxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		slog.Warn("translation returned no choices", "model", t.model)
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
