package transcriber

import (
	"context"
	"log/slog"
	"strings"

	"github.com/foxseedlab/tsuyaku/internal/transcriber"
	"github.com/sashabaranov/go-openai"
)

type WhisperConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type WhisperTranscriber struct {
	client *openai.Client
	model  string
}

func NewWhisperTranscriber(cfg WhisperConfig) transcriber.Transcriber {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = openai.Whisper1
	}
	return &WhisperTranscriber{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

// Transcribe returns the plain-text transcript with surrounding whitespace removed.
// Errors from the API are returned unwrapped so their text reaches the caller intact.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	slog.Debug("requesting whisper transcription", "model", t.model, "language", language, "path", audioPath)
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: audioPath,
		Language: language,
		Format:   openai.AudioResponseFormatText,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}
