package webhook

import (
	"context"
	"time"
)

type TranslationWebhookPayload struct {
	ConnectionID   string    `json:"connection_id"`
	Text           string    `json:"text"`
	Translation    string    `json:"translation"`
	SourceLanguage string    `json:"source_language"`
	TargetLanguage string    `json:"target_language"`
	TranslatedAt   time.Time `json:"translated_at"`
}

type Sender interface {
	SendTranslation(ctx context.Context, payload TranslationWebhookPayload) error
}
