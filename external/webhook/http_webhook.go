package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/foxseedlab/tsuyaku/internal/webhook"
)

const (
	webhookRequestTimeout = 10 * time.Second

	headerConnectionID   = "X-Tsuyaku-Connection-Id"
	headerTargetLanguage = "X-Tsuyaku-Target-Language"
)

var errMissingConnectionID = errors.New("translation webhook payload has no connection id")

type HTTPSender struct {
	webhookURL string
	client     *http.Client
}

func NewHTTPSender(webhookURL string) webhook.Sender {
	return &HTTPSender{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: webhookRequestTimeout},
	}
}

// SendTranslation posts one translation result. Results with an empty translation
// are not mirrored; receivers only ever see text a client was shown.
func (s *HTTPSender) SendTranslation(ctx context.Context, payload webhook.TranslationWebhookPayload) error {
	if s.webhookURL == "" || payload.Translation == "" {
		return nil
	}
	if payload.ConnectionID == "" {
		return errMissingConnectionID
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode translation payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerConnectionID, payload.ConnectionID)
	req.Header.Set(headerTargetLanguage, payload.TargetLanguage)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return fmt.Errorf("translation webhook for connection %s returned status %d", payload.ConnectionID, resp.StatusCode)
	}
	return nil
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
