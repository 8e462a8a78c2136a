package transcriber

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cloud.google.com/go/auth/credentials"
	speech "cloud.google.com/go/speech/apiv2"
	speechpb "cloud.google.com/go/speech/apiv2/speechpb"
	"github.com/foxseedlab/tsuyaku/internal/transcriber"
	"google.golang.org/api/option"
)

const (
	speechAPIEndpointPort = 443
	speechLocationGlobal  = "global"
)

type CloudSpeechConfig struct {
	ProjectID       string
	CredentialsJSON string
	Location        string
	Model           string
}

// recognizeFunc is the single Speech API call this adapter needs.
type recognizeFunc func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)

type CloudSpeechTranscriber struct {
	projectID string
	location  string
	model     string
	recognize recognizeFunc
	closeFn   func() error
}

// NewCloudSpeechTranscriber dials the Speech v2 API once and reuses the client for every utterance.
func NewCloudSpeechTranscriber(ctx context.Context, cfg CloudSpeechConfig) (*CloudSpeechTranscriber, error) {
	location := strings.TrimSpace(cfg.Location)
	if location == "" {
		location = speechLocationGlobal
	}

	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		CredentialsJSON: []byte(cfg.CredentialsJSON),
		Scopes:          []string{"https://www.googleapis.com/auth/cloud-platform"},
	})
	if err != nil {
		return nil, fmt.Errorf("detect credentials: %w", err)
	}

	opts := []option.ClientOption{
		option.WithAuthCredentials(creds),
	}
	if location != speechLocationGlobal {
		opts = append(opts, option.WithEndpoint(fmt.Sprintf("%s-speech.googleapis.com:%d", location, speechAPIEndpointPort)))
	}

	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}
	slog.Info("cloud speech client initialized", "location", location, "model", cfg.Model)

	return newCloudSpeechTranscriber(cfg.ProjectID, location, cfg.Model, func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
		return client.Recognize(ctx, req)
	}, client.Close), nil
}

func newCloudSpeechTranscriber(projectID, location, model string, recognize recognizeFunc, closeFn func() error) *CloudSpeechTranscriber {
	return &CloudSpeechTranscriber{
		projectID: projectID,
		location:  location,
		model:     strings.TrimSpace(model),
		recognize: recognize,
		closeFn:   closeFn,
	}
}

func (t *CloudSpeechTranscriber) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	content, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("read staged audio: %w", err)
	}

	req := &speechpb.RecognizeRequest{
		Recognizer: fmt.Sprintf("projects/%s/locations/%s/recognizers/_", t.projectID, t.location),
		Config: &speechpb.RecognitionConfig{
			Model:         t.model,
			LanguageCodes: []string{language},
			DecodingConfig: &speechpb.RecognitionConfig_AutoDecodingConfig{
				AutoDecodingConfig: &speechpb.AutoDetectDecodingConfig{},
			},
			Features: &speechpb.RecognitionFeatures{},
		},
		AudioSource: &speechpb.RecognizeRequest_Content{Content: content},
	}
	slog.Debug("requesting cloud speech recognition", "location", t.location, "model", t.model, "language", language, "bytes", len(content))

	resp, err := t.recognize(ctx, req)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(resp.GetResults()))
	for _, result := range resp.GetResults() {
		if len(result.GetAlternatives()) == 0 {
			continue
		}
		text := strings.TrimSpace(result.GetAlternatives()[0].GetTranscript())
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}

func (t *CloudSpeechTranscriber) Close() error {
	if t.closeFn == nil {
		return nil
	}
	return t.closeFn()
}

// Shutdown is called by the injector on process exit.
func (t *CloudSpeechTranscriber) Shutdown() error {
	return t.Close()
}

var _ transcriber.Transcriber = (*CloudSpeechTranscriber)(nil)
