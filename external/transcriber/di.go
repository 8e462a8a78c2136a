package transcriber

import (
	"context"

	"github.com/foxseedlab/tsuyaku/internal/config"
	"github.com/foxseedlab/tsuyaku/internal/transcriber"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (transcriber.Transcriber, error) {
		c := do.MustInvoke[*config.Config](i)
		if c.TranscriberProvider == config.TranscriberProviderGoogle {
			t, err := NewCloudSpeechTranscriber(context.Background(), CloudSpeechConfig{
				ProjectID:       c.GoogleCloudProjectID,
				CredentialsJSON: c.GoogleCloudCredentialsJSON,
				Location:        c.GoogleCloudSpeechLocation,
				Model:           c.GoogleCloudSpeechModel,
			})
			if err != nil {
				return nil, err
			}
			return t, nil
		}
		return NewWhisperTranscriber(WhisperConfig{
			APIKey:  c.OpenAIAPIKey,
			BaseURL: c.OpenAIBaseURL,
			Model:   c.TranscribeModel,
		}), nil
	})
}
