package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/tsuyaku/internal/config"
	"github.com/joho/godotenv"
)

type envConfig struct {
	Env                        string  `env:"ENV" envDefault:"production"`
	ListenAddress              string  `env:"LISTEN_ADDRESS"`
	ListenPort                 int     `env:"LISTEN_PORT" envDefault:"3001"`
	WebSocketPath              string  `env:"WEBSOCKET_PATH" envDefault:"/"`
	ScratchDir                 string  `env:"SCRATCH_DIR" envDefault:"temp"`
	OpenAIAPIKey               string  `env:"OPENAI_API_KEY,required"`
	OpenAIBaseURL              string  `env:"OPENAI_BASE_URL"`
	TranscriberProvider        string  `env:"TRANSCRIBER_PROVIDER" envDefault:"openai"`
	TranscribeModel            string  `env:"TRANSCRIBE_MODEL" envDefault:"whisper-1"`
	TranscribeLanguage         string  `env:"TRANSCRIBE_LANGUAGE" envDefault:"en"`
	TranslateModel             string  `env:"TRANSLATE_MODEL" envDefault:"gpt-4o-mini"`
	TranslateTargetLanguage    string  `env:"TRANSLATE_TARGET_LANGUAGE" envDefault:"Khmer"`
	TranslateTemperature       float32 `env:"TRANSLATE_TEMPERATURE" envDefault:"0.1"`
	TranslateMaxTokens         int     `env:"TRANSLATE_MAX_TOKENS" envDefault:"500"`
	PipelineTimeoutSec         int     `env:"PIPELINE_TIMEOUT_SEC" envDefault:"0"`
	GoogleCloudProjectID       string  `env:"GOOGLE_CLOUD_PROJECT_ID"`
	GoogleCloudCredentialsJSON string  `env:"GOOGLE_CLOUD_CREDENTIALS_JSON"`
	GoogleCloudSpeechLocation  string  `env:"GOOGLE_CLOUD_SPEECH_LOCATION" envDefault:"global"`
	GoogleCloudSpeechModel     string  `env:"GOOGLE_CLOUD_SPEECH_MODEL" envDefault:"long"`
	TranslationWebhookURL      string  `env:"TRANSLATION_WEBHOOK_URL"`
	MetricsEnabled             bool    `env:"METRICS_ENABLED" envDefault:"true"`
}

// Load reads an optional .env file from the working directory, then the process environment.
// Variables already set in the environment win over .env entries.
func Load() (*internalconfig.Config, error) {
	_ = godotenv.Load()

	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                        raw.Env,
		ListenAddress:              raw.ListenAddress,
		ListenPort:                 raw.ListenPort,
		WebSocketPath:              raw.WebSocketPath,
		ScratchDir:                 raw.ScratchDir,
		OpenAIAPIKey:               raw.OpenAIAPIKey,
		OpenAIBaseURL:              raw.OpenAIBaseURL,
		TranscriberProvider:        raw.TranscriberProvider,
		TranscribeModel:            raw.TranscribeModel,
		TranscribeLanguage:         raw.TranscribeLanguage,
		TranslateModel:             raw.TranslateModel,
		TranslateTargetLanguage:    raw.TranslateTargetLanguage,
		TranslateTemperature:       raw.TranslateTemperature,
		TranslateMaxTokens:         raw.TranslateMaxTokens,
		PipelineTimeoutSec:         raw.PipelineTimeoutSec,
		GoogleCloudProjectID:       raw.GoogleCloudProjectID,
		GoogleCloudCredentialsJSON: raw.GoogleCloudCredentialsJSON,
		GoogleCloudSpeechLocation:  raw.GoogleCloudSpeechLocation,
		GoogleCloudSpeechModel:     raw.GoogleCloudSpeechModel,
		TranslationWebhookURL:      raw.TranslationWebhookURL,
		MetricsEnabled:             raw.MetricsEnabled,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
