package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	TranscriberProviderOpenAI = "openai"
	TranscriberProviderGoogle = "google"
)

type Config struct {
	Env                        string
	ListenAddress              string
	ListenPort                 int
	WebSocketPath              string
	ScratchDir                 string
	OpenAIAPIKey               string
	OpenAIBaseURL              string
	TranscriberProvider        string
	TranscribeModel            string
	TranscribeLanguage         string
	TranslateModel             string
	TranslateTargetLanguage    string
	TranslateTemperature       float32
	TranslateMaxTokens         int
	PipelineTimeoutSec         int
	GoogleCloudProjectID       string
	GoogleCloudCredentialsJSON string
	GoogleCloudSpeechLocation  string
	GoogleCloudSpeechModel     string
	TranslationWebhookURL      string
	MetricsEnabled             bool
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.ListenPort <= 0 || c.ListenPort > 65535 {
		return fmt.Errorf("LISTEN_PORT must be between 1 and 65535, got %d", c.ListenPort)
	}
	if !strings.HasPrefix(c.WebSocketPath, "/") {
		return fmt.Errorf("WEBSOCKET_PATH must start with /, got %q", c.WebSocketPath)
	}
	switch c.TranscriberProvider {
	case TranscriberProviderOpenAI:
	case TranscriberProviderGoogle:
		if c.GoogleCloudProjectID == "" || c.GoogleCloudCredentialsJSON == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT_ID and GOOGLE_CLOUD_CREDENTIALS_JSON are required when TRANSCRIBER_PROVIDER=google")
		}
	default:
		return fmt.Errorf("TRANSCRIBER_PROVIDER must be %q or %q, got %q", TranscriberProviderOpenAI, TranscriberProviderGoogle, c.TranscriberProvider)
	}
	if c.TranslateTemperature < 0 || c.TranslateTemperature > 2 {
		return fmt.Errorf("TRANSLATE_TEMPERATURE must be between 0 and 2, got %v", c.TranslateTemperature)
	}
	if c.TranslateMaxTokens <= 0 {
		return fmt.Errorf("TRANSLATE_MAX_TOKENS must be positive, got %d", c.TranslateMaxTokens)
	}
	if c.PipelineTimeoutSec < 0 {
		return fmt.Errorf("PIPELINE_TIMEOUT_SEC must not be negative, got %d", c.PipelineTimeoutSec)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "OPENAI_API_KEY", value: c.OpenAIAPIKey},
		{name: "SCRATCH_DIR", value: c.ScratchDir},
		{name: "TRANSCRIBE_MODEL", value: c.TranscribeModel},
		{name: "TRANSCRIBE_LANGUAGE", value: c.TranscribeLanguage},
		{name: "TRANSLATE_MODEL", value: c.TranslateModel},
		{name: "TRANSLATE_TARGET_LANGUAGE", value: c.TranslateTargetLanguage},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.ListenAddress, c.ListenPort)
}

// PipelineTimeout returns zero when no deadline is configured.
func (c *Config) PipelineTimeout() time.Duration {
	return time.Duration(c.PipelineTimeoutSec) * time.Second
}
