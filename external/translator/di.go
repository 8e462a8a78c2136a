package translator

import (
	"github.com/foxseedlab/tsuyaku/internal/config"
	"github.com/foxseedlab/tsuyaku/internal/translator"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (translator.Translator, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewChatTranslator(ChatConfig{
			APIKey:         c.OpenAIAPIKey,
			BaseURL:        c.OpenAIBaseURL,
			Model:          c.TranslateModel,
			TargetLanguage: c.TranslateTargetLanguage,
			Temperature:    c.TranslateTemperature,
			MaxTokens:      c.TranslateMaxTokens,
		}), nil
	})
}
