package pipeline

import (
	"log/slog"

	"github.com/foxseedlab/tsuyaku/internal/config"
	"github.com/foxseedlab/tsuyaku/internal/metrics"
	"github.com/foxseedlab/tsuyaku/internal/transcriber"
	"github.com/foxseedlab/tsuyaku/internal/translator"
	"github.com/foxseedlab/tsuyaku/internal/webhook"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Pipeline, error) {
		cfg := do.MustInvoke[*config.Config](i)
		stt := do.MustInvoke[transcriber.Transcriber](i)
		tr := do.MustInvoke[translator.Translator](i)
		wh := do.MustInvoke[webhook.Sender](i)
		m := do.MustInvoke[*metrics.Metrics](i)

		scratch := NewScratchDir(cfg.ScratchDir)
		if err := scratch.Ensure(); err != nil {
			return nil, err
		}
		slog.Info("scratch directory ready", "path", scratch.Path())
		return New(Config{
			SourceLanguage: cfg.TranscribeLanguage,
			TargetLanguage: cfg.TranslateTargetLanguage,
			Timeout:        cfg.PipelineTimeout(),
		}, scratch, stt, tr, wh, m), nil
	})
}
