// Package pipeline turns one inbound audio envelope into at most one reply:
// decode, stage, transcribe, translate, clean, respond.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/foxseedlab/tsuyaku/internal/metrics"
	"github.com/foxseedlab/tsuyaku/internal/protocol"
	"github.com/foxseedlab/tsuyaku/internal/transcriber"
	"github.com/foxseedlab/tsuyaku/internal/translator"
	"github.com/foxseedlab/tsuyaku/internal/wav"
	"github.com/foxseedlab/tsuyaku/internal/webhook"
)

const fallbackErrorMessage = "Error processing audio"

// Replier is the connection a pipeline answers on.
type Replier interface {
	ID() string
	Reply(v any) error
}

type Config struct {
	SourceLanguage string
	TargetLanguage string
	// Timeout bounds the external calls of one run. Zero means no deadline.
	Timeout time.Duration
}

type Pipeline struct {
	cfg         Config
	scratch     *ScratchDir
	transcriber transcriber.Transcriber
	translator  translator.Translator
	cleaner     *Cleaner
	webhook     webhook.Sender
	metrics     *metrics.Metrics
}

func New(cfg Config, scratch *ScratchDir, stt transcriber.Transcriber, tr translator.Translator, wh webhook.Sender, m *metrics.Metrics) *Pipeline {
	if m == nil {
		m = metrics.New(nil)
	}
	return &Pipeline{
		cfg:         cfg,
		scratch:     scratch,
		transcriber: stt,
		translator:  tr,
		cleaner:     NewCleaner(cfg.TargetLanguage),
		webhook:     wh,
		metrics:     m,
	}
}

type pipelineResult struct {
	text        string
	translation string
}

// HandleAudio never returns an error: every failure is reported to reply or logged.
func (p *Pipeline) HandleAudio(ctx context.Context, env protocol.AudioEnvelope, reply Replier) {
	p.metrics.PipelinesInFlight.Inc()
	defer p.metrics.PipelinesInFlight.Dec()
	log := slog.With("conn_id", reply.ID())

	blob, err := env.DecodeAudio()
	if err != nil {
		log.Warn("failed to decode audio envelope", "error", err)
		p.metrics.RecordOutcome(metrics.OutcomeDecodeError)
		p.send(log, reply, protocol.NewErrorResult(err.Error()))
		return
	}
	p.probe(log, blob)

	result, err := p.run(ctx, log, blob)
	if err != nil {
		log.Error("pipeline failed", "error", err)
		p.metrics.RecordOutcome(metrics.OutcomeError)
		p.send(log, reply, protocol.NewErrorResult(errorMessage(err)))
		return
	}
	if result == nil {
		log.Debug("empty transcript; no reply sent")
		p.metrics.RecordOutcome(metrics.OutcomeEmpty)
		return
	}

	p.metrics.RecordOutcome(metrics.OutcomeTranslated)
	p.send(log, reply, protocol.NewTranscriptResult(result.text, result.translation))
	p.mirror(ctx, log, reply.ID(), result)
}

// run owns the staged file. It is released on every exit path before the caller replies.
func (p *Pipeline) run(ctx context.Context, log *slog.Logger, blob []byte) (result *pipelineResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline panicked", "panic", r)
			result, err = nil, errPipelinePanic
		}
	}()

	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	staged, err := p.scratch.Stage(blob)
	if err != nil {
		return nil, err
	}
	defer func() {
		if relErr := staged.Release(); relErr != nil {
			p.metrics.ScratchCleanupFail.Inc()
			log.Error("failed to remove staged audio", "error", relErr, "path", staged.Path)
		}
	}()

	started := time.Now()
	text, err := p.transcriber.Transcribe(ctx, staged.Path, p.cfg.SourceLanguage)
	p.metrics.ObserveStage(metrics.StageTranscribe, time.Since(started).Seconds())
	if err != nil {
		return nil, err
	}
	// Whitespace-only transcripts count as silence and are not translated.
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	log.Info("transcribed utterance", "text", text)

	started = time.Now()
	translated, err := p.translator.Translate(ctx, text)
	p.metrics.ObserveStage(metrics.StageTranslate, time.Since(started).Seconds())
	if err != nil {
		return nil, err
	}
	cleaned := p.cleaner.Clean(translated)
	log.Info("translated utterance", "raw", translated, "cleaned", cleaned)

	return &pipelineResult{text: text, translation: cleaned}, nil
}

// probe records the utterance length. A malformed header is logged and otherwise ignored.
func (p *Pipeline) probe(log *slog.Logger, blob []byte) {
	h, err := wav.ParseHeader(blob)
	if err != nil {
		log.Debug("utterance header probe failed", "error", err, "bytes", len(blob))
		return
	}
	p.metrics.ObserveUtterance(h.Duration())
	log.Debug("received utterance", "duration_sec", h.Duration(), "sample_rate", h.SampleRate, "bytes", len(blob))
}

func (p *Pipeline) send(log *slog.Logger, reply Replier, v any) {
	if err := reply.Reply(v); err != nil {
		log.Warn("failed to send reply", "error", err)
	}
}

func (p *Pipeline) mirror(ctx context.Context, log *slog.Logger, connID string, result *pipelineResult) {
	if p.webhook == nil {
		return
	}
	err := p.webhook.SendTranslation(context.WithoutCancel(ctx), webhook.TranslationWebhookPayload{
		ConnectionID:   connID,
		Text:           result.text,
		Translation:    result.translation,
		SourceLanguage: p.cfg.SourceLanguage,
		TargetLanguage: p.cfg.TargetLanguage,
		TranslatedAt:   time.Now().UTC(),
	})
	if err != nil {
		log.Warn("failed to mirror translation to webhook", "error", err)
	}
}

var errPipelinePanic = errors.New(fallbackErrorMessage)

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallbackErrorMessage
}
