package capture

import (
	"context"
	"log/slog"
	"sync/atomic"
)

const defaultUtteranceBuffer = 8

type RendererConfig struct {
	// FlushThreshold flushes early every N recorded blocks. 0 flushes only on stop.
	FlushThreshold int
	// UtteranceBuffer is the capacity of the render-to-control port.
	UtteranceBuffer int
	// Sink receives every pass-through output block.
	Sink func([]float32)
}

// Renderer is the rendering context. Run owns the Processor; the control side
// talks to it only through PostMessage and Utterances.
type Renderer struct {
	proc       *Processor
	messages   chan PortMessage
	utterances chan Utterance
	sink       func([]float32)
	dropped    atomic.Int64
	output     []float32
}

func NewRenderer(cfg RendererConfig) *Renderer {
	buf := cfg.UtteranceBuffer
	if buf <= 0 {
		buf = defaultUtteranceBuffer
	}
	r := &Renderer{
		messages:   make(chan PortMessage),
		utterances: make(chan Utterance, buf),
		sink:       cfg.Sink,
	}
	r.proc = NewProcessor(cfg.FlushThreshold, r.deliver)
	return r
}

// PostMessage hands msg to the rendering context. It blocks until Run accepts it.
func (r *Renderer) PostMessage(ctx context.Context, msg PortMessage) error {
	select {
	case r.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Renderer) Utterances() <-chan Utterance {
	return r.utterances
}

// Dropped counts utterances discarded because the control side fell behind.
func (r *Renderer) Dropped() int64 {
	return r.dropped.Load()
}

// Run processes quanta from source and port messages until ctx is done.
// A closed source stops audio but port messages are still served.
// The utterance channel is closed on return.
func (r *Renderer) Run(ctx context.Context, source <-chan Block) error {
	defer close(r.utterances)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-r.messages:
			slog.Debug("render port message", "command", msg.Command, "queued_blocks", r.proc.QueuedBlocks())
			r.proc.HandleMessage(msg)
		case block, ok := <-source:
			if !ok {
				source = nil
				continue
			}
			r.render(block)
		}
	}
}

func (r *Renderer) render(block Block) {
	if cap(r.output) < len(block) {
		r.output = make([]float32, len(block))
	}
	out := r.output[:len(block)]
	before := r.proc.ProcessCount()
	r.proc.Process(block, out)
	if r.sink != nil {
		r.sink(out)
	}
	if n := r.proc.ProcessCount(); n != before && n%diagnosticEvery == 0 {
		slog.Debug("recording in progress", "quanta", n, "queued_blocks", r.proc.QueuedBlocks())
	}
}

func (r *Renderer) deliver(u Utterance) {
	select {
	case r.utterances <- u:
	default:
		n := r.dropped.Add(1)
		slog.Warn("utterance dropped; control side is not draining", "samples", len(u.AudioData), "dropped_total", n)
	}
}
