// Package recorder is the control side of the capture chain. It drives recording
// sessions, ships finished utterances to the server and collects the results.
package recorder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foxseedlab/tsuyaku/internal/capture"
	"github.com/foxseedlab/tsuyaku/internal/protocol"
	"github.com/foxseedlab/tsuyaku/internal/wav"
)

// Transport carries envelopes to the server.
type Transport interface {
	Send(ctx context.Context, v any) error
}

// Port is the rendering context as seen from the control side.
type Port interface {
	PostMessage(ctx context.Context, msg capture.PortMessage) error
	Utterances() <-chan capture.Utterance
}

type Recorder struct {
	port      Port
	transport Transport
	history   *History
	onError   func(message string)
	onPair    func(TranscriptPair)
}

type Option func(*Recorder)

// WithErrorHandler receives the message of every server error envelope.
func WithErrorHandler(fn func(message string)) Option {
	return func(r *Recorder) { r.onError = fn }
}

// WithPairHandler is called after each pair is appended to the history.
func WithPairHandler(fn func(TranscriptPair)) Option {
	return func(r *Recorder) { r.onPair = fn }
}

func New(port Port, transport Transport, opts ...Option) *Recorder {
	r := &Recorder{
		port:      port,
		transport: transport,
		history:   &History{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Recorder) History() *History {
	return r.history
}

func (r *Recorder) Start(ctx context.Context) error {
	return r.port.PostMessage(ctx, capture.PortMessage{Command: capture.CommandStart})
}

func (r *Recorder) Stop(ctx context.Context) error {
	return r.port.PostMessage(ctx, capture.PortMessage{Command: capture.CommandStop})
}

// Run ships utterances until the port closes or ctx is done.
// A send failure while ctx is still live is terminal and returned.
func (r *Recorder) Run(ctx context.Context) error {
	utterances := r.port.Utterances()
	for {
		select {
		case <-ctx.Done():
			return nil
		case u, ok := <-utterances:
			if !ok {
				return nil
			}
			if err := r.ship(ctx, u); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				slog.Error("failed to send utterance", "error", err, "samples", len(u.AudioData))
				return err
			}
		}
	}
}

func (r *Recorder) ship(ctx context.Context, u capture.Utterance) error {
	blob := wav.EncodeMono16(u.AudioData, u.SampleRate)
	slog.Debug("sending utterance", "samples", len(u.AudioData), "bytes", len(blob))
	if err := r.transport.Send(ctx, protocol.NewAudioEnvelope(blob)); err != nil {
		return fmt.Errorf("send audio envelope: %w", err)
	}
	return nil
}

// HandleMessage applies one server message. It is safe to call from the transport's read loop.
func (r *Recorder) HandleMessage(msg protocol.Message) {
	switch msg.Type {
	case protocol.TypeTranslation:
		if msg.Translation == "" {
			slog.Debug("ignoring result without translation", "text", msg.Text)
			return
		}
		pair := TranscriptPair{English: msg.Text, Khmer: msg.Translation}
		r.history.Append(pair)
		if r.onPair != nil {
			r.onPair(pair)
		}
	case protocol.TypeError:
		slog.Warn("server reported error", "message", msg.Message)
		if r.onError != nil {
			r.onError(msg.Message)
		}
	default:
		slog.Debug("ignoring server message", "type", msg.Type)
	}
}
