package capture

import (
	"context"
	"errors"
	"testing"
	"time"
)

func startRenderer(t *testing.T, r *Renderer, source <-chan Block) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx, source)
	}()
	return cancel, done
}

func receiveUtterance(t *testing.T, r *Renderer) Utterance {
	t.Helper()
	select {
	case u, ok := <-r.Utterances():
		if !ok {
			t.Fatal("utterance channel closed unexpectedly")
		}
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for utterance")
	}
	return Utterance{}
}

func TestRenderer_StartFeedStop(t *testing.T) {
	var sunk int
	r := NewRenderer(RendererConfig{Sink: func(out []float32) { sunk += len(out) }})
	source := make(chan Block)
	cancel, done := startRenderer(t, r, source)
	defer cancel()

	ctx := context.Background()
	if err := r.PostMessage(ctx, PortMessage{Command: CommandStart}); err != nil {
		t.Fatalf("post start: %v", err)
	}
	for range 3 {
		source <- Block(quantum(QuantumFrames, 0.25))
	}
	if err := r.PostMessage(ctx, PortMessage{Command: CommandStop}); err != nil {
		t.Fatalf("post stop: %v", err)
	}

	u := receiveUtterance(t, r)
	if len(u.AudioData) != 3*QuantumFrames {
		t.Fatalf("unexpected sample count: %d", len(u.AudioData))
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected run error: %v", err)
	}
	if sunk != 3*QuantumFrames {
		t.Fatalf("sink saw %d samples", sunk)
	}
	if _, ok := <-r.Utterances(); ok {
		t.Fatal("expected utterance channel closed after run returns")
	}
}

func TestRenderer_ServesPortAfterSourceCloses(t *testing.T) {
	r := NewRenderer(RendererConfig{})
	source := make(chan Block)
	cancel, _ := startRenderer(t, r, source)
	defer cancel()

	ctx := context.Background()
	if err := r.PostMessage(ctx, PortMessage{Command: CommandStart}); err != nil {
		t.Fatalf("post start: %v", err)
	}
	source <- Block(quantum(10, 0.1))
	close(source)

	if err := r.PostMessage(ctx, PortMessage{Command: CommandStop}); err != nil {
		t.Fatalf("post stop: %v", err)
	}
	if u := receiveUtterance(t, r); len(u.AudioData) != 10 {
		t.Fatalf("unexpected sample count: %d", len(u.AudioData))
	}
}

func TestRenderer_DropsWhenControlSideStalls(t *testing.T) {
	r := NewRenderer(RendererConfig{UtteranceBuffer: 1})
	source := make(chan Block)
	cancel, _ := startRenderer(t, r, source)
	defer cancel()

	ctx := context.Background()
	for range 3 {
		if err := r.PostMessage(ctx, PortMessage{Command: CommandStart}); err != nil {
			t.Fatalf("post start: %v", err)
		}
		source <- Block(quantum(4, 0.1))
		if err := r.PostMessage(ctx, PortMessage{Command: CommandStop}); err != nil {
			t.Fatalf("post stop: %v", err)
		}
	}
	// A final round trip guarantees the last stop has been handled.
	if err := r.PostMessage(ctx, PortMessage{Command: "noop"}); err != nil {
		t.Fatalf("post noop: %v", err)
	}

	if r.Dropped() != 2 {
		t.Fatalf("expected 2 dropped utterances, got %d", r.Dropped())
	}
	receiveUtterance(t, r)
}

func TestRenderer_PostMessageHonorsContext(t *testing.T) {
	r := NewRenderer(RendererConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.PostMessage(ctx, PortMessage{Command: CommandStart}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
