// Command capture plays a WAV file through the real-time capture chain, ships each
// recorded utterance to the translation server and prints the returned pairs as JSON lines.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	wsclient "github.com/foxseedlab/tsuyaku/external/websocket"
	"github.com/foxseedlab/tsuyaku/internal/capture"
	"github.com/foxseedlab/tsuyaku/internal/recorder"
	"github.com/gopxl/beep"
	beepwav "github.com/gopxl/beep/wav"
)

const resampleQuality = 4

type options struct {
	serverURL   string
	input       string
	flushBlocks int
	quantum     int
	realtime    bool
	wait        time.Duration
}

func main() {
	var opts options
	flag.StringVar(&opts.serverURL, "server", "ws://localhost:3001", "translation server websocket URL")
	flag.StringVar(&opts.input, "input", "", "WAV file to play through the capture chain")
	flag.IntVar(&opts.flushBlocks, "flush-blocks", 0, "flush an utterance every N quanta while recording (0 = only on stop)")
	flag.IntVar(&opts.quantum, "quantum", capture.QuantumFrames, "frames per rendering quantum")
	flag.BoolVar(&opts.realtime, "realtime", false, "pace quanta at the capture sample rate")
	flag.DurationVar(&opts.wait, "wait", 30*time.Second, "how long to wait for outstanding results")
	verbose := flag.Bool("v", false, "enable debug logs")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if opts.input == "" || opts.quantum <= 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		slog.Error("capture failed", "error", err)
		os.Exit(1)
	}
}

// countingTransport counts envelopes that reached the wire.
type countingTransport struct {
	next recorder.Transport
	sent atomic.Int64
}

func (c *countingTransport) Send(ctx context.Context, v any) error {
	if err := c.next.Send(ctx, v); err != nil {
		return err
	}
	c.sent.Add(1)
	return nil
}

func run(ctx context.Context, opts options) error {
	streamer, closeInput, err := openInput(opts.input)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeInput()
	}()

	client, err := wsclient.Dial(ctx, opts.serverURL)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	renderer := capture.NewRenderer(capture.RendererConfig{FlushThreshold: opts.flushBlocks})
	source := make(chan capture.Block)
	go func() {
		_ = renderer.Run(runCtx, source)
	}()

	var replies atomic.Int64
	activity := make(chan struct{}, 1)
	notify := func() {
		replies.Add(1)
		select {
		case activity <- struct{}{}:
		default:
		}
	}
	out := json.NewEncoder(os.Stdout)
	transport := &countingTransport{next: client}
	rec := recorder.New(renderer, transport,
		recorder.WithPairHandler(func(p recorder.TranscriptPair) {
			_ = out.Encode(p)
			notify()
		}),
		recorder.WithErrorHandler(func(message string) {
			fmt.Fprintf(os.Stderr, "server error: %s\n", message)
			notify()
		}),
	)

	errCh := make(chan error, 2)
	go func() {
		errCh <- rec.Run(runCtx)
	}()
	go func() {
		errCh <- client.Listen(runCtx, rec.HandleMessage)
	}()

	if err := rec.Start(ctx); err != nil {
		return err
	}
	if err := feed(ctx, streamer, source, opts); err != nil {
		return err
	}
	if err := rec.Stop(ctx); err != nil {
		return err
	}
	close(source)

	timer := time.NewTimer(opts.wait)
	defer timer.Stop()
wait:
	for {
		if sent := transport.sent.Load(); sent > 0 && replies.Load() >= sent {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
		case <-activity:
			timer.Reset(opts.wait)
		case <-timer.C:
			slog.Warn("stopped waiting for results", "sent", transport.sent.Load(), "replies", replies.Load())
			break wait
		}
	}

	pairs := rec.History().Len()
	slog.Info("capture finished", "utterances", transport.sent.Load(), "pairs", pairs, "dropped", renderer.Dropped())
	return nil
}

// openInput decodes a WAV file and resamples it to the capture rate when needed.
func openInput(path string) (beep.Streamer, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	streamer, format, err := beepwav.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("decode input wav: %w", err)
	}
	slog.Info("input opened", "path", path, "sample_rate", int(format.SampleRate), "channels", format.NumChannels, "duration", format.SampleRate.D(streamer.Len()))
	if format.SampleRate == capture.SampleRate {
		return streamer, streamer.Close, nil
	}
	return beep.Resample(resampleQuality, format.SampleRate, capture.SampleRate, streamer), streamer.Close, nil
}

// feed downmixes the input to mono quanta and hands them to the rendering context.
func feed(ctx context.Context, s beep.Streamer, source chan<- capture.Block, opts options) error {
	buf := make([][2]float64, opts.quantum)
	var tick <-chan time.Time
	if opts.realtime {
		ticker := time.NewTicker(time.Duration(opts.quantum) * time.Second / capture.SampleRate)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		n, ok := s.Stream(buf)
		if n > 0 {
			block := make(capture.Block, n)
			for i := range n {
				block[i] = float32((buf[i][0] + buf[i][1]) / 2)
			}
			select {
			case source <- block:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if !ok {
			return s.Err()
		}
		if tick != nil {
			select {
			case <-tick:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
