package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	configloader "github.com/foxseedlab/tsuyaku/external/config"
	transcriberimpl "github.com/foxseedlab/tsuyaku/external/transcriber"
	translatorimpl "github.com/foxseedlab/tsuyaku/external/translator"
	webhookimpl "github.com/foxseedlab/tsuyaku/external/webhook"
	wsserver "github.com/foxseedlab/tsuyaku/external/websocket"
	"github.com/foxseedlab/tsuyaku/internal/config"
	"github.com/foxseedlab/tsuyaku/internal/metrics"
	"github.com/foxseedlab/tsuyaku/internal/pipeline"
	"github.com/samber/do/v2"
)

const shutdownTimeout = 30 * time.Second

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "transcriber", cfg.TranscriberProvider, "target_language", cfg.TranslateTargetLanguage)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	slog.Info("startup: launching websocket server")
	runServer(injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	metrics.RegisterDI(injector)
	transcriberimpl.RegisterDI(injector)
	translatorimpl.RegisterDI(injector)
	webhookimpl.RegisterDI(injector)
	pipeline.RegisterDI(injector)
	wsserver.RegisterDI(injector)

	return injector
}

func runServer(injector do.Injector) {
	server, err := do.Invoke[*wsserver.Server](injector)
	if err != nil {
		slog.Error("failed to resolve websocket server", "error", err)
		os.Exit(1)
	}

	done := make(chan struct{})
	go func() {
		if err := server.Listen(); err != nil {
			slog.Error("websocket server stopped", "error", err)
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down")
	case <-done:
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("websocket server shutdown failed", "error", err)
	}
	if report := injector.Shutdown(); report != nil {
		slog.Info("dependencies shut down", "report", report)
	}
}
