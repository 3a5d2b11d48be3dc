// Command sift runs the content extraction and source credibility API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/usesift/sift/api"
	"github.com/usesift/sift/config"
	"github.com/usesift/sift/credibility"
	"github.com/usesift/sift/engine"
	"github.com/usesift/sift/fetcher"
	"github.com/usesift/sift/locator"
	"github.com/usesift/sift/webhook"
)

func main() {
	cfg := config.Load()

	initLogger(cfg.Log)
	slog.Info("sift starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
	)

	f := fetcher.New(cfg.Fetcher)
	l := locator.New(cfg.Locator)
	cls := credibility.NewClassifier(nil, cfg.Credibility.MinValidScore, cfg.Credibility.GenericnessThreshold)
	eng := engine.New(f, l, cls)

	notifier := webhook.NewNotifier(cfg.Webhook)
	batches := engine.NewBatches(eng, cfg.Batch, notifier)
	defer batches.Close()

	startTime := time.Now()
	router := api.NewRouter(eng, batches, cls, cfg, startTime)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight requests 5 seconds to complete. Running batch jobs
	// are lost; the job store is in-memory.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("sift stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
