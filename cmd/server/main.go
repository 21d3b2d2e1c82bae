package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/filingsight/internal/analysis"
	"github.com/dgallion1/filingsight/internal/api"
	"github.com/dgallion1/filingsight/internal/config"
	"github.com/dgallion1/filingsight/internal/mdrender"
	"github.com/dgallion1/filingsight/internal/pageref"
	"github.com/dgallion1/filingsight/internal/pipeline"
	"github.com/joho/godotenv"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// A missing .env is fine; real environment variables still apply.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("could not load .env", "error", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	stats := analysis.NewGenerationStats(cfg.LLMStatsWindow)
	gemini, err := analysis.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, stats, log)
	if err != nil {
		log.Error("gemini client", "error", err)
		os.Exit(1)
	}
	renderer := mdrender.New(pageref.WithNavigateFunc(cfg.NavigateFunc))

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, gemini, renderer, gemini.Model(), log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, renderer, gemini, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
	}()

	log.Info("starting filingsight", "port", cfg.Port, "model", gemini.Model(), "workers", cfg.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
