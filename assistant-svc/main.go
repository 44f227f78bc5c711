package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "foodie/assistant-svc/internal/api/http"
	"foodie/assistant-svc/internal/chat"
	"foodie/assistant-svc/internal/llm"
	"foodie/assistant-svc/internal/storage"
	"foodie/assistant-svc/internal/tools"
	"foodie/config"
	"foodie/logging"
	"foodie/metrics"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, "assistant-svc")
	log.Logger = logger

	if cfg.Monitoring.MetricsEnabled {
		metrics.Register()
	}
	if cfg.Model.APIKey == "" {
		logger.Warn().Msg("model api key is empty, requests to the model will likely be rejected")
	}

	rdb := config.MustInitRedis(cfg.Redis)
	defer rdb.Close()

	store := storage.NewRedisStore(rdb, cfg.Assistant.SessionTTL, cfg.Assistant.QuoteTTL)
	backend := tools.NewHTTPBackend(cfg.Assistant.BackendURL, &http.Client{})
	model := llm.NewOpenAIModel(cfg.Model, logger)

	orchestrator := chat.NewOrchestrator(model, tools.NewRouter(backend), store, store, chat.Options{
		HistoryTurns:   cfg.Assistant.HistoryTurns,
		ModelTimeout:   cfg.Assistant.ModelTimeout,
		ToolTimeout:    cfg.Assistant.ToolTimeout,
		Temperature:    cfg.Model.Temperature,
		TopP:           cfg.Model.TopP,
		MaxTokens:      cfg.Model.MaxTokens,
		FinalMaxTokens: cfg.Model.FinalMaxTokens,
	}, logger)

	handler := httpapi.NewHandler(orchestrator, logger)
	srv := &http.Server{
		Addr:              cfg.Assistant.Addr,
		Handler:           httpapi.NewRouter(handler, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("backend", cfg.Assistant.BackendURL).
			Str("model", cfg.Model.Name).
			Msg("Assistant Service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
