package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodie/api-gateway/internal/gateway"
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

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, "api-gateway")
	log.Logger = logger

	if cfg.Monitoring.MetricsEnabled {
		metrics.Register()
	}

	// A chat turn spans two model calls plus one tool call.
	upstreamTimeout := 2*cfg.Assistant.ModelTimeout + cfg.Assistant.ToolTimeout + 5*time.Second

	gw := gateway.NewGateway(gateway.Config{
		FoodieSvcURL:    cfg.Gateway.FoodieSvcURL,
		AssistantSvcURL: cfg.Gateway.AssistantSvcURL,
		AllowedOrigins:  cfg.Gateway.AllowedOrigins,
	}, &http.Client{Timeout: upstreamTimeout}, logger)

	srv := &http.Server{
		Addr:              cfg.Gateway.Addr,
		Handler:           gw.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("API Gateway starting")
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
