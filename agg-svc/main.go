package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodie/agg-svc/internal/service"
	"foodie/agg-svc/internal/storage"
	"foodie/config"
	"foodie/logging"
	"foodie/metrics"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, "agg-svc")
	log.Logger = logger

	rdb := config.MustInitRedis(cfg.Redis)
	defer rdb.Close()

	reader := config.NewKafkaReader(cfg.Kafka)
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var srv *http.Server
	if cfg.Monitoring.MetricsEnabled {
		metrics.Register()
		r := mux.NewRouter()
		r.Use(logging.Middleware(logger))
		r.Handle("/metrics", metrics.Handler()).Methods("GET")
		srv = &http.Server{Addr: cfg.Aggregator.MetricsAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	consumer := service.NewConsumer(reader, storage.NewStore(rdb), logger)
	logger.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Str("group", cfg.Kafka.GroupID).Msg("consumer configured")
	if err := consumer.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("consumer stopped")
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}
	logger.Info().Msg("shutting down")
}
