package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodie/config"
	httpapi "foodie/foodie-svc/internal/api/http"
	"foodie/foodie-svc/internal/service"
	"foodie/foodie-svc/internal/storage"
	"foodie/logging"
	"foodie/metrics"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, "foodie-svc")
	log.Logger = logger

	if cfg.Monitoring.MetricsEnabled {
		metrics.Register()
	}

	seed, err := storage.LoadSeed()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load seed dataset")
	}

	db := config.MustInitPostgres(cfg.Postgres)
	defer db.Close()

	repo := storage.NewPostgresRepository(db)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure schema")
	}

	rdb := config.MustInitRedis(cfg.Redis)
	defer rdb.Close()

	writer := config.NewKafkaWriter(cfg.Kafka)
	defer writer.Close()

	store := service.NewDataStore(repo, seed, logger)
	catalog := service.NewCatalogService(store, storage.NewRedisPopularity(rdb))
	quotes := service.NewQuoteEngine(catalog, service.Pricing{
		PackagingFee:    decimal.NewFromFloat(cfg.Foodie.PackagingFee),
		DrinkCategories: cfg.Foodie.DrinkCategories,
	})
	transactions := service.NewTransactionService(
		store,
		quotes,
		storage.NewKafkaPublisher(writer),
		service.DefaultQRGenerator{BaseURL: cfg.Foodie.PublicURL},
		logger,
	)

	handler := httpapi.NewHandler(catalog, quotes, transactions, logger)
	srv := &http.Server{
		Addr:              cfg.Foodie.Addr,
		Handler:           httpapi.NewRouter(handler, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Foodie Service starting")
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
