package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paystats/reporter/internal/api"
	"github.com/paystats/reporter/internal/config"
	"github.com/paystats/reporter/internal/logger"
	"github.com/paystats/reporter/internal/report"
	"github.com/paystats/reporter/internal/repository"
	"github.com/paystats/reporter/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logger.New(logger.Config{Level: "error"})
		l.Fatal().Err(err).Msg("Failed to load config")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("driver", cfg.DBDriver).Msg("Initializing database")
	db, err := repository.InitDB(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init DB")
	}
	defer db.Close()

	// Create repositories.
	txnRepo := repository.NewTransactionRepo(db)
	userRepo := repository.NewUserRepo(db)

	if cfg.SeedSampleData {
		if _, err := seed.Run(ctx, userRepo, seed.Options{
			Users:     cfg.SeedUsers,
			TxPerUser: cfg.SeedTxPerUser,
		}, log); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed sample data")
		}
	}

	txnCount, err := txnRepo.Count(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to count transactions")
	}
	log.Info().Int("transactions", txnCount).Msg("Store ready")

	svc := report.NewService(txnRepo, cfg.MaxUploadBytes, log)
	router := api.NewRouter(svc, db, cfg.CORSOrigins, log)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", cfg.Addr()).
			Strs("endpoints", []string{
				"GET  /api/v1/reports/report",
				"POST /api/v1/reports/report/by-country",
				"GET  /healthz",
				"GET  /metrics",
			}).
			Msg("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		os.Exit(1)
	}
}
