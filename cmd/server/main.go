package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/harborpoint/reporting-backend/internal/adapter/httpapi"
	"github.com/harborpoint/reporting-backend/internal/adapter/repository/postgres"
	"github.com/harborpoint/reporting-backend/internal/config"
	"github.com/harborpoint/reporting-backend/internal/usecase/reporting"
	"github.com/harborpoint/reporting-backend/pkg/logger"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	aumTolerance, err := decimal.NewFromString(cfg.AUMTolerance)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid AUM_TOLERANCE")
	}

	// 2. Setup database
	db, err := postgres.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// 3. Initialize repositories (Postgres)
	positionRepo := postgres.NewPositionRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	priceRepo := postgres.NewPriceRepository(db)
	securityRepo := postgres.NewSecurityRepository(db)
	feeScheduleRepo := postgres.NewFeeScheduleRepository(db)

	// 4. Initialize the reporting service
	reportingService := reporting.NewReportingService(
		positionRepo,
		transactionRepo,
		priceRepo,
		securityRepo,
		feeScheduleRepo,
		aumTolerance,
		log,
	)

	// 5. Start HTTP server
	apiServer := httpapi.NewServer(reportingService, log)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      apiServer.Router(cfg.APIToken),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to serve HTTP")
		}
	}()

	waitForShutdown(server, log)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(server *http.Server, log zerolog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	log.Info().Msg("HTTP server stopped")
}
