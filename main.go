// @title Error Tracker API
// @version 1.0
// @description Client error ingestion, deduplication and auto-remediation API.
// @BasePath /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/interworky/error-tracker/internal/client"
	"github.com/interworky/error-tracker/internal/config"
	"github.com/interworky/error-tracker/internal/db"
	"github.com/interworky/error-tracker/internal/handler"
	"github.com/interworky/error-tracker/internal/logging"
	"github.com/interworky/error-tracker/internal/remediation"
	"github.com/interworky/error-tracker/internal/service"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// .env 는 로컬 개발용 (없어도 무시)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open store")
	}
	defer store.Close()

	// 자동 수정 백엔드 + dispatch worker
	remediationClient := client.NewRemediationClient(cfg.Remediation)
	orchestrator := remediation.New(store, remediationClient,
		remediation.WithWorkers(cfg.Remediation.Workers),
		remediation.WithQueueSize(cfg.Remediation.QueueSize),
		remediation.WithCallTimeout(remediationClient.Timeout()),
	)

	ingestService := service.NewIngestService(store, store, orchestrator, cfg.Ingest.MaxBatchSize)
	incidentService := service.NewIncidentService(store, store)

	router := handler.NewRouter(handler.RouterConfig{
		Ingest:             handler.NewIngestHandler(ingestService),
		Incidents:          handler.NewIncidentHandler(incidentService),
		Logger:             logging.Component("http"),
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Str("store", cfg.Store.Driver).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// HTTP 수신 중단 후 남은 수정 요청 처리
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
	if err := orchestrator.Close(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("remediation drain incomplete")
	}
	logger.Info().Msg("shutdown complete")
}

func openStore(ctx context.Context, cfg config.Config) (db.Store, error) {
	if cfg.Store.Driver == "memory" {
		log.Warn().Msg("using in-memory store, incidents are lost on restart")
		return db.NewMemory(), nil
	}
	return db.NewPostgres(ctx, cfg.Postgres)
}
