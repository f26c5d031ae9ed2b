package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/fire-risk-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/fire-risk-service/internal/adapter/kafka"
	"github.com/couchcryptid/fire-risk-service/internal/config"
	"github.com/couchcryptid/fire-risk-service/internal/history"
	"github.com/couchcryptid/fire-risk-service/internal/model"
	"github.com/couchcryptid/fire-risk-service/internal/observability"
	"github.com/couchcryptid/fire-risk-service/internal/predictor"
)

func main() {
	_ = godotenv.Load() // optional .env for local development

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// The model is static for the lifetime of the process. Refusing to start
	// without it beats serving errors on every request.
	forest, err := model.Load(cfg.ModelPath)
	if err != nil {
		logger.Error("failed to load model", "error", err, "path", cfg.ModelPath)
		os.Exit(1)
	}
	metrics.ModelLoaded.Set(1)
	logger.Info("model loaded",
		"path", cfg.ModelPath,
		"trees", forest.TreeCount(),
		"calibrated", forest.Calibrated(),
		"trained_at", forest.TrainedAt())

	hist := history.NewStore(cfg.HistoryLimit)

	// Prediction event publishing (feature-flagged via PUBLISH_ENABLED).
	var publisher predictor.Publisher
	var writer *kafkaadapter.Writer
	if cfg.PublishEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("prediction publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("prediction publishing disabled")
	}

	pred, err := predictor.New(forest, predictor.Options{
		Threshold: cfg.RiskThreshold,
		CacheSize: cfg.CacheSize,
		History:   hist,
		Publisher: publisher,
		Logger:    logger,
		Metrics:   metrics,
	})
	if err != nil {
		logger.Error("failed to create predictor", "error", err)
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, pred, hist, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
