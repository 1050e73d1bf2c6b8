package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"vakil-core/internal/adapter/api"
	"vakil-core/internal/adapter/client"
	"vakil-core/internal/adapter/metrics"
	"vakil-core/internal/adapter/pdfinfo"
	"vakil-core/internal/config"
	"vakil-core/internal/logging"
	"vakil-core/internal/usecase"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := logging.New("legalease-web", cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.RequireGemini(); err != nil {
		logger.Fatal("missing configuration", zap.Error(err))
	}
	gemini, err := client.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.Model)
	if err != nil {
		logger.Fatal("failed to init genai client", zap.Error(err))
	}

	m := metrics.New("legalease-web")
	analyzer := usecase.NewAnalyzer(gemini, pdfinfo.NewInspector(), m, logger, usecase.Limits{
		MaxUploadBytes:    cfg.MaxUploadBytes,
		MinQuestionLength: cfg.MinQuestionLength,
	})

	app := api.NewApp(cfg.MaxUploadBytes)
	api.SetupRouter(app, api.NewAnalyzeHandler(analyzer, m, logger), m.Handler(), logger)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	logger.Info("LegalEase web running", zap.String("port", cfg.Port), zap.String("model", gemini.Model()))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("server stopped")
}
