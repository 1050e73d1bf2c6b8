package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"vakil-core/internal/adapter/client"
	"vakil-core/internal/adapter/metrics"
	"vakil-core/internal/adapter/pdfinfo"
	"vakil-core/internal/adapter/telegram"
	"vakil-core/internal/config"
	"vakil-core/internal/logging"
	"vakil-core/internal/usecase"
	"vakil-core/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := logging.New("vakil-bot", cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Nothing starts without a chat token.
	if err := cfg.RequireTelegram(); err != nil {
		logger.Fatal("missing configuration", zap.Error(err))
	}
	if err := cfg.RequireGemini(); err != nil {
		logger.Fatal("missing configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gemini, err := client.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.Model)
	if err != nil {
		logger.Fatal("failed to init genai client", zap.Error(err))
	}

	m := metrics.New("vakil-bot")
	analyzer := usecase.NewAnalyzer(gemini, pdfinfo.NewInspector(), m, logger, usecase.Limits{
		MaxUploadBytes:    cfg.MaxUploadBytes,
		MinQuestionLength: cfg.MinQuestionLength,
	})
	pool := worker.NewPool(cfg.WorkerPoolSize, m)

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("failed to connect to telegram", zap.Error(err))
	}

	bot := telegram.New(api, analyzer, pool, telegram.Options{
		ChunkLimit: cfg.ChunkLimit,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		Recorder:   m,
		Logger:     logger,
	})
	if err := bot.RegisterCommands(); err != nil {
		logger.Warn("failed to register commands", zap.Error(err))
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr, m.Handler(), logger)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	logger.Info("VakilAI bot running",
		zap.String("username", api.Self.UserName),
		zap.String("model", gemini.Model()),
		zap.Int("workers", pool.Size()),
	)

	go func() {
		<-ctx.Done()
		api.StopReceivingUpdates()
	}()
	bot.Run(ctx, updates)
	logger.Info("bot stopped")
}

func serveMetrics(ctx context.Context, addr string, h http.Handler, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server", zap.Error(err))
	}
}
