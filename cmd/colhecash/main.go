package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/backend"
	"github.com/AnaBeatrizVictorio/colhecash/internal/config"
	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
	"github.com/AnaBeatrizVictorio/colhecash/internal/handler"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/cache"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/observability"
	"github.com/AnaBeatrizVictorio/colhecash/internal/port"
	"github.com/AnaBeatrizVictorio/colhecash/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to read .env: %v\n", err)
		os.Exit(1)
	}

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFile)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("data_backend", cfg.DataBackend),
		zap.String("timezone", cfg.Timezone),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("jwt_access_ttl", cfg.JWTAccessTTL),
		zap.Bool("alert_events", cfg.AMQPURL != ""),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "colhecash-api")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	profileCache := cache.New[*domain.User](cfg.CacheTTL)
	defer profileCache.Close()

	// --- Backend ---
	res, err := backend.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize backend", zap.Error(err))
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("backend cleanup failed", zap.Error(err))
		}
	}()

	// --- Services ---
	loc := cfg.Location()
	summarySvc := service.NewSummaryService(res.Store, res.Store, metrics, loc, logger)
	notifier := service.NewAlertNotifier(res.Publisher, metrics, logger)
	authSvc := service.NewAuthService(res.Store, profileCache, metrics, cfg.JWTSecret, cfg.JWTAccessTTL, logger)
	txSvc := service.NewTransactionService(res.Store, summarySvc, notifier, logger)
	goalSvc := service.NewGoalService(res.Store, summarySvc, notifier, logger)

	svcs := handler.Services{
		Auth:         authSvc,
		Transactions: txSvc,
		Goals:        goalSvc,
		Summaries:    summarySvc,
		Backend:      cfg.DataBackend,
		Store:        res.Store,
	}
	if p, ok := res.Publisher.(port.Pinger); ok {
		svcs.Publisher = p
	}

	// --- Router ---
	router := handler.NewRouter(svcs, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
