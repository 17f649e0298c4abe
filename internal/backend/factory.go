// Package backend builds the persistence and messaging adapters selected by
// configuration.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/AnaBeatrizVictorio/colhecash/internal/config"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/amqp"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/badger"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/memory"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/resilience"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/sqlite"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/supabase"
	"github.com/AnaBeatrizVictorio/colhecash/internal/port"

	"go.uber.org/zap"
)

// CleanupFunc releases what a Result holds.
type CleanupFunc func() error

// Result contains the store, the optional alert publisher and their cleanup.
// Publisher is nil when AMQP is not configured or unreachable.
type Result struct {
	Store     port.Store
	Publisher port.AlertPublisher
	Cleanup   CleanupFunc
}

// New opens the store named by cfg.DataBackend and, when AMQP_URL is set,
// connects the alert publisher. A broker failure only disables publishing.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Result, error) {
	if cfg == nil {
		return nil, errors.New("backend: config is nil")
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	closers := []CleanupFunc{closeStore}

	res := &Result{Store: store}
	if cfg.AMQPURL != "" {
		pub, err := amqp.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Warn("failed to initialize AMQP publisher, continuing without alert events", zap.Error(err))
		} else {
			logger.Info("initialized AMQP publisher",
				zap.String("exchange", cfg.AMQPExchange),
				zap.String("queue", cfg.AMQPQueue),
			)
			res.Publisher = pub
			closers = append(closers, pub.Close)
		}
	}

	res.Cleanup = func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			if closers[i] == nil {
				continue
			}
			if err := closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
	return res, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (port.Store, CleanupFunc, error) {
	switch cfg.DataBackend {
	case config.BackendMemory:
		logger.Info("initialized memory backend")
		return memory.New(), nil, nil

	case config.BackendSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize sqlite backend: %w", err)
		}
		logger.Info("initialized sqlite backend", zap.String("path", cfg.SQLitePath))
		return s, s.Close, nil

	case config.BackendBadger:
		s, err := badger.Open(cfg.BadgerPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize badger backend: %w", err)
		}
		logger.Info("initialized badger backend", zap.String("dir", cfg.BadgerPath))
		return s, s.Close, nil

	case config.BackendSupabase:
		guard := resilience.NewGuard("supabase", resilience.Config{
			MaxRetries:     cfg.MaxRetries,
			InitialBackoff: cfg.InitialBackoff,
			MaxConcurrency: cfg.MaxConcurrency,
		})
		httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
		c := supabase.NewClient(httpClient, cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.SupabaseServiceKey, guard, logger)
		logger.Info("initialized supabase backend", zap.String("url", cfg.SupabaseURL))
		return c, nil, nil
	}
	return nil, nil, fmt.Errorf("unsupported backend type: %s", cfg.DataBackend)
}
