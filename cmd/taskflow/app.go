package main

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"taskflow/internal/config"
	"taskflow/internal/infrastructure/memory"
	"taskflow/internal/infrastructure/sqlstore"
	"taskflow/internal/logging"
	"taskflow/internal/usecase/repository"
)

// app は起動時に組み立てる依存関係。
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	factory repository.Factory
	closers []func() error
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger}
	a.closers = append(a.closers, func() error {
		// stderr の Sync は環境によって失敗するので無視する
		_ = logger.Sync()
		return nil
	})

	factory, closeFn, err := openStorage(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, multierr.Append(err, a.Close())
	}
	a.factory = factory
	if closeFn != nil {
		a.closers = append(a.closers, closeFn)
	}

	logger.Info("storage ready", zap.String("driver", cfg.Storage.Driver), zap.String("env", cfg.Env))
	return a, nil
}

func openStorage(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (repository.Factory, func() error, error) {
	if cfg.Driver == config.DriverMemory {
		return memory.NewStore(), nil, nil
	}

	dialect, err := sqlstore.ParseDialect(cfg.Driver)
	if err != nil {
		return nil, nil, err
	}
	db, err := sqlstore.Open(ctx, sqlstore.Options{
		Dialect:      dialect,
		DSN:          cfg.DSN,
		MaxOpenConns: cfg.MaxOpenConns,
		Retry: sqlstore.RetryPolicy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   cfg.Retry.BaseDelay,
			MaxDelay:    cfg.Retry.MaxDelay,
		},
		Logger: logger,
	})
	if err != nil {
		return nil, nil, err
	}
	if cfg.ApplySchema {
		if err := db.ApplySchema(ctx); err != nil {
			return nil, nil, multierr.Append(fmt.Errorf("apply schema: %w", err), db.Close())
		}
	}
	return db, db.Close, nil
}

// Close は後から開いたものから順に閉じる。
func (a *app) Close() error {
	var err error
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.closers[i]())
	}
	return err
}
