// Package storage opens the key-value store selected by configuration.
package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"invoicedesk/internal/config"
	"invoicedesk/internal/db"
	"invoicedesk/internal/migrate"
	"invoicedesk/internal/repository/kv"
)

// Handle is an open store with its readiness probe and cleanup.
type Handle struct {
	Driver string
	Store  kv.Store
	Ready  func(context.Context) error
	close  func()
}

// Close releases the underlying connection, if any.
func (h *Handle) Close() {
	if h.close != nil {
		h.close()
	}
}

// Open connects the configured driver. Postgres schemas are migrated on open.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Handle, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		return &Handle{Driver: cfg.StoreDriver, Store: kv.NewMemory()}, nil

	case config.DriverSQLite:
		gdb, err := kv.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		logger.Info("opened sqlite store", zap.String("path", cfg.SQLitePath))
		return &Handle{
			Driver: cfg.StoreDriver,
			Store:  kv.NewSQLite(gdb, logger),
			Ready:  sqlDB.PingContext,
			close:  func() { _ = sqlDB.Close() },
		}, nil

	case config.DriverPostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := migrate.Apply(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		return &Handle{
			Driver: cfg.StoreDriver,
			Store:  kv.NewPostgres(pool, logger),
			Ready:  pool.Ping,
			close:  pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
