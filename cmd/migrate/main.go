package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"invoicedesk/internal/config"
	"invoicedesk/internal/db"
	applog "invoicedesk/internal/logger"
	"invoicedesk/internal/migrate"
)

func main() {
	app := &cli.App{
		Name:  "migrate",
		Usage: "manage the postgres schema for the postgres store driver",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dsn", Usage: "postgres connection string (default: DB_DSN)", EnvVars: []string{"DB_DSN"}},
		},
		Commands: []*cli.Command{
			{Name: "up", Usage: "apply pending migrations", Action: withPool(up)},
			{Name: "down", Usage: "revert the latest migration", Action: withPool(down)},
			{Name: "version", Usage: "print the applied schema version", Action: withPool(version)},
		},
		DefaultCommand: "up",
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type poolAction func(ctx context.Context, c *cli.Context, m migrator) error

type migrator struct {
	apply    func(context.Context) error
	rollback func(context.Context) error
	version  func(context.Context) (uint, bool, error)
	logger   *zap.Logger
}

func withPool(fn poolAction) cli.ActionFunc {
	return func(c *cli.Context) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
		cfg := config.FromEnv()
		dsn := c.String("dsn")
		if dsn == "" {
			dsn = cfg.DBConnString
		}
		logger, err := applog.New(cfg.AppEnv)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx := c.Context
		pool, err := db.Connect(ctx, dsn, logger)
		if err != nil {
			return fmt.Errorf("connect db: %w", err)
		}
		defer pool.Close()

		return fn(ctx, c, migrator{
			apply:    func(ctx context.Context) error { return migrate.Apply(ctx, pool) },
			rollback: func(ctx context.Context) error { return migrate.Rollback(ctx, pool) },
			version:  func(ctx context.Context) (uint, bool, error) { return migrate.Version(ctx, pool) },
			logger:   logger,
		})
	}
}

func up(ctx context.Context, _ *cli.Context, m migrator) error {
	if err := m.apply(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	m.logger.Info("migrations applied")
	return nil
}

func down(ctx context.Context, _ *cli.Context, m migrator) error {
	if err := m.rollback(ctx); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	m.logger.Info("latest migration reverted")
	return nil
}

func version(ctx context.Context, c *cli.Context, m migrator) error {
	v, dirty, err := m.version(ctx)
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	_, err = fmt.Fprintf(c.App.Writer, "version=%d dirty=%t\n", v, dirty)
	return err
}
