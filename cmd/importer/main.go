package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"invoicedesk/internal/config"
	"invoicedesk/internal/importer"
	applog "invoicedesk/internal/logger"
	"invoicedesk/internal/repository/kv"
	clientsvc "invoicedesk/internal/service/client"
	"invoicedesk/internal/storage"
)

func main() {
	app := &cli.App{
		Name:      "importer",
		Usage:     "import clients from a CSV file (columns: name, abn, address, phone, email)",
		UsageText: "importer --file clients.csv",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "path to the client CSV", Required: true},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg := config.FromEnv()
	logger, err := applog.New(cfg.AppEnv)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, err := storage.Open(c.Context, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	records := kv.NewRecords(store.Store, logger)
	imp := importer.NewCSVImporter(f, clientsvc.New(records, cfg.ClientLimit))
	count, err := imp.Run(c.Context)
	logger.Info("import finished", zap.Int("imported", count), zap.String("file", c.String("file")))
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	return nil
}
