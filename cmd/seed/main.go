package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"invoicedesk/internal/config"
	applog "invoicedesk/internal/logger"
	"invoicedesk/internal/repository/kv"
	"invoicedesk/internal/seed"
	authsvc "invoicedesk/internal/service/auth"
	clientsvc "invoicedesk/internal/service/client"
	"invoicedesk/internal/storage"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("load .env: %v", err)
	}
	cfg := config.FromEnv()
	logger, err := applog.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer store.Close()

	records := kv.NewRecords(store.Store, logger)
	if err := seed.Apply(ctx, authsvc.New(records), clientsvc.New(records, cfg.ClientLimit)); err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}

	logger.Info("seed applied", zap.String("store", store.Driver), zap.String("account", seed.DemoAccount.Email))
}
