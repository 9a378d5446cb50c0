package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"invoicedesk/internal/config"
	"invoicedesk/internal/gate"
	"invoicedesk/internal/httpserver"
	applog "invoicedesk/internal/logger"
	"invoicedesk/internal/metrics"
	"invoicedesk/internal/repository/kv"
	authsvc "invoicedesk/internal/service/auth"
	clientsvc "invoicedesk/internal/service/client"
	"invoicedesk/internal/service/workspace"
	"invoicedesk/internal/session"
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
		logger.Fatal("open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	records := kv.NewRecords(store.Store, logger)
	clients := clientsvc.New(records, cfg.ClientLimit)
	if existing, err := clients.List(ctx); err == nil {
		m.SetClients(len(existing))
	}
	accounts := authsvc.New(records)

	node, err := snowflake.NewNode(cfg.NodeID)
	if err != nil {
		logger.Fatal("init id node", zap.Int64("node_id", cfg.NodeID), zap.Error(err))
	}

	g := gate.New(cfg.GateDelay, cfg.ArtifactTTL, logger, gate.WithObserver(m.ObserveGate))
	defer g.Close()

	ws, err := workspace.New(ctx, workspace.Deps{
		Clients: &countingDirectory{Directory: clients, metrics: m},
		Auth:    accounts,
		Gate:    g,
		Node:    node,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("init workspace", zap.Error(err))
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Workspace:   ws,
		Sessions:    session.NewManager(cfg.JWTSecret, cfg.SessionTTL),
		Metrics:     m,
		Ready:       store.Ready,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr), zap.String("store", store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
