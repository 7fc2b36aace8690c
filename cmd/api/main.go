package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/craftbooks/settlement-backend/internal/api"
	"github.com/craftbooks/settlement-backend/internal/application/allocation"
	"github.com/craftbooks/settlement-backend/internal/application/registry"
	"github.com/craftbooks/settlement-backend/internal/application/service"
	"github.com/craftbooks/settlement-backend/internal/domain/reconciler"
	"github.com/craftbooks/settlement-backend/internal/infrastructure/config"
	"github.com/craftbooks/settlement-backend/internal/infrastructure/logging"
	"github.com/craftbooks/settlement-backend/internal/infrastructure/storage"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Configuration file path")
	flag.Parse()

	// Local overrides; missing file is fine
	_ = godotenv.Load()

	cfg := config.LoadOrEnvWithPath(*configFile)
	logger := logging.NewScopedLogger(cfg.Logging, "api")

	repo, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer func() { _ = repo.Close() }()

	engineCfg, err := cfg.Matcher.EngineConfig()
	if err != nil {
		logger.Error("bad matcher configuration", "error", err)
		os.Exit(1)
	}

	reg := registry.NewRegistry(repo, logger)
	manager := allocation.NewManager(repo, logger)
	reconcile := service.NewReconcileService(repo, reconciler.NewEngine(engineCfg), logger)

	server := api.NewServer(cfg.Server, repo, reg, manager, reconcile, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("signal received", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}
