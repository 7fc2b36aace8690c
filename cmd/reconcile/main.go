package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/craftbooks/settlement-backend/internal/adapters/bankcsv"
	"github.com/craftbooks/settlement-backend/internal/application/service"
	"github.com/craftbooks/settlement-backend/internal/cli"
	"github.com/craftbooks/settlement-backend/internal/domain/reconciler"
	"github.com/craftbooks/settlement-backend/internal/infrastructure/config"
	"github.com/craftbooks/settlement-backend/internal/infrastructure/logging"
	"github.com/craftbooks/settlement-backend/internal/infrastructure/storage"
)

func main() {
	flags := cli.ParseReconcileFlags()

	_ = godotenv.Load()

	cfg := loadConfig(flags.ConfigFile)
	if flags.Verbose {
		cfg.Logging.Level = "debug"
	}
	logger := logging.NewScopedLogger(cfg.Logging, "reconcile")

	opts, err := flags.ToReconcileOptions()
	if err != nil {
		logger.Error("bad date flag", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer func() { _ = repo.Close() }()

	// Optional statement import before matching
	if flags.CSVFile != "" {
		records, err := bankcsv.NewReader(flags.BankAccountID).ReadFile(flags.CSVFile)
		if err != nil {
			logger.Error("failed to read bank statement", "error", err)
			os.Exit(1)
		}
		if err := repo.SaveBankRecords(records); err != nil {
			logger.Error("failed to import bank records", "error", err)
			os.Exit(1)
		}
		logger.Info("imported bank statement", "file", flags.CSVFile, "records", len(records))
	}

	engineCfg, err := cfg.Matcher.EngineConfig()
	if err != nil {
		logger.Error("bad matcher configuration", "error", err)
		os.Exit(1)
	}

	reconcile := service.NewReconcileService(repo, reconciler.NewEngine(engineCfg), logger)

	cli.PrintHeader(flags.BankAccountID, flags.Apply)

	result, err := reconcile.Run(opts)
	if err != nil {
		logger.Error("reconciliation failed", "error", err)
		os.Exit(1)
	}

	cli.PrintReconcileSummary(result, flags.Apply)
}

func loadConfig(path string) *config.Config {
	if path != "" {
		if cfg, err := config.Load(path); err == nil {
			return cfg
		}
	}
	return config.LoadOrEnv()
}
