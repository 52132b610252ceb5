// Package main provides the entry point for the calibration CLI tool.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/edge-calibrator/internal/backtest"
	"github.com/yourusername/edge-calibrator/internal/calibration"
	"github.com/yourusername/edge-calibrator/internal/config"
	"github.com/yourusername/edge-calibrator/internal/database"
	"github.com/yourusername/edge-calibrator/internal/datasource"
	"github.com/yourusername/edge-calibrator/internal/repository"
	"github.com/yourusername/edge-calibrator/internal/service"
)

func main() {
	var (
		configPath   = flag.String("config", "config/config.yaml", "Path to config file")
		dryRun       = flag.Bool("dry-run", false, "Compute thresholds without persisting them")
		lookbackDays = flag.Int("lookback-days", 0, "Override sample lookback window in days")
		source       = flag.String("source", "db", "Sample source: db, history-api")
		output       = flag.String("output", "", "Optional CSV output path for results")
	)
	flag.Parse()

	logger := newLogger()
	ctx := context.Background()

	cfg := loadConfigWithSecrets(*configPath, logger)
	if *lookbackDays > 0 {
		cfg.Calibration.LookbackDays = *lookbackDays
	}

	btConfig, err := backtest.FromConfig(&cfg.Calibration)
	if err != nil {
		logger.Fatalf("Invalid calibration config: %v", err)
	}

	engine, err := backtest.NewEngine(btConfig, logger)
	if err != nil {
		logger.Fatalf("Failed to create engine: %v", err)
	}

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		logger.Fatalf("Failed to create repositories: %v", err)
	}

	store, err := calibration.NewStore(repos.Calibration, calibration.StoreConfig{
		DefaultTauEdge:   cfg.Thresholds.DefaultTauEdge,
		DefaultGammaConf: cfg.Thresholds.DefaultGammaConf,
		CacheTTL:         time.Duration(cfg.Thresholds.CacheTTLSeconds) * time.Second,
	}, logger)
	if err != nil {
		logger.Fatalf("Failed to create threshold store: %v", err)
	}

	sampleSource := resolveSampleSource(*source, cfg, repos, logger)
	lookback := time.Duration(cfg.Calibration.LookbackDays) * 24 * time.Hour

	svc, err := service.NewCalibrationService(engine, sampleSource, store, lookback, logger)
	if err != nil {
		logger.Fatalf("Failed to create calibration service: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"source":   *source,
		"dry_run":  *dryRun,
		"lookback": lookback.String(),
	}).Info("Starting calibration")

	summary, err := svc.Run(ctx, *dryRun)
	if err != nil {
		logger.Fatalf("Calibration failed: %v", err)
	}

	logger.Info(backtest.GenerateConsoleReport(summary.Results))

	if *output != "" {
		if err := backtest.GenerateCSVExport(summary.Results, *output); err != nil {
			logger.Fatalf("Failed to write CSV export: %v", err)
		}
		logger.WithField("path", *output).Info("Wrote CSV export")
	}
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger
}

func loadConfigWithSecrets(path string, logger *logrus.Logger) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			logger.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			logger.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func resolveSampleSource(name string, cfg *config.Config, repos *repository.Repositories, logger *logrus.Logger) service.SampleSource {
	switch name {
	case "history-api":
		source, err := datasource.NewHistoryAPISource(&cfg.History, logger)
		if err != nil {
			logger.Fatalf("Failed to create history API source: %v", err)
		}
		return source
	default:
		return repos.Sample
	}
}
