// Package main provides the threshold inspection and serving CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/edge-calibrator/internal/backtest"
	"github.com/yourusername/edge-calibrator/internal/calibration"
	"github.com/yourusername/edge-calibrator/internal/config"
	"github.com/yourusername/edge-calibrator/internal/database"
	"github.com/yourusername/edge-calibrator/internal/health"
	"github.com/yourusername/edge-calibrator/internal/logger"
	"github.com/yourusername/edge-calibrator/internal/metrics"
	"github.com/yourusername/edge-calibrator/internal/repository"
	"github.com/yourusername/edge-calibrator/internal/scheduler"
	"github.com/yourusername/edge-calibrator/internal/service"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

var (
	configFile string
	appLogger  *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
	store      *calibration.Store
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(serveCmd)
}

var rootCmd = &cobra.Command{
	Use:   "thresholds",
	Short: "Inspect and serve calibrated alert thresholds",
	Long:  `Reads the calibration store and exposes per-(league, market) edge and confidence thresholds.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every stored calibration record",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := store.ListAll(cmd.Context())
		if err != nil {
			return err
		}
		for _, record := range records {
			fmt.Printf("%s / %s: tau_edge=%.4f gamma_conf=%.4f samples=%d metric=%.4f updated=%s\n",
				record.League, record.Market, record.TauEdge, record.GammaConf,
				record.Samples, record.Metric, record.UpdatedAt.Format(time.RFC3339))
		}
		if len(records) == 0 {
			fmt.Println("no calibrations stored")
		}
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <league> <market>",
	Short: "Look up thresholds for one (league, market) pair",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		record, err := store.ThresholdsFor(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		origin := "calibrated"
		if record.IsDefault() {
			origin = "default"
		}
		fmt.Printf("%s / %s (%s): tau_edge=%.4f gamma_conf=%.4f samples=%d metric=%.4f\n",
			record.League, record.Market, origin, record.TauEdge, record.GammaConf,
			record.Samples, record.Metric)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the health/metrics servers and the recalibration scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		if err := config.LoadSecretsFromAWS(loaded, os.Getenv("AWS_REGION"), os.Getenv("AWS_SECRET_NAME")); err != nil {
			return err
		}
	}
	if err := config.Validate(loaded); err != nil {
		return err
	}
	cfg = loaded
	return nil
}

func setupDependencies(ctx context.Context) error {
	appLogger = logger.NewLogger(cfg.App.LogLevel)

	var err error
	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return err
	}

	store, err = calibration.NewStore(repos.Calibration, calibration.StoreConfig{
		DefaultTauEdge:   cfg.Thresholds.DefaultTauEdge,
		DefaultGammaConf: cfg.Thresholds.DefaultGammaConf,
		CacheTTL:         time.Duration(cfg.Thresholds.CacheTTLSeconds) * time.Second,
	}, appLogger)
	return err
}

func runServe(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        cfg.Health.Port,
		Logger:      appLogger,
		DB:          db,
	})
	if err := healthServer.Start(ctx); err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLogger.WithError(err).Error("Metrics server error")
			}
		}()
		defer metricsServer.Close()
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		btConfig, err := backtest.FromConfig(&cfg.Calibration)
		if err != nil {
			return err
		}
		engine, err := backtest.NewEngine(btConfig, appLogger)
		if err != nil {
			return err
		}
		svc, err := service.NewCalibrationService(
			engine, repos.Sample, store,
			time.Duration(cfg.Calibration.LookbackDays)*24*time.Hour,
			appLogger,
		)
		if err != nil {
			return err
		}

		sched = scheduler.NewScheduler(appLogger)
		if err := sched.ScheduleRecalibration(cfg.Scheduler.RecalibrateCron, svc); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
	}

	healthServer.SetReady(true)
	appLogger.Info("Threshold service started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		appLogger.WithField("signal", sig.String()).Info("Shutting down")
	case <-ctx.Done():
	}

	return nil
}
