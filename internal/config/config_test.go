package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfigPath = "testdata/valid_config.yaml"

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.App.Name != "edge-calibrator" {
		t.Errorf("expected app name edge-calibrator, got %s", cfg.App.Name)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development environment")
	}
	if cfg.Calibration.MinSamples != 30 {
		t.Errorf("expected min_samples 30, got %d", cfg.Calibration.MinSamples)
	}
	if cfg.Calibration.Validation != "time_kfold" {
		t.Errorf("expected time_kfold validation, got %s", cfg.Calibration.Validation)
	}
	if len(cfg.Calibration.EdgeGrid) != 6 {
		t.Errorf("expected 6 edge grid points, got %d", len(cfg.Calibration.EdgeGrid))
	}
	if cfg.Thresholds.DefaultTauEdge != 3.0 {
		t.Errorf("expected default tau 3.0, got %v", cfg.Thresholds.DefaultTauEdge)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("expected database port 5432, got %d", cfg.Database.Port)
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("testdata/does_not_exist.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "sekrit")

	raw, err := os.ReadFile(validConfigPath)
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	patched := strings.Replace(string(raw), "password: calibrator", "password: ${TEST_DB_PASSWORD}", 1)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(patched), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Password != "sekrit" {
		t.Errorf("expected expanded password, got %q", cfg.Database.Password)
	}
}

func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.App.Environment != "development" {
		t.Errorf("expected default environment, got %s", cfg.App.Environment)
	}
	if cfg.Calibration.Folds != 4 {
		t.Errorf("expected default folds 4, got %d", cfg.Calibration.Folds)
	}
	if cfg.Calibration.OptimTarget != "loggain" {
		t.Errorf("expected default optim target, got %s", cfg.Calibration.OptimTarget)
	}
	if cfg.Thresholds.CacheTTLSeconds != 60 {
		t.Errorf("expected default cache TTL, got %d", cfg.Thresholds.CacheTTLSeconds)
	}
	if cfg.Scheduler.RecalibrateCron != "0 4 * * *" {
		t.Errorf("expected default cron, got %s", cfg.Scheduler.RecalibrateCron)
	}
}

func TestValidateRejectsBadValidationMode(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Calibration.Validation = "random_split"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for unknown validation mode")
	}
}

func TestValidateRejectsBadOptimTarget(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Calibration.OptimTarget = "drawdown"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for unknown optimization target")
	}
}

func TestValidateCrossFieldWalkStep(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A walk step only makes sense for walk_forward validation
	cfg.Calibration.WalkStep = 50
	if err := Validate(cfg); err == nil {
		t.Fatal("expected cross-field error for walk_step with time_kfold")
	}

	cfg.Calibration.Validation = "walk_forward"
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected valid config for walk_forward with step, got %v", err)
	}
}

func TestValidateCrossFieldHistoryBaseURL(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.History.Enabled = true
	cfg.History.BaseURL = ""
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error when history source is enabled without a base URL")
	}
}

func TestValidateProductionRequiresSSL(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.App.Environment = "production"
	cfg.Database.SSLMode = "disable"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for disabled SSL in production")
	}
}
