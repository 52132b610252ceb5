package backtest

import (
	"fmt"

	"github.com/yourusername/edge-calibrator/internal/config"
)

// Validation modes supported by the window builder.
const (
	ValidationTimeKFold   = "time_kfold"
	ValidationWalkForward = "walk_forward"
)

// Optimization targets supported by the metric scorer.
const (
	TargetSharpe  = "sharpe"
	TargetHit     = "hit"
	TargetLogGain = "loggain"
)

// DefaultFolds is used when the configuration leaves the fold count unset.
const DefaultFolds = 4

// BacktestConfig holds calibration engine settings as a plain value object
type BacktestConfig struct {
	MinSamples     int
	Validation     string
	OptimTarget    string
	EdgeGrid       []float64
	ConfidenceGrid []float64
	Folds          int
	WalkStep       int
}

// FromConfig converts app config to a backtest config
func FromConfig(cfg *config.CalibrationConfig) (BacktestConfig, error) {
	if cfg == nil {
		return BacktestConfig{}, fmt.Errorf("calibration config is required")
	}

	bt := BacktestConfig{
		MinSamples:     cfg.MinSamples,
		Validation:     cfg.Validation,
		OptimTarget:    cfg.OptimTarget,
		EdgeGrid:       append([]float64(nil), cfg.EdgeGrid...),
		ConfidenceGrid: append([]float64(nil), cfg.ConfidenceGrid...),
		Folds:          cfg.Folds,
		WalkStep:       cfg.WalkStep,
	}
	if bt.Folds == 0 {
		bt.Folds = DefaultFolds
	}

	return bt, bt.Validate()
}

// Validate validates backtest config parameters
func (b BacktestConfig) Validate() error {
	if b.MinSamples < 1 {
		return fmt.Errorf("min samples must be at least 1")
	}
	if b.Validation != ValidationTimeKFold && b.Validation != ValidationWalkForward {
		return fmt.Errorf("validation mode must be %q or %q", ValidationTimeKFold, ValidationWalkForward)
	}
	if len(b.EdgeGrid) == 0 {
		return fmt.Errorf("edge grid must not be empty")
	}
	if len(b.ConfidenceGrid) == 0 {
		return fmt.Errorf("confidence grid must not be empty")
	}
	if b.Folds < 1 {
		return fmt.Errorf("folds must be at least 1")
	}
	if b.WalkStep < 0 {
		return fmt.Errorf("walk step cannot be negative")
	}
	return nil
}
