package backtest

import (
	"errors"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/edge-calibrator/internal/models"
)

// ErrEmptyInput is returned when Calibrate is given zero samples.
var ErrEmptyInput = errors.New("no samples provided")

// Engine orchestrates calibration runs over historical samples
type Engine struct {
	config BacktestConfig
	logger *logrus.Logger
}

// NewEngine creates a new calibration engine
func NewEngine(cfg BacktestConfig, logger *logrus.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &Engine{
		config: cfg,
		logger: logger,
	}, nil
}

// Config returns the engine configuration
func (e *Engine) Config() BacktestConfig {
	return e.config
}

// Logger returns the engine logger
func (e *Engine) Logger() *logrus.Logger {
	return e.logger
}

type groupKey struct {
	league string
	market string
}

// Calibrate groups samples by (league, market), optimizes thresholds per group
// and returns one result per group with enough data. Groups below MinSamples or
// without a viable grid point are silently omitted; output is sorted by
// (league, market) for determinism. A scoring error on any group aborts the
// whole call.
func (e *Engine) Calibrate(samples []*models.Sample) ([]CalibrationResult, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyInput
	}

	ordered := make([]*models.Sample, len(samples))
	copy(ordered, samples)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PulledAt.Before(ordered[j].PulledAt)
	})

	groups := make(map[groupKey][]*models.Sample)
	for _, sample := range ordered {
		key := groupKey{league: sample.League, market: sample.Market}
		groups[key] = append(groups[key], sample)
	}

	keys := make([]groupKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].league != keys[j].league {
			return keys[i].league < keys[j].league
		}
		return keys[i].market < keys[j].market
	})

	results := make([]CalibrationResult, 0, len(keys))
	for _, key := range keys {
		group := groups[key]
		result, err := OptimizeGroup(group, e.config)
		if err != nil {
			return nil, err
		}
		if result == nil {
			e.logger.WithFields(logrus.Fields{
				"league":  key.league,
				"market":  key.market,
				"samples": len(group),
			}).Debug("Skipping group with insufficient data")
			continue
		}

		e.logger.WithFields(logrus.Fields{
			"league":     result.League,
			"market":     result.Market,
			"tau_edge":   result.TauEdge,
			"gamma_conf": result.GammaConf,
			"metric":     result.Metric,
			"samples":    result.Metrics.Samples,
		}).Info("Calibrated threshold pair")

		results = append(results, *result)
	}

	return results, nil
}

// FilterRecent returns the samples pulled at or after now-window. It is a
// standalone filter for operational tooling; calibration itself never calls it.
func FilterRecent(samples []*models.Sample, window time.Duration, now time.Time) []*models.Sample {
	cutoff := now.Add(-window)
	filtered := make([]*models.Sample, 0, len(samples))
	for _, sample := range samples {
		if sample.PulledAt.Before(cutoff) {
			continue
		}
		filtered = append(filtered, sample)
	}
	return filtered
}
