// Package service wires the calibration engine to sample sources and the threshold store.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/edge-calibrator/internal/backtest"
	"github.com/yourusername/edge-calibrator/internal/calibration"
	"github.com/yourusername/edge-calibrator/internal/metrics"
	"github.com/yourusername/edge-calibrator/internal/models"
)

// SampleSource supplies historical samples for a pulled_at range
type SampleSource interface {
	GetByPulledRange(ctx context.Context, start, end time.Time) ([]*models.Sample, error)
}

// RunSummary describes one completed calibration run
type RunSummary struct {
	RunID     uuid.UUID                    `json:"run_id"`
	StartedAt time.Time                    `json:"started_at"`
	Duration  time.Duration                `json:"duration"`
	Samples   int                          `json:"samples"`
	Results   []backtest.CalibrationResult `json:"results"`
	Persisted bool                         `json:"persisted"`
}

// CalibrationService orchestrates a full calibration run: load samples, optimize
// thresholds per (league, market) group, persist the results.
type CalibrationService struct {
	engine   *backtest.Engine
	source   SampleSource
	store    *calibration.Store
	lookback time.Duration
	logger   *logrus.Logger
}

// NewCalibrationService creates a new calibration service
func NewCalibrationService(engine *backtest.Engine, source SampleSource, store *calibration.Store, lookback time.Duration, logger *logrus.Logger) (*CalibrationService, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if source == nil {
		return nil, fmt.Errorf("sample source is required")
	}
	if store == nil {
		return nil, fmt.Errorf("threshold store is required")
	}
	if lookback <= 0 {
		return nil, fmt.Errorf("lookback must be positive")
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &CalibrationService{
		engine:   engine,
		source:   source,
		store:    store,
		lookback: lookback,
		logger:   logger,
	}, nil
}

// Run executes one calibration pass over the lookback window and persists the
// resulting thresholds unless dryRun is set.
func (s *CalibrationService) Run(ctx context.Context, dryRun bool) (*RunSummary, error) {
	runID := uuid.New()
	startedAt := time.Now().UTC()
	log := s.logger.WithFields(logrus.Fields{"run_id": runID, "dry_run": dryRun})

	samples, err := s.source.GetByPulledRange(ctx, startedAt.Add(-s.lookback), startedAt)
	if err != nil {
		metrics.RecordCalibrationRunError()
		return nil, fmt.Errorf("failed to load samples: %w", err)
	}

	log.WithField("samples", len(samples)).Info("Starting calibration run")

	results, err := s.engine.Calibrate(samples)
	if err != nil {
		metrics.RecordCalibrationRunError()
		return nil, err
	}

	if !dryRun {
		if err := s.store.SaveResults(ctx, results, startedAt); err != nil {
			metrics.RecordCalibrationRunError()
			return nil, fmt.Errorf("failed to persist calibration results: %w", err)
		}
	}

	duration := time.Since(startedAt)
	metrics.RecordCalibrationRun(duration.Seconds())
	for range results {
		metrics.RecordGroupCalibrated()
	}
	metrics.UpdateCalibratedPairs(float64(len(results)))
	metrics.UpdateLastRunSamples(float64(len(samples)))
	metrics.UpdateLastRunTimestamp(float64(startedAt.Unix()))

	log.WithFields(logrus.Fields{
		"pairs":    len(results),
		"duration": duration.String(),
	}).Info("Calibration run completed")

	return &RunSummary{
		RunID:     runID,
		StartedAt: startedAt,
		Duration:  duration,
		Samples:   len(samples),
		Results:   results,
		Persisted: !dryRun,
	}, nil
}

// RunOnce satisfies the scheduler job contract
func (s *CalibrationService) RunOnce(ctx context.Context) error {
	_, err := s.Run(ctx, false)
	return err
}
