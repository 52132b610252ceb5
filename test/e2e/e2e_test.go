//go:build e2e

package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/edge-calibrator/internal/backtest"
	"github.com/yourusername/edge-calibrator/internal/calibration"
	"github.com/yourusername/edge-calibrator/internal/config"
	"github.com/yourusername/edge-calibrator/internal/database"
	"github.com/yourusername/edge-calibrator/internal/datasource"
	"github.com/yourusername/edge-calibrator/internal/repository"
	"github.com/yourusername/edge-calibrator/internal/service"
	"github.com/yourusername/edge-calibrator/test/helpers"
)

// TestCalibrationPipeline runs the full pipeline against a live database:
// samples served over HTTP, thresholds optimized per (league, market) pair,
// results persisted and then served back through the threshold store.
func TestCalibrationPipeline(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	ctx := context.Background()
	_, err := db.GetPool().Exec(ctx, "TRUNCATE TABLE calibrations")
	require.NoError(t, err)

	base := time.Now().UTC().Add(-7 * 24 * time.Hour).Truncate(time.Hour)
	specs := []helpers.SampleSpec{
		{League: "EPL", Market: "1X2", EdgePct: 1.0, Confidence: 0.30, Price: 2.00, Result: 0},
		{League: "EPL", Market: "1X2", EdgePct: 2.0, Confidence: 0.45, Price: 2.10, Result: 0},
		{League: "EPL", Market: "1X2", EdgePct: 4.5, Confidence: 0.90, Price: 2.20, Result: 1},
		{League: "EPL", Market: "1X2", EdgePct: 5.0, Confidence: 0.92, Price: 2.40, Result: 1},
		{League: "EPL", Market: "1X2", EdgePct: 3.0, Confidence: 0.60, Price: 1.95, Result: 0},
		{League: "EPL", Market: "1X2", EdgePct: 4.2, Confidence: 0.50, Price: 2.05, Result: 0},
	}
	samples := helpers.MakeSamples(base, specs)
	server := helpers.ServeHistoryAPI(t, samples)

	source, err := datasource.NewHistoryAPISource(&config.HistoryAPIConfig{
		Enabled: true,
		BaseURL: server.URL,
	}, nil)
	require.NoError(t, err)
	defer source.Close()

	engine, err := backtest.NewEngine(backtest.BacktestConfig{
		MinSamples:     5,
		Validation:     backtest.ValidationTimeKFold,
		OptimTarget:    backtest.TargetLogGain,
		EdgeGrid:       []float64{0, 2, 4},
		ConfidenceGrid: []float64{0, 0.5, 0.8},
		Folds:          2,
	}, nil)
	require.NoError(t, err)

	repos, err := repository.NewRepositories(db)
	require.NoError(t, err)

	store, err := calibration.NewStore(repos.Calibration, calibration.StoreConfig{
		DefaultTauEdge:   3.0,
		DefaultGammaConf: 0.55,
	}, nil)
	require.NoError(t, err)

	svc, err := service.NewCalibrationService(engine, source, store, 30*24*time.Hour, nil)
	require.NoError(t, err)

	summary, err := svc.Run(ctx, false)
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)
	assert.True(t, summary.Persisted)
	assert.Equal(t, len(specs), summary.Samples)

	// Calibrated thresholds round-trip through the store
	record, err := store.ThresholdsFor(ctx, "EPL", "1X2")
	require.NoError(t, err)
	assert.False(t, record.IsDefault())
	assert.Equal(t, summary.Results[0].TauEdge, record.TauEdge)
	assert.Equal(t, summary.Results[0].GammaConf, record.GammaConf)

	// An uncalibrated pair still falls back to the configured defaults
	fallback, err := store.ThresholdsFor(ctx, "SPL", "OU25")
	require.NoError(t, err)
	assert.True(t, fallback.IsDefault())
	assert.Equal(t, 3.0, fallback.TauEdge)
}
