package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/edge-calibrator/internal/backtest"
	"github.com/yourusername/edge-calibrator/internal/calibration"
	"github.com/yourusername/edge-calibrator/internal/models"
)

type fakeSource struct {
	samples []*models.Sample
	err     error
	calls   int
}

func (f *fakeSource) GetByPulledRange(_ context.Context, _, _ time.Time) ([]*models.Sample, error) {
	f.calls++
	return f.samples, f.err
}

type memoryRepo struct {
	records map[string]*models.CalibrationRecord
}

func (m *memoryRepo) Get(_ context.Context, league, market string) (*models.CalibrationRecord, error) {
	record, ok := m.records[league+"|"+market]
	if !ok {
		return nil, models.ErrNotFound
	}
	return record, nil
}

func (m *memoryRepo) BulkUpsert(_ context.Context, records []*models.CalibrationRecord) error {
	for _, record := range records {
		m.records[record.League+"|"+record.Market] = record
	}
	return nil
}

func (m *memoryRepo) List(_ context.Context) ([]*models.CalibrationRecord, error) {
	out := make([]*models.CalibrationRecord, 0, len(m.records))
	for _, record := range m.records {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].League != out[j].League {
			return out[i].League < out[j].League
		}
		return out[i].Market < out[j].Market
	})
	return out, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func serviceFixtures(t *testing.T, source *fakeSource) (*CalibrationService, *memoryRepo) {
	t.Helper()

	cfg := backtest.BacktestConfig{
		MinSamples:     1,
		Validation:     backtest.ValidationTimeKFold,
		OptimTarget:    backtest.TargetHit,
		EdgeGrid:       []float64{0, 2},
		ConfidenceGrid: []float64{0, 0.5},
		Folds:          2,
	}
	engine, err := backtest.NewEngine(cfg, quietLogger())
	require.NoError(t, err)

	repo := &memoryRepo{records: make(map[string]*models.CalibrationRecord)}
	store, err := calibration.NewStore(repo, calibration.StoreConfig{
		DefaultTauEdge:   1.0,
		DefaultGammaConf: 0.5,
	}, quietLogger())
	require.NoError(t, err)

	svc, err := NewCalibrationService(engine, source, store, 30*24*time.Hour, quietLogger())
	require.NoError(t, err)

	return svc, repo
}

func runSamples() []*models.Sample {
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	samples := make([]*models.Sample, 0, 4)
	for i := 0; i < 4; i++ {
		samples = append(samples, &models.Sample{
			PulledAt:     base.Add(time.Duration(i) * time.Hour),
			League:       "EPL",
			Market:       "1X2",
			Selection:    "home",
			MatchKey:     fmt.Sprintf("match-%d", i),
			PriceDecimal: 2.0,
			EdgePct:      3.0,
			Confidence:   0.7,
			Result:       i % 2,
		})
	}
	return samples
}

func TestNewCalibrationServiceValidation(t *testing.T) {
	source := &fakeSource{}
	svc, _ := serviceFixtures(t, source)

	_, err := NewCalibrationService(nil, source, nil, time.Hour, nil)
	assert.Error(t, err)

	_, err = NewCalibrationService(svc.engine, source, svc.store, 0, nil)
	assert.Error(t, err)
}

func TestRunPersistsResults(t *testing.T) {
	source := &fakeSource{samples: runSamples()}
	svc, repo := serviceFixtures(t, source)

	summary, err := svc.Run(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Samples)
	assert.True(t, summary.Persisted)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, "EPL", summary.Results[0].League)

	_, ok := repo.records["EPL|1X2"]
	assert.True(t, ok, "expected calibrated thresholds to be persisted")
	assert.Equal(t, 1, source.calls)
}

func TestRunDryRunSkipsPersistence(t *testing.T) {
	source := &fakeSource{samples: runSamples()}
	svc, repo := serviceFixtures(t, source)

	summary, err := svc.Run(context.Background(), true)
	require.NoError(t, err)

	assert.False(t, summary.Persisted)
	require.Len(t, summary.Results, 1)
	assert.Empty(t, repo.records, "dry run must not persist")
}

func TestRunSourceError(t *testing.T) {
	source := &fakeSource{err: fmt.Errorf("connection refused")}
	svc, _ := serviceFixtures(t, source)

	_, err := svc.Run(context.Background(), false)
	assert.ErrorContains(t, err, "failed to load samples")
}

func TestRunEmptyWindow(t *testing.T) {
	source := &fakeSource{}
	svc, _ := serviceFixtures(t, source)

	_, err := svc.Run(context.Background(), false)
	assert.ErrorIs(t, err, backtest.ErrEmptyInput)
}

func TestRunOnce(t *testing.T) {
	source := &fakeSource{samples: runSamples()}
	svc, repo := serviceFixtures(t, source)

	require.NoError(t, svc.RunOnce(context.Background()))
	assert.Len(t, repo.records, 1)
}
