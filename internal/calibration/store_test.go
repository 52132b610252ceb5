package calibration

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/edge-calibrator/internal/backtest"
	"github.com/yourusername/edge-calibrator/internal/models"
)

// fakeCalibrationRepo is an in-memory stand-in for the Postgres repository
type fakeCalibrationRepo struct {
	records map[string]*models.CalibrationRecord
	gets    int
	upserts int
}

func newFakeRepo() *fakeCalibrationRepo {
	return &fakeCalibrationRepo{records: make(map[string]*models.CalibrationRecord)}
}

func (f *fakeCalibrationRepo) Get(_ context.Context, league, market string) (*models.CalibrationRecord, error) {
	f.gets++
	record, ok := f.records[league+"|"+market]
	if !ok {
		return nil, models.ErrNotFound
	}
	clone := *record
	return &clone, nil
}

func (f *fakeCalibrationRepo) BulkUpsert(_ context.Context, records []*models.CalibrationRecord) error {
	f.upserts++
	for _, record := range records {
		clone := *record
		f.records[record.League+"|"+record.Market] = &clone
	}
	return nil
}

func (f *fakeCalibrationRepo) List(_ context.Context) ([]*models.CalibrationRecord, error) {
	out := make([]*models.CalibrationRecord, 0, len(f.records))
	for _, record := range f.records {
		clone := *record
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].League != out[j].League {
			return out[i].League < out[j].League
		}
		return out[i].Market < out[j].Market
	})
	return out, nil
}

func storeConfig() StoreConfig {
	return StoreConfig{
		DefaultTauEdge:   3.0,
		DefaultGammaConf: 0.55,
		CacheTTL:         time.Minute,
	}
}

func TestThresholdsForServesDefaults(t *testing.T) {
	repo := newFakeRepo()
	store, err := NewStore(repo, storeConfig(), nil)
	require.NoError(t, err)

	record, err := store.ThresholdsFor(context.Background(), "UNKNOWN", "UNKNOWN")
	require.NoError(t, err)

	assert.Equal(t, 3.0, record.TauEdge)
	assert.Equal(t, 0.55, record.GammaConf)
	assert.Equal(t, 0, record.Samples)
	assert.True(t, record.IsDefault())

	// Defaults are served, never written back
	assert.Empty(t, repo.records)
}

func TestThresholdsForRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	store, err := NewStore(repo, storeConfig(), nil)
	require.NoError(t, err)

	ctx := context.Background()
	saved := &models.CalibrationRecord{
		League:    "EPL",
		Market:    "1X2",
		TauEdge:   4.5,
		GammaConf: 0.8,
		Samples:   120,
		Metric:    0.12,
		UpdatedAt: time.Date(2026, 5, 1, 4, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.BulkUpsert(ctx, []*models.CalibrationRecord{saved}))

	record, err := store.ThresholdsFor(ctx, "EPL", "1X2")
	require.NoError(t, err)
	assert.Equal(t, 4.5, record.TauEdge)
	assert.Equal(t, 0.8, record.GammaConf)
	assert.Equal(t, 120, record.Samples)
	assert.False(t, record.IsDefault())
}

func TestThresholdsForNormalizesKey(t *testing.T) {
	repo := newFakeRepo()
	store, err := NewStore(repo, storeConfig(), nil)
	require.NoError(t, err)

	ctx := context.Background()
	saved := &models.CalibrationRecord{League: " EPL ", Market: " 1x2 ", TauEdge: 2.0, GammaConf: 0.6, Samples: 50}
	require.NoError(t, store.BulkUpsert(ctx, []*models.CalibrationRecord{saved}))

	// Stored under the canonical key
	_, ok := repo.records["EPL|1X2"]
	require.True(t, ok, "expected record stored under normalized key")

	record, err := store.ThresholdsFor(ctx, "EPL ", "1x2")
	require.NoError(t, err)
	assert.Equal(t, "1X2", record.Market)
	assert.Equal(t, 50, record.Samples)
}

func TestThresholdsForCaches(t *testing.T) {
	repo := newFakeRepo()
	store, err := NewStore(repo, storeConfig(), nil)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = store.ThresholdsFor(ctx, "EPL", "1X2")
	require.NoError(t, err)
	_, err = store.ThresholdsFor(ctx, "EPL", "1X2")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.gets, "second lookup should hit the cache")
}

func TestBulkUpsertInvalidatesCache(t *testing.T) {
	repo := newFakeRepo()
	store, err := NewStore(repo, storeConfig(), nil)
	require.NoError(t, err)

	ctx := context.Background()

	// Prime the cache with the default record
	record, err := store.ThresholdsFor(ctx, "EPL", "1X2")
	require.NoError(t, err)
	assert.True(t, record.IsDefault())

	fresh := &models.CalibrationRecord{League: "EPL", Market: "1X2", TauEdge: 5.0, GammaConf: 0.9, Samples: 200}
	require.NoError(t, store.BulkUpsert(ctx, []*models.CalibrationRecord{fresh}))

	record, err = store.ThresholdsFor(ctx, "EPL", "1X2")
	require.NoError(t, err)
	assert.Equal(t, 5.0, record.TauEdge)
	assert.False(t, record.IsDefault())
}

func TestBulkUpsertEmptyIsNoOp(t *testing.T) {
	repo := newFakeRepo()
	store, err := NewStore(repo, storeConfig(), nil)
	require.NoError(t, err)

	require.NoError(t, store.BulkUpsert(context.Background(), nil))
	assert.Equal(t, 0, repo.upserts)
}

func TestBulkUpsertIdempotent(t *testing.T) {
	repo := newFakeRepo()
	store, err := NewStore(repo, storeConfig(), nil)
	require.NoError(t, err)

	ctx := context.Background()
	record := &models.CalibrationRecord{League: "EPL", Market: "1X2", TauEdge: 4.0, GammaConf: 0.7, Samples: 80}
	require.NoError(t, store.BulkUpsert(ctx, []*models.CalibrationRecord{record}))
	require.NoError(t, store.BulkUpsert(ctx, []*models.CalibrationRecord{record}))

	records, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSaveResultsStampsGeneration(t *testing.T) {
	repo := newFakeRepo()
	store, err := NewStore(repo, storeConfig(), nil)
	require.NoError(t, err)

	now := time.Date(2026, 5, 2, 4, 0, 0, 123456789, time.UTC)
	results := []backtest.CalibrationResult{
		{League: "EPL", Market: "1X2", TauEdge: 4, GammaConf: 0.9, Metric: 0.89, Metrics: backtest.Metrics{Samples: 2}},
		{League: "SPL", Market: "OU25", TauEdge: 2, GammaConf: 0.5, Metric: 0.04, Metrics: backtest.Metrics{Samples: 40}},
	}

	require.NoError(t, store.SaveResults(context.Background(), results, now))

	records, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	want := now.Truncate(time.Second)
	for _, record := range records {
		assert.Equal(t, want, record.UpdatedAt)
	}
	assert.Equal(t, 2, records[0].Samples)
	assert.Equal(t, 40, records[1].Samples)
}
