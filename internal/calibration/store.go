// Package calibration exposes calibrated alert thresholds to the live decision path.
package calibration

import (
	"context"
	"errors"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/edge-calibrator/internal/backtest"
	"github.com/yourusername/edge-calibrator/internal/metrics"
	"github.com/yourusername/edge-calibrator/internal/models"
	"github.com/yourusername/edge-calibrator/internal/repository"
)

// StoreConfig holds the defaults served when a pair has never been calibrated
type StoreConfig struct {
	DefaultTauEdge   float64
	DefaultGammaConf float64
	CacheTTL         time.Duration
}

// Store serves calibrated thresholds keyed by (league, market) with safe
// fallbacks. Reads are cached because the live alerting path calls
// ThresholdsFor on every candidate opportunity.
type Store struct {
	repo   repository.CalibrationRepository
	config StoreConfig
	cache  *cache.Cache
	logger *logrus.Logger
}

// NewStore creates a new threshold store
func NewStore(repo repository.CalibrationRepository, cfg StoreConfig, logger *logrus.Logger) (*Store, error) {
	if repo == nil {
		return nil, fmt.Errorf("calibration repository is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	return &Store{
		repo:   repo,
		config: cfg,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger,
	}, nil
}

// ThresholdsFor returns the calibrated thresholds for a (league, market) pair.
// On a miss it synthesizes a record from the configured defaults; the
// synthesized record is never written back to storage. Storage errors other
// than not-found propagate to the caller.
func (s *Store) ThresholdsFor(ctx context.Context, league, market string) (*models.CalibrationRecord, error) {
	league, market = models.NormalizeCalibrationKey(league, market)
	metrics.RecordThresholdLookup()

	key := cacheKey(league, market)
	if cached, found := s.cache.Get(key); found {
		metrics.RecordThresholdCacheHit()
		return cached.(*models.CalibrationRecord), nil
	}
	metrics.RecordThresholdCacheMiss()

	record, err := s.repo.Get(ctx, league, market)
	if errors.Is(err, models.ErrNotFound) {
		metrics.RecordThresholdDefaultServed()
		record = s.defaultRecord(league, market)
	} else if err != nil {
		return nil, err
	}

	s.cache.SetDefault(key, record)
	return record, nil
}

// BulkUpsert persists calibration records and invalidates the read cache.
// Empty input is a no-op.
func (s *Store) BulkUpsert(ctx context.Context, records []*models.CalibrationRecord) error {
	if len(records) == 0 {
		return nil
	}

	for _, record := range records {
		record.League, record.Market = models.NormalizeCalibrationKey(record.League, record.Market)
	}

	if err := s.repo.BulkUpsert(ctx, records); err != nil {
		return err
	}

	s.cache.Flush()
	s.logger.WithField("records", len(records)).Info("Persisted calibration records")
	return nil
}

// ListAll returns every stored calibration record ordered by (league, market)
func (s *Store) ListAll(ctx context.Context) ([]*models.CalibrationRecord, error) {
	return s.repo.List(ctx)
}

// SaveResults converts optimizer output into persisted records, stamped with a
// single updated_at so one run is one visible generation.
func (s *Store) SaveResults(ctx context.Context, results []backtest.CalibrationResult, now time.Time) error {
	if len(results) == 0 {
		return nil
	}

	records := make([]*models.CalibrationRecord, 0, len(results))
	for _, result := range results {
		records = append(records, RecordFromResult(result, now))
	}
	return s.BulkUpsert(ctx, records)
}

func (s *Store) defaultRecord(league, market string) *models.CalibrationRecord {
	return &models.CalibrationRecord{
		League:    league,
		Market:    market,
		TauEdge:   s.config.DefaultTauEdge,
		GammaConf: s.config.DefaultGammaConf,
		Samples:   0,
		Metric:    0.0,
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// RecordFromResult builds the persisted form of one optimizer result
func RecordFromResult(result backtest.CalibrationResult, now time.Time) *models.CalibrationRecord {
	return &models.CalibrationRecord{
		League:    result.League,
		Market:    result.Market,
		TauEdge:   result.TauEdge,
		GammaConf: result.GammaConf,
		Samples:   result.Metrics.Samples,
		Metric:    result.Metric,
		UpdatedAt: now.UTC().Truncate(time.Second),
	}
}

func cacheKey(league, market string) string {
	return league + "|" + market
}
