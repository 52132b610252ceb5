package repository

import (
	"context"
	"time"

	"github.com/yourusername/edge-calibrator/internal/models"
)

// CalibrationRepository defines the interface for calibration threshold persistence
type CalibrationRepository interface {
	Get(ctx context.Context, league, market string) (*models.CalibrationRecord, error)
	BulkUpsert(ctx context.Context, records []*models.CalibrationRecord) error
	List(ctx context.Context) ([]*models.CalibrationRecord, error)
}

// SampleRepository defines the interface for historical sample access
type SampleRepository interface {
	InsertBatch(ctx context.Context, samples []*models.Sample) error
	GetByPulledRange(ctx context.Context, start, end time.Time) ([]*models.Sample, error)
	GetByLeagueMarket(ctx context.Context, league, market string, start, end time.Time) ([]*models.Sample, error)
}
