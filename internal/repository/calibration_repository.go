package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/edge-calibrator/internal/database"
	"github.com/yourusername/edge-calibrator/internal/models"
)

// PostgresCalibrationRepository implements CalibrationRepository for PostgreSQL
type PostgresCalibrationRepository struct {
	db *database.DB
}

// NewPostgresCalibrationRepository creates a new calibration repository
func NewPostgresCalibrationRepository(db *database.DB) CalibrationRepository {
	return &PostgresCalibrationRepository{db: db}
}

// Get retrieves the calibration record for an exact (league, market) key
func (r *PostgresCalibrationRepository) Get(ctx context.Context, league, market string) (*models.CalibrationRecord, error) {
	query := `
		SELECT league, market, tau_edge, gamma_conf, samples, metric, updated_at
		FROM calibrations
		WHERE league = $1 AND market = $2
	`

	record := &models.CalibrationRecord{}
	err := r.db.GetPool().QueryRow(ctx, query, league, market).Scan(
		&record.League, &record.Market, &record.TauEdge, &record.GammaConf,
		&record.Samples, &record.Metric, &record.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query calibration: %w", err)
	}

	return record, nil
}

// BulkUpsert inserts or replaces calibration records keyed by (league, market)
// inside a single transaction, so a partial write is never visible. Empty input
// is a no-op.
func (r *PostgresCalibrationRepository) BulkUpsert(ctx context.Context, records []*models.CalibrationRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO calibrations (league, market, tau_edge, gamma_conf, samples, metric, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (league, market) DO UPDATE SET
			tau_edge = EXCLUDED.tau_edge,
			gamma_conf = EXCLUDED.gamma_conf,
			samples = EXCLUDED.samples,
			metric = EXCLUDED.metric,
			updated_at = EXCLUDED.updated_at
	`

	tx, err := r.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, record := range records {
		_, err := tx.Exec(ctx, query,
			record.League, record.Market, record.TauEdge, record.GammaConf,
			record.Samples, record.Metric, record.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert calibration for %s/%s: %w", record.League, record.Market, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit calibration upsert: %w", err)
	}

	return nil
}

// List retrieves every stored calibration record ordered by (league, market)
func (r *PostgresCalibrationRepository) List(ctx context.Context) ([]*models.CalibrationRecord, error) {
	query := `
		SELECT league, market, tau_edge, gamma_conf, samples, metric, updated_at
		FROM calibrations
		ORDER BY league ASC, market ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query calibrations: %w", err)
	}
	defer rows.Close()

	var records []*models.CalibrationRecord
	for rows.Next() {
		record := &models.CalibrationRecord{}
		err := rows.Scan(
			&record.League, &record.Market, &record.TauEdge, &record.GammaConf,
			&record.Samples, &record.Metric, &record.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calibration: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
