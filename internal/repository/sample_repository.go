package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/edge-calibrator/internal/database"
	"github.com/yourusername/edge-calibrator/internal/models"
)

const sampleColumns = `pulled_at, kickoff_utc, league, market, selection, match_key,
		       price_decimal, edge_pct, confidence, result`

// PostgresSampleRepository implements SampleRepository for PostgreSQL
type PostgresSampleRepository struct {
	db *database.DB
}

// NewPostgresSampleRepository creates a new sample repository
func NewPostgresSampleRepository(db *database.DB) SampleRepository {
	return &PostgresSampleRepository{db: db}
}

// InsertBatch inserts multiple samples using high-performance batch insert
func (r *PostgresSampleRepository) InsertBatch(ctx context.Context, samples []*models.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	columns := []string{
		"pulled_at", "kickoff_utc", "league", "market", "selection", "match_key",
		"price_decimal", "edge_pct", "confidence", "result",
	}

	copyFromSource := make([][]interface{}, len(samples))
	for i, s := range samples {
		copyFromSource[i] = []interface{}{
			s.PulledAt, s.KickoffUTC, s.League, s.Market, s.Selection, s.MatchKey,
			s.PriceDecimal, s.EdgePct, s.Confidence, s.Result,
		}
	}

	count, err := r.db.GetPool().CopyFrom(ctx, pgx.Identifier{"samples"}, columns, pgx.CopyFromRows(copyFromSource))
	if err != nil {
		return fmt.Errorf("failed to batch insert samples: %w", err)
	}

	if count != int64(len(samples)) {
		return fmt.Errorf("inserted %d rows, expected %d", count, len(samples))
	}

	return nil
}

// GetByPulledRange retrieves samples observed within a time range, ordered ascending
func (r *PostgresSampleRepository) GetByPulledRange(ctx context.Context, start, end time.Time) ([]*models.Sample, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM samples
		WHERE pulled_at >= $1 AND pulled_at <= $2
		ORDER BY pulled_at ASC
	`, sampleColumns)

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

// GetByLeagueMarket retrieves samples for one (league, market) pair within a time range
func (r *PostgresSampleRepository) GetByLeagueMarket(ctx context.Context, league, market string, start, end time.Time) ([]*models.Sample, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM samples
		WHERE league = $1 AND market = $2 AND pulled_at >= $3 AND pulled_at <= $4
		ORDER BY pulled_at ASC
	`, sampleColumns)

	rows, err := r.db.GetPool().Query(ctx, query, league, market, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples by league/market: %w", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

func scanSamples(rows pgx.Rows) ([]*models.Sample, error) {
	var samples []*models.Sample
	for rows.Next() {
		sample := &models.Sample{}
		err := rows.Scan(
			&sample.PulledAt, &sample.KickoffUTC, &sample.League, &sample.Market,
			&sample.Selection, &sample.MatchKey, &sample.PriceDecimal,
			&sample.EdgePct, &sample.Confidence, &sample.Result,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		samples = append(samples, sample)
	}

	return samples, rows.Err()
}
