package models

import (
	"time"
)

// Sample represents one historical betting opportunity and its settled outcome
type Sample struct {
	PulledAt     time.Time `db:"pulled_at" json:"pulled_at" validate:"required"`
	KickoffUTC   time.Time `db:"kickoff_utc" json:"kickoff_utc" validate:"required"`
	League       string    `db:"league" json:"league" validate:"required"`
	Market       string    `db:"market" json:"market" validate:"required"`
	Selection    string    `db:"selection" json:"selection" validate:"required"`
	MatchKey     string    `db:"match_key" json:"match_key" validate:"required"`
	PriceDecimal float64   `db:"price_decimal" json:"price_decimal" validate:"required,gt=0"`
	EdgePct      float64   `db:"edge_pct" json:"edge_pct"`
	Confidence   float64   `db:"confidence" json:"confidence" validate:"gte=0,lte=1"`
	Result       int       `db:"result" json:"result" validate:"gte=0,lte=1"`
}

// Won reports whether the selection won
func (s *Sample) Won() bool {
	return s.Result == 1
}

// ImpliedProbability returns the market-implied probability from the decimal price
func (s *Sample) ImpliedProbability() float64 {
	if s.PriceDecimal <= 0 {
		return 0
	}
	return 1.0 / s.PriceDecimal
}
