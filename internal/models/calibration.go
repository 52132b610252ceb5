package models

import (
	"strings"
	"time"
)

// CalibrationRecord represents the persisted thresholds for one (league, market) pair
type CalibrationRecord struct {
	League    string    `db:"league" json:"league" validate:"required"`
	Market    string    `db:"market" json:"market" validate:"required"`
	TauEdge   float64   `db:"tau_edge" json:"tau_edge"`
	GammaConf float64   `db:"gamma_conf" json:"gamma_conf" validate:"gte=0,lte=1"`
	Samples   int       `db:"samples" json:"samples" validate:"gte=0"`
	Metric    float64   `db:"metric" json:"metric"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NormalizeCalibrationKey canonicalizes a (league, market) lookup key.
// Leagues keep their casing; markets are upper-cased ("1x2" and "1X2" are the same market).
func NormalizeCalibrationKey(league, market string) (string, string) {
	return strings.TrimSpace(league), strings.ToUpper(strings.TrimSpace(market))
}

// IsDefault reports whether the record was synthesized from configured defaults
// rather than loaded from storage.
func (c *CalibrationRecord) IsDefault() bool {
	return c.Samples == 0 && c.Metric == 0
}
