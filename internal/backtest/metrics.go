package backtest

import (
	"encoding/json"
	"math"

	"github.com/yourusername/edge-calibrator/internal/models"
)

// logGainFloor clamps per-sample log-gain when a bet wipes out the stake, so a
// single ruin outcome produces a large negative value instead of -Inf.
const logGainFloor = 1e-9

// Metrics represents aggregate performance over a sample subset
type Metrics struct {
	Samples    int     `json:"samples"`
	Wins       int     `json:"wins"`
	HitRate    float64 `json:"hit_rate"`
	AvgEdgePct float64 `json:"avg_edge_pct"`
	AvgPrice   float64 `json:"avg_price"`
	AvgLogGain float64 `json:"avg_log_gain"`
	Sharpe     float64 `json:"sharpe"`
}

// ComputeMetrics calculates aggregate performance metrics for a set of samples.
// All rate and average fields are zero when the set is empty.
func ComputeMetrics(samples []*models.Sample) Metrics {
	if len(samples) == 0 {
		return Metrics{}
	}

	metrics := Metrics{Samples: len(samples)}
	profits := make([]float64, len(samples))

	var edgeSum, priceSum, logGainSum float64
	for i, sample := range samples {
		pnl := unitProfit(sample)
		profits[i] = pnl

		if sample.Won() {
			metrics.Wins++
		}
		edgeSum += sample.EdgePct
		priceSum += sample.PriceDecimal
		logGainSum += logGain(pnl)
	}

	count := float64(metrics.Samples)
	metrics.HitRate = float64(metrics.Wins) / count
	metrics.AvgEdgePct = edgeSum / count
	metrics.AvgPrice = priceSum / count
	metrics.AvgLogGain = logGainSum / count
	metrics.Sharpe = sharpeRatio(profits)

	return metrics
}

// ToJSON exports metrics to JSON
func (m Metrics) ToJSON() string {
	data, _ := json.Marshal(m)
	return string(data)
}

// unitProfit returns the profit on a unit stake. Prices at or below 1.0 carry no
// payout, so the stake is lost regardless of the result.
func unitProfit(sample *models.Sample) float64 {
	if sample.PriceDecimal <= 1 {
		return -1
	}
	if sample.Won() {
		return sample.PriceDecimal - 1
	}
	return -1
}

func logGain(profit float64) float64 {
	wealth := 1 + profit
	if wealth <= 0 {
		wealth = logGainFloor
	}
	return math.Log(wealth)
}

// sharpeRatio is mean profit over the population standard deviation of profit.
// It is zero with fewer than two samples or zero dispersion.
func sharpeRatio(profits []float64) float64 {
	if len(profits) < 2 {
		return 0
	}
	std := stddev(profits)
	if std == 0 {
		return 0
	}
	return average(profits) / std
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	return mean / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
