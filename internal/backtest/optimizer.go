package backtest

import (
	"math"

	"github.com/yourusername/edge-calibrator/internal/models"
)

// CalibrationResult represents the optimizer output for one (league, market) pair
type CalibrationResult struct {
	League    string  `json:"league"`
	Market    string  `json:"market"`
	TauEdge   float64 `json:"tau_edge"`
	GammaConf float64 `json:"gamma_conf"`
	Metric    float64 `json:"metric"`
	Metrics   Metrics `json:"metrics"`
}

// OptimizeGroup grid-searches (edge, confidence) threshold pairs for one
// (league, market) group and returns the best pair by the configured objective.
// It returns nil when the group is below MinSamples or when no grid point
// admits a single sample; ties keep the first-seen pair in grid order
// (edge outer, confidence inner, as supplied).
func OptimizeGroup(samples []*models.Sample, cfg BacktestConfig) (*CalibrationResult, error) {
	if len(samples) < cfg.MinSamples {
		return nil, nil
	}

	windows := BuildWindows(samples, cfg)

	best := math.Inf(-1)
	var result *CalibrationResult

	for _, tau := range cfg.EdgeGrid {
		for _, gamma := range cfg.ConfidenceGrid {
			candidates := pooledCandidates(windows, tau, gamma)
			metrics := ComputeMetrics(candidates)
			score, err := Score(metrics, cfg.OptimTarget)
			if err != nil {
				return nil, err
			}
			if score > best {
				best = score
				result = &CalibrationResult{
					League:    samples[0].League,
					Market:    samples[0].Market,
					TauEdge:   tau,
					GammaConf: gamma,
					Metric:    score,
					Metrics:   metrics,
				}
			}
		}
	}

	return result, nil
}

// pooledCandidates gathers every sample across all windows that would have been
// alerted under the (tau, gamma) pair. Windows are pooled before scoring rather
// than held out fold by fold, matching the calibration contract.
func pooledCandidates(windows [][]*models.Sample, tau, gamma float64) []*models.Sample {
	var candidates []*models.Sample
	for _, window := range windows {
		for _, sample := range window {
			if sample.EdgePct >= tau && sample.Confidence >= gamma {
				candidates = append(candidates, sample)
			}
		}
	}
	return candidates
}
