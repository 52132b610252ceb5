package backtest

import (
	"github.com/yourusername/edge-calibrator/internal/models"
)

// BuildWindows partitions samples into cross-validation windows according to the
// configured validation mode. Samples must already be sorted ascending by PulledAt;
// windows only slice the existing order, they never reorder or copy samples. Keeping
// each window chronologically contiguous is what rules out look-ahead between windows.
func BuildWindows(samples []*models.Sample, cfg BacktestConfig) [][]*models.Sample {
	if len(samples) == 0 {
		return nil
	}

	switch cfg.Validation {
	case ValidationWalkForward:
		return walkForwardWindows(samples, cfg.Folds, cfg.WalkStep)
	default:
		return timeKFoldWindows(samples, cfg.Folds)
	}
}

// timeKFoldWindows splits the sequence into at most folds contiguous chronological
// chunks of near-equal size. When there are fewer samples than folds, the short
// chunks collapse and fewer windows come back.
func timeKFoldWindows(samples []*models.Sample, folds int) [][]*models.Sample {
	total := len(samples)
	if folds < 1 {
		folds = 1
	}

	size := (total + folds - 1) / folds
	if size < 1 {
		size = 1
	}

	windows := make([][]*models.Sample, 0, folds)
	for start := 0; start < total; start += size {
		end := start + size
		if end > total {
			end = total
		}
		windows = append(windows, samples[start:end])
	}
	return windows
}

// walkForwardWindows slides a fixed-size window across the sequence with no
// overlap. The step defaults to total/folds (minimum 1); the last window may be
// shorter than the step.
func walkForwardWindows(samples []*models.Sample, folds, step int) [][]*models.Sample {
	total := len(samples)
	if step <= 0 {
		if folds < 1 {
			folds = 1
		}
		step = total / folds
	}
	if step < 1 {
		step = 1
	}

	windows := make([][]*models.Sample, 0, total/step+1)
	for start := 0; start < total; start += step {
		end := start + step
		if end > total {
			end = total
		}
		windows = append(windows, samples[start:end])
	}
	return windows
}
