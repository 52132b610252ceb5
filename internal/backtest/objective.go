package backtest

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownObjective is returned when the configured optimization target is not
// one of the recognized objectives.
var ErrUnknownObjective = errors.New("unknown optimization objective")

// Score evaluates metrics against the chosen optimization target. An empty
// candidate set scores negative infinity regardless of target, so it can never
// be selected as a best grid point.
func Score(metrics Metrics, target string) (float64, error) {
	if metrics.Samples == 0 {
		return math.Inf(-1), nil
	}

	switch strings.ToLower(target) {
	case TargetSharpe:
		return metrics.Sharpe, nil
	case TargetHit:
		return metrics.HitRate, nil
	case TargetLogGain:
		return metrics.AvgLogGain, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownObjective, target)
	}
}
