package backtest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
)

// GenerateConsoleReport formats calibration results for terminal output
func GenerateConsoleReport(results []CalibrationResult) string {
	var builder strings.Builder
	builder.WriteString("Calibration Report\n")
	builder.WriteString("==================\n")
	builder.WriteString(fmt.Sprintf("Calibrated pairs: %d\n", len(results)))
	for _, result := range results {
		builder.WriteString(fmt.Sprintf(
			"%s / %s: tau_edge=%s gamma_conf=%s metric=%s samples=%d hit_rate=%s\n",
			result.League,
			result.Market,
			round4(result.TauEdge),
			round4(result.GammaConf),
			round4(result.Metric),
			result.Metrics.Samples,
			round4(result.Metrics.HitRate),
		))
	}
	return builder.String()
}

// GenerateCSVExport exports calibration results for spreadsheets
func GenerateCSVExport(results []CalibrationResult, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}

	var builder strings.Builder
	builder.WriteString("league,market,tau_edge,gamma_conf,metric,samples,wins,hit_rate,avg_edge_pct,avg_price,avg_log_gain,sharpe\n")
	for _, result := range results {
		builder.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%d,%d,%s,%s,%s,%s,%s\n",
			result.League,
			result.Market,
			round4(result.TauEdge),
			round4(result.GammaConf),
			round4(result.Metric),
			result.Metrics.Samples,
			result.Metrics.Wins,
			round4(result.Metrics.HitRate),
			round4(result.Metrics.AvgEdgePct),
			round4(result.Metrics.AvgPrice),
			round4(result.Metrics.AvgLogGain),
			round4(result.Metrics.Sharpe),
		))
	}

	return os.WriteFile(outputPath, []byte(builder.String()), 0o644)
}

func round4(value float64) string {
	return decimal.NewFromFloat(value).Round(4).String()
}
