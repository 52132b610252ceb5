package backtest

import (
	"testing"
	"time"

	"github.com/yourusername/edge-calibrator/internal/models"
)

func orderedSamples(n int) []*models.Sample {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	samples := make([]*models.Sample, n)
	for i := 0; i < n; i++ {
		samples[i] = &models.Sample{
			PulledAt:     base.Add(time.Duration(i) * time.Hour),
			KickoffUTC:   base.Add(time.Duration(i+24) * time.Hour),
			League:       "EPL",
			Market:       "1X2",
			Selection:    "HOME",
			MatchKey:     "match",
			PriceDecimal: 2.0,
		}
	}
	return samples
}

func windowSizes(windows [][]*models.Sample) []int {
	sizes := make([]int, len(windows))
	for i, w := range windows {
		sizes[i] = len(w)
	}
	return sizes
}

func TestTimeKFoldWindowSizes(t *testing.T) {
	samples := orderedSamples(8)

	tests := []struct {
		name  string
		folds int
		want  []int
	}{
		{"two folds", 2, []int{4, 4}},
		{"three folds", 3, []int{3, 3, 2}},
		{"one fold", 1, []int{8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := BacktestConfig{Validation: ValidationTimeKFold, Folds: tt.folds}
			got := windowSizes(BuildWindows(samples, cfg))
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d windows, got %d", len(tt.want), len(got))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("window %d: expected size %d, got %d", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestTimeKFoldFewerSamplesThanFolds(t *testing.T) {
	samples := orderedSamples(3)
	cfg := BacktestConfig{Validation: ValidationTimeKFold, Folds: 5}

	windows := BuildWindows(samples, cfg)
	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(windows))
	}
	for i, window := range windows {
		if len(window) != 1 {
			t.Errorf("window %d: expected size 1, got %d", i, len(window))
		}
	}
}

func TestWalkForwardWindows(t *testing.T) {
	samples := orderedSamples(8)
	cfg := BacktestConfig{Validation: ValidationWalkForward, Folds: 4, WalkStep: 2}

	windows := BuildWindows(samples, cfg)
	sizes := windowSizes(windows)
	if len(sizes) != 4 {
		t.Fatalf("expected 4 windows, got %d", len(sizes))
	}
	for i, size := range sizes {
		if size != 2 {
			t.Errorf("window %d: expected size 2, got %d", i, size)
		}
	}

	first := windows[0][0]
	last := windows[len(windows)-1][1]
	if !first.PulledAt.Equal(samples[0].PulledAt) {
		t.Errorf("first window must start at the earliest sample")
	}
	if !last.PulledAt.Equal(samples[7].PulledAt) {
		t.Errorf("last window must end at the latest sample")
	}
}

func TestWalkForwardDefaultStep(t *testing.T) {
	samples := orderedSamples(8)
	cfg := BacktestConfig{Validation: ValidationWalkForward, Folds: 4}

	windows := BuildWindows(samples, cfg)
	if len(windows) != 4 {
		t.Fatalf("expected step total/folds to give 4 windows, got %d", len(windows))
	}
}

func TestWalkForwardShortLastWindow(t *testing.T) {
	samples := orderedSamples(8)
	cfg := BacktestConfig{Validation: ValidationWalkForward, Folds: 4, WalkStep: 3}

	sizes := windowSizes(BuildWindows(samples, cfg))
	want := []int{3, 3, 2}
	if len(sizes) != len(want) {
		t.Fatalf("expected %d windows, got %d", len(want), len(sizes))
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Errorf("window %d: expected size %d, got %d", i, want[i], sizes[i])
		}
	}
}

func TestBuildWindowsEmpty(t *testing.T) {
	cfg := BacktestConfig{Validation: ValidationTimeKFold, Folds: 4}
	if windows := BuildWindows(nil, cfg); len(windows) != 0 {
		t.Fatalf("expected no windows for empty input, got %d", len(windows))
	}
}
