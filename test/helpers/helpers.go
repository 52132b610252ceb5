// Package helpers provides shared fixtures for integration and e2e tests.
package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yourusername/edge-calibrator/internal/models"
)

// SampleSpec describes one synthetic historical sample.
type SampleSpec struct {
	League     string
	Market     string
	EdgePct    float64
	Confidence float64
	Price      float64
	Result     int
}

// MakeSamples builds samples from specs with ascending pulled_at timestamps
// starting at base, one hour apart.
func MakeSamples(base time.Time, specs []SampleSpec) []*models.Sample {
	samples := make([]*models.Sample, 0, len(specs))
	for i, spec := range specs {
		samples = append(samples, &models.Sample{
			PulledAt:     base.Add(time.Duration(i) * time.Hour),
			KickoffUTC:   base.Add(time.Duration(i)*time.Hour + 3*time.Hour),
			League:       spec.League,
			Market:       spec.Market,
			Selection:    "home",
			MatchKey:     fmt.Sprintf("match-%03d", i),
			PriceDecimal: spec.Price,
			EdgePct:      spec.EdgePct,
			Confidence:   spec.Confidence,
			Result:       spec.Result,
		})
	}
	return samples
}

// historyWireSample mirrors the export API payload, with the price as a
// decimal string.
type historyWireSample struct {
	PulledAt     time.Time `json:"pulled_at"`
	KickoffUTC   time.Time `json:"kickoff_utc"`
	League       string    `json:"league"`
	Market       string    `json:"market"`
	Selection    string    `json:"selection"`
	MatchKey     string    `json:"match_key"`
	PriceDecimal string    `json:"price_decimal"`
	EdgePct      float64   `json:"edge_pct"`
	Confidence   float64   `json:"confidence"`
	Result       int       `json:"result"`
}

// ServeHistoryAPI starts an httptest server that answers /v1/samples with the
// given samples regardless of the requested range. The server is closed when
// the test finishes.
func ServeHistoryAPI(t *testing.T, samples []*models.Sample) *httptest.Server {
	t.Helper()

	wire := make([]historyWireSample, 0, len(samples))
	for _, sample := range samples {
		wire = append(wire, historyWireSample{
			PulledAt:     sample.PulledAt,
			KickoffUTC:   sample.KickoffUTC,
			League:       sample.League,
			Market:       sample.Market,
			Selection:    sample.Selection,
			MatchKey:     sample.MatchKey,
			PriceDecimal: fmt.Sprintf("%.2f", sample.PriceDecimal),
			EdgePct:      sample.EdgePct,
			Confidence:   sample.Confidence,
			Result:       sample.Result,
		})
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/samples" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(wire); err != nil {
			t.Errorf("failed to encode samples: %v", err)
		}
	}))
	t.Cleanup(server.Close)

	return server
}
