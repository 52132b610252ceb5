package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/edge-calibrator/internal/config"
	"github.com/yourusername/edge-calibrator/internal/models"
)

// historySample is the wire form returned by the history API. Prices arrive as
// decimal strings and are parsed exactly before converting to float.
type historySample struct {
	PulledAt     time.Time       `json:"pulled_at"`
	KickoffUTC   time.Time       `json:"kickoff_utc"`
	League       string          `json:"league"`
	Market       string          `json:"market"`
	Selection    string          `json:"selection"`
	MatchKey     string          `json:"match_key"`
	PriceDecimal decimal.Decimal `json:"price_decimal"`
	EdgePct      float64         `json:"edge_pct"`
	Confidence   float64         `json:"confidence"`
	Result       int             `json:"result"`
}

// HistoryAPISource loads historical samples from the results export API.
// It implements the same source contract as the sample repository, so
// calibration can run against either backend.
type HistoryAPISource struct {
	client  *RateLimitedHTTPClient
	baseURL string
	apiKey  string
	logger  *logrus.Logger
}

// NewHistoryAPISource creates a new history API sample source
func NewHistoryAPISource(cfg *config.HistoryAPIConfig, logger *logrus.Logger) (*HistoryAPISource, error) {
	if cfg == nil || cfg.BaseURL == "" {
		return nil, fmt.Errorf("history API base URL is required")
	}
	if logger == nil {
		logger = logrus.New()
	}

	clientCfg := DefaultHTTPClientConfig()
	if cfg.TimeoutSeconds > 0 {
		clientCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.MaxRetries > 0 {
		clientCfg.MaxRetries = cfg.MaxRetries
	}
	if cfg.RateLimit > 0 {
		clientCfg.RateLimit = cfg.RateLimit
	}

	return &HistoryAPISource{
		client:  NewRateLimitedHTTPClient(clientCfg, logger),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}, nil
}

// GetByPulledRange retrieves samples observed within a time range, ordered ascending
func (h *HistoryAPISource) GetByPulledRange(ctx context.Context, start, end time.Time) ([]*models.Sample, error) {
	endpoint := fmt.Sprintf("%s/v1/samples?%s", h.baseURL, url.Values{
		"from": []string{start.UTC().Format(time.RFC3339)},
		"to":   []string{end.UTC().Format(time.RFC3339)},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build history request: %w", err)
	}
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("history API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("history API returned status %d", resp.StatusCode)
	}

	var wire []historySample
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("failed to decode history response: %w", err)
	}

	samples := make([]*models.Sample, 0, len(wire))
	for i := range wire {
		samples = append(samples, wire[i].toModel())
	}

	h.logger.WithFields(logrus.Fields{
		"samples": len(samples),
		"from":    start,
		"to":      end,
	}).Debug("Loaded samples from history API")

	return samples, nil
}

// Close releases the underlying HTTP client
func (h *HistoryAPISource) Close() error {
	return h.client.Close()
}

func (w *historySample) toModel() *models.Sample {
	price, _ := w.PriceDecimal.Float64()
	return &models.Sample{
		PulledAt:     w.PulledAt,
		KickoffUTC:   w.KickoffUTC,
		League:       w.League,
		Market:       w.Market,
		Selection:    w.Selection,
		MatchKey:     w.MatchKey,
		PriceDecimal: price,
		EdgePct:      w.EdgePct,
		Confidence:   w.Confidence,
		Result:       w.Result,
	}
}
