// Package metrics provides the centralized Prometheus metrics registry for the calibrator.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	CalibrationRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "edge_calibrator",
		Name:      "calibration_runs_total",
		Help:      "Total number of calibration runs started",
	})
	CalibrationRunErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "edge_calibrator",
		Name:      "calibration_run_errors_total",
		Help:      "Total number of calibration runs that failed",
	})
	GroupsCalibratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "edge_calibrator",
		Name:      "groups_calibrated_total",
		Help:      "Total number of (league, market) groups that produced thresholds",
	})
	ThresholdLookupsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "edge_calibrator",
		Name:      "threshold_lookups_total",
		Help:      "Total number of threshold lookups by the alerting path",
	})
	ThresholdCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "edge_calibrator",
		Name:      "threshold_cache_hits_total",
		Help:      "Total number of threshold lookups served from cache",
	})
	ThresholdCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "edge_calibrator",
		Name:      "threshold_cache_misses_total",
		Help:      "Total number of threshold lookups that went to storage",
	})
	ThresholdDefaultsServedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "edge_calibrator",
		Name:      "threshold_defaults_served_total",
		Help:      "Total number of lookups answered with synthesized defaults",
	})
)

// Gauge metrics
var (
	CalibratedPairs = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "edge_calibrator",
		Name:      "calibrated_pairs",
		Help:      "Number of (league, market) pairs produced by the last run",
	})
	LastRunSamples = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "edge_calibrator",
		Name:      "last_run_samples",
		Help:      "Number of historical samples consumed by the last run",
	})
	LastRunTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "edge_calibrator",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix timestamp of the last successful calibration run",
	})
)

// Histogram metrics
var (
	CalibrationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "edge_calibrator",
		Name:      "calibration_duration_seconds",
		Help:      "Duration of calibration runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(CalibrationRunsTotal)
		registry.MustRegister(CalibrationRunErrorsTotal)
		registry.MustRegister(GroupsCalibratedTotal)
		registry.MustRegister(ThresholdLookupsTotal)
		registry.MustRegister(ThresholdCacheHitsTotal)
		registry.MustRegister(ThresholdCacheMissesTotal)
		registry.MustRegister(ThresholdDefaultsServedTotal)

		registry.MustRegister(CalibratedPairs)
		registry.MustRegister(LastRunSamples)
		registry.MustRegister(LastRunTimestamp)

		registry.MustRegister(CalibrationDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordCalibrationRun records a calibration run and its duration.
func RecordCalibrationRun(durationSeconds float64) {
	CalibrationRunsTotal.Inc()
	CalibrationDuration.Observe(durationSeconds)
}

// RecordCalibrationRunError records a failed calibration run.
func RecordCalibrationRunError() {
	CalibrationRunErrorsTotal.Inc()
}

// RecordGroupCalibrated records one calibrated (league, market) group.
func RecordGroupCalibrated() {
	GroupsCalibratedTotal.Inc()
}

// RecordThresholdLookup records a threshold lookup.
func RecordThresholdLookup() {
	ThresholdLookupsTotal.Inc()
}

// RecordThresholdCacheHit records a lookup served from cache.
func RecordThresholdCacheHit() {
	ThresholdCacheHitsTotal.Inc()
}

// RecordThresholdCacheMiss records a lookup that went to storage.
func RecordThresholdCacheMiss() {
	ThresholdCacheMissesTotal.Inc()
}

// RecordThresholdDefaultServed records a lookup answered with defaults.
func RecordThresholdDefaultServed() {
	ThresholdDefaultsServedTotal.Inc()
}

// UpdateCalibratedPairs updates the calibrated pairs gauge.
func UpdateCalibratedPairs(count float64) {
	CalibratedPairs.Set(count)
}

// UpdateLastRunSamples updates the consumed samples gauge.
func UpdateLastRunSamples(count float64) {
	LastRunSamples.Set(count)
}

// UpdateLastRunTimestamp updates the last successful run timestamp gauge.
func UpdateLastRunTimestamp(unixSeconds float64) {
	LastRunTimestamp.Set(unixSeconds)
}
