// Package metrics provides Prometheus metrics for the weather dashboard
package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"weather-dashboard/datasource"
)

// Fetch kinds used as the "kind" label
const (
	KindWeather  = "weather"
	KindForecast = "forecast"
)

// Metrics contains Prometheus metrics for fetches, caching and aggregation.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	fetchesTotal     *prometheus.CounterVec
	fetchErrorsTotal *prometheus.CounterVec
	fetchDuration    *prometheus.HistogramVec

	cacheHitsTotal   *prometheus.CounterVec
	cacheMissesTotal *prometheus.CounterVec

	dailyDays        *prometheus.GaugeVec
	malformedSamples *prometheus.CounterVec
	temperature      *prometheus.GaugeVec
}

// New creates and registers the metrics
func New(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register weather metrics: %w", err)
	}
	return m, nil
}

// Registry returns the registry the metrics were registered with
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) initMetrics() {
	m.fetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_fetches_total",
			Help: "Total number of upstream fetch operations",
		},
		[]string{"provider", "kind", "status"}, // status: success, error
	)

	m.fetchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_fetch_errors_total",
			Help: "Total number of upstream fetch errors",
		},
		[]string{"provider", "error_type"},
	)

	m.fetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "weather_fetch_duration_seconds",
			Help: "Time taken to fetch from a provider",
			// 100ms to ~50s
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"provider", "kind"},
	)

	m.cacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_cache_hits_total",
			Help: "Total number of provider cache hits",
		},
		[]string{"provider", "kind"},
	)

	m.cacheMissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_cache_misses_total",
			Help: "Total number of provider cache misses",
		},
		[]string{"provider", "kind"},
	)

	m.dailyDays = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "weather_forecast_days",
			Help: "Number of daily summaries in the latest aggregated forecast",
		},
		[]string{"provider"},
	)

	m.malformedSamples = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_forecast_malformed_samples_total",
			Help: "Forecast samples missing a timestamp, condition or temperatures",
		},
		[]string{"provider", "reason"},
	)

	m.temperature = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "weather_temperature",
			Help: "Current temperature in the configured unit system",
		},
		[]string{"provider", "location", "units"},
	)
}

// Describe implements the prometheus.Collector interface
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.fetchesTotal.Describe(ch)
	m.fetchErrorsTotal.Describe(ch)
	m.fetchDuration.Describe(ch)
	m.cacheHitsTotal.Describe(ch)
	m.cacheMissesTotal.Describe(ch)
	m.dailyDays.Describe(ch)
	m.malformedSamples.Describe(ch)
	m.temperature.Describe(ch)
}

// Collect implements the prometheus.Collector interface
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.fetchesTotal.Collect(ch)
	m.fetchErrorsTotal.Collect(ch)
	m.fetchDuration.Collect(ch)
	m.cacheHitsTotal.Collect(ch)
	m.cacheMissesTotal.Collect(ch)
	m.dailyDays.Collect(ch)
	m.malformedSamples.Collect(ch)
	m.temperature.Collect(ch)
}

// RecordFetch records one upstream fetch
func (m *Metrics) RecordFetch(provider, kind string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.fetchDuration.WithLabelValues(provider, kind).Observe(d.Seconds())
	if err != nil {
		m.fetchesTotal.WithLabelValues(provider, kind, "error").Inc()
		m.fetchErrorsTotal.WithLabelValues(provider, errorType(err)).Inc()
		return
	}
	m.fetchesTotal.WithLabelValues(provider, kind, "success").Inc()
}

// errorType classifies a fetch error for the error_type label
func errorType(err error) string {
	var apiErr *datasource.APIError
	switch {
	case errors.Is(err, datasource.ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, datasource.ErrInvalidLocation):
		return "invalid_location"
	case errors.As(err, &apiErr):
		if apiErr.NotFound() {
			return "not_found"
		}
		return "api"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "other"
	}
}

// RecordCacheHit counts a cache hit
func (m *Metrics) RecordCacheHit(provider, kind string) {
	if m == nil {
		return
	}
	m.cacheHitsTotal.WithLabelValues(provider, kind).Inc()
}

// RecordCacheMiss counts a cache miss
func (m *Metrics) RecordCacheMiss(provider, kind string) {
	if m == nil {
		return
	}
	m.cacheMissesTotal.WithLabelValues(provider, kind).Inc()
}

// RecordAggregation records the outcome of one forecast aggregation
func (m *Metrics) RecordAggregation(provider string, days, noTimestamp, noCondition int) {
	if m == nil {
		return
	}
	m.dailyDays.WithLabelValues(provider).Set(float64(days))
	if noTimestamp > 0 {
		m.malformedSamples.WithLabelValues(provider, "no_timestamp").Add(float64(noTimestamp))
	}
	if noCondition > 0 {
		m.malformedSamples.WithLabelValues(provider, "no_condition").Add(float64(noCondition))
	}
}

// SetTemperature sets the current temperature gauge
func (m *Metrics) SetTemperature(provider, location, units string, v float64) {
	if m == nil {
		return
	}
	m.temperature.WithLabelValues(provider, location, units).Set(v)
}
