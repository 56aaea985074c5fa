// Package collector periodically fetches weather and forecasts from every provider.
package collector

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"weather-dashboard/datasource"
	"weather-dashboard/forecast"
	"weather-dashboard/metrics"
	"weather-dashboard/models"
	"weather-dashboard/publish"
)

// maxConcurrentFetches bounds the fan-out of one refresh cycle
const maxConcurrentFetches = 8

// WeatherSink stores current weather
type WeatherSink interface {
	UpdateWeather(data models.WeatherData) bool
}

// ForecastSink stores raw forecasts
type ForecastSink interface {
	UpdateForecast(data models.ForecastData) bool
	PruneOldForecasts(maxAge time.Duration) int
}

// SettingsSource provides the current settings and announces changes
type SettingsSource interface {
	Get() models.Settings
	Changes() <-chan models.Settings
}

// Options configures a Collector
type Options struct {
	Providers []datasource.Provider
	Weather   WeatherSink
	Forecasts ForecastSink
	Settings  SettingsSource
	Publisher publish.Publisher
	Metrics   *metrics.Metrics
	Logger    *zap.Logger

	// Locations are refreshed in addition to the settings location
	Locations []string

	Interval     time.Duration
	FetchTimeout time.Duration
	PruneAge     time.Duration
}

// Collector manages the collection of weather data from multiple providers
type Collector struct {
	opts   Options
	logger *zap.Logger
}

// New creates a collector. Zero durations fall back to sensible defaults.
func New(opts Options) *Collector {
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Minute
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 10 * time.Second
	}
	if opts.Publisher == nil {
		opts.Publisher = publish.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Collector{opts: opts, logger: opts.Logger.Named("collector")}
}

// Run refreshes immediately, then on every tick and whenever settings change.
// It blocks until ctx is done.
func (c *Collector) Run(ctx context.Context) error {
	changes := c.opts.Settings.Changes()
	ticker := time.NewTicker(c.opts.Interval)
	defer ticker.Stop()

	c.cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.cycle(ctx)
		case s := <-changes:
			c.logger.Info("settings changed, refreshing",
				zap.String("location", s.Location),
				zap.String("units", string(s.Units)))
			c.flushCaches()
			c.cycle(ctx)
		}
	}
}

// flushCaches empties every cache in the provider chains
func (c *Collector) flushCaches() {
	for _, p := range c.opts.Providers {
		for {
			if f, ok := p.(interface{ Flush() }); ok {
				f.Flush()
			}
			w, ok := p.(interface{ Unwrap() datasource.Provider })
			if !ok {
				break
			}
			p = w.Unwrap()
		}
	}
}

func (c *Collector) cycle(ctx context.Context) {
	if err := c.Refresh(ctx); err != nil && ctx.Err() == nil {
		c.logger.Warn("refresh completed with errors", zap.Error(err))
	}
	if c.opts.PruneAge > 0 {
		if n := c.opts.Forecasts.PruneOldForecasts(c.opts.PruneAge); n > 0 {
			c.logger.Info("pruned old forecasts", zap.Int("count", n))
		}
	}
}

// locations returns the settings location followed by the extra locations, without duplicates
func (c *Collector) locations(s models.Settings) []string {
	out := []string{s.Location}
	for _, loc := range c.opts.Locations {
		loc = strings.TrimSpace(loc)
		if loc == "" || slices.ContainsFunc(out, func(l string) bool { return strings.EqualFold(l, loc) }) {
			continue
		}
		out = append(out, loc)
	}
	return out
}

// Refresh runs one cycle: current weather and forecast for every location from every
// provider, concurrently. A failing provider does not stop the others; all failures
// are returned joined.
func (c *Collector) Refresh(ctx context.Context) error {
	settings := c.opts.Settings.Get()
	c.logger.Debug("updating weather data", zap.String("location", settings.Location))

	var (
		mu   sync.Mutex
		errs []error
	)
	record := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)
	for _, location := range c.locations(settings) {
		s := settings
		s.Location = location
		for _, p := range c.opts.Providers {
			g.Go(func() error {
				if err := c.fetchWeather(ctx, p, s); err != nil {
					record(err)
				}
				return nil
			})
			g.Go(func() error {
				if err := c.fetchForecast(ctx, p, s); err != nil {
					record(err)
				}
				return nil
			})
		}
	}
	_ = g.Wait()

	c.logger.Debug("weather and forecast data update complete", zap.Int("errors", len(errs)))
	return errors.Join(errs...)
}

func (c *Collector) fetchWeather(ctx context.Context, p datasource.Provider, s models.Settings) error {
	name := datasource.Root(p).Name()
	fetchCtx, cancel := context.WithTimeout(ctx, c.opts.FetchTimeout)
	defer cancel()

	start := time.Now()
	data, err := p.GetWeather(fetchCtx, s)
	c.opts.Metrics.RecordFetch(name, metrics.KindWeather, time.Since(start), err)
	if err != nil {
		c.logger.Warn("error fetching weather",
			zap.String("provider", name), zap.String("location", s.Location), zap.Error(err))
		return fmt.Errorf("error fetching weather from %s for %s: %w", name, s.Location, err)
	}

	c.opts.Weather.UpdateWeather(data)
	c.opts.Metrics.SetTemperature(name, s.Location, string(data.Units), data.Temperature)
	return nil
}

func (c *Collector) fetchForecast(ctx context.Context, p datasource.Provider, s models.Settings) error {
	name := datasource.Root(p).Name()
	fetchCtx, cancel := context.WithTimeout(ctx, c.opts.FetchTimeout)
	defer cancel()

	start := time.Now()
	data, err := p.FetchForecast(fetchCtx, s)
	c.opts.Metrics.RecordFetch(name, metrics.KindForecast, time.Since(start), err)
	if err != nil {
		c.logger.Warn("error fetching forecast",
			zap.String("provider", name), zap.String("location", s.Location), zap.Error(err))
		return fmt.Errorf("error fetching forecast from %s for %s: %w", name, s.Location, err)
	}

	if !c.opts.Forecasts.UpdateForecast(data) {
		c.logger.Debug("ignored stale forecast", zap.String("provider", name), zap.String("location", s.Location))
		return nil
	}

	stats := forecast.Stats(data.Samples)
	daily := forecast.Daily(data, s)
	c.opts.Metrics.RecordAggregation(name, len(daily.Days), stats.NoTimestamp, stats.NoCondition)
	c.logger.Info("updated forecast",
		zap.String("provider", name),
		zap.String("location", s.Location),
		zap.Int("samples", stats.Total),
		zap.Int("days", len(daily.Days)))

	if err := c.opts.Publisher.PublishDaily(ctx, daily); err != nil {
		c.logger.Warn("failed to publish daily forecast", zap.String("provider", name), zap.Error(err))
	}
	return nil
}
