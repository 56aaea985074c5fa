// Package cache wraps a provider with a TTL cache for weather and forecasts.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"weather-dashboard/datasource"
	"weather-dashboard/models"
)

// Recorder receives cache hit and miss events
type Recorder interface {
	RecordCacheHit(provider, kind string)
	RecordCacheMiss(provider, kind string)
}

const (
	kindWeather  = "weather"
	kindForecast = "forecast"
)

// CachedProvider wraps a Provider and adds caching. Errors are never cached.
type CachedProvider struct {
	provider datasource.Provider
	store    *gocache.Cache
	ttl      time.Duration
	recorder Recorder
	logger   *zap.Logger

	mutex          sync.Mutex
	cacheHitCount  int
	cacheMissCount int
}

// Option configures a CachedProvider
type Option func(*CachedProvider)

// WithRecorder reports hits and misses to r
func WithRecorder(r Recorder) Option {
	return func(c *CachedProvider) { c.recorder = r }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *CachedProvider) { c.logger = l.Named("cache") }
}

// NewCachedProvider creates a new cached wrapper around a provider
func NewCachedProvider(provider datasource.Provider, ttl time.Duration, opts ...Option) *CachedProvider {
	c := &CachedProvider{
		provider: provider,
		store:    gocache.New(ttl, 2*ttl),
		ttl:      ttl,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the name of the underlying provider with [Cached] suffix
func (c *CachedProvider) Name() string {
	return c.provider.Name() + " [Cached]"
}

// Unwrap returns the wrapped provider
func (c *CachedProvider) Unwrap() datasource.Provider {
	return c.provider
}

// cacheKey identifies one request: provider, location and units
func (c *CachedProvider) cacheKey(kind string, settings models.Settings) string {
	return strings.Join([]string{
		kind,
		c.provider.Name(),
		strings.ToLower(strings.TrimSpace(settings.Location)),
		string(settings.Units),
	}, "|")
}

func (c *CachedProvider) hit(kind, key string) {
	c.mutex.Lock()
	c.cacheHitCount++
	c.mutex.Unlock()
	if c.recorder != nil {
		c.recorder.RecordCacheHit(c.provider.Name(), kind)
	}
	c.logger.Debug("cache hit", zap.String("key", key))
}

func (c *CachedProvider) miss(kind, key string) {
	c.mutex.Lock()
	c.cacheMissCount++
	c.mutex.Unlock()
	if c.recorder != nil {
		c.recorder.RecordCacheMiss(c.provider.Name(), kind)
	}
	c.logger.Debug("cache miss, fetching fresh data", zap.String("key", key))
}

// GetWeather fetches current weather, using cache when available
func (c *CachedProvider) GetWeather(ctx context.Context, settings models.Settings) (models.WeatherData, error) {
	key := c.cacheKey(kindWeather, settings)
	if v, found := c.store.Get(key); found {
		c.hit(kindWeather, key)
		return v.(models.WeatherData), nil
	}
	c.miss(kindWeather, key)

	data, err := c.provider.GetWeather(ctx, settings)
	if err != nil {
		return models.WeatherData{}, err
	}
	c.store.Set(key, data, gocache.DefaultExpiration)
	return data, nil
}

// Flush drops every cached entry. The collector calls it when settings change.
func (c *CachedProvider) Flush() {
	c.store.Flush()
}

// CacheStats returns statistics about cache hits and misses
func (c *CachedProvider) CacheStats() (hits, misses int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.cacheHitCount, c.cacheMissCount
}

// Ensure CachedProvider implements the Provider interface
var _ datasource.Provider = (*CachedProvider)(nil)
