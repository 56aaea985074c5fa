package cache

import (
	"context"

	gocache "github.com/patrickmn/go-cache"

	"weather-dashboard/models"
)

// FetchForecast fetches the forecast series, using cache when available.
// The cached samples are copied so callers cannot mutate the cache.
func (c *CachedProvider) FetchForecast(ctx context.Context, settings models.Settings) (models.ForecastData, error) {
	key := c.cacheKey(kindForecast, settings)
	if v, found := c.store.Get(key); found {
		c.hit(kindForecast, key)
		return cloneForecast(v.(models.ForecastData)), nil
	}
	c.miss(kindForecast, key)

	forecast, err := c.provider.FetchForecast(ctx, settings)
	if err != nil {
		return models.ForecastData{}, err
	}
	c.store.Set(key, cloneForecast(forecast), gocache.DefaultExpiration)
	return forecast, nil
}

func cloneForecast(f models.ForecastData) models.ForecastData {
	f.Samples = append([]models.Sample(nil), f.Samples...)
	return f
}
