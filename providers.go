package main

import (
	"go.uber.org/zap"

	"weather-dashboard/cache"
	"weather-dashboard/config"
	"weather-dashboard/datasource"
	"weather-dashboard/metrics"
	"weather-dashboard/providers/openweathermap"
	"weather-dashboard/providers/weatherapi"
)

// buildProviders creates every usable provider wrapped with rate limiting and caching
func buildProviders(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) []datasource.Provider {
	var providers []datasource.Provider

	wrap := func(p datasource.Provider, rps float64, burst int) datasource.Provider {
		if cfg.RateLimit.Enabled {
			p = datasource.NewRateLimitedProvider(p, rps, rps, burst)
			logger.Info("applied rate limiting", zap.String("provider", p.Name()))
		}
		if cfg.Cache.TTL > 0 {
			p = cache.NewCachedProvider(p, cfg.Cache.TTL, cache.WithRecorder(m), cache.WithLogger(logger))
		}
		return p
	}

	if cfg.OpenWeatherMap.Enabled {
		if cfg.OpenWeatherMap.APIKey == "" {
			logger.Warn("OpenWeatherMap is enabled but no API key provided")
		} else {
			owm := openweathermap.New(cfg.OpenWeatherMap.APIKey,
				openweathermap.WithBaseURL(cfg.OpenWeatherMap.BaseURL),
				openweathermap.WithLogger(logger))
			// OpenWeatherMap free tier allows 60 calls/minute = 1 call per second
			// Allow bursts of up to 5 requests
			providers = append(providers, wrap(owm, 1.0, 5))
		}
	}

	if cfg.WeatherAPI.Enabled {
		if cfg.WeatherAPI.APIKey == "" {
			logger.Warn("WeatherAPI is enabled but no API key provided")
		} else {
			wapi := weatherapi.New(cfg.WeatherAPI.APIKey,
				weatherapi.WithBaseURL(cfg.WeatherAPI.BaseURL),
				weatherapi.WithLogger(logger))
			// WeatherAPI free tier allows ~23 calls/minute = 0.4 calls per second
			// Allow bursts of up to 3 requests
			providers = append(providers, wrap(wapi, 0.4, 3))
		}
	}

	return providers
}
