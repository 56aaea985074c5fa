package datasource

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"weather-dashboard/models"
)

// RateLimitedProvider wraps a Provider with separate limits for current weather and forecasts
type RateLimitedProvider struct {
	provider        Provider
	weatherLimiter  *rate.Limiter
	forecastLimiter *rate.Limiter
	name            string
}

// NewRateLimitedProvider creates a rate limited provider.
// weatherRPS and forecastRPS are the maximum requests per second for each API (can be
// fractional for less than one request per second), burst is the maximum burst size.
func NewRateLimitedProvider(provider Provider, weatherRPS, forecastRPS float64, burst int) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider:        provider,
		weatherLimiter:  rate.NewLimiter(rate.Limit(weatherRPS), burst),
		forecastLimiter: rate.NewLimiter(rate.Limit(forecastRPS), burst),
		name:            fmt.Sprintf("%s [Rate Limited]", provider.Name()),
	}
}

// GetWeather implements WeatherProvider, waiting for the weather limiter first
func (r *RateLimitedProvider) GetWeather(ctx context.Context, settings models.Settings) (models.WeatherData, error) {
	if err := r.weatherLimiter.Wait(ctx); err != nil {
		return models.WeatherData{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.GetWeather(ctx, settings)
}

// FetchForecast implements ForecastSource, waiting for the forecast limiter first
func (r *RateLimitedProvider) FetchForecast(ctx context.Context, settings models.Settings) (models.ForecastData, error) {
	if err := r.forecastLimiter.Wait(ctx); err != nil {
		return models.ForecastData{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.FetchForecast(ctx, settings)
}

// Name returns the provider name
func (r *RateLimitedProvider) Name() string {
	return r.name
}

// Unwrap returns the wrapped provider
func (r *RateLimitedProvider) Unwrap() Provider {
	return r.provider
}

var _ Provider = (*RateLimitedProvider)(nil)
