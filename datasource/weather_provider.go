package datasource

import (
	"context"

	"weather-dashboard/models"
)

// WeatherProvider is an interface for services that can fetch current weather data
type WeatherProvider interface {
	// GetWeather fetches current weather for the settings' location and units
	GetWeather(ctx context.Context, settings models.Settings) (models.WeatherData, error)

	// Name returns the provider's name
	Name() string
}

// ForecastSource is an interface for services that can fetch weather forecasts
type ForecastSource interface {
	// FetchForecast fetches the flat forecast series for the settings' location and units
	FetchForecast(ctx context.Context, settings models.Settings) (models.ForecastData, error)

	// Name returns the source's name
	Name() string
}

// Provider is a service offering both current weather and forecasts
type Provider interface {
	WeatherProvider
	ForecastSource
}

// Root strips decorators such as rate limiting and caching and returns the
// provider that actually talks to the upstream API
func Root(p Provider) Provider {
	for {
		w, ok := p.(interface{ Unwrap() Provider })
		if !ok {
			return p
		}
		p = w.Unwrap()
	}
}
