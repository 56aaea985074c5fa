package datasource

import (
	"context"
	"fmt"
	"sync"
	"time"

	"weather-dashboard/models"
)

// MockProvider is an in-memory Provider that simulates latency and counts calls.
// It is used by tests and the offline demo.
type MockProvider struct {
	ProviderName string
	Latency      time.Duration
	Weather      models.WeatherData
	Forecast     models.ForecastData
	Err          error

	mutex         sync.Mutex
	weatherCalls  int
	forecastCalls int
}

// NewMockProvider returns a mock answering with the given forecast samples
func NewMockProvider(name string, samples []models.Sample) *MockProvider {
	return &MockProvider{
		ProviderName: name,
		Forecast:     models.ForecastData{Samples: samples},
	}
}

// Name returns the provider name
func (m *MockProvider) Name() string {
	if m.ProviderName == "" {
		return "MockProvider"
	}
	return m.ProviderName
}

func (m *MockProvider) wait(ctx context.Context) error {
	if m.Latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(m.Latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetWeather returns the configured weather, stamped with the settings
func (m *MockProvider) GetWeather(ctx context.Context, settings models.Settings) (models.WeatherData, error) {
	m.mutex.Lock()
	m.weatherCalls++
	m.mutex.Unlock()

	if err := m.wait(ctx); err != nil {
		return models.WeatherData{}, err
	}
	if m.Err != nil {
		return models.WeatherData{}, fmt.Errorf("mock weather: %w", m.Err)
	}

	data := m.Weather
	data.Provider = m.Name()
	data.Location = settings.Location
	data.Units = settings.Units
	if data.Timestamp.IsZero() {
		data.Timestamp = time.Now()
	}
	return data, nil
}

// FetchForecast returns the configured forecast, stamped with the settings and the
// time the call started
func (m *MockProvider) FetchForecast(ctx context.Context, settings models.Settings) (models.ForecastData, error) {
	requested := time.Now()
	m.mutex.Lock()
	m.forecastCalls++
	m.mutex.Unlock()

	if err := m.wait(ctx); err != nil {
		return models.ForecastData{}, err
	}
	if m.Err != nil {
		return models.ForecastData{}, fmt.Errorf("mock forecast: %w", m.Err)
	}

	data := m.Forecast
	data.Provider = m.Name()
	data.Location = settings.Location
	data.Units = settings.Units
	data.Samples = append([]models.Sample(nil), m.Forecast.Samples...)
	data.Updated = requested
	return data, nil
}

// Calls returns how many weather and forecast requests were made
func (m *MockProvider) Calls() (weather, forecast int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.weatherCalls, m.forecastCalls
}

var _ Provider = (*MockProvider)(nil)
