package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-dashboard/models"
)

func TestForecastStore_UpdateAndGet(t *testing.T) {
	s := NewForecastStore()
	now := time.Now()

	assert.True(t, s.UpdateForecast(models.ForecastData{Provider: "WeatherAPI", Location: "Oslo", Updated: now}))
	assert.True(t, s.UpdateForecast(models.ForecastData{Provider: "OpenWeatherMap", Location: "Oslo", Updated: now}))
	assert.True(t, s.UpdateForecast(models.ForecastData{Provider: "OpenWeatherMap", Location: "Bergen", Updated: now}))

	forecasts, ok := s.GetForecastByLocation("Oslo")
	require.True(t, ok)
	require.Len(t, forecasts, 2)
	assert.Equal(t, "OpenWeatherMap", forecasts[0].Provider)
	assert.Equal(t, "WeatherAPI", forecasts[1].Provider)

	f, ok := s.GetForecastByProvider("Oslo", "weatherapi")
	require.True(t, ok)
	assert.Equal(t, "WeatherAPI", f.Provider)

	_, ok = s.GetForecastByProvider("Oslo", "Unknown")
	assert.False(t, ok)
	_, ok = s.GetForecastByLocation("Paris")
	assert.False(t, ok)

	assert.Equal(t, []string{"Bergen", "Oslo"}, s.GetAllForecastLocations())
}

func TestForecastStore_RejectsStale(t *testing.T) {
	s := NewForecastStore()
	now := time.Now()

	newer := models.ForecastData{Provider: "P", Location: "Oslo", Updated: now,
		Samples: []models.Sample{{Timestamp: 2}}}
	older := models.ForecastData{Provider: "P", Location: "Oslo", Updated: now.Add(-time.Minute),
		Samples: []models.Sample{{Timestamp: 1}}}

	require.True(t, s.UpdateForecast(newer))
	assert.False(t, s.UpdateForecast(older))

	f, ok := s.GetForecastByProvider("Oslo", "P")
	require.True(t, ok)
	assert.Equal(t, int64(2), f.Samples[0].Timestamp)

	// same timestamp replaces
	assert.True(t, s.UpdateForecast(models.ForecastData{Provider: "P", Location: "Oslo", Updated: now}))
}

func TestForecastStore_OtherUnitsReplace(t *testing.T) {
	s := NewForecastStore()
	now := time.Now()

	imperial := models.ForecastData{Provider: "P", Location: "Oslo", Units: models.UnitsImperial, Updated: now}
	metric := models.ForecastData{Provider: "P", Location: "Oslo", Units: models.UnitsMetric, Updated: now.Add(-5 * time.Minute)}

	require.True(t, s.UpdateForecast(imperial))
	assert.True(t, s.UpdateForecast(metric))

	f, ok := s.GetForecastByProvider("Oslo", "P")
	require.True(t, ok)
	assert.Equal(t, models.UnitsMetric, f.Units)

	// back in the same units the older one loses again
	assert.False(t, s.UpdateForecast(models.ForecastData{Provider: "P", Location: "Oslo", Units: models.UnitsMetric, Updated: now.Add(-time.Hour)}))
}

func TestForecastStore_Prune(t *testing.T) {
	s := NewForecastStore()
	s.UpdateForecast(models.ForecastData{Provider: "P", Location: "Old", Updated: time.Now().Add(-2 * time.Hour)})
	s.UpdateForecast(models.ForecastData{Provider: "P", Location: "New", Updated: time.Now()})

	assert.Equal(t, 1, s.PruneOldForecasts(time.Hour))
	assert.Equal(t, []string{"New"}, s.GetAllForecastLocations())
}

func TestWeatherStore(t *testing.T) {
	s := NewWeatherStore()
	now := time.Now()

	assert.True(t, s.UpdateWeather(models.WeatherData{Provider: "B", Location: "Rome", Temperature: 20, Timestamp: now}))
	assert.True(t, s.UpdateWeather(models.WeatherData{Provider: "A", Location: "Rome", Temperature: 21, Timestamp: now}))
	assert.False(t, s.UpdateWeather(models.WeatherData{Provider: "A", Location: "Rome", Temperature: 5, Timestamp: now.Add(-time.Hour)}))

	data, ok := s.GetWeatherByLocation("Rome")
	require.True(t, ok)
	require.Len(t, data, 2)
	assert.Equal(t, "A", data[0].Provider)
	assert.InDelta(t, 21.0, data[0].Temperature, 0)

	// a reading in other units replaces even when older
	assert.True(t, s.UpdateWeather(models.WeatherData{Provider: "A", Location: "Rome", Units: models.UnitsImperial, Temperature: 70, Timestamp: now.Add(-time.Hour)}))
	data, _ = s.GetWeatherByLocation("Rome")
	assert.Equal(t, models.UnitsImperial, data[0].Units)

	_, ok = s.GetWeatherByLocation("Milan")
	assert.False(t, ok)
	assert.Equal(t, []string{"Rome"}, s.GetAllLocations())
}
