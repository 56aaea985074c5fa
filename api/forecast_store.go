package api

import (
	"slices"
	"strings"
	"sync"
	"time"

	"weather-dashboard/models"
)

// ForecastStore holds the latest raw forecast series organized by location and provider.
// Daily summaries are not stored; they are aggregated from these on every read.
type ForecastStore struct {
	data  map[string]map[string]models.ForecastData // key is location, then provider
	mutex sync.RWMutex
}

// NewForecastStore creates a new in-memory forecast data store
func NewForecastStore() *ForecastStore {
	return &ForecastStore{
		data: make(map[string]map[string]models.ForecastData),
	}
}

// UpdateForecast adds or updates forecast data for a location. It reports false
// and keeps the stored forecast when data in the same unit system was requested
// before it. A forecast in other units always replaces the stored one, so switching
// units back to a cached result takes effect.
func (s *ForecastStore) UpdateForecast(data models.ForecastData) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	providers, exists := s.data[data.Location]
	if !exists {
		providers = make(map[string]models.ForecastData)
		s.data[data.Location] = providers
	}
	if current, ok := providers[data.Provider]; ok && current.Units == data.Units && data.Updated.Before(current.Updated) {
		return false
	}
	providers[data.Provider] = data
	return true
}

// GetForecastByLocation retrieves all forecast data for a location, ordered by provider
func (s *ForecastStore) GetForecastByLocation(location string) ([]models.ForecastData, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	providerMap, exists := s.data[location]
	if !exists {
		return nil, false
	}

	forecasts := make([]models.ForecastData, 0, len(providerMap))
	for _, forecast := range providerMap {
		forecasts = append(forecasts, forecast)
	}
	slices.SortFunc(forecasts, func(a, b models.ForecastData) int {
		return strings.Compare(a.Provider, b.Provider)
	})

	return forecasts, true
}

// GetForecastByProvider retrieves forecast data for a specific location and provider.
// The provider name is matched case-insensitively.
func (s *ForecastStore) GetForecastByProvider(location, provider string) (models.ForecastData, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	providerMap, exists := s.data[location]
	if !exists {
		return models.ForecastData{}, false
	}

	if forecast, ok := providerMap[provider]; ok {
		return forecast, true
	}
	for name, forecast := range providerMap {
		if strings.EqualFold(name, provider) {
			return forecast, true
		}
	}
	return models.ForecastData{}, false
}

// GetAllForecastLocations returns a sorted list of all locations with forecast data
func (s *ForecastStore) GetAllForecastLocations() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	locations := make([]string, 0, len(s.data))
	for loc := range s.data {
		locations = append(locations, loc)
	}
	slices.Sort(locations)
	return locations
}

// PruneOldForecasts removes forecasts older than the specified duration
func (s *ForecastStore) PruneOldForecasts(maxAge time.Duration) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := time.Now().Add(-maxAge)
	prunedCount := 0

	for location, providers := range s.data {
		for provider, forecast := range providers {
			if forecast.Updated.Before(cutoff) {
				delete(providers, provider)
				prunedCount++
			}
		}

		// If location has no more forecasts, remove it
		if len(providers) == 0 {
			delete(s.data, location)
		}
	}

	return prunedCount
}
