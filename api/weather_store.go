package api

import (
	"slices"
	"strings"
	"sync"

	"weather-dashboard/models"
)

// WeatherStore holds the latest current weather by location and provider
type WeatherStore struct {
	data  map[string]map[string]models.WeatherData // key is location, then provider
	mutex sync.RWMutex
}

// NewWeatherStore creates a new in-memory weather data store
func NewWeatherStore() *WeatherStore {
	return &WeatherStore{
		data: make(map[string]map[string]models.WeatherData),
	}
}

// UpdateWeather adds or updates weather data for a location.
// Readings older than the stored one from the same provider and in the same unit
// system are ignored.
func (s *WeatherStore) UpdateWeather(data models.WeatherData) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	providers, exists := s.data[data.Location]
	if !exists {
		providers = make(map[string]models.WeatherData)
		s.data[data.Location] = providers
	}
	if current, ok := providers[data.Provider]; ok && current.Units == data.Units && data.Timestamp.Before(current.Timestamp) {
		return false
	}
	providers[data.Provider] = data
	return true
}

// GetWeatherByLocation retrieves weather data for a location, ordered by provider
func (s *WeatherStore) GetWeatherByLocation(location string) ([]models.WeatherData, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	providers, exists := s.data[location]
	if !exists {
		return nil, false
	}

	data := make([]models.WeatherData, 0, len(providers))
	for _, d := range providers {
		data = append(data, d)
	}
	slices.SortFunc(data, func(a, b models.WeatherData) int {
		return strings.Compare(a.Provider, b.Provider)
	})
	return data, true
}

// GetAllLocations returns a sorted list of all locations with weather data
func (s *WeatherStore) GetAllLocations() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	locations := make([]string, 0, len(s.data))
	for loc := range s.data {
		locations = append(locations, loc)
	}
	slices.Sort(locations)
	return locations
}
