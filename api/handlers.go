package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"weather-dashboard/forecast"
	"weather-dashboard/models"
)

// Forecast load states reported by the daily endpoint
const (
	StatusPending = "pending"
	StatusLoaded  = "loaded"
)

// DailyResponse is the body of GET /api/forecast/daily
type DailyResponse struct {
	Status     string                `json:"status"`
	Location   string                `json:"location"`
	Provider   string                `json:"provider,omitempty"`
	Providers  []string              `json:"providers,omitempty"`
	Units      models.UnitSystem     `json:"units,omitempty"`
	UnitSymbol string                `json:"unitSymbol,omitempty"`
	TimeZone   string                `json:"timeZone,omitempty"`
	UTCOffset  int                   `json:"utcOffset"`
	Updated    time.Time             `json:"updated,omitzero"`
	Days       []models.DailySummary `json:"days"`
}

// location returns the ?location= query value or the settings location
func (s *Server) location(c *gin.Context, settings models.Settings) string {
	if loc := strings.TrimSpace(c.Query("location")); loc != "" {
		return loc
	}
	return settings.Location
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleGetWeather returns current weather from every provider for a location
// GET /api/weather?location=
func (s *Server) handleGetWeather(c *gin.Context) {
	location := s.location(c, s.settings.Get())

	data, exists := s.weatherStore.GetWeatherByLocation(location)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{
			"error": fmt.Sprintf("No weather data found for location: %s", location),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"location":  location,
		"data":      data,
		"timestamp": time.Now(),
	})
}

// handleGetAllLocations returns a list of all locations with weather data
// GET /api/weather/locations
func (s *Server) handleGetAllLocations(c *gin.Context) {
	locations := s.weatherStore.GetAllLocations()
	c.JSON(http.StatusOK, gin.H{
		"locations": locations,
		"count":     len(locations),
	})
}

// handleGetForecast returns the raw forecast series
// GET /api/forecast?location=&provider=
func (s *Server) handleGetForecast(c *gin.Context) {
	location := s.location(c, s.settings.Get())

	if provider := c.Query("provider"); provider != "" {
		data, exists := s.forecastStore.GetForecastByProvider(location, provider)
		if !exists {
			c.JSON(http.StatusNotFound, gin.H{
				"error": fmt.Sprintf("No forecast data found for location '%s' from provider '%s'", location, provider),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"location":  location,
			"provider":  data.Provider,
			"data":      data,
			"timestamp": time.Now(),
		})
		return
	}

	forecasts, exists := s.forecastStore.GetForecastByLocation(location)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{
			"error": fmt.Sprintf("No forecast data found for location: %s", location),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"location":  location,
		"forecasts": forecasts,
		"timestamp": time.Now(),
	})
}

// handleGetDailyForecast aggregates the stored series into daily summaries on every request.
// A location without any fetched forecast is "pending"; a fetched but empty one is "loaded"
// with no days.
// GET /api/forecast/daily?location=&provider=
func (s *Server) handleGetDailyForecast(c *gin.Context) {
	settings := s.settings.Get()
	location := s.location(c, settings)
	pending := DailyResponse{Status: StatusPending, Location: location, Days: []models.DailySummary{}}

	forecasts, exists := s.forecastStore.GetForecastByLocation(location)
	if !exists || len(forecasts) == 0 {
		c.JSON(http.StatusNotFound, pending)
		return
	}

	providers := make([]string, 0, len(forecasts))
	for _, f := range forecasts {
		providers = append(providers, f.Provider)
	}

	data := forecasts[0]
	if provider := c.Query("provider"); provider != "" {
		var ok bool
		if data, ok = s.forecastStore.GetForecastByProvider(location, provider); !ok {
			pending.Providers = providers
			c.JSON(http.StatusNotFound, pending)
			return
		}
	}

	daily := forecast.Daily(data, settings)
	zone := settings.Zone(data)
	_, offset := time.Now().In(zone).Zone()
	c.JSON(http.StatusOK, DailyResponse{
		Status:     StatusLoaded,
		Location:   location,
		Provider:   daily.Provider,
		Providers:  providers,
		Units:      daily.Units,
		UnitSymbol: daily.Units.Symbol(),
		TimeZone:   zone.String(),
		UTCOffset:  offset,
		Updated:    daily.Updated,
		Days:       daily.Days,
	})
}

// handleGetSettings returns the current settings
// GET /api/settings
func (s *Server) handleGetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.settings.Get())
}

// handleUpdateSettings replaces the settings
// PUT /api/settings
func (s *Server) handleUpdateSettings(c *gin.Context) {
	var next models.Settings
	if err := c.ShouldBindJSON(&next); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings body: " + err.Error()})
		return
	}

	updated, err := s.settings.Update(next)
	if err != nil {
		if errors.Is(err, models.ErrInvalidSettings) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
		return
	}

	c.JSON(http.StatusOK, updated)
}
