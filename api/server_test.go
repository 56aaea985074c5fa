package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-dashboard/metrics"
	"weather-dashboard/models"
	"weather-dashboard/settings"
)

type testServer struct {
	*Server
	settings *settings.Store
}

func newTestServer(t *testing.T, token string) *testServer {
	t.Helper()
	store, err := settings.Open("", models.Settings{Location: "Oslo", Units: models.UnitsMetric, TimeZone: "UTC"}, nil)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	_, err = metrics.New(reg)
	require.NoError(t, err)

	srv := NewServer(Config{Port: 8080, BearerToken: token}, NewWeatherStore(), NewForecastStore(), store, reg, nil)
	gin.SetMode(gin.TestMode)
	return &testServer{Server: srv, settings: store}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, http.NoBody)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// osloForecast spans 2024-06-01 and 2024-06-02 UTC
func osloForecast(provider string) models.ForecastData {
	return models.ForecastData{
		Provider: provider,
		Location: "Oslo",
		Units:    models.UnitsMetric,
		Updated:  time.Now(),
		Samples: []models.Sample{
			{Timestamp: 1717300800, TemperatureMin: models.Float(3), TemperatureMax: models.Float(13),
				Conditions: []models.Condition{{Category: "Rain", Description: "light rain", Icon: "10d"}}},
			{Timestamp: 1717236000, TemperatureMin: models.Float(10), TemperatureMax: models.Float(22),
				Conditions: []models.Condition{{Category: "Clear", Description: "clear sky", Icon: "01d"}}},
		},
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")
	rec := s.do(t, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDPropagated(t *testing.T) {
	s := newTestServer(t, "")
	rec := s.do(t, http.MethodGet, "/api/health", "", "X-Request-ID", "abc-123")
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestDailyForecast_Pending(t *testing.T) {
	s := newTestServer(t, "")
	rec := s.do(t, http.MethodGet, "/api/forecast/daily", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decode[DailyResponse](t, rec)
	assert.Equal(t, StatusPending, resp.Status)
	assert.Equal(t, "Oslo", resp.Location)
	assert.NotNil(t, resp.Days)
	assert.Empty(t, resp.Days)
}

func TestDailyForecast_Loaded(t *testing.T) {
	s := newTestServer(t, "")
	s.forecastStore.UpdateForecast(osloForecast("OpenWeatherMap"))

	rec := s.do(t, http.MethodGet, "/api/forecast/daily", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[DailyResponse](t, rec)
	assert.Equal(t, StatusLoaded, resp.Status)
	assert.Equal(t, "OpenWeatherMap", resp.Provider)
	assert.Equal(t, "°C", resp.UnitSymbol)
	assert.Equal(t, "UTC", resp.TimeZone)
	require.Len(t, resp.Days, 2)
	assert.Equal(t, int64(1717236000), resp.Days[0].Timestamp)
	assert.InDelta(t, 10.0, *resp.Days[0].TemperatureMin, 0)
	assert.InDelta(t, 22.0, *resp.Days[0].TemperatureMax, 0)
	assert.Equal(t, "Clear", resp.Days[0].Condition.Category)
	assert.Equal(t, "Rain", resp.Days[1].Condition.Category)
}

func TestDailyForecast_LoadedButEmpty(t *testing.T) {
	s := newTestServer(t, "")
	empty := osloForecast("WeatherAPI")
	empty.Samples = nil
	s.forecastStore.UpdateForecast(empty)

	rec := s.do(t, http.MethodGet, "/api/forecast/daily", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[DailyResponse](t, rec)
	assert.Equal(t, StatusLoaded, resp.Status)
	assert.NotNil(t, resp.Days)
	assert.Empty(t, resp.Days)
}

func TestDailyForecast_ProviderAndLocation(t *testing.T) {
	s := newTestServer(t, "")
	s.forecastStore.UpdateForecast(osloForecast("OpenWeatherMap"))
	s.forecastStore.UpdateForecast(osloForecast("WeatherAPI"))

	rec := s.do(t, http.MethodGet, "/api/forecast/daily?provider=weatherapi", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[DailyResponse](t, rec)
	assert.Equal(t, "WeatherAPI", resp.Provider)
	assert.Equal(t, []string{"OpenWeatherMap", "WeatherAPI"}, resp.Providers)

	rec = s.do(t, http.MethodGet, "/api/forecast/daily?provider=Unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/forecast/daily?location=Paris", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Paris", decode[DailyResponse](t, rec).Location)
}

func TestDailyForecast_FollowsSettingsTimeZone(t *testing.T) {
	s := newTestServer(t, "")
	f := osloForecast("OpenWeatherMap")
	// 23:00 and 01:00 UTC on consecutive dates: one day at UTC+2
	f.Samples = []models.Sample{
		{Timestamp: 1717282800, TemperatureMin: models.Float(5), TemperatureMax: models.Float(6)},
		{Timestamp: 1717290000, TemperatureMin: models.Float(4), TemperatureMax: models.Float(7)},
	}
	f.UTCOffset = 2 * 3600
	s.forecastStore.UpdateForecast(f)

	resp := decode[DailyResponse](t, s.do(t, http.MethodGet, "/api/forecast/daily", ""))
	assert.Len(t, resp.Days, 2)

	_, err := s.settings.Update(models.Settings{Location: "Oslo", Units: models.UnitsMetric, TimeZone: models.TimeZoneLocation})
	require.NoError(t, err)

	resp = decode[DailyResponse](t, s.do(t, http.MethodGet, "/api/forecast/daily", ""))
	require.Len(t, resp.Days, 1)
	assert.Equal(t, 2, resp.Days[0].Samples)
}

func TestRawForecast(t *testing.T) {
	s := newTestServer(t, "")
	rec := s.do(t, http.MethodGet, "/api/forecast", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	s.forecastStore.UpdateForecast(osloForecast("OpenWeatherMap"))

	rec = s.do(t, http.MethodGet, "/api/forecast", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Forecasts []models.ForecastData `json:"forecasts"`
	}](t, rec)
	require.Len(t, body.Forecasts, 1)
	assert.Len(t, body.Forecasts[0].Samples, 2)

	rec = s.do(t, http.MethodGet, "/api/forecast?provider=OpenWeatherMap", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWeather(t *testing.T) {
	s := newTestServer(t, "")
	rec := s.do(t, http.MethodGet, "/api/weather", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	s.weatherStore.UpdateWeather(models.WeatherData{Provider: "WeatherAPI", Location: "Oslo", Temperature: 12, Timestamp: time.Now()})

	rec = s.do(t, http.MethodGet, "/api/weather", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Data []models.WeatherData `json:"data"`
	}](t, rec)
	require.Len(t, body.Data, 1)
	assert.InDelta(t, 12.0, body.Data[0].Temperature, 0)

	locations := decode[struct {
		Locations []string `json:"locations"`
		Count     int      `json:"count"`
	}](t, s.do(t, http.MethodGet, "/api/weather/locations", ""))
	assert.Equal(t, []string{"Oslo"}, locations.Locations)
	assert.Equal(t, 1, locations.Count)
}

func TestSettings(t *testing.T) {
	s := newTestServer(t, "")

	got := decode[models.Settings](t, s.do(t, http.MethodGet, "/api/settings", ""))
	assert.Equal(t, "Oslo", got.Location)

	rec := s.do(t, http.MethodPut, "/api/settings", `{"location":"Tokyo","units":"fahrenheit"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.Settings{Location: "Tokyo", Units: models.UnitsImperial}, decode[models.Settings](t, rec))
	assert.Equal(t, "Tokyo", s.settings.Get().Location)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"location":`},
		{"empty location", `{"location":"","units":"metric"}`},
		{"bad units", `{"location":"Tokyo","units":"rankine"}`},
		{"bad zone", `{"location":"Tokyo","units":"metric","timeZone":"Nowhere/Land"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPut, "/api/settings", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Tokyo", s.settings.Get().Location)
		})
	}
}

func TestBearerAuth(t *testing.T) {
	s := newTestServer(t, "secret")

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/health", "").Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/settings", "").Code)
	assert.Equal(t, http.StatusUnauthorized,
		s.do(t, http.MethodGet, "/api/settings", "", "Authorization", "Bearer wrong").Code)
	assert.Equal(t, http.StatusUnauthorized,
		s.do(t, http.MethodGet, "/api/settings", "", "Authorization", "Bearer secret-and-more").Code)
	assert.Equal(t, http.StatusUnauthorized,
		s.do(t, http.MethodGet, "/api/settings", "", "Authorization", "Bearer ").Code)
	assert.Equal(t, http.StatusOK,
		s.do(t, http.MethodGet, "/api/settings", "", "Authorization", "Bearer secret").Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, "")
	rec := s.do(t, http.MethodOptions, "/api/settings", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, "")
	rec := s.do(t, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}
