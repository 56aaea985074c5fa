package openweathermap

import (
	"testing"

	"github.com/jarcoal/httpmock"
)

// setupHTTPMock activates httpmock for the duration of the test
func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

func registerResponder(t *testing.T, endpoint string, statusCode int, body string) {
	t.Helper()
	httpmock.RegisterResponder("GET", `=~^https://api\.openweathermap\.org/data/2\.5/`+endpoint,
		httpmock.NewStringResponder(statusCode, body))
}

// currentSuccessResponse is a trimmed real /weather answer
func currentSuccessResponse() string {
	return `{
  "coord": { "lon": 24.9384, "lat": 60.1699 },
  "weather": [{ "id": 803, "main": "Clouds", "description": "broken clouds", "icon": "04d" }],
  "main": { "temp": 14.55, "feels_like": 13.88, "temp_min": 13.33, "temp_max": 15.65, "pressure": 1014, "humidity": 72 },
  "visibility": 10000,
  "wind": { "speed": 4.12, "deg": 240, "gust": 7.5 },
  "clouds": { "all": 75 },
  "dt": 1736769600,
  "sys": { "country": "FI", "sunrise": 1736748345, "sunset": 1736779789 },
  "timezone": 7200,
  "name": "Helsinki",
  "cod": 200
}`
}

// forecastSuccessResponse has four entries: two on 2024-06-01 and two on 2024-06-02 UTC.
// The third entry has no weather array and the last one no temp_min.
func forecastSuccessResponse() string {
	return `{
  "cod": "200",
  "message": 0,
  "cnt": 4,
  "list": [
    {
      "dt": 1717236000,
      "main": { "temp": 12.1, "temp_min": 10.5, "temp_max": 12.1, "humidity": 80 },
      "weather": [{ "id": 500, "main": "Rain", "description": "light rain", "icon": "10n" }],
      "dt_txt": "2024-06-01 10:00:00"
    },
    {
      "dt": 1717246800,
      "main": { "temp": 15.3, "temp_min": 14.0, "temp_max": 16.2, "humidity": 70 },
      "weather": [{ "id": 800, "main": "Clear", "description": "clear sky", "icon": "01d" }],
      "dt_txt": "2024-06-01 13:00:00"
    },
    {
      "dt": 1717300800,
      "main": { "temp": 9.0, "temp_min": 8.1, "temp_max": 9.0, "humidity": 90 },
      "weather": [],
      "dt_txt": "2024-06-02 04:00:00"
    },
    {
      "dt": 1717311600,
      "main": { "temp": 11.0, "temp_max": 11.4, "humidity": 85 },
      "weather": [{ "id": 804, "main": "Clouds", "description": "overcast clouds", "icon": "04d" }],
      "dt_txt": "2024-06-02 07:00:00"
    }
  ],
  "city": { "id": 658225, "name": "Helsinki", "country": "FI", "timezone": 10800 }
}`
}

