package openweathermap

import (
	"context"
	"time"

	"go.uber.org/zap"

	"weather-dashboard/models"
)

// forecastResponse is the /forecast payload: up to 40 entries at 3-hour steps.
// Temperatures are pointers so missing fields stay distinguishable from 0°.
type forecastResponse struct {
	City struct {
		Name     string `json:"name"`
		Country  string `json:"country"`
		Timezone int    `json:"timezone"` // seconds east of UTC
	} `json:"city"`
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			TempMin *float64 `json:"temp_min"`
			TempMax *float64 `json:"temp_max"`
		} `json:"main"`
		Weather []weatherEntry `json:"weather"`
	} `json:"list"`
}

// FetchForecast fetches the five day forecast. Entries are passed through as they come,
// validation of individual samples is left to the aggregator. Updated is the time the
// request was sent.
func (c *Client) FetchForecast(ctx context.Context, settings models.Settings) (models.ForecastData, error) {
	requested := time.Now()
	var response forecastResponse
	if err := c.get(ctx, "forecast", settings, &response); err != nil {
		return models.ForecastData{}, err
	}

	forecast := models.ForecastData{
		Provider:  c.Name(),
		Location:  settings.Location,
		Units:     unitsOrDefault(settings.Units),
		UTCOffset: response.City.Timezone,
		Samples:   make([]models.Sample, 0, len(response.List)),
		Updated:   requested,
	}

	for _, item := range response.List {
		forecast.Samples = append(forecast.Samples, models.Sample{
			Timestamp:      item.Dt,
			TemperatureMin: item.Main.TempMin,
			TemperatureMax: item.Main.TempMax,
			Conditions:     conditions(item.Weather),
		})
	}

	c.logger.Debug("forecast fetched",
		zap.String("location", settings.Location),
		zap.String("city", response.City.Name),
		zap.Int("samples", len(forecast.Samples)))

	return forecast, nil
}
