package weatherapi

import (
	"context"
	"time"

	"weather-dashboard/models"
)

// forecastResponse holds the parts of forecast.json the samples are built from
type forecastResponse struct {
	Location struct {
		Name      string `json:"name"`
		Country   string `json:"country"`
		TzID      string `json:"tz_id"`
		Localtime int64  `json:"localtime_epoch"`
	} `json:"location"`
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Hour []struct {
				TimeEpoch int64     `json:"time_epoch"`
				TempC     *float64  `json:"temp_c"`
				TempF     *float64  `json:"temp_f"`
				Condition condition `json:"condition"`
			} `json:"hour"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

// utcOffset resolves the location's offset from its IANA zone, falling back to UTC
func (r forecastResponse) utcOffset(at time.Time) int {
	if r.Location.TzID == "" {
		return 0
	}
	loc, err := time.LoadLocation(r.Location.TzID)
	if err != nil {
		return 0
	}
	_, offset := at.In(loc).Zone()
	return offset
}

// FetchForecast fetches hourly forecasts and exposes each hour as a sample whose
// minimum and maximum are the hourly temperature. Updated is the time the request was sent.
func (c *Client) FetchForecast(ctx context.Context, settings models.Settings) (models.ForecastData, error) {
	requested := time.Now()
	var response forecastResponse
	if err := c.get(ctx, "forecast.json", c.forecastParams(settings), &response); err != nil {
		return models.ForecastData{}, err
	}

	units := unitsOrDefault(settings.Units)
	forecast := models.ForecastData{
		Provider:  c.Name(),
		Location:  settings.Location,
		Units:     units,
		UTCOffset: response.utcOffset(requested),
		Samples:   []models.Sample{},
		Updated:   requested,
	}

	for _, day := range response.Forecast.ForecastDay {
		for _, hour := range day.Hour {
			var temp *float64
			switch {
			case units == models.UnitsImperial && hour.TempF != nil:
				temp = models.Float(*hour.TempF)
			case units != models.UnitsImperial && hour.TempC != nil:
				temp = models.Float(units.FromCelsius(*hour.TempC))
			}

			sample := models.Sample{
				Timestamp:      hour.TimeEpoch,
				TemperatureMin: temp,
				TemperatureMax: temp,
			}
			if hour.Condition.Text != "" || hour.Condition.Icon != "" {
				sample.Conditions = []models.Condition{hour.Condition.toModel()}
			}
			forecast.Samples = append(forecast.Samples, sample)
		}
	}

	return forecast, nil
}
