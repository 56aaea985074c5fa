// Package weatherapi implements the WeatherAPI.com current and forecast endpoints.
package weatherapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"weather-dashboard/datasource"
	"weather-dashboard/models"
)

const (
	// DefaultBaseURL is the API root
	DefaultBaseURL = "https://api.weatherapi.com/v1"
	providerName   = "WeatherAPI"

	// free tier limit
	maxForecastDays = 3
)

// Client talks to WeatherAPI.com. It implements datasource.Provider.
type Client struct {
	apiKey     string
	baseURL    string
	days       int
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API root
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithDays sets how many forecast days are requested, capped at the free tier limit
func WithDays(days int) Option {
	return func(c *Client) {
		if days > 0 && days <= maxForecastDays {
			c.days = days
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l.Named("weatherapi") }
}

// New creates a new WeatherAPI client
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		days:    maxForecastDays,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the provider name
func (c *Client) Name() string {
	return providerName
}

// condition is the WeatherAPI condition object. The code selects the category,
// the text becomes the description.
type condition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
	Code int    `json:"code"`
}

func (cd condition) toModel() models.Condition {
	return models.Condition{
		Category:    category(cd.Code, cd.Text),
		Description: strings.ToLower(cd.Text),
		Icon:        cd.Icon,
	}
}

// temperature picks the reading matching the unit system
func temperature(units models.UnitSystem, c, f float64) float64 {
	if units == models.UnitsImperial {
		return f
	}
	return units.FromCelsius(c)
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, v any) error {
	if c.apiKey == "" {
		return fmt.Errorf("%s: %w", providerName, datasource.ErrNotConfigured)
	}
	if strings.TrimSpace(params.Get("q")) == "" {
		return datasource.ErrInvalidLocation
	}
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug("requesting", zap.String("endpoint", endpoint), zap.String("location", params.Get("q")))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &datasource.APIError{Provider: providerName, StatusCode: resp.StatusCode}
		var er struct {
			Error struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &er) == nil {
			apiErr.Message = er.Error.Message
			// 1006 is "No matching location found", sent with a 400
			if er.Error.Code == 1006 {
				apiErr.StatusCode = http.StatusNotFound
			}
		}
		return apiErr
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// GetWeather fetches current weather for a location
func (c *Client) GetWeather(ctx context.Context, settings models.Settings) (models.WeatherData, error) {
	var response struct {
		Current struct {
			LastUpdatedEpoch int64     `json:"last_updated_epoch"`
			TempC            float64   `json:"temp_c"`
			TempF            float64   `json:"temp_f"`
			FeelsLikeC       float64   `json:"feelslike_c"`
			FeelsLikeF       float64   `json:"feelslike_f"`
			Humidity         int       `json:"humidity"`
			WindKph          float64   `json:"wind_kph"`
			WindDegree       int       `json:"wind_degree"`
			PressureMb       float64   `json:"pressure_mb"`
			Condition        condition `json:"condition"`
		} `json:"current"`
	}

	params := url.Values{}
	params.Set("q", settings.Location)
	if err := c.get(ctx, "current.json", params, &response); err != nil {
		return models.WeatherData{}, err
	}

	units := unitsOrDefault(settings.Units)
	cur := response.Current
	timestamp := time.Now()
	if cur.LastUpdatedEpoch > 0 {
		timestamp = time.Unix(cur.LastUpdatedEpoch, 0)
	}
	temp := temperature(units, cur.TempC, cur.TempF)

	return models.WeatherData{
		Provider:    c.Name(),
		Location:    settings.Location,
		Units:       units,
		Temperature: temp,
		FeelsLike:   temperature(units, cur.FeelsLikeC, cur.FeelsLikeF),
		TempMin:     temp,
		TempMax:     temp,
		Humidity:    float64(cur.Humidity),
		WindSpeed:   cur.WindKph / 3.6, // Convert to m/s
		WindDeg:     cur.WindDegree,
		Pressure:    cur.PressureMb,
		Condition:   cur.Condition.toModel(),
		Timestamp:   timestamp,
	}, nil
}

func unitsOrDefault(u models.UnitSystem) models.UnitSystem {
	if u == "" {
		return models.UnitsMetric
	}
	return u
}

func (c *Client) forecastParams(settings models.Settings) url.Values {
	params := url.Values{}
	params.Set("q", settings.Location)
	params.Set("days", strconv.Itoa(c.days))
	params.Set("aqi", "no")
	params.Set("alerts", "no")
	return params
}

var _ datasource.Provider = (*Client)(nil)
