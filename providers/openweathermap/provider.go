// Package openweathermap implements the OpenWeatherMap current weather and
// 5 day / 3 hour forecast APIs.
package openweathermap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"weather-dashboard/datasource"
	"weather-dashboard/models"
)

const (
	// DefaultBaseURL is the free tier API root
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
	userAgent      = "weather-dashboard"
	providerName   = "OpenWeatherMap"
)

// Client talks to OpenWeatherMap. It implements datasource.Provider.
type Client struct {
	apiKey     string
	baseURL    string
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

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l.Named("openweathermap") }
}

// New creates a new OpenWeatherMap client
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
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

// errorResponse is the body OpenWeatherMap sends with non-200 answers
type errorResponse struct {
	Cod     json.RawMessage `json:"cod"`
	Message string          `json:"message"`
}

// weatherEntry is one element of the "weather" array
type weatherEntry struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func conditions(entries []weatherEntry) []models.Condition {
	out := make([]models.Condition, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.Condition{
			Category:    e.Main,
			Description: e.Description,
			Icon:        e.Icon,
		})
	}
	return out
}

// get performs a GET on endpoint and decodes a 200 answer into v
func (c *Client) get(ctx context.Context, endpoint string, settings models.Settings, v any) error {
	if c.apiKey == "" {
		return fmt.Errorf("%s: %w", providerName, datasource.ErrNotConfigured)
	}
	if strings.TrimSpace(settings.Location) == "" {
		return datasource.ErrInvalidLocation
	}

	units := settings.Units
	if units == "" {
		units = models.UnitsMetric
	}

	params := url.Values{}
	params.Add("q", settings.Location)
	params.Add("appid", c.apiKey)
	params.Add("units", string(units))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("requesting",
		zap.String("endpoint", endpoint),
		zap.String("location", settings.Location),
		zap.String("units", string(units)))

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
		var er errorResponse
		if json.Unmarshal(body, &er) == nil {
			apiErr.Message = er.Message
		}
		return apiErr
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// currentResponse is the /weather payload
type currentResponse struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Weather []weatherEntry `json:"weather"`
	Dt      int64          `json:"dt"`
	Name    string         `json:"name"`
	Sys     struct {
		Country string `json:"country"`
	} `json:"sys"`
}

// GetWeather fetches current weather for a location
func (c *Client) GetWeather(ctx context.Context, settings models.Settings) (models.WeatherData, error) {
	var response currentResponse
	if err := c.get(ctx, "weather", settings, &response); err != nil {
		return models.WeatherData{}, err
	}

	var condition models.Condition
	if conds := conditions(response.Weather); len(conds) > 0 {
		condition = conds[0]
	}

	timestamp := time.Now()
	if response.Dt > 0 {
		timestamp = time.Unix(response.Dt, 0)
	}

	return models.WeatherData{
		Provider:    c.Name(),
		Location:    settings.Location,
		Units:       unitsOrDefault(settings.Units),
		Temperature: response.Main.Temp,
		FeelsLike:   response.Main.FeelsLike,
		TempMin:     response.Main.TempMin,
		TempMax:     response.Main.TempMax,
		Humidity:    float64(response.Main.Humidity),
		WindSpeed:   response.Wind.Speed,
		WindDeg:     response.Wind.Deg,
		Pressure:    float64(response.Main.Pressure),
		Condition:   condition,
		Timestamp:   timestamp,
	}, nil
}

func unitsOrDefault(u models.UnitSystem) models.UnitSystem {
	if u == "" {
		return models.UnitsMetric
	}
	return u
}

var _ datasource.Provider = (*Client)(nil)
