package models

import (
	"time"
)

// Condition is one weather condition entry of a sample
type Condition struct {
	Category    string `json:"category"`    // coarse label, e.g. "Clear", "Rain"
	Description string `json:"description"` // human readable text
	Icon        string `json:"icon"`        // provider icon code
}

// Sample is a single forecast measurement for a fixed window (3 hours for OpenWeatherMap).
// Temperatures are pointers because the upstream payload is untrusted and may omit them.
type Sample struct {
	Timestamp      int64       `json:"timestamp"` // validity time, seconds since epoch
	TemperatureMin *float64    `json:"temperatureMin,omitempty"`
	TemperatureMax *float64    `json:"temperatureMax,omitempty"`
	Conditions     []Condition `json:"conditions"`
}

// Time returns the sample validity time
func (s Sample) Time() time.Time {
	return time.Unix(s.Timestamp, 0)
}

// ForecastData represents weather forecast data from a provider
type ForecastData struct {
	Provider  string     `json:"provider"`  // weather data provider name
	Location  string     `json:"location"`  // location name
	Units     UnitSystem `json:"units"`     // unit system of every temperature
	UTCOffset int        `json:"utcOffset"` // seconds east of UTC at the location
	Samples   []Sample   `json:"samples"`   // flat time series
	Updated   time.Time  `json:"updated"`   // when this forecast was fetched
}

// Zone returns a fixed zone matching the location's UTC offset
func (f ForecastData) Zone() *time.Location {
	return time.FixedZone(f.Location, f.UTCOffset)
}

// Float returns a pointer to v, for building samples
func Float(v float64) *float64 {
	return &v
}
