package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// UnitSystem selects the units the upstream API reports in
type UnitSystem string

const (
	UnitsStandard UnitSystem = "standard" // Kelvin
	UnitsMetric   UnitSystem = "metric"   // Celsius
	UnitsImperial UnitSystem = "imperial" // Fahrenheit
)

// TimeZoneLocation makes day grouping follow the forecast location's own UTC offset
const TimeZoneLocation = "location"

// ParseUnitSystem accepts the unit names and a few common aliases
func ParseUnitSystem(s string) (UnitSystem, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "kelvin", "k":
		return UnitsStandard, nil
	case "metric", "celsius", "c":
		return UnitsMetric, nil
	case "imperial", "fahrenheit", "f":
		return UnitsImperial, nil
	}
	return "", fmt.Errorf("unknown unit system %q", s)
}

// Symbol returns the temperature unit symbol
func (u UnitSystem) Symbol() string {
	switch u {
	case UnitsMetric:
		return "°C"
	case UnitsImperial:
		return "°F"
	default:
		return "K"
	}
}

// Temperature conversion constants
const (
	celsiusToFahrenheitScale  = 9.0 / 5.0
	celsiusToFahrenheitOffset = 32.0
	kelvinOffset              = 273.15
)

// FromCelsius converts a Celsius reading into the unit system
func (u UnitSystem) FromCelsius(c float64) float64 {
	switch u {
	case UnitsImperial:
		return c*celsiusToFahrenheitScale + celsiusToFahrenheitOffset
	case UnitsStandard:
		return c + kelvinOffset
	default:
		return c
	}
}

// Settings is the user state: which location to show and in which units.
// It is passed explicitly to every fetch and aggregation.
type Settings struct {
	Location string     `json:"location" yaml:"location"`
	Units    UnitSystem `json:"units" yaml:"units"`
	TimeZone string     `json:"timeZone,omitempty" yaml:"timezone,omitempty"`
}

// ErrInvalidSettings is wrapped by every Validate failure
var ErrInvalidSettings = errors.New("invalid settings")

// Validate checks the settings and normalises the unit system
func (s *Settings) Validate() error {
	s.Location = strings.TrimSpace(s.Location)
	if s.Location == "" {
		return fmt.Errorf("%w: location is required", ErrInvalidSettings)
	}
	if s.Units == "" {
		s.Units = UnitsMetric
	}
	units, err := ParseUnitSystem(string(s.Units))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	s.Units = units
	if s.TimeZone != "" && s.TimeZone != TimeZoneLocation {
		if _, err := time.LoadLocation(s.TimeZone); err != nil {
			return fmt.Errorf("%w: time zone: %v", ErrInvalidSettings, err)
		}
	}
	return nil
}

// Zone resolves the time zone that defines calendar days for these settings.
// The forecast is needed when TimeZone is "location".
func (s Settings) Zone(f ForecastData) *time.Location {
	switch s.TimeZone {
	case "":
		return time.Local
	case TimeZoneLocation:
		return f.Zone()
	}
	loc, err := time.LoadLocation(s.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}
