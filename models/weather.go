package models

import (
	"time"
)

// WeatherData represents the current weather data from a provider
type WeatherData struct {
	Provider    string     `json:"provider"`
	Location    string     `json:"location"`
	Units       UnitSystem `json:"units"`
	Temperature float64    `json:"temperature"`
	FeelsLike   float64    `json:"feelsLike"`
	TempMin     float64    `json:"tempMin"`
	TempMax     float64    `json:"tempMax"`
	Humidity    float64    `json:"humidity"`
	WindSpeed   float64    `json:"windSpeed"`
	Pressure    float64    `json:"pressure"`
	Condition   Condition  `json:"condition"`
	WindDeg     int        `json:"windDeg"`
	Timestamp   time.Time  `json:"timestamp"`
}
