package models

import "time"

// DailySummary is one calendar day of aggregated forecast.
// Timestamp is the earliest contributing sample and doubles as the day's identity.
type DailySummary struct {
	Timestamp      int64     `json:"timestamp"`
	TemperatureMin *float64  `json:"temperatureMin,omitempty"`
	TemperatureMax *float64  `json:"temperatureMax,omitempty"`
	Condition      Condition `json:"condition"`
	Samples        int       `json:"samples"`
}

// DailyForecast is the aggregated forecast handed to presenters and publishers
type DailyForecast struct {
	Provider string         `json:"provider"`
	Location string         `json:"location"`
	Units    UnitSystem     `json:"units"`
	Updated  time.Time      `json:"updated"`
	Days     []DailySummary `json:"days"`
}
