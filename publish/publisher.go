// Package publish hands aggregated daily forecasts to downstream consumers.
package publish

import (
	"context"

	"weather-dashboard/models"
)

// Publisher receives every freshly aggregated daily forecast
type Publisher interface {
	PublishDaily(ctx context.Context, f models.DailyForecast) error
	Close()
}

// Nop discards everything. It is used when publishing is disabled.
type Nop struct{}

// PublishDaily does nothing
func (Nop) PublishDaily(context.Context, models.DailyForecast) error { return nil }

// Close does nothing
func (Nop) Close() {}

var _ Publisher = Nop{}
