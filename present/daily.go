// Package present renders daily forecasts for the terminal.
package present

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"weather-dashboard/models"
)

// NoForecast is printed when there are no days to show
const NoForecast = "no forecast available"

// formatTemp prints a temperature with the unit symbol, or "--" when unknown
func formatTemp(v *float64, units models.UnitSystem) string {
	if v == nil {
		return "--"
	}
	return fmt.Sprintf("%.1f%s", *v, units.Symbol())
}

func describe(c models.Condition) string {
	text := c.Description
	if text == "" {
		text = c.Category
	}
	if text == "" {
		text = "-"
	}
	if c.Icon != "" {
		text += " (" + c.Icon + ")"
	}
	return text
}

// Daily writes one line per day in the order given. loc selects the calendar
// the dates are shown in; nil means time.Local.
func Daily(w io.Writer, f models.DailyForecast, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	if len(f.Days) == 0 {
		_, err := fmt.Fprintln(w, NoForecast)
		return err
	}

	heading := lipgloss.NewRenderer(w).NewStyle().Bold(true)
	title := f.Location
	if f.Provider != "" {
		title += " - " + f.Provider
	}
	if _, err := fmt.Fprintln(w, heading.Render(title)); err != nil {
		return err
	}

	for _, day := range f.Days {
		date := time.Unix(day.Timestamp, 0).In(loc).Format("Mon 02 Jan")
		_, err := fmt.Fprintf(w, "%-10s  %8s  %8s  %s\n",
			date,
			formatTemp(day.TemperatureMin, f.Units),
			formatTemp(day.TemperatureMax, f.Units),
			describe(day.Condition))
		if err != nil {
			return err
		}
	}
	return nil
}
