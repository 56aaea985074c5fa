package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"weather-dashboard/datasource"
	"weather-dashboard/forecast"
	"weather-dashboard/models"
	"weather-dashboard/present"
	"weather-dashboard/settings"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Fetch a forecast once and print the daily summaries",
	Example: `  weatherd forecast --location "Oslo,NO" --units metric
  weatherd forecast --provider weatherapi --timezone location`,
	RunE: runForecast,
}

func init() {
	forecastCmd.Flags().StringP("location", "l", "", "Location (default from settings)")
	forecastCmd.Flags().StringP("units", "u", "", "Unit system: standard, metric or imperial")
	forecastCmd.Flags().String("timezone", "", `Time zone for day boundaries: IANA name or "location"`)
	forecastCmd.Flags().String("provider", "", "Provider to query (default: first configured)")
}

// forecastSettings starts from the stored settings and applies the command line overrides
func forecastSettings(cmd *cobra.Command) (models.Settings, error) {
	defaults, err := cfg.DefaultSettings()
	if err != nil {
		return models.Settings{}, err
	}
	store, err := settings.Open(cfg.Settings.Path, defaults, logger)
	if err != nil {
		return models.Settings{}, err
	}

	s := store.Get()
	flags := cmd.Flags()
	if flags.Changed("location") {
		s.Location, _ = flags.GetString("location")
	}
	if flags.Changed("units") {
		units, _ := flags.GetString("units")
		s.Units = models.UnitSystem(units)
	}
	if flags.Changed("timezone") {
		s.TimeZone, _ = flags.GetString("timezone")
	}
	return s, s.Validate()
}

func pickProvider(providers []datasource.Provider, name string) (datasource.Provider, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("no weather providers enabled in configuration")
	}
	if name == "" {
		return providers[0], nil
	}
	for _, p := range providers {
		if strings.EqualFold(datasource.Root(p).Name(), name) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("provider %q is not configured", name)
}

func runForecast(cmd *cobra.Command, args []string) error {
	s, err := forecastSettings(cmd)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("provider")
	provider, err := pickProvider(buildProviders(cfg, nil, logger), name)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.FetchTimeout)
	defer cancel()

	data, err := provider.FetchForecast(ctx, s)
	if err != nil {
		return fmt.Errorf("failed to fetch forecast: %w", err)
	}

	return present.Daily(os.Stdout, forecast.Daily(data, s), s.Zone(data))
}
