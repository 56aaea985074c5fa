package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"weather-dashboard/api"
	"weather-dashboard/collector"
	"weather-dashboard/config"
	"weather-dashboard/metrics"
	"weather-dashboard/publish"
	"weather-dashboard/settings"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server and the periodic updater",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, logger)
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 8080, "Port to run the server on")
	serveCmd.Flags().Duration("update", 5*time.Minute, "Weather data update interval")
	serveCmd.Flags().Bool("rate-limit", true, "Enable API rate limiting")
}

func newPublisher(cfg *config.Config, logger *zap.Logger) (publish.Publisher, error) {
	if !cfg.MQTT.Enabled {
		return publish.Nop{}, nil
	}
	return publish.NewMQTTPublisher(publish.MQTTConfig{
		Broker:      cfg.MQTT.Broker,
		ClientID:    cfg.MQTT.ClientID,
		Username:    cfg.MQTT.Username,
		Password:    cfg.MQTT.Password,
		TopicPrefix: cfg.MQTT.TopicPrefix,
	}, logger)
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	defaults, err := cfg.DefaultSettings()
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(registry)
	if err != nil {
		return err
	}

	store, err := settings.Open(cfg.Settings.Path, defaults, logger)
	if err != nil {
		return fmt.Errorf("failed to open settings: %w", err)
	}

	providers := buildProviders(cfg, m, logger)
	if len(providers) == 0 {
		return fmt.Errorf("no weather providers enabled in configuration")
	}

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	// Create in-memory stores for weather and forecast data
	weatherStore := api.NewWeatherStore()
	forecastStore := api.NewForecastStore()

	server := api.NewServer(api.Config{
		Port:        cfg.Server.Port,
		BearerToken: cfg.Server.BearerToken,
	}, weatherStore, forecastStore, store, registry, logger)

	updater := collector.New(collector.Options{
		Providers:    providers,
		Weather:      weatherStore,
		Forecasts:    forecastStore,
		Settings:     store,
		Publisher:    publisher,
		Metrics:      m,
		Logger:       logger,
		Locations:    cfg.Locations,
		Interval:     cfg.UpdateInterval,
		FetchTimeout: cfg.FetchTimeout,
		PruneAge:     cfg.PruneAge,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(ctx) })
	g.Go(func() error { return updater.Run(ctx) })

	err = g.Wait()
	logger.Info("shutdown complete")
	return err
}
