// Package api serves current weather, raw forecasts and daily summaries over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"weather-dashboard/models"
)

// SettingsStore reads and updates the dashboard settings
type SettingsStore interface {
	Get() models.Settings
	Update(next models.Settings) (models.Settings, error)
}

// Config holds the HTTP settings
type Config struct {
	Port        int
	BearerToken string
}

// ListenAddr returns the address the server binds to
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Server bundles router and dependencies for the REST API
type Server struct {
	cfg           Config
	weatherStore  *WeatherStore
	forecastStore *ForecastStore
	settings      SettingsStore
	gatherer      prometheus.Gatherer
	logger        *zap.Logger
	engine        *gin.Engine
}

// NewServer constructs a server with routes and middleware. A nil gatherer disables /metrics.
func NewServer(cfg Config, weatherStore *WeatherStore, forecastStore *ForecastStore,
	settings SettingsStore, gatherer prometheus.Gatherer, logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("api")

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestIDMiddleware())
	engine.Use(accessLogMiddleware(logger))
	engine.Use(corsMiddleware())

	server := &Server{
		cfg:           cfg,
		weatherStore:  weatherStore,
		forecastStore: forecastStore,
		settings:      settings,
		gatherer:      gatherer,
		logger:        logger,
		engine:        engine,
	}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until ctx is done
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/api/health", s.handleHealthCheck)
	if s.gatherer != nil {
		s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	group := s.engine.Group("/api")
	if s.cfg.BearerToken != "" {
		group.Use(bearerAuthMiddleware(s.cfg.BearerToken))
	}

	group.GET("/weather", s.handleGetWeather)
	group.GET("/weather/locations", s.handleGetAllLocations)
	group.GET("/forecast", s.handleGetForecast)
	group.GET("/forecast/daily", s.handleGetDailyForecast)
	group.GET("/settings", s.handleGetSettings)
	group.PUT("/settings", s.handleUpdateSettings)
}
