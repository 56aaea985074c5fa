package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"weather-dashboard/config"
	"weather-dashboard/datasource"
)

func TestBuildProviders(t *testing.T) {
	c := &config.Config{}
	c.OpenWeatherMap = config.ProviderConfig{Enabled: true, APIKey: "k1"}
	c.WeatherAPI = config.ProviderConfig{Enabled: true}
	c.RateLimit.Enabled = true
	c.Cache.TTL = time.Minute

	providers := buildProviders(c, nil, zap.NewNop())

	require.Len(t, providers, 1, "provider without a key is skipped")
	assert.Equal(t, "OpenWeatherMap [Rate Limited] [Cached]", providers[0].Name())
	assert.Equal(t, "OpenWeatherMap", datasource.Root(providers[0]).Name())
}

func TestPickProvider(t *testing.T) {
	a := datasource.NewMockProvider("OpenWeatherMap", nil)
	b := datasource.NewRateLimitedProvider(datasource.NewMockProvider("WeatherAPI", nil), 1, 1, 1)
	providers := []datasource.Provider{a, b}

	p, err := pickProvider(providers, "")
	require.NoError(t, err)
	assert.Same(t, a, p)

	p, err = pickProvider(providers, "weatherapi")
	require.NoError(t, err)
	assert.Same(t, b, p)

	_, err = pickProvider(providers, "darksky")
	assert.Error(t, err)

	_, err = pickProvider(nil, "")
	assert.Error(t, err)
}
