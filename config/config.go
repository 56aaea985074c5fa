// Package config loads the service configuration from a YAML file, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"weather-dashboard/models"
)

// EnvPrefix prefixes every environment variable, e.g. WEATHER_SERVER_PORT
const EnvPrefix = "WEATHER"

// ProviderConfig configures one upstream API
type ProviderConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// Usable reports whether the provider should be constructed
func (p ProviderConfig) Usable() bool {
	return p.Enabled && p.APIKey != ""
}

// MQTTConfig configures the downstream publisher
type MQTTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
}

// Config represents the application configuration
type Config struct {
	Server struct {
		Port        int    `mapstructure:"port"`
		BearerToken string `mapstructure:"bearer_token"`
	} `mapstructure:"server"`

	UpdateInterval time.Duration `mapstructure:"update_interval"`
	PruneAge       time.Duration `mapstructure:"prune_age"`
	FetchTimeout   time.Duration `mapstructure:"fetch_timeout"`

	RateLimit struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"rate_limit"`

	Cache struct {
		TTL time.Duration `mapstructure:"ttl"`
	} `mapstructure:"cache"`

	Settings struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"settings"`

	// Defaults seed the settings store on first start
	Defaults struct {
		Location string `mapstructure:"location"`
		Units    string `mapstructure:"units"`
		TimeZone string `mapstructure:"timezone"`
	} `mapstructure:"defaults"`

	// Locations are refreshed in addition to the settings location
	Locations []string `mapstructure:"locations"`

	OpenWeatherMap ProviderConfig `mapstructure:"openweathermap"`
	WeatherAPI     ProviderConfig `mapstructure:"weatherapi"`
	MQTT           MQTTConfig     `mapstructure:"mqtt"`

	Log struct {
		Level       string `mapstructure:"level"`
		Development bool   `mapstructure:"development"`
	} `mapstructure:"log"`
}

// ErrNoProviders is returned when no provider is enabled with an API key
var ErrNoProviders = errors.New("no weather provider configured")

// flagBindings maps config keys to command line flags
var flagBindings = map[string]string{
	"server.port":        "port",
	"update_interval":    "update",
	"rate_limit.enabled": "rate-limit",
	"log.level":          "log-level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.bearer_token", "")
	v.SetDefault("update_interval", 5*time.Minute)
	v.SetDefault("prune_age", 6*time.Hour)
	v.SetDefault("fetch_timeout", 15*time.Second)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("settings.path", "settings.yaml")
	v.SetDefault("defaults.location", "London,UK")
	v.SetDefault("defaults.units", string(models.UnitsMetric))
	v.SetDefault("defaults.timezone", "")
	v.SetDefault("locations", []string{})
	v.SetDefault("openweathermap.enabled", true)
	v.SetDefault("openweathermap.api_key", "")
	v.SetDefault("openweathermap.base_url", "")
	v.SetDefault("weatherapi.enabled", true)
	v.SetDefault("weatherapi.api_key", "")
	v.SetDefault("weatherapi.base_url", "")
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.client_id", "weatherd")
	v.SetDefault("mqtt.topic_prefix", "weather")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load reads configuration. Precedence from low to high: defaults, the YAML file at path
// (or ./weatherd.yaml when path is empty), .env, environment variables, then any changed flags.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// unprefixed API key variables
	if err := v.BindEnv("openweathermap.api_key", EnvPrefix+"_OPENWEATHERMAP_API_KEY", "OPENWEATHERMAP_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}
	if err := v.BindEnv("weatherapi.api_key", EnvPrefix+"_WEATHERAPI_API_KEY", "WEATHERAPI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("weatherd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	if flags != nil {
		for key, name := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration a server needs to run
func (c *Config) Validate() error {
	if !c.OpenWeatherMap.Usable() && !c.WeatherAPI.Usable() {
		return ErrNoProviders
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.UpdateInterval <= 0 {
		return fmt.Errorf("update interval must be positive, got %s", c.UpdateInterval)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout)
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return errors.New("mqtt enabled without a broker")
	}
	if _, err := c.DefaultSettings(); err != nil {
		return err
	}
	return nil
}

// DefaultSettings returns the validated settings the store falls back to
func (c *Config) DefaultSettings() (models.Settings, error) {
	s := models.Settings{
		Location: c.Defaults.Location,
		Units:    models.UnitSystem(c.Defaults.Units),
		TimeZone: c.Defaults.TimeZone,
	}
	if err := s.Validate(); err != nil {
		return models.Settings{}, fmt.Errorf("invalid defaults: %w", err)
	}
	return s, nil
}
