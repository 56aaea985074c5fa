package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"weather-dashboard/models"
)

const (
	connectTimeout = 30 * time.Second
	publishTimeout = 10 * time.Second
)

// MQTTConfig holds the broker connection settings
type MQTTConfig struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

// client is the subset of mqtt.Client the publisher uses
type client interface {
	IsConnected() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTTPublisher publishes daily forecasts as retained JSON messages so a
// dashboard subscribing later still receives the latest forecast.
type MQTTPublisher struct {
	client client
	prefix string
	logger *zap.Logger
}

// NewMQTTPublisher connects to the broker
func NewMQTTPublisher(cfg MQTTConfig, logger *zap.Logger) (*MQTTPublisher, error) {
	logger = logger.Named("mqtt")

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		logger.Info("connected to MQTT broker", zap.String("broker", cfg.Broker))
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("connection to MQTT broker lost", zap.String("broker", cfg.Broker), zap.Error(err))
	})

	c := mqtt.NewClient(opts)
	token := c.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, errors.New("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connection error: %w", err)
	}

	return newMQTTPublisher(c, cfg.TopicPrefix, logger), nil
}

func newMQTTPublisher(c client, prefix string, logger *zap.Logger) *MQTTPublisher {
	return &MQTTPublisher{client: c, prefix: prefix, logger: logger}
}

// Topic returns the topic a location's daily forecast is published on
func Topic(prefix, location string) string {
	segment := strings.Map(func(r rune) rune {
		switch r {
		case '/', '+', '#', ' ', ',':
			return '_'
		}
		return r
	}, strings.ToLower(strings.TrimSpace(location)))

	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return segment + "/daily"
	}
	return prefix + "/" + segment + "/daily"
}

// PublishDaily sends the forecast with QoS 0 and the retain flag set
func (p *MQTTPublisher) PublishDaily(ctx context.Context, f models.DailyForecast) error {
	if !p.client.IsConnected() {
		return errors.New("not connected to MQTT broker")
	}

	payload, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode daily forecast: %w", err)
	}

	topic := Topic(p.prefix, f.Location)
	token := p.client.Publish(topic, 0, true, payload)

	timeout := publishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("publish timeout for topic %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}

	p.logger.Debug("published daily forecast",
		zap.String("topic", topic),
		zap.String("provider", f.Provider),
		zap.Int("days", len(f.Days)))
	return nil
}

// Close disconnects from the broker
func (p *MQTTPublisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}

var _ Publisher = (*MQTTPublisher)(nil)
