package publish

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"weather-dashboard/models"
)

type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Error() error                   { return t.err }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type message struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	connected    bool
	err          error
	messages     []message
	disconnected bool
}

func (c *fakeClient) IsConnected() bool { return c.connected }

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.messages = append(c.messages, message{topic, qos, retained, payload.([]byte)})
	return &fakeToken{err: c.err}
}

func (c *fakeClient) Disconnect(uint) {
	c.connected = false
	c.disconnected = true
}

func TestTopic(t *testing.T) {
	tests := []struct {
		prefix, location, want string
	}{
		{"weather", "London,UK", "weather/london_uk/daily"},
		{"home/weather/", "New York", "home/weather/new_york/daily"},
		{"", "Oslo", "oslo/daily"},
		{"weather", "a/b+c#", "weather/a_b_c_/daily"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Topic(tt.prefix, tt.location))
	}
}

func TestMQTTPublisher_PublishDaily(t *testing.T) {
	c := &fakeClient{connected: true}
	p := newMQTTPublisher(c, "weather", zap.NewNop())

	daily := models.DailyForecast{
		Provider: "OpenWeatherMap",
		Location: "Oslo",
		Units:    models.UnitsMetric,
		Days: []models.DailySummary{
			{Timestamp: 1717236000, TemperatureMin: models.Float(3), TemperatureMax: models.Float(9),
				Condition: models.Condition{Category: "Snow"}, Samples: 8},
		},
	}
	require.NoError(t, p.PublishDaily(context.Background(), daily))

	require.Len(t, c.messages, 1)
	msg := c.messages[0]
	assert.Equal(t, "weather/oslo/daily", msg.topic)
	assert.Equal(t, byte(0), msg.qos)
	assert.True(t, msg.retained)

	var decoded models.DailyForecast
	require.NoError(t, json.Unmarshal(msg.payload, &decoded))
	assert.Equal(t, daily.Days, decoded.Days)

	p.Close()
	assert.True(t, c.disconnected)
}

func TestMQTTPublisher_Errors(t *testing.T) {
	disconnected := newMQTTPublisher(&fakeClient{}, "weather", zap.NewNop())
	assert.Error(t, disconnected.PublishDaily(context.Background(), models.DailyForecast{Location: "Oslo"}))

	failing := newMQTTPublisher(&fakeClient{connected: true, err: errors.New("not authorized")}, "weather", zap.NewNop())
	err := failing.PublishDaily(context.Background(), models.DailyForecast{Location: "Oslo"})
	assert.ErrorContains(t, err, "not authorized")
}
