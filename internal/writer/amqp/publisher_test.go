package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/motor-telemetry/internal/halffloat"
	"github.com/tamzrod/motor-telemetry/internal/health"
	"github.com/tamzrod/motor-telemetry/internal/poller"
	"github.com/tamzrod/motor-telemetry/internal/quaternion"
	"github.com/tamzrod/motor-telemetry/internal/telemetry"
)

type channelMock struct {
	mock.Mock
}

func (c *channelMock) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return c.Called(name, kind).Error(0)
}

func (c *channelMock) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return c.Called(exchange, key, msg).Error(0)
}

func (c *channelMock) Close() error {
	return c.Called().Error(0)
}

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func sampleResult() poller.PollResult {
	q := quaternion.FromComponents(1, 0, 0)
	return poller.PollResult{
		Target: 1,
		At:     time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Reading: telemetry.Reading{
			Values: health.Measurements{
				"quat_x":          1,
				"fet_temperature": math.NaN(),
			},
			Quaternion: &q,
			Missing:    []string{"fet_temperature"},
		},
		Verdict: health.Verdict{
			Passed: false,
			Checks: []health.Check{{Name: "fet_temperature", Status: health.Fail, Reason: "reading not available"}},
		},
	}
}

func TestNewMessage_EncodesNaNAsNull(t *testing.T) {
	body, err := json.Marshal(NewMessage(sampleResult()))
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &doc))

	values := doc["values"].(map[string]interface{})
	assert.Nil(t, values["fet_temperature"])
	assert.Equal(t, 1.0, values["quat_x"])

	verdict := doc["verdict"].(map[string]interface{})
	assert.Equal(t, false, verdict["passed"])
	checks := verdict["checks"].([]interface{})
	assert.Equal(t, "FAIL", checks[0].(map[string]interface{})["status"])

	quat := doc["quaternion"].(map[string]interface{})
	assert.Equal(t, true, quat["valid"])
}

func TestNewMessage_Error(t *testing.T) {
	m := NewMessage(poller.PollResult{Target: 2, Err: errors.New("timeout")})
	assert.Equal(t, "timeout", m.Error)
	assert.Nil(t, m.Verdict)
	assert.Nil(t, m.Values)
}

func TestPublish(t *testing.T) {
	ch := new(channelMock)
	ch.On("ExchangeDeclare", "telemetry", exchangeTypeDirect).Return(nil)
	ch.On("PublishWithContext", "telemetry", "health", mock.MatchedBy(func(msg amqp.Publishing) bool {
		return msg.ContentType == "application/json" && len(msg.Body) > 0
	})).Return(nil)

	p, err := newPublisher(Config{Exchange: "telemetry", RoutingKey: "health"}, ch, quietLog())
	require.NoError(t, err)

	assert.NoError(t, p.Publish(context.Background(), sampleResult()))
	ch.AssertExpectations(t)
}

func TestPublish_Failure(t *testing.T) {
	ch := new(channelMock)
	ch.On("ExchangeDeclare", "telemetry", exchangeTypeDirect).Return(nil)
	ch.On("PublishWithContext", "telemetry", "health", mock.Anything).Return(errors.New("closed"))

	p, err := newPublisher(Config{Exchange: "telemetry", RoutingKey: "health"}, ch, quietLog())
	require.NoError(t, err)

	assert.Error(t, p.Publish(context.Background(), sampleResult()))
}

func TestNewPublisher_DeclareFailure(t *testing.T) {
	ch := new(channelMock)
	ch.On("ExchangeDeclare", "telemetry", exchangeTypeDirect).Return(errors.New("access refused"))

	_, err := newPublisher(Config{Exchange: "telemetry"}, ch, quietLog())
	assert.Error(t, err)
}

func TestClose(t *testing.T) {
	ch := new(channelMock)
	ch.On("ExchangeDeclare", "telemetry", exchangeTypeDirect).Return(nil)
	ch.On("Close").Return(nil)

	p, err := newPublisher(Config{Exchange: "telemetry"}, ch, quietLog())
	require.NoError(t, err)
	assert.NoError(t, p.Close())
	ch.AssertExpectations(t)
}

func TestPublish_NonFiniteQuaternion(t *testing.T) {
	nan := halffloat.Decode(0x7E00)
	inf := halffloat.Decode(0x7C00)
	q := quaternion.FromComponents(nan, inf, 0)

	res := sampleResult()
	res.Reading.Values["quat_x"] = nan
	res.Reading.Values["quat_y"] = inf
	res.Reading.Quaternion = &q

	var body []byte
	ch := new(channelMock)
	ch.On("ExchangeDeclare", "telemetry", exchangeTypeDirect).Return(nil)
	ch.On("PublishWithContext", "telemetry", "health", mock.Anything).
		Run(func(args mock.Arguments) { body = args.Get(2).(amqp.Publishing).Body }).
		Return(nil)

	p, err := newPublisher(Config{Exchange: "telemetry", RoutingKey: "health"}, ch, quietLog())
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), res))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &doc))

	quat := doc["quaternion"].(map[string]interface{})
	assert.Nil(t, quat["x"])
	assert.Nil(t, quat["y"])
	assert.Equal(t, 0.0, quat["z"])
	assert.Equal(t, false, quat["valid"])

	values := doc["values"].(map[string]interface{})
	assert.Nil(t, values["quat_x"])
	assert.Nil(t, values["quat_y"])
	assert.NotNil(t, doc["verdict"])
}
