// internal/writer/amqp/publisher.go
package amqp

import (
	"context"
	"encoding/json"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/motor-telemetry/internal/poller"
)

const (
	exchangeTypeDirect = "direct"
	durable            = true
	deleteWhenUnused   = false
	internal           = false
	noWait             = false
	mandatory          = false
	immediate          = false

	connectRetries = 5
)

// Config selects the broker and destination.
type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
}

type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends one JSON message per poll result to a direct exchange.
type Publisher struct {
	cfg  Config
	conn *amqp.Connection
	ch   channel
	log  *logrus.Entry
}

// Dial connects with exponential backoff and declares the exchange.
func Dial(cfg Config, log *logrus.Entry) (*Publisher, error) {
	var conn *amqp.Connection
	connect := func() error {
		c, err := amqp.Dial(cfg.URL)
		if err != nil {
			log.WithError(err).Warn("amqp connect failed, retrying")
			return err
		}
		conn = c
		return nil
	}

	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), connectRetries)
	if err := backoff.Retry(connect, b); err != nil {
		return nil, errors.Wrap(err, "amqp: dial")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "amqp: channel")
	}

	p, err := newPublisher(cfg, ch, log)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newPublisher(cfg Config, ch channel, log *logrus.Entry) (*Publisher, error) {
	if err := ch.ExchangeDeclare(cfg.Exchange, exchangeTypeDirect, durable, deleteWhenUnused, internal, noWait, nil); err != nil {
		return nil, errors.Wrapf(err, "amqp: declare exchange %s", cfg.Exchange)
	}
	return &Publisher{cfg: cfg, ch: ch, log: log}, nil
}

// Publish encodes and sends one poll result.
func (p *Publisher) Publish(ctx context.Context, res poller.PollResult) error {
	body, err := json.Marshal(NewMessage(res))
	if err != nil {
		return errors.Wrap(err, "amqp: encode")
	}

	err = p.ch.PublishWithContext(ctx, p.cfg.Exchange, p.cfg.RoutingKey, mandatory, immediate, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Transient,
		Timestamp:    res.At,
		Body:         body,
	})
	if err != nil {
		return errors.Wrap(err, "amqp: publish")
	}
	return nil
}

// Close closes the channel and connection.
func (p *Publisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
