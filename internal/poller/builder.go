// internal/poller/builder.go
package poller

import (
	"time"

	"github.com/sirupsen/logrus"

	cfg "github.com/tamzrod/motor-telemetry/internal/config"
	pmodbus "github.com/tamzrod/motor-telemetry/internal/poller/modbus"
)

const startupConnectRetries = 3

// Build constructs a Poller and wires Modbus client lifecycle.
// Connection is reused while healthy.
// On transport death, Poller discards the client and uses factory on a future tick.
// Config must already be validated and normalized.
func Build(c *cfg.Config, selected []string, log *logrus.Entry) (*Poller, func() error, error) {
	reg, err := c.Registry()
	if err != nil {
		return nil, nil, err
	}
	layout, err := c.Layout(reg)
	if err != nil {
		return nil, nil, err
	}
	eval, err := c.Evaluator()
	if err != nil {
		return nil, nil, err
	}

	connect := func(retries uint64) (Executor, error) {
		mc, err := pmodbus.New(pmodbus.Config{
			Endpoint:       c.Device.Endpoint,
			Timeout:        time.Duration(c.Device.TimeoutMs) * time.Millisecond,
			BaudRate:       c.Device.BaudRate,
			DataBits:       c.Device.DataBits,
			Parity:         c.Device.Parity,
			StopBits:       c.Device.StopBits,
			ConnectRetries: retries,
		}, log)
		if err != nil {
			return nil, err
		}
		return mc, nil
	}

	// client factory: ONE attempt per call, the ticker paces reconnects
	factory := func() (Executor, error) {
		return connect(0)
	}

	// initial client (fail fast at startup, after a few backed-off attempts)
	client, err := connect(startupConnectRetries)
	if err != nil {
		return nil, nil, err
	}

	p, err := New(
		Config{
			Target:   c.Device.Target,
			Interval: time.Duration(c.Poll.IntervalMs) * time.Millisecond,
			Selected: selected,
		},
		reg,
		layout,
		eval,
		client,
		factory,
		log,
	)
	if err != nil {
		if cl, ok := client.(interface{ Close() error }); ok {
			_ = cl.Close()
		}
		return nil, nil, err
	}

	return p, p.Close, nil
}
