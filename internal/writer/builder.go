// internal/writer/builder.go
package writer

import (
	"time"

	"github.com/pkg/errors"

	cfg "github.com/tamzrod/motor-telemetry/internal/config"
	wmodbus "github.com/tamzrod/motor-telemetry/internal/writer/modbus"
)

// BuildStatusPlan converts the optional status section into a plan.
// Returns nil when status output is disabled.
func BuildStatusPlan(c *cfg.Config) *StatusPlan {
	if c.Status == nil {
		return nil
	}
	return &StatusPlan{
		Endpoint:   c.Status.Endpoint,
		UnitID:     c.Status.UnitID,
		BaseSlot:   c.Status.Slot,
		DeviceName: c.Status.DeviceName,
	}
}

// BuildStatusWriter connects to the status endpoint and returns a writer.
// enabled is false when the config has no status section.
func BuildStatusWriter(c *cfg.Config) (sw StatusWriter, closeFn func() error, enabled bool, err error) {
	plan := BuildStatusPlan(c)
	if plan == nil {
		return nil, func() error { return nil }, false, nil
	}

	cli, err := wmodbus.NewEndpointClient(wmodbus.Config{
		Endpoint: plan.Endpoint,
		Timeout:  time.Duration(c.Status.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, false, errors.Wrap(err, "writer: status endpoint")
	}

	return NewDeviceStatusWriter(*plan, cli), cli.Close, true, nil
}
