// internal/config/build.go
package config

import (
	"github.com/tamzrod/motor-telemetry/internal/health"
	"github.com/tamzrod/motor-telemetry/internal/register"
	"github.com/tamzrod/motor-telemetry/internal/telemetry"
)

func (c *Config) requests() []register.Request {
	out := make([]register.Request, 0, len(c.Registers))
	for _, r := range c.Registers {
		out = append(out, register.Request{Address: r.Address, Type: r.Type})
	}
	return out
}

// Registry builds the process-wide resolution registry.
func (c *Config) Registry() (*register.Registry, error) {
	entries := make(map[register.Address]register.WireType, len(c.Registers))
	for _, r := range c.Registers {
		entries[r.Address] = r.Type
	}
	return register.NewRegistry(entries)
}

// Layout binds the configured channels against reg.
func (c *Config) Layout(reg *register.Registry) (*telemetry.Layout, error) {
	return telemetry.NewLayout(reg, c.Channels.Bindings, c.Channels.Quaternion, c.Channels.Base)
}

// Evaluator builds the health evaluator from rules and skip list.
func (c *Config) Evaluator() (*health.Evaluator, error) {
	return health.New(c.Health.Rules, c.Health.Skip...)
}

// HealthChannels lists the channels read by rules that are not skipped.
func (c *Config) HealthChannels(layout *telemetry.Layout) ([]string, error) {
	skip := make(map[string]bool, len(c.Health.Skip))
	for _, s := range c.Health.Skip {
		skip[s] = true
	}

	var measurements []string
	for _, r := range c.Health.Rules {
		if skip[r.Name] || (r.Group != "" && skip[r.Group]) {
			continue
		}
		measurements = append(measurements, r.Measurement)
	}
	return layout.Channels(measurements...)
}
