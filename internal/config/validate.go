// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/tamzrod/motor-telemetry/internal/register"
	"github.com/tamzrod/motor-telemetry/internal/status"
	"github.com/tamzrod/motor-telemetry/internal/telemetry"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil")
	}

	// ------------------------------------------------------------
	// DEVICE
	// ------------------------------------------------------------

	if err := validateEndpoint(cfg.Device.Endpoint); err != nil {
		return err
	}
	if cfg.Device.TimeoutMs < 0 {
		return fmt.Errorf("device: timeout_ms must be >= 0, got %d", cfg.Device.TimeoutMs)
	}
	if cfg.Poll.IntervalMs < 0 {
		return fmt.Errorf("poll: interval_ms must be >= 0, got %d", cfg.Poll.IntervalMs)
	}
	switch strings.ToUpper(cfg.Device.Parity) {
	case "", "N", "E", "O":
	default:
		return fmt.Errorf("device: parity must be one of N, E, O, got %q", cfg.Device.Parity)
	}

	// ------------------------------------------------------------
	// REGISTER MAP (no address with two wire types)
	// ------------------------------------------------------------

	if len(cfg.Registers) == 0 {
		return errors.New("registers: at least one register required")
	}
	if _, err := register.Build(cfg.requests()...); err != nil {
		return errors.Wrap(err, "registers")
	}

	// ------------------------------------------------------------
	// CHANNELS (must resolve through the register map)
	// ------------------------------------------------------------

	reg, err := cfg.Registry()
	if err != nil {
		return errors.Wrap(err, "registers")
	}
	if len(cfg.Channels.Bindings) == 0 {
		return errors.New("channels: at least one binding required")
	}
	layout, err := cfg.Layout(reg)
	if err != nil {
		return errors.Wrap(err, "channels")
	}

	// ------------------------------------------------------------
	// HEALTH
	// ------------------------------------------------------------

	if _, err := cfg.Evaluator(); err != nil {
		return errors.Wrap(err, "health")
	}

	groups := make(map[string]bool)
	for _, r := range cfg.Health.Rules {
		groups[r.Name] = true
		if r.Group != "" {
			groups[r.Group] = true
		}
		if r.Measurement == telemetry.MeasurementQuaternionMagnitude && layout.Quaternion == nil {
			return fmt.Errorf("health: rule %q needs channels.quaternion", r.Name)
		}
		if _, err := layout.Channels(r.Measurement); err != nil {
			return errors.Wrapf(err, "health: rule %q", r.Name)
		}
	}
	for _, s := range cfg.Health.Skip {
		if !groups[s] {
			return fmt.Errorf("health: skip %q matches no rule or group", s)
		}
	}

	// ------------------------------------------------------------
	// STATUS BLOCK (OPT-IN)
	// ------------------------------------------------------------

	if st := cfg.Status; st != nil {
		if st.Endpoint == "" {
			return errors.New("status: endpoint required")
		}
		if st.Slot > status.MaxSlot {
			return fmt.Errorf("status: slot must be <= %d, got %d", status.MaxSlot, st.Slot)
		}
		// device_name sanity (ASCII only)
		for i := 0; i < len(st.DeviceName); i++ {
			if st.DeviceName[i] > 0x7F {
				return errors.New("status: device_name must contain ASCII characters only")
			}
		}
	}

	// ------------------------------------------------------------
	// AMQP (OPT-IN)
	// ------------------------------------------------------------

	if p := cfg.Publish; p != nil {
		u, err := url.Parse(p.URL)
		if err != nil || (u.Scheme != "amqp" && u.Scheme != "amqps") {
			return fmt.Errorf("publish: url must be amqp:// or amqps://, got %q", p.URL)
		}
		if p.Exchange == "" {
			return errors.New("publish: exchange required")
		}
	}

	return nil
}

func validateEndpoint(endpoint string) error {
	if endpoint == "" {
		return errors.New("device: endpoint required")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return errors.Wrap(err, "device: endpoint")
	}
	switch u.Scheme {
	case "tcp":
		if u.Host == "" {
			return fmt.Errorf("device: tcp endpoint %q has no host", endpoint)
		}
	case "rtu":
		if u.Path == "" {
			return fmt.Errorf("device: rtu endpoint %q has no device path", endpoint)
		}
	default:
		return fmt.Errorf("device: unsupported endpoint scheme %q (want tcp or rtu)", u.Scheme)
	}
	return nil
}
