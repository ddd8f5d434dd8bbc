// internal/config/normalize.go
package config

import "strings"

const (
	DefaultTimeoutMs  = 1000
	DefaultIntervalMs = 100
	DefaultLogLevel   = "info"
	DefaultBaudRate   = 115200
	DefaultRoutingKey = "health"

	deviceNameMaxChars = 16
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Settings.LogLevel == "" {
		cfg.Settings.LogLevel = DefaultLogLevel
	}

	d := &cfg.Device
	if d.TimeoutMs == 0 {
		d.TimeoutMs = DefaultTimeoutMs
	}
	if strings.HasPrefix(d.Endpoint, "rtu://") {
		if d.BaudRate == 0 {
			d.BaudRate = DefaultBaudRate
		}
		if d.DataBits == 0 {
			d.DataBits = 8
		}
		if d.StopBits == 0 {
			d.StopBits = 1
		}
		if d.Parity == "" {
			d.Parity = "N"
		}
		d.Parity = strings.ToUpper(d.Parity)
	}

	if cfg.Poll.IntervalMs == 0 {
		cfg.Poll.IntervalMs = DefaultIntervalMs
	}

	// ------------------------------------------------------------
	// DEVICE STATUS BLOCK NORMALIZATION (OPT-IN)
	// ------------------------------------------------------------

	if st := cfg.Status; st != nil {
		// ASCII already validated; truncate to 16 characters.
		if len(st.DeviceName) > deviceNameMaxChars {
			st.DeviceName = st.DeviceName[:deviceNameMaxChars]
		}
		if st.TimeoutMs == 0 {
			st.TimeoutMs = d.TimeoutMs
		}
	}

	if p := cfg.Publish; p != nil && p.RoutingKey == "" {
		p.RoutingKey = DefaultRoutingKey
	}
}
