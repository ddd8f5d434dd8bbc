// internal/config/config.go
package config

import (
	"github.com/tamzrod/motor-telemetry/internal/health"
	"github.com/tamzrod/motor-telemetry/internal/register"
	"github.com/tamzrod/motor-telemetry/internal/telemetry"
)

type Config struct {
	Settings  SettingsConfig   `yaml:"settings"`
	Device    DeviceConfig     `yaml:"device"`
	Poll      PollConfig       `yaml:"poll"`
	Registers []RegisterConfig `yaml:"registers"`
	Channels  ChannelsConfig   `yaml:"channels"`
	Health    HealthConfig     `yaml:"health"`

	// Optional sinks
	Status  *StatusConfig  `yaml:"status"`
	Publish *PublishConfig `yaml:"publish"`
}

// ---- SETTINGS ----

type SettingsConfig struct {
	LogLevel string `yaml:"log_level"`
}

// ---- DEVICE ----

// DeviceConfig selects the transport and the target controller.
// Endpoint is tcp://host:port or rtu:///dev/ttyX.
type DeviceConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Target    uint8  `yaml:"target"`
	TimeoutMs int    `yaml:"timeout_ms"`

	// RTU only
	BaudRate int    `yaml:"baud_rate"`
	DataBits int    `yaml:"data_bits"`
	Parity   string `yaml:"parity"`
	StopBits int    `yaml:"stop_bits"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- REGISTER MAP ----

type RegisterConfig struct {
	Address register.Address  `yaml:"address"`
	Type    register.WireType `yaml:"type"`
}

// ---- CHANNELS ----

type ChannelsConfig struct {
	Bindings   []telemetry.Binding           `yaml:"bindings"`
	Quaternion *telemetry.QuaternionChannels `yaml:"quaternion"`
	Base       []string                      `yaml:"base"`
}

// ---- HEALTH ----

// HealthConfig carries the thresholds. There is no built-in default:
// bounds differ between boards and must come from the file.
type HealthConfig struct {
	Skip  []string      `yaml:"skip"`
	Rules []health.Rule `yaml:"rules"`
}

// ---- STATUS BLOCK SINK ----

type StatusConfig struct {
	Endpoint   string `yaml:"endpoint"`
	UnitID     uint8  `yaml:"unit_id"`
	Slot       uint16 `yaml:"slot"`
	DeviceName string `yaml:"device_name"`
	TimeoutMs  int    `yaml:"timeout_ms"`
}

// ---- AMQP SINK ----

type PublishConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
}
