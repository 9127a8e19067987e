package bridge

import (
	"time"

	"sentinel2mqtt/internal/panel"
)

// Interval to wait before resetting a Trigger device's state to off,
// when the device has no configured override.
const defaultAutoResetInterval = 30 * time.Second

// DeviceConfig maps one enrolled device onto the topic namespace.
type DeviceConfig struct {
	// Topic is the device's own state topic; property sub-topics hang
	// off it. An empty topic disables all publishing for the device.
	Topic string

	// HAName, when set, enables a discovery document for the device.
	HAName string

	// AutoResetInterval overrides the default Trigger reset delay.
	AutoResetInterval time.Duration
}

// SwitchConfig maps one appliance switch onto the topic namespace.
type SwitchConfig struct {
	Topic  string
	HAName string
}

// Config is the bridge's translation configuration.
type Config struct {
	// BaseUnitTopic is the root topic for the base unit; its state is
	// published there and its properties on sub-topics.
	BaseUnitTopic string

	// DiscoveryPrefix is the Home Assistant discovery prefix. Empty
	// disables all discovery publishing.
	DiscoveryPrefix string

	Devices  map[uint32]DeviceConfig
	Switches map[panel.SwitchNumber]SwitchConfig
}

// MQTTConfig holds the broker connection settings.
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	CAFile   string
}

func (c *Config) autoResetInterval(deviceID uint32) time.Duration {
	if dc, ok := c.Devices[deviceID]; ok && dc.AutoResetInterval > 0 {
		return dc.AutoResetInterval
	}
	return defaultAutoResetInterval
}
