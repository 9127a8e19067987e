package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"sentinel2mqtt/internal/panel"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const sampleConfig = `
panel:
  host: 192.168.1.100
  password: "9876"
mqtt:
  broker: tcp://localhost:1883
  username: admin
  password: secret
bridge:
  baseunit_topic: home/alarm
  discovery_prefix: homeassistant
  devices:
    - id: "123456"
      topic: home/door
      ha_name: Front Door
      auto_reset_interval: 45
  switches:
    - number: SW1
      topic: home/switch1
      ha_name: Siren
`

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if err := cfg.validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if cfg.Panel.Host != "192.168.1.100" || cfg.Panel.Password != "9876" {
		t.Errorf("panel = %+v", cfg.Panel)
	}
	// Defaults fill the omitted settings.
	if cfg.Panel.Port != 1680 {
		t.Errorf("panel.port = %d, want default 1680", cfg.Panel.Port)
	}
	if cfg.MQTT.ClientID != "sentinel2mqtt" {
		t.Errorf("mqtt.client_id = %q", cfg.MQTT.ClientID)
	}
	if cfg.Store.Path != "sentinel2mqtt.db" {
		t.Errorf("store.path = %q", cfg.Store.Path)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing host", func(c *Config) { c.Panel.Host = "" }},
		{"bad port", func(c *Config) { c.Panel.Port = 70000 }},
		{"missing broker", func(c *Config) { c.MQTT.Broker = "" }},
		{"missing baseunit topic", func(c *Config) { c.Bridge.BaseUnitTopic = "" }},
		{"bad device id", func(c *Config) { c.Bridge.Devices[0].ID = "front-door" }},
		{"bad switch number", func(c *Config) { c.Bridge.Switches[0].Number = "SW99" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadConfig(writeConfig(t, sampleConfig))
			if err != nil {
				t.Fatalf("loadConfig: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.validate(); err == nil {
				t.Error("validate accepted invalid config")
			}
		})
	}
}

func TestBridgeConfig(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	bc, err := bridgeConfig(cfg)
	if err != nil {
		t.Fatalf("bridgeConfig: %v", err)
	}

	if bc.BaseUnitTopic != "home/alarm" || bc.DiscoveryPrefix != "homeassistant" {
		t.Errorf("topics = %q / %q", bc.BaseUnitTopic, bc.DiscoveryPrefix)
	}

	dc, ok := bc.Devices[0x123456]
	if !ok {
		t.Fatal("device 123456 missing")
	}
	if dc.Topic != "home/door" || dc.HAName != "Front Door" {
		t.Errorf("device = %+v", dc)
	}
	if dc.AutoResetInterval != 45*time.Second {
		t.Errorf("auto reset = %v, want 45s", dc.AutoResetInterval)
	}

	sc, ok := bc.Switches[panel.SW1]
	if !ok {
		t.Fatal("switch SW1 missing")
	}
	if sc.Topic != "home/switch1" || sc.HAName != "Siren" {
		t.Errorf("switch = %+v", sc)
	}
}

func TestParseDeviceID(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
		ok   bool
	}{
		{"123456", 0x123456, true},
		{"00000a", 0x0A, true},
		{"ABCDEF", 0xABCDEF, true},
		{"xyz", 0, false},
		{"", 0, false},
		{"100000000", 0, false}, // beyond 32 bits
	}
	for _, tt := range tests {
		got, err := parseDeviceID(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("parseDeviceID(%q) err = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("parseDeviceID(%q) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}
