package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"sentinel2mqtt/internal/bridge"
	"sentinel2mqtt/internal/panel"
	"sentinel2mqtt/internal/store"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

type Config struct {
	Panel struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
	} `yaml:"panel"`
	MQTT struct {
		Broker   string `yaml:"broker"`
		ClientID string `yaml:"client_id"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		CAFile   string `yaml:"ca_file"`
	} `yaml:"mqtt"`
	Bridge struct {
		BaseUnitTopic   string        `yaml:"baseunit_topic"`
		DiscoveryPrefix string        `yaml:"discovery_prefix"`
		Devices         []DeviceEntry `yaml:"devices"`
		Switches        []SwitchEntry `yaml:"switches"`
	} `yaml:"bridge"`
	Store struct {
		Path string `yaml:"path"`
	} `yaml:"store"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// DeviceEntry maps one enrolled device, keyed by its six-hex-digit id.
type DeviceEntry struct {
	ID                string `yaml:"id"`
	Topic             string `yaml:"topic"`
	HAName            string `yaml:"ha_name"`
	AutoResetInterval int    `yaml:"auto_reset_interval"` // seconds
}

// SwitchEntry maps one appliance switch, keyed by name ("SW1".."SW8").
type SwitchEntry struct {
	Number string `yaml:"number"`
	Topic  string `yaml:"topic"`
	HAName string `yaml:"ha_name"`
}

func (c *Config) validate() error {
	if c.Panel.Host == "" {
		return fmt.Errorf("panel.host is required")
	}
	if c.Panel.Port <= 0 || c.Panel.Port > 65535 {
		return fmt.Errorf("panel.port must be 1-65535, got %d", c.Panel.Port)
	}
	if c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required")
	}
	if c.Bridge.BaseUnitTopic == "" {
		return fmt.Errorf("bridge.baseunit_topic is required")
	}
	for _, dev := range c.Bridge.Devices {
		if _, err := parseDeviceID(dev.ID); err != nil {
			return err
		}
	}
	for _, sw := range c.Bridge.Switches {
		if _, ok := panel.ParseSwitchNumber(sw.Number); !ok {
			return fmt.Errorf("unknown switch number %q (expected SW1..SW8)", sw.Number)
		}
	}
	return nil
}

func main() {
	// Temporary logger for config loading errors.
	bootLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfgPath := flag.String("config", "config.yaml", "path to configuration file")
	listDevices := flag.Bool("devices", false, "list last-known enrolled devices and exit")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		bootLogger.Error("load config", "err", err)
		os.Exit(1)
	}
	if err := cfg.validate(); err != nil {
		bootLogger.Error("invalid config", "err", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := store.NewBoltStore(cfg.Store.Path)
	if err != nil {
		logger.Error("open store", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if *listDevices {
		if err := printDevices(db); err != nil {
			logger.Error("list devices", "err", err)
			os.Exit(1)
		}
		return
	}

	logger.Info("sentinel2mqtt starting", "version", version)

	bridgeCfg, err := bridgeConfig(cfg)
	if err != nil {
		logger.Error("invalid bridge config", "err", err)
		os.Exit(1)
	}

	driver := panel.NewClient(cfg.Panel.Host, cfg.Panel.Port, cfg.Panel.Password, logger)
	b := bridge.New(bridgeCfg, bridge.MQTTConfig{
		Broker:   cfg.MQTT.Broker,
		ClientID: cfg.MQTT.ClientID,
		Username: cfg.MQTT.Username,
		Password: cfg.MQTT.Password,
		CAFile:   cfg.MQTT.CAFile,
	}, driver, db, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		signal.Stop(sigCh)
		logger.Info("shutting down", "signal", sig.String())
		b.Shutdown()
	}()

	if err := b.Start(); err != nil {
		logger.Error("start bridge", "err", err)
		os.Exit(1)
	}
	b.RunLoop()
	b.Stop()

	logger.Info("goodbye")
}

// bridgeConfig converts the YAML surface into the bridge's config.
func bridgeConfig(cfg *Config) (*bridge.Config, error) {
	out := &bridge.Config{
		BaseUnitTopic:   cfg.Bridge.BaseUnitTopic,
		DiscoveryPrefix: cfg.Bridge.DiscoveryPrefix,
		Devices:         make(map[uint32]bridge.DeviceConfig, len(cfg.Bridge.Devices)),
		Switches:        make(map[panel.SwitchNumber]bridge.SwitchConfig, len(cfg.Bridge.Switches)),
	}
	for _, dev := range cfg.Bridge.Devices {
		id, err := parseDeviceID(dev.ID)
		if err != nil {
			return nil, err
		}
		out.Devices[id] = bridge.DeviceConfig{
			Topic:             dev.Topic,
			HAName:            dev.HAName,
			AutoResetInterval: time.Duration(dev.AutoResetInterval) * time.Second,
		}
	}
	for _, sw := range cfg.Bridge.Switches {
		number, ok := panel.ParseSwitchNumber(sw.Number)
		if !ok {
			return nil, fmt.Errorf("unknown switch number %q", sw.Number)
		}
		out.Switches[number] = bridge.SwitchConfig{
			Topic:  sw.Topic,
			HAName: sw.HAName,
		}
	}
	return out, nil
}

func parseDeviceID(id string) (uint32, error) {
	v, err := strconv.ParseUint(id, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("device id %q is not a hex id: %w", id, err)
	}
	return uint32(v), nil
}

// printDevices lists the last-known enrolled devices from the store.
func printDevices(db store.Store) error {
	if info, err := db.GetBaseUnit(); err == nil {
		fmt.Printf("Base unit: rom %s, operation mode %s, state %s\n\n",
			info.ROMVersion, info.OperationMode, info.State)
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	devices, err := db.ListDevices()
	if err != nil {
		return err
	}
	for _, dev := range devices {
		fmt.Printf("Device '%06x' for %s zone %s, a %s.\n",
			dev.DeviceID, dev.Category.Description, dev.Zone, dev.Type)
	}
	fmt.Printf("%d devices were found.\n", len(devices))
	return nil
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Panel.Port == 0 {
		cfg.Panel.Port = 1680
	}
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = "sentinel2mqtt"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "sentinel2mqtt.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	return &cfg, nil
}

func newLogger(cfg *Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(cfg.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
