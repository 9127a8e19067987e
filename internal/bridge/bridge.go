package bridge

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"sentinel2mqtt/internal/panel"
	"sentinel2mqtt/internal/store"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	commandTimeout = 10 * time.Second
)

// mqttClient is the slice of the paho client the bridge uses; the
// broker connection/retry internals stay the paho library's concern.
type mqttClient interface {
	Connect() pahomqtt.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
	Subscribe(topic string, qos byte, callback pahomqtt.MessageHandler) pahomqtt.Token
}

// Bridge translates between the panel driver and the MQTT broker. All
// translation state (auto-reset timers, base unit snapshot) is owned
// by the dispatch loop; panel callbacks and inbound messages are
// marshalled onto it, and outbound publishes and driver commands are
// dispatched fire-and-forget with their errors captured in logs.
type Bridge struct {
	cfg     *Config
	mqttCfg MQTTConfig
	driver  panel.Driver
	db      store.Store
	logger  *slog.Logger

	client    mqttClient
	newClient func(*pahomqtt.ClientOptions) mqttClient

	routes   *router
	resets   *autoResetRegistry
	tasks    chan func()
	shutdown atomic.Bool

	baseUnit     panel.BaseUnitInfo
	unsubs       []func()
	deviceUnsubs map[uint32][]func()
}

// New creates a bridge. Start must be called before RunLoop.
func New(cfg *Config, mqttCfg MQTTConfig, driver panel.Driver, db store.Store, logger *slog.Logger) *Bridge {
	b := &Bridge{
		cfg:          cfg,
		mqttCfg:      mqttCfg,
		driver:       driver,
		db:           db,
		logger:       logger.With("component", "bridge"),
		tasks:        make(chan func(), 256),
		deviceUnsubs: make(map[uint32][]func()),
		newClient: func(opts *pahomqtt.ClientOptions) mqttClient {
			return pahomqtt.NewClient(opts)
		},
	}
	b.resets = newAutoResetRegistry(b.enqueue)
	b.routes = b.buildRoutes()
	return b
}

// buildRoutes assembles the immutable inbound topic table.
func (b *Bridge) buildRoutes() *router {
	r := newRouter()
	r.add(b.cfg.clearStatusTopic(), b.handleClearStatus)
	r.add(b.cfg.setDateTimeTopic(), b.handleSetDateTime)
	r.add(b.cfg.setPropertyTopic(panel.PropOperationMode), b.handleSetOperationMode)
	for sw, sc := range b.cfg.Switches {
		if sc.Topic == "" {
			continue
		}
		r.add(setSwitchTopic(sc.Topic), func(payload []byte) error {
			return b.handleSetSwitch(sw, payload)
		})
	}
	return r
}

// Start starts the panel driver, connects to the broker with a
// last-will marking the base unit unavailable, subscribes to the
// writable topics, and publishes the configured switches' discovery
// documents. Device discovery documents are published as devices are
// enrolled, not here.
func (b *Bridge) Start() error {
	b.registerListeners()

	if err := b.driver.Start(); err != nil {
		return fmt.Errorf("start panel driver: %w", err)
	}

	opts := pahomqtt.NewClientOptions().
		AddBroker(b.mqttCfg.Broker).
		SetClientID(b.mqttCfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetWill(b.cfg.baseUnitTopic(panel.PropIsConnected), payloadFalse, 1, true).
		SetOnConnectHandler(func(_ pahomqtt.Client) {
			b.logger.Info("mqtt connected", "broker", b.mqttCfg.Broker)
			b.subscribeAll()
		}).
		SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
			b.logger.Warn("mqtt connection lost", "err", err)
		})
	if b.mqttCfg.Username != "" {
		opts.SetUsername(b.mqttCfg.Username)
		opts.SetPassword(b.mqttCfg.Password)
	}
	if b.mqttCfg.CAFile != "" {
		tlsCfg, err := tlsConfigFromCA(b.mqttCfg.CAFile)
		if err != nil {
			return err
		}
		opts.SetTLSConfig(tlsCfg)
	}

	client := b.newClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("mqtt connect timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	b.client = client

	if b.cfg.DiscoveryPrefix != "" {
		for sw, sc := range b.cfg.Switches {
			if sc.HAName == "" || sc.Topic == "" {
				continue
			}
			msg := b.cfg.buildSwitchDiscovery(sw, sc)
			b.publish(msg.topic, msg.payload, msg.retain)
		}
	}
	return nil
}

// RunLoop dispatches queued work until Shutdown is called. The wait is
// bounded so the shutdown flag is observed even with no traffic. A
// failing handler is logged and the loop continues; nothing here is
// fatal.
func (b *Bridge) RunLoop() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		if b.shutdown.Load() {
			return
		}
		select {
		case task := <-b.tasks:
			b.dispatch(task)
		case <-ticker.C:
		}
	}
}

// Shutdown flags the dispatch loop to exit at its next iteration.
func (b *Bridge) Shutdown() {
	b.shutdown.Store(true)
}

// Stop stops the panel driver, cancels every outstanding auto-reset
// timer without firing, and disconnects from the broker, in that order.
func (b *Bridge) Stop() {
	b.driver.Stop()
	b.resets.CancelAll()
	for _, unsub := range b.unsubs {
		unsub()
	}
	b.unsubs = nil
	for id, unsubs := range b.deviceUnsubs {
		for _, unsub := range unsubs {
			unsub()
		}
		delete(b.deviceUnsubs, id)
	}
	if b.client != nil {
		b.client.Disconnect(1000)
	}
	b.logger.Info("bridge stopped")
}

func (b *Bridge) registerListeners() {
	bus := b.driver.Events()
	b.unsubs = append(b.unsubs,
		bus.OnDeviceAdded(b.onDeviceAdded),
		bus.OnDeviceDeleted(b.onDeviceDeleted),
		bus.OnEvent(b.onBaseUnitEvent),
		bus.OnPropertiesChanged(b.onBaseUnitProperties),
		bus.OnSwitchStateChanged(b.onSwitchStateChanged),
	)
}

// enqueue marshals work onto the dispatch loop without blocking the
// caller (panel callbacks and MQTT receive must never block).
func (b *Bridge) enqueue(task func()) {
	select {
	case b.tasks <- task:
	default:
		b.logger.Warn("dispatch queue full; task dropped")
	}
}

func (b *Bridge) dispatch(task func()) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panic", "panic", r)
		}
	}()
	task()
}

//
// Panel → MQTT
//

func (b *Bridge) onDeviceAdded(dev *panel.Device) {
	dev = dev.Clone()
	id := dev.DeviceID

	// Listeners must be attached before this callback returns, or an
	// event the driver raises right after enrollment finds no listener.
	bus := b.driver.Events()
	unsubs := []func(){
		bus.OnDeviceEvent(id, b.onDeviceEvent),
		bus.OnDeviceProperties(id, b.onDeviceProperties),
	}

	b.enqueue(func() {
		b.deviceUnsubs[id] = unsubs

		dc, ok := b.cfg.Devices[id]
		if ok && dc.Topic != "" {
			for _, prop := range dev.Properties() {
				b.publishMessages(devicePropertyMessages(dc.Topic, dev, prop.Name, prop.Value))
			}
		}

		if b.db != nil {
			if err := b.db.SaveDevice(dev); err != nil {
				b.logger.Error("save device", "device_id", deviceUniqueID(id), "err", err)
			}
		}

		if b.cfg.DiscoveryPrefix != "" && ok && dc.HAName != "" {
			if msg := b.cfg.buildDeviceDiscovery(dev, dc); msg != nil {
				b.publish(msg.topic, msg.payload, msg.retain)
			} else {
				b.logger.Warn("device type cannot be represented in Home Assistant; skipped",
					"device_id", deviceUniqueID(id), "type", dev.Type.String())
			}
		}
	})
}

func (b *Bridge) onDeviceDeleted(dev *panel.Device) {
	id := dev.DeviceID
	b.enqueue(func() {
		for _, unsub := range b.deviceUnsubs[id] {
			unsub()
		}
		delete(b.deviceUnsubs, id)
		b.resets.Cancel(id)
		if b.db != nil {
			if err := b.db.DeleteDevice(id); err != nil {
				b.logger.Error("delete device", "device_id", deviceUniqueID(id), "err", err)
			}
		}
	})
}

func (b *Bridge) onBaseUnitEvent(ev panel.Event) {
	b.enqueue(func() {
		// Events are time sensitive; none of the event topics are
		// retained. Only the synthesized alarm state is.
		data, err := json.Marshal(ev)
		if err != nil {
			b.logger.Error("encode event", "err", err)
			return
		}
		b.publish(b.cfg.baseUnitTopic(topicEvent), data, false)

		if ev.EventCode != 0 {
			switch ev.Qualifier {
			case panel.QualifierEvent:
				b.publish(b.cfg.baseUnitTopic(topicEventCode), encodePayload(ev.EventCode), false)
			case panel.QualifierRestore:
				b.publish(b.cfg.baseUnitTopic(topicRestoreCode), encodePayload(ev.EventCode), false)
			}
		}

		if ev.Qualifier == panel.QualifierEvent && ev.Category == panel.CategoryAlarm {
			b.publish(b.cfg.baseUnitTopic(topicHAState), []byte(haStateTriggered), true)
		}
	})
}

func (b *Bridge) onBaseUnitProperties(changes []panel.PropertyChange) {
	b.enqueue(func() {
		for _, change := range changes {
			applyBaseUnitChange(&b.baseUnit, change)
			b.publishMessages(b.cfg.baseUnitPropertyMessages(change.Name, change.Value))
		}
		if b.db != nil {
			info := b.baseUnit
			if err := b.db.SaveBaseUnit(&info); err != nil {
				b.logger.Error("save base unit", "err", err)
			}
		}
	})
}

func (b *Bridge) onSwitchStateChanged(sw panel.SwitchNumber, state *bool) {
	b.enqueue(func() {
		sc, ok := b.cfg.Switches[sw]
		if !ok || sc.Topic == "" {
			return
		}
		var payload []byte
		if state != nil {
			payload = []byte(onOffPayload(*state))
		}
		b.publish(sc.Topic, payload, true)
	})
}

func (b *Bridge) onDeviceEvent(dev *panel.Device, code panel.DeviceEventCode) {
	id := dev.DeviceID
	b.enqueue(func() {
		dc, ok := b.cfg.Devices[id]
		if !ok || dc.Topic == "" {
			return
		}
		b.publish(subTopic(dc.Topic, topicEventCode), encodePayload(code), false)

		if code != panel.EventCodeTrigger {
			return
		}
		// Momentary activation: report on, then force off after the
		// reset interval unless retriggered.
		b.publish(dc.Topic, []byte(payloadOn), true)
		topic := dc.Topic
		b.resets.Arm(id, b.cfg.autoResetInterval(id), func() {
			b.publish(topic, []byte(payloadOff), true)
		})
	})
}

func (b *Bridge) onDeviceProperties(dev *panel.Device, changes []panel.PropertyChange) {
	dev = dev.Clone()
	b.enqueue(func() {
		dc, ok := b.cfg.Devices[dev.DeviceID]
		if ok && dc.Topic != "" {
			for _, change := range changes {
				b.publishMessages(devicePropertyMessages(dc.Topic, dev, change.Name, change.Value))
			}
		}
		if b.db != nil {
			if err := b.db.SaveDevice(dev); err != nil {
				b.logger.Error("save device", "device_id", deviceUniqueID(dev.DeviceID), "err", err)
			}
		}
	})
}

func applyBaseUnitChange(info *panel.BaseUnitInfo, change panel.PropertyChange) {
	switch change.Name {
	case panel.PropIsConnected:
		if v, ok := change.Value.(bool); ok {
			info.IsConnected = v
		}
	case panel.PropROMVersion:
		if v, ok := change.Value.(string); ok {
			info.ROMVersion = v
		}
	case panel.PropExitDelay:
		if v, ok := change.Value.(int); ok {
			info.ExitDelay = v
		}
	case panel.PropEntryDelay:
		if v, ok := change.Value.(int); ok {
			info.EntryDelay = v
		}
	case panel.PropOperationMode:
		if v, ok := change.Value.(panel.OperationMode); ok {
			info.OperationMode = v
		}
	case panel.PropState:
		if v, ok := change.Value.(panel.BaseUnitState); ok {
			info.State = v
		}
	}
}

//
// MQTT → panel
//

func (b *Bridge) onMessage(_ pahomqtt.Client, msg pahomqtt.Message) {
	topic := msg.Topic()
	payload := msg.Payload()
	b.enqueue(func() {
		entry, ok := b.routes.lookup(topic)
		if !ok {
			// Subscriptions are exact topics, so this should not occur.
			b.logger.Debug("no handler for topic", "topic", topic)
			return
		}
		// Handler errors are bad command payloads, not faults.
		if err := entry.handle(payload); err != nil {
			b.logger.Warn("handle message", "topic", topic, "err", err)
		}
	})
}

func (b *Bridge) subscribeAll() {
	for _, topic := range b.routes.topicList() {
		token := b.client.Subscribe(topic, 1, b.onMessage)
		go func(topic string) {
			if !token.WaitTimeout(connectTimeout) {
				b.logger.Warn("mqtt subscribe timeout", "topic", topic)
			} else if err := token.Error(); err != nil {
				b.logger.Warn("mqtt subscribe error", "topic", topic, "err", err)
			}
		}(topic)
	}
}

func (b *Bridge) handleClearStatus(_ []byte) error {
	b.asyncCommand("clear_status", b.driver.ClearStatus)
	return nil
}

func (b *Bridge) handleSetDateTime(payload []byte) error {
	text := strings.TrimSpace(string(payload))
	if text == "" {
		// Empty payload means "set the remote clock to now".
		b.asyncCommand("set_datetime", func(ctx context.Context) error {
			return b.driver.SetDateTime(ctx, time.Now())
		})
		return nil
	}
	t, err := parseDateTime(text)
	if err != nil {
		return err
	}
	b.asyncCommand("set_datetime", func(ctx context.Context) error {
		return b.driver.SetDateTime(ctx, t)
	})
	return nil
}

func (b *Bridge) handleSetOperationMode(payload []byte) error {
	name := strings.TrimSpace(string(payload))
	mode, ok := panel.ParseOperationMode(name)
	if !ok {
		b.logger.Warn("cannot set operation_mode", "value", name)
		return nil
	}
	b.asyncCommand("set_operation_mode", func(ctx context.Context) error {
		return b.driver.SetOperationMode(ctx, mode)
	})
	return nil
}

func (b *Bridge) handleSetSwitch(sw panel.SwitchNumber, payload []byte) error {
	name := strings.TrimSpace(string(payload))
	on, ok := parseOnOff(name)
	if !ok {
		b.logger.Warn("cannot set switch", "switch", sw.String(), "value", name)
		return nil
	}
	b.asyncCommand("set_switch_state", func(ctx context.Context) error {
		return b.driver.SetSwitchState(ctx, sw, on)
	})
	return nil
}

// asyncCommand runs a driver command off the dispatch loop so it can
// never block message handling; failures are captured in the log.
func (b *Bridge) asyncCommand(name string, fn func(context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			b.logger.Error("panel command failed", "command", name, "err", err)
		}
	}()
}

// parseDateTime accepts the date-time forms a command payload may
// carry. Malformed text is an error for the dispatch boundary to log.
func parseDateTime(text string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime %q", text)
}

//
// Publishing
//

// publish hands one payload to the broker fire-and-forget; the token
// is observed on a side goroutine so failures are not silently lost.
func (b *Bridge) publish(topic string, payload []byte, retained bool) {
	token := b.client.Publish(topic, 1, retained, payload)
	go func() {
		if !token.WaitTimeout(publishTimeout) {
			b.logger.Warn("mqtt publish timeout", "topic", topic)
		} else if err := token.Error(); err != nil {
			b.logger.Warn("mqtt publish error", "topic", topic, "err", err)
		}
	}()
}

func (b *Bridge) publishMessages(msgs []message) {
	for _, msg := range msgs {
		b.publish(msg.topic, msg.payload, msg.retain)
	}
}

func tlsConfigFromCA(caFile string) (*tls.Config, error) {
	pem, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("read ca file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates in %s", caFile)
	}
	return &tls.Config{RootCAs: pool}, nil
}
