package panel

import (
	"log/slog"
	"sync"
)

// DeviceAddedFunc is called when the driver enrolls a new device.
type DeviceAddedFunc func(*Device)

// DeviceDeletedFunc is called when an enrolled device is removed.
type DeviceDeletedFunc func(*Device)

// EventFunc is called for base unit alarm/event records.
type EventFunc func(Event)

// PropertiesChangedFunc is called with a batch of base unit property changes.
type PropertiesChangedFunc func([]PropertyChange)

// SwitchStateFunc is called when an appliance switch changes state.
// A nil state means the switch state is unknown.
type SwitchStateFunc func(SwitchNumber, *bool)

// DeviceEventFunc is called for discrete events from one device.
type DeviceEventFunc func(*Device, DeviceEventCode)

// DevicePropertiesFunc is called with property changes from one device.
type DevicePropertiesFunc func(*Device, []PropertyChange)

// Bus is the typed listener registry through which the driver reports
// everything it observes. Every registration returns an unsubscribe
// func; per-device listeners are keyed by device id so they can be
// dropped when the device is deleted.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	logger *slog.Logger

	deviceAdded   map[uint64]DeviceAddedFunc
	deviceDeleted map[uint64]DeviceDeletedFunc
	events        map[uint64]EventFunc
	propsChanged  map[uint64]PropertiesChangedFunc
	switchState   map[uint64]SwitchStateFunc
	deviceEvents  map[uint32]map[uint64]DeviceEventFunc
	deviceProps   map[uint32]map[uint64]DevicePropertiesFunc
}

// NewBus creates an empty listener registry.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		logger:        logger,
		deviceAdded:   make(map[uint64]DeviceAddedFunc),
		deviceDeleted: make(map[uint64]DeviceDeletedFunc),
		events:        make(map[uint64]EventFunc),
		propsChanged:  make(map[uint64]PropertiesChangedFunc),
		switchState:   make(map[uint64]SwitchStateFunc),
		deviceEvents:  make(map[uint32]map[uint64]DeviceEventFunc),
		deviceProps:   make(map[uint32]map[uint64]DevicePropertiesFunc),
	}
}

func (b *Bus) register() uint64 {
	b.nextID++
	return b.nextID
}

// OnDeviceAdded registers a listener for device enrollment.
func (b *Bus) OnDeviceAdded(fn DeviceAddedFunc) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.register()
	b.deviceAdded[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.deviceAdded, id)
	}
}

// OnDeviceDeleted registers a listener for device removal.
func (b *Bus) OnDeviceDeleted(fn DeviceDeletedFunc) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.register()
	b.deviceDeleted[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.deviceDeleted, id)
	}
}

// OnEvent registers a listener for base unit events.
func (b *Bus) OnEvent(fn EventFunc) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.register()
	b.events[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.events, id)
	}
}

// OnPropertiesChanged registers a listener for base unit property changes.
func (b *Bus) OnPropertiesChanged(fn PropertiesChangedFunc) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.register()
	b.propsChanged[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.propsChanged, id)
	}
}

// OnSwitchStateChanged registers a listener for switch state changes.
func (b *Bus) OnSwitchStateChanged(fn SwitchStateFunc) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.register()
	b.switchState[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.switchState, id)
	}
}

// OnDeviceEvent registers a listener for discrete events from one device.
func (b *Bus) OnDeviceEvent(deviceID uint32, fn DeviceEventFunc) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.register()
	if b.deviceEvents[deviceID] == nil {
		b.deviceEvents[deviceID] = make(map[uint64]DeviceEventFunc)
	}
	b.deviceEvents[deviceID][id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.deviceEvents[deviceID], id)
	}
}

// OnDeviceProperties registers a listener for property changes from one device.
func (b *Bus) OnDeviceProperties(deviceID uint32, fn DevicePropertiesFunc) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.register()
	if b.deviceProps[deviceID] == nil {
		b.deviceProps[deviceID] = make(map[uint64]DevicePropertiesFunc)
	}
	b.deviceProps[deviceID][id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.deviceProps[deviceID], id)
	}
}

// safeCall invokes one listener, recovering a panic so a bad listener
// cannot take down the driver's read loop.
func (b *Bus) safeCall(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("panel listener panic", "listener", name, "panic", r)
		}
	}()
	fn()
}

// EmitDeviceAdded notifies device enrollment listeners.
func (b *Bus) EmitDeviceAdded(dev *Device) {
	b.mu.RLock()
	fns := collect(b.deviceAdded)
	b.mu.RUnlock()
	for _, fn := range fns {
		b.safeCall("device_added", func() { fn(dev) })
	}
}

// EmitDeviceDeleted notifies device removal listeners.
func (b *Bus) EmitDeviceDeleted(dev *Device) {
	b.mu.RLock()
	fns := collect(b.deviceDeleted)
	b.mu.RUnlock()
	for _, fn := range fns {
		b.safeCall("device_deleted", func() { fn(dev) })
	}
}

// EmitEvent notifies base unit event listeners.
func (b *Bus) EmitEvent(ev Event) {
	b.mu.RLock()
	fns := collect(b.events)
	b.mu.RUnlock()
	for _, fn := range fns {
		b.safeCall("event", func() { fn(ev) })
	}
}

// EmitPropertiesChanged notifies base unit property listeners.
func (b *Bus) EmitPropertiesChanged(changes []PropertyChange) {
	b.mu.RLock()
	fns := collect(b.propsChanged)
	b.mu.RUnlock()
	for _, fn := range fns {
		b.safeCall("properties_changed", func() { fn(changes) })
	}
}

// EmitSwitchStateChanged notifies switch state listeners.
func (b *Bus) EmitSwitchStateChanged(sw SwitchNumber, state *bool) {
	b.mu.RLock()
	fns := collect(b.switchState)
	b.mu.RUnlock()
	for _, fn := range fns {
		b.safeCall("switch_state_changed", func() { fn(sw, state) })
	}
}

// EmitDeviceEvent notifies listeners registered for this device id.
func (b *Bus) EmitDeviceEvent(dev *Device, code DeviceEventCode) {
	b.mu.RLock()
	fns := collect(b.deviceEvents[dev.DeviceID])
	b.mu.RUnlock()
	for _, fn := range fns {
		b.safeCall("device_event", func() { fn(dev, code) })
	}
}

// EmitDeviceProperties notifies listeners registered for this device id.
func (b *Bus) EmitDeviceProperties(dev *Device, changes []PropertyChange) {
	b.mu.RLock()
	fns := collect(b.deviceProps[dev.DeviceID])
	b.mu.RUnlock()
	for _, fn := range fns {
		b.safeCall("device_properties", func() { fn(dev, changes) })
	}
}

func collect[T any](m map[uint64]T) []T {
	out := make([]T, 0, len(m))
	for _, fn := range m {
		out = append(out, fn)
	}
	return out
}
