package bridge

import (
	"fmt"
	"strconv"
	"strings"

	"sentinel2mqtt/internal/panel"
)

// message is one pending publication.
type message struct {
	topic   string
	payload []byte
	retain  bool
}

// State payload vocabulary.
const (
	payloadOn     = "on"
	payloadOff    = "off"
	payloadOpen   = "open"
	payloadClosed = "closed"
	payloadTrue   = "true"
	payloadFalse  = "false"
)

// Normalized alarm states consumed by Home Assistant's MQTT alarm panel.
const (
	haStateDisarmed  = "disarmed"
	haStateArmedHome = "armed_home"
	haStateArmedAway = "armed_away"
	haStatePending   = "pending"
	haStateTriggered = "triggered"
)

func onOffPayload(on bool) string {
	if on {
		return payloadOn
	}
	return payloadOff
}

func openClosedPayload(closed bool) string {
	if closed {
		return payloadClosed
	}
	return payloadOpen
}

// parseOnOff resolves an inbound on/off command payload. Unresolvable
// input returns ok=false; it is never an error.
func parseOnOff(name string) (on bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case payloadOn:
		return true, true
	case payloadOff:
		return false, true
	default:
		return false, false
	}
}

// encodePayload converts a typed property value into wire bytes: nil
// becomes an empty payload, binary payloads pass through, and anything
// else is its canonical string form as UTF-8.
func encodePayload(value any) []byte {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return v
	case string:
		return []byte(v)
	case bool:
		if v {
			return []byte(payloadTrue)
		}
		return []byte(payloadFalse)
	case *float64:
		if v == nil {
			return nil
		}
		return []byte(strconv.FormatFloat(*v, 'g', -1, 64))
	case float64:
		return []byte(strconv.FormatFloat(v, 'g', -1, 64))
	case float32:
		return []byte(strconv.FormatFloat(float64(v), 'g', -1, 32))
	case int:
		return []byte(strconv.Itoa(v))
	case uint8:
		return []byte(strconv.FormatUint(uint64(v), 10))
	case uint16:
		return []byte(strconv.FormatUint(uint64(v), 10))
	case uint32:
		return []byte(strconv.FormatUint(uint64(v), 10))
	case fmt.Stringer:
		return []byte(v.String())
	default:
		return []byte(fmt.Sprint(v))
	}
}

// haStateFor maps the base unit state onto the normalized alarm state.
// States outside the mapped set yield ok=false and no publication.
func haStateFor(state panel.BaseUnitState) (string, bool) {
	switch state {
	case panel.StateDisarm, panel.StateMonitor:
		return haStateDisarmed, true
	case panel.StateHome:
		return haStateArmedHome, true
	case panel.StateAway:
		return haStateArmedAway, true
	case panel.StateAwayExitDelay, panel.StateAwayEntryDelay:
		return haStatePending, true
	default:
		return "", false
	}
}

// baseUnitPropertyMessages translates one base unit property change
// into publications. Properties outside the supported set yield none.
func (c *Config) baseUnitPropertyMessages(name string, value any) []message {
	switch name {
	case panel.PropState:
		msgs := []message{{c.BaseUnitTopic, encodePayload(value), true}}
		if state, ok := value.(panel.BaseUnitState); ok {
			if ha, ok := haStateFor(state); ok {
				msgs = append(msgs, message{c.baseUnitTopic(topicHAState), []byte(ha), true})
			}
		}
		return msgs
	case panel.PropIsConnected, panel.PropROMVersion,
		panel.PropExitDelay, panel.PropEntryDelay, panel.PropOperationMode:
		return []message{{c.baseUnitTopic(name), encodePayload(value), true}}
	default:
		return nil
	}
}

// devicePropertyMessages translates one device property change into
// publications under the device's topic. Attributes outside the rules
// yield none.
func devicePropertyMessages(deviceTopic string, dev *panel.Device, name string, value any) []message {
	switch name {
	case panel.PropIsClosed:
		if dev.Special != nil {
			return nil
		}
		// The device topic carries on/off for trigger-based devices;
		// only magnet sensors report a meaningful open/closed state.
		if dev.Type == panel.DeviceDoorMagnet {
			closed, _ := value.(bool)
			return []message{{deviceTopic, []byte(openClosedPayload(closed)), true}}
		}
		return []message{{deviceTopic, []byte(payloadOff), true}}

	case panel.PropCurrentReading:
		if dev.Special == nil {
			return nil
		}
		return []message{{deviceTopic, encodePayload(value), true}}

	case panel.PropCategory:
		cat, ok := value.(panel.Category)
		if !ok {
			return nil
		}
		parent := subTopic(deviceTopic, name)
		return []message{
			{subTopic(parent, "code"), encodePayload(cat.Code), true},
			{subTopic(parent, "description"), encodePayload(cat.Description), true},
		}

	case panel.PropCharacteristics:
		v, ok := value.(panel.DCFlags)
		if !ok {
			return nil
		}
		return flagMessages(deviceTopic, name, uint16(v), panel.DCFlagBits)
	case panel.PropEnableStatus:
		v, ok := value.(panel.ESFlags)
		if !ok {
			return nil
		}
		return flagMessages(deviceTopic, name, uint16(v), panel.ESFlagBits)
	case panel.PropSwitches:
		v, ok := value.(panel.SwitchFlags)
		if !ok {
			return nil
		}
		return flagMessages(deviceTopic, name, uint16(v), panel.SwitchFlagBits)
	case panel.PropSpecialStatus:
		v, ok := value.(panel.SSFlags)
		if !ok {
			return nil
		}
		return flagMessages(deviceTopic, name, uint16(v), panel.SSFlagBits)

	case panel.PropDeviceID, panel.PropZone, panel.PropType,
		panel.PropRSSIDB, panel.PropRSSIBars,
		panel.PropHighLimit, panel.PropLowLimit,
		panel.PropControlLimitFieldsExist,
		panel.PropControlHighLimit, panel.PropControlLowLimit:
		return []message{{subTopic(deviceTopic, name), encodePayload(value), true}}

	default:
		return nil
	}
}

// flagMessages decomposes a bitflag attribute into one boolean
// sub-topic per defined bit. Reserved bits have no entry in bits and
// are not published.
func flagMessages(deviceTopic, attr string, value uint16, bits []panel.FlagBit) []message {
	parent := subTopic(deviceTopic, attr)
	msgs := make([]message, 0, len(bits))
	for _, bit := range bits {
		msgs = append(msgs, message{
			topic:   subTopic(parent, bit.Name),
			payload: encodePayload(value&bit.Mask != 0),
			retain:  true,
		})
	}
	return msgs
}
