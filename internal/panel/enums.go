package panel

import "fmt"

// BaseUnitState is the arming state reported by the base unit.
type BaseUnitState uint8

const (
	StateDisarm BaseUnitState = iota
	StateHome
	StateAway
	StateMonitor
	StateAwayExitDelay
	StateAwayEntryDelay
)

var baseUnitStateNames = map[BaseUnitState]string{
	StateDisarm:         "Disarm",
	StateHome:           "Home",
	StateAway:           "Away",
	StateMonitor:        "Monitor",
	StateAwayExitDelay:  "AwayExitDelay",
	StateAwayEntryDelay: "AwayEntryDelay",
}

func (s BaseUnitState) String() string {
	if name, ok := baseUnitStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("BaseUnitState(%d)", uint8(s))
}

// OperationMode is the mode that can be commanded on the base unit.
type OperationMode uint8

const (
	ModeDisarm OperationMode = iota
	ModeHome
	ModeAway
	ModeMonitor
)

var operationModeNames = map[OperationMode]string{
	ModeDisarm:  "Disarm",
	ModeHome:    "Home",
	ModeAway:    "Away",
	ModeMonitor: "Monitor",
}

func (m OperationMode) String() string {
	if name, ok := operationModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("OperationMode(%d)", uint8(m))
}

// ParseOperationMode resolves a mode by name. The lookup is exact; an
// unknown name returns ok=false rather than an error so callers can
// drop bad input without failing.
func ParseOperationMode(name string) (OperationMode, bool) {
	for mode, n := range operationModeNames {
		if n == name {
			return mode, true
		}
	}
	return 0, false
}

// DeviceType is the enrolled device's hardware type code.
type DeviceType uint8

const (
	DeviceHumidSensor        DeviceType = 0x01
	DeviceHumidSensor2       DeviceType = 0x02
	DeviceTempSensor         DeviceType = 0x03
	DeviceTempSensor2        DeviceType = 0x04
	DeviceFloodDetector      DeviceType = 0x05
	DeviceFloodDetector2     DeviceType = 0x06
	DeviceMedicalButton      DeviceType = 0x08
	DeviceLightSensor        DeviceType = 0x0A
	DeviceLightDetector      DeviceType = 0x0B
	DeviceAnalogSensor       DeviceType = 0x0E
	DeviceAnalogSensor2      DeviceType = 0x0F
	DeviceRemoteController   DeviceType = 0x10
	DeviceCardReader         DeviceType = 0x12
	DeviceKeyPad             DeviceType = 0x18
	DeviceSmokeDetector      DeviceType = 0x20
	DevicePressureSensor     DeviceType = 0x22
	DevicePressureSensor2    DeviceType = 0x23
	DeviceCODetector         DeviceType = 0x25
	DeviceCO2Sensor          DeviceType = 0x26
	DeviceCO2Sensor2         DeviceType = 0x27
	DeviceACCurrentMeter     DeviceType = 0x28
	DeviceACCurrentMeter2    DeviceType = 0x29
	DeviceThreePhaseACMeter  DeviceType = 0x2B
	DeviceGasDetector        DeviceType = 0x30
	DeviceDoorMagnet         DeviceType = 0x40
	DeviceVibrationSensor    DeviceType = 0x42
	DevicePIRSensor          DeviceType = 0x50
	DeviceGlassBreakDetector DeviceType = 0x60
	DeviceRemoteSiren        DeviceType = 0x70
)

var deviceTypeNames = map[DeviceType]string{
	DeviceHumidSensor:        "HumidSensor",
	DeviceHumidSensor2:       "HumidSensor2",
	DeviceTempSensor:         "TempSensor",
	DeviceTempSensor2:        "TempSensor2",
	DeviceFloodDetector:      "FloodDetector",
	DeviceFloodDetector2:     "FloodDetector2",
	DeviceMedicalButton:      "MedicalButton",
	DeviceLightSensor:        "LightSensor",
	DeviceLightDetector:      "LightDetector",
	DeviceAnalogSensor:       "AnalogSensor",
	DeviceAnalogSensor2:      "AnalogSensor2",
	DeviceRemoteController:   "RemoteController",
	DeviceCardReader:         "CardReader",
	DeviceKeyPad:             "KeyPad",
	DeviceSmokeDetector:      "SmokeDetector",
	DevicePressureSensor:     "PressureSensor",
	DevicePressureSensor2:    "PressureSensor2",
	DeviceCODetector:         "CODetector",
	DeviceCO2Sensor:          "CO2Sensor",
	DeviceCO2Sensor2:         "CO2Sensor2",
	DeviceACCurrentMeter:     "ACCurrentMeter",
	DeviceACCurrentMeter2:    "ACCurrentMeter2",
	DeviceThreePhaseACMeter:  "ThreePhaseACMeter",
	DeviceGasDetector:        "GasDetector",
	DeviceDoorMagnet:         "DoorMagnet",
	DeviceVibrationSensor:    "VibrationSensor",
	DevicePIRSensor:          "PIRSensor",
	DeviceGlassBreakDetector: "GlassBreakDetector",
	DeviceRemoteSiren:        "RemoteSiren",
}

func (t DeviceType) String() string {
	if name, ok := deviceTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DeviceType(0x%02X)", uint8(t))
}

// DeviceEventCode is a discrete event reported by an enrolled device.
type DeviceEventCode uint16

const (
	EventCodeButton       DeviceEventCode = 0x0A01
	EventCodeAway         DeviceEventCode = 0x0A10
	EventCodeDisarm       DeviceEventCode = 0x0A14
	EventCodeHome         DeviceEventCode = 0x0A18
	EventCodeHeartbeat    DeviceEventCode = 0x0A20
	EventCodeReading      DeviceEventCode = 0x0A24
	EventCodePowerOnReset DeviceEventCode = 0x0A2C
	EventCodeBatteryLow   DeviceEventCode = 0x0A30
	EventCodeOpen         DeviceEventCode = 0x0A40
	EventCodeClose        DeviceEventCode = 0x0A44
	EventCodeTamper       DeviceEventCode = 0x0A48
	EventCodeTrigger      DeviceEventCode = 0x0A50
	EventCodeReset        DeviceEventCode = 0x0A58
)

var deviceEventCodeNames = map[DeviceEventCode]string{
	EventCodeButton:       "Button",
	EventCodeAway:         "Away",
	EventCodeDisarm:       "Disarm",
	EventCodeHome:         "Home",
	EventCodeHeartbeat:    "Heartbeat",
	EventCodeReading:      "Reading",
	EventCodePowerOnReset: "PowerOnReset",
	EventCodeBatteryLow:   "BatteryLow",
	EventCodeOpen:         "Open",
	EventCodeClose:        "Close",
	EventCodeTamper:       "Tamper",
	EventCodeTrigger:      "Trigger",
	EventCodeReset:        "Reset",
}

func (c DeviceEventCode) String() string {
	if name, ok := deviceEventCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("DeviceEventCode(0x%04X)", uint16(c))
}

// SwitchNumber identifies one of the base unit's appliance switches.
type SwitchNumber uint8

const (
	SW1 SwitchNumber = iota + 1
	SW2
	SW3
	SW4
	SW5
	SW6
	SW7
	SW8
)

func (n SwitchNumber) String() string {
	if n >= SW1 && n <= SW8 {
		return fmt.Sprintf("SW%d", uint8(n))
	}
	return fmt.Sprintf("SwitchNumber(%d)", uint8(n))
}

// ParseSwitchNumber resolves names of the form "SW1".."SW8".
func ParseSwitchNumber(name string) (SwitchNumber, bool) {
	for n := SW1; n <= SW8; n++ {
		if n.String() == name {
			return n, true
		}
	}
	return 0, false
}

// EventQualifier classifies a base unit event as a new occurrence or
// the restoral of a previous one.
type EventQualifier uint8

const (
	QualifierEvent   EventQualifier = 1
	QualifierRestore EventQualifier = 3
)

var eventQualifierNames = map[EventQualifier]string{
	QualifierEvent:   "Event",
	QualifierRestore: "Restore",
}

func (q EventQualifier) String() string {
	if name, ok := eventQualifierNames[q]; ok {
		return name
	}
	return fmt.Sprintf("EventQualifier(%d)", uint8(q))
}

// EventCategory groups base unit event codes by their hundreds digit.
type EventCategory uint8

const (
	CategoryAlarm       EventCategory = 1
	CategorySupervisory EventCategory = 2
	CategoryTrouble     EventCategory = 3
	CategoryOpenClose   EventCategory = 4
	CategoryBypass      EventCategory = 5
	CategoryTest        EventCategory = 6
)

var eventCategoryNames = map[EventCategory]string{
	CategoryAlarm:       "Alarm",
	CategorySupervisory: "Supervisory",
	CategoryTrouble:     "Trouble",
	CategoryOpenClose:   "OpenClose",
	CategoryBypass:      "Bypass",
	CategoryTest:        "Test",
}

func (c EventCategory) String() string {
	if name, ok := eventCategoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("EventCategory(%d)", uint8(c))
}
