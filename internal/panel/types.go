package panel

// Base unit property names as they appear on the wire and in topics.
const (
	PropIsConnected   = "is_connected"
	PropROMVersion    = "rom_version"
	PropExitDelay     = "exit_delay"
	PropEntryDelay    = "entry_delay"
	PropOperationMode = "operation_mode"
	PropState         = "state"
)

// Device property names.
const (
	PropDeviceID                = "device_id"
	PropZone                    = "zone"
	PropType                    = "type"
	PropCategory                = "category"
	PropCharacteristics         = "characteristics"
	PropEnableStatus            = "enable_status"
	PropSwitches                = "switches"
	PropRSSIDB                  = "rssi_db"
	PropRSSIBars                = "rssi_bars"
	PropIsClosed                = "is_closed"
	PropCurrentReading          = "current_reading"
	PropHighLimit               = "high_limit"
	PropLowLimit                = "low_limit"
	PropControlLimitFieldsExist = "control_limit_fields_exist"
	PropControlHighLimit        = "control_high_limit"
	PropControlLowLimit         = "control_low_limit"
	PropSpecialStatus           = "special_status"
)

// Category describes the enrollment category of a device.
type Category struct {
	Code        uint8  `json:"code"`
	Description string `json:"description"`
}

// SpecialFields carries the extra attributes of sensor-variant devices
// that report a measured value with alarm limits.
type SpecialFields struct {
	CurrentReading          float64  `json:"current_reading"`
	HighLimit               *float64 `json:"high_limit"`
	LowLimit                *float64 `json:"low_limit"`
	ControlLimitFieldsExist bool     `json:"control_limit_fields_exist"`
	ControlHighLimit        *float64 `json:"control_high_limit"`
	ControlLowLimit         *float64 `json:"control_low_limit"`
	SpecialStatus           SSFlags  `json:"special_status"`
}

// Device is a snapshot of one enrolled device. The driver owns the
// authoritative copy; consumers must not retain it across callbacks.
type Device struct {
	DeviceID        uint32      `json:"device_id"`
	Zone            string      `json:"zone"`
	Type            DeviceType  `json:"type"`
	Category        Category    `json:"category"`
	Characteristics DCFlags     `json:"characteristics"`
	EnableStatus    ESFlags     `json:"enable_status"`
	Switches        SwitchFlags `json:"switches"`
	RSSIDB          int         `json:"rssi_db"`
	RSSIBars        int         `json:"rssi_bars"`

	// IsClosed applies to regular devices only (magnet sensors).
	IsClosed bool `json:"is_closed"`

	// Special is non-nil for the sensor variant.
	Special *SpecialFields `json:"special,omitempty"`
}

// Clone returns a deep copy of the snapshot. Callers that need the
// device past the callback that delivered it must copy it; the driver
// mutates its own instance.
func (d *Device) Clone() *Device {
	out := *d
	if d.Special != nil {
		sp := *d.Special
		sp.HighLimit = cloneFloat(d.Special.HighLimit)
		sp.LowLimit = cloneFloat(d.Special.LowLimit)
		sp.ControlHighLimit = cloneFloat(d.Special.ControlHighLimit)
		sp.ControlLowLimit = cloneFloat(d.Special.ControlLowLimit)
		out.Special = &sp
	}
	return &out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}

// Property is one named device attribute with its current value.
type Property struct {
	Name  string
	Value any
}

// Properties returns every supported attribute with its current value,
// in a stable order. Used to publish the full snapshot when a device
// is first seen.
func (d *Device) Properties() []Property {
	props := []Property{
		{PropDeviceID, d.DeviceID},
		{PropZone, d.Zone},
		{PropType, d.Type},
		{PropCategory, d.Category},
		{PropCharacteristics, d.Characteristics},
		{PropEnableStatus, d.EnableStatus},
		{PropSwitches, d.Switches},
		{PropRSSIDB, d.RSSIDB},
		{PropRSSIBars, d.RSSIBars},
	}
	if d.Special != nil {
		props = append(props,
			Property{PropCurrentReading, d.Special.CurrentReading},
			Property{PropHighLimit, d.Special.HighLimit},
			Property{PropLowLimit, d.Special.LowLimit},
			Property{PropControlLimitFieldsExist, d.Special.ControlLimitFieldsExist},
			Property{PropControlHighLimit, d.Special.ControlHighLimit},
			Property{PropControlLowLimit, d.Special.ControlLowLimit},
			Property{PropSpecialStatus, d.Special.SpecialStatus},
		)
	} else {
		props = append(props, Property{PropIsClosed, d.IsClosed})
	}
	return props
}

// BaseUnitInfo is a snapshot of the base unit's reported properties.
type BaseUnitInfo struct {
	IsConnected   bool          `json:"is_connected"`
	ROMVersion    string        `json:"rom_version"`
	ExitDelay     int           `json:"exit_delay"`
	EntryDelay    int           `json:"entry_delay"`
	OperationMode OperationMode `json:"operation_mode"`
	State         BaseUnitState `json:"state"`
}

// PropertyChange reports one property transition raised by the driver.
type PropertyChange struct {
	Name  string
	Value any
}

// Event is a normalized alarm/event record raised by the base unit.
type Event struct {
	Qualifier EventQualifier `json:"qualifier"`
	Category  EventCategory  `json:"category"`
	EventCode uint16         `json:"event_code"`
	GroupID   uint8          `json:"group_id"`
	UnitID    uint8          `json:"unit_id"`
}

func (q EventQualifier) MarshalJSON() ([]byte, error) {
	return []byte(`"` + q.String() + `"`), nil
}

func (c EventCategory) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}
