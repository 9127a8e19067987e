package panel

// FlagBit names one defined bit within a flag attribute. Reserved bits
// carry no FlagBit entry and are never exposed.
type FlagBit struct {
	Name string
	Mask uint16
}

// DCFlags holds the device characteristics bitflags.
type DCFlags uint8

const (
	DCRepeater   DCFlags = 0x80
	DCBaseUnit   DCFlags = 0x40
	DCTwoWay     DCFlags = 0x20
	DCSupervised DCFlags = 0x10
	DCRFVoice    DCFlags = 0x08
)

// DCFlagBits lists the defined characteristics bits in wire order.
var DCFlagBits = []FlagBit{
	{"Repeater", uint16(DCRepeater)},
	{"BaseUnit", uint16(DCBaseUnit)},
	{"TwoWay", uint16(DCTwoWay)},
	{"Supervised", uint16(DCSupervised)},
	{"RFVoice", uint16(DCRFVoice)},
}

// ESFlags holds the device enable status bitflags.
type ESFlags uint16

const (
	ESBypass           ESFlags = 0x8000
	ESDelay            ESFlags = 0x4000
	ESHour24           ESFlags = 0x2000
	ESHomeGuard        ESFlags = 0x1000
	ESWarningBeepDelay ESFlags = 0x0800
	ESAlarmSiren       ESFlags = 0x0400
	ESBell             ESFlags = 0x0200
	ESLatchkey         ESFlags = 0x0100
	ESInactivity       ESFlags = 0x0080
	ESTwoWay           ESFlags = 0x0040
	ESSupervised       ESFlags = 0x0020
	ESRFVoice          ESFlags = 0x0010
)

// ESFlagBits lists the defined enable status bits in wire order.
var ESFlagBits = []FlagBit{
	{"Bypass", uint16(ESBypass)},
	{"Delay", uint16(ESDelay)},
	{"Hour24", uint16(ESHour24)},
	{"HomeGuard", uint16(ESHomeGuard)},
	{"WarningBeepDelay", uint16(ESWarningBeepDelay)},
	{"AlarmSiren", uint16(ESAlarmSiren)},
	{"Bell", uint16(ESBell)},
	{"Latchkey", uint16(ESLatchkey)},
	{"Inactivity", uint16(ESInactivity)},
	{"TwoWay", uint16(ESTwoWay)},
	{"Supervised", uint16(ESSupervised)},
	{"RFVoice", uint16(ESRFVoice)},
}

// SwitchFlags holds the switch assignment bitflags; bit n-1 maps to SWn.
type SwitchFlags uint8

const (
	SwitchFlagSW1 SwitchFlags = 0x01
	SwitchFlagSW2 SwitchFlags = 0x02
	SwitchFlagSW3 SwitchFlags = 0x04
	SwitchFlagSW4 SwitchFlags = 0x08
	SwitchFlagSW5 SwitchFlags = 0x10
	SwitchFlagSW6 SwitchFlags = 0x20
	SwitchFlagSW7 SwitchFlags = 0x40
	SwitchFlagSW8 SwitchFlags = 0x80
)

// SwitchFlagBits lists the switch assignment bits in wire order.
var SwitchFlagBits = []FlagBit{
	{"SW1", uint16(SwitchFlagSW1)},
	{"SW2", uint16(SwitchFlagSW2)},
	{"SW3", uint16(SwitchFlagSW3)},
	{"SW4", uint16(SwitchFlagSW4)},
	{"SW5", uint16(SwitchFlagSW5)},
	{"SW6", uint16(SwitchFlagSW6)},
	{"SW7", uint16(SwitchFlagSW7)},
	{"SW8", uint16(SwitchFlagSW8)},
}

// SSFlags holds the special sensor status bitflags.
type SSFlags uint8

const (
	SSControlAlarm     SSFlags = 0x80
	SSHighLowOperation SSFlags = 0x40
	SSHighTriggered    SSFlags = 0x20
	SSHighState        SSFlags = 0x10
	SSLowTriggered     SSFlags = 0x08
	SSLowState         SSFlags = 0x04
)

// SSFlagBits lists the defined special status bits in wire order.
var SSFlagBits = []FlagBit{
	{"ControlAlarm", uint16(SSControlAlarm)},
	{"HighLowOperation", uint16(SSHighLowOperation)},
	{"HighTriggered", uint16(SSHighTriggered)},
	{"HighState", uint16(SSHighState)},
	{"LowTriggered", uint16(SSLowTriggered)},
	{"LowState", uint16(SSLowState)},
}
