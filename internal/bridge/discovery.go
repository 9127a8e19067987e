package bridge

import (
	"encoding/json"
	"fmt"
	"strings"

	"sentinel2mqtt/internal/panel"
)

// projectName prefixes every discovery unique id.
const projectName = "sentinel2mqtt"

// Home Assistant platforms used to represent our entities.
const (
	haPlatformBinarySensor = "binary_sensor"
	haPlatformSensor       = "sensor"
	haPlatformSwitch       = "switch"
)

// haConfig is a Home Assistant MQTT discovery document.
type haConfig struct {
	Name                string `json:"name"`
	UniqueID            string `json:"unique_id"`
	StateTopic          string `json:"state_topic"`
	CommandTopic        string `json:"command_topic,omitempty"`
	AvailabilityTopic   string `json:"availability_topic"`
	PayloadAvailable    string `json:"payload_available"`
	PayloadNotAvailable string `json:"payload_not_available"`
	DeviceClass         string `json:"device_class,omitempty"`
	UnitOfMeasurement   string `json:"unit_of_measurement,omitempty"`
	PayloadOn           string `json:"payload_on,omitempty"`
	PayloadOff          string `json:"payload_off,omitempty"`
}

// haDescriptor classifies one device type for discovery.
type haDescriptor struct {
	platform    string
	deviceClass string
	unit        string

	// openClosed selects the open/closed payload pair instead of
	// on/off for binary sensors (door magnets).
	openClosed bool
}

// haDeviceTable maps each representable device type to its discovery
// descriptor. Types absent from the table cannot be represented in
// Home Assistant and yield no document.
var haDeviceTable = map[panel.DeviceType]haDescriptor{
	panel.DeviceFloodDetector:      {platform: haPlatformBinarySensor, deviceClass: "moisture"},
	panel.DeviceFloodDetector2:     {platform: haPlatformBinarySensor, deviceClass: "moisture"},
	panel.DeviceMedicalButton:      {platform: haPlatformBinarySensor, deviceClass: "safety"},
	panel.DeviceAnalogSensor:       {platform: haPlatformBinarySensor},
	panel.DeviceAnalogSensor2:      {platform: haPlatformBinarySensor},
	panel.DeviceSmokeDetector:      {platform: haPlatformBinarySensor, deviceClass: "smoke"},
	panel.DevicePressureSensor:     {platform: haPlatformBinarySensor, deviceClass: "motion"},
	panel.DevicePressureSensor2:    {platform: haPlatformBinarySensor, deviceClass: "motion"},
	panel.DeviceCODetector:         {platform: haPlatformBinarySensor, deviceClass: "gas"},
	panel.DeviceCO2Sensor:          {platform: haPlatformBinarySensor, deviceClass: "gas"},
	panel.DeviceCO2Sensor2:         {platform: haPlatformBinarySensor, deviceClass: "gas"},
	panel.DeviceGasDetector:        {platform: haPlatformBinarySensor, deviceClass: "gas"},
	panel.DeviceDoorMagnet:         {platform: haPlatformBinarySensor, deviceClass: "door", openClosed: true},
	panel.DeviceVibrationSensor:    {platform: haPlatformBinarySensor, deviceClass: "vibration"},
	panel.DevicePIRSensor:          {platform: haPlatformBinarySensor, deviceClass: "motion"},
	panel.DeviceGlassBreakDetector: {platform: haPlatformBinarySensor, deviceClass: "window"},
	panel.DeviceHumidSensor:        {platform: haPlatformSensor, deviceClass: "humidity", unit: "%"},
	panel.DeviceHumidSensor2:       {platform: haPlatformSensor, deviceClass: "humidity", unit: "%"},
	panel.DeviceTempSensor:         {platform: haPlatformSensor, deviceClass: "temperature", unit: "°C"},
	panel.DeviceTempSensor2:        {platform: haPlatformSensor, deviceClass: "temperature", unit: "°C"},
	panel.DeviceLightSensor:        {platform: haPlatformSensor, deviceClass: "illuminance", unit: "Lux"},
	panel.DeviceLightDetector:      {platform: haPlatformSensor, deviceClass: "illuminance", unit: "Lux"},
	panel.DeviceACCurrentMeter:     {platform: haPlatformSensor, unit: "A"},
	panel.DeviceACCurrentMeter2:    {platform: haPlatformSensor, unit: "A"},
	panel.DeviceThreePhaseACMeter:  {platform: haPlatformSensor, unit: "A"},
}

// deviceUniqueID is the stable discovery id for a device.
func deviceUniqueID(deviceID uint32) string {
	return fmt.Sprintf("%s_%06x", projectName, deviceID)
}

// switchUniqueID is the stable discovery id for a switch.
func switchUniqueID(sw panel.SwitchNumber) string {
	return projectName + "_" + strings.ToLower(sw.String())
}

// buildDeviceDiscovery builds the discovery document for one device,
// or nil when its type has no representation.
func (c *Config) buildDeviceDiscovery(dev *panel.Device, dc DeviceConfig) *message {
	desc, ok := haDeviceTable[dev.Type]
	if !ok {
		return nil
	}

	doc := haConfig{
		Name:                dc.HAName,
		UniqueID:            deviceUniqueID(dev.DeviceID),
		StateTopic:          dc.Topic,
		AvailabilityTopic:   c.baseUnitTopic(panel.PropIsConnected),
		PayloadAvailable:    payloadTrue,
		PayloadNotAvailable: payloadFalse,
		DeviceClass:         desc.deviceClass,
		UnitOfMeasurement:   desc.unit,
	}
	if desc.platform == haPlatformBinarySensor {
		if desc.openClosed {
			doc.PayloadOn = payloadOpen
			doc.PayloadOff = payloadClosed
		} else {
			doc.PayloadOn = payloadOn
			doc.PayloadOff = payloadOff
		}
	}

	return &message{
		topic:   c.discoveryTopic(desc.platform, doc.UniqueID),
		payload: mustJSON(doc),
		retain:  true,
	}
}

// buildSwitchDiscovery builds the discovery document for one switch.
func (c *Config) buildSwitchDiscovery(sw panel.SwitchNumber, sc SwitchConfig) *message {
	doc := haConfig{
		Name:                sc.HAName,
		UniqueID:            switchUniqueID(sw),
		StateTopic:          sc.Topic,
		CommandTopic:        setSwitchTopic(sc.Topic),
		AvailabilityTopic:   c.baseUnitTopic(panel.PropIsConnected),
		PayloadAvailable:    payloadTrue,
		PayloadNotAvailable: payloadFalse,
		PayloadOn:           payloadOn,
		PayloadOff:          payloadOff,
	}
	return &message{
		topic:   c.discoveryTopic(haPlatformSwitch, doc.UniqueID),
		payload: mustJSON(doc),
		retain:  true,
	}
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return data
}
