package store

import (
	"errors"
	"path/filepath"
	"testing"

	"sentinel2mqtt/internal/panel"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewBoltStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDeviceRoundTrip(t *testing.T) {
	s := newTestStore(t)

	high := 30.0
	dev := &panel.Device{
		DeviceID: 0x123456,
		Zone:     "01-01",
		Type:     panel.DeviceTempSensor,
		Category: panel.Category{Code: 2, Description: "Controller"},
		RSSIDB:   -70,
		Special: &panel.SpecialFields{
			CurrentReading: 23.5,
			HighLimit:      &high,
		},
	}
	if err := s.SaveDevice(dev); err != nil {
		t.Fatalf("SaveDevice: %v", err)
	}

	got, err := s.GetDevice(dev.DeviceID)
	if err != nil {
		t.Fatalf("GetDevice: %v", err)
	}
	if got.Zone != "01-01" || got.Type != panel.DeviceTempSensor || got.RSSIDB != -70 {
		t.Errorf("got %+v", got)
	}
	if got.Special == nil || got.Special.CurrentReading != 23.5 {
		t.Errorf("special = %+v", got.Special)
	}
	if got.Special.HighLimit == nil || *got.Special.HighLimit != 30.0 {
		t.Errorf("high limit = %v", got.Special.HighLimit)
	}
}

func TestGetDeviceNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetDevice(0xABCDEF)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteDevice(t *testing.T) {
	s := newTestStore(t)

	dev := &panel.Device{DeviceID: 42, Type: panel.DeviceDoorMagnet}
	if err := s.SaveDevice(dev); err != nil {
		t.Fatalf("SaveDevice: %v", err)
	}
	if err := s.DeleteDevice(42); err != nil {
		t.Fatalf("DeleteDevice: %v", err)
	}
	if _, err := s.GetDevice(42); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	// Deleting an absent device is not an error.
	if err := s.DeleteDevice(42); err != nil {
		t.Errorf("DeleteDevice again: %v", err)
	}
}

func TestListDevices(t *testing.T) {
	s := newTestStore(t)

	for _, id := range []uint32{3, 1, 2} {
		if err := s.SaveDevice(&panel.Device{DeviceID: id, Type: panel.DevicePIRSensor}); err != nil {
			t.Fatalf("SaveDevice(%d): %v", id, err)
		}
	}

	devices, err := s.ListDevices()
	if err != nil {
		t.Fatalf("ListDevices: %v", err)
	}
	if len(devices) != 3 {
		t.Fatalf("got %d devices, want 3", len(devices))
	}
	// Keys are hex strings, so iteration is ordered by id.
	for i, want := range []uint32{1, 2, 3} {
		if devices[i].DeviceID != want {
			t.Errorf("devices[%d].DeviceID = %d, want %d", i, devices[i].DeviceID, want)
		}
	}
}

func TestBaseUnitRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetBaseUnit(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	info := &panel.BaseUnitInfo{
		IsConnected:   true,
		ROMVersion:    "02.6E",
		OperationMode: panel.ModeAway,
		State:         panel.StateAway,
	}
	if err := s.SaveBaseUnit(info); err != nil {
		t.Fatalf("SaveBaseUnit: %v", err)
	}

	got, err := s.GetBaseUnit()
	if err != nil {
		t.Fatalf("GetBaseUnit: %v", err)
	}
	if got.ROMVersion != "02.6E" || got.State != panel.StateAway || !got.IsConnected {
		t.Errorf("got %+v", got)
	}
}
