package store

import (
	"errors"

	"sentinel2mqtt/internal/panel"
)

// ErrNotFound is returned when a requested entity does not exist in the store.
var ErrNotFound = errors.New("not found")

// Store persists the last-known snapshots reported by the panel, so
// enrolled devices can be listed without a live panel session.
type Store interface {
	SaveDevice(dev *panel.Device) error
	GetDevice(deviceID uint32) (*panel.Device, error)
	DeleteDevice(deviceID uint32) error
	ListDevices() ([]*panel.Device, error)

	SaveBaseUnit(info *panel.BaseUnitInfo) error
	GetBaseUnit() (*panel.BaseUnitInfo, error)

	Close() error
}
