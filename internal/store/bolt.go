package store

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"sentinel2mqtt/internal/panel"
)

var (
	bucketDevices  = []byte("devices")
	bucketBaseUnit = []byte("baseunit")
	keyBaseUnit    = []byte("info")
)

// BoltStore implements Store using BoltDB.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens or creates a BoltDB database.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketDevices, bucketBaseUnit} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// deviceKey renders a device id the way it appears elsewhere: as a
// six-hex-digit string.
func deviceKey(deviceID uint32) []byte {
	return []byte(fmt.Sprintf("%06x", deviceID))
}

func (s *BoltStore) SaveDevice(dev *panel.Device) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDevices)
		if b == nil {
			return fmt.Errorf("bucket %q not found", bucketDevices)
		}
		data, err := json.Marshal(dev)
		if err != nil {
			return err
		}
		return b.Put(deviceKey(dev.DeviceID), data)
	})
}

func (s *BoltStore) GetDevice(deviceID uint32) (*panel.Device, error) {
	var dev panel.Device
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDevices)
		if b == nil {
			return fmt.Errorf("bucket %q not found", bucketDevices)
		}
		data := b.Get(deviceKey(deviceID))
		if data == nil {
			return fmt.Errorf("device %06x: %w", deviceID, ErrNotFound)
		}
		return json.Unmarshal(data, &dev)
	})
	if err != nil {
		return nil, err
	}
	return &dev, nil
}

func (s *BoltStore) DeleteDevice(deviceID uint32) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDevices)
		if b == nil {
			return fmt.Errorf("bucket %q not found", bucketDevices)
		}
		return b.Delete(deviceKey(deviceID))
	})
}

func (s *BoltStore) ListDevices() ([]*panel.Device, error) {
	var devices []*panel.Device
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDevices)
		if b == nil {
			return nil // no bucket = no devices
		}
		devices = make([]*panel.Device, 0, b.Stats().KeyN)
		return b.ForEach(func(k, v []byte) error {
			var dev panel.Device
			if err := json.Unmarshal(v, &dev); err != nil {
				return err
			}
			devices = append(devices, &dev)
			return nil
		})
	})
	return devices, err
}

func (s *BoltStore) SaveBaseUnit(info *panel.BaseUnitInfo) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketBaseUnit)
		if b == nil {
			return fmt.Errorf("bucket %q not found", bucketBaseUnit)
		}
		data, err := json.Marshal(info)
		if err != nil {
			return err
		}
		return b.Put(keyBaseUnit, data)
	})
}

func (s *BoltStore) GetBaseUnit() (*panel.BaseUnitInfo, error) {
	var info panel.BaseUnitInfo
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketBaseUnit)
		if b == nil {
			return fmt.Errorf("bucket %q not found", bucketBaseUnit)
		}
		data := b.Get(keyBaseUnit)
		if data == nil {
			return fmt.Errorf("base unit: %w", ErrNotFound)
		}
		return json.Unmarshal(data, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
