package panel

import (
	"context"
	"time"
)

// Driver is the narrow contract the bridge holds against the panel
// side: a lifecycle, the typed event bus, and the four commands the
// base unit accepts remotely.
type Driver interface {
	// Start opens the connection to the base unit and begins raising
	// events on the bus.
	Start() error

	// Stop closes the connection. No events are raised after Stop
	// returns.
	Stop()

	// Events returns the listener registry for everything the driver
	// observes.
	Events() *Bus

	// ClearStatus clears the alarm/warning LEDs on the base unit and
	// stops the siren.
	ClearStatus(ctx context.Context) error

	// SetDateTime sets the base unit's remote clock.
	SetDateTime(ctx context.Context, t time.Time) error

	// SetOperationMode arms or disarms the base unit.
	SetOperationMode(ctx context.Context, mode OperationMode) error

	// SetSwitchState turns an appliance switch on or off.
	SetSwitchState(ctx context.Context, sw SwitchNumber, on bool) error
}
