package implcaps

import (
	"context"

	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/persistence"
	"github.com/shimmeringbee/stda/quirks"
	"github.com/shimmeringbee/stda/smartthings"
)

const (
	DataKeyAlreadyInitialised = "Initialised"
	DataKeyDeviceID           = "DeviceID"
	DataKeyManufacturer       = "Manufacturer"
	DataKeyModel              = "Model"
	DataKeyLabel              = "Label"
	DataKeyCapabilities       = "Capabilities"
)

type DetachType int

const (
	// DeviceRemoved is used when a device has been removed from the SmartThings location, this has already occurred,
	// and it should be assumed that no communication is possible.
	DeviceRemoved DetachType = iota
	// NoLongerEnumerated is used when the enumeration of the device no longer results in this capability existing, or
	// it's being replaced by a different implementation.
	NoLongerEnumerated
	// FailedAttach is used when an Attach failed.
	FailedAttach
)

type STDACapability interface {
	// BasicCapability functions should also be present.
	da.BasicCapability
	// Init is used upon creation of the capability to provide persistence.
	Init(da.Device, persistence.Section)
	// Load is used upon load of the capability from persistence at start up.
	Load(context.Context) (bool, error)
	// Enumerate is used to enumerate or re-enumerate a device. Enumerate should return true if everything is
	// successful and the capability should be attached, or false if it should not. A return value of true and error
	// is possible, and the capability should attach.
	Enumerate(context.Context, map[string]any) (bool, error)
	// Refresh is called with a fresh attribute snapshot for the device. The capability folds the snapshot into its
	// cached state and publishes an update event if anything observable changed.
	Refresh(context.Context, smartthings.Snapshot) error
	// Detach is called when a capability is removed from a device. This will be called after an Enumerate that
	// returned false, even if it was a new enumeration.
	Detach(context.Context, DetachType) error
	// ImplName returns the implementation name of the capability.
	ImplName() string
}

type STDAInterface interface {
	// Transport returns the provider used to issue commands and read device status.
	Transport() smartthings.Provider
	// Quirks returns the model quirk engine, nil if no quirks are loaded.
	Quirks() *quirks.Engine
	// Logger returns the logger capabilities should log against.
	Logger() logwrap.Logger
	// SendEvent allows a capability to publish event messages.
	SendEvent(any)
}
