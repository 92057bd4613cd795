package capabilities

import (
	"context"
	"errors"

	"github.com/shimmeringbee/da"
)

// ClimateControlFlag is allocated in the proprietary capability space, clear
// of the flags the da package reserves for its standard capabilities.
const ClimateControlFlag = da.Capability(0xff20)

var StandardNames = map[da.Capability]string{
	ClimateControlFlag: "ClimateControl",
}

var (
	// ErrNotSupported is returned by a mutator whose underlying vendor
	// capability is absent from the device's declared set. The operation is a
	// no-op; no command has been issued.
	ErrNotSupported = errors.New("operation not supported by device capability set")
	// ErrModeNotSupported is returned when a unified mode has no vendor
	// translation for the device's profile.
	ErrModeNotSupported = errors.New("hvac mode has no vendor translation")
	// ErrAmbiguousRequest is returned when a single point temperature is
	// requested while the device is in a range mode.
	ErrAmbiguousRequest = errors.New("ambiguous temperature request for current mode")
)

// ClimateState is the unified, vendor independent snapshot of a climate
// device. Pointer fields are nil when the backing attribute or capability is
// absent, never defaulted.
type ClimateState struct {
	Mode   HVACMode
	Modes  []HVACMode
	Action HVACAction

	CurrentTemperature    *float64
	CurrentHumidity       *float64
	TargetTemperature     *float64
	TargetTemperatureLow  *float64
	TargetTemperatureHigh *float64
	MinimumSetpoint       *float64
	MaximumSetpoint       *float64
	Unit                  TemperatureUnit

	FanMode  string
	FanModes []string

	SwingMode  string
	SwingModes []string

	PresetMode  string
	PresetModes []string

	Features ControlFeature
}

// TemperatureRequest carries a set temperature operation, optionally with an
// accompanying mode change. Mode is ModeUnknown when no change is requested.
type TemperatureRequest struct {
	Mode   HVACMode
	Target *float64
	Low    *float64
	High   *float64
}

// ClimateControl is the capability exposed for every classified climate
// device, retrieved via da.Device.Capability(ClimateControlFlag).
type ClimateControl interface {
	// State returns the current unified snapshot.
	State(context.Context) (ClimateState, error)
	// SetMode requests a unified operating mode.
	SetMode(context.Context, HVACMode) error
	// SetTemperature requests new setpoints, and optionally a mode change.
	SetTemperature(context.Context, TemperatureRequest) error
	SetFanMode(context.Context, string) error
	SetSwingMode(context.Context, string) error
	SetPresetMode(context.Context, string) error
	// TurnOn and TurnOff drive the power switch on profiles that have one.
	TurnOn(context.Context) error
	TurnOff(context.Context) error
}

// ClimateUpdate is published on the gateway event stream whenever a refresh
// produces a state that differs from the previous one.
type ClimateUpdate struct {
	Device da.Device
	State  ClimateState
}
