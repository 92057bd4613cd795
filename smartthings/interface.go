package smartthings

import "context"

// Provider is the boundary to the cloud service. Implementations must provide
// at-least-once command delivery and request level timeouts; the adapter core
// issues each command exactly once and never retries.
//
// Command methods return the service's success indicator. A false indicator
// without an error means the service queued the command but did not confirm
// it; callers treat the two cases alike.
type Provider interface {
	// Devices lists the devices visible to the configured account.
	Devices(ctx context.Context) ([]DeviceDescription, error)
	// Status fetches the current attribute snapshot for a device.
	Status(ctx context.Context, deviceID string) (Snapshot, error)

	SetThermostatMode(ctx context.Context, deviceID string, mode string) (bool, error)
	SetThermostatFanMode(ctx context.Context, deviceID string, mode string) (bool, error)
	SetHeatingSetpoint(ctx context.Context, deviceID string, value float64) (bool, error)
	SetCoolingSetpoint(ctx context.Context, deviceID string, value float64) (bool, error)
	SetAirConditionerMode(ctx context.Context, deviceID string, mode string) (bool, error)
	SetAirConditionerFanMode(ctx context.Context, deviceID string, mode string) (bool, error)
	SwitchOn(ctx context.Context, deviceID string) (bool, error)
	SwitchOff(ctx context.Context, deviceID string) (bool, error)

	// Command issues an arbitrary capability command.
	Command(ctx context.Context, deviceID string, component string, capability string, command string, arguments []any) (bool, error)
	// Execute issues a low level device specific invocation against a raw
	// endpoint path.
	Execute(ctx context.Context, deviceID string, path string, arguments map[string]any) (bool, error)
}
