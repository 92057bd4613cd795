package smartthings

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Devices(ctx context.Context) ([]DeviceDescription, error) {
	args := m.Called(ctx)
	return args.Get(0).([]DeviceDescription), args.Error(1)
}

func (m *MockProvider) Status(ctx context.Context, deviceID string) (Snapshot, error) {
	args := m.Called(ctx, deviceID)
	return args.Get(0).(Snapshot), args.Error(1)
}

func (m *MockProvider) SetThermostatMode(ctx context.Context, deviceID string, mode string) (bool, error) {
	args := m.Called(ctx, deviceID, mode)
	return args.Bool(0), args.Error(1)
}

func (m *MockProvider) SetThermostatFanMode(ctx context.Context, deviceID string, mode string) (bool, error) {
	args := m.Called(ctx, deviceID, mode)
	return args.Bool(0), args.Error(1)
}

func (m *MockProvider) SetHeatingSetpoint(ctx context.Context, deviceID string, value float64) (bool, error) {
	args := m.Called(ctx, deviceID, value)
	return args.Bool(0), args.Error(1)
}

func (m *MockProvider) SetCoolingSetpoint(ctx context.Context, deviceID string, value float64) (bool, error) {
	args := m.Called(ctx, deviceID, value)
	return args.Bool(0), args.Error(1)
}

func (m *MockProvider) SetAirConditionerMode(ctx context.Context, deviceID string, mode string) (bool, error) {
	args := m.Called(ctx, deviceID, mode)
	return args.Bool(0), args.Error(1)
}

func (m *MockProvider) SetAirConditionerFanMode(ctx context.Context, deviceID string, mode string) (bool, error) {
	args := m.Called(ctx, deviceID, mode)
	return args.Bool(0), args.Error(1)
}

func (m *MockProvider) SwitchOn(ctx context.Context, deviceID string) (bool, error) {
	args := m.Called(ctx, deviceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProvider) SwitchOff(ctx context.Context, deviceID string) (bool, error) {
	args := m.Called(ctx, deviceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProvider) Command(ctx context.Context, deviceID string, component string, capability string, command string, arguments []any) (bool, error) {
	args := m.Called(ctx, deviceID, component, capability, command, arguments)
	return args.Bool(0), args.Error(1)
}

func (m *MockProvider) Execute(ctx context.Context, deviceID string, path string, arguments map[string]any) (bool, error) {
	args := m.Called(ctx, deviceID, path, arguments)
	return args.Bool(0), args.Error(1)
}

var _ Provider = (*MockProvider)(nil)
