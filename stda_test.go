package stda

import (
	"context"
	"testing"
	"time"

	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/persistence/impl/memory"
	"github.com/shimmeringbee/stda/capabilities"
	"github.com/shimmeringbee/stda/implcaps"
	"github.com/shimmeringbee/stda/smartthings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var acDeviceCapabilities = []string{
	smartthings.CapabilityAirConditionerMode,
	smartthings.CapabilitySwitch,
	smartthings.CapabilityTemperatureMeasurement,
	smartthings.CapabilityThermostatCoolingSetpoint,
}

func readEvent(t *testing.T, z *STDA) any {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	e, err := z.ReadEvent(ctx)
	require.NoError(t, err)
	return e
}

func TestSTDA_Start(t *testing.T) {
	t.Run("discovers and classifies devices, attaching the climate capability", func(t *testing.T) {
		mp := &smartthings.MockProvider{}
		defer mp.AssertExpectations(t)

		mp.On("Devices", mock.Anything).Return([]smartthings.DeviceDescription{
			{DeviceID: "ac-1", Label: "Lounge AC", Capabilities: acDeviceCapabilities},
			{DeviceID: "bulb-1", Label: "Lounge Bulb", Capabilities: []string{"switch", "switchLevel"}},
		}, nil)
		mp.On("Status", mock.Anything, "ac-1").Return(smartthings.Snapshot{}, nil).Maybe()

		z := New(context.Background(), memory.New(), mp)

		err := z.Start()
		require.NoError(t, err)
		defer z.Stop()

		added, ok := readEvent(t, z).(da.DeviceAdded)
		require.True(t, ok)
		assert.Equal(t, "ac-1", added.Device.Identifier().String())

		capAdded, ok := readEvent(t, z).(da.CapabilityAdded)
		require.True(t, ok)
		assert.Equal(t, capabilities.ClimateControlFlag, capAdded.Capability)

		d := z.getDevice("ac-1")
		require.NotNil(t, d)

		impl, ok := d.Capability(capabilities.ClimateControlFlag).(implcaps.STDACapability)
		require.True(t, ok)
		assert.Equal(t, "SmartThingsAirConditioner", impl.ImplName())

		cc, ok := d.Capability(capabilities.ClimateControlFlag).(capabilities.ClimateControl)
		require.True(t, ok)
		_, err = cc.State(context.TODO())
		assert.NoError(t, err)
	})

	t.Run("an unclassifiable device produces no entity", func(t *testing.T) {
		mp := &smartthings.MockProvider{}
		defer mp.AssertExpectations(t)

		mp.On("Devices", mock.Anything).Return([]smartthings.DeviceDescription{
			{DeviceID: "bulb-1", Label: "Lounge Bulb", Capabilities: []string{"switch", "switchLevel"}},
		}, nil)

		z := New(context.Background(), memory.New(), mp)

		require.NoError(t, z.Start())
		defer z.Stop()

		assert.Nil(t, z.getDevice("bulb-1"))
		assert.Len(t, z.Devices(), 1)
	})

	t.Run("a persisted device absent from the account listing is removed", func(t *testing.T) {
		mp := &smartthings.MockProvider{}
		defer mp.AssertExpectations(t)

		mp.On("Devices", mock.Anything).Return([]smartthings.DeviceDescription{}, nil)

		s := memory.New()
		s.Section("device", "gone-1").Set("Label", "Old AC")

		z := New(context.Background(), s, mp)

		require.NoError(t, z.Start())
		defer z.Stop()

		added, ok := readEvent(t, z).(da.DeviceAdded)
		require.True(t, ok)
		assert.Equal(t, "gone-1", added.Device.Identifier().String())

		removed, ok := readEvent(t, z).(da.DeviceRemoved)
		require.True(t, ok)
		assert.Equal(t, "gone-1", removed.Device.Identifier().String())

		assert.Nil(t, z.getDevice("gone-1"))
		assert.NotContains(t, s.Section("device").SectionKeys(), "gone-1")
	})

	t.Run("a device with persisted capability data is reloaded before discovery", func(t *testing.T) {
		mp := &smartthings.MockProvider{}
		defer mp.AssertExpectations(t)

		mp.On("Devices", mock.Anything).Return([]smartthings.DeviceDescription{
			{DeviceID: "ac-1", Label: "Lounge AC", Capabilities: acDeviceCapabilities},
		}, nil)
		mp.On("Status", mock.Anything, "ac-1").Return(smartthings.Snapshot{}, nil).Maybe()

		s := memory.New()
		ds := s.Section("device", "ac-1")
		ds.Set("Label", "Lounge AC")

		cs := ds.Section("capability", capabilities.StandardNames[capabilities.ClimateControlFlag])
		cs.Set("implementation", "SmartThingsAirConditioner")

		data := cs.Section("data")
		data.Set(implcaps.DataKeyDeviceID, "ac-1")
		for _, c := range acDeviceCapabilities {
			data.Section("VendorCapabilities", c).Set("Attached", true)
		}

		z := New(context.Background(), s, mp)

		require.NoError(t, z.Start())
		defer z.Stop()

		d := z.getDevice("ac-1")
		require.NotNil(t, d)

		impl, ok := d.Capability(capabilities.ClimateControlFlag).(implcaps.STDACapability)
		require.True(t, ok)
		assert.Equal(t, "SmartThingsAirConditioner", impl.ImplName())
	})

	t.Run("a transport failure during discovery is returned", func(t *testing.T) {
		mp := &smartthings.MockProvider{}
		defer mp.AssertExpectations(t)

		mp.On("Devices", mock.Anything).Return([]smartthings.DeviceDescription(nil), assert.AnError)

		z := New(context.Background(), memory.New(), mp)

		err := z.Start()
		assert.Error(t, err)

		z.Stop()
	})
}

func TestSTDA_refreshDevice(t *testing.T) {
	t.Run("fetches a snapshot and folds it into the capability state", func(t *testing.T) {
		mp := &smartthings.MockProvider{}
		defer mp.AssertExpectations(t)

		mp.On("Devices", mock.Anything).Return([]smartthings.DeviceDescription{
			{DeviceID: "ac-1", Label: "Lounge AC", Capabilities: acDeviceCapabilities},
		}, nil)
		mp.On("Status", mock.Anything, "ac-1").Return(smartthings.Snapshot{
			smartthings.AttributeSwitch:             {Value: "on"},
			smartthings.AttributeAirConditionerMode: {Value: "cool"},
			smartthings.AttributeCoolingSetpoint:    {Value: 24.0},
		}, nil)

		z := New(context.Background(), memory.New(), mp)

		require.NoError(t, z.Start())
		defer z.Stop()

		d := z.getDevice("ac-1")
		require.NotNil(t, d)

		assert.True(t, z.refreshDevice(context.TODO(), d))

		cc, ok := d.Capability(capabilities.ClimateControlFlag).(capabilities.ClimateControl)
		require.True(t, ok)

		state, err := cc.State(context.TODO())
		require.NoError(t, err)
		assert.Equal(t, capabilities.ModeCool, state.Mode)
		require.NotNil(t, state.TargetTemperature)
		assert.Equal(t, 24.0, *state.TargetTemperature)
	})

	t.Run("a status fetch failure leaves the job scheduled", func(t *testing.T) {
		mp := &smartthings.MockProvider{}
		defer mp.AssertExpectations(t)

		mp.On("Devices", mock.Anything).Return([]smartthings.DeviceDescription{
			{DeviceID: "ac-1", Label: "Lounge AC", Capabilities: acDeviceCapabilities},
		}, nil)
		mp.On("Status", mock.Anything, "ac-1").Return(smartthings.Snapshot(nil), assert.AnError)

		z := New(context.Background(), memory.New(), mp)

		require.NoError(t, z.Start())
		defer z.Stop()

		d := z.getDevice("ac-1")
		require.NotNil(t, d)

		assert.True(t, z.refreshDevice(context.TODO(), d))
	})
}
