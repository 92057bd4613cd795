package stda

import (
	"context"
	"testing"

	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/persistence/impl/memory"
	"github.com/shimmeringbee/stda/capabilities"
	"github.com/shimmeringbee/stda/implcaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSTDA_deviceTable(t *testing.T) {
	t.Run("creating a device stores it, persists its label and emits an event", func(t *testing.T) {
		z := New(context.Background(), memory.New(), nil)

		d, created := z.createDevice("dev-1", "Hallway Thermostat")
		assert.True(t, created)
		require.NotNil(t, d)

		e := readEvent(t, z)
		added, ok := e.(da.DeviceAdded)
		require.True(t, ok)
		assert.Equal(t, "dev-1", added.Device.Identifier().String())

		label, found := z.sectionForDevice("dev-1").String("Label")
		assert.True(t, found)
		assert.Equal(t, "Hallway Thermostat", label)

		assert.Same(t, d, z.getDevice("dev-1"))
	})

	t.Run("creating an existing device returns the original", func(t *testing.T) {
		z := New(context.Background(), memory.New(), nil)

		d1, created := z.createDevice("dev-1", "")
		require.True(t, created)

		d2, created := z.createDevice("dev-1", "")
		assert.False(t, created)
		assert.Same(t, d1, d2)
	})

	t.Run("attaching a capability records it and exposes it on the device", func(t *testing.T) {
		z := New(context.Background(), memory.New(), nil)

		d, _ := z.createDevice("dev-1", "")
		readEvent(t, z)

		mc := &implcaps.MockCapability{}
		defer mc.AssertExpectations(t)
		mc.On("Capability").Return(capabilities.ClimateControlFlag)
		mc.On("ImplName").Return("SmartThingsThermostat")

		z.attachCapabilityToDevice(d, mc)

		capAdded, ok := readEvent(t, z).(da.CapabilityAdded)
		require.True(t, ok)
		assert.Equal(t, capabilities.ClimateControlFlag, capAdded.Capability)

		assert.Contains(t, d.Capabilities(), capabilities.ClimateControlFlag)
		assert.NotNil(t, d.Capability(capabilities.ClimateControlFlag))

		impl, found := z.sectionForDevice("dev-1").Section("capability", capabilities.StandardNames[capabilities.ClimateControlFlag]).String("implementation")
		assert.True(t, found)
		assert.Equal(t, "SmartThingsThermostat", impl)
	})

	t.Run("removing a device detaches capabilities and emits removal events", func(t *testing.T) {
		z := New(context.Background(), memory.New(), nil)

		d, _ := z.createDevice("dev-1", "")
		readEvent(t, z)

		mc := &implcaps.MockCapability{}
		defer mc.AssertExpectations(t)
		mc.On("Capability").Return(capabilities.ClimateControlFlag)
		mc.On("ImplName").Return("SmartThingsThermostat")
		mc.On("Detach", mock.Anything, implcaps.DeviceRemoved).Return(nil)

		z.attachCapabilityToDevice(d, mc)
		readEvent(t, z)

		assert.True(t, z.removeDevice(context.TODO(), "dev-1"))

		capRemoved, ok := readEvent(t, z).(da.CapabilityRemoved)
		require.True(t, ok)
		assert.Equal(t, capabilities.ClimateControlFlag, capRemoved.Capability)

		removed, ok := readEvent(t, z).(da.DeviceRemoved)
		require.True(t, ok)
		assert.Equal(t, "dev-1", removed.Device.Identifier().String())

		assert.Nil(t, z.getDevice("dev-1"))
		assert.NotContains(t, z.section.Section("device").SectionKeys(), "dev-1")
	})

	t.Run("removing an unknown device reports false", func(t *testing.T) {
		z := New(context.Background(), memory.New(), nil)

		assert.False(t, z.removeDevice(context.TODO(), "dev-1"))
	})
}
