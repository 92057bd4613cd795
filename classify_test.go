package stda

import (
	"testing"

	"github.com/shimmeringbee/stda/implcaps/factory"
	"github.com/shimmeringbee/stda/smartthings"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Run("the air conditioner minimum set classifies as an air conditioner", func(t *testing.T) {
		p := Classify([]string{
			smartthings.CapabilityAirConditionerMode,
			smartthings.CapabilitySwitch,
			smartthings.CapabilityTemperatureMeasurement,
			smartthings.CapabilityThermostatCoolingSetpoint,
		})

		assert.Equal(t, ProfileAirConditioner, p)
	})

	t.Run("a set satisfying both profiles classifies as an air conditioner", func(t *testing.T) {
		p := Classify([]string{
			smartthings.CapabilityAirConditionerMode,
			smartthings.CapabilitySwitch,
			smartthings.CapabilityTemperatureMeasurement,
			smartthings.CapabilityThermostatCoolingSetpoint,
			smartthings.CapabilityThermostatHeatingSetpoint,
			smartthings.CapabilityThermostatMode,
		})

		assert.Equal(t, ProfileAirConditioner, p)
	})

	t.Run("the legacy thermostat capability alone classifies as a thermostat", func(t *testing.T) {
		assert.Equal(t, ProfileThermostat, Classify([]string{smartthings.CapabilityThermostat}))
	})

	t.Run("the split thermostat conjunction classifies as a thermostat", func(t *testing.T) {
		p := Classify([]string{
			smartthings.CapabilityTemperatureMeasurement,
			smartthings.CapabilityThermostatCoolingSetpoint,
			smartthings.CapabilityThermostatHeatingSetpoint,
			smartthings.CapabilityThermostatMode,
		})

		assert.Equal(t, ProfileThermostat, p)
	})

	t.Run("an incomplete conjunction is unsupported", func(t *testing.T) {
		p := Classify([]string{
			smartthings.CapabilityTemperatureMeasurement,
			smartthings.CapabilityThermostatCoolingSetpoint,
		})

		assert.Equal(t, ProfileUnsupported, p)
	})

	t.Run("an empty set is unsupported", func(t *testing.T) {
		assert.Equal(t, ProfileUnsupported, Classify(nil))
	})
}

func TestRelevantCapabilities(t *testing.T) {
	t.Run("returns the intersection with the interesting list for a classified device", func(t *testing.T) {
		relevant := RelevantCapabilities([]string{
			smartthings.CapabilityAirConditionerMode,
			smartthings.CapabilitySwitch,
			smartthings.CapabilityTemperatureMeasurement,
			smartthings.CapabilityThermostatCoolingSetpoint,
			"ocf",
			"refresh",
		})

		assert.ElementsMatch(t, []string{
			smartthings.CapabilityAirConditionerMode,
			smartthings.CapabilitySwitch,
			smartthings.CapabilityTemperatureMeasurement,
			smartthings.CapabilityThermostatCoolingSetpoint,
		}, relevant)
	})

	t.Run("returns nil for an unclassifiable device", func(t *testing.T) {
		assert.Nil(t, RelevantCapabilities([]string{"ocf", "refresh"}))
	})
}

func Test_implementationForProfile(t *testing.T) {
	t.Run("profiles map onto their capability implementations", func(t *testing.T) {
		assert.Equal(t, factory.SmartThingsThermostat, implementationForProfile(ProfileThermostat))
		assert.Equal(t, factory.SmartThingsAirConditioner, implementationForProfile(ProfileAirConditioner))
		assert.Equal(t, "", implementationForProfile(ProfileUnsupported))
	})
}
