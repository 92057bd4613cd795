package stda

import (
	"github.com/shimmeringbee/stda/implcaps/factory"
	"github.com/shimmeringbee/stda/smartthings"
)

// Profile is the control shape of a device, derived once from its declared
// capability set and never recomputed.
type Profile uint8

const (
	ProfileUnsupported Profile = iota
	ProfileThermostat
	ProfileAirConditioner
)

func (p Profile) String() string {
	switch p {
	case ProfileThermostat:
		return "Thermostat"
	case ProfileAirConditioner:
		return "AirConditioner"
	default:
		return "Unsupported"
	}
}

// Fan mode control is deliberately not part of the minimum set, many air
// conditioner shaped devices omit it.
var airConditionerMinimumCapabilities = []string{
	smartthings.CapabilityAirConditionerMode,
	smartthings.CapabilitySwitch,
	smartthings.CapabilityTemperatureMeasurement,
	smartthings.CapabilityThermostatCoolingSetpoint,
}

var thermostatConjunctionCapabilities = []string{
	smartthings.CapabilityTemperatureMeasurement,
	smartthings.CapabilityThermostatCoolingSetpoint,
	smartthings.CapabilityThermostatHeatingSetpoint,
	smartthings.CapabilityThermostatMode,
}

var interestingCapabilities = []string{
	smartthings.CapabilityAirConditionerMode,
	smartthings.CapabilityAirConditionerFanMode,
	smartthings.CapabilitySwitch,
	smartthings.CapabilityFanOscillationMode,
	smartthings.CapabilityTemperatureMeasurement,
	smartthings.CapabilityThermostat,
	smartthings.CapabilityThermostatCoolingSetpoint,
	smartthings.CapabilityThermostatFanMode,
	smartthings.CapabilityThermostatHeatingSetpoint,
	smartthings.CapabilityThermostatMode,
	smartthings.CapabilityThermostatOperatingState,
	smartthings.CapabilityRelativeHumidityMeasurement,
	smartthings.CapabilityExecute,
	smartthings.CapabilityOptionalMode,
	smartthings.CapabilitySetpointControl,
	smartthings.CapabilityDustFilter,
}

// Classify decides which control profile a capability set supports. A set
// satisfying both profiles is an air conditioner, it is tested first.
func Classify(caps []string) Profile {
	present := make(map[string]struct{}, len(caps))
	for _, c := range caps {
		present[c] = struct{}{}
	}

	if containsAll(present, airConditionerMinimumCapabilities) {
		return ProfileAirConditioner
	}

	if _, legacy := present[smartthings.CapabilityThermostat]; legacy {
		return ProfileThermostat
	}

	if containsAll(present, thermostatConjunctionCapabilities) {
		return ProfileThermostat
	}

	return ProfileUnsupported
}

// RelevantCapabilities filters a capability set down to the subset that
// matters to climate control, for diagnostics. It returns nil when the set
// matches neither profile.
func RelevantCapabilities(caps []string) []string {
	if Classify(caps) == ProfileUnsupported {
		return nil
	}

	present := make(map[string]struct{}, len(caps))
	for _, c := range caps {
		present[c] = struct{}{}
	}

	var relevant []string
	for _, c := range interestingCapabilities {
		if _, found := present[c]; found {
			relevant = append(relevant, c)
		}
	}

	return relevant
}

func implementationForProfile(p Profile) string {
	switch p {
	case ProfileThermostat:
		return factory.SmartThingsThermostat
	case ProfileAirConditioner:
		return factory.SmartThingsAirConditioner
	default:
		return ""
	}
}

func containsAll(present map[string]struct{}, required []string) bool {
	for _, r := range required {
		if _, found := present[r]; !found {
			return false
		}
	}

	return true
}
