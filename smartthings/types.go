package smartthings

// Capability identifiers, as declared by devices. Only the set relevant to
// climate control is named here.
const (
	CapabilityAirConditionerMode          = "airConditionerMode"
	CapabilityAirConditionerFanMode       = "airConditionerFanMode"
	CapabilityFanOscillationMode          = "fanOscillationMode"
	CapabilitySwitch                      = "switch"
	CapabilityTemperatureMeasurement      = "temperatureMeasurement"
	CapabilityThermostat                  = "thermostat"
	CapabilityThermostatCoolingSetpoint   = "thermostatCoolingSetpoint"
	CapabilityThermostatFanMode           = "thermostatFanMode"
	CapabilityThermostatHeatingSetpoint   = "thermostatHeatingSetpoint"
	CapabilityThermostatMode              = "thermostatMode"
	CapabilityThermostatOperatingState    = "thermostatOperatingState"
	CapabilityExecute                     = "execute"
	CapabilityOptionalMode                = "custom.airConditionerOptionalMode"
	CapabilitySetpointControl             = "custom.thermostatSetpointControl"
	CapabilityRelativeHumidityMeasurement = "relativeHumidityMeasurement"
	CapabilityDustFilter                  = "samsungce.dustFilter"
)

// Attribute names within a device status snapshot.
const (
	AttributeThermostatMode               = "thermostatMode"
	AttributeSupportedThermostatModes     = "supportedThermostatModes"
	AttributeAirConditionerMode           = "airConditionerMode"
	AttributeSupportedAcModes             = "supportedAcModes"
	AttributeSwitch                       = "switch"
	AttributeTemperature                  = "temperature"
	AttributeHumidity                     = "humidity"
	AttributeCoolingSetpoint              = "coolingSetpoint"
	AttributeHeatingSetpoint              = "heatingSetpoint"
	AttributeThermostatFanMode            = "thermostatFanMode"
	AttributeSupportedThermostatFanModes  = "supportedThermostatFanModes"
	AttributeFanMode                      = "fanMode"
	AttributeSupportedAcFanModes          = "supportedAcFanModes"
	AttributeFanOscillationMode           = "fanOscillationMode"
	AttributeSupportedFanOscillationModes = "supportedFanOscillationModes"
	AttributeOptionalMode                 = "acOptionalMode"
	AttributeSupportedOptionalModes       = "supportedAcOptionalMode"
	AttributeOperatingState               = "thermostatOperatingState"
	AttributeMinimumSetpoint              = "minimumSetpoint"
	AttributeMaximumSetpoint              = "maximumSetpoint"
	AttributeModel                        = "mnmo"
)

// SwitchOnValue and SwitchOffValue are the wire values of the switch
// attribute.
const (
	SwitchOnValue  = "on"
	SwitchOffValue = "off"
)

// Attribute is one entry of a device status snapshot: a raw value and an
// optional unit.
type Attribute struct {
	Value any
	Unit  string
}

// Snapshot is a flattened read only view of a device's status, keyed by
// attribute name. All accessors return false when the attribute is absent or
// of an unexpected shape; callers treat that as unset, never as a zero value.
type Snapshot map[string]Attribute

func (s Snapshot) String(name string) (string, bool) {
	if a, ok := s[name]; ok {
		if v, ok := a.Value.(string); ok {
			return v, true
		}
	}

	return "", false
}

func (s Snapshot) Float(name string) (float64, bool) {
	a, ok := s[name]
	if !ok {
		return 0, false
	}

	switch v := a.Value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func (s Snapshot) Strings(name string) ([]string, bool) {
	a, ok := s[name]
	if !ok {
		return nil, false
	}

	switch v := a.Value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))

		for _, e := range v {
			sV, ok := e.(string)
			if !ok {
				return nil, false
			}

			out = append(out, sV)
		}

		return out, true
	default:
		return nil, false
	}
}

func (s Snapshot) Unit(name string) (string, bool) {
	if a, ok := s[name]; ok && a.Unit != "" {
		return a.Unit, true
	}

	return "", false
}

// DeviceDescription identifies one device known to the cloud service, with
// its declared capability set flattened across components.
type DeviceDescription struct {
	DeviceID     string
	Label        string
	Capabilities []string
}
