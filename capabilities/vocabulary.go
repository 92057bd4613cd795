package capabilities

// HVACMode is the unified operating mode vocabulary. Vendor mode tokens are
// translated to and from this set by the profile implementations; ModeUnknown
// is the zero value and marks a field that could not be derived from the
// device's reported state.
type HVACMode uint8

const (
	ModeUnknown HVACMode = iota
	ModeOff
	ModeHeat
	ModeCool
	ModeHeatCool
	ModeDry
	ModeFanOnly
)

var modeNames = map[HVACMode]string{
	ModeUnknown:  "unknown",
	ModeOff:      "off",
	ModeHeat:     "heat",
	ModeCool:     "cool",
	ModeHeatCool: "heat_cool",
	ModeDry:      "dry",
	ModeFanOnly:  "fan_only",
}

func (m HVACMode) String() string {
	if n, ok := modeNames[m]; ok {
		return n
	}

	return "unknown"
}

// HVACAction is the unified running state, advisory only. Devices without an
// operating state report ActionUnknown.
type HVACAction uint8

const (
	ActionUnknown HVACAction = iota
	ActionIdle
	ActionHeating
	ActionCooling
	ActionFan
)

var actionNames = map[HVACAction]string{
	ActionUnknown: "unknown",
	ActionIdle:    "idle",
	ActionHeating: "heating",
	ActionCooling: "cooling",
	ActionFan:     "fan",
}

func (a HVACAction) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}

	return "unknown"
}

// TemperatureUnit is the unit the device reports temperatures in.
type TemperatureUnit uint8

const (
	UnitUnknown TemperatureUnit = iota
	UnitCelsius
	UnitFahrenheit
)

func (u TemperatureUnit) String() string {
	switch u {
	case UnitCelsius:
		return "C"
	case UnitFahrenheit:
		return "F"
	default:
		return "unknown"
	}
}

// ControlFeature is a bitset of the climate controls a device exposes, derived
// once from its declared capability set.
type ControlFeature uint8

const (
	TargetTemperatureFeature ControlFeature = 1 << iota
	TemperatureRangeFeature
	FanModeFeature
	SwingModeFeature
	PresetModeFeature
)
