package climate

import (
	"math"
	"strings"

	"github.com/shimmeringbee/stda/capabilities"
)

// Vendor mode tokens translate forward (vendor to unified) during refresh and
// in reverse (unified to vendor) during command construction. The forward maps
// are deliberately not injective, several vendor tokens collapse onto one
// unified mode. The reverse maps carry exactly one canonical vendor token per
// settable unified mode; a unified mode absent from the reverse map cannot be
// commanded on that profile.

var thermostatModeToUnified = map[string]capabilities.HVACMode{
	"auto":           capabilities.ModeHeatCool,
	"cool":           capabilities.ModeCool,
	"eco":            capabilities.ModeHeatCool,
	"rush hour":      capabilities.ModeHeatCool,
	"emergency heat": capabilities.ModeHeat,
	"heat":           capabilities.ModeHeat,
	"off":            capabilities.ModeOff,
	"wind":           capabilities.ModeFanOnly,
}

var unifiedToThermostatMode = map[capabilities.HVACMode]string{
	capabilities.ModeHeatCool: "auto",
	capabilities.ModeCool:     "cool",
	capabilities.ModeHeat:     "heat",
	capabilities.ModeOff:      "off",
	capabilities.ModeFanOnly:  "wind",
}

var acModeToUnified = map[string]capabilities.HVACMode{
	"auto":      capabilities.ModeHeatCool,
	"cool":      capabilities.ModeCool,
	"dry":       capabilities.ModeDry,
	"coolClean": capabilities.ModeCool,
	"dryClean":  capabilities.ModeDry,
	"heat":      capabilities.ModeHeat,
	"heatClean": capabilities.ModeHeat,
	"fanOnly":   capabilities.ModeFanOnly,
	"wind":      capabilities.ModeFanOnly,
}

var unifiedToAcMode = map[capabilities.HVACMode]string{
	capabilities.ModeHeatCool: "auto",
	capabilities.ModeCool:     "cool",
	capabilities.ModeDry:      "dry",
	capabilities.ModeHeat:     "heat",
	capabilities.ModeFanOnly:  "wind",
}

// Advisory only, thermostat profile. Unrecognised tokens yield ActionUnknown.
var operatingStateToAction = map[string]capabilities.HVACAction{
	"cooling":         capabilities.ActionCooling,
	"fan only":        capabilities.ActionFan,
	"heating":         capabilities.ActionHeating,
	"idle":            capabilities.ActionIdle,
	"pending cool":    capabilities.ActionCooling,
	"pending heat":    capabilities.ActionHeating,
	"vent economizer": capabilities.ActionFan,
}

func unitFromString(u string) capabilities.TemperatureUnit {
	switch u {
	case "C":
		return capabilities.UnitCelsius
	case "F":
		return capabilities.UnitFahrenheit
	default:
		return capabilities.UnitUnknown
	}
}

// Setpoint bounds advertised when the device does not report its own.
const (
	defaultMinimumSetpoint = 16.0
	defaultMaximumSetpoint = 30.0
)

// fallbackSwingModes is a placeholder default for devices which accept swing
// commands but do not report a supported list.
var fallbackSwingModes = []string{"fixed", "all", "vertical", "horizontal"}

// windFreePreset is hidden from the advertised preset list while the vendor
// AC mode is one of windFreeRestrictedModes. It remains settable.
const windFreePreset = "windFree"

var windFreeRestrictedModes = map[string]struct{}{
	"auto": {},
	"heat": {},
}

func restrictPresets(presets []string, vendorMode string) []string {
	if _, restricted := windFreeRestrictedModes[vendorMode]; !restricted {
		return presets
	}

	var out []string
	for _, p := range presets {
		if !strings.EqualFold(p, windFreePreset) {
			out = append(out, p)
		}
	}

	return out
}

// roundSetpoint clamps a requested temperature to the precision the service
// accepts, three decimal places.
func roundSetpoint(v float64) float64 {
	return math.Round(v*1000) / 1000
}
