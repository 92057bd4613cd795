package factory

import (
	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/stda/capabilities"
	"github.com/shimmeringbee/stda/implcaps"
	"github.com/shimmeringbee/stda/implcaps/climate"
)

const SmartThingsThermostat = "SmartThingsThermostat"
const SmartThingsAirConditioner = "SmartThingsAirConditioner"

var Mapping = map[string]da.Capability{
	SmartThingsThermostat:     capabilities.ClimateControlFlag,
	SmartThingsAirConditioner: capabilities.ClimateControlFlag,
}

func Create(name string, iface implcaps.STDAInterface) implcaps.STDACapability {
	switch name {
	case SmartThingsThermostat:
		return climate.NewThermostat(iface)
	case SmartThingsAirConditioner:
		return climate.NewAirConditioner(iface)
	default:
		return nil
	}
}
