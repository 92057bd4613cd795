package climate

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/persistence"
	"github.com/shimmeringbee/stda/capabilities"
	"github.com/shimmeringbee/stda/implcaps"
	"github.com/shimmeringbee/stda/quirks"
	"github.com/shimmeringbee/stda/smartthings"
	"golang.org/x/sync/errgroup"
)

var _ capabilities.ClimateControl = (*Thermostat)(nil)
var _ implcaps.STDACapability = (*Thermostat)(nil)
var _ da.BasicCapability = (*Thermostat)(nil)

func NewThermostat(zi implcaps.STDAInterface) *Thermostat {
	return &Thermostat{zi: zi, m: &sync.RWMutex{}}
}

// Thermostat adapts devices carrying the thermostat capability shape, either
// the legacy monolithic capability or the split mode/setpoint capabilities.
type Thermostat struct {
	s  persistence.Section
	d  da.Device
	zi implcaps.STDAInterface

	m          *sync.RWMutex
	state      capabilities.ClimateState
	vendorMode string
	deviceID   string
	caps       capabilitySet
	product    quirks.InputProductData
	features   capabilities.ControlFeature
}

func (t *Thermostat) Capability() da.Capability {
	return capabilities.ClimateControlFlag
}

func (t *Thermostat) Name() string {
	return capabilities.StandardNames[capabilities.ClimateControlFlag]
}

func (t *Thermostat) ImplName() string {
	return "SmartThingsThermostat"
}

func (t *Thermostat) Init(d da.Device, s persistence.Section) {
	t.d = d
	t.s = s
}

func (t *Thermostat) Load(_ context.Context) (bool, error) {
	t.m.Lock()
	defer t.m.Unlock()

	deviceID, found := t.s.String(implcaps.DataKeyDeviceID)
	if !found {
		return false, fmt.Errorf("thermostat load: no device id persisted")
	}

	t.deviceID = deviceID
	t.caps = loadCapabilities(t.s)
	t.product = loadProduct(t.s)
	t.features = thermostatFeatures(t.caps)

	return true, nil
}

func (t *Thermostat) Enumerate(_ context.Context, m map[string]any) (bool, error) {
	deviceID := implcaps.Get(m, implcaps.DataKeyDeviceID, "")
	if deviceID == "" {
		return false, fmt.Errorf("thermostat enumeration: no device id provided")
	}

	t.m.Lock()
	defer t.m.Unlock()

	t.deviceID = deviceID
	t.caps = newCapabilitySet(implcaps.GetStrings(m, implcaps.DataKeyCapabilities))
	t.product = quirks.InputProductData{
		Manufacturer: implcaps.Get(m, implcaps.DataKeyManufacturer, ""),
		Model:        implcaps.Get(m, implcaps.DataKeyModel, ""),
		Label:        implcaps.Get(m, implcaps.DataKeyLabel, ""),
	}
	t.features = thermostatFeatures(t.caps)

	t.s.Set(implcaps.DataKeyDeviceID, deviceID)
	persistCapabilities(t.s, t.caps)
	persistProduct(t.s, t.product)

	return true, nil
}

func (t *Thermostat) Detach(_ context.Context, _ implcaps.DetachType) error {
	return nil
}

// has reports whether a vendor capability is available; the legacy thermostat
// capability implies the whole split set.
func (t *Thermostat) has(c string) bool {
	return t.caps.Has(c) || t.caps.Has(smartthings.CapabilityThermostat)
}

func thermostatFeatures(caps capabilitySet) capabilities.ControlFeature {
	var f capabilities.ControlFeature

	legacy := caps.Has(smartthings.CapabilityThermostat)

	if legacy || caps.Has(smartthings.CapabilityThermostatHeatingSetpoint) || caps.Has(smartthings.CapabilityThermostatCoolingSetpoint) {
		f |= capabilities.TargetTemperatureFeature
	}

	if legacy || (caps.Has(smartthings.CapabilityThermostatHeatingSetpoint) && caps.Has(smartthings.CapabilityThermostatCoolingSetpoint)) {
		f |= capabilities.TemperatureRangeFeature
	}

	if legacy || caps.Has(smartthings.CapabilityThermostatFanMode) {
		f |= capabilities.FanModeFeature
	}

	return f
}

func (t *Thermostat) Refresh(ctx context.Context, snap smartthings.Snapshot) error {
	t.m.Lock()
	defer t.m.Unlock()

	ns := capabilities.ClimateState{Features: t.features}
	vendorMode := ""

	if t.has(smartthings.CapabilityThermostatMode) {
		if vm, ok := snap.String(smartthings.AttributeThermostatMode); ok {
			vendorMode = vm

			if um, found := thermostatModeToUnified[vm]; found {
				ns.Mode = um
			} else {
				t.zi.Logger().LogDebug(ctx, "Unrecognised vendor thermostat mode, leaving mode unset.", logwrap.Datum("VendorMode", vm))
			}
		}

		if supported, ok := snap.Strings(smartthings.AttributeSupportedThermostatModes); ok {
			for _, vm := range supported {
				um, found := thermostatModeToUnified[vm]
				if !found {
					t.zi.Logger().LogDebug(ctx, "Unrecognised vendor thermostat mode in supported list, skipping.", logwrap.Datum("VendorMode", vm))
					continue
				}

				if !containsMode(ns.Modes, um) {
					ns.Modes = append(ns.Modes, um)
				}
			}
		}
	}

	heatSP, heatOK := snap.Float(smartthings.AttributeHeatingSetpoint)
	heatOK = heatOK && t.has(smartthings.CapabilityThermostatHeatingSetpoint)
	coolSP, coolOK := snap.Float(smartthings.AttributeCoolingSetpoint)
	coolOK = coolOK && t.has(smartthings.CapabilityThermostatCoolingSetpoint)

	switch ns.Mode {
	case capabilities.ModeHeat:
		if heatOK {
			ns.TargetTemperature = &heatSP
		}
	case capabilities.ModeCool:
		if coolOK {
			ns.TargetTemperature = &coolSP
		}
	case capabilities.ModeHeatCool:
		// A range, not a point: the single target stays unset.
		if heatOK {
			ns.TargetTemperatureLow = &heatSP
		}
		if coolOK {
			ns.TargetTemperatureHigh = &coolSP
		}
	}

	if t.has(smartthings.CapabilityTemperatureMeasurement) {
		if v, ok := snap.Float(smartthings.AttributeTemperature); ok {
			ns.CurrentTemperature = &v
		}
		if u, ok := snap.Unit(smartthings.AttributeTemperature); ok {
			ns.Unit = unitFromString(u)
		}
	}

	if t.caps.Has(smartthings.CapabilityRelativeHumidityMeasurement) {
		if v, ok := snap.Float(smartthings.AttributeHumidity); ok {
			ns.CurrentHumidity = &v
		}
	}

	if t.has(smartthings.CapabilityThermostatOperatingState) {
		if os, ok := snap.String(smartthings.AttributeOperatingState); ok {
			if action, found := operatingStateToAction[os]; found {
				ns.Action = action
			} else {
				t.zi.Logger().LogDebug(ctx, "Unrecognised thermostat operating state.", logwrap.Datum("OperatingState", os))
			}
		}
	}

	if t.has(smartthings.CapabilityThermostatFanMode) {
		if fm, ok := snap.String(smartthings.AttributeThermostatFanMode); ok {
			ns.FanMode = fm
		}
		if fms, ok := snap.Strings(smartthings.AttributeSupportedThermostatFanModes); ok {
			ns.FanModes = fms
		}
	}

	if v, ok := snap.Float(smartthings.AttributeMinimumSetpoint); ok {
		ns.MinimumSetpoint = &v
	}
	if v, ok := snap.Float(smartthings.AttributeMaximumSetpoint); ok {
		ns.MaximumSetpoint = &v
	}

	changed := !reflect.DeepEqual(t.state, ns)

	t.state = ns
	t.vendorMode = vendorMode

	if changed {
		t.zi.SendEvent(capabilities.ClimateUpdate{Device: t.d, State: ns})
	}

	return nil
}

func (t *Thermostat) State(_ context.Context) (capabilities.ClimateState, error) {
	t.m.RLock()
	defer t.m.RUnlock()

	return t.state, nil
}

func (t *Thermostat) SetMode(ctx context.Context, mode capabilities.HVACMode) error {
	if !t.has(smartthings.CapabilityThermostatMode) {
		t.zi.Logger().LogWarn(ctx, "Set mode refused, device has no thermostat mode capability.")
		return capabilities.ErrNotSupported
	}

	vendor, found := unifiedToThermostatMode[mode]
	if !found {
		t.zi.Logger().LogWarn(ctx, "Set mode refused, no vendor translation.", logwrap.Datum("Mode", mode.String()))
		return capabilities.ErrModeNotSupported
	}

	_, err := t.zi.Transport().SetThermostatMode(ctx, t.deviceID, vendor)
	if err != nil {
		t.zi.Logger().LogError(ctx, "Failed to set thermostat mode.", logwrap.Datum("VendorMode", vendor), logwrap.Err(err))
	}

	t.m.Lock()
	t.state.Mode = mode
	t.vendorMode = vendor
	t.m.Unlock()

	return err
}

func (t *Thermostat) SetTemperature(ctx context.Context, req capabilities.TemperatureRequest) error {
	t.m.RLock()
	current := t.state.Mode
	t.m.RUnlock()

	effective := req.Mode
	if effective == capabilities.ModeUnknown {
		effective = current
	}

	vendorMode := ""
	if req.Mode != capabilities.ModeUnknown {
		if !t.has(smartthings.CapabilityThermostatMode) {
			t.zi.Logger().LogWarn(ctx, "Set temperature refused, mode change requested but device has no thermostat mode capability.")
			return capabilities.ErrNotSupported
		}

		var found bool
		if vendorMode, found = unifiedToThermostatMode[req.Mode]; !found {
			t.zi.Logger().LogWarn(ctx, "Set temperature refused, requested mode has no vendor translation.", logwrap.Datum("Mode", req.Mode.String()))
			return capabilities.ErrModeNotSupported
		}
	}

	var heatSet, coolSet *float64

	switch effective {
	case capabilities.ModeHeat:
		heatSet = req.Target
	case capabilities.ModeCool:
		coolSet = req.Target
	case capabilities.ModeHeatCool:
		if req.Target != nil {
			t.zi.Logger().LogWarn(ctx, "Set temperature refused, single point target is ambiguous in heat_cool mode.")
			return capabilities.ErrAmbiguousRequest
		}
		heatSet = req.Low
		coolSet = req.High
	default:
		if req.Target != nil || req.Low != nil || req.High != nil {
			t.zi.Logger().LogWarn(ctx, "Set temperature refused, no setpoint applies to the effective mode.", logwrap.Datum("Mode", effective.String()))
			return capabilities.ErrAmbiguousRequest
		}
	}

	if heatSet != nil && !t.has(smartthings.CapabilityThermostatHeatingSetpoint) {
		t.zi.Logger().LogWarn(ctx, "Set temperature refused, device has no heating setpoint capability.")
		return capabilities.ErrNotSupported
	}
	if coolSet != nil && !t.has(smartthings.CapabilityThermostatCoolingSetpoint) {
		t.zi.Logger().LogWarn(ctx, "Set temperature refused, device has no cooling setpoint capability.")
		return capabilities.ErrNotSupported
	}

	var g errgroup.Group

	if vendorMode != "" {
		g.Go(func() error {
			_, err := t.zi.Transport().SetThermostatMode(ctx, t.deviceID, vendorMode)
			return err
		})
	}

	var heatRounded, coolRounded float64

	if heatSet != nil {
		heatRounded = roundSetpoint(*heatSet)
		g.Go(func() error {
			_, err := t.zi.Transport().SetHeatingSetpoint(ctx, t.deviceID, heatRounded)
			return err
		})
	}

	if coolSet != nil {
		coolRounded = roundSetpoint(*coolSet)
		g.Go(func() error {
			_, err := t.zi.Transport().SetCoolingSetpoint(ctx, t.deviceID, coolRounded)
			return err
		})
	}

	err := g.Wait()
	if err != nil {
		t.zi.Logger().LogError(ctx, "Failed to set thermostat temperature.", logwrap.Err(err))
	}

	t.m.Lock()
	if req.Mode != capabilities.ModeUnknown {
		t.state.Mode = req.Mode
		t.vendorMode = vendorMode
	}

	switch effective {
	case capabilities.ModeHeat:
		if heatSet != nil {
			t.state.TargetTemperature = &heatRounded
		}
	case capabilities.ModeCool:
		if coolSet != nil {
			t.state.TargetTemperature = &coolRounded
		}
	case capabilities.ModeHeatCool:
		t.state.TargetTemperature = nil
		if heatSet != nil {
			t.state.TargetTemperatureLow = &heatRounded
		}
		if coolSet != nil {
			t.state.TargetTemperatureHigh = &coolRounded
		}
	}
	t.m.Unlock()

	return err
}

func (t *Thermostat) SetFanMode(ctx context.Context, mode string) error {
	if !t.has(smartthings.CapabilityThermostatFanMode) {
		t.zi.Logger().LogWarn(ctx, "Set fan mode refused, device has no thermostat fan mode capability.")
		return capabilities.ErrNotSupported
	}

	_, err := t.zi.Transport().SetThermostatFanMode(ctx, t.deviceID, mode)
	if err != nil {
		t.zi.Logger().LogError(ctx, "Failed to set thermostat fan mode.", logwrap.Datum("FanMode", mode), logwrap.Err(err))
	}

	t.m.Lock()
	t.state.FanMode = mode
	t.m.Unlock()

	return err
}

func (t *Thermostat) SetSwingMode(ctx context.Context, _ string) error {
	t.zi.Logger().LogWarn(ctx, "Set swing mode refused, thermostats have no swing control.")
	return capabilities.ErrNotSupported
}

func (t *Thermostat) SetPresetMode(ctx context.Context, _ string) error {
	t.zi.Logger().LogWarn(ctx, "Set preset mode refused, thermostats have no preset control.")
	return capabilities.ErrNotSupported
}

func (t *Thermostat) TurnOn(ctx context.Context) error {
	t.zi.Logger().LogWarn(ctx, "Turn on refused, thermostats have no power switch.")
	return capabilities.ErrNotSupported
}

func (t *Thermostat) TurnOff(ctx context.Context) error {
	t.zi.Logger().LogWarn(ctx, "Turn off refused, thermostats have no power switch.")
	return capabilities.ErrNotSupported
}

func containsMode(modes []capabilities.HVACMode, m capabilities.HVACMode) bool {
	for _, e := range modes {
		if e == m {
			return true
		}
	}

	return false
}
