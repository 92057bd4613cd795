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

var _ capabilities.ClimateControl = (*AirConditioner)(nil)
var _ implcaps.STDACapability = (*AirConditioner)(nil)
var _ da.BasicCapability = (*AirConditioner)(nil)

func NewAirConditioner(zi implcaps.STDAInterface) *AirConditioner {
	return &AirConditioner{zi: zi, m: &sync.RWMutex{}}
}

// AirConditioner adapts room air conditioner shaped devices. The profile has
// a power switch and a single effective setpoint; the switch attribute takes
// precedence over the vendor mode attribute when deriving the unified mode.
type AirConditioner struct {
	s  persistence.Section
	d  da.Device
	zi implcaps.STDAInterface

	m           *sync.RWMutex
	state       capabilities.ClimateState
	vendorMode  string
	vendorModes []string
	switchOn    bool
	deviceID    string
	caps        capabilitySet
	product     quirks.InputProductData
}

func (a *AirConditioner) Capability() da.Capability {
	return capabilities.ClimateControlFlag
}

func (a *AirConditioner) Name() string {
	return capabilities.StandardNames[capabilities.ClimateControlFlag]
}

func (a *AirConditioner) ImplName() string {
	return "SmartThingsAirConditioner"
}

func (a *AirConditioner) Init(d da.Device, s persistence.Section) {
	a.d = d
	a.s = s
}

func (a *AirConditioner) Load(_ context.Context) (bool, error) {
	a.m.Lock()
	defer a.m.Unlock()

	deviceID, found := a.s.String(implcaps.DataKeyDeviceID)
	if !found {
		return false, fmt.Errorf("air conditioner load: no device id persisted")
	}

	a.deviceID = deviceID
	a.caps = loadCapabilities(a.s)
	a.product = loadProduct(a.s)

	return true, nil
}

func (a *AirConditioner) Enumerate(_ context.Context, m map[string]any) (bool, error) {
	deviceID := implcaps.Get(m, implcaps.DataKeyDeviceID, "")
	if deviceID == "" {
		return false, fmt.Errorf("air conditioner enumeration: no device id provided")
	}

	a.m.Lock()
	defer a.m.Unlock()

	a.deviceID = deviceID
	a.caps = newCapabilitySet(implcaps.GetStrings(m, implcaps.DataKeyCapabilities))
	a.product = quirks.InputProductData{
		Manufacturer: implcaps.Get(m, implcaps.DataKeyManufacturer, ""),
		Model:        implcaps.Get(m, implcaps.DataKeyModel, ""),
		Label:        implcaps.Get(m, implcaps.DataKeyLabel, ""),
	}

	a.s.Set(implcaps.DataKeyDeviceID, deviceID)
	persistCapabilities(a.s, a.caps)
	persistProduct(a.s, a.product)

	return true, nil
}

func (a *AirConditioner) Detach(_ context.Context, _ implcaps.DetachType) error {
	return nil
}

// quirkInput is called with the lock held.
func (a *AirConditioner) quirkInput() quirks.Input {
	return quirks.Input{Product: a.product}
}

// features is called with the lock held; preset support can arrive late, the
// model identifier is only learnt from the first status snapshot.
func (a *AirConditioner) features(advertised []string) capabilities.ControlFeature {
	var f capabilities.ControlFeature

	if a.caps.Has(smartthings.CapabilityThermostatCoolingSetpoint) {
		f |= capabilities.TargetTemperatureFeature
	}

	if a.caps.Has(smartthings.CapabilityAirConditionerFanMode) {
		f |= capabilities.FanModeFeature
	}

	if a.caps.Has(smartthings.CapabilityFanOscillationMode) {
		f |= capabilities.SwingModeFeature
	}

	if a.caps.Has(smartthings.CapabilityOptionalMode) || (a.caps.Has(smartthings.CapabilityExecute) && len(advertised) > 0) {
		f |= capabilities.PresetModeFeature
	}

	return f
}

func (a *AirConditioner) Refresh(ctx context.Context, snap smartthings.Snapshot) error {
	a.m.Lock()
	defer a.m.Unlock()

	if model, ok := modelFromSnapshot(snap); ok && model != a.product.Model {
		a.product.Model = model
		persistProduct(a.s, a.product)
	}

	advertised := a.zi.Quirks().AdvertisedPresets(a.quirkInput())

	ns := capabilities.ClimateState{Features: a.features(advertised)}

	vendorMode, _ := snap.String(smartthings.AttributeAirConditionerMode)
	switchValue, switchOK := snap.String(smartthings.AttributeSwitch)
	switchOn := !switchOK || switchValue != smartthings.SwitchOffValue

	if !switchOn {
		// Switch state takes precedence over the mode attribute.
		ns.Mode = capabilities.ModeOff
	} else if vendorMode != "" {
		if um, found := acModeToUnified[vendorMode]; found {
			ns.Mode = um
		} else {
			a.zi.Logger().LogDebug(ctx, "Unrecognised vendor air conditioner mode, leaving mode unset.", logwrap.Datum("VendorMode", vendorMode))
		}
	}

	vendorModes, _ := snap.Strings(smartthings.AttributeSupportedAcModes)
	for _, vm := range vendorModes {
		um, found := acModeToUnified[vm]
		if !found {
			a.zi.Logger().LogDebug(ctx, "Unrecognised vendor air conditioner mode in supported list, skipping.", logwrap.Datum("VendorMode", vm))
			continue
		}

		if !containsMode(ns.Modes, um) {
			ns.Modes = append(ns.Modes, um)
		}
	}

	// The power switch makes off reachable regardless of the reported list.
	if !containsMode(ns.Modes, capabilities.ModeOff) {
		ns.Modes = append(ns.Modes, capabilities.ModeOff)
	}

	if a.caps.Has(smartthings.CapabilityThermostatCoolingSetpoint) {
		if v, ok := snap.Float(smartthings.AttributeCoolingSetpoint); ok {
			ns.TargetTemperature = &v
		}
	}

	if a.caps.Has(smartthings.CapabilityTemperatureMeasurement) {
		if v, ok := snap.Float(smartthings.AttributeTemperature); ok {
			ns.CurrentTemperature = &v
		}
		if u, ok := snap.Unit(smartthings.AttributeTemperature); ok {
			ns.Unit = unitFromString(u)
		}
	}

	if a.caps.Has(smartthings.CapabilityRelativeHumidityMeasurement) {
		if v, ok := snap.Float(smartthings.AttributeHumidity); ok {
			ns.CurrentHumidity = &v
		}
	}

	minSP := defaultMinimumSetpoint
	maxSP := defaultMaximumSetpoint
	if v, ok := snap.Float(smartthings.AttributeMinimumSetpoint); ok {
		minSP = v
	}
	if v, ok := snap.Float(smartthings.AttributeMaximumSetpoint); ok {
		maxSP = v
	}
	ns.MinimumSetpoint = &minSP
	ns.MaximumSetpoint = &maxSP

	if a.caps.Has(smartthings.CapabilityAirConditionerFanMode) {
		if fm, ok := snap.String(smartthings.AttributeFanMode); ok {
			ns.FanMode = fm
		}
		if fms, ok := snap.Strings(smartthings.AttributeSupportedAcFanModes); ok {
			ns.FanModes = fms
		}
	}

	if a.caps.Has(smartthings.CapabilityFanOscillationMode) {
		if sm, ok := snap.String(smartthings.AttributeFanOscillationMode); ok {
			ns.SwingMode = sm
		}
		if sms, ok := snap.Strings(smartthings.AttributeSupportedFanOscillationModes); ok && len(sms) > 0 {
			ns.SwingModes = sms
		} else {
			ns.SwingModes = fallbackSwingModes
		}
	}

	var presets []string
	if a.caps.Has(smartthings.CapabilityOptionalMode) {
		if pm, ok := snap.String(smartthings.AttributeOptionalMode); ok {
			ns.PresetMode = pm
		}

		supported, _ := snap.Strings(smartthings.AttributeSupportedOptionalModes)
		// A bare ["off"] list means the device has no real optional modes.
		if len(supported) != 1 || supported[0] != "off" {
			presets = append(presets, supported...)
		}
	}
	if a.caps.Has(smartthings.CapabilityExecute) {
		presets = appendMissing(presets, advertised)
	}
	ns.PresetModes = restrictPresets(presets, vendorMode)

	changed := !reflect.DeepEqual(a.state, ns)

	a.state = ns
	a.vendorMode = vendorMode
	a.vendorModes = vendorModes
	a.switchOn = switchOn

	if changed {
		a.zi.SendEvent(capabilities.ClimateUpdate{Device: a.d, State: ns})
	}

	return nil
}

func (a *AirConditioner) State(_ context.Context) (capabilities.ClimateState, error) {
	a.m.RLock()
	defer a.m.RUnlock()

	return a.state, nil
}

func (a *AirConditioner) SetMode(ctx context.Context, mode capabilities.HVACMode) error {
	if mode == capabilities.ModeOff {
		return a.TurnOff(ctx)
	}

	if !a.caps.Has(smartthings.CapabilityAirConditionerMode) {
		a.zi.Logger().LogWarn(ctx, "Set mode refused, device has no air conditioner mode capability.")
		return capabilities.ErrNotSupported
	}

	vendor, found := unifiedToAcMode[mode]
	if !found {
		a.zi.Logger().LogWarn(ctx, "Set mode refused, no vendor translation.", logwrap.Datum("Mode", mode.String()))
		return capabilities.ErrModeNotSupported
	}

	a.m.RLock()
	off := !a.switchOn
	reported := a.vendorModes
	a.m.RUnlock()

	// Devices under-report their supported modes, so a miss is advisory.
	if len(reported) > 0 && !containsFold(reported, vendor) {
		a.zi.Logger().LogWarn(ctx, "Requested mode is not in the device's reported supported modes, proceeding anyway.", logwrap.Datum("VendorMode", vendor))
	}

	var g errgroup.Group

	if off && a.caps.Has(smartthings.CapabilitySwitch) {
		g.Go(func() error {
			_, err := a.zi.Transport().SwitchOn(ctx, a.deviceID)
			return err
		})
	}

	g.Go(func() error {
		_, err := a.zi.Transport().SetAirConditionerMode(ctx, a.deviceID, vendor)
		return err
	})

	err := g.Wait()
	if err != nil {
		a.zi.Logger().LogError(ctx, "Failed to set air conditioner mode.", logwrap.Datum("VendorMode", vendor), logwrap.Err(err))
	}

	a.m.Lock()
	a.state.Mode = mode
	a.vendorMode = vendor
	a.switchOn = true
	a.m.Unlock()

	return err
}

func (a *AirConditioner) SetTemperature(ctx context.Context, req capabilities.TemperatureRequest) error {
	if req.Low != nil || req.High != nil {
		a.zi.Logger().LogWarn(ctx, "Set temperature refused, air conditioners have a single setpoint.")
		return capabilities.ErrAmbiguousRequest
	}

	if req.Target != nil && !a.caps.Has(smartthings.CapabilityThermostatCoolingSetpoint) {
		a.zi.Logger().LogWarn(ctx, "Set temperature refused, device has no cooling setpoint capability.")
		return capabilities.ErrNotSupported
	}

	if req.Mode != capabilities.ModeUnknown && req.Mode != capabilities.ModeOff {
		if _, found := unifiedToAcMode[req.Mode]; !found {
			a.zi.Logger().LogWarn(ctx, "Set temperature refused, requested mode has no vendor translation.", logwrap.Datum("Mode", req.Mode.String()))
			return capabilities.ErrModeNotSupported
		}
	}

	var g errgroup.Group

	if req.Mode != capabilities.ModeUnknown {
		g.Go(func() error {
			return a.SetMode(ctx, req.Mode)
		})
	}

	var rounded float64

	if req.Target != nil {
		rounded = roundSetpoint(*req.Target)
		g.Go(func() error {
			_, err := a.zi.Transport().SetCoolingSetpoint(ctx, a.deviceID, rounded)
			return err
		})
	}

	err := g.Wait()
	if err != nil {
		a.zi.Logger().LogError(ctx, "Failed to set air conditioner temperature.", logwrap.Err(err))
	}

	if req.Target != nil {
		a.m.Lock()
		a.state.TargetTemperature = &rounded
		a.m.Unlock()
	}

	return err
}

func (a *AirConditioner) SetFanMode(ctx context.Context, mode string) error {
	if !a.caps.Has(smartthings.CapabilityAirConditionerFanMode) {
		a.zi.Logger().LogWarn(ctx, "Set fan mode refused, device has no air conditioner fan mode capability.")
		return capabilities.ErrNotSupported
	}

	_, err := a.zi.Transport().SetAirConditionerFanMode(ctx, a.deviceID, mode)
	if err != nil {
		a.zi.Logger().LogError(ctx, "Failed to set air conditioner fan mode.", logwrap.Datum("FanMode", mode), logwrap.Err(err))
	}

	a.m.Lock()
	a.state.FanMode = mode
	a.m.Unlock()

	return err
}

func (a *AirConditioner) SetSwingMode(ctx context.Context, mode string) error {
	if !a.caps.Has(smartthings.CapabilityFanOscillationMode) {
		a.zi.Logger().LogWarn(ctx, "Set swing mode refused, device has no fan oscillation capability.")
		return capabilities.ErrNotSupported
	}

	_, err := a.zi.Transport().Command(ctx, a.deviceID, "main", smartthings.CapabilityFanOscillationMode, "setFanOscillationMode", []any{mode})
	if err != nil {
		a.zi.Logger().LogError(ctx, "Failed to set air conditioner swing mode.", logwrap.Datum("SwingMode", mode), logwrap.Err(err))
	}

	a.m.Lock()
	a.state.SwingMode = mode
	a.m.Unlock()

	return err
}

func (a *AirConditioner) SetPresetMode(ctx context.Context, preset string) error {
	a.m.RLock()
	input := a.quirkInput()
	a.m.RUnlock()

	var err error

	if cmd, found := a.zi.Quirks().PresetCommand(input, preset); found && a.caps.Has(smartthings.CapabilityExecute) {
		// A quirk match short-circuits the standard preset command.
		_, err = a.zi.Transport().Execute(ctx, a.deviceID, cmd.Path, cmd.Arguments)
	} else if a.caps.Has(smartthings.CapabilityOptionalMode) {
		_, err = a.zi.Transport().Command(ctx, a.deviceID, "main", smartthings.CapabilityOptionalMode, "setAcOptionalMode", []any{preset})
	} else {
		a.zi.Logger().LogWarn(ctx, "Set preset mode refused, device has no optional mode capability.", logwrap.Datum("Preset", preset))
		return capabilities.ErrNotSupported
	}

	if err != nil {
		a.zi.Logger().LogError(ctx, "Failed to set air conditioner preset mode.", logwrap.Datum("Preset", preset), logwrap.Err(err))
	}

	a.m.Lock()
	a.state.PresetMode = preset
	a.m.Unlock()

	return err
}

func (a *AirConditioner) TurnOn(ctx context.Context) error {
	if !a.caps.Has(smartthings.CapabilitySwitch) {
		a.zi.Logger().LogWarn(ctx, "Turn on refused, device has no switch capability.")
		return capabilities.ErrNotSupported
	}

	_, err := a.zi.Transport().SwitchOn(ctx, a.deviceID)
	if err != nil {
		a.zi.Logger().LogError(ctx, "Failed to switch air conditioner on.", logwrap.Err(err))
	}

	a.m.Lock()
	a.switchOn = true
	if um, found := acModeToUnified[a.vendorMode]; found {
		a.state.Mode = um
	}
	a.m.Unlock()

	return err
}

func (a *AirConditioner) TurnOff(ctx context.Context) error {
	if !a.caps.Has(smartthings.CapabilitySwitch) {
		a.zi.Logger().LogWarn(ctx, "Turn off refused, device has no switch capability.")
		return capabilities.ErrNotSupported
	}

	_, err := a.zi.Transport().SwitchOff(ctx, a.deviceID)
	if err != nil {
		a.zi.Logger().LogError(ctx, "Failed to switch air conditioner off.", logwrap.Err(err))
	}

	a.m.Lock()
	a.switchOn = false
	a.state.Mode = capabilities.ModeOff
	a.m.Unlock()

	return err
}
