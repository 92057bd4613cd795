package stda

import (
	"fmt"

	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/stda/capabilities"
	"github.com/shimmeringbee/stda/quirks"
)

var _ da.Gateway = (*STDA)(nil)

func (z *STDA) Capability(_ da.Capability) interface{} {
	return nil
}

func (z *STDA) Capabilities() []da.Capability {
	return []da.Capability{capabilities.ClimateControlFlag}
}

func (z *STDA) Self() da.Device {
	return z.selfDevice
}

func (z *STDA) Devices() []da.Device {
	devices := []da.Device{z.selfDevice}

	for _, d := range z.getDevices() {
		devices = append(devices, d)
	}

	return devices
}

func (z *STDA) Start() error {
	z.selfDevice = da.BaseDevice{
		DeviceGateway:    z,
		DeviceIdentifier: DeviceIdentifier("stda-gateway"),
	}

	if z.quirks == nil {
		e, err := quirks.Default()
		if err != nil {
			z.logger.LogError(z.ctx, "Failed to load default quirk rules, continuing without.", logwrap.Err(err))
		} else {
			z.quirks = e
		}
	}

	z.poller.Start()
	z.providerLoad()

	if err := z.discoverDevices(z.ctx); err != nil {
		return fmt.Errorf("gateway start: %w", err)
	}

	return nil
}

func (z *STDA) Stop() error {
	z.cancel()
	z.poller.Stop()

	return nil
}
