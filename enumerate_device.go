package stda

import (
	"context"
	"fmt"
	"time"

	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/stda/capabilities"
	"github.com/shimmeringbee/stda/implcaps"
	"github.com/shimmeringbee/stda/implcaps/factory"
	"github.com/shimmeringbee/stda/smartthings"
)

// DefaultPollingInterval is the refresh cadence used when a device has no
// PollingIntervalMilliseconds configured in persistence.
const DefaultPollingInterval = 30 * time.Second

func (z *STDA) discoverDevices(pctx context.Context) error {
	ctx, end := z.logger.Segment(pctx, "Discovering devices.")
	defer end()

	descriptions, err := z.provider.Devices(ctx)
	if err != nil {
		z.logger.LogError(ctx, "Failed to list devices from the cloud service.", logwrap.Err(err))
		return fmt.Errorf("device discovery: %w", err)
	}

	seen := make(map[DeviceIdentifier]struct{}, len(descriptions))

	for _, desc := range descriptions {
		profile := Classify(desc.Capabilities)
		if profile == ProfileUnsupported {
			// Expected, most devices on an account are not climate devices.
			z.logger.LogDebug(ctx, "Skipping device which matches no climate profile.", logwrap.Datum("Identifier", desc.DeviceID), logwrap.Datum("Label", desc.Label))
			continue
		}

		seen[DeviceIdentifier(desc.DeviceID)] = struct{}{}
		z.enumerateDevice(ctx, desc, profile)
	}

	for _, d := range z.getDevices() {
		if _, found := seen[d.address]; !found {
			z.logger.LogInfo(ctx, "Removing device no longer present on the account.", logwrap.Datum("Identifier", d.address.String()))
			z.removeDevice(ctx, d.address)
		}
	}

	return nil
}

func (z *STDA) enumerateDevice(pctx context.Context, desc smartthings.DeviceDescription, profile Profile) {
	ctx, end := z.logger.Segment(pctx, "Enumerating device.", logwrap.Datum("Identifier", desc.DeviceID), logwrap.Datum("Profile", profile.String()))
	defer end()

	id := DeviceIdentifier(desc.DeviceID)
	d, created := z.createDevice(id, desc.Label)

	implName := implementationForProfile(profile)

	attributes := map[string]any{
		implcaps.DataKeyDeviceID:     desc.DeviceID,
		implcaps.DataKeyCapabilities: desc.Capabilities,
		implcaps.DataKeyLabel:        desc.Label,
	}

	existing, _ := d.Capability(capabilities.ClimateControlFlag).(implcaps.STDACapability)

	if existing != nil && existing.ImplName() != implName {
		z.logger.LogInfo(ctx, "Device profile has changed, detaching previous implementation.", logwrap.Datum("previous", existing.ImplName()), logwrap.Datum("next", implName))

		if err := existing.Detach(ctx, implcaps.NoLongerEnumerated); err != nil {
			z.logger.LogWarn(ctx, "Error thrown while detaching capability.", logwrap.Err(err))
		}

		z.detachCapabilityFromDevice(d, existing)
		existing = nil
	}

	if existing == nil {
		capI := factory.Create(implName, z.zi)
		if capI == nil {
			z.logger.LogError(ctx, "Could not find capability implementation.", logwrap.Datum("implementation", implName))
			return
		}

		capSection := z.sectionForDevice(id).Section("capability", capabilities.StandardNames[capabilities.ClimateControlFlag])
		capSection.Set("implementation", implName)
		capI.Init(d, capSection.Section("data"))

		z.enumerateCapability(ctx, d, capI, attributes)
	} else {
		z.enumerateCapability(ctx, d, existing, attributes)
	}

	if created {
		z.poller.Add(id, z.pollingIntervalForDevice(id), z.refreshDevice)
	}
}

func (z *STDA) enumerateCapability(ctx context.Context, d *device, capI implcaps.STDACapability, attributes map[string]any) {
	attached, err := capI.Enumerate(ctx, attributes)
	if err != nil {
		z.logger.LogError(ctx, "Error while enumerating capability.", logwrap.Err(err), logwrap.Datum("implementation", capI.ImplName()))
	}

	if attached {
		if d.Capability(capI.Capability()) == nil {
			z.attachCapabilityToDevice(d, capI)
		}
	} else {
		z.logger.LogWarn(ctx, "Capability rejected attachment.", logwrap.Datum("implementation", capI.ImplName()))

		if err := capI.Detach(ctx, implcaps.FailedAttach); err != nil {
			z.logger.LogWarn(ctx, "Error thrown while detaching capability.", logwrap.Err(err))
		}

		if existing, ok := d.Capability(capI.Capability()).(implcaps.STDACapability); ok && existing == capI {
			z.detachCapabilityFromDevice(d, capI)
		}
	}
}

func (z *STDA) pollingIntervalForDevice(id DeviceIdentifier) time.Duration {
	if ms, found := z.sectionForDevice(id).Int("PollingIntervalMilliseconds"); found && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}

	return z.pollInterval
}

func (z *STDA) refreshDevice(pctx context.Context, d *device) bool {
	if !d.refreshSem.TryAcquire(1) {
		z.logger.LogDebug(pctx, "Refresh already in progress, skipping.", logwrap.Datum("Identifier", d.address.String()))
		return true
	}
	defer d.refreshSem.Release(1)

	ctx, end := z.logger.Segment(pctx, "Refreshing device.", logwrap.Datum("Identifier", d.address.String()))
	defer end()

	snap, err := z.provider.Status(ctx, d.address.String())
	if err != nil {
		z.logger.LogWarn(ctx, "Failed to fetch device status.", logwrap.Err(err))
		return true
	}

	for _, capI := range d.capabilityList() {
		if err := capI.Refresh(ctx, snap); err != nil {
			z.logger.LogWarn(ctx, "Capability refresh failed.", logwrap.Datum("implementation", capI.ImplName()), logwrap.Err(err))
		}
	}

	return true
}
