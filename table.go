package stda

import (
	"context"
	"sync"

	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/stda/capabilities"
	"github.com/shimmeringbee/stda/implcaps"
	"golang.org/x/sync/semaphore"
)

func (z *STDA) createDevice(addr DeviceIdentifier, label string) (*device, bool) {
	z.deviceLock.Lock()
	defer z.deviceLock.Unlock()

	d, found := z.device[addr]
	if found {
		return d, false
	}

	d = &device{
		address:      addr,
		gw:           z,
		m:            &sync.RWMutex{},
		refreshSem:   semaphore.NewWeighted(1),
		label:        label,
		capabilities: make(map[da.Capability]implcaps.STDACapability),
	}

	z.device[addr] = d

	s := z.sectionForDevice(addr)
	if label != "" {
		s.Set("Label", label)
	}

	z.sendEvent(da.DeviceAdded{Device: d})

	return d, true
}

func (z *STDA) getDevice(addr DeviceIdentifier) *device {
	z.deviceLock.RLock()
	defer z.deviceLock.RUnlock()

	return z.device[addr]
}

func (z *STDA) getDevices() []*device {
	z.deviceLock.RLock()
	defer z.deviceLock.RUnlock()

	var devices []*device
	for _, d := range z.device {
		devices = append(devices, d)
	}

	return devices
}

func (z *STDA) removeDevice(ctx context.Context, addr DeviceIdentifier) bool {
	z.deviceLock.Lock()
	d, found := z.device[addr]
	if found {
		delete(z.device, addr)
	}
	z.deviceLock.Unlock()

	if !found {
		return false
	}

	for _, impl := range d.capabilityList() {
		z.logger.LogInfo(ctx, "Detaching capability from removed device.", logwrap.Datum("Capability", capabilities.StandardNames[impl.Capability()]), logwrap.Datum("CapabilityImplementation", impl.ImplName()))
		if err := impl.Detach(ctx, implcaps.DeviceRemoved); err != nil {
			z.logger.LogWarn(ctx, "Error thrown while detaching capability.", logwrap.Datum("CapabilityImplementation", impl.ImplName()), logwrap.Err(err))
		}

		z.detachCapabilityFromDevice(d, impl)
	}

	z.sendEvent(da.DeviceRemoved{Device: d})
	z.sectionRemoveDevice(addr)

	return true
}

func (z *STDA) attachCapabilityToDevice(d *device, c implcaps.STDACapability) {
	cF := c.Capability()

	d.m.Lock()
	d.capabilities[cF] = c
	d.m.Unlock()

	z.sectionForDevice(d.address).Section("capability", capabilities.StandardNames[cF]).Set("implementation", c.ImplName())
	z.sendEvent(da.CapabilityAdded{Device: d, Capability: cF})
}

func (z *STDA) detachCapabilityFromDevice(d *device, c implcaps.STDACapability) {
	cF := c.Capability()

	d.m.Lock()
	_, found := d.capabilities[cF]
	if found {
		delete(d.capabilities, cF)
	}
	d.m.Unlock()

	if found {
		z.sendEvent(da.CapabilityRemoved{Device: d, Capability: cF})
		z.sectionForDevice(d.address).Section("capability").SectionDelete(capabilities.StandardNames[cF])
	}
}
