package stda

import (
	"sync"

	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/stda/implcaps"
	"golang.org/x/sync/semaphore"
)

// DeviceIdentifier is the cloud service's device identifier, a UUID.
type DeviceIdentifier string

func (d DeviceIdentifier) String() string {
	return string(d)
}

type device struct {
	// Immutable, no locking required.
	address    DeviceIdentifier
	gw         da.Gateway
	m          *sync.RWMutex
	refreshSem *semaphore.Weighted

	// Mutable, locking must be obtained first.
	label        string
	capabilities map[da.Capability]implcaps.STDACapability
}

func (d *device) Gateway() da.Gateway {
	return d.gw
}

func (d *device) Identifier() da.Identifier {
	return d.address
}

func (d *device) Capabilities() []da.Capability {
	d.m.RLock()
	defer d.m.RUnlock()

	var caps []da.Capability
	for cF := range d.capabilities {
		caps = append(caps, cF)
	}

	return caps
}

func (d *device) Capability(c da.Capability) interface{} {
	d.m.RLock()
	defer d.m.RUnlock()

	if impl, found := d.capabilities[c]; found {
		return impl
	}

	return nil
}

func (d *device) capabilityList() []implcaps.STDACapability {
	d.m.RLock()
	defer d.m.RUnlock()

	var impls []implcaps.STDACapability
	for _, impl := range d.capabilities {
		impls = append(impls, impl)
	}

	return impls
}

var _ da.Device = (*device)(nil)
