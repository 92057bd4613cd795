// Package stda adapts cloud connected SmartThings climate devices onto the
// shimmeringbee/da device abstraction. Devices are classified into a control
// profile from their declared capability set, exposed as da devices carrying
// the ClimateControl capability, and kept current by a polling refresh cycle
// against the cloud transport.
package stda

import (
	"context"
	"sync"
	"time"

	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/discard"
	"github.com/shimmeringbee/persistence"
	"github.com/shimmeringbee/stda/implcaps"
	"github.com/shimmeringbee/stda/quirks"
	"github.com/shimmeringbee/stda/smartthings"
)

func New(baseCtx context.Context, s persistence.Section, provider smartthings.Provider) *STDA {
	ctx, cancel := context.WithCancel(baseCtx)

	z := &STDA{
		provider: provider,
		section:  s,
		logger:   logwrap.New(discard.Discard()),

		ctx:    ctx,
		cancel: cancel,

		deviceLock: &sync.RWMutex{},
		device:     make(map[DeviceIdentifier]*device),

		events: make(chan any, 0xffff),

		pollInterval: DefaultPollingInterval,
	}

	z.zi = stdaInterface{gw: z}
	z.poller = &stdaPoller{deviceFetcher: z, randLock: &sync.Mutex{}}

	return z
}

type STDA struct {
	provider smartthings.Provider
	section  persistence.Section
	logger   logwrap.Logger
	quirks   *quirks.Engine

	ctx    context.Context
	cancel context.CancelFunc

	deviceLock *sync.RWMutex
	device     map[DeviceIdentifier]*device

	events chan any

	pollInterval time.Duration

	zi     implcaps.STDAInterface
	poller *stdaPoller

	selfDevice da.BaseDevice
}

// WithQuirks replaces the default embedded quirk rule set, must be called
// before Start.
func (z *STDA) WithQuirks(e *quirks.Engine) {
	z.quirks = e
}

// WithPollingInterval changes the refresh cadence used for devices without a
// per device interval in persistence, must be called before Start.
func (z *STDA) WithPollingInterval(d time.Duration) {
	if d > 0 {
		z.pollInterval = d
	}
}
