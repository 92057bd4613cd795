package stda

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

const pollerBacklog = 200
const pollerWorkers = 4
const workerMaximumJobDuration = 15 * time.Second

type deviceFetcher interface {
	getDevice(DeviceIdentifier) *device
}

type stdaPoller struct {
	deviceFetcher deviceFetcher

	pollerWork chan pollerWork
	pollerStop chan bool

	randLock *sync.Mutex
	rand     *rand.Rand
}

type pollerWork struct {
	identifier DeviceIdentifier
	interval   time.Duration
	fn         func(context.Context, *device) bool
}

func (p *stdaPoller) Start() {
	p.pollerStop = make(chan bool, pollerWorkers)
	p.pollerWork = make(chan pollerWork, pollerBacklog)

	for i := 0; i < pollerWorkers; i++ {
		go p.worker()
	}

	p.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
}

func (p *stdaPoller) Stop() {
	for i := 0; i < pollerWorkers; i++ {
		p.pollerStop <- true
	}
}

// Add schedules a repeating job for a device, starting after a random
// fraction of the interval to spread cloud requests out.
func (p *stdaPoller) Add(identifier DeviceIdentifier, interval time.Duration, fn func(context.Context, *device) bool) {
	p.randLock.Lock()
	initialWait := time.Duration(float64(interval) * p.rand.Float64())
	p.randLock.Unlock()

	time.AfterFunc(initialWait, func() {
		p.pollerWork <- pollerWork{
			identifier: identifier,
			interval:   interval,
			fn:         fn,
		}
	})
}

func (p *stdaPoller) worker() {
	for {
		select {
		case work := <-p.pollerWork:
			d := p.deviceFetcher.getDevice(work.identifier)

			if d != nil {
				ctx, cancel := context.WithTimeout(context.Background(), workerMaximumJobDuration)

				if work.fn(ctx, d) {
					time.AfterFunc(work.interval, func() {
						p.pollerWork <- work
					})
				}

				cancel()
			}
		case <-p.pollerStop:
			return
		}
	}
}
