// Package toggler migrates a pinned thread back and forth between two
// CPUs at a configurable interval, concurrently with and independently of
// the measurement loop. The orchestrator uses it to quantify the latency
// cost of core migration.
package toggler

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/perfsweep/sleepsweep/pkg/system"
	"github.com/perfsweep/sleepsweep/pkg/timeutil"
)

// None marks an absent CPU in the shared configuration.
const None = int32(-1)

// config is the record shared between the orchestrator (single writer)
// and the toggling goroutine (single reader). The goroutine re-reads it at
// every loop boundary, so updates take effect with a staleness of at most
// one interval. That staleness is why the orchestrator waits two intervals
// before sampling after a reconfiguration.
type config struct {
	cpuA     atomic.Int32
	cpuB     atomic.Int32
	interval atomic.Int64
}

// Toggler owns the background toggling goroutine. The zero value is not
// usable; construct it with New.
type Toggler struct {
	cfg   config
	pid   int
	pin   func(pid, cpu int) error
	delay func(ns int64)

	startOnce sync.Once
	running   atomic.Bool
	stop      chan struct{}
}

// New returns an idle Toggler that will migrate the thread identified by
// pid. Nothing runs until the first Configure call.
func New(pid int) *Toggler {
	return &Toggler{
		pid:   pid,
		pin:   system.SetAffinity,
		delay: timeutil.Delay,
		stop:  make(chan struct{}),
	}
}

// newWithFuncs is used by tests to observe pinning and fake time.
func newWithFuncs(pid int, pin func(pid, cpu int) error, delay func(ns int64)) *Toggler {
	return &Toggler{
		pid:   pid,
		pin:   pin,
		delay: delay,
		stop:  make(chan struct{}),
	}
}

// Configure updates the target CPU pair and interval and starts the
// toggling goroutine if it is not running yet. Calling Configure on an
// already-running Toggler only redirects it; no second goroutine is ever
// spawned.
func (t *Toggler) Configure(cpuA, cpuB int, intervalNS int64) {
	t.cfg.cpuA.Store(int32(cpuA))
	t.cfg.cpuB.Store(int32(cpuB))
	t.cfg.interval.Store(intervalNS)

	t.startOnce.Do(func() {
		t.running.Store(true)
		go t.loop()
	})
}

// Running reports whether the toggling goroutine has been started.
func (t *Toggler) Running() bool {
	return t.running.Load()
}

// Interval returns the currently configured toggling interval in
// nanoseconds.
func (t *Toggler) Interval() int64 {
	return t.cfg.interval.Load()
}

// Stop terminates the toggling goroutine. The Toggler cannot be restarted;
// in the sweep its lifetime matches the process.
func (t *Toggler) Stop() {
	if t.running.CompareAndSwap(true, false) {
		close(t.stop)
	}
}

func (t *Toggler) loop() {
	for {
		select {
		case <-t.stop:
			return
		default:
		}

		cpuA := t.cfg.cpuA.Load()
		if cpuA != None {
			if !t.pinAndHold(int(cpuA)) {
				return
			}
		}

		cpuB := t.cfg.cpuB.Load()
		if cpuB != None {
			if !t.pinAndHold(int(cpuB)) {
				return
			}
			continue
		}

		// Only one CPU is configured. Re-pinning to it in a tight loop
		// would be pointless churn, so hold until a real partner shows
		// up or the configuration drops the CPU altogether.
		for t.cfg.cpuA.Load() != None && t.cfg.cpuB.Load() == None {
			select {
			case <-t.stop:
				return
			default:
			}
			t.delay(t.cfg.interval.Load())
		}
	}
}

// pinAndHold pins the target thread to cpu and holds for one interval.
// It reports false when the toggler must terminate: affinity failure
// invalidates every subsequent sample, and a goroutine cannot abort the
// process mid-measurement, so it logs loudly and bows out.
func (t *Toggler) pinAndHold(cpu int) bool {
	if err := t.pin(t.pid, cpu); err != nil {
		logrus.Errorf("affinity toggler terminating: %v", err)
		t.running.Store(false)
		return false
	}
	t.delay(t.cfg.interval.Load())
	return true
}
