package probe

import (
	"github.com/perfsweep/sleepsweep/pkg/timeutil"
)

// NanosleepProbe measures how much longer than requested a nanosleep(2)
// call actually blocks. The sample is the overshoot beyond the requested
// duration; a request for 0 ns is still issued so the bare syscall path
// is what gets measured.
type NanosleepProbe struct{}

// Name implements Probe.
func (NanosleepProbe) Name() string {
	return KindNanosleep.String()
}

// Run implements Probe.
func (NanosleepProbe) Run(busyNS, sleepNS int64, out []int64) {
	for i := range out {
		if busyNS > 0 {
			timeutil.BusyWait(busyNS)
		}

		start := timeutil.Now()
		timeutil.Sleep(sleepNS)
		end := timeutil.Now()

		out[i] = (end - start) - sleepNS
	}
}
