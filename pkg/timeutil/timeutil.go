// Package timeutil provides the monotonic clock and the blocking and
// spinning delay primitives the latency probes are built on.
package timeutil

import (
	"golang.org/x/sys/unix"
)

// NanosecondsPerSecond is the number of nanoseconds in one second.
const NanosecondsPerSecond = int64(1e9)

// Now returns the current CLOCK_MONOTONIC time in nanoseconds. It is not
// affected by discontinuous jumps of the wall clock.
func Now() int64 {
	var ts unix.Timespec
	// The only error clock_gettime can return for CLOCK_MONOTONIC on
	// Linux is EFAULT, which cannot happen with a valid pointer.
	_ = unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts)
	return ts.Nano()
}

// Delay blocks the calling goroutine for at least ns nanoseconds using
// nanosleep(2), resuming the sleep with the remaining time whenever the
// syscall is interrupted. The contract is "slept at least as long as
// requested", not an exact wakeup.
func Delay(ns int64) {
	req := unix.NsecToTimespec(ns)
	var rem unix.Timespec
	for unix.Nanosleep(&req, &rem) == unix.EINTR {
		req = rem
	}
}

// Sleep issues a single nanosleep(2) for ns nanoseconds and returns after
// the first wakeup, interrupted or not. A request for 0 ns still enters
// the syscall, which is what the nanosleep latency probe measures.
func Sleep(ns int64) {
	req := unix.NsecToTimespec(ns)
	_ = unix.Nanosleep(&req, nil)
}

// BusyWait spins, repeatedly sampling the monotonic clock, until at least
// ns nanoseconds of wall time have elapsed. It never yields; it is used to
// keep the CPU out of idle states right before a measurement.
func BusyWait(ns int64) {
	start := Now()
	for Now()-start < ns {
	}
}
