// Package probe implements the interchangeable latency measurement
// routines. Each probe fills a caller-supplied batch with one raw latency
// sample per iteration, optionally preceding every iteration with
// synthetic busy work.
package probe

import (
	"github.com/pkg/errors"
)

// FailedSample marks an iteration whose measurement failed. Only the
// round-trip probe produces it; the nanosleep path has no failure mode.
const FailedSample = int64(-1)

// Probe is one latency-sampling strategy. Run fills out with exactly
// len(out) samples, busy-waiting busyNS before each iteration when
// busyNS > 0. targetNS is the requested sleep for the nanosleep probe and
// is reported but unused by the round-trip probe.
type Probe interface {
	Name() string
	Run(busyNS, targetNS int64, out []int64)
}

// Kind selects one of the fixed set of measurement routines.
type Kind int

// The available measurement routines.
const (
	KindNanosleep Kind = iota
	KindTCPRoundTrip
)

func (k Kind) String() string {
	switch k {
	case KindNanosleep:
		return "nanosleep"
	case KindTCPRoundTrip:
		return "tcp-rtt"
	}
	return "unknown"
}

// ParseKind resolves a benchmark name from the CLI into a Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "nanosleep":
		return KindNanosleep, nil
	case "tcp-rtt":
		return KindTCPRoundTrip, nil
	}
	return 0, errors.Errorf("unknown benchmark %q (expected nanosleep or tcp-rtt)", name)
}

// ForKind returns the probe implementing the given kind.
func ForKind(kind Kind) Probe {
	switch kind {
	case KindTCPRoundTrip:
		return NewRoundTripProbe()
	default:
		return NanosleepProbe{}
	}
}
