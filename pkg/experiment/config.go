// Package experiment enumerates the full Cartesian product of the
// configured measurement dimensions, drives the system state controller
// and the affinity toggler to establish each combination, runs the
// selected probe and reduces its samples into one result record per
// combination.
package experiment

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/perfsweep/sleepsweep/pkg/probe"
	"github.com/perfsweep/sleepsweep/pkg/system"
)

// NoCPU marks an absent CPU in a pin/migration pair.
const NoCPU = -1

// SweepConfig is the immutable description of one sweep. It is built once
// from the CLI input and never mutated while the sweep runs.
//
// Every dimension left empty falls back to a one-element default, so the
// Cartesian product of the dimensions is always non-empty. An empty
// CPUPairs axis iterates exactly once without pinning.
type SweepConfig struct {
	// CPUPairs holds [pin, migration partner] pairs; the partner is
	// NoCPU for plain pinning.
	CPUPairs [][2]int
	// ToggleIntervals are the affinity toggling periods in nanoseconds.
	ToggleIntervals []int64
	// Policies holds [scheduling policy, priority] pairs.
	Policies [][2]int
	// IdleRanges holds [min, max] cpuidle state index pairs.
	IdleRanges [][2]int
	// FreqRanges holds [min, max] cpufreq bounds in kHz.
	FreqRanges [][2]int
	// BusyTimes are busy-wait durations in nanoseconds preceding each
	// iteration.
	BusyTimes []int64
	// SleepTimes are requested sleep (or reported target) durations in
	// nanoseconds.
	SleepTimes []int64
	// Kinds selects the measurement routines to sweep over.
	Kinds []probe.Kind
	// Iterations is the number of samples per combination.
	Iterations int64
	// Repeats is the number of whole-sweep repetitions.
	Repeats int
}

// DefaultSweepConfig returns the documented default for every dimension:
// no pinning, default time-sharing scheduling, all idle states enabled,
// unrestricted frequency, busy and sleep times of {0, 1us, 1ms}, a 1 ms
// toggle interval, 1000 iterations and a single repeat of the nanosleep
// benchmark.
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		ToggleIntervals: []int64{1000000},
		Policies:        [][2]int{{int(system.PolicyOther), 0}},
		IdleRanges:      [][2]int{{system.DefaultIdleMin, system.DefaultIdleMax}},
		FreqRanges:      [][2]int{{system.DefaultFreqMin, system.DefaultFreqMax}},
		BusyTimes:       []int64{0, 1000, 1000000},
		SleepTimes:      []int64{0, 1000, 1000000},
		Kinds:           []probe.Kind{probe.KindNanosleep},
		Iterations:      1000,
		Repeats:         1,
	}
}

// Validate checks the configuration for conditions that would make the
// sweep meaningless. It also surfaces the implicit precondition that idle
// and frequency sweeps only take effect on a pinned CPU.
func (c *SweepConfig) Validate() error {
	if c.Iterations < 1 {
		return errors.Errorf("iterations must be at least 1, got %d", c.Iterations)
	}
	if c.Repeats < 1 {
		return errors.Errorf("repeats must be at least 1, got %d", c.Repeats)
	}
	if len(c.Kinds) == 0 {
		return errors.New("at least one benchmark kind is required")
	}
	if len(c.ToggleIntervals) == 0 || len(c.Policies) == 0 ||
		len(c.IdleRanges) == 0 || len(c.FreqRanges) == 0 ||
		len(c.BusyTimes) == 0 || len(c.SleepTimes) == 0 {
		return errors.New("every dimension needs at least one value; use DefaultSweepConfig for defaults")
	}

	if len(c.CPUPairs) == 0 {
		def := DefaultSweepConfig()
		if !pairsEqual(c.IdleRanges, def.IdleRanges) {
			logrus.Warn("idle state ranges are configured but no CPU is pinned; idle control will be skipped and reported as unknown")
		}
		if !pairsEqual(c.FreqRanges, def.FreqRanges) {
			logrus.Warn("frequency ranges are configured but no CPU is pinned; frequency control will be skipped and reported as unknown")
		}
	}

	return nil
}

// cpuAxis returns the CPU dimension to iterate over: the configured pairs,
// or a single unpinned iteration when none were given.
func (c *SweepConfig) cpuAxis() [][2]int {
	if len(c.CPUPairs) == 0 {
		return [][2]int{{NoCPU, NoCPU}}
	}
	return c.CPUPairs
}

func pairsEqual(a, b [][2]int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
