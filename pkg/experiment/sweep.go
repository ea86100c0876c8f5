package experiment

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/perfsweep/sleepsweep/pkg/probe"
	"github.com/perfsweep/sleepsweep/pkg/stats"
	"github.com/perfsweep/sleepsweep/pkg/system"
	"github.com/perfsweep/sleepsweep/pkg/timeutil"
	"github.com/perfsweep/sleepsweep/pkg/toggler"
)

// settleNS is how long the orchestrator waits after pinning for affinity,
// cpufreq and cpuidle changes to take effect in the kernel before it reads
// the effective state back.
const settleNS = int64(10000000) // 10 ms

// affinityToggler is the contract the sweep has with the background
// affinity toggler: reconfigurable at any time, idempotent start, and a
// readable interval for the settle wait.
type affinityToggler interface {
	Configure(cpuA, cpuB int, intervalNS int64)
	Running() bool
	Interval() int64
}

// sysController is the sysfs-backed part of the system state controller.
// Its operations degrade gracefully: failures are logged by the
// implementation and show up as unknown values in the report.
type sysController interface {
	SetIdleRange(cpu, min, max int)
	IdleRange(cpu int) (min, max int)
	SetFreqRange(cpu, minKHz, maxKHz int)
	FreqRange(cpu int) (minKHz, maxKHz int)
}

// Sweep walks the combination matrix and emits one record per leaf.
type Sweep struct {
	cfg SweepConfig
	out Writer
	sys sysController
	tog affinityToggler
	pid int

	// Syscall and timing seams; fatal ones return errors that abort the
	// whole run.
	setAffinity  func(pid, cpu int) error
	setScheduler func(pid int, policy system.Policy, priority int) error
	delay        func(ns int64)
	probeFor     func(kind probe.Kind) probe.Probe
}

// New returns a Sweep operating on the calling process and the real
// system control surfaces.
func New(cfg SweepConfig, out Writer) *Sweep {
	pid := os.Getpid()
	return &Sweep{
		cfg:          cfg,
		out:          out,
		sys:          system.NewController(),
		tog:          toggler.New(pid),
		pid:          pid,
		setAffinity:  system.SetAffinity,
		setScheduler: system.SetScheduler,
		delay:        timeutil.Delay,
		probeFor:     probe.ForKind,
	}
}

// Run executes the whole sweep: repeats of every benchmark kind across
// every combination of toggle interval, CPU pair, scheduling policy, idle
// range, frequency range, busy duration and sleep duration, outer to
// inner in that order. It returns a non-nil error only for fatal
// conditions (affinity or scheduler failure, output failure); everything
// else degrades into logged warnings and sentinel report fields.
func (s *Sweep) Run() error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	// One sample buffer for the whole run, overwritten by each trial.
	samples := make([]int64, s.cfg.Iterations)

	if err := s.out.WriteHeader(); err != nil {
		return err
	}

	for round := 1; round <= s.cfg.Repeats; round++ {
		for _, kind := range s.cfg.Kinds {
			bench := s.probeFor(kind)
			for _, toggleNS := range s.cfg.ToggleIntervals {
				for _, pair := range s.cfg.cpuAxis() {
					if err := s.runCPULeg(round, bench, toggleNS, pair[0], pair[1], samples); err != nil {
						return err
					}
				}
			}
		}
	}

	return nil
}

// runCPULeg establishes the CPU pinning or migration of one CPU-axis
// entry and sweeps all inner dimensions under it.
func (s *Sweep) runCPULeg(round int, bench probe.Probe, toggleNS int64, cpu, cpuOther int, samples []int64) error {
	if cpu != NoCPU {
		if err := s.setAffinity(s.pid, cpu); err != nil {
			return err
		}
	}
	// An already-running toggler must be redirected even for plain pin
	// entries, otherwise it would keep migrating us to the previous pair.
	if cpuOther != NoCPU || s.tog.Running() {
		s.tog.Configure(cpu, cpuOther, toggleNS)
	}

	for _, polprio := range s.cfg.Policies {
		if err := s.setScheduler(0, system.Policy(polprio[0]), polprio[1]); err != nil {
			return err
		}

		for _, idle := range s.cfg.IdleRanges {
			if cpu != NoCPU {
				s.sys.SetIdleRange(cpu, idle[0], idle[1])
				if cpuOther != NoCPU {
					s.sys.SetIdleRange(cpuOther, idle[0], idle[1])
				}
			}

			for _, freq := range s.cfg.FreqRanges {
				if cpu != NoCPU {
					s.sys.SetFreqRange(cpu, freq[0], freq[1])
					if cpuOther != NoCPU {
						s.sys.SetFreqRange(cpuOther, freq[0], freq[1])
					}
				}

				for _, busyNS := range s.cfg.BusyTimes {
					for _, sleepNS := range s.cfg.SleepTimes {
						if err := s.runTrial(round, bench, toggleNS, cpu, cpuOther,
							polprio, busyNS, sleepNS, samples); err != nil {
							return err
						}
					}
				}
			}

			// Frequency axis exhausted for this CPU; restore the
			// platform-wide bounds, best effort.
			if cpu != NoCPU {
				s.sys.SetFreqRange(cpu, system.DefaultFreqMin, system.DefaultFreqMax)
				if cpuOther != NoCPU {
					s.sys.SetFreqRange(cpuOther, system.DefaultFreqMin, system.DefaultFreqMax)
				}
			}
		}

		// Idle axis exhausted; re-enable every idle state, best effort.
		if cpu != NoCPU {
			s.sys.SetIdleRange(cpu, system.DefaultIdleMin, system.DefaultIdleMax)
			if cpuOther != NoCPU {
				s.sys.SetIdleRange(cpuOther, system.DefaultIdleMin, system.DefaultIdleMax)
			}
		}
	}

	return nil
}

// runTrial settles the environment, measures one combination and emits
// its record.
func (s *Sweep) runTrial(round int, bench probe.Probe, toggleNS int64, cpu, cpuOther int,
	polprio [2]int, busyNS, sleepNS int64, samples []int64) error {

	if s.tog.Running() {
		// The toggler picks configuration changes up with up to one
		// interval of staleness; two intervals guarantee it has settled
		// on the current pair.
		s.delay(2 * s.tog.Interval())
	}

	idleMin, idleMax := system.Unknown, system.Unknown
	freqMin, freqMax := system.Unknown, system.Unknown
	if cpu != NoCPU {
		s.delay(settleNS)
		// Report what the kernel actually holds; writes may have been
		// rejected or clamped by the driver.
		freqMin, freqMax = s.sys.FreqRange(cpu)
		idleMin, idleMax = s.sys.IdleRange(cpu)
	}

	logrus.Debugf("measuring %s: round=%d cpu=%d/%d pol=%d/%d busy=%dns sleep=%dns",
		bench.Name(), round, cpu, cpuOther, polprio[0], polprio[1], busyNS, sleepNS)

	bench.Run(busyNS, sleepNS, samples)

	reportedToggle := int64(NoCPU)
	if cpuOther != NoCPU {
		reportedToggle = toggleNS
	}

	return s.out.Write(Record{
		Benchmark: bench.Name(),
		Round:     round,
		CPU:       cpu,
		CPUOther:  cpuOther,
		ToggleNS:  reportedToggle,
		Policy:    polprio[0],
		Priority:  polprio[1],
		IdleMin:   idleMin,
		IdleMax:   idleMax,
		FreqMin:   freqMin,
		FreqMax:   freqMax,
		BusyNS:    busyNS,
		SleepNS:   sleepNS,
		Latency:   stats.Reduce(samples),
	})
}
