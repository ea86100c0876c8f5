//go:build linux

package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/perfsweep/sleepsweep/pkg/conf"
	"github.com/perfsweep/sleepsweep/pkg/experiment"
	"github.com/perfsweep/sleepsweep/pkg/utils/errutil"
)

var (
	cpusFlag = conf.NewSliceFlag("cpus",
		"CPUs to pin one at a time (3,13), or cpu0/cpu1 pairs between which affinity is toggled (3/13). Default: no pinning")
	toggleFlag = conf.NewSliceFlag("toggle",
		"CPU affinity toggling intervals [ns], used with cpu0/cpu1 pairs",
		"1000000")
	polprioFlag = conf.NewSliceFlag("polprio",
		"Scheduling policy/priority pairs. Policies: 0=OTHER, 1=FIFO, 2=RR, 3=BATCH, 5=IDLE, see sched_setscheduler(2)",
		"0/0")
	idleFlag = conf.NewSliceFlag("idle",
		"cpuidle min/max state pairs; -1/-1 disables every idle state. Takes effect only with pinned CPUs",
		"0/99")
	freqFlag = conf.NewSliceFlag("freq",
		"cpufreq min/max [kHz] pairs. Takes effect only with pinned CPUs",
		"0/9999999")
	busyFlag = conf.NewSliceFlag("busy",
		"Busy-wait durations [ns] preceding each measurement iteration",
		"0", "1000", "1000000")
	sleepFlag = conf.NewSliceFlag("sleep",
		"Requested sleep durations [ns]",
		"0", "1000", "1000000")
	benchmarkFlag = conf.NewSliceFlag("benchmark",
		"Benchmarks to run: nanosleep, tcp-rtt",
		"nanosleep")
	iterationsFlag = conf.NewInt64Flag("iterations",
		"Number of iterations per measurement", 1000)
	repeatsFlag = conf.NewIntFlag("repeats",
		"Number of repetitions for each measurement", 1)
	dumpConfigFlag = conf.NewBoolFlag("dump_config",
		"Dump the environment based configuration and exit", false)
)

// sweepConfig assembles the immutable sweep configuration from the CLI
// dimensions, leaving untouched dimensions at their documented defaults.
func sweepConfig() (experiment.SweepConfig, error) {
	cfg := experiment.DefaultSweepConfig()

	var err error
	if cfg.CPUPairs, err = experiment.ParsePairs(cpusFlag.Value(), true); err != nil {
		return cfg, err
	}
	if cfg.ToggleIntervals, err = experiment.ParseInt64List(toggleFlag.Value()); err != nil {
		return cfg, err
	}
	if cfg.Policies, err = experiment.ParsePairs(polprioFlag.Value(), false); err != nil {
		return cfg, err
	}
	if cfg.IdleRanges, err = experiment.ParsePairs(idleFlag.Value(), false); err != nil {
		return cfg, err
	}
	if cfg.FreqRanges, err = experiment.ParsePairs(freqFlag.Value(), false); err != nil {
		return cfg, err
	}
	if cfg.BusyTimes, err = experiment.ParseInt64List(busyFlag.Value()); err != nil {
		return cfg, err
	}
	if cfg.SleepTimes, err = experiment.ParseInt64List(sleepFlag.Value()); err != nil {
		return cfg, err
	}
	if cfg.Kinds, err = experiment.ParseKinds(benchmarkFlag.Value()); err != nil {
		return cfg, err
	}
	cfg.Iterations = iterationsFlag.Value()
	cfg.Repeats = repeatsFlag.Value()

	return cfg, nil
}

func main() {
	// Affinity changes target the main thread's pid; keep the
	// measurement loop on that thread so the toggler actually migrates
	// the code being measured.
	runtime.LockOSThread()

	conf.SetAppName("sleepsweep")
	conf.SetHelp(`sleepsweep measures the accuracy of short sleeps and loopback round
trips under a matrix of conditions: CPU pinning or migration, scheduling
policy and priority, cpuidle state availability, cpufreq bounds and
preceding busy work.

Example:
  sleepsweep --cpus=3/13,3,13 --toggle=1000000,100000 --polprio=0/0,1/1 \
    --freq=1200000/1200000,0/9999999 --idle=-1/-1,0/1,0/9 \
    --busy=20000 --sleep=50000 --iterations=10000 --repeats=5`)

	errutil.Check(conf.ParseFlags())
	logrus.SetLevel(conf.LogLevel())

	if dumpConfigFlag.Value() {
		fmt.Println(conf.DumpConfig())
		return
	}

	cfg, err := sweepConfig()
	errutil.CheckWithContext(err, "invalid sweep configuration")

	sweep := experiment.New(cfg, experiment.NewLineWriter(os.Stdout))
	errutil.Check(sweep.Run())
}
