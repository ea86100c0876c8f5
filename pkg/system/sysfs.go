package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// defaultSysfsCPURoot is where the kernel exposes per-CPU cpuidle and
// cpufreq controls.
const defaultSysfsCPURoot = "/sys/devices/system/cpu"

// Unknown is reported for idle or frequency values that could not be read
// back, and for controls that do not apply (e.g. no CPU pinned).
const Unknown = -1

// Controller reads and writes the per-CPU sysfs control files. The sysfs
// root is configurable so tests can run against a fake tree.
type Controller struct {
	root string
}

// NewController returns a Controller operating on the real sysfs tree.
func NewController() *Controller {
	return &Controller{root: defaultSysfsCPURoot}
}

// NewControllerWithRoot returns a Controller rooted at the given directory.
func NewControllerWithRoot(root string) *Controller {
	return &Controller{root: root}
}

func (c *Controller) idleStatePath(cpu, state int) string {
	return filepath.Join(c.root, fmt.Sprintf("cpu%d", cpu), "cpuidle", fmt.Sprintf("state%d", state), "disable")
}

func (c *Controller) freqPath(cpu int, file string) string {
	return filepath.Join(c.root, fmt.Sprintf("cpu%d", cpu), "cpufreq", file)
}

// SetIdleRange enables the idle states within [min, max] on the given CPU
// and disables all others, walking the state index upwards until no
// further state exists. A write failure on an existing state is logged and
// that state keeps its previous value; the sweep still produces
// informative, if noisier, numbers with partial idle control.
func (c *Controller) SetIdleRange(cpu, min, max int) {
	for state := 0; ; state++ {
		path := c.idleStatePath(cpu, state)
		if _, err := os.Stat(path); err != nil {
			if state == 0 && max != DefaultIdleMax {
				logrus.Warnf("cpu%d has no writable cpuidle states: %v", cpu, err)
			}
			return
		}

		disable := "0\n"
		if state < min || state > max {
			disable = "1\n"
		}
		if err := os.WriteFile(path, []byte(disable), 0644); err != nil {
			logrus.Warnf("writing %s failed: %v", path, err)
		}
	}
}

// IdleRange reads back the lowest and highest idle state indices currently
// enabled on the given CPU. It returns Unknown for both when no state is
// readable or none is enabled.
func (c *Controller) IdleRange(cpu int) (min, max int) {
	min, max = Unknown, Unknown
	for state := 0; ; state++ {
		data, err := os.ReadFile(c.idleStatePath(cpu, state))
		if err != nil {
			return min, max
		}
		disabled, err := strconv.Atoi(strings.TrimSpace(string(data)))
		if err != nil {
			logrus.Warnf("unparsable cpuidle disable flag for cpu%d state%d: %v", cpu, state, err)
			continue
		}
		if disabled == 0 {
			if min == Unknown {
				min = state
			}
			max = state
		}
	}
}

// SetFreqRange writes the CPU's scaling frequency bounds in kHz. The max
// bound is written first so that a lowered range never transiently
// inverts. Each write failure is logged and non-fatal.
func (c *Controller) SetFreqRange(cpu, minKHz, maxKHz int) {
	maxPath := c.freqPath(cpu, "scaling_max_freq")
	if err := os.WriteFile(maxPath, []byte(strconv.Itoa(maxKHz)+"\n"), 0644); err != nil {
		logrus.Warnf("writing %s failed: %v", maxPath, err)
	}

	minPath := c.freqPath(cpu, "scaling_min_freq")
	if err := os.WriteFile(minPath, []byte(strconv.Itoa(minKHz)+"\n"), 0644); err != nil {
		logrus.Warnf("writing %s failed: %v", minPath, err)
	}
}

// FreqRange reads back the currently effective scaling frequency bounds in
// kHz. A bound that cannot be read is reported as Unknown.
func (c *Controller) FreqRange(cpu int) (minKHz, maxKHz int) {
	minKHz, maxKHz = Unknown, Unknown
	if v, err := c.readInt(c.freqPath(cpu, "scaling_min_freq")); err == nil {
		minKHz = v
	} else {
		logrus.Warnf("reading scaling_min_freq of cpu%d failed: %v", cpu, err)
	}
	if v, err := c.readInt(c.freqPath(cpu, "scaling_max_freq")); err == nil {
		maxKHz = v
	} else {
		logrus.Warnf("reading scaling_max_freq of cpu%d failed: %v", cpu, err)
	}
	return minKHz, maxKHz
}

func (c *Controller) readInt(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// Platform-wide neutral bounds the orchestrator restores between sweep
// phases. The values follow the kernel's conventions: idle state indices
// never reach 99 and scaling frequencies never reach 9999999 kHz, so both
// ranges mean "everything allowed".
const (
	DefaultIdleMin = 0
	DefaultIdleMax = 99
	DefaultFreqMin = 0
	DefaultFreqMax = 9999999
)
