//go:build linux

package system

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Policy is a Linux scheduling policy as accepted by sched_setscheduler(2).
type Policy int

// Scheduling policies supported by the sweep.
const (
	PolicyOther Policy = 0
	PolicyFIFO  Policy = 1
	PolicyRR    Policy = 2
	PolicyBatch Policy = 3
	PolicyIdle  Policy = 5
)

func (p Policy) String() string {
	switch p {
	case PolicyOther:
		return "OTHER"
	case PolicyFIFO:
		return "FIFO"
	case PolicyRR:
		return "RR"
	case PolicyBatch:
		return "BATCH"
	case PolicyIdle:
		return "IDLE"
	}
	return "UNKNOWN"
}

// SetAffinity restricts the thread identified by pid to the single given
// CPU. Passing the main thread's pid migrates the measurement loop, which
// is how the affinity toggler simulates core migration.
func SetAffinity(pid, cpu int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(pid, &set); err != nil {
		return errors.Wrapf(err, "setting affinity of pid %d to cpu %d failed", pid, cpu)
	}
	return nil
}

// schedParam mirrors struct sched_param for sched_setscheduler(2).
type schedParam struct {
	priority int32
}

// SetScheduler changes the scheduling policy and priority of the thread
// identified by pid (0 means the calling thread).
func SetScheduler(pid int, policy Policy, priority int) error {
	param := schedParam{priority: int32(priority)}
	_, _, errno := unix.Syscall(
		unix.SYS_SCHED_SETSCHEDULER,
		uintptr(pid),
		uintptr(policy),
		uintptr(unsafe.Pointer(&param)),
	)
	if errno != 0 {
		return errors.Wrapf(errno, "setting scheduler of pid %d to policy %s priority %d failed",
			pid, policy, priority)
	}
	return nil
}
