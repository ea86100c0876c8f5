// Package system applies and reads back the process- and CPU-level state
// a measurement runs under: CPU affinity, scheduling policy and priority,
// cpuidle state availability and cpufreq scaling bounds.
//
// Affinity and scheduler changes go through syscalls and their failure
// invalidates a whole run. The cpuidle and cpufreq knobs are sysfs files
// whose writes may be rejected or clamped by the driver, so every write
// has a matching read-back used for reporting the effective state.
package system
