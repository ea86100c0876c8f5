package experiment

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/perfsweep/sleepsweep/pkg/stats"
)

// Record is one row of the report: the full combination that was applied
// plus the latency statistics measured under it. CPU, toggling and
// idle/frequency fields that do not apply carry the -1 sentinel. The idle
// and frequency fields hold the state read back from the kernel, not the
// requested one.
type Record struct {
	Benchmark string
	Round     int
	CPU       int
	CPUOther  int
	ToggleNS  int64
	Policy    int
	Priority  int
	IdleMin   int
	IdleMax   int
	FreqMin   int
	FreqMax   int
	BusyNS    int64
	SleepNS   int64
	Latency   stats.Latency
}

// Writer consumes the result stream, one record per combination.
type Writer interface {
	WriteHeader() error
	Write(Record) error
}

// LineWriter emits the whitespace-separated report format: a header line
// naming every column followed by one line per record.
type LineWriter struct {
	w io.Writer
}

// NewLineWriter returns a LineWriter emitting to w.
func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: w}
}

// WriteHeader implements Writer.
func (lw *LineWriter) WriteHeader() error {
	_, err := fmt.Fprintln(lw.w,
		"benchmark round cpu0 cpu1 cpumigr_ns schedpol schedprio idlemin idlemax freqmin freqmax busy_ns sleep_ns min p5 p50 p80 p90 p95 p99 p999 max avg")
	return errors.Wrap(err, "writing report header failed")
}

// Write implements Writer.
func (lw *LineWriter) Write(r Record) error {
	_, err := fmt.Fprintf(lw.w, "%s %d %d %d %d %d %d %d %d %d %d %d %d %d %d %d %d %d %d %d %d %d %.0f\n",
		r.Benchmark, r.Round, r.CPU, r.CPUOther, r.ToggleNS,
		r.Policy, r.Priority, r.IdleMin, r.IdleMax, r.FreqMin, r.FreqMax,
		r.BusyNS, r.SleepNS,
		r.Latency.Min, r.Latency.P5, r.Latency.P50, r.Latency.P80, r.Latency.P90,
		r.Latency.P95, r.Latency.P99, r.Latency.P999, r.Latency.Max, r.Latency.Mean)
	return errors.Wrap(err, "writing report record failed")
}
