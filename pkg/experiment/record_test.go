package experiment

import (
	"bytes"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/perfsweep/sleepsweep/pkg/stats"
)

func TestLineWriter(t *testing.T) {
	Convey("The line writer", t, func() {
		var buf bytes.Buffer
		lw := NewLineWriter(&buf)

		Convey("emits a header naming every column", func() {
			So(lw.WriteHeader(), ShouldBeNil)
			So(buf.String(), ShouldEqual,
				"benchmark round cpu0 cpu1 cpumigr_ns schedpol schedprio idlemin idlemax freqmin freqmax busy_ns sleep_ns min p5 p50 p80 p90 p95 p99 p999 max avg\n")
		})

		Convey("emits one whitespace-separated line per record", func() {
			rec := Record{
				Benchmark: "nanosleep",
				Round:     1,
				CPU:       3,
				CPUOther:  13,
				ToggleNS:  1000000,
				Policy:    1,
				Priority:  1,
				IdleMin:   0,
				IdleMax:   2,
				FreqMin:   1200000,
				FreqMax:   1200000,
				BusyNS:    20000,
				SleepNS:   50000,
				Latency: stats.Latency{
					Min: 10, P5: 11, P50: 12, P80: 13, P90: 14,
					P95: 15, P99: 16, P999: 17, Max: 18, Mean: 12.4,
				},
			}
			So(lw.Write(rec), ShouldBeNil)
			So(buf.String(), ShouldEqual,
				"nanosleep 1 3 13 1000000 1 1 0 2 1200000 1200000 20000 50000 10 11 12 13 14 15 16 17 18 12\n")
		})

		Convey("uses the -1 sentinel for unpinned runs", func() {
			rec := Record{
				Benchmark: "nanosleep", Round: 1,
				CPU: NoCPU, CPUOther: NoCPU, ToggleNS: -1,
				IdleMin: -1, IdleMax: -1, FreqMin: -1, FreqMax: -1,
			}
			So(lw.Write(rec), ShouldBeNil)
			fields := strings.Fields(buf.String())
			So(fields[2], ShouldEqual, "-1") // cpu0
			So(fields[3], ShouldEqual, "-1") // cpu1
			So(fields[4], ShouldEqual, "-1") // cpumigr_ns
		})
	})
}
