package experiment

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/perfsweep/sleepsweep/pkg/probe"
)

func TestParsePairs(t *testing.T) {
	Convey("Parsing CPU tokens with optional migration partners", t, func() {
		pairs, err := ParsePairs([]string{"3/13", "3", "13"}, true)
		So(err, ShouldBeNil)
		So(pairs, ShouldResemble, [][2]int{{3, 13}, {3, NoCPU}, {13, NoCPU}})
	})

	Convey("Parsing mandatory min/max pairs", t, func() {
		pairs, err := ParsePairs([]string{"-1/-1", "0/1", "0/9"}, false)
		So(err, ShouldBeNil)
		So(pairs, ShouldResemble, [][2]int{{-1, -1}, {0, 1}, {0, 9}})

		Convey("a bare value is rejected", func() {
			_, err := ParsePairs([]string{"5"}, false)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Garbage tokens are rejected", t, func() {
		_, err := ParsePairs([]string{"a/b"}, true)
		So(err, ShouldNotBeNil)

		_, err = ParsePairs([]string{"fast"}, true)
		So(err, ShouldNotBeNil)
	})
}

func TestParseInt64List(t *testing.T) {
	Convey("Duration lists parse into nanosecond values", t, func() {
		values, err := ParseInt64List([]string{"0", "1000", "1000000"})
		So(err, ShouldBeNil)
		So(values, ShouldResemble, []int64{0, 1000, 1000000})

		_, err = ParseInt64List([]string{"1ms"})
		So(err, ShouldNotBeNil)
	})
}

func TestParseKinds(t *testing.T) {
	Convey("Benchmark name lists parse into kinds", t, func() {
		kinds, err := ParseKinds([]string{"nanosleep", "tcp-rtt"})
		So(err, ShouldBeNil)
		So(kinds, ShouldResemble, []probe.Kind{probe.KindNanosleep, probe.KindTCPRoundTrip})

		_, err = ParseKinds([]string{"iperf"})
		So(err, ShouldNotBeNil)
	})
}
