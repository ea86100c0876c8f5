package timeutil

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNow(t *testing.T) {
	Convey("Now should be monotonically non-decreasing", t, func() {
		first := Now()
		second := Now()
		So(second, ShouldBeGreaterThanOrEqualTo, first)
	})
}

func TestDelay(t *testing.T) {
	Convey("Delay should block for at least the requested duration", t, func() {
		requested := int64(2 * time.Millisecond)
		start := Now()
		Delay(requested)
		So(Now()-start, ShouldBeGreaterThanOrEqualTo, requested)
	})

	Convey("Delay with zero duration should return", t, func() {
		Delay(0)
	})
}

func TestBusyWait(t *testing.T) {
	Convey("BusyWait should spin for at least the requested duration", t, func() {
		requested := int64(time.Millisecond)
		start := Now()
		BusyWait(requested)
		So(Now()-start, ShouldBeGreaterThanOrEqualTo, requested)
	})
}
