package probe

import (
	"net"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRoundTripProbe(t *testing.T) {
	Convey("The round-trip probe over a working loopback", t, func() {
		p := NewRoundTripProbe()
		out := make([]int64, 25)

		p.Run(0, 0, out)

		Convey("produces exactly one real sample per iteration", func() {
			for _, sample := range out {
				So(sample, ShouldNotEqual, FailedSample)
				So(sample, ShouldBeGreaterThanOrEqualTo, 0)
			}
		})
	})

	Convey("A probe that cannot establish its connection", t, func() {
		p := &RoundTripProbe{addr: "203.0.113.1:1"} // TEST-NET, never assigned locally
		out := []int64{0, 0, 0}

		p.Run(0, 0, out)

		Convey("records the failure sentinel for the whole trial", func() {
			So(out, ShouldResemble, []int64{FailedSample, FailedSample, FailedSample})
		})
	})
}

func TestMeasureWithClosedPeer(t *testing.T) {
	Convey("When the peer goes away mid-trial", t, func() {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		So(err, ShouldBeNil)
		defer listener.Close()

		client, err := net.Dial("tcp", listener.Addr().String())
		So(err, ShouldBeNil)
		defer client.Close()

		peer, err := listener.Accept()
		So(err, ShouldBeNil)
		peer.Close()

		out := make([]int64, 10)
		measure(client, peer, 0, out)

		Convey("every remaining sample is the failure sentinel", func() {
			for _, sample := range out {
				So(sample, ShouldEqual, FailedSample)
			}
		})
	})
}
