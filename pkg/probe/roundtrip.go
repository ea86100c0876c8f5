package probe

import (
	"io"
	"net"

	"github.com/sirupsen/logrus"

	"github.com/perfsweep/sleepsweep/pkg/timeutil"
)

// defaultLoopbackAddr asks the kernel for an ephemeral loopback port.
const defaultLoopbackAddr = "127.0.0.1:0"

// RoundTripProbe measures steady-state loopback latency: one byte is sent
// from a client socket to its accepted peer, echoed back, and the halved
// round-trip time approximates the one-way cost. The halving assumes
// symmetric forward and return paths; it is the tool's long-standing
// reporting convention, not a property of TCP.
//
// The connection pair is established once before the iteration loop and
// reused for every sample, keeping connection setup out of the numbers.
type RoundTripProbe struct {
	addr string
}

// NewRoundTripProbe returns a probe connecting over the loopback device.
func NewRoundTripProbe() *RoundTripProbe {
	return &RoundTripProbe{addr: defaultLoopbackAddr}
}

// Name implements Probe.
func (p *RoundTripProbe) Name() string {
	return KindTCPRoundTrip.String()
}

// Run implements Probe. If the loopback pair cannot be established, every
// sample of the trial is recorded as FailedSample and the trial is over;
// the sweep carries on with the next combination.
func (p *RoundTripProbe) Run(busyNS, targetNS int64, out []int64) {
	client, peer, err := p.connect()
	if err != nil {
		logrus.Warnf("loopback connection failed, recording trial as failed: %v", err)
		fillFailed(out)
		return
	}
	defer client.Close()
	defer peer.Close()

	measure(client, peer, busyNS, out)
}

// connect establishes the listener, the dialing client and the accepted
// peer. The listener only exists to produce the pair and is closed before
// sampling starts.
func (p *RoundTripProbe) connect() (client, peer net.Conn, err error) {
	listener, err := net.Listen("tcp", p.addr)
	if err != nil {
		return nil, nil, err
	}
	defer listener.Close()

	client, err = net.Dial("tcp", listener.Addr().String())
	if err != nil {
		return nil, nil, err
	}

	peer, err = listener.Accept()
	if err != nil {
		client.Close()
		return nil, nil, err
	}

	return client, peer, nil
}

// measure runs the iteration loop over an established pair. A send or
// receive failure marks that iteration as failed and moves on; it does
// not abort the trial.
func measure(client, peer net.Conn, busyNS int64, out []int64) {
	var buf [1]byte

	for i := range out {
		if busyNS > 0 {
			timeutil.BusyWait(busyNS)
		}

		start := timeutil.Now()
		if !pingPong(client, peer, buf[:]) {
			out[i] = FailedSample
			continue
		}
		end := timeutil.Now()

		// Half of the round trip approximates the one-way latency.
		out[i] = (end - start) / 2
	}
}

// pingPong pushes one byte client -> peer -> client.
func pingPong(client, peer net.Conn, buf []byte) bool {
	if _, err := client.Write(buf); err != nil {
		return false
	}
	if _, err := io.ReadFull(peer, buf); err != nil {
		return false
	}
	if _, err := peer.Write(buf); err != nil {
		return false
	}
	if _, err := io.ReadFull(client, buf); err != nil {
		return false
	}
	return true
}

func fillFailed(out []int64) {
	for i := range out {
		out[i] = FailedSample
	}
}
