package bus

import "time"

// Transport moves raw bytes over a physical medium. It knows nothing about
// frames.
type Transport interface {
	// Send writes p and returns the number of bytes accepted.
	Send(p []byte) (int, error)
	// Receive reads up to len(p) bytes. It waits at most timeout for data to
	// arrive and returns 0 with a nil error if nothing did.
	Receive(p []byte, timeout time.Duration) (int, error)
}

// Observer is notified about protocol activity. It's used for metrics.
type Observer interface {
	FrameSent(size int)
	FrameReceived(size int)
	FrameDropped(reason DropReason)
	ExchangeDone(op string, elapsed time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) FrameSent(int)                             {}
func (nopObserver) FrameReceived(int)                         {}
func (nopObserver) FrameDropped(DropReason)                   {}
func (nopObserver) ExchangeDone(string, time.Duration, error) {}

// NopObserver ignores everything.
var NopObserver Observer = nopObserver{}
