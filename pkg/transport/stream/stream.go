// Package stream provides bus.Transport over an io.ReadWriter.
package stream

import (
	"io"
	"sync"
	"time"
)

// ReadWriter implements bus.Transport over an io.ReadWriter which has no
// notion of read timeouts (e.g. net.Conn, pipes). A background goroutine
// pumps incoming bytes so Receive can give up after a timeout without
// losing data.
type ReadWriter struct {
	rw io.ReadWriter

	dataCh    chan []byte
	errCh     chan error
	closeCh   chan struct{}
	closeOnce sync.Once

	pending []byte
	err     error
}

// ReadBufferSize is the size of a single read from the underlying stream.
const ReadBufferSize = 256

// New creates a ReadWriter with io.ReadWriter and starts pumping.
func New(rw io.ReadWriter) *ReadWriter {
	s := &ReadWriter{
		rw:      rw,
		dataCh:  make(chan []byte, 16),
		errCh:   make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go s.readLoop()
	return s
}

// Send implements bus.Transport.
func (s *ReadWriter) Send(p []byte) (int, error) {
	return s.rw.Write(p)
}

// Receive implements bus.Transport.
func (s *ReadWriter) Receive(p []byte, timeout time.Duration) (int, error) {
	if len(s.pending) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		if timeout <= 0 {
			select {
			case s.pending = <-s.dataCh:
			default:
				return 0, nil
			}
		} else {
			timer := time.NewTimer(timeout)
			defer timer.Stop()
			select {
			case s.pending = <-s.dataCh:
			case err := <-s.errCh:
				// deliver what arrived before the error first.
				select {
				case s.pending = <-s.dataCh:
					s.errCh <- err
				default:
					s.err = err
					return 0, err
				}
			case <-timer.C:
				return 0, nil
			}
		}
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

// Drain discards bytes received so far.
func (s *ReadWriter) Drain() {
	s.pending = nil
	for {
		select {
		case <-s.dataCh:
		default:
			return
		}
	}
}

// Close implements io.Closer. The underlying stream is closed if it's a Closer.
func (s *ReadWriter) Close() (err error) {
	s.closeOnce.Do(func() {
		close(s.closeCh)
		if closer, ok := s.rw.(io.Closer); ok {
			err = closer.Close()
		}
	})
	return
}

func (s *ReadWriter) readLoop() {
	for {
		buf := make([]byte, ReadBufferSize)
		n, err := s.rw.Read(buf)
		if n > 0 {
			select {
			case s.dataCh <- buf[:n]:
			case <-s.closeCh:
				return
			}
		}
		if err != nil {
			s.errCh <- err
			return
		}
	}
}
