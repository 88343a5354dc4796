// Package loopback provides an in-memory bus medium.
package loopback

import (
	"io"

	"github.com/robotalks/xerxes.go/pkg/transport/stream"
)

// Endpoint is one end of a simulated line.
type Endpoint struct {
	*stream.ReadWriter
}

type pipeEnd struct {
	*io.PipeReader
	*io.PipeWriter
}

func (p *pipeEnd) Close() error {
	p.PipeReader.Close()
	return p.PipeWriter.Close()
}

// Pipe creates two connected endpoints. Bytes sent on one are received on
// the other.
func Pipe() (*Endpoint, *Endpoint) {
	ar, bw := io.Pipe()
	br, aw := io.Pipe()
	a := &Endpoint{ReadWriter: stream.New(&pipeEnd{PipeReader: ar, PipeWriter: aw})}
	b := &Endpoint{ReadWriter: stream.New(&pipeEnd{PipeReader: br, PipeWriter: bw})}
	return a, b
}
