// Package websocket provides bus.Transport over a binary websocket, e.g. a
// network bridge in front of an RS-485 line.
package websocket

import (
	"golang.org/x/net/websocket"

	"github.com/robotalks/xerxes.go/pkg/transport/stream"
)

// ReadWriter implements bus.Transport.
type ReadWriter struct {
	*stream.ReadWriter
	Conn *websocket.Conn
}

// New wraps websocket.Conn. Outgoing bytes are sent as binary frames.
func New(conn *websocket.Conn) *ReadWriter {
	conn.PayloadType = websocket.BinaryFrame
	return &ReadWriter{ReadWriter: stream.New(conn), Conn: conn}
}

// Dial connects to a websocket bridge.
func Dial(url, origin string) (*ReadWriter, error) {
	conn, err := websocket.Dial(url, "", origin)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}
