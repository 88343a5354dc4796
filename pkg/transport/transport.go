// Package transport opens bus transports from URLs.
package transport

import (
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/robotalks/xerxes.go/pkg/bus"
	"github.com/robotalks/xerxes.go/pkg/transport/serial"
	"github.com/robotalks/xerxes.go/pkg/transport/stream"
	"github.com/robotalks/xerxes.go/pkg/transport/websocket"
)

// Conn is an opened transport.
type Conn interface {
	bus.Transport
	io.Closer
}

// DialTimeout is used when connecting to network transports.
var DialTimeout = 5 * time.Second

// Open opens a transport from URL:
//
//	serial:///dev/ttyUSB0?baud=115200
//	serial://COM3
//	tcp://host:port
//	ws://host:port/path
func Open(rawURL string) (Conn, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid transport URL: %w", err)
	}
	switch u.Scheme {
	case "serial":
		config := serial.Config{Port: u.Path}
		if u.Opaque != "" {
			config.Port = u.Opaque
		}
		// serial://COM3
		if config.Port == "" {
			config.Port = u.Host
		}
		if config.Port == "" {
			return nil, fmt.Errorf("serial port required: %q", rawURL)
		}
		if baud := u.Query().Get("baud"); baud != "" {
			if config.BaudRate, err = strconv.Atoi(baud); err != nil {
				return nil, fmt.Errorf("invalid baud rate %q: %w", baud, err)
			}
		}
		port, err := serial.Open(config)
		if err != nil {
			return nil, err
		}
		return port, nil
	case "tcp":
		conn, err := net.DialTimeout("tcp", u.Host, DialTimeout)
		if err != nil {
			return nil, err
		}
		return stream.New(conn), nil
	case "ws", "wss":
		origin := "http://" + u.Host
		if u.Scheme == "wss" {
			origin = "https://" + u.Host
		}
		conn, err := websocket.Dial(rawURL, origin)
		if err != nil {
			return nil, err
		}
		return conn, nil
	default:
		return nil, fmt.Errorf("unknown transport URL scheme: %q", u.Scheme)
	}
}
