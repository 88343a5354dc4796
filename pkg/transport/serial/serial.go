// Package serial provides bus.Transport over a UART / RS-485 port.
package serial

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"
)

// DefaultBaudRate is the baud rate used by Xerxes devices.
const DefaultBaudRate = 115200

// Config configures a serial port.
type Config struct {
	Port     string
	BaudRate int
}

// Port implements bus.Transport with a serial port.
type Port struct {
	port    serial.Port
	name    string
	timeout time.Duration
}

// Open opens a serial port: 8 data bits, no parity, 1 stop bit.
func Open(config Config) (*Port, error) {
	if config.BaudRate == 0 {
		config.BaudRate = DefaultBaudRate
	}
	mode := &serial.Mode{
		BaudRate: config.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(config.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open port %s: %w", config.Port, err)
	}
	p := &Port{port: port, name: config.Port, timeout: -1}
	if err = port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to reset port %s: %w", config.Port, err)
	}
	glog.Infof("opened %s at %d baud", config.Port, config.BaudRate)
	return p, nil
}

// Ports lists serial ports available on the system.
func Ports() ([]string, error) {
	return serial.GetPortsList()
}

// Name gets the name of the port.
func (p *Port) Name() string {
	return p.name
}

// Send implements bus.Transport.
func (p *Port) Send(data []byte) (int, error) {
	return p.port.Write(data)
}

// Receive implements bus.Transport.
func (p *Port) Receive(data []byte, timeout time.Duration) (int, error) {
	if timeout <= 0 {
		return 0, nil
	}
	// the driver timer has millisecond granularity.
	if timeout < time.Millisecond {
		timeout = time.Millisecond
	}
	if timeout != p.timeout {
		if err := p.port.SetReadTimeout(timeout); err != nil {
			return 0, err
		}
		p.timeout = timeout
	}
	return p.port.Read(data)
}

// Drain discards unread input.
func (p *Port) Drain() error {
	return p.port.ResetInputBuffer()
}

// Close implements io.Closer.
func (p *Port) Close() error {
	return p.port.Close()
}
