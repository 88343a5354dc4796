package sim

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/xerxes.go/pkg/bus"
)

// DefaultPollInterval is how long Bus waits for bytes before checking for
// cancellation.
const DefaultPollInterval = 10 * time.Millisecond

// Bus is a line of simulated devices sharing one transport.
type Bus struct {
	PollInterval time.Duration

	devices map[bus.Addr]*Device
	lock    sync.RWMutex
}

// NewBus creates a Bus with devices.
func NewBus(devices ...*Device) *Bus {
	b := &Bus{PollInterval: DefaultPollInterval, devices: make(map[bus.Addr]*Device)}
	b.Add(devices...)
	return b
}

// Add attaches devices to the bus.
func (b *Bus) Add(devices ...*Device) *Bus {
	b.lock.Lock()
	defer b.lock.Unlock()
	for _, d := range devices {
		b.devices[d.Addr] = d
	}
	return b
}

// Device finds a device by address.
func (b *Bus) Device(addr bus.Addr) *Device {
	b.lock.RLock()
	defer b.lock.RUnlock()
	return b.devices[addr]
}

// Dispatch delivers msg to addressed devices and returns the reply.
func (b *Bus) Dispatch(msg *bus.Message) (*bus.Message, time.Duration) {
	if msg.IsBroadcast() {
		b.lock.RLock()
		devices := make([]*Device, 0, len(b.devices))
		for _, d := range b.devices {
			devices = append(devices, d)
		}
		b.lock.RUnlock()
		for _, d := range devices {
			d.Handle(msg)
		}
		return nil, 0
	}
	if d := b.Device(msg.Dst); d != nil {
		return d.Handle(msg)
	}
	return nil, 0
}

// Run serves requests from t until ctx is done or t fails.
func (b *Bus) Run(ctx context.Context, t bus.Transport) error {
	var parser bus.Parser
	proto := bus.NewProtocol(t)
	poll := b.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	buf := make([]byte, bus.MaxFrameSize)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := t.Receive(buf, poll)
		if err != nil {
			return err
		}
		for _, c := range buf[:n] {
			pr := parser.Parse(c)
			if pr.Packet == nil {
				continue
			}
			msg, err := bus.MessageFromPacket(*pr.Packet)
			if err != nil {
				glog.V(2).Infof("sim: bad message: %v", err)
				continue
			}
			reply, delay := b.Dispatch(msg)
			if reply == nil {
				continue
			}
			if delay > 0 {
				time.Sleep(delay)
			}
			if err = proto.SendMessage(reply); err != nil {
				return err
			}
		}
	}
}
