package bus

import (
	"time"

	"github.com/golang/glog"
)

// Protocol converts Messages to frames over a Transport and back.
// It's not safe for concurrent use; Master serializes access to it.
type Protocol struct {
	Transport Transport
	Observer  Observer

	parser Parser
	buf    [MaxFrameSize]byte
}

// NewProtocol creates a Protocol over a Transport.
func NewProtocol(t Transport) *Protocol {
	return &Protocol{Transport: t, Observer: NopObserver}
}

func (p *Protocol) observer() Observer {
	if p.Observer == nil {
		return NopObserver
	}
	return p.Observer
}

// SendMessage frames msg and writes it to the transport.
func (p *Protocol) SendMessage(msg *Message) error {
	pkt, err := msg.Packet()
	if err != nil {
		return err
	}
	return p.SendPacket(pkt)
}

// SendPacket writes a frame to the transport.
func (p *Protocol) SendPacket(pkt Packet) error {
	n, err := p.Transport.Send(pkt.frame)
	if err != nil {
		return err
	}
	if n != len(pkt.frame) {
		return ErrShortWrite
	}
	p.observer().FrameSent(n)
	if glog.V(4) {
		glog.Infof("TX %s", pkt)
	}
	return nil
}

// ReadMessage waits for the next valid frame and decodes the message in it.
func (p *Protocol) ReadMessage(timeout time.Duration) (*Message, error) {
	pkt, err := p.ReadPacket(timeout)
	if err != nil {
		return nil, err
	}
	return MessageFromPacket(pkt)
}

// ReadPacket waits for the next valid frame. Noise and corrupted frames are
// skipped, but every byte read counts against the same deadline, so the call
// never takes much longer than timeout. It returns ErrTimeout when the
// deadline passes, or the line goes quiet in the middle of a frame.
func (p *Protocol) ReadPacket(timeout time.Duration) (Packet, error) {
	deadline := time.Now().Add(timeout)
	p.parser.Reset()
	for time.Now().Before(deadline) {
		chunk := p.buf[:p.parser.Need()]
		if err := p.readFull(chunk, deadline); err != nil {
			return Packet{}, err
		}
		for _, b := range chunk {
			pr := p.parser.Parse(b)
			if pr.Drop != DropNone {
				p.observer().FrameDropped(pr.Drop)
				if glog.V(4) {
					glog.Infof("RX drop %s (%02x)", pr.Drop, b)
				}
			}
			if pr.Packet != nil {
				p.observer().FrameReceived(pr.Packet.Len())
				if glog.V(4) {
					glog.Infof("RX %s", pr.Packet)
				}
				return *pr.Packet, nil
			}
		}
	}
	return Packet{}, ErrTimeout
}

// readFull fills buf from the transport, giving each read whatever is left
// until deadline.
func (p *Protocol) readFull(buf []byte, deadline time.Time) error {
	for got := 0; got < len(buf); {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return ErrTimeout
		}
		n, err := p.Transport.Receive(buf[got:], remaining)
		got += n
		if err != nil {
			return err
		}
	}
	return nil
}
