package bus

import (
	"fmt"
	"strings"
)

const (
	// SOH marks the start of a frame.
	SOH byte = 0x01
	// FrameOverhead is the number of framing bytes: SOH, LEN and CHECKSUM.
	FrameOverhead = 3
	// MaxFrameSize is the largest value LEN can hold.
	MaxFrameSize = 255
	// MaxPayloadSize is the largest payload a single frame carries.
	MaxPayloadSize = MaxFrameSize - FrameOverhead
)

// Packet is a complete, validated frame. It's immutable once created.
type Packet struct {
	frame []byte
}

// Checksum calculates the byte which brings the sum of all bytes to zero.
func Checksum(data ...byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return -sum
}

// NewPacket frames a payload.
func NewPacket(payload []byte) (Packet, error) {
	if len(payload) > MaxPayloadSize {
		return Packet{}, ErrPayloadTooLarge
	}
	frame := make([]byte, len(payload)+FrameOverhead)
	frame[0], frame[1] = SOH, byte(len(frame))
	copy(frame[2:], payload)
	frame[len(frame)-1] = Checksum(frame[:len(frame)-1]...)
	return Packet{frame: frame}, nil
}

// EmptyPacket returns the frame carrying no payload.
func EmptyPacket() Packet {
	pkt, _ := NewPacket(nil)
	return pkt
}

// ParsePacket validates a complete frame and wraps a copy of it.
func ParsePacket(frame []byte) (Packet, error) {
	if !IsValidFrame(frame) || len(frame) < FrameOverhead || int(frame[1]) != len(frame) {
		return Packet{}, ErrInvalidFrame
	}
	return Packet{frame: append([]byte(nil), frame...)}, nil
}

// IsValidFrame checks the start marker and the checksum of frame.
// It never looks at LEN, so it's safe on truncated input.
func IsValidFrame(frame []byte) bool {
	if len(frame) == 0 || frame[0] != SOH {
		return false
	}
	var sum byte
	for _, b := range frame {
		sum += b
	}
	return sum == 0
}

// FramePayload extracts the payload from a frame which passed IsValidFrame.
func FramePayload(frame []byte) []byte {
	if len(frame) < FrameOverhead {
		return nil
	}
	return frame[2 : len(frame)-1]
}

// Bytes returns a copy of the encoded frame.
func (p Packet) Bytes() []byte {
	return append([]byte(nil), p.frame...)
}

// Payload returns a copy of the payload.
func (p Packet) Payload() []byte {
	return append([]byte(nil), FramePayload(p.frame)...)
}

// Len is the size of the frame in bytes.
func (p Packet) Len() int {
	return len(p.frame)
}

// IsValid tells if the packet holds a valid frame. The zero Packet doesn't.
func (p Packet) IsValid() bool {
	return IsValidFrame(p.frame)
}

// String formats the frame as colon separated hex.
func (p Packet) String() string {
	parts := make([]string, len(p.frame))
	for n, b := range p.frame {
		parts[n] = fmt.Sprintf("%02x", b)
	}
	return strings.Join(parts, ":")
}
