package bus

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Leaf is a handle of a single device, bound to a Master.
type Leaf struct {
	addr   Addr
	master *Master
}

// NewLeaf creates a Leaf at addr on master.
func NewLeaf(addr Addr, master *Master) *Leaf {
	return &Leaf{addr: addr, master: master}
}

// Addr gets the device address.
func (l *Leaf) Addr() Addr {
	return l.addr
}

// Ping pings the device.
func (l *Leaf) Ping() (PingReply, error) {
	return l.master.Ping(l.addr)
}

// ReadMemory reads from device memory.
func (l *Leaf) ReadMemory(address uint16, size byte) ([]byte, error) {
	return l.master.ReadMemory(l.addr, address, size)
}

// WriteMemory writes to device memory.
func (l *Leaf) WriteMemory(address uint16, data []byte) (bool, error) {
	return l.master.WriteMemory(l.addr, address, data)
}

func (l *Leaf) readExact(address uint16, size byte) ([]byte, error) {
	data, err := l.ReadMemory(address, size)
	if err != nil {
		return nil, err
	}
	if len(data) < int(size) {
		return nil, &ProtocolError{
			Op:     "read",
			Got:    MsgReadValue,
			Detail: fmt.Sprintf("%d bytes, want %d", len(data), size),
		}
	}
	return data, nil
}

// ReadUint8 reads a single byte.
func (l *Leaf) ReadUint8(address uint16) (uint8, error) {
	data, err := l.readExact(address, 1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

// ReadUint32 reads a little-endian uint32.
func (l *Leaf) ReadUint32(address uint16) (uint32, error) {
	data, err := l.readExact(address, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(data), nil
}

// ReadInt32 reads a little-endian int32.
func (l *Leaf) ReadInt32(address uint16) (int32, error) {
	v, err := l.ReadUint32(address)
	return int32(v), err
}

// ReadFloat32 reads a little-endian IEEE-754 float.
func (l *Leaf) ReadFloat32(address uint16) (float32, error) {
	v, err := l.ReadUint32(address)
	return math.Float32frombits(v), err
}

// WriteUint8 writes a single byte.
func (l *Leaf) WriteUint8(address uint16, v uint8) (bool, error) {
	return l.WriteMemory(address, []byte{v})
}

// WriteUint32 writes a little-endian uint32.
func (l *Leaf) WriteUint32(address uint16, v uint32) (bool, error) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return l.WriteMemory(address, b[:])
}

// WriteInt32 writes a little-endian int32.
func (l *Leaf) WriteInt32(address uint16, v int32) (bool, error) {
	return l.WriteUint32(address, uint32(v))
}

// WriteFloat32 writes a little-endian IEEE-754 float.
func (l *Leaf) WriteFloat32(address uint16, v float32) (bool, error) {
	return l.WriteUint32(address, math.Float32bits(v))
}
