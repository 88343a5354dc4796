// Package sim simulates leaf devices on a bus, answering the master the way
// device firmware does.
package sim

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/robotalks/xerxes.go/pkg/bus"
	"github.com/robotalks/xerxes.go/pkg/bus/devid"
	"github.com/robotalks/xerxes.go/pkg/bus/memmap"
)

// Device is a simulated leaf with a register file.
type Device struct {
	Addr         bus.Addr
	DeviceID     devid.ID
	VersionMajor byte
	VersionMinor byte
	// FlashDelay delays the reply to writes into the non-volatile region.
	FlashDelay time.Duration

	lock   sync.Mutex
	memory [memmap.RegisterSize]byte
	syncs  int
}

// NewDevice creates a Device with firmware version 1.0.
func NewDevice(addr bus.Addr, id devid.ID) *Device {
	d := &Device{Addr: addr, DeviceID: id, VersionMajor: 1}
	d.memory[memmap.DeviceAddress] = byte(addr)
	return d
}

// Load writes into memory, regardless of the region.
func (d *Device) Load(addr int, data []byte) {
	d.lock.Lock()
	copy(d.memory[addr:], data)
	d.lock.Unlock()
}

// LoadUint32 writes a little-endian uint32 into memory.
func (d *Device) LoadUint32(addr int, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	d.Load(addr, b[:])
}

// Memory returns a copy of size bytes at addr.
func (d *Device) Memory(addr, size int) []byte {
	d.lock.Lock()
	defer d.lock.Unlock()
	return append([]byte(nil), d.memory[addr:addr+size]...)
}

// Syncs gets the number of SYNC messages received.
func (d *Device) Syncs() int {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.syncs
}

// Handle processes a message addressed to the device (or broadcast) and
// returns the reply, if any, and how long to wait before sending it.
func (d *Device) Handle(msg *bus.Message) (*bus.Message, time.Duration) {
	d.lock.Lock()
	defer d.lock.Unlock()
	if msg.IsBroadcast() {
		if msg.ID == bus.MsgSync {
			d.syncs++
		}
		return nil, 0
	}
	switch msg.ID {
	case bus.MsgPing:
		return d.reply(msg, bus.MsgPingReply, byte(d.DeviceID), d.VersionMajor, d.VersionMinor), 0
	case bus.MsgSync:
		d.syncs++
	case bus.MsgRead:
		if len(msg.Payload) < 3 {
			return d.reply(msg, bus.MsgAckNOK), 0
		}
		addr, size := int(binary.LittleEndian.Uint16(msg.Payload)), int(msg.Payload[2])
		if addr+size > len(d.memory) || size > bus.MaxMessagePayload {
			return d.reply(msg, bus.MsgAckNOK), 0
		}
		return d.reply(msg, bus.MsgReadValue, d.memory[addr:addr+size]...), 0
	case bus.MsgWrite:
		if len(msg.Payload) < 2 {
			return d.reply(msg, bus.MsgAckNOK), 0
		}
		addr, data := int(binary.LittleEndian.Uint16(msg.Payload)), msg.Payload[2:]
		if !memmap.Writable(addr, len(data)) {
			return d.reply(msg, bus.MsgAckNOK), 0
		}
		copy(d.memory[addr:], data)
		var delay time.Duration
		if memmap.RegionOf(addr) == memmap.RegionConfig {
			delay = d.FlashDelay
		}
		return d.reply(msg, bus.MsgAckOK), delay
	}
	return nil, 0
}

func (d *Device) reply(req *bus.Message, id bus.MsgID, payload ...byte) *bus.Message {
	return bus.NewMessage(d.Addr, req.Src, id, append([]byte(nil), payload...)...)
}
