package bus

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/golang/glog"
)

// Timeouts used by Master.
const (
	// DefaultTimeout is how long a request waits for its reply.
	DefaultTimeout = 10 * time.Millisecond
	// FlashWriteTimeout applies to writes into the non-volatile region,
	// flash pages are slow to erase and program.
	FlashWriteTimeout = 100 * time.Millisecond
	// RAMWriteTimeout applies to writes into the volatile region.
	RAMWriteTimeout = 10 * time.Millisecond
	// FlashRegionEnd is the first address outside the non-volatile region.
	FlashRegionEnd = 256
)

// PingReply is the result of a successful ping.
type PingReply struct {
	DeviceID     byte
	VersionMajor byte
	VersionMinor byte
	Latency      time.Duration
}

// LatencyMs returns the round trip in milliseconds.
func (r PingReply) LatencyMs() float64 {
	return float64(r.Latency) / float64(time.Millisecond)
}

// Master issues requests to devices on the bus.
// Only one exchange is in flight at a time; concurrent callers are
// serialized, since replies carry no request id.
type Master struct {
	proto   *Protocol
	addr    Addr
	timeout time.Duration
	lock    sync.Mutex
}

// NewMaster creates a Master with address addr using the Protocol.
func NewMaster(proto *Protocol, addr Addr) *Master {
	return &Master{proto: proto, addr: addr, timeout: DefaultTimeout}
}

// Addr gets the address of the master.
func (m *Master) Addr() Addr {
	return m.addr
}

// Timeout gets the reply timeout.
func (m *Master) Timeout() time.Duration {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.timeout
}

// SetTimeout sets the reply timeout.
func (m *Master) SetTimeout(timeout time.Duration) {
	m.lock.Lock()
	m.timeout = timeout
	m.lock.Unlock()
}

// Ping checks a device and retrieves its type and firmware version.
func (m *Master) Ping(target Addr) (reply PingReply, err error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	start := time.Now()
	defer func() { m.done("ping", target, start, err) }()

	msg, err := m.exchange("ping", NewMessage(m.addr, target, MsgPing))
	if err != nil {
		return
	}
	if msg.ID != MsgPingReply {
		err = &ProtocolError{Op: "ping", Got: msg.ID}
		return
	}
	if len(msg.Payload) < 3 {
		err = &ProtocolError{Op: "ping", Got: msg.ID, Detail: "short payload"}
		return
	}
	reply.Latency = time.Since(start)
	reply.DeviceID = msg.Payload[0]
	reply.VersionMajor, reply.VersionMinor = msg.Payload[1], msg.Payload[2]
	return
}

// Broadcast sends a message to all devices. Nothing is expected back.
func (m *Master) Broadcast(id MsgID, payload ...byte) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.proto.SendMessage(NewMessage(m.addr, BroadcastAddr, id, payload...))
}

// Sync broadcasts SYNC so all devices start a sampling cycle together.
func (m *Master) Sync() error {
	return m.Broadcast(MsgSync)
}

// ReadMemory reads size bytes at address from the device memory.
// The length of the reply isn't checked against size.
func (m *Master) ReadMemory(target Addr, address uint16, size byte) (data []byte, err error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	start := time.Now()
	defer func() { m.done("read", target, start, err) }()

	payload := make([]byte, 3)
	binary.LittleEndian.PutUint16(payload, address)
	payload[2] = size
	msg, err := m.exchange("read", NewMessage(m.addr, target, MsgRead, payload...))
	if err != nil {
		return nil, err
	}
	if msg.ID != MsgReadValue {
		return nil, &ProtocolError{Op: "read", Got: msg.ID}
	}
	return msg.Payload, nil
}

// WriteMemory writes data at address into the device memory.
// It returns false if the device rejected the write, and an error if the
// write couldn't be delivered or the reply is unexpected.
func (m *Master) WriteMemory(target Addr, address uint16, data []byte) (ok bool, err error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	start := time.Now()
	defer func() { m.done("write", target, start, err) }()

	payload := make([]byte, 2, 2+len(data))
	binary.LittleEndian.PutUint16(payload, address)
	payload = append(payload, data...)

	timeout := RAMWriteTimeout
	if address < FlashRegionEnd {
		timeout = FlashWriteTimeout
	}
	var msg *Message
	m.withTimeout(timeout, func() {
		msg, err = m.exchange("write", NewMessage(m.addr, target, MsgWrite, payload...))
	})
	if err != nil {
		return false, err
	}
	switch msg.ID {
	case MsgAckOK:
		return true, nil
	case MsgAckNOK:
		return false, nil
	}
	return false, &ProtocolError{Op: "write", Got: msg.ID}
}

// withTimeout runs fn with the timeout temporarily replaced.
// Must be called with lock held.
func (m *Master) withTimeout(timeout time.Duration, fn func()) {
	saved := m.timeout
	m.timeout = timeout
	defer func() { m.timeout = saved }()
	fn()
}

// exchange sends a request and waits for the reply.
// Must be called with lock held.
func (m *Master) exchange(op string, req *Message) (*Message, error) {
	if err := m.proto.SendMessage(req); err != nil {
		return nil, err
	}
	reply, err := m.proto.ReadMessage(m.timeout)
	if err == ErrTimeout {
		return nil, &TimeoutError{Op: op}
	}
	return reply, err
}

func (m *Master) done(op string, target Addr, start time.Time, err error) {
	elapsed := time.Since(start)
	m.proto.observer().ExchangeDone(op, elapsed, err)
	if glog.V(2) {
		if err != nil {
			glog.Infof("%s %02x: %v (%s)", op, byte(target), err, elapsed)
		} else {
			glog.Infof("%s %02x: ok (%s)", op, byte(target), elapsed)
		}
	}
}
