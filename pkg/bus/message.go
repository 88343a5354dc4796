package bus

import "fmt"

// Addr is a device address on the bus.
type Addr byte

// BroadcastAddr addresses all devices. Nobody replies to it.
const BroadcastAddr Addr = 0xff

// MsgID identifies the kind of a message.
type MsgID byte

// Message kinds shared with leaf firmware.
const (
	MsgPing      MsgID = 0x00
	MsgPingReply MsgID = 0x01
	MsgAckOK     MsgID = 0x02
	MsgAckNOK    MsgID = 0x03
	MsgSync      MsgID = 0x08
	MsgWrite     MsgID = 0x20
	MsgRead      MsgID = 0x30
	MsgReadValue MsgID = 0x31
)

var msgNames = map[MsgID]string{
	MsgPing:      "PING",
	MsgPingReply: "PING_REPLY",
	MsgAckOK:     "ACK_OK",
	MsgAckNOK:    "ACK_NOK",
	MsgSync:      "SYNC",
	MsgWrite:     "WRITE",
	MsgRead:      "READ",
	MsgReadValue: "READ_VALUE",
}

// String implements fmt.Stringer.
func (id MsgID) String() string {
	if name, ok := msgNames[id]; ok {
		return name
	}
	return fmt.Sprintf("MSG_%02x", byte(id))
}

// MessageHeaderSize is the number of bytes ahead of message payload.
const MessageHeaderSize = 3

// MaxMessagePayload is the largest payload a Message can carry in one frame.
const MaxMessagePayload = MaxPayloadSize - MessageHeaderSize

// Message is an addressed, typed unit carried in a Packet.
type Message struct {
	Src     Addr
	Dst     Addr
	ID      MsgID
	Payload []byte
}

// NewMessage creates a Message.
func NewMessage(src, dst Addr, id MsgID, payload ...byte) *Message {
	return &Message{Src: src, Dst: dst, ID: id, Payload: payload}
}

// Bytes encodes the message as: DST | SRC | MSGID | PAYLOAD.
func (m *Message) Bytes() []byte {
	b := make([]byte, MessageHeaderSize+len(m.Payload))
	b[0], b[1], b[2] = byte(m.Dst), byte(m.Src), byte(m.ID)
	copy(b[MessageHeaderSize:], m.Payload)
	return b
}

// Packet frames the message.
func (m *Message) Packet() (Packet, error) {
	return NewPacket(m.Bytes())
}

// IsBroadcast tells if the message is addressed to all devices.
func (m *Message) IsBroadcast() bool {
	return m.Dst == BroadcastAddr
}

// String implements fmt.Stringer.
func (m *Message) String() string {
	return fmt.Sprintf("%02x->%02x %s [% x]", byte(m.Src), byte(m.Dst), m.ID, m.Payload)
}

// DecodeMessage decodes the payload of a packet.
func DecodeMessage(b []byte) (*Message, error) {
	if len(b) < MessageHeaderSize {
		return nil, ErrShortMessage
	}
	msg := &Message{
		Dst: Addr(b[0]),
		Src: Addr(b[1]),
		ID:  MsgID(b[2]),
	}
	msg.Payload = append([]byte{}, b[MessageHeaderSize:]...)
	return msg, nil
}

// MessageFromPacket decodes the message carried by pkt.
func MessageFromPacket(pkt Packet) (*Message, error) {
	return DecodeMessage(FramePayload(pkt.frame))
}
