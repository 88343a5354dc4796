package bus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessageEncoding(t *testing.T) {
	msg := NewMessage(0xfe, 0x01, MsgRead, 0x00, 0x01, 0x04)
	require.Equal(t, []byte{0x01, 0xfe, 0x30, 0x00, 0x01, 0x04}, msg.Bytes())

	pkt, err := msg.Packet()
	require.NoError(t, err)
	require.Equal(t, byte(9), pkt.Bytes()[1])

	decoded, err := MessageFromPacket(pkt)
	require.NoError(t, err)
	require.Equal(t, msg, decoded)
	require.False(t, decoded.IsBroadcast())
}

func TestMessageEmptyPayload(t *testing.T) {
	msg, err := DecodeMessage([]byte{0xff, 0x00, byte(MsgSync)})
	require.NoError(t, err)
	require.True(t, msg.IsBroadcast())
	require.Equal(t, MsgSync, msg.ID)
	require.NotNil(t, msg.Payload)
	require.Empty(t, msg.Payload)
}

func TestMessageTooShort(t *testing.T) {
	_, err := DecodeMessage([]byte{0x01, 0x02})
	require.Equal(t, ErrShortMessage, err)
	_, err = MessageFromPacket(EmptyPacket())
	require.Equal(t, ErrShortMessage, err)
}

func TestMessageMaxPayload(t *testing.T) {
	_, err := NewMessage(0, 1, MsgWrite, make([]byte, MaxMessagePayload)...).Packet()
	require.NoError(t, err)
	_, err = NewMessage(0, 1, MsgWrite, make([]byte, MaxMessagePayload+1)...).Packet()
	require.Equal(t, ErrPayloadTooLarge, err)
}

func TestMsgIDString(t *testing.T) {
	require.Equal(t, "PING_REPLY", MsgPingReply.String())
	require.Equal(t, "READ_VALUE", MsgReadValue.String())
	require.Equal(t, "MSG_7f", MsgID(0x7f).String())
	require.Equal(t, "fe->01 READ [00 01]", NewMessage(0xfe, 1, MsgRead, 0, 1).String())
}
