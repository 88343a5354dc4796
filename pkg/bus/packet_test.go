package bus

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func frameSum(frame []byte) (sum byte) {
	for _, b := range frame {
		sum += b
	}
	return
}

func TestPacketRoundTrip(t *testing.T) {
	for size := 0; size <= MaxPayloadSize; size++ {
		payload := make([]byte, size)
		for n := range payload {
			payload[n] = byte(n*7 + size)
		}
		pkt, err := NewPacket(payload)
		require.NoErrorf(t, err, "size %d", size)
		frame := pkt.Bytes()
		require.Equalf(t, size+FrameOverhead, len(frame), "size %d", size)
		require.Equalf(t, SOH, frame[0], "size %d", size)
		require.Equalf(t, byte(len(frame)), frame[1], "size %d", size)
		require.Equalf(t, byte(0), frameSum(frame), "size %d", size)
		require.Truef(t, pkt.IsValid(), "size %d", size)

		parsed, err := ParsePacket(frame)
		require.NoErrorf(t, err, "size %d", size)
		require.Truef(t, bytes.Equal(payload, parsed.Payload()), "size %d payload mismatch", size)
		require.Truef(t, bytes.Equal(payload, pkt.Payload()), "size %d payload mismatch", size)
	}
}

func TestPacketTooLarge(t *testing.T) {
	_, err := NewPacket(make([]byte, MaxPayloadSize+1))
	require.Equal(t, ErrPayloadTooLarge, err)
}

func TestEmptyPacket(t *testing.T) {
	pkt := EmptyPacket()
	require.Equal(t, []byte{SOH, 3, 0xfc}, pkt.Bytes())
	require.Empty(t, pkt.Payload())
	require.Equal(t, "01:03:fc", pkt.String())
	require.False(t, Packet{}.IsValid())
}

func TestPacketDetectsSingleBitErrors(t *testing.T) {
	pkt, err := NewPacket([]byte{0x10, 0x20, 0x30, 0x40})
	require.NoError(t, err)
	for pos := 0; pos < pkt.Len(); pos++ {
		for bit := uint(0); bit < 8; bit++ {
			frame := pkt.Bytes()
			frame[pos] ^= 1 << bit
			require.Falsef(t, IsValidFrame(frame), "flip byte %d bit %d", pos, bit)
		}
	}
}

func TestPacketMissesCompensatingErrors(t *testing.T) {
	pkt, err := NewPacket([]byte{0x10, 0x20})
	require.NoError(t, err)
	frame := pkt.Bytes()
	frame[2]++
	frame[3]--
	require.True(t, IsValidFrame(frame))
}

func TestIsValidFrame(t *testing.T) {
	require.False(t, IsValidFrame(nil))
	require.False(t, IsValidFrame([]byte{}))
	require.False(t, IsValidFrame([]byte{SOH}))
	require.False(t, IsValidFrame([]byte{SOH, 6, 1}))
	require.False(t, IsValidFrame([]byte{0x02, 3, 0xfb}))
	require.True(t, IsValidFrame([]byte{SOH, 3, 0xfc}))
}

func TestParsePacketLengthMismatch(t *testing.T) {
	frame := append(EmptyPacket().Bytes(), 0x10, 0xf0)
	require.True(t, IsValidFrame(frame))
	_, err := ParsePacket(frame)
	require.Equal(t, ErrInvalidFrame, err)

	_, err = ParsePacket([]byte{SOH, 3, 0xfd})
	require.Equal(t, ErrInvalidFrame, err)
}

func TestParsePacketCopiesFrame(t *testing.T) {
	frame := EmptyPacket().Bytes()
	pkt, err := ParsePacket(frame)
	require.NoError(t, err)
	frame[2] = 0
	require.True(t, pkt.IsValid())
}
