package memmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegionOf(t *testing.T) {
	require.Equal(t, RegionConfig, RegionOf(GainPV0))
	require.Equal(t, RegionConfig, RegionOf(ConfigVal3))
	require.Equal(t, RegionVolatile, RegionOf(PV0))
	require.Equal(t, RegionVolatile, RegionOf(MemUnlocked))
	require.Equal(t, RegionReadOnly, RegionOf(Status))
	require.Equal(t, RegionReadOnly, RegionOf(MessageOffset))
	require.Equal(t, RegionOutOfRange, RegionOf(RegisterSize))
	require.Equal(t, RegionOutOfRange, RegionOf(-1))
	require.Equal(t, "read-only", RegionReadOnly.String())
}

func TestWritable(t *testing.T) {
	require.True(t, Writable(GainPV0, 4))
	require.True(t, Writable(PV0, 4))
	require.True(t, Writable(ReadOnlyOffset-1, 1))
	require.True(t, Writable(PV0, 0))
	require.False(t, Writable(ReadOnlyOffset-2, 4))
	require.False(t, Writable(UID, 1))
	require.False(t, Writable(-1, 1))
}

func TestLayout(t *testing.T) {
	// the firmware relies on these.
	require.Equal(t, 256, VolatileOffset)
	require.Equal(t, 512, ReadOnlyOffset)
	require.Equal(t, 768, MessageOffset)
	require.Equal(t, 4096, RegisterSize)
	require.Equal(t, 384, MemUnlocked)
}
