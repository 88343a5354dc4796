// Package memmap describes the register space shared by master and device
// firmware. All values are little-endian.
package memmap

// FlashPageSize is the size of a flash page on the device.
const FlashPageSize = 256

// Region boundaries.
const (
	VolatileOffset = FlashPageSize
	ReadOnlyOffset = FlashPageSize * 2
	MessageOffset  = FlashPageSize * 3
	RegisterSize   = FlashPageSize * 16
)

// Non-volatile (flash backed) range.
const (
	GainPV0 = 0
	GainPV1 = 4
	GainPV2 = 8
	GainPV3 = 12

	OffsetPV0 = 16
	OffsetPV1 = 20
	OffsetPV2 = 24
	OffsetPV3 = 28

	// DesiredCycleTime in microseconds, 4 bytes.
	DesiredCycleTime = 32
	// ConfigBits, 1 byte.
	ConfigBits = 40
	// DeviceAddress, 1 byte.
	DeviceAddress = 44

	ConfigVal0 = 48
	ConfigVal1 = 52
	ConfigVal2 = 56
	ConfigVal3 = 60
)

// Volatile (RAM backed) range.
const (
	PV0 = VolatileOffset + 0
	PV1 = VolatileOffset + 4
	PV2 = VolatileOffset + 8
	PV3 = VolatileOffset + 12

	MeanPV0 = VolatileOffset + 16
	MeanPV1 = VolatileOffset + 20
	MeanPV2 = VolatileOffset + 24
	MeanPV3 = VolatileOffset + 28

	StdDevPV0 = VolatileOffset + 32
	StdDevPV1 = VolatileOffset + 36
	StdDevPV2 = VolatileOffset + 40
	StdDevPV3 = VolatileOffset + 44

	MinPV0 = VolatileOffset + 48
	MinPV1 = VolatileOffset + 52
	MinPV2 = VolatileOffset + 56
	MinPV3 = VolatileOffset + 60

	MaxPV0 = VolatileOffset + 64
	MaxPV1 = VolatileOffset + 68
	MaxPV2 = VolatileOffset + 72
	MaxPV3 = VolatileOffset + 76

	DV0 = VolatileOffset + 80
	DV1 = VolatileOffset + 84
	DV2 = VolatileOffset + 88
	DV3 = VolatileOffset + 92

	AV0 = VolatileOffset + 96
	AV1 = VolatileOffset + 100
	AV2 = VolatileOffset + 104
	AV3 = VolatileOffset + 108

	SV0 = VolatileOffset + 112
	SV1 = VolatileOffset + 116
	SV2 = VolatileOffset + 120
	SV3 = VolatileOffset + 124

	// MemUnlocked holds MemUnlockedVal while the memory is unlocked, 4 bytes.
	MemUnlocked = VolatileOffset + 128
)

// Read-only range.
const (
	Status       = ReadOnlyOffset + 0
	Error        = ReadOnlyOffset + 8
	UID          = ReadOnlyOffset + 16
	NetCycleTime = ReadOnlyOffset + 32
)

// Config bit masks.
const (
	// ConfigFreeRun makes the device sample on its own instead of waiting for SYNC.
	ConfigFreeRun = 1 << 0
	// ConfigCalcStats enables calculation of statistics.
	ConfigCalcStats = 1 << 1
)

// MemUnlockedVal unlocks the device memory when written to MemUnlocked.
// It's not a secret, just unlikely to be written by accident.
const MemUnlockedVal uint32 = 0x55AA55AA

// Region classifies an address.
type Region int

// Regions.
const (
	RegionConfig Region = iota
	RegionVolatile
	RegionReadOnly
	RegionOutOfRange
)

// String implements fmt.Stringer.
func (r Region) String() string {
	switch r {
	case RegionConfig:
		return "config"
	case RegionVolatile:
		return "volatile"
	case RegionReadOnly:
		return "read-only"
	}
	return "out-of-range"
}

// RegionOf tells which region addr falls into.
func RegionOf(addr int) Region {
	switch {
	case addr < 0 || addr >= RegisterSize:
		return RegionOutOfRange
	case addr < VolatileOffset:
		return RegionConfig
	case addr < ReadOnlyOffset:
		return RegionVolatile
	}
	return RegionReadOnly
}

// Writable tells if a master may write size bytes at addr.
func Writable(addr, size int) bool {
	if size < 1 {
		size = 1
	}
	return addr >= 0 && addr+size <= ReadOnlyOffset
}
