// Package devid maps device type bytes reported by ping to sensor classes.
package devid

import "fmt"

// ID is the device type reported in a ping reply.
type ID byte

// Known device types.
const (
	TempDS18B20         ID = 0x02
	Pressure600mbar     ID = 0x03
	Pressure60mbar      ID = 0x04
	Strain24bit         ID = 0x11
	IO8DI8DO            ID = 0x20
	IO4DI4DO            ID = 0x21
	IO4AI               ID = 0x22
	IO3AI               ID = 0x23
	Encoder1000PPR      ID = 0x2A
	Cutter              ID = 0x2B
	Welder              ID = 0x2C
	AngleXY90           ID = 0x30
	AngleXY30           ID = 0x31
	AccelXYZ            ID = 0x32
	Dist22mm            ID = 0x40
	Dist225mm           ID = 0x41
	AirPolCoNoxVoc      ID = 0x50
	AirPolPM            ID = 0x51
	AirPolCoNoxVocPM    ID = 0x52
	AirPolCoNoxVocPMGPS ID = 0x53
	LightSoundPollution ID = 0x60
)

// Info describes a device type.
type Info struct {
	Name        string
	Description string
}

var registry = map[ID]Info{
	TempDS18B20:         {"TEMP_DS18B20", "temperature sensor DS18B20"},
	Pressure600mbar:     {"PRESSURE_600MBAR", "pressure 0-600mbar in Pa, 2 external temperature sensors in mK"},
	Pressure60mbar:      {"PRESSURE_60MBAR", "pressure 0-60mbar in Pa, 2 external temperature sensors in mK"},
	Strain24bit:         {"STRAIN_24BIT", "strain gauge 0-2^24, 2 external temperature sensors in mK"},
	IO8DI8DO:            {"IO_8DI_8DO", "8 digital inputs, 8 digital outputs"},
	IO4DI4DO:            {"IO_4DI_4DO", "4 digital inputs, 4 digital outputs"},
	IO4AI:               {"IO_4AI", "4 analog inputs"},
	IO3AI:               {"IO_3AI", "3 analog inputs, discrete 16bit"},
	Encoder1000PPR:      {"ENC_1000PPR", "encoder reader"},
	Cutter:              {"CUTTER", "cutter"},
	Welder:              {"WELDER", "welder"},
	AngleXY90:           {"ANGLE_XY_90", "inclinometer SCL3300"},
	AngleXY30:           {"ANGLE_XY_30", "inclinometer SCL3400"},
	AccelXYZ:            {"ACCEL_XYZ", "SCL3300 in accelerometer mode"},
	Dist22mm:            {"DIST_22MM", "resistive linear distance 0-22mm"},
	Dist225mm:           {"DIST_225MM", "resistive linear distance 0-225mm"},
	AirPolCoNoxVoc:      {"AIR_POL_CO_NOX_VOC", "air pollution CO/NOx/VOC"},
	AirPolPM:            {"AIR_POL_PM", "air pollution particulate matter"},
	AirPolCoNoxVocPM:    {"AIR_POL_CO_NOX_VOC_PM", "air pollution CO/NOx/VOC/PM"},
	AirPolCoNoxVocPMGPS: {"AIR_POL_CO_NOX_VOC_PM_GPS", "air pollution CO/NOx/VOC/PM with GPS"},
	LightSoundPollution: {"LIGHT_SOUND_POLLUTION", "light and sound pollution"},
}

// Lookup finds the Info of a device type.
func Lookup(id ID) (Info, bool) {
	info, ok := registry[id]
	return info, ok
}

// Known tells if id is a registered device type.
func (id ID) Known() bool {
	_, ok := registry[id]
	return ok
}

// Name returns the symbolic name, or empty for unknown types.
func (id ID) Name() string {
	return registry[id].Name
}

// String implements fmt.Stringer.
func (id ID) String() string {
	if info, ok := registry[id]; ok {
		return info.Name
	}
	return fmt.Sprintf("DEVID_%02x", byte(id))
}
