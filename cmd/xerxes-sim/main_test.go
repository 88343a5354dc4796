package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/xerxes.go/pkg/bus"
	"github.com/robotalks/xerxes.go/pkg/bus/devid"
)

func TestParseDevices(t *testing.T) {
	devs, err := parseDevices("0x01:0x02, 7:0x11,")
	require.NoError(t, err)
	require.Len(t, devs, 2)
	require.Equal(t, bus.Addr(1), devs[0].Addr)
	require.Equal(t, devid.TempDS18B20, devs[0].DeviceID)
	require.Equal(t, bus.Addr(7), devs[1].Addr)
	require.Equal(t, devid.Strain24bit, devs[1].DeviceID)
	require.Equal(t, flashDelay, devs[1].FlashDelay)

	for _, list := range []string{"1", "x:2", "1:0x100", "0xff:2"} {
		_, err = parseDevices(list)
		require.Errorf(t, err, "%q", list)
	}
}
