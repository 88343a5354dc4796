package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/xerxes.go/pkg/bus"
	"github.com/robotalks/xerxes.go/pkg/bus/devid"
	"github.com/robotalks/xerxes.go/pkg/report"
	"github.com/robotalks/xerxes.go/pkg/sim"
	"github.com/robotalks/xerxes.go/pkg/transport/loopback"
)

func newTestScanner(t *testing.T, masterAddr bus.Addr, devices ...*sim.Device) *Scanner {
	masterEnd, busEnd := loopback.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		sim.NewBus(devices...).Run(ctx, busEnd)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		masterEnd.Close()
		busEnd.Close()
	})
	s := NewScanner(bus.NewMaster(bus.NewProtocol(masterEnd), masterAddr))
	s.First, s.Last = 0x00, 0x05
	return s
}

func TestScan(t *testing.T) {
	s := newTestScanner(t, 0x02,
		sim.NewDevice(0x01, devid.TempDS18B20),
		sim.NewDevice(0x04, devid.Strain24bit),
		// never pinged, it shares the master address.
		sim.NewDevice(0x02, devid.Cutter),
	)
	require.Nil(t, s.LastReport())
	require.Empty(t, s.Devices())

	r, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint32(0x02), r.Master)
	require.Equal(t, uint32(0x05), r.Last)
	require.Equal(t, uint32(0), r.Errors)
	require.Len(t, r.Devices, 2)
	require.Equal(t, uint32(0x01), r.Devices[0].Address)
	require.Equal(t, "TEMP_DS18B20", r.Devices[0].DeviceName)
	require.Equal(t, uint32(0x04), r.Devices[1].Address)
	require.Equal(t, uint32(devid.Strain24bit), r.Devices[1].DeviceType)
	require.Equal(t, uint32(1), r.Devices[1].VersionMajor)

	require.Equal(t, r, s.LastReport())
	devices := s.Devices()
	require.Len(t, devices, 2)
	require.Equal(t, uint32(0x01), devices[0].Address)
	d, ok := s.Device(0x04)
	require.True(t, ok)
	require.Equal(t, "STRAIN_24BIT", d.DeviceName)
	_, ok = s.Device(0x02)
	require.False(t, ok)
}

func TestScanCanceled(t *testing.T) {
	s := newTestScanner(t, 0xfe)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Scan(ctx)
	require.Equal(t, context.Canceled, err)
}

func TestRunPublishes(t *testing.T) {
	s := newTestScanner(t, 0xfe, sim.NewDevice(0x03, devid.IO3AI))
	s.Interval = time.Hour
	reports := make(chan *report.ScanReport, 1)
	s.AddSink(SinkFunc(func(r *report.ScanReport) error {
		reports <- r
		return nil
	}))
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Run(ctx)
	}()
	select {
	case r := <-reports:
		require.Len(t, r.Devices, 1)
		require.Equal(t, uint32(0x03), r.Devices[0].Address)
	case <-time.After(5 * time.Second):
		t.Fatal("no report published")
	}
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}
