package mqtt

import (
	"context"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/xerxes.go/pkg/bus"
	"github.com/robotalks/xerxes.go/pkg/bus/devid"
	"github.com/robotalks/xerxes.go/pkg/sim"
	"github.com/robotalks/xerxes.go/pkg/transport/loopback"
)

func TestReporterSyncOnRequest(t *testing.T) {
	masterEnd, busEnd := loopback.Pipe()
	defer masterEnd.Close()
	defer busEnd.Close()
	dev := sim.NewDevice(0x01, devid.TempDS18B20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		sim.NewBus(dev).Run(ctx, busEnd)
	}()
	defer func() {
		cancel()
		<-done
	}()

	master := bus.NewMaster(bus.NewProtocol(masterEnd), 0xfe)
	master.SetTimeout(100 * time.Millisecond)
	q := NewQueue(paho.NewClientOptions(), "xerxes/")
	NewReporter(q, master)
	q.Deliver(SyncTopic, nil)

	_, err := master.Ping(0x01)
	require.NoError(t, err)
	require.Equal(t, 1, dev.Syncs())
}

func TestReporterKeepsRetryingConnect(t *testing.T) {
	opts := paho.NewClientOptions().AddBroker("tcp://127.0.0.1:1")
	r := NewReporter(NewQueue(opts, "xerxes/"), nil)
	r.RetryInterval = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	errCh := make(chan error, 1)
	go func() {
		errCh <- r.Run(ctx)
	}()
	select {
	case err := <-errCh:
		require.Equal(t, context.DeadlineExceeded, err)
	case <-time.After(5 * time.Second):
		t.Fatal("reporter didn't stop")
	}
}
