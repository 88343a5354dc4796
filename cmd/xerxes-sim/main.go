package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/xerxes.go/pkg/bus"
	"github.com/robotalks/xerxes.go/pkg/bus/devid"
	"github.com/robotalks/xerxes.go/pkg/framework"
	"github.com/robotalks/xerxes.go/pkg/sim"
	"github.com/robotalks/xerxes.go/pkg/transport/stream"
)

var (
	listenAddr = ":4001"
	devices    = "0x01:0x02"
	flashDelay = 20 * time.Millisecond
)

func init() {
	flag.StringVar(&listenAddr, "listen", listenAddr, "TCP listen address.")
	flag.StringVar(&devices, "devices", devices, "Simulated devices as addr:devid[,addr:devid...].")
	flag.DurationVar(&flashDelay, "flash-delay", flashDelay, "Delay before acknowledging a flash write.")
}

func parseDevices(list string) ([]*sim.Device, error) {
	var result []*sim.Device
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.SplitN(item, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid device %q, expect addr:devid", item)
		}
		addr, err := strconv.ParseUint(parts[0], 0, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid address in %q: %w", item, err)
		}
		id, err := strconv.ParseUint(parts[1], 0, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid device id in %q: %w", item, err)
		}
		if bus.Addr(addr) == bus.BroadcastAddr {
			return nil, fmt.Errorf("device %q uses broadcast address", item)
		}
		dev := sim.NewDevice(bus.Addr(addr), devid.ID(id))
		dev.FlashDelay = flashDelay
		result = append(result, dev)
	}
	return result, nil
}

type server struct {
	bus      *sim.Bus
	listener net.Listener
}

func (s *server) Run(ctx context.Context) error {
	return framework.RunWithContextCancel(ctx, func() { s.listener.Close() }, func() error {
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				return err
			}
			go s.serve(ctx, conn)
		}
	})
}

func (s *server) serve(ctx context.Context, conn net.Conn) {
	glog.Infof("connected: %s", conn.RemoteAddr())
	rw := stream.New(conn)
	defer rw.Close()
	err := s.bus.Run(ctx, rw)
	glog.Infof("disconnected: %s: %v", conn.RemoteAddr(), err)
}

func main() {
	flag.Parse()
	devs, err := parseDevices(devices)
	if err != nil {
		glog.Exit(err)
	}
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		glog.Exit(err)
	}
	for _, dev := range devs {
		glog.Infof("device 0x%02x: %s", dev.Addr, dev.DeviceID)
	}
	glog.Infof("listening on %s", ln.Addr())
	srv := &server{bus: sim.NewBus(devs...), listener: ln}
	if err := framework.NewRunner().HandleSignals().Go(framework.NamedRun("sim", srv)).Wait(); err != nil {
		glog.Exit(err)
	}
}
