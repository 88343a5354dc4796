// Package monitor keeps track of devices present on a bus.
package monitor

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/xerxes.go/pkg/bus"
	"github.com/robotalks/xerxes.go/pkg/bus/devid"
	"github.com/robotalks/xerxes.go/pkg/report"
)

// DefaultInterval is the default period between scans.
const DefaultInterval = 10 * time.Second

// Sink receives scan reports.
type Sink interface {
	PublishReport(*report.ScanReport) error
}

// SinkFunc is func form of Sink.
type SinkFunc func(*report.ScanReport) error

// PublishReport implements Sink.
func (f SinkFunc) PublishReport(r *report.ScanReport) error {
	return f(r)
}

// Scanner pings an address range periodically.
type Scanner struct {
	Master   *bus.Master
	First    bus.Addr
	Last     bus.Addr
	Interval time.Duration
	Sinks    []Sink

	lock    sync.RWMutex
	devices map[bus.Addr]*report.DeviceStatus
	last    *report.ScanReport
}

// NewScanner creates a Scanner over the full address range.
func NewScanner(master *bus.Master) *Scanner {
	return &Scanner{
		Master:   master,
		First:    0,
		Last:     bus.BroadcastAddr - 1,
		Interval: DefaultInterval,
	}
}

// AddSink adds sinks for scan reports.
func (s *Scanner) AddSink(sinks ...Sink) *Scanner {
	s.Sinks = append(s.Sinks, sinks...)
	return s
}

// Scan pings every address in range once. Addresses that don't answer in
// time are absent. Other failures are counted in the report.
func (s *Scanner) Scan(ctx context.Context) (*report.ScanReport, error) {
	r := &report.ScanReport{
		Master:    uint32(s.Master.Addr()),
		Timestamp: time.Now().UnixNano(),
		First:     uint32(s.First),
		Last:      uint32(s.Last),
	}
	found := make(map[bus.Addr]*report.DeviceStatus)
	for addr := int(s.First); addr <= int(s.Last); addr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		target := bus.Addr(addr)
		if target == s.Master.Addr() || target == bus.BroadcastAddr {
			continue
		}
		reply, err := s.Master.Ping(target)
		if err != nil {
			if !bus.IsTimeout(err) {
				glog.Warningf("scan %02x: %v", addr, err)
				r.Errors++
			}
			continue
		}
		status := &report.DeviceStatus{
			Address:      uint32(addr),
			DeviceType:   uint32(reply.DeviceID),
			DeviceName:   devid.ID(reply.DeviceID).String(),
			VersionMajor: uint32(reply.VersionMajor),
			VersionMinor: uint32(reply.VersionMinor),
			LatencyUs:    reply.Latency.Microseconds(),
			LastSeen:     time.Now().UnixNano(),
		}
		found[target] = status
		r.Devices = append(r.Devices, status)
	}

	s.lock.Lock()
	s.devices, s.last = found, r
	s.lock.Unlock()
	glog.V(2).Infof("scan %02x-%02x: %d devices, %d errors", s.First, s.Last, len(r.Devices), r.Errors)
	return r, nil
}

// Run implements framework.Runnable.
func (s *Scanner) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		r, err := s.Scan(ctx)
		if err != nil {
			return err
		}
		for _, sink := range s.Sinks {
			if err := sink.PublishReport(r); err != nil {
				glog.Warningf("publish scan report failed: %v", err)
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// LastReport gets the most recent report, nil before the first scan.
func (s *Scanner) LastReport() *report.ScanReport {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.last
}

// Devices lists devices found by the last scan, ordered by address.
func (s *Scanner) Devices() []*report.DeviceStatus {
	s.lock.RLock()
	devices := make([]*report.DeviceStatus, 0, len(s.devices))
	for _, d := range s.devices {
		devices = append(devices, d)
	}
	s.lock.RUnlock()
	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Address < devices[j].Address
	})
	return devices
}

// Device finds a device found by the last scan.
func (s *Scanner) Device(addr bus.Addr) (*report.DeviceStatus, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	d, ok := s.devices[addr]
	return d, ok
}
