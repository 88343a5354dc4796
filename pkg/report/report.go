// Package report defines the wire form of bus scan reports.
package report

import (
	"github.com/golang/protobuf/proto"
)

// DeviceStatus describes a device found on the bus.
type DeviceStatus struct {
	Address      uint32 `protobuf:"varint,1,opt,name=address,proto3" json:"address"`
	DeviceType   uint32 `protobuf:"varint,2,opt,name=device_type,json=deviceType,proto3" json:"device_type"`
	DeviceName   string `protobuf:"bytes,3,opt,name=device_name,json=deviceName,proto3" json:"device_name,omitempty"`
	VersionMajor uint32 `protobuf:"varint,4,opt,name=version_major,json=versionMajor,proto3" json:"version_major"`
	VersionMinor uint32 `protobuf:"varint,5,opt,name=version_minor,json=versionMinor,proto3" json:"version_minor"`
	LatencyUs    int64  `protobuf:"varint,6,opt,name=latency_us,json=latencyUs,proto3" json:"latency_us"`
	LastSeen     int64  `protobuf:"varint,7,opt,name=last_seen,json=lastSeen,proto3" json:"last_seen"`
}

// Reset implements proto.Message.
func (m *DeviceStatus) Reset() { *m = DeviceStatus{} }

// String implements proto.Message.
func (m *DeviceStatus) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*DeviceStatus) ProtoMessage() {}

// ScanReport is the result of scanning an address range.
type ScanReport struct {
	Master    uint32          `protobuf:"varint,1,opt,name=master,proto3" json:"master"`
	Timestamp int64           `protobuf:"varint,2,opt,name=timestamp,proto3" json:"timestamp"`
	First     uint32          `protobuf:"varint,3,opt,name=first,proto3" json:"first"`
	Last      uint32          `protobuf:"varint,4,opt,name=last,proto3" json:"last"`
	Devices   []*DeviceStatus `protobuf:"bytes,5,rep,name=devices,proto3" json:"devices"`
	Errors    uint32          `protobuf:"varint,6,opt,name=errors,proto3" json:"errors"`
}

// Reset implements proto.Message.
func (m *ScanReport) Reset() { *m = ScanReport{} }

// String implements proto.Message.
func (m *ScanReport) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*ScanReport) ProtoMessage() {}

// Encode encodes the report to bytes.
func (m *ScanReport) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// Decode decodes bytes into a ScanReport.
func Decode(data []byte) (*ScanReport, error) {
	var r ScanReport
	if err := proto.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
