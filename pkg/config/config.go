// Package config provides configuration of the bus daemon.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/denisbrodbeck/machineid"

	"github.com/robotalks/xerxes.go/pkg/bus"
)

// Duration is a time.Duration written as a string ("10ms") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) (err error) {
	d.Duration, err = time.ParseDuration(string(text))
	return
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the daemon configuration.
type Config struct {
	// Transport is the URL of the bus transport, e.g.
	// serial:///dev/ttyUSB0?baud=115200 or tcp://localhost:4001
	Transport string `toml:"transport"`
	// MasterAddr is the address of the master on the bus.
	MasterAddr uint8 `toml:"master_addr"`
	// Timeout is the reply timeout.
	Timeout Duration `toml:"timeout"`

	Scan ScanConfig `toml:"scan"`
	MQTT MQTTConfig `toml:"mqtt"`
	HTTP HTTPConfig `toml:"http"`
}

// ScanConfig configures the device scanner.
type ScanConfig struct {
	First    uint8    `toml:"first"`
	Last     uint8    `toml:"last"`
	Interval Duration `toml:"interval"`
}

// MQTTConfig configures report publishing. Empty URL disables it.
type MQTTConfig struct {
	// URL is mqtt://host:port/topic-prefix/
	URL      string `toml:"url"`
	ClientID string `toml:"client_id"`
}

// HTTPConfig configures the HTTP endpoint. Empty Addr disables it.
type HTTPConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Transport:  "tcp://localhost:4001",
		MasterAddr: 0xfe,
		Timeout:    Duration{bus.DefaultTimeout},
		Scan: ScanConfig{
			First:    0x00,
			Last:     0xfd,
			Interval: Duration{10 * time.Second},
		},
		HTTP: HTTPConfig{Addr: ":9180"},
	}
}

// Load reads a TOML file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := LoadInto(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadInto reads a TOML file into cfg, keeping fields the file doesn't set.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from XERXES_* environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if val := getenv("XERXES_TRANSPORT"); val != "" {
		c.Transport = val
	}
	if val := getenv("XERXES_MASTER_ADDR"); val != "" {
		addr, err := strconv.ParseUint(val, 0, 8)
		if err != nil {
			return fmt.Errorf("XERXES_MASTER_ADDR invalid: %w", err)
		}
		c.MasterAddr = uint8(addr)
	}
	if val := getenv("XERXES_TIMEOUT"); val != "" {
		if err := c.Timeout.UnmarshalText([]byte(val)); err != nil {
			return fmt.Errorf("XERXES_TIMEOUT invalid: %w", err)
		}
	}
	if val := getenv("XERXES_MQTT_URL"); val != "" {
		c.MQTT.URL = val
	}
	if val := getenv("XERXES_HTTP_ADDR"); val != "" {
		c.HTTP.Addr = val
	}
	return nil
}

type addrFlag struct {
	addr *uint8
}

func (f addrFlag) String() string {
	if f.addr == nil {
		return ""
	}
	return fmt.Sprintf("0x%02x", *f.addr)
}

func (f addrFlag) Set(val string) error {
	addr, err := strconv.ParseUint(val, 0, 8)
	if err != nil {
		return err
	}
	*f.addr = uint8(addr)
	return nil
}

type durationFlag struct {
	d *Duration
}

func (f durationFlag) String() string {
	if f.d == nil {
		return ""
	}
	return f.d.String()
}

func (f durationFlag) Set(val string) error {
	return f.d.UnmarshalText([]byte(val))
}

// SetupFlags registers command line flags overriding c.
func (c *Config) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Transport, "transport", c.Transport, "Bus transport URL (serial:///dev/ttyUSB0?baud=115200, tcp://host:port, ws://host:port/path).")
	fs.Var(addrFlag{&c.MasterAddr}, "master-addr", "Master address on the bus.")
	fs.Var(durationFlag{&c.Timeout}, "timeout", "Reply timeout.")
	fs.Var(addrFlag{&c.Scan.First}, "scan-first", "First address to scan.")
	fs.Var(addrFlag{&c.Scan.Last}, "scan-last", "Last address to scan.")
	fs.Var(durationFlag{&c.Scan.Interval}, "scan-interval", "Interval between scans.")
	fs.StringVar(&c.MQTT.URL, "mqtt", c.MQTT.URL, "MQTT broker URL for reports, e.g. mqtt://localhost:1883/xerxes/.")
	fs.StringVar(&c.HTTP.Addr, "http", c.HTTP.Addr, "HTTP listen address for /devices and /metrics.")
}

// MQTTClientID returns the configured client id, or one derived from the
// machine id.
func (c *Config) MQTTClientID() string {
	if c.MQTT.ClientID != "" {
		return c.MQTT.ClientID
	}
	id, err := machineid.ProtectedID("xerxesd")
	if err != nil {
		return "xerxesd"
	}
	if len(id) > 16 {
		id = id[:16]
	}
	return "xerxesd-" + id
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Transport) == "" {
		return fmt.Errorf("transport is required")
	}
	if bus.Addr(c.MasterAddr) == bus.BroadcastAddr {
		return fmt.Errorf("master address can't be broadcast address")
	}
	if c.Timeout.Duration <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Scan.First > c.Scan.Last {
		return fmt.Errorf("scan range invalid: first 0x%02x > last 0x%02x", c.Scan.First, c.Scan.Last)
	}
	if c.Scan.Interval.Duration <= 0 {
		return fmt.Errorf("scan interval must be positive")
	}
	return nil
}
