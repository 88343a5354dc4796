package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 10*time.Millisecond, cfg.Timeout.Duration)
	require.Equal(t, uint8(0xfe), cfg.MasterAddr)
	require.Empty(t, cfg.MQTT.URL)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xerxesd.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
transport = "serial:///dev/ttyUSB0?baud=115200"
master_addr = 0x00
timeout = "25ms"

[scan]
last = 0x20
interval = "1m"

[mqtt]
url = "mqtt://localhost:1883/xerxes/"
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "serial:///dev/ttyUSB0?baud=115200", cfg.Transport)
	require.Equal(t, uint8(0), cfg.MasterAddr)
	require.Equal(t, 25*time.Millisecond, cfg.Timeout.Duration)
	require.Equal(t, uint8(0), cfg.Scan.First)
	require.Equal(t, uint8(0x20), cfg.Scan.Last)
	require.Equal(t, time.Minute, cfg.Scan.Interval.Duration)
	require.Equal(t, "mqtt://localhost:1883/xerxes/", cfg.MQTT.URL)
	require.Equal(t, ":9180", cfg.HTTP.Addr)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte(`timeout = "soon"`), 0644))
	_, err = Load(path)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "config parse failed"))
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"XERXES_TRANSPORT":   "ws://bridge:8080/bus",
		"XERXES_MASTER_ADDR": "0x10",
		"XERXES_TIMEOUT":     "50ms",
		"XERXES_HTTP_ADDR":   "",
	}
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(func(key string) string { return env[key] }))
	require.Equal(t, "ws://bridge:8080/bus", cfg.Transport)
	require.Equal(t, uint8(0x10), cfg.MasterAddr)
	require.Equal(t, 50*time.Millisecond, cfg.Timeout.Duration)
	require.Equal(t, ":9180", cfg.HTTP.Addr)

	env["XERXES_MASTER_ADDR"] = "0x100"
	require.Error(t, cfg.ApplyEnv(func(key string) string { return env[key] }))
}

func TestSetupFlags(t *testing.T) {
	cfg := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.SetupFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"-transport", "tcp://sim:4001",
		"-master-addr", "0x7f",
		"-timeout", "20ms",
		"-scan-first", "1",
		"-scan-last", "0x10",
		"-http", "",
	}))
	require.Equal(t, "tcp://sim:4001", cfg.Transport)
	require.Equal(t, uint8(0x7f), cfg.MasterAddr)
	require.Equal(t, 20*time.Millisecond, cfg.Timeout.Duration)
	require.Equal(t, uint8(1), cfg.Scan.First)
	require.Equal(t, uint8(0x10), cfg.Scan.Last)
	require.Empty(t, cfg.HTTP.Addr)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Config)
	}{
		{"no transport", func(c *Config) { c.Transport = " " }},
		{"broadcast master", func(c *Config) { c.MasterAddr = 0xff }},
		{"zero timeout", func(c *Config) { c.Timeout.Duration = 0 }},
		{"inverted range", func(c *Config) { c.Scan.First, c.Scan.Last = 5, 4 }},
		{"zero interval", func(c *Config) { c.Scan.Interval.Duration = 0 }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestMQTTClientID(t *testing.T) {
	cfg := Default()
	cfg.MQTT.ClientID = "bench-1"
	require.Equal(t, "bench-1", cfg.MQTTClientID())
	cfg.MQTT.ClientID = ""
	require.True(t, strings.HasPrefix(cfg.MQTTClientID(), "xerxesd"))
}
