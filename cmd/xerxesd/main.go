package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/robotalks/xerxes.go/pkg/bus"
	"github.com/robotalks/xerxes.go/pkg/config"
	"github.com/robotalks/xerxes.go/pkg/framework"
	"github.com/robotalks/xerxes.go/pkg/metrics"
	"github.com/robotalks/xerxes.go/pkg/monitor"
	"github.com/robotalks/xerxes.go/pkg/mqtt"
	"github.com/robotalks/xerxes.go/pkg/transport"
)

var configFile string

// loadConfig applies defaults, the config file, XERXES_* environment and
// then command line flags, in that order.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	for n, arg := range os.Args[1:] {
		if arg == "-config" || arg == "--config" {
			if n+2 < len(os.Args) {
				configFile = os.Args[n+2]
			}
		} else if val, ok := cutFlag(arg, "config"); ok {
			configFile = val
		}
	}
	if configFile != "" {
		if err := config.LoadInto(configFile, &cfg); err != nil {
			return cfg, fmt.Errorf("load %s: %w", configFile, err)
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	flag.StringVar(&configFile, "config", configFile, "Configuration file (TOML).")
	cfg.SetupFlags(flag.CommandLine)
	flag.Parse()
	return cfg, cfg.Validate()
}

func cutFlag(arg, name string) (string, bool) {
	for _, prefix := range []string{"-" + name + "=", "--" + name + "="} {
		if len(arg) > len(prefix) && arg[:len(prefix)] == prefix {
			return arg[len(prefix):], true
		}
	}
	return "", false
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		glog.Exitf("config: %v", err)
	}

	conn, err := transport.Open(cfg.Transport)
	if err != nil {
		glog.Exitf("open transport %s: %v", cfg.Transport, err)
	}
	defer conn.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	proto := bus.NewProtocol(conn)
	proto.Observer = metrics.New(metrics.WithRegistry(registry))

	master := bus.NewMaster(proto, bus.Addr(cfg.MasterAddr))
	master.SetTimeout(cfg.Timeout.Duration)

	scanner := monitor.NewScanner(master)
	scanner.First = bus.Addr(cfg.Scan.First)
	scanner.Last = bus.Addr(cfg.Scan.Last)
	scanner.Interval = cfg.Scan.Interval.Duration

	runner := framework.NewRunner().HandleSignals()

	if cfg.MQTT.URL != "" {
		opts, prefix, err := mqtt.ClientOptionsFromURL(cfg.MQTT.URL)
		if err != nil {
			glog.Exitf("mqtt url %s: %v", cfg.MQTT.URL, err)
		}
		if opts.ClientID == "" {
			opts.SetClientID(cfg.MQTTClientID())
		}
		reporter := mqtt.NewReporter(mqtt.NewQueue(opts, prefix), master)
		scanner.AddSink(reporter)
		runner.Go(framework.NamedRun("mqtt", reporter))
	}

	if cfg.HTTP.Addr != "" {
		server := &http.Server{Addr: cfg.HTTP.Addr, Handler: scanner.Handler(registry)}
		runner.Go(framework.NamedRun("http", &framework.HTTPServer{Server: server}))
	}

	glog.Infof("xerxesd master 0x%02x on %s, scanning 0x%02x-0x%02x every %s",
		cfg.MasterAddr, cfg.Transport, cfg.Scan.First, cfg.Scan.Last, cfg.Scan.Interval)
	runner.Go(framework.NamedRun("scanner", scanner))

	if err := runner.Wait(); err != nil {
		glog.Exit(err)
	}
}
