package monitor

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robotalks/xerxes.go/pkg/bus"
)

// Handler exposes the scanner over HTTP:
//
//	GET  /devices         devices found by the last scan
//	GET  /devices/{addr}  a single device, addr in decimal or 0x hex
//	POST /sync            broadcast SYNC
//	GET  /metrics         Prometheus metrics from gatherer
func (s *Scanner) Handler(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Get("/devices", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, s.Devices())
	})
	r.Get("/devices/{addr}", func(w http.ResponseWriter, req *http.Request) {
		addr, err := strconv.ParseUint(chi.URLParam(req, "addr"), 0, 8)
		if err != nil {
			http.Error(w, "invalid address", http.StatusBadRequest)
			return
		}
		d, ok := s.Device(bus.Addr(addr))
		if !ok {
			http.Error(w, "device not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, d)
	})
	r.Post("/sync", func(w http.ResponseWriter, req *http.Request) {
		if err := s.Master.Sync(); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		glog.Warningf("write response failed: %v", err)
	}
}
