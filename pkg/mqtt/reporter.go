package mqtt

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/xerxes.go/pkg/bus"
	"github.com/robotalks/xerxes.go/pkg/report"
)

// Topics relative to the queue prefix.
const (
	ScanTopic = "scan"
	SyncTopic = "sync"
)

// DefaultRetryInterval is the wait between attempts to reach the broker.
const DefaultRetryInterval = 5 * time.Second

// Reporter publishes scan reports and broadcasts SYNC on request.
type Reporter struct {
	Queue  *Queue
	Master *bus.Master
	// RetryInterval is the wait between connect attempts.
	RetryInterval time.Duration
}

// NewReporter creates a Reporter.
func NewReporter(q *Queue, master *bus.Master) *Reporter {
	r := &Reporter{Queue: q, Master: master}
	q.Sub(SyncTopic, r.handleSync)
	return r
}

// PublishReport implements monitor.Sink. Reports are retained so new
// subscribers get the latest one.
func (r *Reporter) PublishReport(rep *report.ScanReport) error {
	data, err := rep.Encode()
	if err != nil {
		return err
	}
	return r.Queue.Pub(ScanTopic, data, true)
}

// Run implements framework.Runnable. An unreachable broker doesn't stop it,
// connecting is retried until ctx is done. Reports published meanwhile fail
// and are logged by the scanner.
func (r *Reporter) Run(ctx context.Context) error {
	interval := r.RetryInterval
	if interval <= 0 {
		interval = DefaultRetryInterval
	}
	for {
		err := r.Queue.Connect()
		if err == nil {
			break
		}
		glog.Warningf("mqtt connect failed, retry in %s: %v", interval, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	defer r.Queue.Close()
	<-ctx.Done()
	return ctx.Err()
}

func (r *Reporter) handleSync(string, []byte) {
	if err := r.Master.Sync(); err != nil {
		glog.Warningf("sync failed: %v", err)
	}
}
