package agg

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"

	"github.com/grafana/cloudmetrics/clock"
	"github.com/grafana/cloudmetrics/queue"
	"github.com/grafana/cloudmetrics/stat"
)

var (
	pointsEnqueued = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cloudmetrics",
		Name:      "points_enqueued_total",
		Help:      "Number of data points handed to the publish queue",
	}, []string{"namespace"})
	dumpErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cloudmetrics",
		Name:      "dump_errors_total",
		Help:      "Number of interval dumps that failed and were dropped",
	}, []string{"namespace"})
)

// Aggregator folds samples for one metric and dumps them on its interval.
// Build one via Builder.Start or Pipeline.Start; there is no way to restart
// a stopped aggregator.
type Aggregator struct {
	name      string
	namespace string
	acc       *stat.Accumulator
	conv      Converter
	queue     *queue.Queue
	task      *clock.Task
}

// Sample folds v into the current interval. Lock-free, never blocks, safe
// from any goroutine.
func (a *Aggregator) Sample(v float64) {
	a.acc.Sample(v)
}

// SampleDuration folds a duration in, expressed in milliseconds.
// Convenience for latency metrics using UnitMilliseconds.
func (a *Aggregator) SampleDuration(d time.Duration) {
	a.acc.Sample(float64(d) / float64(time.Millisecond))
}

// Name returns the metric name.
func (a *Aggregator) Name() string {
	return a.name
}

// Namespace returns the namespace dumps are enqueued under.
func (a *Aggregator) Namespace() string {
	return a.namespace
}

// Stop cancels future dumps. Idempotent; an in-flight dump completes.
// Samples folded in after the last dump are dropped.
func (a *Aggregator) Stop() {
	a.task.Stop()
}

// dump runs on the scheduling goroutine, once per interval.
// it must never propagate a failure into the timer.
func (a *Aggregator) dump(now time.Time) {
	defer func() {
		if e := recover(); e != nil {
			dumpErrors.WithLabelValues(a.namespace).Inc()
			log.Errorf("agg: dump of %s/%s failed, dropping this interval: %v", a.namespace, a.name, e)
		}
	}()

	s := a.acc.ExtractAndReset()
	points := a.conv.Convert(s, now)
	if len(points) == 0 {
		return
	}
	a.queue.Enqueue(a.namespace, points...)
	pointsEnqueued.WithLabelValues(a.namespace).Add(float64(len(points)))
	log.Debugf("agg: dumped %d points for %s/%s (count=%d)", len(points), a.namespace, a.name, s.Count)
}
