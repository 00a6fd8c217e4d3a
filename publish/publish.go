// Package publish drains the shared queue and ships batched data points to a
// metrics backend through the Client interface.
package publish

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"

	"github.com/grafana/cloudmetrics/clock"
	"github.com/grafana/cloudmetrics/queue"
	"github.com/grafana/cloudmetrics/schema"
)

// MaxBatchSize is the most points the backend accepts in one call
// (the CloudWatch PutMetricData limit).
const MaxBatchSize = 20

// ShutdownGrace is how long Shutdown waits for an in-flight flush to settle.
const ShutdownGrace = 3 * time.Second

// Client delivers one batch of at most MaxBatchSize points for one
// namespace. Implementations decide the wire format. A returned error means
// the batch is lost: the publisher logs it and moves on, it never retries.
type Client interface {
	PutMetricData(ctx context.Context, namespace string, points []schema.Point) error
	Close() error
}

var (
	pointsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cloudmetrics",
		Name:      "points_published_total",
		Help:      "Number of data points delivered to the backend",
	}, []string{"namespace"})
	pointsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cloudmetrics",
		Name:      "points_dropped_total",
		Help:      "Number of data points lost to failed publish calls",
	}, []string{"namespace"})
	publishErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cloudmetrics",
		Name:      "publish_errors_total",
		Help:      "Number of failed publish calls",
	}, []string{"namespace"})
	flushDuration = promauto.NewSummary(prometheus.SummaryOpts{
		Namespace: "cloudmetrics",
		Name:      "flush_duration_seconds",
		Help:      "How long one publish cycle took",
	})
)

// Publisher is the single consumer of the shared queue. On every tick of its
// timer it drains the queue and sends each namespace's points to the client
// in MaxBatchSize chunks. Delivery is fire-and-forget: one failed batch does
// not stop the others, and nothing is retried.
type Publisher struct {
	queue  *queue.Queue
	client Client
	task   *clock.Task

	mu        sync.Mutex
	stopped   bool
	closeOnce sync.Once
}

// New arms a publisher on sched that flushes q to client every interval.
func New(q *queue.Queue, client Client, interval time.Duration, sched *clock.Scheduler) *Publisher {
	p := &Publisher{
		queue:  q,
		client: client,
	}
	p.task = sched.Repeat(interval, p.flush)
	return p
}

// flush runs one publish cycle. it runs on the scheduling goroutine and on
// the caller of Stop, and must never propagate a failure into the timer.
func (p *Publisher) flush(now time.Time) {
	defer func() {
		if e := recover(); e != nil {
			log.Errorf("publish: cycle failed: %v", e)
		}
	}()

	log.Debugf("publish: cycle for %s", now)
	pre := time.Now()
	for namespace, points := range p.queue.DrainAll() {
		p.sendNamespace(namespace, points)
	}
	flushDuration.Observe(time.Since(pre).Seconds())
}

func (p *Publisher) sendNamespace(namespace string, points []schema.Point) {
	for start := 0; start < len(points); start += MaxBatchSize {
		end := start + MaxBatchSize
		if end > len(points) {
			end = len(points)
		}
		batch := points[start:end]
		if err := p.client.PutMetricData(context.Background(), namespace, batch); err != nil {
			publishErrors.WithLabelValues(namespace).Inc()
			pointsDropped.WithLabelValues(namespace).Add(float64(len(batch)))
			log.Warnf("publish: dropping %d points for namespace %s: %s", len(batch), namespace, err)
			continue
		}
		pointsPublished.WithLabelValues(namespace).Add(float64(len(batch)))
	}
}

// Stop cancels the timer and synchronously publishes whatever is queued.
// Idempotent: a second call does nothing.
func (p *Publisher) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	p.task.Stop()
	p.flush(time.Now())
}

// Shutdown stops the publisher, waits up to ShutdownGrace for an in-flight
// cycle to settle and closes the client. The publisher cannot be restarted.
// Safe to call after Stop.
func (p *Publisher) Shutdown() {
	p.Stop()
	if !p.task.Wait(ShutdownGrace) {
		log.Warnf("publish: a cycle was still in flight after %s, closing anyway", ShutdownGrace)
	}
	p.closeOnce.Do(func() {
		if err := p.client.Close(); err != nil {
			log.Warnf("publish: closing client: %s", err)
		}
	})
}
