package cloudmetrics

import (
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/grafana/cloudmetrics/agg"
	"github.com/grafana/cloudmetrics/clock"
	"github.com/grafana/cloudmetrics/publish"
	"github.com/grafana/cloudmetrics/queue"
)

// DefaultPublishInterval is how often queued points are shipped to the
// backend when no option overrides it.
const DefaultPublishInterval = time.Minute

// ErrPipelineShutdown is returned by Start once Shutdown has begun.
var ErrPipelineShutdown = errors.New("cloudmetrics: pipeline is shut down")

type Option func(*options)

type options struct {
	publishInterval time.Duration
}

// WithPublishInterval overrides how often the publisher drains the queue.
// Aggregation intervals stay per-metric on their builders; publishing is one
// schedule for the whole pipeline.
func WithPublishInterval(interval time.Duration) Option {
	return func(o *options) {
		o.publishInterval = interval
	}
}

// Pipeline owns the shared pieces of the aggregation-and-publishing flow:
// the work queue, the scheduler driving all timers, and the publisher.
// Construct one per process (or per backend client) and start aggregators
// on it.
type Pipeline struct {
	queue *queue.Queue
	sched *clock.Scheduler
	pub   *publish.Publisher

	mu       sync.Mutex
	aggs     []*agg.Aggregator
	shutdown bool
}

// New wires a pipeline around the given backend client.
func New(client publish.Client, opts ...Option) *Pipeline {
	o := options{
		publishInterval: DefaultPublishInterval,
	}
	for _, opt := range opts {
		opt(&o)
	}

	q := queue.New()
	sched := clock.NewScheduler()
	return &Pipeline{
		queue: q,
		sched: sched,
		pub:   publish.New(q, client, o.publishInterval, sched),
	}
}

// Start materializes the builder's aggregator on this pipeline's queue and
// scheduler. It fails on an invalid or incomplete builder, and with
// ErrPipelineShutdown on a pipeline that has been shut down.
func (p *Pipeline) Start(b agg.Builder) (*agg.Aggregator, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.shutdown {
		return nil, ErrPipelineShutdown
	}
	a, err := b.Start(p.queue, p.sched)
	if err != nil {
		return nil, err
	}
	p.aggs = append(p.aggs, a)
	return a, nil
}

// Stop halts every aggregator and then the publisher, which performs one
// final synchronous flush. Idempotent. The pipeline can not be restarted,
// but Shutdown may still follow.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	aggs := p.aggs
	p.mu.Unlock()

	for _, a := range aggs {
		a.Stop()
	}
	p.pub.Stop()
}

// Shutdown stops everything and tears down the scheduler, waiting up to the
// publisher's grace period for in-flight work. Irreversible.
func (p *Pipeline) Shutdown() {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		return
	}
	p.shutdown = true
	p.mu.Unlock()

	p.Stop()
	p.pub.Shutdown()
	if !p.sched.Close(publish.ShutdownGrace) {
		log.Warnf("cloudmetrics: scheduler did not settle during shutdown")
	}
}
