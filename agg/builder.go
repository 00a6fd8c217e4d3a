package agg

import (
	"errors"
	"fmt"
	"time"

	"github.com/grafana/cloudmetrics/clock"
	"github.com/grafana/cloudmetrics/queue"
	"github.com/grafana/cloudmetrics/schema"
	"github.com/grafana/cloudmetrics/stat"
)

// MinInterval is the shortest aggregation interval the backend accepts.
const MinInterval = time.Minute

var (
	ErrNoName           = errors.New("agg: metric name not configured")
	ErrNoNamespace      = errors.New("agg: namespace not configured")
	ErrEmptyDimensions  = errors.New("agg: dimension set must not be empty")
	ErrIntervalTooShort = fmt.Errorf("agg: aggregation interval must be at least %s", MinInterval)
)

// Builder accumulates the configuration for one aggregator. It has value
// semantics: every With* call returns a new builder and never modifies its
// receiver, so partially configured builders can be shared as templates.
// Misconfiguration is remembered and surfaces from Start, the only call
// that can fail.
type Builder struct {
	name       string
	namespace  string
	unit       schema.Unit
	dimensions [][]schema.Dimension
	interval   time.Duration
	conv       Converter
	err        error
}

// NewBuilder returns a builder with unit None and a 1 minute interval.
func NewBuilder() Builder {
	return Builder{
		unit:     schema.UnitNone,
		interval: MinInterval,
	}
}

func (b Builder) fail(err error) Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// WithName sets the metric name. Required.
func (b Builder) WithName(name string) Builder {
	if name == "" {
		return b.fail(ErrNoName)
	}
	b.name = name
	return b
}

// WithNamespace sets the namespace dumps are enqueued and published under.
// Required.
func (b Builder) WithNamespace(namespace string) Builder {
	if namespace == "" {
		return b.fail(ErrNoNamespace)
	}
	b.namespace = namespace
	return b
}

// WithSubNamespace nests child under the current namespace, e.g.
// WithNamespace("app").WithSubNamespace("web") yields "app/web".
// Without a parent it behaves like WithNamespace.
func (b Builder) WithSubNamespace(child string) Builder {
	if child == "" {
		return b.fail(ErrNoNamespace)
	}
	if b.namespace == "" {
		b.namespace = child
	} else {
		b.namespace = b.namespace + "/" + child
	}
	return b
}

// WithUnit sets the unit carried by every published point.
func (b Builder) WithUnit(unit schema.Unit) Builder {
	b.unit = unit
	return b
}

// WithDimensions adds one dimension set. Every dump emits one extra point
// tagged with this set, next to the always-present dimensionless point.
// May be called multiple times, once per set.
func (b Builder) WithDimensions(dims ...schema.Dimension) Builder {
	if len(dims) == 0 {
		return b.fail(ErrEmptyDimensions)
	}
	set := make([]schema.Dimension, len(dims))
	copy(set, dims)
	next := make([][]schema.Dimension, 0, len(b.dimensions)+1)
	next = append(next, b.dimensions...)
	b.dimensions = append(next, set)
	return b
}

// WithInterval sets how often the accumulator is dumped.
func (b Builder) WithInterval(interval time.Duration) Builder {
	if interval < MinInterval {
		return b.fail(ErrIntervalTooShort)
	}
	b.interval = interval
	return b
}

// WithConverter overrides the conversion rule. The default is a
// StatConverter over the configured name, unit and dimension sets.
func (b Builder) WithConverter(conv Converter) Builder {
	b.conv = conv
	return b
}

// Start materializes the aggregator: it validates the configuration, binds
// a fresh accumulator to the shared queue and arms the interval timer on
// sched. Missing name or namespace is a programmer error and fails here,
// not in the background.
func (b Builder) Start(q *queue.Queue, sched *clock.Scheduler) (*Aggregator, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.name == "" {
		return nil, ErrNoName
	}
	if b.namespace == "" {
		return nil, ErrNoNamespace
	}

	conv := b.conv
	if conv == nil {
		conv = StatConverter{
			Name:       b.name,
			Unit:       b.unit,
			Dimensions: b.dimensions,
		}
	}
	a := &Aggregator{
		name:      b.name,
		namespace: b.namespace,
		acc:       stat.NewAccumulator(),
		conv:      conv,
		queue:     q,
	}
	a.task = sched.Repeat(b.interval, a.dump)
	return a, nil
}
