// Package queue implements the buffer between aggregators and the publisher.
package queue

import (
	"sync"

	"github.com/grafana/cloudmetrics/schema"
)

// Queue buffers data points per namespace until the publisher drains them.
// Many producers may enqueue concurrently; a single consumer drains.
// Enqueue never waits on the consumer: a slow publisher makes the queue grow
// rather than stalling samplers. Growth is bounded in practice by the
// aggregation intervals feeding it.
type Queue struct {
	mu      sync.Mutex
	pending map[string][]schema.Point
}

func New() *Queue {
	return &Queue{
		pending: make(map[string][]schema.Point),
	}
}

// Enqueue appends points under the given namespace.
func (q *Queue) Enqueue(namespace string, points ...schema.Point) {
	if len(points) == 0 {
		return
	}
	q.mu.Lock()
	q.pending[namespace] = append(q.pending[namespace], points...)
	q.mu.Unlock()
}

// DrainAll removes and returns everything enqueued so far, grouped by
// namespace. Points enqueued concurrently land either in this drain or the
// next one, never in both. The returned map is the caller's to keep.
func (q *Queue) DrainAll() map[string][]schema.Point {
	q.mu.Lock()
	drained := q.pending
	q.pending = make(map[string][]schema.Point)
	q.mu.Unlock()
	return drained
}

// Len returns the number of points currently queued across all namespaces.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, points := range q.pending {
		n += len(points)
	}
	return n
}
