package publish

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/grafana/cloudmetrics/clock"
	"github.com/grafana/cloudmetrics/queue"
	"github.com/grafana/cloudmetrics/schema"
)

type call struct {
	namespace string
	points    int
}

// recorder is a Client that records every call and can be told to fail
// for certain namespaces.
type recorder struct {
	mu     sync.Mutex
	calls  []call
	fail   map[string]bool
	closed int
}

func (r *recorder) PutMetricData(_ context.Context, namespace string, points []schema.Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{namespace: namespace, points: len(points)})
	if r.fail[namespace] {
		return errors.New("backend unavailable")
	}
	return nil
}

func (r *recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed++
	return nil
}

func (r *recorder) snapshot() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}

func newTestPublisher(t *testing.T, client Client) (*Publisher, *queue.Queue) {
	t.Helper()
	sched := clock.NewScheduler()
	t.Cleanup(func() { sched.Close(time.Second) })
	q := queue.New()
	// interval is far beyond test runtime: cycles are driven by hand
	p := New(q, client, time.Hour, sched)
	t.Cleanup(p.Stop)
	return p, q
}

func enqueueN(q *queue.Queue, namespace string, n int) {
	points := make([]schema.Point, n)
	for i := range points {
		points[i] = schema.Point{Name: "m", Value: float64(i)}
	}
	q.Enqueue(namespace, points...)
}

func TestPublisherBatchSplitting(t *testing.T) {
	rec := &recorder{}
	p, q := newTestPublisher(t, rec)

	enqueueN(q, "app/web", 45)
	p.flush(time.Now())

	calls := rec.snapshot()
	if len(calls) != 3 {
		t.Fatalf("expected 3 calls for 45 points, got %d: %v", len(calls), calls)
	}
	for i, exp := range []int{20, 20, 5} {
		if calls[i].points != exp {
			t.Fatalf("expected batch sizes 20,20,5, got %v", calls)
		}
		if calls[i].namespace != "app/web" {
			t.Fatalf("call %d went to wrong namespace %q", i, calls[i].namespace)
		}
	}
}

func TestPublisherExactBatch(t *testing.T) {
	rec := &recorder{}
	p, q := newTestPublisher(t, rec)

	enqueueN(q, "app/web", MaxBatchSize)
	p.flush(time.Now())

	if calls := rec.snapshot(); len(calls) != 1 || calls[0].points != MaxBatchSize {
		t.Fatalf("expected one full batch, got %v", calls)
	}
}

func TestPublisherFailureIsolation(t *testing.T) {
	rec := &recorder{fail: map[string]bool{"app/bad": true}}
	p, q := newTestPublisher(t, rec)

	enqueueN(q, "app/bad", 25)
	enqueueN(q, "app/good", 5)
	p.flush(time.Now())

	var bad, good int
	for _, c := range rec.snapshot() {
		switch c.namespace {
		case "app/bad":
			bad++
		case "app/good":
			good++
		}
	}
	// both batches of the failing namespace are attempted, and the healthy
	// namespace still goes out
	if bad != 2 {
		t.Fatalf("expected 2 attempts for the failing namespace, got %d", bad)
	}
	if good != 1 {
		t.Fatalf("failure in one namespace blocked another: %v", rec.snapshot())
	}

	// dropped points are not retried on the next cycle
	p.flush(time.Now())
	if got := len(rec.snapshot()); got != 3 {
		t.Fatalf("dropped batches must not be retried, got %d calls", got)
	}
}

func TestPublisherStopFlushesOnce(t *testing.T) {
	rec := &recorder{}
	p, q := newTestPublisher(t, rec)

	enqueueN(q, "app/web", 3)
	p.Stop()

	if calls := rec.snapshot(); len(calls) != 1 || calls[0].points != 3 {
		t.Fatalf("Stop must publish what is queued exactly once, got %v", calls)
	}

	enqueueN(q, "app/web", 2)
	p.Stop()
	if calls := rec.snapshot(); len(calls) != 1 {
		t.Fatalf("second Stop must not publish again, got %v", calls)
	}
}

func TestPublisherShutdownAfterStop(t *testing.T) {
	rec := &recorder{}
	p, q := newTestPublisher(t, rec)

	enqueueN(q, "app/web", 1)
	p.Stop()
	p.Shutdown()

	if calls := rec.snapshot(); len(calls) != 1 {
		t.Fatalf("Shutdown after Stop must not publish again, got %v", calls)
	}
	rec.mu.Lock()
	closed := rec.closed
	rec.mu.Unlock()
	if closed != 1 {
		t.Fatalf("expected the client to be closed exactly once, got %d", closed)
	}
}

func TestPublisherEmptyCycle(t *testing.T) {
	rec := &recorder{}
	p, _ := newTestPublisher(t, rec)

	p.flush(time.Now())
	if calls := rec.snapshot(); len(calls) != 0 {
		t.Fatalf("an empty queue must not produce calls, got %v", calls)
	}
}

type panicClient struct{ recorder }

func (p *panicClient) PutMetricData(context.Context, string, []schema.Point) error {
	panic("client is broken")
}

func TestPublisherCycleSurvivesPanic(t *testing.T) {
	p, q := newTestPublisher(t, &panicClient{})

	enqueueN(q, "app/web", 1)
	p.flush(time.Now()) // must not panic the test

	// next cycle proceeds normally
	enqueueN(q, "app/web", 1)
	p.flush(time.Now())
}
