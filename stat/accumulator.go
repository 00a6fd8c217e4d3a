package stat

import "sync/atomic"

// Accumulator holds the current Stat for one metric. Any number of
// goroutines may Sample concurrently; ExtractAndReset assumes a single
// consumer, which is what lets a plain swap stand in for a lock.
//
// Updates go through a compare-and-swap loop over an immutable Stat, so a
// sample racing an extract lands either in the extracted statistic or in the
// fresh one, never in both and never in neither.
type Accumulator struct {
	cur atomic.Pointer[Stat]
}

func NewAccumulator() *Accumulator {
	a := &Accumulator{}
	a.cur.Store(new(Stat))
	return a
}

// Sample folds v into the current statistic. It never blocks; under
// contention it retries the CAS until it lands.
func (a *Accumulator) Sample(v float64) {
	for {
		old := a.cur.Load()
		next := old.WithSample(v)
		if a.cur.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Peek returns the current statistic without resetting it.
func (a *Accumulator) Peek() Stat {
	return *a.cur.Load()
}

// ExtractAndReset atomically replaces the current statistic with the empty
// one and returns what was there just before.
func (a *Accumulator) ExtractAndReset() Stat {
	return *a.cur.Swap(new(Stat))
}
