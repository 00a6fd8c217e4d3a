// Package stat implements a running statistic over sampled values and a
// lock-free accumulator to fold samples into it from many goroutines.
package stat

import "math"

// Stat is an immutable running summary of samples: count, sum, min and max.
// The zero value is the canonical empty statistic; when Count is 0 the other
// fields carry no meaning.
// Values are folded in as-is: a NaN sample poisons Sum/Min/Max and an
// infinite sample saturates them. Callers that care must filter before
// sampling.
type Stat struct {
	Count uint64
	Sum   float64
	Min   float64
	Max   float64
}

// IsZero reports whether no samples have been folded in.
func (s Stat) IsZero() bool {
	return s.Count == 0
}

// WithSample returns a new Stat with v folded in. s is not modified.
func (s Stat) WithSample(v float64) Stat {
	if s.Count == 0 {
		return Stat{Count: 1, Sum: v, Min: v, Max: v}
	}
	return Stat{
		Count: s.Count + 1,
		Sum:   s.Sum + v,
		Min:   math.Min(s.Min, v),
		Max:   math.Max(s.Max, v),
	}
}

// Merge returns a Stat covering the union of the samples behind s and o.
func (s Stat) Merge(o Stat) Stat {
	if s.Count == 0 {
		return o
	}
	if o.Count == 0 {
		return s
	}
	return Stat{
		Count: s.Count + o.Count,
		Sum:   s.Sum + o.Sum,
		Min:   math.Min(s.Min, o.Min),
		Max:   math.Max(s.Max, o.Max),
	}
}
