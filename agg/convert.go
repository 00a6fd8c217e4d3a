// Package agg turns sampled values into backend data points on a fixed
// interval. Each aggregator owns one accumulator and dumps it on every tick
// of its timer into the shared queue, where the publisher picks it up.
package agg

import (
	"time"

	"github.com/grafana/cloudmetrics/schema"
	"github.com/grafana/cloudmetrics/stat"
)

// Converter turns an extracted statistic into the data points to enqueue.
// Implementations must be pure: they run on the scheduling goroutine.
// The empty statistic is passed through as-is so the converter decides what
// an idle interval looks like on the wire.
type Converter interface {
	Convert(s stat.Stat, now time.Time) []schema.Point
}

// StatConverter is the default conversion rule for a metric: one point per
// configured dimension set plus always one dimensionless point, all carrying
// the same statistic set. An idle interval yields a single dimensionless
// value-0 placeholder, which keeps the backend series from going
// insufficient-data while nothing samples.
type StatConverter struct {
	Name       string
	Unit       schema.Unit
	Dimensions [][]schema.Dimension
}

func (c StatConverter) Convert(s stat.Stat, now time.Time) []schema.Point {
	if s.IsZero() {
		return []schema.Point{{
			Name:      c.Name,
			Unit:      c.Unit,
			Timestamp: now,
			Value:     0,
		}}
	}

	set := schema.StatisticSet{
		SampleCount: float64(s.Count),
		Sum:         s.Sum,
		Minimum:     s.Min,
		Maximum:     s.Max,
	}
	points := make([]schema.Point, 0, len(c.Dimensions)+1)
	points = append(points, schema.Point{
		Name:      c.Name,
		Unit:      c.Unit,
		Timestamp: now,
		Stats:     &set,
	})
	for _, dims := range c.Dimensions {
		points = append(points, schema.Point{
			Name:       c.Name,
			Dimensions: dims,
			Unit:       c.Unit,
			Timestamp:  now,
			Stats:      &set,
		})
	}
	return points
}
