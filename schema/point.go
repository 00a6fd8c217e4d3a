// Package schema describes the data points handed to publishing backends.
package schema

import "time"

// Unit describes what a point's values measure.
// The values match the unit names the metrics backend accepts
// (CloudWatch standard units), so backends can pass them through verbatim.
type Unit string

const (
	UnitNone            Unit = "None"
	UnitSeconds         Unit = "Seconds"
	UnitMilliseconds    Unit = "Milliseconds"
	UnitMicroseconds    Unit = "Microseconds"
	UnitCount           Unit = "Count"
	UnitPercent         Unit = "Percent"
	UnitBits            Unit = "Bits"
	UnitBytes           Unit = "Bytes"
	UnitKilobytes       Unit = "Kilobytes"
	UnitMegabytes       Unit = "Megabytes"
	UnitGigabytes       Unit = "Gigabytes"
	UnitBytesPerSecond  Unit = "Bytes/Second"
	UnitCountPerSecond  Unit = "Count/Second"
)

// Dimension is one key/value tag on a data point.
type Dimension struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// StatisticSet summarizes the samples seen during one aggregation interval.
type StatisticSet struct {
	SampleCount float64 `json:"sample_count"`
	Sum         float64 `json:"sum"`
	Minimum     float64 `json:"min"`
	Maximum     float64 `json:"max"`
}

// Point is a single data point as delivered to a backend.
// Either Stats is set (an aggregated interval) or it is nil and Value holds
// a plain number, such as the 0 of a placeholder point for an idle interval.
type Point struct {
	Name       string        `json:"name"`
	Dimensions []Dimension   `json:"dimensions,omitempty"`
	Timestamp  time.Time     `json:"time"`
	Unit       Unit          `json:"unit"`
	Value      float64       `json:"value"`
	Stats      *StatisticSet `json:"stats,omitempty"`
}
