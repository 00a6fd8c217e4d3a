package agg

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/grafana/cloudmetrics/schema"
	"github.com/grafana/cloudmetrics/stat"
)

func TestStatConverterFanOut(t *testing.T) {
	conv := StatConverter{
		Name: "latency",
		Unit: schema.UnitMilliseconds,
		Dimensions: [][]schema.Dimension{
			{{Name: "host", Value: "a"}},
			{{Name: "dc", Value: "us"}, {Name: "service", Value: "web"}},
		},
	}
	s := stat.Stat{}.WithSample(5).WithSample(15)
	now := time.Unix(1500000000, 0)

	points := conv.Convert(s, now)
	if len(points) != 3 {
		t.Fatalf("expected 3 points (dimensionless + 2 sets), got %d", len(points))
	}

	expSet := schema.StatisticSet{SampleCount: 2, Sum: 20, Minimum: 5, Maximum: 15}
	for i, p := range points {
		if p.Name != "latency" || p.Unit != schema.UnitMilliseconds {
			t.Fatalf("point %d has wrong identity: %+v", i, p)
		}
		if p.Timestamp != now {
			t.Fatalf("point %d must carry the dump time, got %v", i, p.Timestamp)
		}
		if p.Stats == nil {
			t.Fatalf("point %d is missing its statistic set", i)
		}
		if diff := cmp.Diff(expSet, *p.Stats); diff != "" {
			t.Fatalf("point %d statistic mismatch (-want +got):\n%s", i, diff)
		}
	}

	if points[0].Dimensions != nil {
		t.Fatalf("first point must be dimensionless, got %v", points[0].Dimensions)
	}
	if len(points[1].Dimensions) != 1 || len(points[2].Dimensions) != 2 {
		t.Fatalf("dimension sets must pass through as configured: %v / %v", points[1].Dimensions, points[2].Dimensions)
	}
}

func TestStatConverterIdlePlaceholder(t *testing.T) {
	conv := StatConverter{
		Name:       "latency",
		Unit:       schema.UnitMilliseconds,
		Dimensions: [][]schema.Dimension{{{Name: "host", Value: "a"}}},
	}
	now := time.Unix(1500000060, 0)

	points := conv.Convert(stat.Stat{}, now)
	if len(points) != 1 {
		t.Fatalf("idle interval must yield exactly one placeholder, got %d points", len(points))
	}
	p := points[0]
	if p.Stats != nil || p.Value != 0 {
		t.Fatalf("placeholder must be a plain value 0, got %+v", p)
	}
	if p.Dimensions != nil {
		t.Fatalf("placeholder is dimensionless, got %v", p.Dimensions)
	}
	if p.Timestamp != now {
		t.Fatalf("placeholder must carry the dump time, got %v", p.Timestamp)
	}
}
