package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCombinations(t *testing.T) {
	host := []Dimension{{Name: "host", Value: "a"}, {Name: "host", Value: "b"}}
	dc := []Dimension{{Name: "dc", Value: "us"}, {Name: "dc", Value: "eu"}, {Name: "dc", Value: "ap"}}

	got := Combinations(host, dc)
	exp := [][]Dimension{
		{{Name: "host", Value: "a"}, {Name: "dc", Value: "us"}},
		{{Name: "host", Value: "a"}, {Name: "dc", Value: "eu"}},
		{{Name: "host", Value: "a"}, {Name: "dc", Value: "ap"}},
		{{Name: "host", Value: "b"}, {Name: "dc", Value: "us"}},
		{{Name: "host", Value: "b"}, {Name: "dc", Value: "eu"}},
		{{Name: "host", Value: "b"}, {Name: "dc", Value: "ap"}},
	}
	if diff := cmp.Diff(exp, got); diff != "" {
		t.Fatalf("combinations mismatch (-want +got):\n%s", diff)
	}
}

func TestCombinationsSingleAxis(t *testing.T) {
	axis := []Dimension{{Name: "host", Value: "a"}}
	got := Combinations(axis)
	if len(got) != 1 || len(got[0]) != 1 || got[0][0] != axis[0] {
		t.Fatalf("expected one single-dimension combination, got %v", got)
	}
}

func TestCombinationsNoAxes(t *testing.T) {
	if got := Combinations(); got != nil {
		t.Fatalf("expected nil for no axes, got %v", got)
	}
}

func TestCombinationsEmptyAxis(t *testing.T) {
	host := []Dimension{{Name: "host", Value: "a"}, {Name: "host", Value: "b"}}

	// an empty axis makes the whole cross product empty
	if got := Combinations(host, nil); got != nil {
		t.Fatalf("expected nil when an axis is empty, got %v", got)
	}
	if got := Combinations(nil, host); got != nil {
		t.Fatalf("expected nil when the first axis is empty, got %v", got)
	}
	if got := Combinations([]Dimension{}); got != nil {
		t.Fatalf("expected nil for a single empty axis, got %v", got)
	}
}
