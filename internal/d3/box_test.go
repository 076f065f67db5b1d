package d3

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestBoundsOf(t *testing.T) {
	set := []r3.Vec{{X: 1, Y: -2, Z: 0.5}, {X: -3, Y: 4, Z: 0}, {X: 0, Y: 0, Z: -1}}
	bb := BoundsOf(set)
	want := Box{Min: r3.Vec{X: -3, Y: -2, Z: -1}, Max: r3.Vec{X: 1, Y: 4, Z: 0.5}}
	if !EqualWithin(bb.Min, want.Min, 0) || !EqualWithin(bb.Max, want.Max, 0) {
		t.Fatalf("got %+v, want %+v", bb, want)
	}
	if got := bb.MaxAbs(); got != 4 {
		t.Errorf("MaxAbs got %g, want 4", got)
	}
	if c := bb.Center(); !EqualWithin(c, r3.Vec{X: -1, Y: 1, Z: -0.25}, 1e-12) {
		t.Errorf("center got %v", c)
	}
	if (BoundsOf(nil) != Box{}) {
		t.Error("empty set should return zero box")
	}
}
