package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Box is a 3d axis aligned bounding box.
type Box r3.Box

// BoundsOf returns the smallest box containing every point of set.
// An empty set returns the zero Box.
func BoundsOf(set []r3.Vec) Box {
	if len(set) == 0 {
		return Box{}
	}
	bb := Box{Min: Elem(math.MaxFloat64), Max: Elem(-math.MaxFloat64)}
	for _, v := range set {
		bb = bb.Include(v)
	}
	return bb
}

// Include enlarges a 3d box to include a point.
func (a Box) Include(v r3.Vec) Box {
	return Box{
		Min: MinElem(a.Min, v),
		Max: MaxElem(a.Max, v),
	}
}

// Size returns the size of a 3d box.
func (a Box) Size() r3.Vec {
	return r3.Sub(a.Max, a.Min)
}

// Center returns the center of a 3d box.
func (a Box) Center() r3.Vec {
	return r3.Add(a.Min, r3.Scale(0.5, a.Size()))
}

// MaxAbs returns the largest absolute coordinate found in the box.
func (a Box) MaxAbs() float64 {
	return math.Max(Max(AbsElem(a.Min)), Max(AbsElem(a.Max)))
}
