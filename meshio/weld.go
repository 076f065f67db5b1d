package meshio

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/meshc"
	"github.com/soypat/meshc/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Weld builds an indexed mesh from a triangle soup. Vertices are snapped
// to a grid of spacing tol and vertices falling in the same cell are
// merged into the first one found. If tol is zero only bit-identical
// vertices are merged.
func Weld(triangles [][3]r3.Vec, name string, tol float64) (meshc.RawMesh, error) {
	if len(triangles) == 0 {
		return meshc.RawMesh{}, fmt.Errorf("%w: no triangles", meshc.ErrEmptyInput)
	}
	if tol < 0 || math.IsNaN(tol) {
		return meshc.RawMesh{}, fmt.Errorf("negative weld tolerance %g", tol)
	}
	raw := meshc.RawMesh{
		Name:      name,
		Instances: 1,
		Faces:     make([]meshc.Face, len(triangles)),
	}
	if tol == 0 {
		cache := make(map[r3.Vec]int, len(triangles)/2)
		for i, tri := range triangles {
			for j, v := range tri {
				idx, ok := cache[v]
				if !ok {
					idx = len(raw.Vertices)
					cache[v] = idx
					raw.Vertices = append(raw.Vertices, v)
				}
				raw.Faces[i][j] = idx
			}
		}
		return raw, nil
	}

	bb := d3.Box{Min: d3.Elem(math.MaxFloat64), Max: d3.Elem(-math.MaxFloat64)}
	maxSide2 := 0.0
	for _, tri := range triangles {
		for j, v := range tri {
			bb = bb.Include(v)
			maxSide2 = math.Max(maxSide2, r3.Norm2(r3.Sub(tri[(j+1)%3], v)))
		}
	}
	if tol > math.Sqrt(maxSide2)/2 {
		return meshc.RawMesh{}, fmt.Errorf("weld tolerance %g too large for triangles with sides up to %g", tol, math.Sqrt(maxSide2))
	}
	if bb.MaxAbs()/tol > math.MaxInt64/2 {
		return meshc.RawMesh{}, errors.New("weld tolerance too small, grid overflows int64")
	}
	cache := make(map[[3]int64]int, len(triangles)/2)
	ri := 1 / tol
	for i, tri := range triangles {
		for j, v := range tri {
			s := r3.Scale(ri, v)
			cell := [3]int64{int64(math.Round(s.X)), int64(math.Round(s.Y)), int64(math.Round(s.Z))}
			idx, ok := cache[cell]
			if !ok {
				idx = len(raw.Vertices)
				cache[cell] = idx
				raw.Vertices = append(raw.Vertices, v)
			}
			raw.Faces[i][j] = idx
		}
	}
	return raw, nil
}
