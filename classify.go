package meshc

import (
	"fmt"
	"math"

	"github.com/soypat/meshc/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// FlagLayout holds the bit positions edge flags are packed into.
type FlagLayout struct {
	VisibleBit    uint
	BoundaryBit   uint
	SilhouetteBit uint
}

// Pack packs the flags of e into a single byte.
func (l FlagLayout) Pack(e Edge) uint8 {
	return b2u8(e.Visible)<<l.VisibleBit |
		b2u8(e.Boundary)<<l.BoundaryBit |
		b2u8(e.Silhouette)<<l.SilhouetteBit
}

func b2u8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// FaceNormal returns the unit normal of the triangle p1,p2,p3 calculated
// as (p3-p2) × (p1-p2). ok is false if the cross product has zero length
// or the normal is not finite.
func FaceNormal(p1, p2, p3 r3.Vec) (n r3.Vec, ok bool) {
	e1 := r3.Sub(p3, p2)
	e2 := r3.Sub(p1, p2)
	// Scale edges by a power of two so their largest component is below 1
	// and the cross product of large or tiny triangles stays finite.
	if s := math.Max(d3.Max(d3.AbsElem(e1)), d3.Max(d3.AbsElem(e2))); s > 0 && !math.IsInf(s, 0) {
		_, exp := math.Frexp(s)
		e1 = r3.Scale(math.Ldexp(1, -exp), e1)
		e2 = r3.Scale(math.Ldexp(1, -exp), e2)
	}
	c := r3.Cross(e1, e2)
	norm := r3.Norm(c)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return r3.Vec{}, false
	}
	return r3.Scale(1/norm, c), true
}

// FaceNormals calculates the normal of every face.
func FaceNormals(pos []r3.Vec, faces []Face) ([]r3.Vec, error) {
	normals := make([]r3.Vec, len(faces))
	for i, f := range faces {
		n, ok := FaceNormal(pos[f[0]], pos[f[1]], pos[f[2]])
		if !ok {
			return nil, &MeshError{Face: i, Edge: -1, Vertex: -1, Err: ErrDegenerateFace}
		}
		normals[i] = n
	}
	return normals, nil
}

// FindSecondFace scans faces in order for the first face other than
// e.FirstFace having the edge's vertex pair, in either order, among its
// cyclic pairs (f0,f1), (f1,f2), (f2,f0).
func FindSecondFace(faces []Face, e Edge) (int, bool) {
	for i, f := range faces {
		if i == e.FirstFace {
			continue
		}
		if samePair(f[0], f[1], e) || samePair(f[1], f[2], e) || samePair(f[2], f[0], e) {
			return i, true
		}
	}
	return -1, false
}

func samePair(a, b int, e Edge) bool {
	return (a == e.V1 && b == e.V2) || (a == e.V2 && b == e.V1)
}

// Classify marks an edge as boundary when the dot product of its two
// face normals is not greater than threshold.
func Classify(n1, n2 r3.Vec, threshold float64) (dot float64, boundary bool) {
	dot = r3.Dot(n1, n2)
	return dot, !(dot > threshold)
}

// classifyEdges finds the second face of every edge of t and sets the
// Boundary flag. Every edge must be shared by exactly two faces.
func classifyEdges(t *topology, normals []r3.Vec, threshold float64) error {
	for i := range t.edges {
		e := &t.edges[i]
		second := -1
		for _, f := range t.incident[i] {
			if f == e.FirstFace {
				continue
			}
			if second >= 0 {
				return &MeshError{Face: f, Edge: i, Vertex: -1,
					Err: fmt.Errorf("%w: found third face", ErrNonManifoldEdge)}
			}
			second = f
		}
		if second < 0 {
			return &MeshError{Face: e.FirstFace, Edge: i, Vertex: -1,
				Err: fmt.Errorf("%w: no second face for edge (%d,%d)", ErrNonManifoldEdge, e.V1, e.V2)}
		}
		e.SecondFace = second
		e.Dot, e.Boundary = Classify(normals[e.FirstFace], normals[second], threshold)
	}
	return nil
}
