package meshc

import (
	"errors"
	"strconv"
	"strings"
)

// Error kinds returned by the compiler. Use errors.Is to test for them,
// the concrete error returned usually is a *MeshError carrying context.
var (
	ErrEmptyInput                = errors.New("mesh has no vertices or no faces")
	ErrUnsupportedRepresentation = errors.New("unsupported fixed point representation")
	ErrDegenerateFace            = errors.New("degenerate face, normal undefined")
	ErrNonManifoldEdge           = errors.New("edge is not shared by exactly two faces")
	ErrNonTriangularFace         = errors.New("face does not have exactly 3 vertices")
	ErrIndexOutOfRange           = errors.New("vertex index out of range")
	ErrNonFiniteCoordinate       = errors.New("coordinate is NaN or infinite")
	ErrValueOutOfRange           = errors.New("quantized value does not fit fixed point width")
	ErrInvalidInstanceCount      = errors.New("instance count must be at least 1")
	ErrCapacityExceeded          = errors.New("count exceeds index type capacity")
	ErrInvalidConfig             = errors.New("invalid configuration")
)

// MeshError locates a compilation failure inside a mesh.
// Index fields are -1 when they do not apply.
type MeshError struct {
	Mesh   string
	Face   int
	Edge   int
	Vertex int
	Err    error
}

func newMeshError(mesh string, err error) *MeshError {
	return &MeshError{Mesh: mesh, Face: -1, Edge: -1, Vertex: -1, Err: err}
}

func (e *MeshError) Error() string {
	var b strings.Builder
	b.WriteString("mesh ")
	b.WriteString(strconv.Quote(e.Mesh))
	if e.Edge >= 0 {
		b.WriteString(" edge ")
		b.WriteString(strconv.Itoa(e.Edge))
	}
	if e.Face >= 0 {
		b.WriteString(" face ")
		b.WriteString(strconv.Itoa(e.Face))
	}
	if e.Vertex >= 0 {
		b.WriteString(" vertex ")
		b.WriteString(strconv.Itoa(e.Vertex))
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *MeshError) Unwrap() error { return e.Err }
