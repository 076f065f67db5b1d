package meshc

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// RawMesh is a triangulated mesh as read from a model file.
type RawMesh struct {
	Name string
	// Instances is the number of scene instances. Zero means 1.
	Instances int
	Vertices  []r3.Vec
	Faces     []Face
}

// Mesh is the compiled form of a RawMesh.
type Mesh struct {
	Name string
	// Instances is the number of times the mesh appears in a scene.
	Instances int
	// Vertices are the input positions.
	Vertices []r3.Vec
	// Quantized holds fixed point vertices. It is nil when compiled
	// without fixed point.
	Quantized [][3]int64
	Faces     []Face
	Normals   []r3.Vec
	Edges     []Edge
}

func (m *Mesh) VertexCount() int { return len(m.Vertices) }
func (m *Mesh) FaceCount() int   { return len(m.Faces) }
func (m *Mesh) EdgeCount() int   { return len(m.Edges) }

// BoundaryCount returns the number of edges flagged as boundary.
func (m *Mesh) BoundaryCount() (n int) {
	for i := range m.Edges {
		if m.Edges[i].Boundary {
			n++
		}
	}
	return n
}

// EdgeFlags returns the packed flags of every edge, in edge order.
func (m *Mesh) EdgeFlags(l FlagLayout) []uint8 {
	flags := make([]uint8, len(m.Edges))
	for i := range m.Edges {
		flags[i] = l.Pack(m.Edges[i])
	}
	return flags
}

// Compile quantizes the vertices of raw, builds its edge list and
// classifies every edge. raw must describe a closed 2-manifold
// triangle mesh: an edge without a second face is an error, so open
// surfaces cannot be compiled.
func Compile(raw RawMesh, cfg Config) (*Mesh, error) {
	if err := cfg.Validate(); err != nil {
		return nil, newMeshError(raw.Name, err)
	}
	m, err := compile(raw, cfg)
	if err != nil {
		var merr *MeshError
		if errors.As(err, &merr) {
			merr.Mesh = raw.Name
			return nil, merr
		}
		return nil, newMeshError(raw.Name, err)
	}
	logger().Debug("compiled mesh", "mesh", m.Name, "vertices", m.VertexCount(),
		"faces", m.FaceCount(), "edges", m.EdgeCount(), "boundary", m.BoundaryCount())
	return m, nil
}

func compile(raw RawMesh, cfg Config) (*Mesh, error) {
	if len(raw.Vertices) == 0 || len(raw.Faces) == 0 {
		return nil, fmt.Errorf("%w: %d vertices, %d faces", ErrEmptyInput, len(raw.Vertices), len(raw.Faces))
	}
	instances := raw.Instances
	if instances == 0 {
		instances = 1
	} else if instances < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidInstanceCount, instances)
	}
	nv := len(raw.Vertices)
	for i, f := range raw.Faces {
		for _, v := range f {
			if v < 0 || v >= nv {
				merr := newMeshError(raw.Name, fmt.Errorf("%w: %d vertices", ErrIndexOutOfRange, nv))
				merr.Face, merr.Vertex = i, v
				return nil, merr
			}
		}
	}
	quantized, pos, err := quantizeVertices(raw.Name, raw.Vertices, cfg)
	if err != nil {
		return nil, err
	}
	// Edges and normals are independent of each other.
	topo := buildTopology(raw.Faces)
	normals, err := FaceNormals(pos, raw.Faces)
	if err != nil {
		return nil, err
	}
	if err := classifyEdges(topo, normals, cfg.BoundaryThreshold); err != nil {
		return nil, err
	}
	return &Mesh{
		Name:      raw.Name,
		Instances: instances,
		Vertices:  raw.Vertices,
		Quantized: quantized,
		Faces:     raw.Faces,
		Normals:   normals,
		Edges:     topo.edges,
	}, nil
}
