package meshc

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// InstanceDesc locates the instances of one mesh in the flattened
// scene object array.
type InstanceDesc struct {
	FirstInstance int
	InstanceCount int
}

// ObjectLayout holds the offsets of one mesh instance (object) into the
// flat scene arrays. Model data offsets are element offsets, three
// elements per vertex, face or edge.
type ObjectLayout struct {
	Mesh int

	ModelVertexOffset int
	ModelFaceOffset   int
	ModelEdgeOffset   int

	TransformedVertexOffset int
	FaceFlagOffset          int
	EdgeFlagOffset          int
}

// Layout holds the scene-wide counts the runtime sizes its fixed
// capacity arrays with.
type Layout struct {
	// Model counts: geometry is stored once per mesh.
	ModelVertexCount int
	ModelFaceCount   int
	ModelEdgeCount   int

	// Per frame working set: one copy per instance.
	TransformedVertexCount int
	FaceFlagCount          int
	EdgeFlagCount          int

	ObjectCount int
	Instances   []InstanceDesc
	Objects     []ObjectLayout
}

// Scene is a set of compiled meshes with their layout.
type Scene struct {
	Name    string
	Meshes  []*Mesh
	Cameras int
	Layout  Layout
}

// SceneDesc describes a scene before compilation.
type SceneDesc struct {
	Name    string
	Cameras int
	Meshes  []RawMesh
}

// PlanLayout computes the scene counts and offset tables for meshes.
// Every count and offset must fit the index type described by
// cfg.IndexBits. Counts are checked before any object is laid out.
func PlanLayout(meshes []*Mesh, cfg Config) (Layout, error) {
	var l Layout
	l.Instances = make([]InstanceDesc, len(meshes))
	limit := cfg.maxIndex()
	// Model data sizes in elements, three per vertex, face or edge.
	var modelV, modelF, modelE int
	for i, m := range meshes {
		if m.Instances < 1 {
			return Layout{}, newMeshError(m.Name, fmt.Errorf("%w: got %d", ErrInvalidInstanceCount, m.Instances))
		}
		if uint64(m.Instances) > limit {
			return Layout{}, newMeshError(m.Name, fmt.Errorf("%w: %d instances > %d", ErrCapacityExceeded, m.Instances, limit))
		}
		vc, fc, ec := m.VertexCount(), m.FaceCount(), m.EdgeCount()
		l.Instances[i] = InstanceDesc{FirstInstance: l.ObjectCount, InstanceCount: m.Instances}
		l.ModelVertexCount += vc
		l.ModelFaceCount += fc
		l.ModelEdgeCount += ec
		l.TransformedVertexCount += vc * m.Instances
		l.FaceFlagCount += fc * m.Instances
		l.EdgeFlagCount += ec * m.Instances
		l.ObjectCount += m.Instances
		modelV += 3 * vc
		modelF += 3 * fc
		modelE += 3 * ec
		// Checked per mesh so running totals stay bounded by limit.
		for _, c := range []struct {
			name string
			v    int
		}{
			{"model vertex data", modelV},
			{"model face data", modelF},
			{"model edge data", modelE},
			{"transformed vertex", l.TransformedVertexCount},
			{"face flag", l.FaceFlagCount},
			{"edge flag", l.EdgeFlagCount},
			{"object", l.ObjectCount},
		} {
			if uint64(c.v) > limit {
				return Layout{}, fmt.Errorf("%w: %s count %d > %d", ErrCapacityExceeded, c.name, c.v, limit)
			}
		}
	}
	l.Objects = make([]ObjectLayout, 0, l.ObjectCount)
	var o ObjectLayout
	for i, m := range meshes {
		o.Mesh = i
		for j := 0; j < m.Instances; j++ {
			l.Objects = append(l.Objects, o)
			o.TransformedVertexOffset += m.VertexCount()
			o.FaceFlagOffset += m.FaceCount()
			o.EdgeFlagOffset += m.EdgeCount()
		}
		o.ModelVertexOffset += 3 * m.VertexCount()
		o.ModelFaceOffset += 3 * m.FaceCount()
		o.ModelEdgeOffset += 3 * m.EdgeCount()
	}
	return l, nil
}

// NewScene plans the layout of already compiled meshes.
func NewScene(name string, cameras int, meshes []*Mesh, cfg Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cameras < 1 {
		return nil, fmt.Errorf("%w: scene %q needs at least one camera, got %d", ErrInvalidConfig, name, cameras)
	}
	if len(meshes) == 0 {
		return nil, fmt.Errorf("%w: scene %q has no meshes", ErrEmptyInput, name)
	}
	layout, err := PlanLayout(meshes, cfg)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", name, err)
	}
	logger().Info("planned scene", "scene", name, "meshes", len(meshes), "objects", layout.ObjectCount,
		"transformed_vertices", layout.TransformedVertexCount, "edge_flags", layout.EdgeFlagCount)
	return &Scene{Name: name, Meshes: meshes, Cameras: cameras, Layout: layout}, nil
}

// CompileScene compiles every mesh of desc, up to cfg.Concurrency at a
// time, and plans the scene layout once all have finished. Results do not
// depend on scheduling: meshes keep their order and, if several meshes
// fail, the error of the first one in desc is returned. Canceling ctx
// stops meshes that have not started compiling yet.
func CompileScene(ctx context.Context, desc SceneDesc, cfg Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	meshes := make([]*Mesh, len(desc.Meshes))
	errs := make([]error, len(desc.Meshes))
	var g errgroup.Group
	g.SetLimit(cfg.workers())
	for i := range desc.Meshes {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			meshes[i], errs[i] = Compile(desc.Meshes[i], cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return NewScene(desc.Name, desc.Cameras, meshes, cfg)
}

// ModelVertexData returns the vertices of all meshes concatenated, in
// mesh order. Fixed point scenes return quantized values.
func (s *Scene) ModelVertexData() (quantized [][3]int64, passThrough [][3]float64) {
	for _, m := range s.Meshes {
		if m.Quantized != nil {
			quantized = append(quantized, m.Quantized...)
			continue
		}
		for _, v := range m.Vertices {
			passThrough = append(passThrough, [3]float64{v.X, v.Y, v.Z})
		}
	}
	return quantized, passThrough
}

// EdgeFlagData returns the packed edge flags of every object: each
// mesh's flags are repeated once per instance. The result has
// Layout.EdgeFlagCount elements.
func (s *Scene) EdgeFlagData(l FlagLayout) []uint8 {
	data := make([]uint8, 0, s.Layout.EdgeFlagCount)
	for _, m := range s.Meshes {
		flags := m.EdgeFlags(l)
		for j := 0; j < m.Instances; j++ {
			data = append(data, flags...)
		}
	}
	return data
}
