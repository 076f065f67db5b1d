package meshc_test

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/soypat/meshc"
)

func TestPlanLayoutCubeInstances(t *testing.T) {
	cfg := meshc.DefaultConfig()
	cube := compileModel(t, "testdata/cube_tri.obj", cfg)
	a, b := *cube, *cube
	a.Instances, b.Instances = 2, 1
	l, err := meshc.PlanLayout([]*meshc.Mesh{&a, &b}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if l.ObjectCount != 3 {
		t.Errorf("object count got %d, want 3", l.ObjectCount)
	}
	want := []meshc.InstanceDesc{{FirstInstance: 0, InstanceCount: 2}, {FirstInstance: 2, InstanceCount: 1}}
	for i := range want {
		if l.Instances[i] != want[i] {
			t.Errorf("instance desc %d got %+v, want %+v", i, l.Instances[i], want[i])
		}
	}
	if l.ModelVertexCount != 16 || l.TransformedVertexCount != 24 {
		t.Errorf("vertex counts got model=%d transformed=%d", l.ModelVertexCount, l.TransformedVertexCount)
	}
}

func TestPlanLayoutIdentities(t *testing.T) {
	cfg := meshc.DefaultConfig()
	cube := compileModel(t, "testdata/cube_tri.obj", cfg)
	pyramid := compileModel(t, "testdata/pyramid_tri.obj", cfg)
	tetra := compileModel(t, "testdata/tetrahedron.obj", cfg)
	var meshes []*meshc.Mesh
	for i, src := range []*meshc.Mesh{cube, pyramid, tetra, cube, tetra} {
		m := *src
		m.Instances = 1 + (i*3)%5
		meshes = append(meshes, &m)
	}
	l, err := meshc.PlanLayout(meshes, cfg)
	if err != nil {
		t.Fatal(err)
	}
	var mv, mf, me, tv, ff, ef, objs int
	for k, m := range meshes {
		if l.Instances[k].FirstInstance != objs {
			t.Errorf("mesh %d first instance got %d, want %d", k, l.Instances[k].FirstInstance, objs)
		}
		for j := 0; j < m.Instances; j++ {
			o := l.Objects[objs+j]
			if o.Mesh != k || o.ModelVertexOffset != 3*mv || o.ModelFaceOffset != 3*mf || o.ModelEdgeOffset != 3*me {
				t.Errorf("object %d model offsets %+v", objs+j, o)
			}
			if o.TransformedVertexOffset != tv || o.FaceFlagOffset != ff || o.EdgeFlagOffset != ef {
				t.Errorf("object %d flag offsets %+v", objs+j, o)
			}
			tv += m.VertexCount()
			ff += m.FaceCount()
			ef += m.EdgeCount()
		}
		mv += m.VertexCount()
		mf += m.FaceCount()
		me += m.EdgeCount()
		objs += m.Instances
	}
	if l.ModelVertexCount != mv || l.ModelFaceCount != mf || l.ModelEdgeCount != me {
		t.Errorf("model counts got %d %d %d, want %d %d %d", l.ModelVertexCount, l.ModelFaceCount, l.ModelEdgeCount, mv, mf, me)
	}
	if l.TransformedVertexCount != tv || l.FaceFlagCount != ff || l.EdgeFlagCount != ef {
		t.Errorf("working set counts got %d %d %d, want %d %d %d", l.TransformedVertexCount, l.FaceFlagCount, l.EdgeFlagCount, tv, ff, ef)
	}
	if l.ObjectCount != objs || len(l.Objects) != objs {
		t.Errorf("object count got %d (%d layouts), want %d", l.ObjectCount, len(l.Objects), objs)
	}
}

func TestPlanLayoutCapacity(t *testing.T) {
	cfg := meshc.DefaultConfig()
	cfg.IndexBits = 8
	cube := compileModel(t, "testdata/cube_tri.obj", cfg)
	cube.Instances = 40 // 40*18 edge flags do not fit uint8_t counts.
	_, err := meshc.PlanLayout([]*meshc.Mesh{cube}, cfg)
	if !errors.Is(err, meshc.ErrCapacityExceeded) {
		t.Fatalf("got error %v", err)
	}
	// Huge instance counts fail before objects are laid out.
	var before, after runtime.MemStats
	for _, n := range []int{60_000, 1_000_000_000} {
		cube.Instances = n
		runtime.ReadMemStats(&before)
		_, err = meshc.PlanLayout([]*meshc.Mesh{cube}, meshc.DefaultConfig())
		runtime.ReadMemStats(&after)
		if !errors.Is(err, meshc.ErrCapacityExceeded) {
			t.Errorf("%d instances: got error %v", n, err)
		}
		if alloc := after.TotalAlloc - before.TotalAlloc; alloc > 1<<20 {
			t.Errorf("%d instances: allocated %d bytes before failing", n, alloc)
		}
	}
	cube.Instances = 0
	_, err = meshc.PlanLayout([]*meshc.Mesh{cube}, meshc.DefaultConfig())
	if !errors.Is(err, meshc.ErrInvalidInstanceCount) {
		t.Fatalf("got error %v", err)
	}
}

// scene_cube as generated by the lib3d converter: 3 cubes and 4 pyramids.
func TestCompileSceneCube(t *testing.T) {
	cfg := meshc.DefaultConfig()
	cube := loadModel(t, "testdata/cube_tri.obj")
	pyramid := loadModel(t, "testdata/pyramid_tri.obj")
	cube.Instances, pyramid.Instances = 3, 4
	for _, workers := range []int{1, 2, 8} {
		cfg.Concurrency = workers
		s, err := meshc.CompileScene(context.Background(), meshc.SceneDesc{
			Name:    "scene_cube",
			Cameras: 1,
			Meshes:  []meshc.RawMesh{cube, pyramid},
		}, cfg)
		if err != nil {
			t.Fatal(err)
		}
		l := s.Layout
		if l.ModelVertexCount != 13 || l.ModelFaceCount != 18 || l.ModelEdgeCount != 27 {
			t.Errorf("model counts %d %d %d", l.ModelVertexCount, l.ModelFaceCount, l.ModelEdgeCount)
		}
		if l.TransformedVertexCount != 44 || l.FaceFlagCount != 60 || l.EdgeFlagCount != 90 {
			t.Errorf("working set counts %d %d %d", l.TransformedVertexCount, l.FaceFlagCount, l.EdgeFlagCount)
		}
		if l.ObjectCount != 7 || l.Instances[1].FirstInstance != 3 {
			t.Errorf("objects %d, pyramid first instance %d", l.ObjectCount, l.Instances[1].FirstInstance)
		}
		if s.Meshes[0].Name != "cube_tri" || s.Meshes[1].Name != "pyramid_tri" {
			t.Errorf("mesh order changed: %s, %s", s.Meshes[0].Name, s.Meshes[1].Name)
		}
		flags := s.EdgeFlagData(cfg.Flags)
		if len(flags) != l.EdgeFlagCount {
			t.Fatalf("edge flag data has %d elements, want %d", len(flags), l.EdgeFlagCount)
		}
		// Last pyramid instance.
		want := []uint8{6, 6, 6, 6, 6, 4, 6, 6, 6}
		for i, f := range flags[len(flags)-9:] {
			if f != want[i] {
				t.Errorf("pyramid instance 3 flag %d got %d, want %d", i, f, want[i])
			}
		}
		q, pass := s.ModelVertexData()
		if len(q) != 13 || pass != nil {
			t.Errorf("got %d quantized and %d pass-through vertices", len(q), len(pass))
		}
	}
}

func TestCompileSceneFirstError(t *testing.T) {
	cfg := meshc.DefaultConfig()
	good := loadModel(t, "testdata/tetrahedron.obj")
	open1 := good
	open1.Name = "open1"
	open1.Faces = good.Faces[:2]
	open2 := good
	open2.Name = "open2"
	open2.Faces = good.Faces[1:]
	for _, workers := range []int{1, 4} {
		cfg.Concurrency = workers
		_, err := meshc.CompileScene(context.Background(), meshc.SceneDesc{
			Name:    "broken",
			Cameras: 1,
			Meshes:  []meshc.RawMesh{good, open1, good, open2},
		}, cfg)
		var merr *meshc.MeshError
		if !errors.As(err, &merr) || merr.Mesh != "open1" {
			t.Errorf("workers=%d: got error %v, want error from open1", workers, err)
		}
	}
}

func TestCompileSceneCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := meshc.CompileScene(ctx, meshc.SceneDesc{
		Name:    "canceled",
		Cameras: 1,
		Meshes:  []meshc.RawMesh{loadModel(t, "testdata/tetrahedron.obj")},
	}, meshc.DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got error %v", err)
	}
}

func TestNewSceneValidation(t *testing.T) {
	cfg := meshc.DefaultConfig()
	tetra := compileModel(t, "testdata/tetrahedron.obj", cfg)
	if _, err := meshc.NewScene("nocam", 0, []*meshc.Mesh{tetra}, cfg); !errors.Is(err, meshc.ErrInvalidConfig) {
		t.Errorf("zero cameras: got %v", err)
	}
	if _, err := meshc.NewScene("nomesh", 1, nil, cfg); !errors.Is(err, meshc.ErrEmptyInput) {
		t.Errorf("no meshes: got %v", err)
	}
}
