package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soypat/meshc"
	"github.com/soypat/meshc/config"
)

func TestRunScene(t *testing.T) {
	settings, err := config.Load("../../testdata/config.ini")
	if err != nil {
		t.Fatal(err)
	}
	f := flags{outDir: t.TempDir(), stl: true}
	err = runScene(context.Background(), f, settings, []string{"../../testdata/scene_cube.ini"})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"scene_cube.h", "scene_cube.c", "cube_tri.stl", "pyramid_tri.stl"} {
		if _, err := os.Stat(filepath.Join(f.outDir, name)); err != nil {
			t.Error(err)
		}
	}
	src, err := os.ReadFile(filepath.Join(f.outDir, "scene_cube.c"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(src), "#define SCENE_CUBE_EDGE_FLAG_COUNT 90\n") {
		t.Error("scene source missing edge flag count")
	}
}

func TestRunMesh(t *testing.T) {
	f := flags{outDir: t.TempDir(), hist: true}
	models := []string{"../../testdata/pyramid_tri.obj", "../../testdata/cube_tri.obj"}
	err := runMesh(context.Background(), f, config.Defaults(), models)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"mesh_pyramid_tri.h", "mesh_pyramid_tri.c", "mesh_cube_tri.c", "cube_tri_dots.png", "pyramid_tri_dots.png"} {
		if _, err := os.Stat(filepath.Join(f.outDir, name)); err != nil {
			t.Error(err)
		}
	}
}

func TestExitCode(t *testing.T) {
	for _, test := range []struct {
		err  error
		want int
	}{
		{meshc.ErrInvalidConfig, 2},
		{&meshc.MeshError{Mesh: "m", Err: meshc.ErrUnsupportedRepresentation}, 2},
		{&meshc.MeshError{Mesh: "m", Err: meshc.ErrNonManifoldEdge}, 1},
		{errors.New("open model.obj: no such file"), 1},
	} {
		if got := exitCode(test.err); got != test.want {
			t.Errorf("exitCode(%v) got %d, want %d", test.err, got, test.want)
		}
	}
}
