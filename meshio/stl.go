package meshio

import (
	"fmt"

	"github.com/hschendel/stl"
	"github.com/soypat/meshc"
	"gonum.org/v1/gonum/spatial/r3"
)

// LoadSTL reads an ASCII or binary STL file. STL stores every triangle
// with its own copy of the vertices so bit-identical vertices are merged,
// keeping the order in which they first appear.
func LoadSTL(path string) (meshc.RawMesh, error) {
	return LoadSTLWeld(path, 0)
}

// LoadSTLWeld reads an STL file merging vertices closer than about tol.
// See Weld.
func LoadSTLWeld(path string, tol float64) (meshc.RawMesh, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return meshc.RawMesh{}, err
	}
	raw, err := FromSTL(solid.Triangles, MeshName(path), tol)
	if err != nil {
		return meshc.RawMesh{}, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}

// FromSTL welds STL triangles into an indexed mesh.
func FromSTL(triangles []stl.Triangle, name string, tol float64) (meshc.RawMesh, error) {
	soup := make([][3]r3.Vec, len(triangles))
	for i, tri := range triangles {
		for j, v := range tri.Vertices {
			soup[i][j] = r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
		}
	}
	return Weld(soup, name, tol)
}

// Load reads a model file choosing the format by extension.
func Load(path string) (meshc.RawMesh, error) {
	switch ext(path) {
	case ".obj":
		return LoadOBJ(path)
	case ".stl":
		return LoadSTL(path)
	}
	return meshc.RawMesh{}, fmt.Errorf("%s: unsupported model format", path)
}
