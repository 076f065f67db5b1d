package meshio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/soypat/meshc"
	"gonum.org/v1/gonum/spatial/r3"
)

// MeshName returns the mesh name for a model file: its base name
// without extension, i.e. "models/cube_tri.obj" gives "cube_tri".
func MeshName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadOBJ reads a Wavefront OBJ file. See ReadOBJ.
func LoadOBJ(path string) (meshc.RawMesh, error) {
	fp, err := os.Open(path)
	if err != nil {
		return meshc.RawMesh{}, err
	}
	defer fp.Close()
	raw, err := ReadOBJ(fp, MeshName(path))
	if err != nil {
		return meshc.RawMesh{}, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}

// ReadOBJ reads vertex (v) and face (f) records of a triangulated OBJ
// model. Vertices need exactly 3 coordinates and faces exactly 3 one-based
// vertex indices, which are stored zero-based. Face tokens of the form
// v/vt/vn use the vertex index. Other records, such as normals (vn),
// texture coordinates (vt), groups and materials are skipped.
func ReadOBJ(r io.Reader, name string) (meshc.RawMesh, error) {
	raw := meshc.RawMesh{Name: name, Instances: 1}
	skipped := make(map[string]int)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			v, err := parseVertex(fields[1:])
			if err != nil {
				return meshc.RawMesh{}, fmt.Errorf("line %d: %w", line, err)
			}
			raw.Vertices = append(raw.Vertices, v)
		case "f":
			f, err := parseFace(fields[1:])
			if err != nil {
				return meshc.RawMesh{}, fmt.Errorf("line %d: face %d: %w", line, len(raw.Faces), err)
			}
			raw.Faces = append(raw.Faces, f)
		default:
			skipped[fields[0]]++
		}
	}
	if err := scanner.Err(); err != nil {
		return meshc.RawMesh{}, err
	}
	for record, n := range skipped {
		meshc.Logger().Debug("skipped OBJ records", "mesh", name, "record", record, "count", n)
	}
	if len(raw.Vertices) == 0 || len(raw.Faces) == 0 {
		return meshc.RawMesh{}, fmt.Errorf("%w: %d vertices, %d faces", meshc.ErrEmptyInput, len(raw.Vertices), len(raw.Faces))
	}
	return raw, nil
}

func parseVertex(tokens []string) (r3.Vec, error) {
	// Optional w components are not supported.
	if len(tokens) != 3 {
		return r3.Vec{}, fmt.Errorf("vertex needs 3 coordinates, got %d", len(tokens))
	}
	var c [3]float64
	for i, tok := range tokens {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return r3.Vec{}, err
		}
		c[i] = f
	}
	return r3.Vec{X: c[0], Y: c[1], Z: c[2]}, nil
}

func parseFace(tokens []string) (meshc.Face, error) {
	if len(tokens) != 3 {
		return meshc.Face{}, fmt.Errorf("%w: got %d vertices", meshc.ErrNonTriangularFace, len(tokens))
	}
	var f meshc.Face
	for i, tok := range tokens {
		if slash := strings.IndexByte(tok, '/'); slash >= 0 {
			tok = tok[:slash]
		}
		idx, err := strconv.Atoi(tok)
		if err != nil {
			return meshc.Face{}, err
		}
		if idx < 1 {
			return meshc.Face{}, fmt.Errorf("%w: OBJ index %d, indices start at 1", meshc.ErrIndexOutOfRange, idx)
		}
		f[i] = idx - 1
	}
	return f, nil
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
