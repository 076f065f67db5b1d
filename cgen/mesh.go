package cgen

import (
	"io"

	"github.com/soypat/meshc"
)

type meshData struct {
	banner
	Ident, Macro string
	Counts       [3]int
	Verts        []string
	Faces        []string
	Edges        []string
	Flags        []string
}

var meshHeader = newTemplate("mesh header", `#ifndef _MESH_{{.Macro}}_H_
#define _MESH_{{.Macro}}_H_

{{template "banner" .}}

#include "lib3d_config.h"

#define MESH_{{.Macro}}_VERT_COUNT {{index .Counts 0}}
#define MESH_{{.Macro}}_FACE_COUNT {{index .Counts 1}}
#define MESH_{{.Macro}}_EDGE_COUNT {{index .Counts 2}}

extern const {{.VertexType}} mesh_{{.Ident}}_verts[];
extern const {{.IndexType}} mesh_{{.Ident}}_faces[];
extern const {{.IndexType}} mesh_{{.Ident}}_edges[];
extern uint8_t mesh_{{.Ident}}_edge_flags[];

#endif // _MESH_{{.Macro}}_H_
`)

var meshSource = newTemplate("mesh source", `#include "mesh_{{.Ident}}.h"

const {{.VertexType}} mesh_{{.Ident}}_verts[] = {
	{{join .Verts ",\n\t"}}
};

const {{.IndexType}} mesh_{{.Ident}}_faces[] = {
	{{join .Faces ",\n\t"}}
};

const {{.IndexType}} mesh_{{.Ident}}_edges[] = {
	{{join .Edges ",\n\t"}}
};

uint8_t mesh_{{.Ident}}_edge_flags[] = {
	{{join .Flags ",\n\t"}}
};
`)

func newMeshData(m *meshc.Mesh, opts Options) meshData {
	return meshData{
		banner: banner{
			GeneratedBy: opts.GeneratedBy,
			Label:       "Mesh name",
			Name:        m.Name,
			Fixed:       m.Quantized != nil,
			FixedPoint:  opts.FixedPoint,
			VertexType:  opts.VertexType,
			IndexType:   opts.IndexType,
		},
		Ident:  Ident(m.Name),
		Macro:  Macro(m.Name),
		Counts: [3]int{m.VertexCount(), m.FaceCount(), m.EdgeCount()},
	}
}

// WriteMeshHeader writes the mesh_<name>.h declarations of m.
func WriteMeshHeader(w io.Writer, m *meshc.Mesh, opts Options) error {
	return execute(w, meshHeader, newMeshData(m, opts))
}

// WriteMeshSource writes the mesh_<name>.c arrays of m: vertices,
// faces, edges as (V1, V2, FirstFace) triples and packed edge flags.
func WriteMeshSource(w io.Writer, m *meshc.Mesh, opts Options) error {
	d := newMeshData(m, opts)
	d.Verts = vertexRows(m)
	d.Faces = faceRows(m)
	d.Edges = edgeRows(m)
	d.Flags = flagRows(m.EdgeFlags(opts.Flags))
	return execute(w, meshSource, d)
}

// MeshFileNames returns the header and source file names of a mesh.
func MeshFileNames(name string) (header, source string) {
	base := "mesh_" + Ident(name)
	return base + ".h", base + ".c"
}
