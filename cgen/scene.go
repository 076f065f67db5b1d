package cgen

import (
	"fmt"
	"io"
	"strconv"

	"github.com/soypat/meshc"
)

type sceneMesh struct {
	Name, Macro string
	Counts      [3]int
	Instances   meshc.InstanceDesc
	Verts       []string
	Faces       []string
	Edges       []string
}

type sceneObject struct {
	ID       int
	Instance int
	Macro    string
	Layout   meshc.ObjectLayout
	Flags    []string
}

type sceneData struct {
	banner
	Ident, Macro string
	Layout       meshc.Layout
	MeshCount    int
	Cameras      int
	Meshes       []sceneMesh
	Objects      []sceneObject
}

var sceneHeader = newTemplate("scene header", `#ifndef _{{.Macro}}_H_
#define _{{.Macro}}_H_

{{template "banner" .}}

#include "lib3d_scene.h"
{{range .Meshes}}
#define {{$.Macro}}_OBJ_{{.Macro}}_INSTANCE_COUNT {{.Instances.InstanceCount}}
{{- end}}

// Object instances ID's
{{- range .Objects}}
#define {{$.Macro}}_OBJ_{{.Macro}}_ID {{.ID}}
{{- end}}

// Number of different meshes in the scene
#define {{.Macro}}_MESH_COUNT {{.MeshCount}}
// Total number of objects in the scene (different meshes * their no. of instances)
#define {{.Macro}}_OBJ_COUNT {{.Layout.ObjectCount}}
// Total number of cameras in the scene
#define {{.Macro}}_CAM_COUNT {{.Cameras}}

extern l3d_scene_t {{.Ident}};

l3d_err_t {{.Ident}}_init(void);

#endif // _{{.Macro}}_H_
`)

var sceneSource = newTemplate("scene source", `#include "{{.Ident}}.h"
#include "lib3d_config.h"
#include "lib3d_math.h"
#include "lib3d_core.h"

//
// Scene defines
//
#define {{.Macro}}_MODEL_VERT_COUNT {{.Layout.ModelVertexCount}}
#define {{.Macro}}_MODEL_FACE_COUNT {{.Layout.ModelFaceCount}}
#define {{.Macro}}_MODEL_EDGE_COUNT {{.Layout.ModelEdgeCount}}

#define {{.Macro}}_TRANSFORMED_VERT_COUNT {{.Layout.TransformedVertexCount}}
#define {{.Macro}}_FACE_FLAG_COUNT {{.Layout.FaceFlagCount}}
#define {{.Macro}}_EDGE_FLAG_COUNT {{.Layout.EdgeFlagCount}}

//
// Object defines
//
{{- range .Meshes}}
#define MESH_{{.Macro}}_VERT_COUNT {{index .Counts 0}}
#define MESH_{{.Macro}}_FACE_COUNT {{index .Counts 1}}
#define MESH_{{.Macro}}_EDGE_COUNT {{index .Counts 2}}
{{- end}}

const {{.VertexType}} {{.Ident}}_model_vertex_data[] = {
{{- range .Meshes}}
	// {{.Name}}
	{{join .Verts ",\n\t"}},
{{- end}}
};

const {{.IndexType}} {{.Ident}}_model_face_data[] = {
{{- range .Meshes}}
	// {{.Name}}
	{{join .Faces ",\n\t"}},
{{- end}}
};

const {{.IndexType}} {{.Ident}}_model_edge_data[] = {
{{- range .Meshes}}
	// {{.Name}}
	{{join .Edges ",\n\t"}},
{{- end}}
};

uint8_t {{.Ident}}_edge_flags[] = {
{{- range .Objects}}
	// {{(index $.Meshes .Layout.Mesh).Name}} instance {{.Instance}}
	{{join .Flags ",\n\t"}},
{{- end}}
};

l3d_scene_t {{.Ident}};
l3d_vec4_t {{.Ident}}_vertices_world[{{.Macro}}_TRANSFORMED_VERT_COUNT];
l3d_vec4_t {{.Ident}}_vertices_projected[{{.Macro}}_TRANSFORMED_VERT_COUNT];
uint8_t {{.Ident}}_face_flags[{{.Macro}}_FACE_FLAG_COUNT];
l3d_obj3d_t {{.Ident}}_objects[{{.Macro}}_OBJ_COUNT];
l3d_scene_instance_desc_t {{.Ident}}_mesh_instances[{{.Macro}}_MESH_COUNT];
l3d_camera_t {{.Ident}}_cameras[{{.Macro}}_CAM_COUNT];

static l3d_err_t init_objects(void) {
	l3d_obj3d_t *obj;
{{- range .Objects}}
{{- $mesh := index $.Meshes .Layout.Mesh}}

	// {{$mesh.Name}}
	obj = &{{$.Ident}}_objects[{{$.Macro}}_OBJ_{{.Macro}}_ID];
	obj->mesh.vert_count = MESH_{{$mesh.Macro}}_VERT_COUNT;
	obj->mesh.tri_count = MESH_{{$mesh.Macro}}_FACE_COUNT;
	obj->mesh.edge_count = MESH_{{$mesh.Macro}}_EDGE_COUNT;
	obj->mesh.model_vert_data_offset = {{.Layout.ModelVertexOffset}};
	obj->mesh.model_tri_data_offset = {{.Layout.ModelFaceOffset}};
	obj->mesh.model_edge_data_offset = {{.Layout.ModelEdgeOffset}};
	obj->mesh.transformed_vertices_offset = {{.Layout.TransformedVertexOffset}};
	obj->mesh.tris_flags_offset = {{.Layout.FaceFlagOffset}};
	obj->mesh.edges_flags_offset = {{.Layout.EdgeFlagOffset}};
{{- end}}

	for (uint16_t obj_id = 0; obj_id < {{.Macro}}_OBJ_COUNT; obj_id++) {
		obj = &{{.Ident}}_objects[obj_id];
		obj->local_pos = l3d_getZeroVec4();
		obj->orientation = l3d_getIdentityQuat();
		obj->wireframe_colour = L3D_COLOUR_WHITE;
		obj->u[0] = l3d_getVec4FromFloat(0.0f, 0.0f, 0.0f, 1.0f);
		obj->u[1] = l3d_getVec4FromFloat(1.0f, 0.0f, 0.0f, 1.0f);
		obj->u[2] = l3d_getVec4FromFloat(0.0f, 1.0f, 0.0f, 1.0f);
		obj->u[3] = l3d_getVec4FromFloat(0.0f, 0.0f, 1.0f, 1.0f);
	}
	return L3D_OK;
}

static l3d_err_t init_cameras(void) {
	l3d_err_t ret = L3D_OK;
	for (uint16_t i = 0; i < {{.Macro}}_CAM_COUNT; i++) {
		ret = l3d_cam_reset(&{{.Ident}}.cameras[i]);
		if (ret != L3D_OK)
			return ret;
	}
	return ret;
}

l3d_err_t {{.Ident}}_init(void) {
	{{.Ident}}.model_vert_data = {{.Ident}}_model_vertex_data;
	{{.Ident}}.model_tri_data = {{.Ident}}_model_face_data;
	{{.Ident}}.model_edge_data = {{.Ident}}_model_edge_data;

	{{.Ident}}.model_vertex_count = {{.Macro}}_MODEL_VERT_COUNT;
	{{.Ident}}.model_tri_count = {{.Macro}}_MODEL_FACE_COUNT;
	{{.Ident}}.model_edge_count = {{.Macro}}_MODEL_EDGE_COUNT;

	{{.Ident}}.vertices_world = {{.Ident}}_vertices_world;
	{{.Ident}}.vertices_projected = {{.Ident}}_vertices_projected;

	{{.Ident}}.tri_flags = {{.Ident}}_face_flags;
	{{.Ident}}.edge_flags = {{.Ident}}_edge_flags;

	{{.Ident}}.transformed_vertex_count = {{.Macro}}_TRANSFORMED_VERT_COUNT;
	{{.Ident}}.tri_flag_count = {{.Macro}}_FACE_FLAG_COUNT;
	{{.Ident}}.edge_flag_count = {{.Macro}}_EDGE_FLAG_COUNT;

	{{.Ident}}.objects = {{.Ident}}_objects;
	{{.Ident}}.object_count = {{.Macro}}_OBJ_COUNT;
{{range $i, $m := .Meshes}}
	// {{$m.Name}}
	{{$.Ident}}_mesh_instances[{{$i}}].first_instance_idx = {{$m.Instances.FirstInstance}};
	{{$.Ident}}_mesh_instances[{{$i}}].instance_count = {{$.Macro}}_OBJ_{{$m.Macro}}_INSTANCE_COUNT;
{{- end}}

	{{.Ident}}.cameras = {{.Ident}}_cameras;
	{{.Ident}}.camera_count = {{.Macro}}_CAM_COUNT;
	{{.Ident}}.active_camera = &{{.Ident}}.cameras[0];

	l3d_err_t ret = init_objects();
	if (ret != L3D_OK)
		return ret;
	ret = init_cameras();
	if (ret != L3D_OK)
		return ret;

	l3d_makeProjectionMatrix(&{{.Ident}}.mat_proj, {{.Ident}}.active_camera);
	l3d_computeViewMatrix({{.Ident}}.active_camera, &({{.Ident}}.mat_view));
	return l3d_setupObjects(&{{.Ident}});
}
`)

func newSceneData(s *meshc.Scene, opts Options) sceneData {
	d := sceneData{
		banner: banner{
			GeneratedBy: opts.GeneratedBy,
			Label:       "Scene name",
			Name:        s.Name,
			FixedPoint:  opts.FixedPoint,
			VertexType:  opts.VertexType,
			IndexType:   opts.IndexType,
		},
		Ident:     Ident(s.Name),
		Macro:     Macro(s.Name),
		Layout:    s.Layout,
		MeshCount: len(s.Meshes),
		Cameras:   s.Cameras,
	}
	for i, m := range s.Meshes {
		d.Fixed = d.Fixed || m.Quantized != nil
		d.Meshes = append(d.Meshes, sceneMesh{
			Name:      m.Name,
			Macro:     Macro(m.Name),
			Counts:    [3]int{m.VertexCount(), m.FaceCount(), m.EdgeCount()},
			Instances: s.Layout.Instances[i],
		})
	}
	for id, o := range s.Layout.Objects {
		desc := s.Layout.Instances[o.Mesh]
		instance := id - desc.FirstInstance
		d.Objects = append(d.Objects, sceneObject{
			ID:       id,
			Instance: instance,
			Macro:    d.Meshes[o.Mesh].Macro + "_I" + strconv.Itoa(instance),
			Layout:   o,
		})
	}
	return d
}

// WriteSceneHeader writes the <scene>.h declarations of s: instance
// counts, object IDs and the scene init function.
func WriteSceneHeader(w io.Writer, s *meshc.Scene, opts Options) error {
	return execute(w, sceneHeader, newSceneData(s, opts))
}

// WriteSceneSource writes the <scene>.c definitions of s: model data
// concatenated in mesh order, edge flags repeated per instance, the
// working arrays sized by the scene layout and an init function that
// sets every object's offsets.
func WriteSceneSource(w io.Writer, s *meshc.Scene, opts Options) error {
	d := newSceneData(s, opts)
	quantized, passThrough := s.ModelVertexData()
	if quantized != nil && passThrough != nil {
		return fmt.Errorf("cgen: scene %q mixes fixed point and pass-through meshes", s.Name)
	}
	verts := floatRows(passThrough)
	if quantized != nil {
		verts = quantizedRows(quantized)
	}
	flags := flagRows(s.EdgeFlagData(opts.Flags))
	for k := range d.Objects {
		o := d.Objects[k].Layout
		m := s.Meshes[o.Mesh]
		if d.Objects[k].Instance == 0 {
			first := o.ModelVertexOffset / 3
			d.Meshes[o.Mesh].Verts = verts[first : first+m.VertexCount()]
			d.Meshes[o.Mesh].Faces = faceRows(m)
			d.Meshes[o.Mesh].Edges = edgeRows(m)
		}
		d.Objects[k].Flags = flags[o.EdgeFlagOffset : o.EdgeFlagOffset+m.EdgeCount()]
	}
	return execute(w, sceneSource, d)
}

// SceneFileNames returns the header and source file names of a scene.
func SceneFileNames(name string) (header, source string) {
	base := Ident(name)
	return base + ".h", base + ".c"
}
