// Package cgen renders compiled meshes and scenes as lib3d C sources.
package cgen

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/soypat/meshc"
)

// Options control the text of generated files.
type Options struct {
	// GeneratedBy is written as the first banner line.
	GeneratedBy string
	// VertexType is the C element type of vertex arrays.
	VertexType string
	// IndexType is the C element type of face and edge arrays.
	IndexType string
	// FixedPoint describes quantized vertices in the banner. It is
	// ignored for pass-through meshes.
	FixedPoint meshc.FixedPoint
	// Flags packs edge flags.
	Flags meshc.FlagLayout
}

// DefaultOptions returns options matching meshc.DefaultConfig.
func DefaultOptions() Options {
	cfg := meshc.DefaultConfig()
	return Options{
		GeneratedBy: "Generated for lib3d by meshc.",
		VertexType:  "l3d_rtnl_t",
		IndexType:   "uint16_t",
		FixedPoint:  cfg.FixedPoint,
		Flags:       cfg.Flags,
	}
}

// Ident returns name as a C identifier: characters other than letters,
// digits and underscores are replaced by underscores and a leading digit
// is prefixed with one.
func Ident(name string) string {
	var sb strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return "_"
	}
	return sb.String()
}

// Macro returns name as an upper case C identifier.
func Macro(name string) string { return strings.ToUpper(Ident(name)) }

var funcs = template.FuncMap{
	"ident": Ident,
	"macro": Macro,
	"join":  strings.Join,
}

type banner struct {
	GeneratedBy string
	Label       string
	Name        string
	Fixed       bool
	FixedPoint  meshc.FixedPoint
	VertexType  string
	IndexType   string
}

const bannerTmpl = `{{define "banner"}}//
// {{.GeneratedBy}}
// {{.Label}}: '{{.Name}}'
{{- if .Fixed}}
// Fixed point type: {{.FixedPoint.CType}}
// Fixed point binary digits: {{.FixedPoint.FracBits}}
{{- end}}
// Vertex array type: {{.VertexType}}
// Face array type: {{.IndexType}}
// {{end}}`

func newTemplate(name, text string) *template.Template {
	t := template.Must(template.New(name).Funcs(funcs).Parse(bannerTmpl))
	return template.Must(t.Parse(text))
}

func execute(w io.Writer, t *template.Template, data any) error {
	err := t.Execute(w, data)
	if err != nil {
		return fmt.Errorf("cgen: %s: %w", t.Name(), err)
	}
	return nil
}

// vertexRows formats the vertices of m, one "x, y, z" row per vertex.
func vertexRows(m *meshc.Mesh) []string {
	if m.Quantized != nil {
		return quantizedRows(m.Quantized)
	}
	rows := make([]string, m.VertexCount())
	for i, v := range m.Vertices {
		rows[i] = cFloat(v.X) + ", " + cFloat(v.Y) + ", " + cFloat(v.Z)
	}
	return rows
}

func quantizedRows(q [][3]int64) []string {
	rows := make([]string, len(q))
	for i, v := range q {
		rows[i] = fmt.Sprintf("%d, %d, %d", v[0], v[1], v[2])
	}
	return rows
}

func floatRows(vs [][3]float64) []string {
	rows := make([]string, len(vs))
	for i, v := range vs {
		rows[i] = cFloat(v[0]) + ", " + cFloat(v[1]) + ", " + cFloat(v[2])
	}
	return rows
}

func faceRows(m *meshc.Mesh) []string {
	rows := make([]string, m.FaceCount())
	for i, f := range m.Faces {
		rows[i] = fmt.Sprintf("%d, %d, %d", f[0], f[1], f[2])
	}
	return rows
}

// edgeRows formats edges as V1, V2, FirstFace triples.
func edgeRows(m *meshc.Mesh) []string {
	rows := make([]string, m.EdgeCount())
	for i, e := range m.Edges {
		rows[i] = fmt.Sprintf("%d, %d, %d", e.V1, e.V2, e.FirstFace)
	}
	return rows
}

func flagRows(flags []uint8) []string {
	rows := make([]string, len(flags))
	for i, f := range flags {
		rows[i] = strconv.Itoa(int(f))
	}
	return rows
}

// cFloat formats v as a single precision C literal.
func cFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 32)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s + "f"
}
