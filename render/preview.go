package render

import (
	"errors"
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/meshc"
	"github.com/soypat/meshc/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// View configures a mesh preview. The mesh is scaled to fit a
// bi-unit cube centered at the origin before rendering.
type View struct {
	Width, Height int
	// Supersample renders at Supersample times the output size and
	// downsamples the result for antialiasing.
	Supersample int
	// LookAt is the point looked at, Up is the up direction
	// and Eye the camera position.
	LookAt, Up, Eye r3.Vec
	// Fovy is the vertical field of view in degrees.
	Fovy, Near, Far float64

	Background, FaceColor, EdgeColor string
	LineWidth                        float64
}

// DefaultView looks at the origin from (3,3,3) with Z up.
func DefaultView() View {
	return View{
		Width:       768,
		Height:      432,
		Supersample: 2,
		Up:          r3.Vec{Z: 1},
		Eye:         d3.Elem(3),
		Fovy:        30,
		Near:        1,
		Far:         10,
		Background:  "#FFF8E3",
		FaceColor:   "#468966",
		EdgeColor:   "#B64926",
		LineWidth:   2,
	}
}

// Preview renders the faces of m with phong shading and draws its
// boundary edges on top of them.
func Preview(m *meshc.Mesh, view View) (image.Image, error) {
	if m.FaceCount() == 0 {
		return nil, errors.New("empty mesh")
	}
	if view.Width <= 0 || view.Height <= 0 {
		return nil, errors.New("preview size must be positive")
	}
	scale := view.Supersample
	if scale < 1 {
		scale = 1
	}
	pts := biUnitPoints(m.Vertices)
	tris := make([]*fauxgl.Triangle, len(m.Faces))
	for i, f := range m.Faces {
		tris[i] = fauxgl.NewTriangleForPoints(pts[f[0]], pts[f[1]], pts[f[2]])
	}
	var lines []*fauxgl.Line
	for _, e := range m.Edges {
		if e.Boundary {
			lines = append(lines, fauxgl.NewLineForPoints(pts[e.V1], pts[e.V2]))
		}
	}

	var (
		eye    = fauxgl.V(view.Eye.X, view.Eye.Y, view.Eye.Z)
		center = fauxgl.V(view.LookAt.X, view.LookAt.Y, view.LookAt.Z)
		up     = fauxgl.V(view.Up.X, view.Up.Y, view.Up.Z)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)
	context := fauxgl.NewContext(view.Width*scale, view.Height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor(view.Background))
	aspect := float64(view.Width) / float64(view.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(view.Fovy, aspect, view.Near, view.Far)

	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor(view.FaceColor)
	context.Shader = shader
	context.DrawTriangles(tris)

	// Lines share depth with the faces they border, pull them forward.
	context.Shader = fauxgl.NewSolidColorShader(matrix, fauxgl.HexColor(view.EdgeColor))
	context.LineWidth = view.LineWidth * float64(scale)
	context.DepthBias = -1e-4
	context.DrawLines(lines)

	img := context.Image()
	if scale > 1 {
		img = resize.Resize(uint(view.Width), uint(view.Height), img, resize.Bilinear)
	}
	return img, nil
}

// SavePreview renders m and saves the image as a PNG file.
func SavePreview(path string, m *meshc.Mesh, view View) error {
	img, err := Preview(m, view)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

// biUnitPoints maps verts into the [-1,1] cube keeping proportions.
func biUnitPoints(verts []r3.Vec) []fauxgl.Vector {
	bb := d3.BoundsOf(verts)
	center := bb.Center()
	size := d3.Max(bb.Size())
	s := 1.0
	if size > 0 {
		s = 2 / size
	}
	pts := make([]fauxgl.Vector, len(verts))
	for i, v := range verts {
		p := r3.Scale(s, r3.Sub(v, center))
		pts[i] = fauxgl.V(p.X, p.Y, p.Z)
	}
	return pts
}
