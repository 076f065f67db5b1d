package render

import (
	"errors"
	"io"

	"github.com/soypat/meshc"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// WriteDotHistogram plots the distribution of the normal dot products
// of m's edges as a PNG image, with a vertical line at threshold. Edges
// left of the line are classified as boundary. Useful to pick a
// BoundaryThreshold for a model.
func WriteDotHistogram(w io.Writer, m *meshc.Mesh, threshold float64, bins int) error {
	if m.EdgeCount() == 0 {
		return errors.New("mesh has no edges")
	}
	if bins < 1 {
		bins = 20
	}
	dots := make(plotter.Values, m.EdgeCount())
	for i := range m.Edges {
		dots[i] = m.Edges[i].Dot
	}
	p := plot.New()
	p.Title.Text = m.Name + " edge normal dot products"
	p.X.Label.Text = "n1·n2"
	p.Y.Label.Text = "edges"

	h, err := plotter.NewHist(dots, bins)
	if err != nil {
		return err
	}
	p.Add(h)
	var top float64
	for _, b := range h.Bins {
		if b.Weight > top {
			top = b.Weight
		}
	}
	marker, err := plotter.NewLine(plotter.XYs{{X: threshold, Y: 0}, {X: threshold, Y: top}})
	if err != nil {
		return err
	}
	p.Add(marker)
	p.Legend.Add("threshold", marker)

	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
