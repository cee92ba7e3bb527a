package report

import (
	"fmt"
	"image/color"
	"io"

	"epidemic-sim/internal/common"
	"epidemic-sim/internal/simulation"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	healthyColor   = color.RGBA{31, 119, 180, 255}
	infectedColor  = color.RGBA{255, 192, 203, 255}
	confirmedColor = color.RGBA{255, 0, 0, 255}
)

// ScatterSize is the side length of the square scatter image.
const ScatterSize = 8 * vg.Inch

// WriteScatter renders one snapshot as a PNG scatter plot, one colour per
// status, with the round caption as title.
func WriteScatter(w io.Writer, snap simulation.Snapshot) error {
	p := plot.New()
	p.Title.Text = snap.Caption()
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Legend.Top = true

	groups := []struct {
		name   string
		points []common.Vector
		color  color.Color
	}{
		{"healthy", snap.Healthy, healthyColor},
		{"infected", snap.Infected, infectedColor},
		{"confirmed", snap.Confirmed, confirmedColor},
	}
	for _, g := range groups {
		if len(g.points) == 0 {
			continue
		}
		s, err := plotter.NewScatter(toXYs(g.points))
		if err != nil {
			return fmt.Errorf("failed to build %s scatter: %w", g.name, err)
		}
		s.GlyphStyle.Color = g.color
		s.GlyphStyle.Radius = vg.Points(1.5)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(g.name, s)
	}

	wt, err := p.WriterTo(ScatterSize, ScatterSize, "png")
	if err != nil {
		return fmt.Errorf("failed to render scatter for round %d: %w", snap.Round, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write scatter for round %d: %w", snap.Round, err)
	}
	return nil
}

func toXYs(points []common.Vector) plotter.XYs {
	xys := make(plotter.XYs, 0, len(points))
	for _, p := range points {
		if len(p) < 2 {
			continue
		}
		xys = append(xys, plotter.XY{X: p[0], Y: p[1]})
	}
	return xys
}
