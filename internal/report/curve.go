package report

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	healthyStroke   = drawing.Color{R: 31, G: 119, B: 180, A: 255}
	infectedStroke  = drawing.Color{R: 255, G: 105, B: 180, A: 255}
	confirmedStroke = drawing.Color{R: 214, G: 39, B: 40, A: 255}
)

// WriteCurve renders the healthy, infected and confirmed headcounts over
// time as a PNG line chart.
func WriteCurve(w io.Writer, h *History) error {
	if len(h.Tallies) < 2 {
		return fmt.Errorf("need at least 2 rounds to draw a curve, have %d", len(h.Tallies))
	}

	n := len(h.Tallies)
	rounds := make([]float64, n)
	healthy := make([]float64, n)
	infected := make([]float64, n)
	confirmed := make([]float64, n)
	for i, t := range h.Tallies {
		rounds[i] = float64(t.Round)
		healthy[i] = float64(t.Healthy)
		infected[i] = float64(t.Infected)
		confirmed[i] = float64(t.Confirmed)
	}

	graph := chart.Chart{
		Title:  "Epidemic curve",
		Width:  1024,
		Height: 512,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Round",
			Style: chart.Style{FontSize: 10.0},
		},
		YAxis: chart.YAxis{
			Name:  "Agents",
			Style: chart.Style{FontSize: 10.0},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "healthy",
				XValues: rounds,
				YValues: healthy,
				Style:   chart.Style{StrokeColor: healthyStroke, StrokeWidth: 3.0},
			},
			chart.ContinuousSeries{
				Name:    "infected",
				XValues: rounds,
				YValues: infected,
				Style:   chart.Style{StrokeColor: infectedStroke, StrokeWidth: 3.0},
			},
			chart.ContinuousSeries{
				Name:    "confirmed",
				XValues: rounds,
				YValues: confirmed,
				Style:   chart.Style{StrokeColor: confirmedStroke, StrokeWidth: 3.0},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render epidemic curve: %w", err)
	}
	return nil
}
