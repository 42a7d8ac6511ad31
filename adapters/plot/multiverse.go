package plot

import (
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"gomonte/domain/summary"
	"gomonte/internal/errors"
)

// errPoints feeds scatter positions plus asymmetric error bars to the
// outcome panel.
type errPoints struct {
	plotter.XYs
	plotter.YErrors
}

// RenderMultiverse builds the layout for the summary table and writes
// the two-panel composite PNG: the outcome (with optional interval bars
// and cutoff line) over rank order on top, and for every condition
// column a row of points at the same ranks underneath.
func RenderMultiverse(table summary.Table, spec MultiverseSpec, path string) error {
	layout, err := BuildLayout(table, spec)
	if err != nil {
		return err
	}
	return renderLayout(layout, path)
}

func renderLayout(layout *Layout, path string) error {
	n := len(layout.Order)

	upper := plot.New()
	upper.Title.Text = layout.Spec.Title
	upper.Y.Label.Text = layout.Spec.Outcome
	upper.X.Min = -0.5
	upper.X.Max = float64(n) - 0.5

	pts := errPoints{
		XYs:     make(plotter.XYs, n),
		YErrors: make(plotter.YErrors, n),
	}
	for r, idx := range layout.Order {
		pts.XYs[r].X = float64(r)
		pts.XYs[r].Y = layout.Outcome[idx]
		if layout.Lower != nil {
			pts.YErrors[r].Low = layout.Outcome[idx] - layout.Lower[idx]
			pts.YErrors[r].High = layout.Upper[idx] - layout.Outcome[idx]
		}
	}

	scatter, err := plotter.NewScatter(pts.XYs)
	if err != nil {
		return errors.Wrap(errors.WithCode(errors.CodeRender, err), "multiverse: outcome scatter")
	}
	scatter.GlyphStyle.Radius = vg.Points(2)
	upper.Add(scatter)

	if layout.Lower != nil {
		bars, err := plotter.NewYErrorBars(pts)
		if err != nil {
			return errors.Wrap(errors.WithCode(errors.CodeRender, err), "multiverse: interval bars")
		}
		upper.Add(bars)
	}

	if layout.Spec.Cutoff != nil {
		cut := *layout.Spec.Cutoff
		line, err := plotter.NewLine(plotter.XYs{
			{X: -0.5, Y: cut},
			{X: float64(n) - 0.5, Y: cut},
		})
		if err != nil {
			return errors.Wrap(errors.WithCode(errors.CodeRender, err), "multiverse: cutoff line")
		}
		line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		upper.Add(line)
	}

	lower := plot.New()
	lower.X.Label.Text = "rank"
	lower.X.Min = -0.5
	lower.X.Max = float64(n) - 0.5
	lower.Y.Min = -0.5
	lower.Y.Max = float64(len(layout.Lanes)) - 0.5

	laneXYs := make(plotter.XYs, len(layout.Points))
	for i, pt := range layout.Points {
		laneXYs[i].X = float64(pt.Rank)
		// Invert so the first lane draws at the top.
		laneXYs[i].Y = float64(len(layout.Lanes) - 1 - pt.Lane)
	}
	laneScatter, err := plotter.NewScatter(laneXYs)
	if err != nil {
		return errors.Wrap(errors.WithCode(errors.CodeRender, err), "multiverse: condition scatter")
	}
	laneScatter.GlyphStyle.Radius = vg.Points(2)
	lower.Add(laneScatter)

	labels := make([]string, len(layout.Lanes))
	for i, lane := range layout.Lanes {
		labels[len(labels)-1-i] = lane.Label()
	}
	lower.NominalY(labels...)

	img := vgimg.New(vg.Points(640), vg.Points(480))
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: 2, Cols: 1, PadY: vg.Millimeter * 2}
	canvases := plot.Align([][]*plot.Plot{{upper}, {lower}}, tiles, dc)
	upper.Draw(canvases[0][0])
	lower.Draw(canvases[1][0])

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.WithCode(errors.CodeRender, err), "multiverse: create output file")
	}
	defer f.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return errors.Wrap(errors.WithCode(errors.CodeRender, err), "multiverse: write png")
	}
	return nil
}
