package plot

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"gomonte/domain/dataset"
	"gomonte/internal/errors"
)

// RenderHistogram writes a histogram of one measure from a single
// representative iteration, one series per group overlaid.
func RenderHistogram(ds dataset.Dataset, field, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = field
	p.Y.Label.Text = "count"

	groups := ds.Groups()
	if len(groups) == 0 {
		return errors.New(errors.CodeRender, "histogram: empty dataset")
	}
	for i, group := range groups {
		values := plotter.Values(ds.GroupColumn(group, field))
		if len(values) == 0 {
			return errors.Newf(errors.CodeRender, "histogram: group %s has no %q values", group, field)
		}
		h, err := plotter.NewHist(values, 30)
		if err != nil {
			return errors.Wrap(errors.WithCode(errors.CodeRender, err), "histogram")
		}
		h.FillColor = seriesColor(i, 128)
		p.Add(h)
		p.Legend.Add(group, h)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(errors.WithCode(errors.CodeRender, err), "histogram: save")
	}
	return nil
}

// RenderScatter writes an x/y scatter of a single representative
// iteration, one series per subpopulation tag so contamination is
// visible.
func RenderScatter(ds dataset.Dataset, xField, yField, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xField
	p.Y.Label.Text = yField

	tags := []string{}
	seen := map[string]bool{}
	for _, row := range ds.Rows {
		if !seen[row.Tag] {
			seen[row.Tag] = true
			tags = append(tags, row.Tag)
		}
	}

	for i, tag := range tags {
		xs := ds.TagColumn(tag, xField)
		ys := ds.TagColumn(tag, yField)
		if len(xs) == 0 || len(xs) != len(ys) {
			return errors.Newf(errors.CodeRender, "scatter: tag %q has %d x and %d y values", tag, len(xs), len(ys))
		}
		xys := make(plotter.XYs, len(xs))
		for j := range xs {
			xys[j].X = xs[j]
			xys[j].Y = ys[j]
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return errors.Wrap(errors.WithCode(errors.CodeRender, err), "scatter")
		}
		s.GlyphStyle.Radius = vg.Points(2)
		s.GlyphStyle.Color = seriesColor(i, 255)
		p.Add(s)
		if tag != "" {
			p.Legend.Add(tag, s)
		}
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(errors.WithCode(errors.CodeRender, err), "scatter: save")
	}
	return nil
}

// seriesColor cycles a small palette.
func seriesColor(i int, alpha uint8) color.Color {
	palette := []color.RGBA{
		{R: 31, G: 119, B: 180},
		{R: 255, G: 127, B: 14},
		{R: 44, G: 160, B: 44},
		{R: 214, G: 39, B: 40},
	}
	c := palette[i%len(palette)]
	c.A = alpha
	return c
}
