// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchplot renders benchchart.ChartSpecs as PNG images using
// gonum/plot.
package benchplot

import (
	"context"
	"fmt"
	"image/color"

	"github.com/hpcbench/cipherplot/benchchart"
	"github.com/hpcbench/cipherplot/storage/fs"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Default image geometry.
const (
	DefaultDPI         = 150
	DefaultPanelWidth  = 7 * vg.Inch
	DefaultPanelHeight = 6 * vg.Inch
)

// A Renderer draws charts and stores them in an FS. It implements
// benchchart.Renderer.
type Renderer struct {
	FS fs.FS

	// DPI is the image resolution. Zero means DefaultDPI.
	DPI int

	// PanelWidth and PanelHeight are the size of one panel of a
	// chart. Zero means the defaults.
	PanelWidth, PanelHeight vg.Length
}

// Render draws spec and writes it to r.FS as spec.Name + ".png". It
// returns the location of the written image.
func (r *Renderer) Render(ctx context.Context, spec *benchchart.ChartSpec) (string, error) {
	if spec.Rows < 1 || spec.Cols < 1 || len(spec.Panels) != spec.Rows*spec.Cols {
		return "", fmt.Errorf("%s: %d panels do not fill a %d×%d grid", spec.Name, len(spec.Panels), spec.Rows, spec.Cols)
	}
	pw, ph, dpi := r.PanelWidth, r.PanelHeight, r.DPI
	if pw == 0 {
		pw = DefaultPanelWidth
	}
	if ph == 0 {
		ph = DefaultPanelHeight
	}
	if dpi == 0 {
		dpi = DefaultDPI
	}

	grid := make([][]*plot.Plot, spec.Rows)
	for i := range grid {
		grid[i] = make([]*plot.Plot, spec.Cols)
		for j := range grid[i] {
			p, err := newPlot(spec.Panels[i*spec.Cols+j], pw)
			if err != nil {
				return "", fmt.Errorf("%s: %w", spec.Name, err)
			}
			grid[i][j] = p
		}
	}

	img := vgimg.NewWith(
		vgimg.UseWH(vg.Length(spec.Cols)*pw, vg.Length(spec.Rows)*ph),
		vgimg.UseDPI(dpi),
		vgimg.UseBackgroundColor(color.White),
	)
	dc := draw.New(img)
	if spec.Rows == 1 && spec.Cols == 1 {
		grid[0][0].Draw(dc)
	} else {
		tiles := draw.Tiles{
			Rows: spec.Rows, Cols: spec.Cols,
			PadX: vg.Millimeter, PadY: vg.Millimeter,
			PadTop: vg.Points(2), PadBottom: vg.Points(2),
			PadLeft: vg.Points(2), PadRight: vg.Points(2),
		}
		canvases := plot.Align(grid, tiles, dc)
		for i := range grid {
			for j := range grid[i] {
				grid[i][j].Draw(canvases[i][j])
			}
		}
	}

	name := spec.Name + ".png"
	w, err := r.FS.NewWriter(ctx, name, map[string]string{"Content-Type": "image/png"})
	if err != nil {
		return "", err
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(w); err != nil {
		w.CloseWithError(err)
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return r.FS.Path(name), nil
}

// newPlot builds the plot of one panel. width is the panel's width on
// the page, which bounds the width of bars.
func newPlot(pn *benchchart.Panel, width vg.Length) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = pn.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = pn.XLabel
	p.Y.Label.Text = pn.YLabel
	p.Legend.Top = true
	p.Legend.Left = true

	grid := plotter.NewGrid()
	grid.Horizontal.Color = color.Gray{0xDD}
	grid.Vertical.Color = color.Gray{0xDD}
	if pn.Kind == benchchart.Bar {
		grid.Vertical.Color = nil
	}
	p.Add(grid)

	if pn.LegendTitle != "" {
		p.Legend.Add(pn.LegendTitle)
	}

	var err error
	switch pn.Kind {
	case benchchart.Line:
		err = addLines(p, pn)
	case benchchart.Bar:
		err = addBars(p, pn, width)
	default:
		err = fmt.Errorf("unknown panel kind %d", pn.Kind)
	}
	if err != nil {
		return nil, err
	}

	// A log axis needs positive data to place its ticks.
	if !pn.Empty() {
		if pn.XScale == benchchart.Log {
			p.X.Scale = plot.LogScale{}
			p.X.Tick.Marker = plot.LogTicks{}
		}
		if pn.YScale == benchchart.Log {
			p.Y.Scale = plot.LogScale{}
			p.Y.Tick.Marker = plot.LogTicks{}
		}
	}
	if pn.XTicks != nil {
		ticks := make(plot.ConstantTicks, len(pn.XTicks))
		for i, t := range pn.XTicks {
			ticks[i] = plot.Tick{Value: t.Value, Label: t.Label}
		}
		p.X.Tick.Marker = ticks
	}
	if pn.YRange != nil {
		p.Y.Min, p.Y.Max = pn.YRange.Min, pn.YRange.Max
	}
	return p, nil
}

func xys(s *benchchart.Series) plotter.XYs {
	pts := make(plotter.XYs, len(s.Points))
	for i, pt := range s.Points {
		pts[i].X, pts[i].Y = pt.X, pt.Y
	}
	return pts
}

func addLines(p *plot.Plot, pn *benchchart.Panel) error {
	i := 0
	for _, s := range pn.Series {
		if len(s.Points) == 0 {
			continue
		}
		if s.Ideal {
			l, err := plotter.NewLine(xys(s))
			if err != nil {
				return err
			}
			l.Color = color.Gray{0x40}
			l.Width = vg.Points(1)
			l.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
			p.Add(l)
			p.Legend.Add(s.Label, l)
			continue
		}
		l, pts, err := plotter.NewLinePoints(xys(s))
		if err != nil {
			return err
		}
		c := seriesColor(s.Style, i)
		l.Color = c
		l.Width = vg.Points(2)
		pts.Color = c
		pts.Shape = plotutil.Shape(i)
		pts.Radius = vg.Points(3)
		p.Add(l, pts)
		p.Legend.Add(s.Label, l, pts)
		i++
	}
	return nil
}

func addBars(p *plot.Plot, pn *benchchart.Panel, width vg.Length) error {
	n := len(pn.Series)
	if n == 0 || len(pn.Categories) == 0 {
		return nil
	}
	// Bars of one category share 80% of its slot.
	slot := width * 0.75 / vg.Length(len(pn.Categories))
	w := slot * 0.8 / vg.Length(n)
	for i, s := range pn.Series {
		vals := make(plotter.Values, len(pn.Categories))
		for _, pt := range s.Points {
			if j := int(pt.X); j >= 0 && j < len(vals) {
				vals[j] = pt.Y
			}
		}
		bars, err := plotter.NewBarChart(vals, w)
		if err != nil {
			return err
		}
		bars.Offset = w * (vg.Length(i) - vg.Length(n-1)/2)
		bars.Color = seriesColor(s.Style, i)
		bars.LineStyle.Width = 0
		p.Add(bars)
		p.Legend.Add(s.Label, bars)

		if pn.BarLabels {
			labels, err := barLabels(vals, bars.Offset)
			if err != nil {
				return err
			}
			p.Add(labels)
		}
	}
	p.NominalX(pn.Categories...)
	return nil
}

// barLabels annotates each bar with its value.
func barLabels(vals plotter.Values, offset vg.Length) (*plotter.Labels, error) {
	xy := plotter.XYLabels{
		XYs:    make(plotter.XYs, len(vals)),
		Labels: make([]string, len(vals)),
	}
	for i, v := range vals {
		xy.XYs[i].X, xy.XYs[i].Y = float64(i), v
		xy.Labels[i] = fmt.Sprintf("%.0f", v)
	}
	labels, err := plotter.NewLabels(xy)
	if err != nil {
		return nil, err
	}
	labels.Offset = vg.Point{X: offset, Y: vg.Points(3)}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font.Size = vg.Points(8)
		labels.TextStyle[i].XAlign = draw.XCenter
	}
	return labels, nil
}
