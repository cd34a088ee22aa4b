// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package rtt

import (
	"image/color"
	"math"

	"github.com/js-arias/blind"
	"github.com/js-arias/treedate/clock"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// outlier color
var gray = color.RGBA{160, 160, 160, 255}

func makePlot(name, title string, f clock.Fit, pts []clock.Point) error {
	used := make(map[string]bool, len(f.Points))
	for _, p := range f.Points {
		used[p.Taxon] = true
	}

	var max float64
	for _, p := range f.Points {
		if r := math.Abs(f.Residual(p)); r > max {
			max = r
		}
	}

	xys := make(plotter.XYs, len(pts))
	colors := make([]color.Color, len(pts))
	minX, maxX := math.Inf(1), math.Inf(-1)
	for i, p := range pts {
		xys[i].X = p.Time
		xys[i].Y = p.Dist
		minX = math.Min(minX, p.Time)
		maxX = math.Max(maxX, p.Time)

		if !used[p.Taxon] {
			colors[i] = gray
			continue
		}
		var v float64
		if max > 0 {
			v = math.Abs(f.Residual(p)) / max
		}
		colors[i] = blind.Sequential(blind.Iridescent, v)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "sampling date (days)"
	p.Y.Label.Text = "root-to-tip distance"

	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		gs := sc.GlyphStyle
		gs.Color = colors[i]
		return gs
	}

	ln := plotter.NewFunction(f.Predict)
	ln.XMin = math.Min(minX, f.Root())
	ln.XMax = maxX
	ln.LineStyle = plotter.DefaultLineStyle
	ln.LineStyle.Color = color.RGBA{0, 0, 0, 255}

	p.Add(sc, ln)
	p.X.Min = math.Min(p.X.Min, ln.XMin)
	p.Y.Min = math.Min(p.Y.Min, 0)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, name); err != nil {
		return err
	}
	return nil
}
