package chart

import (
	"fmt"
	"math"
)

const (
	gridDivisions   = 10
	priceLabelCount = 8
	timeLabelCount  = 6
	axisLabelSize   = 10.0
	timeLabelFormat = "15:04"
)

// drawGrid draws the fixed 10x10 dashed reference grid. It depends on the
// plot rectangle only.
func drawGrid(c *Canvas, plot Rect, palette Palette) {
	pen := Pen{Color: palette.Grid, Width: 0.5, Dash: []float64{2, 4}}
	for i := 0; i <= gridDivisions; i++ {
		x := plot.Left + plot.Width*float64(i)/gridDivisions
		c.Line(x, plot.Top, x, plot.Bottom(), pen)

		y := plot.Top + plot.Height*float64(i)/gridDivisions
		c.Line(plot.Left, y, plot.Right(), y, pen)
	}
}

// maskMargins repaints the axis margins with the background so shapes mapped
// outside the plot rectangle do not bleed into the axes.
func maskMargins(c *Canvas, plot Rect, palette Palette) {
	w, h := c.Width(), c.Height()
	bg := palette.Background
	c.FillRect(Rect{Left: 0, Top: 0, Width: w, Height: plot.Top}, bg)
	c.FillRect(Rect{Left: 0, Top: plot.Bottom(), Width: w, Height: h - plot.Bottom()}, bg)
	c.FillRect(Rect{Left: 0, Top: plot.Top, Width: plot.Left, Height: plot.Height}, bg)
	c.FillRect(Rect{Left: plot.Right(), Top: plot.Top, Width: w - plot.Right(), Height: plot.Height}, bg)
}

func formatPrice(p float64) string {
	return fmt.Sprintf("%.4f", p)
}

// priceTicks returns priceLabelCount evenly spaced prices between min and max.
func priceTicks(r PriceRange) []float64 {
	ticks := make([]float64, priceLabelCount)
	for i := range ticks {
		ticks[i] = r.Min + r.Span()*float64(i)/float64(priceLabelCount-1)
	}
	return ticks
}

// timeTickIndices samples up to timeLabelCount indices from the window by
// index position, not by time interval.
func timeTickIndices(w Window) []int {
	n := w.Len()
	if n == 0 {
		return nil
	}

	var out []int
	last := -1
	for i := 0; i < timeLabelCount; i++ {
		idx := w.Start
		if n > 1 {
			idx = w.Start + int(math.Round(float64(i)*float64(n-1)/float64(timeLabelCount-1)))
		}
		if idx == last {
			continue
		}
		out = append(out, idx)
		last = idx
	}
	return out
}

func drawAxes(c *Canvas, fc *frameContext) {
	plot := fc.plot
	maskMargins(c, plot, fc.palette)

	axisPen := Pen{Color: fc.palette.Axis, Width: 1}
	c.Line(plot.Right(), plot.Top, plot.Right(), plot.Bottom(), axisPen)
	c.Line(plot.Left, plot.Bottom(), plot.Right(), plot.Bottom(), axisPen)

	textStyle := TextStyle{Color: fc.palette.Text, Size: axisLabelSize, Align: AlignRight}
	labelRight := c.Width() - 4
	for _, p := range priceTicks(fc.priceRange) {
		y := fc.mapper.YOf(p)
		c.Line(plot.Right(), y, plot.Right()+4, y, axisPen)
		c.Text(formatPrice(p), labelRight, y+axisLabelSize/2-1, textStyle)
	}

	timeStyle := TextStyle{Color: fc.palette.Text, Size: axisLabelSize, Align: AlignCenter}
	for _, idx := range timeTickIndices(fc.window) {
		x := fc.mapper.XOf(float64(idx))
		if !plot.ContainsX(x) {
			continue
		}
		c.Line(x, plot.Bottom(), x, plot.Bottom()+4, axisPen)
		label := fc.series[idx].Time().In(fc.location).Format(timeLabelFormat)
		c.Text(label, x, plot.Bottom()+4+axisLabelSize+2, timeStyle)
	}
}
