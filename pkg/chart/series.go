package chart

import (
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	// bodyWidthRatio is the candle body width relative to the candle spacing
	bodyWidthRatio = 0.6

	// highlightMargin inflates the hovered candle geometry for its outline
	highlightMargin = 3.0

	// areaGradientBands is the number of alpha steps between the line and the floor
	areaGradientBands = 16

	// volumeHeightRatio is the share of the plot height used by the volume bars
	volumeHeightRatio = 0.2
)

// seriesPainter draws the price series of one frame. The painter is picked
// once per frame from the render mode.
type seriesPainter interface {
	Paint(c *Canvas, fc *frameContext)
}

func painterFor(mode RenderMode) seriesPainter {
	switch mode {
	case ModeLine:
		return linePainter{}
	case ModeArea:
		return linePainter{area: true}
	case ModeHeikinAshi:
		// the heikin-ashi candles are derived once per frame in the geometry
		return candlestickPainter{}
	}
	return candlestickPainter{}
}

func bodyWidth(spacing float64) float64 {
	return math.Max(1.0, spacing*bodyWidthRatio)
}

// candleBodyRect returns the body rectangle of a candle centred at x.
func candleBodyRect(m Mapper, x, open, close float64) Rect {
	w := bodyWidth(m.Spacing())
	yOpen, yClose := m.YOf(open), m.YOf(close)
	body := RectFromPoints(x-w/2, yOpen, x+w/2, yClose)
	if body.Height < 1 {
		body.Top -= (1 - body.Height) / 2
		body.Height = 1
	}
	return body
}

type candlestickPainter struct{}

func (candlestickPainter) Paint(c *Canvas, fc *frameContext) {
	m := fc.mapper
	hoveredBody := Rect{}
	hasHovered := false

	for i, k := range fc.rendered {
		index := fc.window.Start + i
		x := m.XOf(float64(index))
		if !fc.plot.ContainsX(x) {
			continue
		}

		color := fc.palette.Bearish
		if k.IsBullish() {
			color = fc.palette.Bullish
		}

		// wick first so the filled body covers it
		c.Line(x, m.YOf(k.High), x, m.YOf(k.Low), Pen{Color: color, Width: 1})

		body := candleBodyRect(m, x, k.Open, k.Close)
		if k.IsBullish() {
			// bullish bodies are hollow, bearish bodies are filled
			c.StrokeRect(body, Pen{Color: color, Width: 1})
		} else {
			c.FillRect(body, color)
			c.StrokeRect(body, Pen{Color: color, Width: 1})
		}

		if index == fc.hovered {
			hoveredBody = body
			hasHovered = true
		}
	}

	if hasHovered {
		c.StrokeRect(hoveredBody.Inflate(highlightMargin), Pen{Color: fc.palette.Highlight, Width: 1.5})
	}
}

type linePainter struct {
	area bool
}

func (p linePainter) Paint(c *Canvas, fc *frameContext) {
	m := fc.mapper
	points := make([]Point, 0, len(fc.rendered))
	for i, k := range fc.rendered {
		x := m.XOf(float64(fc.window.Start + i))
		if !fc.plot.ContainsX(x) {
			continue
		}
		points = append(points, Point{X: x, Y: m.YOf(k.Close)})
	}

	if len(points) == 0 {
		return
	}

	if p.area {
		fillAreaGradient(c, points, fc.plot.Bottom(), fc.palette.AreaFill)
	}

	c.Polyline(points, Pen{Color: fc.palette.Line, Width: 2})

	if fc.window.Contains(fc.hovered) {
		k := fc.rendered[fc.hovered-fc.window.Start]
		x, y := m.XOf(float64(fc.hovered)), m.YOf(k.Close)
		if fc.plot.ContainsX(x) {
			c.FillCircle(x, y, 3, fc.palette.Line)
			c.StrokeCircle(x, y, 3+highlightMargin, Pen{Color: fc.palette.Highlight, Width: 1.5})
		}
	}
}

// fillAreaGradient fills the region between the polyline and the floor one
// pixel column at a time. Alpha fades linearly from the fill color, opaque in
// both palettes, at the line to transparent at the floor.
func fillAreaGradient(c *Canvas, points []Point, floor float64, fill drawing.Color) {
	if len(points) == 1 {
		points = []Point{points[0], {X: points[0].X + 1, Y: points[0].Y}}
	}

	seg := 1
	last := points[len(points)-1].X
	for x := math.Floor(points[0].X); x < last; x++ {
		center := x + 0.5
		for seg < len(points)-1 && center > points[seg].X {
			seg++
		}

		a, b := points[seg-1], points[seg]
		t := 0.0
		if b.X != a.X {
			t = (center - a.X) / (b.X - a.X)
		}
		t = math.Max(0, math.Min(1, t))
		y := a.Y + (b.Y-a.Y)*t
		if y >= floor {
			continue
		}

		bandHeight := (floor - y) / areaGradientBands
		for band := 0; band < areaGradientBands; band++ {
			alpha := float64(fill.A) * (1 - float64(band)/areaGradientBands)
			c.FillRect(Rect{
				Left:   x,
				Top:    y + float64(band)*bandHeight,
				Width:  1,
				Height: bandHeight,
			}, fill.WithAlpha(uint8(alpha)))
		}
	}
}

// drawVolume draws volume bars in the bottom of the plot rectangle scaled to
// the largest visible volume.
func drawVolume(c *Canvas, fc *frameContext) {
	maxVolume := fc.visible.MaxVolume()
	if maxVolume <= 0 {
		return
	}

	m := fc.mapper
	w := bodyWidth(m.Spacing())
	maxHeight := fc.plot.Height * volumeHeightRatio
	floor := fc.plot.Bottom()
	for i, k := range fc.visible {
		x := m.XOf(float64(fc.window.Start + i))
		if !fc.plot.ContainsX(x) {
			continue
		}

		color := fc.palette.Bearish
		if k.IsBullish() {
			color = fc.palette.Bullish
		}

		h := k.Volume / maxVolume * maxHeight
		c.FillRect(Rect{Left: x - w/2, Top: floor - h, Width: w, Height: h}, color.WithAlpha(77))
	}
}
