package chart

import (
	"math"
)

const (
	// priceRangePadding pads the raw high/low span on both ends so wicks are not clipped
	priceRangePadding = 0.1

	// minPriceSpan replaces a zero high/low span, e.g. a single flat candle
	minPriceSpan = 1e-4
)

type Rect struct {
	Left, Top, Width, Height float64
}

func (r Rect) Right() float64 {
	return r.Left + r.Width
}

func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

func (r Rect) Contains(x, y float64) bool {
	return r.ContainsX(x) && y >= r.Top && y <= r.Bottom()
}

func (r Rect) ContainsX(x float64) bool {
	return x >= r.Left && x <= r.Right()
}

func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Inflate grows the rectangle by m on every side.
func (r Rect) Inflate(m float64) Rect {
	return Rect{Left: r.Left - m, Top: r.Top - m, Width: r.Width + 2*m, Height: r.Height + 2*m}
}

// RectFromPoints builds a normalized rectangle from two corners.
func RectFromPoints(x1, y1, x2, y2 float64) Rect {
	return Rect{
		Left:   math.Min(x1, x2),
		Top:    math.Min(y1, y2),
		Width:  math.Abs(x2 - x1),
		Height: math.Abs(y2 - y1),
	}
}

// Insets are the margins reserved around the plot rectangle for the axes.
type Insets struct {
	Top, Right, Bottom, Left float64
}

var DefaultInsets = Insets{Top: 20, Right: 80, Bottom: 40, Left: 20}

// PlotRect returns the plot rectangle of a width x height surface.
func PlotRect(width, height float64, insets Insets) Rect {
	return Rect{
		Left:   insets.Left,
		Top:    insets.Top,
		Width:  width - insets.Left - insets.Right,
		Height: height - insets.Top - insets.Bottom,
	}
}

type PriceRange struct {
	Min, Max float64
}

func (r PriceRange) Span() float64 {
	return r.Max - r.Min
}

func (r PriceRange) Contains(p float64) bool {
	return p >= r.Min && p <= r.Max
}

// PaddedPriceRange pads [low, high] by 10% of the span on both ends.
// A zero or negative span falls back to minPriceSpan centred on the price.
func PaddedPriceRange(high, low float64) PriceRange {
	span := high - low
	if !(span > 0) || math.IsInf(span, 0) {
		mid := (high + low) / 2
		if math.IsNaN(mid) || math.IsInf(mid, 0) {
			mid = 0
		}
		low, high = mid-minPriceSpan/2, mid+minPriceSpan/2
		span = minPriceSpan
	}

	pad := span * priceRangePadding
	return PriceRange{Min: low - pad, Max: high + pad}
}

// Mapper maps (data index, price) to (pixel x, pixel y) and back.
// BaseCount is the number of candles that fit the plot width at zoom 1.
type Mapper struct {
	Plot      Rect
	Viewport  Viewport
	Range     PriceRange
	BaseCount int
}

func NewMapper(plot Rect, viewport Viewport, priceRange PriceRange, baseCount int) Mapper {
	if baseCount < 1 {
		baseCount = 1
	}
	if priceRange.Span() <= 0 {
		priceRange = PaddedPriceRange(priceRange.Max, priceRange.Min)
	}
	return Mapper{
		Plot:      plot,
		Viewport:  viewport.Normalize(),
		Range:     priceRange,
		BaseCount: baseCount,
	}
}

// PixelsPerIndex is the candle spacing at zoom 1.
func (m Mapper) PixelsPerIndex() float64 {
	return m.Plot.Width / float64(m.BaseCount)
}

// Spacing is the distance between two candle centres, the same constant
// drives the series geometry and the cursor hit-testing.
func (m Mapper) Spacing() float64 {
	return m.PixelsPerIndex() * m.Viewport.Zoom
}

func (m Mapper) XOf(index float64) float64 {
	spacing := m.Spacing()
	return m.Plot.Left + m.Viewport.PanX + index*spacing + spacing/2
}

// IndexOf is the continuous inverse of XOf.
func (m Mapper) IndexOf(x float64) float64 {
	spacing := m.Spacing()
	return (x - m.Plot.Left - m.Viewport.PanX - spacing/2) / spacing
}

func (m Mapper) YOf(price float64) float64 {
	return m.Plot.Top + m.Plot.Height - ((price-m.Range.Min)/m.Range.Span())*m.Plot.Height
}

func (m Mapper) PriceOf(y float64) float64 {
	return m.Range.Min + (m.Plot.Top+m.Plot.Height-y)/m.Plot.Height*m.Range.Span()
}
