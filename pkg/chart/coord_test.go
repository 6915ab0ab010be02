package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testMapper(n int, viewport Viewport) Mapper {
	plot := PlotRect(800, 400, DefaultInsets)
	return NewMapper(plot, viewport, PaddedPriceRange(130, 95), n)
}

func TestPaddedPriceRange(t *testing.T) {
	r := PaddedPriceRange(110, 90)
	assert.InDelta(t, 88.0, r.Min, 1e-9)
	assert.InDelta(t, 112.0, r.Max, 1e-9)

	t.Run("flat", func(t *testing.T) {
		r := PaddedPriceRange(100, 100)
		assert.True(t, r.Span() > 0)
		assert.True(t, r.Contains(100))
		assert.InDelta(t, 100.0, (r.Min+r.Max)/2, 1e-9)
	})

	t.Run("inverted", func(t *testing.T) {
		r := PaddedPriceRange(90, 110)
		assert.True(t, r.Span() > 0)
	})
}

func TestMapper_PriceRoundTrip(t *testing.T) {
	m := testMapper(5, DefaultViewport())
	for i := 0; i <= 100; i++ {
		p := m.Range.Min + m.Range.Span()*float64(i)/100
		got := m.PriceOf(m.YOf(p))
		assert.InDelta(t, p, got, math.Abs(p)*1e-6, "price %f", p)
	}
}

func TestMapper_DegenerateRange(t *testing.T) {
	plot := PlotRect(800, 400, DefaultInsets)
	m := NewMapper(plot, DefaultViewport(), PriceRange{Min: 100, Max: 100}, 1)
	y := m.YOf(100)
	assert.False(t, math.IsNaN(y))
	assert.False(t, math.IsInf(y, 0))
	assert.InDelta(t, plot.Top+plot.Height/2, y, 1e-6)
}

func TestMapper_XOf(t *testing.T) {
	m := testMapper(5, DefaultViewport())
	// plot width 700 / 5 candles = 140px spacing
	assert.InDelta(t, 140.0, m.Spacing(), 1e-9)
	assert.InDelta(t, 20+70.0, m.XOf(0), 1e-9)
	assert.InDelta(t, 20+2*140+70.0, m.XOf(2), 1e-9)
	assert.InDelta(t, 2.0, m.IndexOf(m.XOf(2)), 1e-9)

	zoomed := testMapper(5, Viewport{Zoom: 2, PanX: -100})
	assert.InDelta(t, 280.0, zoomed.Spacing(), 1e-9)
	assert.InDelta(t, 20-100+280+140.0, zoomed.XOf(1), 1e-9)

	// out of range indices are still mapped linearly
	assert.InDelta(t, 20-140+70.0, m.XOf(-1), 1e-9)
}

func TestMapper_YOf(t *testing.T) {
	m := testMapper(5, DefaultViewport())
	assert.InDelta(t, m.Plot.Bottom(), m.YOf(m.Range.Min), 1e-9)
	assert.InDelta(t, m.Plot.Top, m.YOf(m.Range.Max), 1e-9)
	assert.True(t, m.YOf(120) < m.YOf(100), "higher prices are drawn higher")
}
