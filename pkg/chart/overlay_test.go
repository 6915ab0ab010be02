package chart

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c9s/smcchart/pkg/types"
)

func TestBOSTriangleOrientation(t *testing.T) {
	// bullish markers point down: the apex is below the base
	bull := bosTriangle(100, 100, 5, types.PolarityBullish)
	assert.Greater(t, bull[2].Y, bull[0].Y)
	assert.Equal(t, bull[0].Y, bull[1].Y)

	// bearish markers point up
	bear := bosTriangle(100, 100, 5, types.PolarityBearish)
	assert.Less(t, bear[2].Y, bear[0].Y)
}

func TestLiquidityStrokeWidth(t *testing.T) {
	assert.Equal(t, 1.0, liquidityStrokeWidth(0))
	assert.Equal(t, 1.0, liquidityStrokeWidth(0.2))
	assert.Equal(t, 3.0, liquidityStrokeWidth(1.5))
	assert.Equal(t, liquidityMaxStroke, liquidityStrokeWidth(100))
}

func TestZoneRectNormalizes(t *testing.T) {
	m := testMapper(5, DefaultViewport())
	a := zoneRect(m, 1, 3, 100, 120)
	b := zoneRect(m, 3, 1, 120, 100)
	assert.Equal(t, a, b)
	assert.InDelta(t, m.XOf(1), a.Left, 1e-9)
	assert.InDelta(t, m.YOf(120), a.Top, 1e-9)
}

func TestDrawOverlays_SkipsDisabledLayers(t *testing.T) {
	snap := testSnapshot(ascendingCandles())
	snap.Settings.ShowGrid = false
	snap.Settings.ShowVolume = false
	snap.Overlays = &types.OverlayBundle{
		LiquidityZones: []types.LiquidityZone{{Price: 112.5, Strength: 2, Kind: types.ZoneKindSupport}},
	}

	engine := NewEngine()
	m, _, _ := engine.Mapper(snap)
	y := m.YOf(112.5)

	shown := frameImage(t, engine.Render(snap))

	snap.Settings.ShowLiquidityZones = false
	hidden := frameImage(t, engine.Render(snap))

	background := toRGBA(PaletteOf(snap.Settings.Theme).Background)
	rowCount := func(img image.Image) (n int) {
		for x := m.Plot.Left; x < m.Plot.Right(); x++ {
			if pixelAt(t, img, x, y) != background {
				n++
			}
		}
		return n
	}
	assert.Greater(t, rowCount(shown), rowCount(hidden))
}

func TestDrawFairValueGaps_BorderStyle(t *testing.T) {
	edgeColors := func(filled bool) map[color.RGBA]struct{} {
		snap := testSnapshot(ascendingCandles())
		snap.Settings.ShowGrid = false
		snap.Settings.ShowVolume = false
		snap.Overlays = &types.OverlayBundle{
			FairValueGaps: []types.FairValueGap{
				{X1: 0.5, X2: 1.5, Y1: 120, Y2: 128, Polarity: types.PolarityBullish, Filled: filled},
			},
		}

		engine := NewEngine()
		m, _, _ := engine.Mapper(snap)
		img := frameImage(t, engine.Render(snap))

		r := zoneRect(m, 0.5, 1.5, 120, 128)
		colors := map[color.RGBA]struct{}{}
		for x := r.Left + 10; x < r.Right()-10; x++ {
			colors[pixelAt(t, img, x, r.Top)] = struct{}{}
		}
		return colors
	}

	// a filled gap has a solid top edge, an open gap a dashed one
	assert.Len(t, edgeColors(true), 1)
	assert.Greater(t, len(edgeColors(false)), 1)
}
