package chart

import (
	"fmt"
	"math"

	"github.com/c9s/smcchart/pkg/types"
)

const (
	overlayLabelSize = 9.0

	liquidityStrokeScale = 2.0
	liquidityMaxStroke   = 6.0

	bosMarkerSize = 5.0
)

var dashPattern = []float64{4, 4}

// AnnotateFunc draws one kind of structural annotation in data space.
type AnnotateFunc func(c *Canvas, fc *frameContext)

// overlayLayers is the fixed compositing order. All layers are drawn
// before the price series so the series sits on top.
var overlayLayers = []struct {
	enabled  func(s Settings) bool
	annotate AnnotateFunc
}{
	{func(s Settings) bool { return s.ShowOrderBlocks }, drawOrderBlocks},
	{func(s Settings) bool { return s.ShowFairValueGaps }, drawFairValueGaps},
	{func(s Settings) bool { return s.ShowLiquidityZones }, drawLiquidityZones},
	{func(s Settings) bool { return s.ShowBreakOfStructure }, drawBreakOfStructures},
}

func drawOverlays(c *Canvas, fc *frameContext) {
	if fc.overlays.IsEmpty() {
		return
	}

	for _, layer := range overlayLayers {
		if layer.enabled(fc.settings) {
			layer.annotate(c, fc)
		}
	}
}

// zoneRect maps an (index, price) rectangle through the mapper.
func zoneRect(m Mapper, x1, x2, y1, y2 float64) Rect {
	return RectFromPoints(m.XOf(x1), m.YOf(y1), m.XOf(x2), m.YOf(y2))
}

func drawOrderBlocks(c *Canvas, fc *frameContext) {
	for _, ob := range fc.overlays.OrderBlocks {
		color := fc.palette.OrderBlockBearish
		if ob.Polarity.IsBullish() {
			color = fc.palette.OrderBlockBullish
		}

		confidence := math.Max(0, math.Min(1, ob.Confidence))
		r := zoneRect(fc.mapper, ob.X1, ob.X2, ob.Y1, ob.Y2)
		c.FillRect(r, color.WithAlpha(uint8(32+confidence*64)))
		c.StrokeRect(r, Pen{Color: color, Width: 1})
		c.Text(fmt.Sprintf("OB %.0f%%", confidence*100), r.Left+3, r.Top+overlayLabelSize+2, TextStyle{
			Color: color,
			Size:  overlayLabelSize,
		})
	}
}

func drawFairValueGaps(c *Canvas, fc *frameContext) {
	for _, gap := range fc.overlays.FairValueGaps {
		color := fc.palette.GapBearish
		if gap.Polarity.IsBullish() {
			color = fc.palette.GapBullish
		}

		pen := Pen{Color: color, Width: 1}
		if !gap.Filled {
			pen.Dash = dashPattern
		}

		r := zoneRect(fc.mapper, gap.X1, gap.X2, gap.Y1, gap.Y2)
		c.FillRect(r, color.WithAlpha(40))
		c.StrokeRect(r, pen)
		c.Text("FVG", r.Left+3, r.Bottom()-3, TextStyle{Color: color, Size: overlayLabelSize})
	}
}

func liquidityStrokeWidth(strength float64) float64 {
	return math.Max(1, math.Min(liquidityMaxStroke, strength*liquidityStrokeScale))
}

func drawLiquidityZones(c *Canvas, fc *frameContext) {
	for _, zone := range fc.overlays.LiquidityZones {
		color, label := fc.palette.Resistance, "Resistance"
		if zone.Kind == types.ZoneKindSupport {
			color, label = fc.palette.Support, "Support"
		}

		y := fc.mapper.YOf(zone.Price)
		c.Line(fc.plot.Left, y, fc.plot.Right(), y, Pen{
			Color: color.WithAlpha(200),
			Width: liquidityStrokeWidth(zone.Strength),
			Dash:  dashPattern,
		})
		c.Text(fmt.Sprintf("%s (%.1f)", label, zone.Strength), fc.plot.Left+4, y-4, TextStyle{
			Color: color,
			Size:  overlayLabelSize,
		})
	}
}

// bosTriangle returns the marker around (x, y). Bullish markers point down,
// bearish markers point up, following the direction price broke through.
func bosTriangle(x, y, size float64, polarity types.Polarity) []Point {
	if polarity.IsBullish() {
		return []Point{{X: x - size, Y: y - size}, {X: x + size, Y: y - size}, {X: x, Y: y + size}}
	}
	return []Point{{X: x - size, Y: y + size}, {X: x + size, Y: y + size}, {X: x, Y: y - size}}
}

func drawBreakOfStructures(c *Canvas, fc *frameContext) {
	for _, bos := range fc.overlays.BreakOfStructures {
		color := fc.palette.BOSBearish
		if bos.Polarity.IsBullish() {
			color = fc.palette.BOSBullish
		}

		x, y := fc.mapper.XOf(bos.Index), fc.mapper.YOf(bos.Price)
		size := bosMarkerSize + math.Max(0, math.Min(1, bos.Significance))*3
		c.FillPolygon(bosTriangle(x, y, size, bos.Polarity), color)

		labelY := y - size - 4
		if bos.Polarity.IsBullish() {
			labelY = y + size + overlayLabelSize + 2
		}
		c.Text("BOS", x, labelY, TextStyle{Color: color, Size: overlayLabelSize, Align: AlignCenter})
	}
}
