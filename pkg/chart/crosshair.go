package chart

import (
	"fmt"
)

const (
	infoPanelTextSize = 10.0
	infoPanelPadding  = 6.0
	infoPanelWidth    = 150.0
	infoTimeFormat    = "2006-01-02 15:04"
)

var crosshairDash = []float64{3, 3}

func drawCrosshair(c *Canvas, fc *frameContext) {
	cur := fc.cursor
	if !cur.IsOver || !fc.plot.Contains(cur.X, cur.Y) {
		return
	}

	pen := Pen{Color: fc.palette.Crosshair, Width: 1, Dash: crosshairDash}

	// the vertical line snaps to the hovered candle centre
	x := cur.X
	if fc.window.Contains(fc.hovered) {
		x = fc.mapper.XOf(float64(fc.hovered))
	}
	c.Line(x, fc.plot.Top, x, fc.plot.Bottom(), pen)
	c.Line(fc.plot.Left, cur.Y, fc.plot.Right(), cur.Y, pen)

	// price tag on the axis
	label := formatPrice(fc.mapper.PriceOf(cur.Y))
	w, _ := c.MeasureText(label, axisLabelSize)
	tag := Rect{Left: fc.plot.Right(), Top: cur.Y - axisLabelSize/2 - 3, Width: w + 8, Height: axisLabelSize + 6}
	c.FillRect(tag, fc.palette.Crosshair)
	c.Text(label, tag.Left+4, cur.Y+axisLabelSize/2-1, TextStyle{Color: fc.palette.Background, Size: axisLabelSize})
}

// infoLines formats the OHLCV readout of the hovered candle.
func infoLines(fc *frameContext) []string {
	k := fc.series[fc.hovered]
	return []string{
		k.Time().In(fc.location).Format(infoTimeFormat),
		"O: " + formatPrice(k.Open),
		"H: " + formatPrice(k.High),
		"L: " + formatPrice(k.Low),
		"C: " + formatPrice(k.Close),
		fmt.Sprintf("V: %.2f", k.Volume),
		fmt.Sprintf("Chg: %+.2f%%", k.GetChangePercentage()),
	}
}

// drawInfoPanel draws the floating OHLCV readout. It always shows the raw
// candle, also in heikin-ashi mode.
func drawInfoPanel(c *Canvas, fc *frameContext) {
	if !fc.cursor.IsOver || fc.hovered < 0 || fc.hovered >= len(fc.series) {
		return
	}

	lines := infoLines(fc)
	lineHeight := infoPanelTextSize + 4
	panel := Rect{
		Left:   fc.plot.Left + 8,
		Top:    fc.plot.Top + 8,
		Width:  infoPanelWidth,
		Height: float64(len(lines))*lineHeight + 2*infoPanelPadding,
	}
	c.FillRect(panel, fc.palette.PanelFill)
	c.StrokeRect(panel, Pen{Color: fc.palette.Axis, Width: 1})

	color := fc.palette.Bearish
	if fc.series[fc.hovered].IsBullish() {
		color = fc.palette.Bullish
	}

	for i, line := range lines {
		style := TextStyle{Color: fc.palette.Text, Size: infoPanelTextSize}
		if i == len(lines)-1 {
			style.Color = color
		}
		c.Text(line, panel.Left+infoPanelPadding, panel.Top+infoPanelPadding+float64(i+1)*lineHeight-4, style)
	}
}
