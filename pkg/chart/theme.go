package chart

import (
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type Palette struct {
	Background drawing.Color
	Grid       drawing.Color
	Axis       drawing.Color
	Text       drawing.Color

	Bullish drawing.Color
	Bearish drawing.Color

	Line      drawing.Color
	AreaFill  drawing.Color
	Highlight drawing.Color

	Crosshair drawing.Color
	PanelFill drawing.Color

	OrderBlockBullish drawing.Color
	OrderBlockBearish drawing.Color
	GapBullish        drawing.Color
	GapBearish        drawing.Color
	Support           drawing.Color
	Resistance        drawing.Color
	BOSBullish        drawing.Color
	BOSBearish        drawing.Color
}

var darkPalette = Palette{
	Background: drawing.ColorFromHex("111827"),
	Grid:       drawing.ColorFromHex("374151"),
	Axis:       drawing.ColorFromHex("4b5563"),
	Text:       drawing.ColorFromHex("d1d5db"),

	Bullish: drawing.ColorFromHex("10b981"),
	Bearish: drawing.ColorFromHex("ef4444"),

	Line:      drawing.ColorFromHex("3b82f6"),
	AreaFill:  drawing.ColorFromHex("3b82f6"),
	Highlight: drawing.ColorFromHex("fbbf24"),

	Crosshair: drawing.ColorFromHex("9ca3af"),
	PanelFill: drawing.ColorFromHex("1f2937").WithAlpha(230),

	OrderBlockBullish: drawing.ColorFromHex("10b981"),
	OrderBlockBearish: drawing.ColorFromHex("ef4444"),
	GapBullish:        drawing.ColorFromHex("3b82f6"),
	GapBearish:        drawing.ColorFromHex("f97316"),
	Support:           drawing.ColorFromHex("22c55e"),
	Resistance:        drawing.ColorFromHex("f43f5e"),
	BOSBullish:        drawing.ColorFromHex("a3e635"),
	BOSBearish:        drawing.ColorFromHex("e879f9"),
}

var lightPalette = Palette{
	Background: drawing.ColorFromHex("ffffff"),
	Grid:       drawing.ColorFromHex("e5e7eb"),
	Axis:       drawing.ColorFromHex("9ca3af"),
	Text:       drawing.ColorFromHex("374151"),

	Bullish: drawing.ColorFromHex("059669"),
	Bearish: drawing.ColorFromHex("dc2626"),

	Line:      drawing.ColorFromHex("2563eb"),
	AreaFill:  drawing.ColorFromHex("2563eb"),
	Highlight: drawing.ColorFromHex("d97706"),

	Crosshair: drawing.ColorFromHex("6b7280"),
	PanelFill: drawing.ColorFromHex("f9fafb").WithAlpha(235),

	OrderBlockBullish: drawing.ColorFromHex("059669"),
	OrderBlockBearish: drawing.ColorFromHex("dc2626"),
	GapBullish:        drawing.ColorFromHex("2563eb"),
	GapBearish:        drawing.ColorFromHex("ea580c"),
	Support:           drawing.ColorFromHex("16a34a"),
	Resistance:        drawing.ColorFromHex("e11d48"),
	BOSBullish:        drawing.ColorFromHex("65a30d"),
	BOSBearish:        drawing.ColorFromHex("c026d3"),
}

// PaletteOf returns the palette of the theme, dark for unknown themes.
func PaletteOf(theme Theme) Palette {
	if theme == ThemeLight {
		return lightPalette
	}
	return darkPalette
}
