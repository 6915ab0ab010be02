package chart

import (
	"fmt"
	"strings"
)

// RenderMode selects how the price series is drawn.
type RenderMode int

const (
	ModeCandlestick RenderMode = iota
	ModeLine
	ModeArea
	ModeHeikinAshi
)

var renderModeNames = map[RenderMode]string{
	ModeCandlestick: "candlestick",
	ModeLine:        "line",
	ModeArea:        "area",
	ModeHeikinAshi:  "heikinashi",
}

func (m RenderMode) String() string {
	if s, ok := renderModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("RenderMode(%d)", int(m))
}

func ParseRenderMode(s string) (RenderMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "candlestick", "candles", "candle", "":
		return ModeCandlestick, nil
	case "line":
		return ModeLine, nil
	case "area":
		return ModeArea, nil
	case "heikinashi", "heikin-ashi", "heikin_ashi", "ha":
		return ModeHeikinAshi, nil
	}
	return ModeCandlestick, fmt.Errorf("unknown render mode %q", s)
}

func (m RenderMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *RenderMode) UnmarshalText(b []byte) error {
	mode, err := ParseRenderMode(string(b))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Settings is the rendering configuration of one chart.
type Settings struct {
	Mode  RenderMode `json:"mode" yaml:"mode"`
	Theme Theme      `json:"theme" yaml:"theme"`

	ShowOrderBlocks      bool `json:"showOrderBlocks" yaml:"showOrderBlocks"`
	ShowFairValueGaps    bool `json:"showFairValueGaps" yaml:"showFairValueGaps"`
	ShowLiquidityZones   bool `json:"showLiquidityZones" yaml:"showLiquidityZones"`
	ShowBreakOfStructure bool `json:"showBreakOfStructure" yaml:"showBreakOfStructure"`

	ShowGrid      bool `json:"showGrid" yaml:"showGrid"`
	ShowCrosshair bool `json:"showCrosshair" yaml:"showCrosshair"`
	ShowVolume    bool `json:"showVolume" yaml:"showVolume"`
}

func DefaultSettings() Settings {
	return Settings{
		Mode:                 ModeCandlestick,
		Theme:                ThemeDark,
		ShowOrderBlocks:      true,
		ShowFairValueGaps:    true,
		ShowLiquidityZones:   true,
		ShowBreakOfStructure: true,
		ShowGrid:             true,
		ShowCrosshair:        true,
		ShowVolume:           true,
	}
}
