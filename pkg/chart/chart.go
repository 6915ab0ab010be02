package chart

import (
	"io"
	"time"

	"github.com/c9s/smcchart/pkg/types"
)

const (
	DefaultWidth  = 960
	DefaultHeight = 540
)

// Chart is one interactive chart instance. It owns its engine, viewport and
// cursor exclusively; independent charts never share state.
type Chart struct {
	Symbol     string
	Interval   types.Interval
	Width      float64
	Height     float64
	PixelRatio float64
	Settings   Settings
	Location   *time.Location

	engine     *Engine
	controller *Controller

	series   types.Series
	overlays *types.OverlayBundle
}

func New(symbol string, interval types.Interval) *Chart {
	return &Chart{
		Symbol:     symbol,
		Interval:   interval,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		PixelRatio: 1.0,
		Settings:   DefaultSettings(),
		engine:     NewEngine(),
		controller: NewController(DefaultViewport()),
	}
}

func (c *Chart) Resize(width, height, pixelRatio float64) {
	c.Width, c.Height, c.PixelRatio = width, height, pixelRatio
}

// SetData replaces the series and overlays. The viewport is kept.
func (c *Chart) SetData(series types.Series, overlays *types.OverlayBundle) {
	c.series = series
	c.overlays = overlays
}

func (c *Chart) Series() types.Series {
	return c.series
}

func (c *Chart) Overlays() *types.OverlayBundle {
	return c.overlays
}

func (c *Chart) Controller() *Controller {
	return c.controller
}

func (c *Chart) Viewport() Viewport {
	return c.controller.Viewport()
}

func (c *Chart) Cursor() Cursor {
	return c.controller.Cursor()
}

func (c *Chart) Snapshot() Snapshot {
	return Snapshot{
		Series:     c.series,
		Overlays:   c.overlays,
		Settings:   c.Settings,
		Viewport:   c.controller.Viewport(),
		Cursor:     c.controller.Cursor(),
		Width:      c.Width,
		Height:     c.Height,
		PixelRatio: c.PixelRatio,
		Location:   c.Location,
	}
}

// resolveHover hit-tests the cursor against the current geometry.
func (c *Chart) resolveHover() {
	cur := c.controller.Cursor()
	if !cur.IsOver {
		return
	}
	c.controller.SetHovered(c.engine.HitTest(c.Snapshot(), cur.X))
}

func (c *Chart) PointerEnter(x, y float64) Cursor {
	c.controller.PointerEnter(x, y)
	c.resolveHover()
	return c.Cursor()
}

func (c *Chart) PointerMove(x, y float64) Cursor {
	c.controller.PointerMove(x, y)
	c.resolveHover()
	return c.Cursor()
}

func (c *Chart) PointerDown(x, y float64) Cursor {
	c.controller.PointerDown(x, y)
	c.resolveHover()
	return c.Cursor()
}

func (c *Chart) PointerUp(x, y float64) Cursor {
	c.controller.PointerUp(x, y)
	c.resolveHover()
	return c.Cursor()
}

func (c *Chart) PointerLeave() Cursor {
	c.controller.PointerLeave()
	return c.Cursor()
}

func (c *Chart) Wheel(deltaY float64) Viewport {
	c.controller.Wheel(deltaY)
	c.resolveHover()
	return c.Viewport()
}

// HoveredCandle returns the raw candle under the cursor.
func (c *Chart) HoveredCandle() (types.Candle, bool) {
	cur := c.controller.Cursor()
	if !cur.HasHovered() || cur.HoveredIndex >= len(c.series) {
		return types.Candle{}, false
	}
	return c.series[cur.HoveredIndex], true
}

// Render redraws the chart. A nil frame means the surface is unavailable.
func (c *Chart) Render() *Frame {
	return c.engine.Render(c.Snapshot())
}

// Export renders the current frame and writes it as PNG.
func (c *Chart) Export(w io.Writer) error {
	return c.Render().EncodePNG(w)
}

func (c *Chart) ExportFileName() string {
	return ExportFileName(c.Symbol, c.Interval.String())
}

// SaveAs renders the current frame into dir and returns the file path.
func (c *Chart) SaveAs(dir string) (string, error) {
	return c.Render().SaveAs(dir, c.Symbol, c.Interval.String())
}
