package chart

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/c9s/smcchart/pkg/types"
)

var log = logrus.WithField("component", "chart")

// Snapshot is everything one redraw depends on.
type Snapshot struct {
	Series   types.Series
	Overlays *types.OverlayBundle
	Settings Settings
	Viewport Viewport
	Cursor   Cursor

	// Width and Height are the logical surface size, PixelRatio the device pixel ratio.
	Width      float64
	Height     float64
	PixelRatio float64

	// Location is used for the time labels, UTC when nil.
	Location *time.Location
}

// geometry is derived from the series, the render mode, the viewport and the
// surface size. Cursor-only changes reuse it.
type geometry struct {
	plot       Rect
	window     Window
	visible    types.Series
	rendered   types.Series
	priceRange PriceRange
	mapper     Mapper
}

type geometryKey struct {
	data     *types.Candle
	n        int
	last     types.Candle
	mode     RenderMode
	viewport Viewport
	width    float64
	height   float64
	insets   Insets
}

func newGeometryKey(snap Snapshot, insets Insets) geometryKey {
	key := geometryKey{
		n:        len(snap.Series),
		mode:     snap.Settings.Mode,
		viewport: snap.Viewport.Normalize(),
		width:    snap.Width,
		height:   snap.Height,
		insets:   insets,
	}
	if key.n > 0 {
		key.data = &snap.Series[0]
		key.last = snap.Series[key.n-1]
	}
	return key
}

type frameContext struct {
	*geometry

	series   types.Series
	overlays *types.OverlayBundle
	settings Settings
	palette  Palette
	cursor   Cursor
	hovered  int
	location *time.Location
}

// Engine performs immediate-mode redraws. One engine serves one chart
// instance and is not safe for concurrent use.
type Engine struct {
	Insets Insets

	cacheKey geometryKey
	cached   *geometry
}

func NewEngine() *Engine {
	return &Engine{Insets: DefaultInsets}
}

func (e *Engine) geometry(snap Snapshot) (*geometry, bool) {
	plot := PlotRect(snap.Width, snap.Height, e.Insets)
	if snap.Width <= 0 || snap.Height <= 0 || plot.IsEmpty() {
		return nil, false
	}

	key := newGeometryKey(snap, e.Insets)
	if e.cached != nil && key == e.cacheKey {
		geometryCacheMetrics.WithLabelValues("hit").Inc()
		return e.cached, true
	}
	geometryCacheMetrics.WithLabelValues("miss").Inc()

	series := snap.Series
	viewport := snap.Viewport.Normalize()
	baseCount := len(series)
	if baseCount < 1 {
		baseCount = 1
	}

	window := VisibleWindow(len(series), viewport, plot.Width, plot.Width/float64(baseCount))
	visible := series.Slice(window.Start, window.End)

	rendered := visible
	if snap.Settings.Mode == ModeHeikinAshi {
		rendered = HeikinAshi(visible)
	}

	high, low, ok := rendered.HighLow()
	if !ok {
		// over-panned, keep the scale of the whole series for the axes
		high, low, _ = series.HighLow()
	}
	priceRange := PaddedPriceRange(high, low)

	geo := &geometry{
		plot:       plot,
		window:     window,
		visible:    visible,
		rendered:   rendered,
		priceRange: priceRange,
		mapper:     NewMapper(plot, viewport, priceRange, baseCount),
	}

	e.cacheKey = key
	e.cached = geo
	return geo, true
}

// HitTest resolves the candle index under the cursor pixel x of the snapshot.
func (e *Engine) HitTest(snap Snapshot, x float64) int {
	geo, ok := e.geometry(snap)
	if !ok || len(snap.Series) == 0 {
		return NoIndex
	}
	return HitTest(geo.mapper, geo.window, x)
}

// Mapper returns the coordinate mapper of the snapshot. ok is false when the
// surface is unavailable.
func (e *Engine) Mapper(snap Snapshot) (Mapper, Window, bool) {
	geo, ok := e.geometry(snap)
	if !ok {
		return Mapper{}, Window{}, false
	}
	return geo.mapper, geo.window, true
}

// Render redraws the whole surface from the snapshot:
// clear, grid, overlays, series, volume, axes, crosshair, info panel.
// A nil frame means the surface was unavailable and the redraw was skipped.
func (e *Engine) Render(snap Snapshot) *Frame {
	startTime := time.Now()

	geo, ok := e.geometry(snap)
	if !ok {
		framesTotalMetrics.WithLabelValues("skipped").Inc()
		log.Debugf("surface %.0fx%.0f unavailable, redraw skipped", snap.Width, snap.Height)
		return nil
	}

	canvas, err := NewCanvas(snap.Width, snap.Height, snap.PixelRatio)
	if err != nil {
		framesTotalMetrics.WithLabelValues("skipped").Inc()
		log.WithError(err).Debug("unable to allocate the drawing surface")
		return nil
	}

	palette := PaletteOf(snap.Settings.Theme)
	canvas.Clear(palette.Background)

	frame := &Frame{
		Width:      snap.Width,
		Height:     snap.Height,
		PixelRatio: canvas.Ratio(),
		Window:     geo.window,
		PriceRange: geo.priceRange,
		Hovered:    NoIndex,
		canvas:     canvas,
	}

	if len(snap.Series) == 0 {
		framesTotalMetrics.WithLabelValues("empty").Inc()
		return frame
	}

	location := snap.Location
	if location == nil {
		location = time.UTC
	}

	fc := &frameContext{
		geometry: geo,
		series:   snap.Series,
		overlays: snap.Overlays,
		settings: snap.Settings,
		palette:  palette,
		cursor:   snap.Cursor,
		hovered:  NoIndex,
		location: location,
	}

	if snap.Cursor.IsOver {
		fc.hovered = HitTest(geo.mapper, geo.window, snap.Cursor.X)
		fc.cursor.HoveredIndex = fc.hovered
	}
	frame.Hovered = fc.hovered

	if snap.Settings.ShowGrid {
		drawGrid(canvas, geo.plot, palette)
	}

	if !geo.window.IsEmpty() {
		drawOverlays(canvas, fc)
		painterFor(snap.Settings.Mode).Paint(canvas, fc)
		if snap.Settings.ShowVolume {
			drawVolume(canvas, fc)
		}
	}

	drawAxes(canvas, fc)

	if snap.Settings.ShowCrosshair {
		drawCrosshair(canvas, fc)
	}
	drawInfoPanel(canvas, fc)

	duration := time.Since(startTime)
	frameRenderDurationMetrics.WithLabelValues(snap.Settings.Mode.String()).Observe(duration.Seconds())
	framesTotalMetrics.WithLabelValues("rendered").Inc()
	log.Debugf("rendered %s frame, window [%d, %d) of %d candles in %s",
		snap.Settings.Mode, geo.window.Start, geo.window.End, len(snap.Series), duration)
	return frame
}
