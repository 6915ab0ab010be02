package chart

import (
	"math"
)

const (
	MinZoom = 0.1
	MaxZoom = 5.0

	zoomInFactor  = 1.1
	zoomOutFactor = 0.9
)

// Viewport is the zoom scalar and pan offset of one chart instance.
type Viewport struct {
	Zoom float64 `json:"zoom" yaml:"zoom"`
	PanX float64 `json:"panX" yaml:"panX"`
	PanY float64 `json:"panY" yaml:"panY"`
}

func DefaultViewport() Viewport {
	return Viewport{Zoom: 1.0}
}

func ClampZoom(zoom float64) float64 {
	if math.IsNaN(zoom) {
		return 1.0
	}
	return math.Max(MinZoom, math.Min(MaxZoom, zoom))
}

// Normalize treats an unset zoom as 1 and clamps the rest.
func (v Viewport) Normalize() Viewport {
	if v.Zoom == 0 {
		v.Zoom = 1.0
	}
	v.Zoom = ClampZoom(v.Zoom)
	return v
}

// Wheel applies one wheel notch: a negative delta (scroll up) zooms in by 1.1,
// a positive delta zooms out by 0.9. A zero delta is ignored.
func (v Viewport) Wheel(deltaY float64) Viewport {
	v = v.Normalize()
	switch {
	case deltaY < 0:
		v.Zoom = ClampZoom(v.Zoom * zoomInFactor)
	case deltaY > 0:
		v.Zoom = ClampZoom(v.Zoom * zoomOutFactor)
	}
	return v
}

// Pan accumulates a pointer delta. Pan is not clamped.
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.PanX += dx
	v.PanY += dy
	return v
}

// Window is the [Start, End) range of visible data indices.
type Window struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (w Window) Len() int {
	if w.End < w.Start {
		return 0
	}
	return w.End - w.Start
}

func (w Window) IsEmpty() bool {
	return w.Len() == 0
}

func (w Window) Contains(i int) bool {
	return i >= w.Start && i < w.End
}

// VisibleWindow derives the visible index window of a series with n candles.
// Panning past the data yields an empty window.
func VisibleWindow(n int, viewport Viewport, surfaceWidth, pixelsPerIndex float64) Window {
	viewport = viewport.Normalize()
	step := viewport.Zoom * pixelsPerIndex
	if n <= 0 || !(step > 0) || !(surfaceWidth > 0) {
		return Window{}
	}

	start := math.Floor(-viewport.PanX / step)
	if start < 0 {
		start = 0
	}
	if start >= float64(n) {
		return Window{Start: n, End: n}
	}

	end := start + math.Ceil(surfaceWidth/step)
	if end > float64(n) {
		end = float64(n)
	}
	return Window{Start: int(start), End: int(end)}
}
