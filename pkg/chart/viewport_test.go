package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewport_WheelClamp(t *testing.T) {
	v := DefaultViewport()
	for i := 0; i < 100; i++ {
		v = v.Wheel(-1)
		assert.LessOrEqual(t, v.Zoom, MaxZoom)
	}
	assert.Equal(t, MaxZoom, v.Zoom)

	for i := 0; i < 200; i++ {
		v = v.Wheel(1)
		assert.GreaterOrEqual(t, v.Zoom, MinZoom)
	}
	assert.Equal(t, MinZoom, v.Zoom)
}

func TestViewport_WheelStep(t *testing.T) {
	v := DefaultViewport().Wheel(-120)
	assert.InDelta(t, 1.1, v.Zoom, 1e-12)

	v = DefaultViewport().Wheel(3)
	assert.InDelta(t, 0.9, v.Zoom, 1e-12)

	v = DefaultViewport().Wheel(0)
	assert.Equal(t, 1.0, v.Zoom)
}

func TestViewport_PanIsUnclamped(t *testing.T) {
	v := DefaultViewport().Pan(-1e9, 50).Pan(-10, -5)
	assert.Equal(t, -1e9-10, v.PanX)
	assert.Equal(t, 45.0, v.PanY)
}

func TestVisibleWindow(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		viewport Viewport
		want     Window
	}{
		{name: "all", n: 100, viewport: Viewport{Zoom: 1}, want: Window{Start: 0, End: 100}},
		{name: "zoomed", n: 100, viewport: Viewport{Zoom: 2}, want: Window{Start: 0, End: 50}},
		{name: "panned", n: 100, viewport: Viewport{Zoom: 2, PanX: -140}, want: Window{Start: 10, End: 60}},
		{name: "zoomed out", n: 100, viewport: Viewport{Zoom: 0.5}, want: Window{Start: 0, End: 100}},
		{name: "over-panned", n: 100, viewport: Viewport{Zoom: 1, PanX: -1e7}, want: Window{Start: 100, End: 100}},
		{name: "empty series", n: 0, viewport: Viewport{Zoom: 1}, want: Window{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// plot width 700 for 100 candles: 7px per index at zoom 1
			got := VisibleWindow(tt.n, tt.viewport, 700, 7)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.True(t, VisibleWindow(100, Viewport{Zoom: 1, PanX: -1e7}, 700, 7).IsEmpty())
}

func TestVisibleWindow_ZoomMonotonicity(t *testing.T) {
	last := VisibleWindow(500, Viewport{Zoom: MinZoom}, 700, 1.4).Len()
	for v := (Viewport{Zoom: MinZoom}); v.Zoom < MaxZoom; v = v.Wheel(-1) {
		count := VisibleWindow(500, v, 700, 1.4).Len()
		assert.LessOrEqual(t, count, last, "zoom %f", v.Zoom)
		last = count
	}
}
