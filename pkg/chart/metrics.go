package chart

import (
	"github.com/prometheus/client_golang/prometheus"
)

var frameRenderDurationMetrics = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "smcchart_frame_render_duration_seconds",
		Help:    "the time spent on one full redraw",
		Buckets: []float64{0.001, 0.004, 0.008, 0.016, 0.033, 0.066, 0.1, 0.25, 0.5},
	}, []string{"mode"})

var framesTotalMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "smcchart_frames_total",
		Help: "redraws by result: rendered, empty or skipped",
	}, []string{"result"})

var geometryCacheMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "smcchart_geometry_cache_total",
		Help: "derived price range and visible window lookups by result",
	}, []string{"result"})

func init() {
	prometheus.MustRegister(
		frameRenderDurationMetrics,
		framesTotalMetrics,
		geometryCacheMetrics,
	)
}
