package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

var chartInstancesMetrics = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "smcchart_server_chart_instances",
		Help: "number of live chart instances",
	})

var pointerEventsMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "smcchart_server_pointer_events_total",
		Help: "pointer and wheel events by type and result",
	}, []string{"type", "result"})

var snapshotsMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "smcchart_server_snapshots_total",
		Help: "scheduled chart exports by result",
	}, []string{"result"})

func init() {
	prometheus.MustRegister(
		chartInstancesMetrics,
		pointerEventsMetrics,
		snapshotsMetrics,
	)
}
