package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPipelineMetrics() {
	r.LoadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "forcegraph_dataset_loads_total",
			Help: "Total number of dataset loads",
		},
		[]string{"status"},
	)

	r.LoadDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forcegraph_dataset_load_duration_seconds",
			Help:    "Dataset read and decode duration",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
	)

	r.ExportsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "forcegraph_exports_total",
			Help: "Total number of exported documents",
		},
		[]string{"format", "status"},
	)

	r.ExportDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forcegraph_export_duration_seconds",
			Help:    "Export duration per format",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"format"},
	)

	r.ExportBytes = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forcegraph_export_size_bytes",
			Help:    "Size of exported documents",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
		[]string{"format"},
	)

	r.CacheLookups = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "forcegraph_cache_lookups_total",
			Help: "Layout cache reads by entry kind and result",
		},
		[]string{"kind", "result"},
	)
}

func (r *Registry) initInteractionMetrics() {
	r.DragsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "forcegraph_drag_events_total",
			Help: "Drag gestures by phase",
		},
		[]string{"phase"},
	)

	r.ZoomScale = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "forcegraph_zoom_scale",
			Help: "Current zoom scale factor",
		},
	)
}
