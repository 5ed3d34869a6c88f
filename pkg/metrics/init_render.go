package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initRenderMetrics() {
	r.RendersTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "forcegraph_renders_total",
			Help: "Total number of render calls",
		},
		[]string{"status"},
	)

	r.RenderDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forcegraph_render_duration_seconds",
			Help:    "Time to bind, simulate setup and build a scene",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
	)

	r.SceneNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "forcegraph_scene_nodes",
			Help: "Number of nodes in the current scene",
		},
	)

	r.SceneLinks = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "forcegraph_scene_links",
			Help: "Number of links in the current scene",
		},
	)

	r.DroppedLinksTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "forcegraph_dropped_links_total",
			Help: "Links skipped because an endpoint was missing",
		},
	)

	r.ClearsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "forcegraph_clears_total",
			Help: "Total number of scene teardowns",
		},
	)

	r.ResizesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "forcegraph_resizes_total",
			Help: "Total number of viewport changes",
		},
	)
}
