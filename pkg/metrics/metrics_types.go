package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application. It implements the hook
// interfaces of pkg/observability.
type Registry struct {
	// Render Metrics
	RendersTotal      *prometheus.CounterVec
	RenderDuration    prometheus.Histogram
	SceneNodes        prometheus.Gauge
	SceneLinks        prometheus.Gauge
	DroppedLinksTotal prometheus.Counter
	ClearsTotal       prometheus.Counter
	ResizesTotal      prometheus.Counter

	// Simulation Metrics
	SimulationsActive   prometheus.Gauge
	SimulationTicks     prometheus.Counter
	SimulationAlpha     prometheus.Gauge
	SimulationEndsTotal *prometheus.CounterVec
	SimulationSteps     prometheus.Histogram
	SimulationDuration  prometheus.Histogram

	// Pipeline Metrics
	LoadsTotal     *prometheus.CounterVec
	LoadDuration   prometheus.Histogram
	ExportsTotal   *prometheus.CounterVec
	ExportDuration *prometheus.HistogramVec
	ExportBytes    *prometheus.HistogramVec
	CacheLookups   *prometheus.CounterVec

	// Interaction Metrics
	DragsTotal *prometheus.CounterVec
	ZoomScale  prometheus.Gauge

	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
	mu       sync.Mutex
	active   map[string]struct{}
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		active:   make(map[string]struct{}),
	}

	r.initRenderMetrics()
	r.initSimulationMetrics()
	r.initPipelineMetrics()
	r.initInteractionMetrics()
	r.initHTTPMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
