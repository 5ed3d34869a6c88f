package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSimulationMetrics() {
	r.SimulationsActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "forcegraph_simulations_active",
			Help: "Simulations whose timer is running",
		},
	)

	r.SimulationTicks = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "forcegraph_simulation_ticks_total",
			Help: "Total number of simulation steps emitted as ticks",
		},
	)

	r.SimulationAlpha = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "forcegraph_simulation_alpha",
			Help: "Alpha of the most recently ticked simulation",
		},
	)

	r.SimulationEndsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "forcegraph_simulation_ends_total",
			Help: "Simulations that stopped on their own, by reason",
		},
		[]string{"reason"},
	)

	r.SimulationSteps = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forcegraph_simulation_steps",
			Help:    "Steps taken before a simulation stopped",
			Buckets: []float64{10, 50, 100, 200, 300, 400, 600},
		},
	)

	r.SimulationDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forcegraph_simulation_duration_seconds",
			Help:    "Wall time from simulation start to end",
			Buckets: []float64{0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		},
	)
}
