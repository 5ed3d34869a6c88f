// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about renders, simulation runs, exports and user interaction.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The Prometheus implementation lives in pkg/metrics and is registered by the
// CLI; libraries only ever talk to the interfaces defined here.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    reg := metrics.NewRegistry()
//	    observability.SetRenderHooks(reg)
//	    observability.SetSimulationHooks(reg)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Render().OnRenderStart(ctx, len(ds.Nodes), len(ds.Links))
//	// ... bind, simulate, build ...
//	observability.Render().OnRenderComplete(ctx, result, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Render Hooks
// =============================================================================

// RenderResult summarizes a finished render call.
type RenderResult struct {
	Nodes   int
	Links   int
	Dropped int
}

// RenderHooks receives events from the visualization controller.
type RenderHooks interface {
	// Render lifecycle
	OnRenderStart(ctx context.Context, nodes, links int)
	OnRenderComplete(ctx context.Context, result RenderResult, duration time.Duration, err error)

	// OnClear records a teardown of the current scene.
	OnClear(ctx context.Context)

	// OnResize records a viewport change.
	OnResize(ctx context.Context, width, height float64)
}

// =============================================================================
// Simulation Hooks
// =============================================================================

// SimulationHooks receives events from running simulations. OnTick fires
// once per frame and must be cheap.
type SimulationHooks interface {
	OnSimulationStart(id string, nodes, links int)
	OnTick(id string, alpha float64)
	OnSimulationEnd(id string, reason string, steps int, duration time.Duration)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the batch render pipeline.
type PipelineHooks interface {
	// Load events
	OnLoadComplete(ctx context.Context, path string, nodes, links int, duration time.Duration, err error)

	// Export events
	OnExportStart(ctx context.Context, formats []string)
	OnExportComplete(ctx context.Context, format string, size int, duration time.Duration, err error)

	// OnCacheLookup records a cache read. kind is "layout" or "artifact".
	OnCacheLookup(ctx context.Context, kind string, hit bool)
}

// =============================================================================
// Interaction Hooks
// =============================================================================

// InteractionHooks receives pointer gestures handled by the controller.
type InteractionHooks interface {
	// OnDrag records a drag phase ("start", "end") for a node.
	OnDrag(phase string, nodeID string)

	// OnZoom records a new zoom scale.
	OnZoom(k float64)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, int, int)                              {}
func (NoopRenderHooks) OnRenderComplete(context.Context, RenderResult, time.Duration, error) {}
func (NoopRenderHooks) OnClear(context.Context)                                              {}
func (NoopRenderHooks) OnResize(context.Context, float64, float64)                           {}

// NoopSimulationHooks is a no-op implementation of SimulationHooks.
type NoopSimulationHooks struct{}

func (NoopSimulationHooks) OnSimulationStart(string, int, int)                 {}
func (NoopSimulationHooks) OnTick(string, float64)                             {}
func (NoopSimulationHooks) OnSimulationEnd(string, string, int, time.Duration) {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnExportStart(context.Context, []string)                                {}
func (NoopPipelineHooks) OnExportComplete(context.Context, string, int, time.Duration, error)    {}
func (NoopPipelineHooks) OnCacheLookup(context.Context, string, bool)                            {}

// NoopInteractionHooks is a no-op implementation of InteractionHooks.
type NoopInteractionHooks struct{}

func (NoopInteractionHooks) OnDrag(string, string) {}
func (NoopInteractionHooks) OnZoom(float64)        {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	renderHooks      RenderHooks      = NoopRenderHooks{}
	simulationHooks  SimulationHooks  = NoopSimulationHooks{}
	pipelineHooks    PipelineHooks    = NoopPipelineHooks{}
	interactionHooks InteractionHooks = NoopInteractionHooks{}
	hooksMu          sync.RWMutex
)

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup before any render.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetSimulationHooks registers custom simulation hooks.
func SetSimulationHooks(h SimulationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		simulationHooks = h
	}
}

// SetPipelineHooks registers custom pipeline hooks.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetInteractionHooks registers custom interaction hooks.
func SetInteractionHooks(h InteractionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		interactionHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Simulation returns the registered simulation hooks.
func Simulation() SimulationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return simulationHooks
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Interaction returns the registered interaction hooks.
func Interaction() InteractionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return interactionHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	simulationHooks = NoopSimulationHooks{}
	pipelineHooks = NoopPipelineHooks{}
	interactionHooks = NoopInteractionHooks{}
}
