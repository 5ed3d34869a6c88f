package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/forcegraph/pkg/observability"
)

var (
	_ observability.RenderHooks      = (*Registry)(nil)
	_ observability.SimulationHooks  = (*Registry)(nil)
	_ observability.PipelineHooks    = (*Registry)(nil)
	_ observability.InteractionHooks = (*Registry)(nil)
)

// Register installs r as every observability hook.
func (r *Registry) Register() {
	observability.SetRenderHooks(r)
	observability.SetSimulationHooks(r)
	observability.SetPipelineHooks(r)
	observability.SetInteractionHooks(r)
}

// OnRenderStart implements observability.RenderHooks.
func (r *Registry) OnRenderStart(context.Context, int, int) {}

// OnRenderComplete implements observability.RenderHooks.
func (r *Registry) OnRenderComplete(_ context.Context, res observability.RenderResult, d time.Duration, err error) {
	r.RendersTotal.WithLabelValues(status(err)).Inc()
	r.RenderDuration.Observe(d.Seconds())
	if err != nil {
		return
	}
	r.SceneNodes.Set(float64(res.Nodes))
	r.SceneLinks.Set(float64(res.Links))
	r.DroppedLinksTotal.Add(float64(res.Dropped))
}

// OnClear implements observability.RenderHooks.
func (r *Registry) OnClear(context.Context) {
	r.ClearsTotal.Inc()
	r.SceneNodes.Set(0)
	r.SceneLinks.Set(0)
}

// OnResize implements observability.RenderHooks.
func (r *Registry) OnResize(context.Context, float64, float64) {
	r.ResizesTotal.Inc()
}

// OnSimulationStart implements observability.SimulationHooks.
func (r *Registry) OnSimulationStart(id string, _, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[id] = struct{}{}
	r.SimulationsActive.Set(float64(len(r.active)))
}

// OnTick implements observability.SimulationHooks.
func (r *Registry) OnTick(_ string, alpha float64) {
	r.SimulationTicks.Inc()
	r.SimulationAlpha.Set(alpha)
}

// OnSimulationEnd implements observability.SimulationHooks. Reason is empty
// when the simulation was stopped from outside.
func (r *Registry) OnSimulationEnd(id, reason string, steps int, d time.Duration) {
	r.mu.Lock()
	delete(r.active, id)
	r.SimulationsActive.Set(float64(len(r.active)))
	r.mu.Unlock()

	if reason == "" {
		reason = "stopped"
	}
	r.SimulationEndsTotal.WithLabelValues(reason).Inc()
	r.SimulationSteps.Observe(float64(steps))
	r.SimulationDuration.Observe(d.Seconds())
}

// OnLoadComplete implements observability.PipelineHooks.
func (r *Registry) OnLoadComplete(_ context.Context, _ string, _, _ int, d time.Duration, err error) {
	r.LoadsTotal.WithLabelValues(status(err)).Inc()
	r.LoadDuration.Observe(d.Seconds())
}

// OnExportStart implements observability.PipelineHooks.
func (r *Registry) OnExportStart(context.Context, []string) {}

// OnExportComplete implements observability.PipelineHooks.
func (r *Registry) OnExportComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	r.ExportsTotal.WithLabelValues(format, status(err)).Inc()
	r.ExportDuration.WithLabelValues(format).Observe(d.Seconds())
	if err == nil {
		r.ExportBytes.WithLabelValues(format).Observe(float64(size))
	}
}

// OnCacheLookup implements observability.PipelineHooks.
func (r *Registry) OnCacheLookup(_ context.Context, kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.CacheLookups.WithLabelValues(kind, result).Inc()
}

// OnDrag implements observability.InteractionHooks.
func (r *Registry) OnDrag(phase, _ string) {
	r.DragsTotal.WithLabelValues(phase).Inc()
}

// OnZoom implements observability.InteractionHooks.
func (r *Registry) OnZoom(k float64) {
	r.ZoomScale.Set(k)
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Middleware records every request passing through a chi router. Paths are
// reported by route pattern to keep label cardinality bounded.
func (r *Registry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		path := req.URL.Path
		if rctx := chi.RouteContext(req.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				path = p
			}
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		r.RecordHTTPRequest(req.Method, path, strconv.Itoa(code), time.Since(start))
	})
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
