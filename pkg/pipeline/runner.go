package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/eventloop"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/observability"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/scene"
	"github.com/matzehuels/forcegraph/pkg/simulation"
	"github.com/matzehuels/forcegraph/pkg/visualization"
)

// container is the selector of the headless surface the runner renders into.
const container = "#pipeline"

// Runner executes pipeline stages. It holds no per-run state, so one Runner
// can serve several goroutines with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Encode produces one artifact. Defaults to render.Encode.
	Encode func(ctx context.Context, s *scene.Scene, l graph.Layout, f render.Format) ([]byte, error)
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer uses
// the default keyer and a nil logger uses the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger, Encode: render.Encode}
}

// Execute runs load, filter, settle and export.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	ds := opts.Dataset
	if ds == nil {
		loadStart := time.Now()
		var err error
		ds, err = r.Load(ctx, opts.Path)
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
		result.Stats.LoadTime = time.Since(loadStart)
		r.Logger.Info("loaded dataset",
			"path", opts.Path,
			"nodes", len(ds.Nodes),
			"links", len(ds.Links),
			"duration", result.Stats.LoadTime)
	}

	// Stage 2: Filter
	if opts.Query != nil {
		before := len(ds.Links)
		ds = graph.Filter(ds, *opts.Query)
		r.Logger.Info("filtered dataset",
			"query", opts.Query.String(),
			"links", len(ds.Links),
			"removed", before-len(ds.Links))
	}
	result.Dataset = ds

	key := r.layoutKey(ds, opts)
	if r.fromCache(ctx, key, opts.Formats, result) {
		r.Logger.Info("using cached layout",
			"nodes", result.Stats.NodeCount,
			"links", result.Stats.LinkCount,
			"formats", FormatNames(opts.Formats))
		return result, nil
	}

	// Stage 3: Settle
	settleStart := time.Now()
	settled, err := r.Settle(ctx, ds, opts)
	if err != nil {
		return nil, fmt.Errorf("settle: %w", err)
	}
	result.Layout = settled.Layout
	result.Dropped = settled.Dropped
	result.Stats.NodeCount = len(settled.Scene.Nodes)
	result.Stats.LinkCount = len(settled.Scene.Links)
	result.Stats.Dropped = len(settled.Dropped)
	result.Stats.Frames = settled.Frames
	result.Stats.Steps = settled.Layout.Steps
	result.Stats.Settled = settled.Settled
	result.Stats.SettleTime = time.Since(settleStart)

	r.Logger.Info("settled layout",
		"nodes", result.Stats.NodeCount,
		"links", result.Stats.LinkCount,
		"frames", settled.Frames,
		"settled", settled.Settled,
		"duration", result.Stats.SettleTime)

	// Stage 4: Export
	exportStart := time.Now()
	artifacts, err := r.Export(ctx, settled.Scene, settled.Layout, opts.Formats)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)

	r.Logger.Info("exported artifacts",
		"formats", FormatNames(opts.Formats),
		"duration", result.Stats.ExportTime)

	r.store(ctx, key, result)
	return result, nil
}

// =============================================================================
// Caching
// =============================================================================

// cachedLayout is the settle outcome stored next to the artifacts.
type cachedLayout struct {
	Layout    graph.Layout `json:"layout"`
	Dropped   []graph.Link `json:"dropped,omitempty"`
	NodeCount int          `json:"node_count"`
	LinkCount int          `json:"link_count"`
	Frames    int          `json:"frames"`
	Settled   bool         `json:"settled"`
}

// layoutKey identifies the settled layout of ds under opts. An empty key
// disables caching for the run.
func (r *Runner) layoutKey(ds *graph.Dataset, opts Options) string {
	if r.Cache == nil || r.Keyer == nil {
		return ""
	}
	data, err := json.Marshal(ds)
	if err != nil {
		return ""
	}
	return r.Keyer.LayoutKey(cache.Hash(data), cache.LayoutKeyOpts{
		Width:             opts.Width,
		Height:            opts.Height,
		Seed:              opts.Seed,
		MaxFrames:         opts.MaxFrames,
		NodeSize:          string(opts.Visual.NodeSize),
		ShowLabels:        opts.Visual.ShowLabels,
		ShowRelationships: opts.Visual.ShowRelationships,
	})
}

// fromCache fills result when the layout and every requested format are
// cached. Partial hits are treated as misses.
func (r *Runner) fromCache(ctx context.Context, key string, formats []render.Format, result *Result) bool {
	if key == "" {
		return false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return false
	}
	var cl cachedLayout
	if err := json.Unmarshal(data, &cl); err != nil {
		r.Logger.Debug("discarding unreadable cache entry", "error", err)
		return false
	}

	artifacts := make(map[render.Format][]byte, len(formats))
	for _, f := range formats {
		data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(key, string(f)))
		if err != nil || !hit {
			return false
		}
		artifacts[f] = data
	}

	result.Layout = cl.Layout
	result.Dropped = cl.Dropped
	result.Artifacts = artifacts
	result.Stats.NodeCount = cl.NodeCount
	result.Stats.LinkCount = cl.LinkCount
	result.Stats.Dropped = len(cl.Dropped)
	result.Stats.Frames = cl.Frames
	result.Stats.Steps = cl.Layout.Steps
	result.Stats.Settled = cl.Settled
	result.Stats.Cached = true
	return true
}

// store saves the layout and artifacts of a fresh run. Failures only cost
// the next run a cache miss.
func (r *Runner) store(ctx context.Context, key string, result *Result) {
	if key == "" {
		return
	}
	data, err := json.Marshal(cachedLayout{
		Layout:    result.Layout,
		Dropped:   result.Dropped,
		NodeCount: result.Stats.NodeCount,
		LinkCount: result.Stats.LinkCount,
		Frames:    result.Stats.Frames,
		Settled:   result.Stats.Settled,
	})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
		r.Logger.Debug("cache write failed", "error", err)
		return
	}
	for f, data := range result.Artifacts {
		_ = r.Cache.Set(ctx, r.Keyer.ArtifactKey(key, string(f)), data, cache.TTLArtifact)
	}
}

// Load reads and validates a dataset file.
func (r *Runner) Load(ctx context.Context, path string) (ds *graph.Dataset, err error) {
	start := time.Now()
	defer func() {
		var nodes, links int
		if ds != nil {
			nodes, links = len(ds.Nodes), len(ds.Links)
		}
		observability.Pipeline().OnLoadComplete(ctx, path, nodes, links, time.Since(start), err)
	}()

	ds, err = graph.ReadDatasetFile(path)
	if err != nil {
		return nil, err
	}
	if err := graph.Validate(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// Settled is the outcome of the settle stage.
type Settled struct {
	Scene   *scene.Scene
	Layout  graph.Layout
	Dropped []graph.Link
	Frames  int

	// Settled is false when the frame budget ran out first.
	Settled bool
}

// Settle renders ds into a headless container and runs frames until the
// simulation ends, the frame budget is spent or ctx is done.
func (r *Runner) Settle(ctx context.Context, ds *graph.Dataset, opts Options) (*Settled, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	host := visualization.NewHeadless()
	host.Add(container, opts.Width, opts.Height)
	loop := eventloop.New()
	ctrl := visualization.New(host, loop,
		visualization.WithLogger(opts.Logger),
		visualization.WithSimulationOptions(simulation.WithSeed(opts.Seed)),
	)
	if err := ctrl.Init(container); err != nil {
		return nil, err
	}
	defer ctrl.Close()

	if err := ctrl.Render(ds, opts.Visual); err != nil {
		return nil, err
	}

	frames := 0
	for frames < opts.MaxFrames && loop.Pending() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		loop.RunFrame()
		frames++
		if opts.Progress != nil {
			opts.Progress(frames, ctrl.Simulation().Alpha())
		}
	}

	sim := ctrl.Simulation()
	settled := !sim.Active()
	if !settled {
		r.Logger.Warn("frame budget exhausted before the layout settled",
			"frames", frames, "alpha", sim.Alpha())
		sim.Stop()
	}

	s := ctrl.Scene()
	s.Sync()
	return &Settled{
		Scene:   s,
		Layout:  render.Snapshot(s, sim.Alpha(), sim.Steps()),
		Dropped: ctrl.Dropped(),
		Frames:  frames,
		Settled: settled,
	}, nil
}

// Export encodes the scene in every format concurrently. Encoders only read
// the scene, which no longer changes once settled.
func (r *Runner) Export(ctx context.Context, s *scene.Scene, l graph.Layout, formats []render.Format) (map[render.Format][]byte, error) {
	encode := r.Encode
	if encode == nil {
		encode = render.Encode
	}
	observability.Pipeline().OnExportStart(ctx, FormatNames(formats))

	var mu sync.Mutex
	artifacts := make(map[render.Format][]byte, len(formats))

	g, gctx := errgroup.WithContext(ctx)
	for _, f := range formats {
		g.Go(func() error {
			start := time.Now()
			data, err := encode(gctx, s, l, f)
			observability.Pipeline().OnExportComplete(gctx, string(f), len(data), time.Since(start), err)
			if err != nil {
				return errors.Wrap(errors.ErrCodeExport, err, "encode %s", f)
			}
			r.Logger.Debug("encoded", "format", f, "bytes", len(data), "duration", time.Since(start))

			mu.Lock()
			artifacts[f] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// WriteArtifacts writes each artifact next to base, replacing its extension
// with the format name, and returns the written paths in format order.
// With a single artifact and an explicit extension, base is used verbatim.
func WriteArtifacts(artifacts map[render.Format][]byte, formats []render.Format, base string) ([]string, error) {
	if err := errors.ValidatePath(base); err != nil {
		return nil, err
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	verbatim := len(formats) == 1 && filepath.Ext(base) != ""

	var paths []string
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			continue
		}
		path := stem + "." + string(f)
		if verbatim {
			path = base
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, err
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
