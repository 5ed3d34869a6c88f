package visualization

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/eventloop"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/interaction"
	"github.com/matzehuels/forcegraph/pkg/observability"
	"github.com/matzehuels/forcegraph/pkg/scene"
	"github.com/matzehuels/forcegraph/pkg/simulation"
)

// DefaultHitSlop is the extra radius, in world units, accepted when a
// pointer goes down near a node.
const DefaultHitSlop = 2.0

// Controller mediates between a host, a simulation and a scene.
type Controller struct {
	host    Host
	loop    eventloop.Scheduler
	logger  *log.Logger
	simOpts []simulation.Option
	hitSlop float64

	selector     string
	container    Container
	cancelResize func()
	width        float64
	height       float64

	zoom       *interaction.Zoom
	cancelZoom func()

	cur  *state
	data *graph.Dataset
	opts scene.Options
}

// state is everything one render builds. It is replaced wholesale.
type state struct {
	bound   *graph.Bound
	sim     *simulation.Simulation
	scene   *scene.Scene
	drag    *interaction.Drag
	pans    map[interaction.PointerID]point
	started time.Time

	cancelTick func()
	cancelEnd  func()
}

type point struct{ x, y float64 }

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSimulationOptions passes options to every simulation the controller
// creates. The scheduler and logger are always set by the controller.
func WithSimulationOptions(opts ...simulation.Option) Option {
	return func(c *Controller) { c.simOpts = append(c.simOpts, opts...) }
}

// WithHitSlop sets the extra pick radius used by PointerDown.
func WithHitSlop(r float64) Option {
	return func(c *Controller) { c.hitSlop = r }
}

// New creates a controller that draws through host and schedules work on
// loop.
func New(host Host, loop eventloop.Scheduler, opts ...Option) *Controller {
	c := &Controller{
		host:    host,
		loop:    loop,
		logger:  log.New(io.Discard),
		hitSlop: DefaultHitSlop,
		zoom:    interaction.NewZoom(),
		opts:    scene.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// =============================================================================
// Lifecycle
// =============================================================================

// Init binds the container named by selector. A second call is a no-op. When
// no container matches, the failure is logged and returned as a
// precondition error.
func (c *Controller) Init(selector string) error {
	if c.container != nil {
		c.logger.Debug("already initialized", "selector", c.selector)
		return nil
	}
	if err := errors.ValidateSelector(selector); err != nil {
		c.logger.Error("init failed", "err", err)
		return err
	}
	var cont Container
	if c.host != nil {
		cont = c.host.Container(selector)
	}
	if cont == nil {
		err := errors.New(errors.ErrCodePrecondition, "no container matches %q", selector)
		c.logger.Error("init failed", "err", err)
		return err
	}

	c.selector = selector
	c.container = cont
	c.width, c.height = cont.Size()
	c.cancelResize = cont.OnResize(c.onResize)
	c.cancelZoom = c.zoom.OnZoom(c.onZoom)
	c.logger.Debug("initialized", "selector", selector, "width", c.width, "height", c.height)
	return nil
}

// Render replaces the current scene with one built from data. opts fill in
// from scene.DefaultOptions.
//
// Every precondition is checked before the old scene is touched, so a
// rejected call leaves the controller exactly as it was.
func (c *Controller) Render(data *graph.Dataset, opts scene.Options) (err error) {
	ctx := context.Background()
	start := time.Now()
	defer func() {
		var res observability.RenderResult
		if err == nil && c.cur != nil {
			res = observability.RenderResult{
				Nodes:   len(c.cur.bound.Nodes),
				Links:   len(c.cur.bound.Links),
				Dropped: len(c.cur.bound.Dropped),
			}
		}
		observability.Render().OnRenderComplete(ctx, res, time.Since(start), err)
	}()

	if c.container == nil {
		err = errors.New(errors.ErrCodePrecondition, "render called before init")
		c.logger.Error("render refused", "err", err)
		return err
	}
	if data == nil {
		err = errors.New(errors.ErrCodePrecondition, "no dataset")
		c.logger.Error("render refused", "err", err)
		return err
	}
	observability.Render().OnRenderStart(ctx, len(data.Nodes), len(data.Links))

	opts = opts.WithDefaults()
	if err = opts.Validate(); err != nil {
		c.logger.Error("render refused", "err", err)
		return err
	}

	data = data.Clone()
	bound, err := graph.Bind(data)
	if err != nil {
		c.logger.Error("render refused", "err", err)
		return err
	}
	for _, l := range bound.Dropped {
		c.logger.Warn("dropping link with missing endpoint",
			"code", errors.ErrCodeBinding, "source", l.Source, "target", l.Target, "type", l.Type)
	}

	c.teardown()

	st, err := c.build(bound, opts)
	if err != nil {
		c.logger.Error("render failed", "err", err)
		c.data = nil
		return err
	}

	c.cur = st
	c.data = data
	c.opts = opts
	c.logger.Info("rendered",
		"nodes", len(bound.Nodes), "links", len(bound.Links), "dropped", len(bound.Dropped),
		"size", opts.NodeSize, "labels", opts.ShowLabels, "relationships", opts.ShowRelationships)
	return nil
}

// build creates the simulation and scene. Any panic is recovered and the
// partial state discarded.
func (c *Controller) build(bound *graph.Bound, opts scene.Options) (st *state, err error) {
	st = &state{bound: bound, pans: make(map[interaction.PointerID]point), started: time.Now()}
	defer func() {
		if r := recover(); r != nil {
			err = errors.Recovered(r, "build scene")
		}
		if err != nil {
			st.dispose()
			if c.container != nil {
				c.container.Erase()
			}
			st = nil
		}
	}()

	nodes, links := scene.Bodies(bound)
	simOpts := append([]simulation.Option{}, c.simOpts...)
	simOpts = append(simOpts, simulation.WithLogger(c.logger))
	if c.loop != nil {
		simOpts = append(simOpts, simulation.WithScheduler(c.loop))
	}
	st.sim = simulation.NewLayout(nodes, links, c.width/2, c.height/2, simOpts...)

	s, err := scene.Build(bound, nodes, links, opts, c.width, c.height)
	if err != nil {
		return st, err
	}
	s.Transform = c.zoom.Transform()
	st.scene = s
	st.drag = interaction.NewDrag(st.sim)

	simID := st.sim.ID()
	st.cancelTick = st.sim.OnTick(func() {
		s.Sync()
		c.container.Present(s)
		observability.Simulation().OnTick(simID, st.sim.Alpha())
	})
	st.cancelEnd = st.sim.OnEnd(func(reason simulation.EndReason) {
		c.logger.Debug("layout settled", "reason", reason, "steps", st.sim.Steps())
		observability.Simulation().OnSimulationEnd(simID, string(reason), st.sim.Steps(), time.Since(st.started))
	})
	observability.Simulation().OnSimulationStart(simID, len(nodes), len(links))

	st.sim.Restart()
	c.container.Present(s)
	return st, nil
}

// dispose stops the simulation and drops every listener.
func (st *state) dispose() {
	if st == nil {
		return
	}
	if st.drag != nil {
		st.drag.Cancel()
	}
	if st.cancelTick != nil {
		st.cancelTick()
	}
	if st.cancelEnd != nil {
		st.cancelEnd()
	}
	if st.sim != nil {
		wasActive := st.sim.Active()
		st.sim.Stop()
		if wasActive {
			observability.Simulation().OnSimulationEnd(st.sim.ID(), "", st.sim.Steps(), time.Since(st.started))
		}
	}
}

// teardown stops the simulation and removes the scene. The dataset is kept.
func (c *Controller) teardown() {
	if c.cur == nil {
		return
	}
	c.cur.dispose()
	c.cur = nil
	if c.container != nil {
		c.container.Erase()
	}
}

// Clear removes the scene, stops the simulation and forgets the dataset.
// Calling it again has no further effect.
func (c *Controller) Clear() {
	if c.cur == nil && c.data == nil {
		return
	}
	c.teardown()
	c.data = nil
	observability.Render().OnClear(context.Background())
	c.logger.Debug("cleared")
}

// UpdateDimensions re-reads the container size. When a dataset is loaded it
// is rendered again with unchanged options.
func (c *Controller) UpdateDimensions() error {
	if c.container == nil {
		err := errors.New(errors.ErrCodePrecondition, "update dimensions called before init")
		c.logger.Error("resize refused", "err", err)
		return err
	}
	w, h := c.container.Size()
	changed := w != c.width || h != c.height
	c.width, c.height = w, h
	if changed {
		observability.Render().OnResize(context.Background(), w, h)
	}
	if c.data == nil {
		return nil
	}
	c.logger.Debug("re-rendering after resize", "width", w, "height", h)
	return c.Render(c.data, c.opts)
}

func (c *Controller) onResize() {
	_ = c.UpdateDimensions()
}

// Close releases the container. The controller can be initialized again.
func (c *Controller) Close() {
	c.Clear()
	if c.cancelResize != nil {
		c.cancelResize()
		c.cancelResize = nil
	}
	if c.cancelZoom != nil {
		c.cancelZoom()
		c.cancelZoom = nil
	}
	c.container = nil
	c.selector = ""
}

// =============================================================================
// Pointer Input
// =============================================================================

// PointerDown starts a drag when the screen point (sx, sy) is over a node
// and a pan otherwise.
func (c *Controller) PointerDown(id interaction.PointerID, sx, sy float64) {
	st := c.cur
	if st == nil {
		return
	}
	wx, wy := c.zoom.Transform().Invert(sx, sy)
	if n := st.scene.HitTest(wx, wy, c.hitSlop); n != nil {
		delete(st.pans, id)
		st.drag.Start(id, n.Node)
		observability.Interaction().OnDrag("start", n.ID)
		return
	}
	st.pans[id] = point{sx, sy}
}

// PointerMove moves a dragged node or pans the view.
func (c *Controller) PointerMove(id interaction.PointerID, sx, sy float64) {
	st := c.cur
	if st == nil {
		return
	}
	if _, ok := st.drag.Subject(id); ok {
		wx, wy := c.zoom.Transform().Invert(sx, sy)
		st.drag.Move(id, wx, wy)
		return
	}
	if last, ok := st.pans[id]; ok {
		st.pans[id] = point{sx, sy}
		c.zoom.PanBy(sx-last.x, sy-last.y)
	}
}

// PointerUp ends the gesture of a pointer.
func (c *Controller) PointerUp(id interaction.PointerID) {
	st := c.cur
	if st == nil {
		return
	}
	if n, ok := st.drag.Subject(id); ok {
		st.drag.End(id)
		observability.Interaction().OnDrag("end", n.ID)
		return
	}
	delete(st.pans, id)
}

// Wheel zooms around the screen point (sx, sy).
func (c *Controller) Wheel(dy, sx, sy float64) {
	c.zoom.Wheel(dy, sx, sy)
}

// Zoom returns the interaction zoom. Hosts use it for keyboard zoom and pan.
func (c *Controller) Zoom() *interaction.Zoom { return c.zoom }

func (c *Controller) onZoom(t interaction.Transform) {
	observability.Interaction().OnZoom(t.K)
	if c.cur == nil {
		return
	}
	c.cur.scene.Transform = t
	c.container.Present(c.cur.scene)
}

// =============================================================================
// Accessors
// =============================================================================

// Scene returns the current scene, or nil.
func (c *Controller) Scene() *scene.Scene {
	if c.cur == nil {
		return nil
	}
	return c.cur.scene
}

// Simulation returns the current simulation, or nil.
func (c *Controller) Simulation() *simulation.Simulation {
	if c.cur == nil {
		return nil
	}
	return c.cur.sim
}

// Dropped returns the links skipped by the last successful render.
func (c *Controller) Dropped() []graph.Link {
	if c.cur == nil {
		return nil
	}
	return c.cur.bound.Dropped
}

// Dataset returns the dataset being shown, or nil.
func (c *Controller) Dataset() *graph.Dataset { return c.data }

// Options returns the options of the last successful render.
func (c *Controller) Options() scene.Options { return c.opts }

// Transform returns the current view transform.
func (c *Controller) Transform() interaction.Transform { return c.zoom.Transform() }

// Dimensions returns the last known container size.
func (c *Controller) Dimensions() (width, height float64) { return c.width, c.height }

// Initialized reports whether a container is bound.
func (c *Controller) Initialized() bool { return c.container != nil }
