package visualization

import (
	"math"
	"testing"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/eventloop"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/interaction"
	"github.com/matzehuels/forcegraph/pkg/scene"
	"github.com/matzehuels/forcegraph/pkg/simulation"
)

const selector = "#graph"

func newController(t *testing.T) (*Controller, *HeadlessContainer, *eventloop.Loop) {
	t.Helper()
	host := NewHeadless()
	cont := host.Add(selector, 800, 600)
	loop := eventloop.New()
	c := New(host, loop)
	if err := c.Init(selector); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return c, cont, loop
}

func movieDataset() *graph.Dataset {
	return &graph.Dataset{
		Nodes: []graph.Node{
			{ID: "m1", Labels: []string{"Movie"}, Properties: map[string]any{"title": "Matrix"}},
			{ID: "p1", Labels: []string{"Person"}},
		},
		Links: []graph.Link{{Source: "m1", Target: "p1", Type: "Rating"}},
	}
}

func largerDataset() *graph.Dataset {
	ds := &graph.Dataset{}
	for _, id := range []string{"m1", "m2", "m3"} {
		ds.Nodes = append(ds.Nodes, graph.Node{ID: id, Labels: []string{"Movie"}, Properties: map[string]any{"title": "T " + id}})
	}
	for _, id := range []string{"keanu_reeves", "carrie_moss", "u1", "u2"} {
		ds.Nodes = append(ds.Nodes, graph.Node{ID: id, Labels: []string{"Person"}})
	}
	ds.Links = []graph.Link{
		{Source: "m1", Target: "keanu_reeves", Type: "Rating"},
		{Source: "m2", Target: "keanu_reeves", Type: "Rating"},
		{Source: "m1", Target: "carrie_moss", Type: "Rating"},
		{Source: "m3", Target: "u1", Type: "funny"},
		{Source: "m3", Target: "u2", Type: "Rating"},
	}
	return ds
}

func TestRenderLabeled(t *testing.T) {
	c, cont, _ := newController(t)

	err := c.Render(movieDataset(), scene.Options{ShowLabels: true, ShowRelationships: true, NodeSize: scene.SizeMedium})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	s := c.Scene()
	if s == nil || cont.Last() != s {
		t.Fatal("scene not presented")
	}
	if len(s.Nodes) != 2 || len(s.Links) != 1 {
		t.Fatalf("got %d nodes, %d links", len(s.Nodes), len(s.Links))
	}
	if s.Nodes[0].R != scene.BaseRadius(scene.SizeMedium)+2 || s.Nodes[1].R != scene.BaseRadius(scene.SizeMedium) {
		t.Errorf("radii = %v, %v", s.Nodes[0].R, s.Nodes[1].R)
	}
	if s.Links[0].Stroke != scene.ColorRating {
		t.Errorf("link stroke = %s", s.Links[0].Stroke)
	}
	if s.Nodes[0].Label != "Matrix" || s.Nodes[1].Label != "p1" {
		t.Errorf("labels = %q, %q", s.Nodes[0].Label, s.Nodes[1].Label)
	}
	if s.Links[0].Label != "Rating" {
		t.Errorf("link label = %q", s.Links[0].Label)
	}
}

func TestRenderUnlabeled(t *testing.T) {
	c, _, _ := newController(t)

	if err := c.Render(movieDataset(), scene.Options{ShowLabels: false}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, n := range c.Scene().Nodes {
		if n.Label != "" {
			t.Errorf("node %s label = %q", n.ID, n.Label)
		}
	}
}

func TestRenderDropsDanglingLink(t *testing.T) {
	c, _, loop := newController(t)
	ds := movieDataset()
	ds.Links = append(ds.Links, graph.Link{Source: "m1", Target: "ghost", Type: "Rating"})

	if err := c.Render(ds, scene.Options{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := len(c.Dropped()); got != 1 {
		t.Errorf("dropped = %d, want 1", got)
	}
	if got := len(c.Scene().Links); got != 1 {
		t.Errorf("scene links = %d, want 1", got)
	}
	loop.Drain(50)
	for _, n := range c.Simulation().Nodes() {
		if math.IsNaN(n.X) || math.IsNaN(n.Y) {
			t.Fatalf("node %s has NaN position", n.ID)
		}
	}
}

func TestResizeRebuildsLayout(t *testing.T) {
	c, cont, loop := newController(t)
	ds := largerDataset()
	opts := scene.Options{ShowLabels: true, NodeSize: scene.SizeLarge}
	if err := c.Render(ds, opts); err != nil {
		t.Fatalf("Render: %v", err)
	}
	loop.Drain(10)
	before := c.Simulation()

	cont.Resize(1000, 800)

	if w, h := c.Dimensions(); w != 1000 || h != 800 {
		t.Errorf("dimensions = %vx%v", w, h)
	}
	s := c.Scene()
	if len(s.Nodes) != len(ds.Nodes) || len(s.Links) != len(ds.Links) {
		t.Errorf("after resize: %d nodes, %d links", len(s.Nodes), len(s.Links))
	}
	if c.Simulation() == before {
		t.Error("resize did not rebuild the simulation")
	}
	if before.Active() {
		t.Error("old simulation still running")
	}
	if c.Options() != opts.WithDefaults() {
		t.Errorf("options changed across resize: %+v", c.Options())
	}
	center, ok := c.Simulation().Force(simulation.ForceCenter).(*simulation.Center)
	if !ok {
		t.Fatal("no center force")
	}
	if x, y := center.Target(); x != 500 || y != 400 {
		t.Errorf("center target = (%v, %v)", x, y)
	}
}

func TestInitIdempotent(t *testing.T) {
	c, cont, _ := newController(t)
	if err := c.Init(selector); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if got := cont.ResizeHandlers(); got != 1 {
		t.Errorf("resize handlers = %d, want 1", got)
	}
}

func TestInitMissingContainer(t *testing.T) {
	c := New(NewHeadless(), eventloop.New())
	err := c.Init("#nope")
	if !errors.Is(err, errors.ErrCodePrecondition) {
		t.Fatalf("Init = %v, want precondition error", err)
	}
	if c.Initialized() {
		t.Error("controller bound without a container")
	}
	if err := c.Init(" "); !errors.Is(err, errors.ErrCodePrecondition) {
		t.Errorf("blank selector = %v", err)
	}
}

func TestRenderPreconditions(t *testing.T) {
	uninit := New(NewHeadless(), eventloop.New())
	if err := uninit.Render(movieDataset(), scene.Options{}); !errors.Is(err, errors.ErrCodePrecondition) {
		t.Errorf("render before init = %v", err)
	}

	c, cont, _ := newController(t)
	if err := c.Render(movieDataset(), scene.Options{}); err != nil {
		t.Fatal(err)
	}
	good := c.Scene()
	presents := cont.Presents()

	tests := []struct {
		name string
		data *graph.Dataset
		opts scene.Options
		code errors.Code
	}{
		{"nil dataset", nil, scene.Options{}, errors.ErrCodePrecondition},
		{"missing links", &graph.Dataset{Nodes: []graph.Node{{ID: "a"}}}, scene.Options{}, errors.ErrCodePrecondition},
		{"missing nodes", &graph.Dataset{Links: []graph.Link{}}, scene.Options{}, errors.ErrCodePrecondition},
		{"duplicate ids", &graph.Dataset{Nodes: []graph.Node{{ID: "a"}, {ID: "a"}}, Links: []graph.Link{}}, scene.Options{}, errors.ErrCodeInvalidDataset},
		{"bad size", movieDataset(), scene.Options{NodeSize: "huge"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Render(tt.data, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Fatalf("Render = %v, want %s", err, tt.code)
			}
			if c.Scene() != good {
				t.Error("rejected render replaced the scene")
			}
			if !c.Simulation().Active() {
				t.Error("rejected render stopped the simulation")
			}
			if cont.Presents() != presents {
				t.Error("rejected render touched the container")
			}
		})
	}
}

type panickyContainer struct{ *HeadlessContainer }

func (panickyContainer) Present(*scene.Scene) { panic("surface lost") }

type singleHost struct{ c Container }

func (h singleHost) Container(string) Container { return h.c }

func TestRenderRecoversConstructionPanic(t *testing.T) {
	inner := NewHeadless().Add(selector, 400, 300)
	loop := eventloop.New()
	c := New(singleHost{panickyContainer{inner}}, loop)
	if err := c.Init(selector); err != nil {
		t.Fatal(err)
	}

	err := c.Render(movieDataset(), scene.Options{})
	if !errors.Is(err, errors.ErrCodeConstruction) {
		t.Fatalf("Render = %v, want construction error", err)
	}
	if c.Scene() != nil || c.Simulation() != nil || c.Dataset() != nil {
		t.Error("partial state left behind")
	}
	if loop.Pending() {
		t.Error("orphaned frame callback after failed render")
	}
}

func TestClearIdempotent(t *testing.T) {
	c, cont, loop := newController(t)
	if err := c.Render(largerDataset(), scene.Options{}); err != nil {
		t.Fatal(err)
	}
	sim := c.Simulation()

	c.Clear()
	erases := cont.Erases()
	c.Clear()

	if c.Scene() != nil || c.Simulation() != nil || c.Dataset() != nil {
		t.Error("Clear left state behind")
	}
	if sim.Active() || loop.Pending() {
		t.Error("simulation still scheduled after Clear")
	}
	if cont.Last() != nil {
		t.Error("container not erased")
	}
	if cont.Erases() != erases {
		t.Error("second Clear erased again")
	}

	// Nothing is loaded, so a resize does not bring the scene back.
	cont.Resize(500, 500)
	if c.Scene() != nil {
		t.Error("resize after Clear re-rendered")
	}
}

func TestRepeatedRenderReplacesScene(t *testing.T) {
	c, _, loop := newController(t)
	ds := largerDataset()

	var sims []*simulation.Simulation
	var scenes []*scene.Scene
	for range 5 {
		if err := c.Render(ds, scene.Options{}); err != nil {
			t.Fatal(err)
		}
		sims = append(sims, c.Simulation())
		scenes = append(scenes, c.Scene())
		loop.Drain(3)
	}

	for i, sim := range sims[:len(sims)-1] {
		if sim.Active() {
			t.Errorf("simulation %d still active", i)
		}
		if tick, end := sim.Listeners(); tick != 0 || end != 0 {
			t.Errorf("simulation %d keeps %d/%d listeners", i, tick, end)
		}
	}

	stale := scenes[0].Syncs()
	loop.Drain(20)
	if scenes[0].Syncs() != stale {
		t.Error("stale scene synced after replacement")
	}
	if got := len(c.Scene().Nodes); got != len(ds.Nodes) {
		t.Errorf("node count = %d, want %d", got, len(ds.Nodes))
	}
}

func TestRenderSettles(t *testing.T) {
	c, cont, loop := newController(t)
	if err := c.Render(largerDataset(), scene.Options{}); err != nil {
		t.Fatal(err)
	}
	frames := loop.Drain(2 * simulation.DefaultMaxSteps)
	if loop.Pending() {
		t.Fatalf("still running after %d frames", frames)
	}
	sim := c.Simulation()
	if sim.Alpha() >= sim.AlphaMin() {
		t.Errorf("alpha = %v", sim.Alpha())
	}
	if cont.Presents() != frames+1 {
		t.Errorf("presents = %d, want one per tick plus the initial one (%d)", cont.Presents(), frames+1)
	}
	for _, n := range c.Scene().Nodes {
		if n.CX != n.Node.X || n.CY != n.Node.Y {
			t.Errorf("node %s drawn at stale position", n.ID)
		}
	}
}

func TestPointerDrag(t *testing.T) {
	c, _, loop := newController(t)
	if err := c.Render(largerDataset(), scene.Options{}); err != nil {
		t.Fatal(err)
	}
	loop.Drain(30)

	first := c.Scene().Nodes[0]
	target := c.Scene().HitTest(first.CX, first.CY, 0)
	sx, sy := c.Transform().Apply(target.CX, target.CY)
	sim := c.Simulation()

	c.PointerDown(1, sx, sy)
	if !target.Node.Pinned() {
		t.Fatal("node not pinned on pointer down")
	}
	if sim.AlphaTarget() != interaction.DragAlphaTarget || !sim.Active() {
		t.Errorf("drag did not reheat: target=%v active=%v", sim.AlphaTarget(), sim.Active())
	}

	c.PointerMove(1, sx+40, sy-20)
	loop.RunFrame()
	if target.Node.X != target.Node.FX || target.Node.FX != target.CX {
		t.Errorf("dragged node at %v, pin %v, drawn %v", target.Node.X, target.Node.FX, target.CX)
	}
	wantX, _ := c.Transform().Invert(sx+40, sy-20)
	if target.Node.FX != wantX {
		t.Errorf("pin x = %v, want %v", target.Node.FX, wantX)
	}

	c.PointerUp(1)
	if target.Node.Pinned() {
		t.Error("node still pinned after pointer up")
	}
	if sim.AlphaTarget() != 0 {
		t.Errorf("alpha target = %v after release", sim.AlphaTarget())
	}
}

func TestPointerPanAndWheel(t *testing.T) {
	c, cont, _ := newController(t)
	if err := c.Render(movieDataset(), scene.Options{}); err != nil {
		t.Fatal(err)
	}

	c.PointerDown(7, -5000, -5000)
	c.PointerMove(7, -4990, -4995)
	c.PointerUp(7)

	want := interaction.Transform{X: 10, Y: 5, K: 1}
	if got := c.Transform(); got != want {
		t.Errorf("transform after pan = %+v, want %+v", got, want)
	}
	if cont.Last().Transform != want {
		t.Error("pan not presented")
	}

	c.Wheel(-500, 10, 5)
	if got := c.Transform().K; math.Abs(got-2) > 1e-9 {
		t.Errorf("scale after wheel = %v, want 2", got)
	}

	// The view survives a re-render.
	if err := c.Render(movieDataset(), scene.Options{}); err != nil {
		t.Fatal(err)
	}
	if c.Scene().Transform != c.Transform() {
		t.Error("new scene lost the view transform")
	}
}

func TestCloseReleasesContainer(t *testing.T) {
	c, cont, _ := newController(t)
	if err := c.Render(movieDataset(), scene.Options{}); err != nil {
		t.Fatal(err)
	}
	c.Close()
	if c.Initialized() || cont.ResizeHandlers() != 0 {
		t.Error("Close kept the container")
	}
	if err := c.Init(selector); err != nil {
		t.Errorf("re-Init after Close: %v", err)
	}
}
