package interaction

import (
	"testing"

	"github.com/matzehuels/forcegraph/pkg/eventloop"
	"github.com/matzehuels/forcegraph/pkg/simulation"
)

func settled(t *testing.T) (*simulation.Simulation, []*simulation.Node, *eventloop.Loop) {
	t.Helper()
	loop := eventloop.New()
	nodes := []*simulation.Node{simulation.NewNode("a"), simulation.NewNode("b"), simulation.NewNode("c")}
	links := []*simulation.Link{{Source: nodes[0], Target: nodes[1]}}
	sim := simulation.NewLayout(nodes, links, 0, 0, simulation.WithScheduler(loop))
	loop.Drain(0)
	if sim.Active() {
		t.Fatal("simulation did not settle")
	}
	return sim, nodes, loop
}

func TestDragLifecycle(t *testing.T) {
	sim, nodes, loop := settled(t)
	d := NewDrag(sim)
	n := nodes[0]
	x, y := n.X, n.Y

	d.Start(1, n)
	if !sim.Active() {
		t.Error("drag start did not restart the simulation")
	}
	if sim.AlphaTarget() != DragAlphaTarget {
		t.Errorf("alpha target = %v, want %v", sim.AlphaTarget(), DragAlphaTarget)
	}
	if !n.Pinned() || n.FX != x || n.FY != y {
		t.Errorf("node pin = (%v, %v, %v), want (%v, %v, true)", n.FX, n.FY, n.Fixed, x, y)
	}

	d.Move(1, 500, 600)
	loop.RunFrame()
	if n.X != 500 || n.Y != 600 {
		t.Errorf("dragged node at (%v, %v), want (500, 600)", n.X, n.Y)
	}

	d.End(1)
	if n.Pinned() {
		t.Error("node still pinned after end")
	}
	if sim.AlphaTarget() != 0 {
		t.Errorf("alpha target = %v, want 0", sim.AlphaTarget())
	}
	loop.Drain(0)
	if sim.Active() {
		t.Error("simulation did not cool after drag end")
	}
}

func TestDragOnlyFirstGestureReheats(t *testing.T) {
	sim, nodes, _ := settled(t)
	d := NewDrag(sim)

	d.Start(1, nodes[0])
	sim.SetAlphaTarget(0.123)
	d.Start(2, nodes[1])
	if sim.AlphaTarget() != 0.123 {
		t.Errorf("second gesture changed alpha target to %v", sim.AlphaTarget())
	}
	if d.Active() != 2 {
		t.Errorf("Active() = %d, want 2", d.Active())
	}

	d.End(1)
	if sim.AlphaTarget() != 0.123 {
		t.Error("ending one of two gestures lowered the target")
	}
	if nodes[0].Pinned() {
		t.Error("ended gesture left node pinned")
	}
	if !nodes[1].Pinned() {
		t.Error("ongoing gesture lost its pin")
	}

	d.End(2)
	if sim.AlphaTarget() != 0 {
		t.Errorf("alpha target = %v, want 0", sim.AlphaTarget())
	}
}

func TestDragIgnoresUnknownPointers(t *testing.T) {
	sim, nodes, _ := settled(t)
	d := NewDrag(sim)
	d.Move(9, 1, 1)
	d.End(9)
	d.Start(1, nil)
	if d.Active() != 0 || sim.Active() {
		t.Error("unknown pointer changed state")
	}
	if _, ok := d.Subject(9); ok {
		t.Error("Subject(9) found a node")
	}
	if nodes[0].Pinned() {
		t.Error("node pinned without a gesture")
	}
}

func TestDragRestartSamePointer(t *testing.T) {
	sim, nodes, _ := settled(t)
	d := NewDrag(sim)
	d.Start(1, nodes[0])
	d.Start(1, nodes[1])

	if nodes[0].Pinned() {
		t.Error("replaced gesture left its node pinned")
	}
	if n, _ := d.Subject(1); n != nodes[1] {
		t.Error("pointer not bound to the new node")
	}
	if d.Active() != 1 {
		t.Errorf("Active() = %d, want 1", d.Active())
	}
}

func TestDragCancel(t *testing.T) {
	sim, nodes, _ := settled(t)
	d := NewDrag(sim)
	d.Start(1, nodes[0])
	d.Start(2, nodes[1])
	d.Cancel()

	if d.Active() != 0 || nodes[0].Pinned() || nodes[1].Pinned() {
		t.Error("Cancel left gestures behind")
	}
	if sim.AlphaTarget() != 0 {
		t.Errorf("alpha target = %v, want 0", sim.AlphaTarget())
	}
}
