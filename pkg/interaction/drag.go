package interaction

import "github.com/matzehuels/forcegraph/pkg/simulation"

// DragAlphaTarget is the alpha target held while any node is dragged.
const DragAlphaTarget = 0.3

// PointerID distinguishes concurrent gestures (mouse, touches).
type PointerID int

// Drag pins nodes under pointers and keeps the simulation warm while any
// gesture is in progress.
type Drag struct {
	sim      *simulation.Simulation
	gestures map[PointerID]*simulation.Node
}

// NewDrag binds drag behavior to a simulation.
func NewDrag(sim *simulation.Simulation) *Drag {
	return &Drag{sim: sim, gestures: make(map[PointerID]*simulation.Node)}
}

// Start begins a gesture on node. Only the first concurrent gesture reheats
// the simulation. The node is pinned where it currently is.
func (d *Drag) Start(id PointerID, node *simulation.Node) {
	if node == nil {
		return
	}
	if prev, ok := d.gestures[id]; ok {
		prev.Unpin()
		delete(d.gestures, id)
	}
	if len(d.gestures) == 0 {
		d.sim.SetAlphaTarget(DragAlphaTarget).Restart()
	}
	node.Pin(node.X, node.Y)
	d.gestures[id] = node
}

// Move pins the gesture's node at world coordinates (x, y). Unknown
// pointers are ignored.
func (d *Drag) Move(id PointerID, x, y float64) {
	if node, ok := d.gestures[id]; ok {
		node.Pin(x, y)
	}
}

// End finishes a gesture and unpins its node. When no gesture remains the
// alpha target drops back to zero and the simulation cools.
func (d *Drag) End(id PointerID) {
	node, ok := d.gestures[id]
	if !ok {
		return
	}
	delete(d.gestures, id)
	if len(d.gestures) == 0 {
		d.sim.SetAlphaTarget(0)
	}
	node.Unpin()
}

// Subject returns the node held by a pointer.
func (d *Drag) Subject(id PointerID) (*simulation.Node, bool) {
	n, ok := d.gestures[id]
	return n, ok
}

// Active returns the number of gestures in progress.
func (d *Drag) Active() int { return len(d.gestures) }

// Cancel ends every gesture.
func (d *Drag) Cancel() {
	for id := range d.gestures {
		d.End(id)
	}
}
