package simulation

import "math"

// Node is a simulated body. X and Y are owned by the simulation while it
// runs; FX and FY hold the pin when Fixed is set.
type Node struct {
	ID    string
	Index int

	X, Y   float64
	VX, VY float64

	FX, FY float64
	Fixed  bool
}

// NewNode returns a node without a position. The simulation places it on
// the initial spiral.
func NewNode(id string) *Node {
	return &Node{ID: id, X: math.NaN(), Y: math.NaN()}
}

// Pin holds the node at (x, y) until Unpin.
func (n *Node) Pin(x, y float64) {
	n.FX, n.FY = x, y
	n.Fixed = true
}

// Unpin releases the node back to the forces.
func (n *Node) Unpin() {
	n.FX, n.FY = 0, 0
	n.Fixed = false
}

// Pinned reports whether the node is currently pinned.
func (n *Node) Pinned() bool { return n.Fixed }

// Link connects two nodes of the same simulation.
type Link struct {
	Source *Node
	Target *Node
	Index  int
}
