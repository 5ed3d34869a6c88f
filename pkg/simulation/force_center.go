package simulation

import "math/rand/v2"

// Center translates every node so the centroid moves toward a target point.
// It does not change velocities, so it never adds energy.
type Center struct {
	x, y     float64
	strength float64
	nodes    []*Node
}

// NewCenter creates a centering force toward (x, y) with strength 1.
func NewCenter(x, y float64) *Center {
	return &Center{x: x, y: y, strength: 1}
}

// Target returns the current target point.
func (c *Center) Target() (x, y float64) { return c.x, c.y }

// Strength sets the fraction of the offset corrected per step.
func (c *Center) Strength(s float64) *Center {
	c.strength = s
	return c
}

// Initialize implements Force.
func (c *Center) Initialize(nodes []*Node, _ *rand.Rand) { c.nodes = nodes }

// Apply implements Force. Alpha does not scale the correction.
func (c *Center) Apply(float64) {
	n := len(c.nodes)
	if n == 0 {
		return
	}

	var sx, sy float64
	for _, node := range c.nodes {
		sx += node.X
		sy += node.Y
	}
	sx = (sx/float64(n) - c.x) * c.strength
	sy = (sy/float64(n) - c.y) * c.strength

	for _, node := range c.nodes {
		node.X -= sx
		node.Y -= sy
	}
}
