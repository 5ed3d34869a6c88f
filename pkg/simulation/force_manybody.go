package simulation

import (
	"math"
	"math/rand/v2"
)

// Defaults for the many-body force.
const (
	DefaultChargeStrength = -30.0
	DefaultTheta          = 0.9
	DefaultDistanceMin    = 1.0
)

// ManyBody applies a charge between every pair of nodes. Negative strength
// repels. Far-away groups are approximated by their aggregate charge using a
// Barnes–Hut quadtree rebuilt every step.
type ManyBody struct {
	strength     float64
	theta2       float64
	distanceMin2 float64
	distanceMax2 float64

	nodes []*Node
	rng   *rand.Rand
}

// NewManyBody creates a many-body force with default parameters.
func NewManyBody() *ManyBody {
	return &ManyBody{
		strength:     DefaultChargeStrength,
		theta2:       DefaultTheta * DefaultTheta,
		distanceMin2: DefaultDistanceMin * DefaultDistanceMin,
		distanceMax2: math.Inf(1),
	}
}

// Strength sets the charge of every node.
func (f *ManyBody) Strength(s float64) *ManyBody {
	f.strength = s
	return f
}

// Theta sets the Barnes–Hut accuracy. Smaller is more exact.
func (f *ManyBody) Theta(t float64) *ManyBody {
	f.theta2 = t * t
	return f
}

// DistanceMin sets the distance below which the force is clamped.
func (f *ManyBody) DistanceMin(d float64) *ManyBody {
	f.distanceMin2 = d * d
	return f
}

// DistanceMax sets the distance beyond which nodes do not interact.
func (f *ManyBody) DistanceMax(d float64) *ManyBody {
	f.distanceMax2 = d * d
	return f
}

// Initialize implements Force.
func (f *ManyBody) Initialize(nodes []*Node, rng *rand.Rand) {
	f.nodes = nodes
	f.rng = rng
}

// Apply implements Force.
func (f *ManyBody) Apply(alpha float64) {
	tree := buildQuadtree(f.nodes)
	if tree == nil {
		return
	}
	tree.accumulate(func(*Node) float64 { return f.strength })

	for _, n := range f.nodes {
		tree.visit(func(q *quad) bool { return f.applyQuad(n, q, alpha) })
	}
}

// applyQuad adds the contribution of q to n and reports whether q's children
// can be skipped.
func (f *ManyBody) applyQuad(n *Node, q *quad, alpha float64) bool {
	if q.value == 0 {
		return true
	}

	x := q.cx - n.X
	y := q.cy - n.Y
	l := x*x + y*y

	// Far enough to treat the quad as one body.
	if q.size*q.size/f.theta2 < l {
		if l < f.distanceMax2 {
			x, y, l = f.separate(x, y, l)
			n.VX += x * q.value * alpha / l
			n.VY += y * q.value * alpha / l
		}
		return true
	}

	if q.internal || l >= f.distanceMax2 {
		return false
	}

	// Leaf close by: apply each body individually.
	if len(q.bodies) > 1 || q.bodies[0] != n {
		x, y, l = f.separate(x, y, l)
	}
	for _, b := range q.bodies {
		if b == n {
			continue
		}
		w := f.strength * alpha / l
		n.VX += x * w
		n.VY += y * w
	}
	return true
}

// separate jiggles zero offsets and clamps l to distanceMin.
func (f *ManyBody) separate(x, y, l float64) (float64, float64, float64) {
	if x == 0 {
		x = jiggle(f.rng)
		l += x * x
	}
	if y == 0 {
		y = jiggle(f.rng)
		l += y * y
	}
	if l < f.distanceMin2 {
		l = math.Sqrt(f.distanceMin2 * l)
	}
	return x, y, l
}
