package simulation

import (
	"math"
	"math/rand/v2"
)

// DefaultLinkDistance is the rest length of a link spring.
const DefaultLinkDistance = 30.0

// LinkForce pulls linked nodes toward a fixed separation.
//
// Each link's stiffness defaults to 1/min(degree(source), degree(target)),
// and the correction is split between the ends in proportion to degree, so
// a hub moves less than the leaves attached to it.
type LinkForce struct {
	links      []*Link
	distance   float64
	iterations int
	strengthFn func(*Link, int, int) float64

	strengths []float64
	bias      []float64
	rng       *rand.Rand
}

// NewLinkForce creates a link force over links.
func NewLinkForce(links []*Link) *LinkForce {
	return &LinkForce{
		links:      links,
		distance:   DefaultLinkDistance,
		iterations: 1,
	}
}

// Distance sets the rest length.
func (f *LinkForce) Distance(d float64) *LinkForce {
	f.distance = d
	return f
}

// Iterations sets how many times the constraint is relaxed per step.
func (f *LinkForce) Iterations(n int) *LinkForce {
	f.iterations = max(1, n)
	return f
}

// Strength overrides the stiffness function. It receives the link and the
// degrees of its source and target.
func (f *LinkForce) Strength(fn func(l *Link, srcDeg, tgtDeg int) float64) *LinkForce {
	f.strengthFn = fn
	if f.rng != nil {
		f.initialize()
	}
	return f
}

// Links returns the links this force acts on.
func (f *LinkForce) Links() []*Link { return f.links }

// Initialize implements Force.
func (f *LinkForce) Initialize(_ []*Node, rng *rand.Rand) {
	f.rng = rng
	f.initialize()
}

func (f *LinkForce) initialize() {
	degree := make(map[*Node]int, len(f.links)*2)
	for i, l := range f.links {
		l.Index = i
		degree[l.Source]++
		degree[l.Target]++
	}

	f.strengths = make([]float64, len(f.links))
	f.bias = make([]float64, len(f.links))
	for i, l := range f.links {
		ds, dt := degree[l.Source], degree[l.Target]
		f.bias[i] = float64(ds) / float64(ds+dt)
		if f.strengthFn != nil {
			f.strengths[i] = f.strengthFn(l, ds, dt)
		} else {
			f.strengths[i] = 1 / float64(min(ds, dt))
		}
	}
}

// Apply implements Force.
func (f *LinkForce) Apply(alpha float64) {
	for range f.iterations {
		for i, l := range f.links {
			src, tgt := l.Source, l.Target

			x := tgt.X + tgt.VX - src.X - src.VX
			if x == 0 {
				x = jiggle(f.rng)
			}
			y := tgt.Y + tgt.VY - src.Y - src.VY
			if y == 0 {
				y = jiggle(f.rng)
			}

			d := math.Sqrt(x*x + y*y)
			d = (d - f.distance) / d * alpha * f.strengths[i]
			x *= d
			y *= d

			b := f.bias[i]
			tgt.VX -= x * b
			tgt.VY -= y * b
			src.VX += x * (1 - b)
			src.VY += y * (1 - b)
		}
	}
}
