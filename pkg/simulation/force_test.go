package simulation

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestLinkForceConverges(t *testing.T) {
	a := &Node{ID: "a", X: 0, Y: 0}
	b := &Node{ID: "b", X: 200, Y: 0}
	sim := New([]*Node{a, b})
	sim.AddForce(ForceLink, NewLinkForce([]*Link{{Source: a, Target: b}}).Distance(100))
	sim.Tick(300)

	d := math.Hypot(b.X-a.X, b.Y-a.Y)
	if !near(d, 100, 1) {
		t.Errorf("distance = %v, want about 100", d)
	}
}

func TestLinkForceDegreeWeighting(t *testing.T) {
	hub := &Node{ID: "hub"}
	leaves := []*Node{{ID: "l1"}, {ID: "l2"}, {ID: "l3"}}
	links := make([]*Link, len(leaves))
	for i, l := range leaves {
		links[i] = &Link{Source: hub, Target: l}
	}

	f := NewLinkForce(links)
	f.Initialize(nil, rand.New(rand.NewPCG(1, 1)))

	for i := range links {
		if !near(f.strengths[i], 1, 1e-12) {
			t.Errorf("strength[%d] = %v, want 1 (min degree is 1)", i, f.strengths[i])
		}
		if !near(f.bias[i], 0.75, 1e-12) {
			t.Errorf("bias[%d] = %v, want 0.75", i, f.bias[i])
		}
		if links[i].Index != i {
			t.Errorf("link %d Index = %d", i, links[i].Index)
		}
	}
}

func TestLinkForceCustomStrength(t *testing.T) {
	a, b := &Node{ID: "a"}, &Node{ID: "b", X: 10}
	f := NewLinkForce([]*Link{{Source: a, Target: b}})
	f.Initialize(nil, rand.New(rand.NewPCG(1, 1)))
	f.Strength(func(*Link, int, int) float64 { return 0.25 })
	if f.strengths[0] != 0.25 {
		t.Errorf("strength = %v, want 0.25", f.strengths[0])
	}
}

func TestLinkForceHubMovesLess(t *testing.T) {
	hub := &Node{ID: "hub", X: 0, Y: 0}
	leaves := []*Node{{ID: "l1", X: 300, Y: 0}, {ID: "l2", X: 0, Y: 300}, {ID: "l3", X: -300, Y: 0}}
	var links []*Link
	for _, l := range leaves {
		links = append(links, &Link{Source: hub, Target: l})
	}

	f := NewLinkForce(links).Distance(100)
	f.Initialize(nil, rand.New(rand.NewPCG(1, 1)))
	f.Apply(1)

	hubSpeed := math.Hypot(hub.VX, hub.VY)
	leafSpeed := math.Hypot(leaves[0].VX, leaves[0].VY)
	if hubSpeed >= leafSpeed {
		t.Errorf("hub speed %v >= leaf speed %v", hubSpeed, leafSpeed)
	}
}

func TestManyBodyRepels(t *testing.T) {
	a := &Node{ID: "a", X: -5, Y: 0}
	b := &Node{ID: "b", X: 5, Y: 0}
	sim := New([]*Node{a, b})
	sim.AddForce(ForceCharge, NewManyBody().Strength(-300))
	sim.Tick(10)

	if d := b.X - a.X; d <= 10 {
		t.Errorf("distance = %v, want > 10", d)
	}
	if !near(a.X+b.X, 0, 1e-6) {
		t.Errorf("repulsion not symmetric: a=%v b=%v", a.X, b.X)
	}
}

func TestManyBodyCoincident(t *testing.T) {
	nodes := []*Node{{ID: "a", X: 1, Y: 1}, {ID: "b", X: 1, Y: 1}, {ID: "c", X: 1, Y: 1}}
	sim := New(nodes)
	sim.AddForce(ForceCharge, NewManyBody().Strength(-300))
	sim.Tick(20)

	for _, n := range nodes {
		if math.IsNaN(n.X) || math.IsInf(n.X, 0) {
			t.Fatalf("node %s has invalid position %v", n.ID, n.X)
		}
	}
	if nodes[0].X == nodes[1].X && nodes[0].Y == nodes[1].Y {
		t.Error("coincident nodes were not separated")
	}
}

// exactCharge computes the velocity delta without approximation.
func exactCharge(nodes []*Node, strength, alpha float64) [][2]float64 {
	out := make([][2]float64, len(nodes))
	for i, n := range nodes {
		for j, o := range nodes {
			if i == j {
				continue
			}
			x, y := o.X-n.X, o.Y-n.Y
			l := x*x + y*y
			if l < 1 {
				l = math.Sqrt(l)
			}
			out[i][0] += x * strength * alpha / l
			out[i][1] += y * strength * alpha / l
		}
	}
	return out
}

func scatter(n int, seed uint64) []*Node {
	rng := rand.New(rand.NewPCG(seed, seed))
	nodes := make([]*Node, n)
	for i := range nodes {
		nodes[i] = &Node{ID: string(rune('A' + i%26)), X: rng.Float64() * 500, Y: rng.Float64() * 500}
	}
	return nodes
}

func TestManyBodyExactWithZeroTheta(t *testing.T) {
	nodes := scatter(40, 7)
	want := exactCharge(nodes, -300, 0.5)

	f := NewManyBody().Strength(-300).Theta(0)
	f.Initialize(nodes, rand.New(rand.NewPCG(1, 1)))
	f.Apply(0.5)

	for i, n := range nodes {
		if !near(n.VX, want[i][0], 1e-9) || !near(n.VY, want[i][1], 1e-9) {
			t.Errorf("node %d v = (%v, %v), want (%v, %v)", i, n.VX, n.VY, want[i][0], want[i][1])
		}
	}
}

func TestManyBodyApproximation(t *testing.T) {
	nodes := scatter(200, 11)
	want := exactCharge(nodes, -300, 1)

	f := NewManyBody().Strength(-300)
	f.Initialize(nodes, rand.New(rand.NewPCG(1, 1)))
	f.Apply(1)

	var errSum, total float64
	for i, n := range nodes {
		errSum += math.Hypot(n.VX-want[i][0], n.VY-want[i][1])
		total += math.Hypot(want[i][0], want[i][1])
	}
	if rel := errSum / total; rel > 0.2 {
		t.Errorf("relative error = %.3f, want <= 0.2", rel)
	}
}

func TestManyBodyDistanceMax(t *testing.T) {
	a := &Node{ID: "a", X: 0, Y: 0}
	b := &Node{ID: "b", X: 100, Y: 0}
	f := NewManyBody().DistanceMax(50)
	f.Initialize([]*Node{a, b}, rand.New(rand.NewPCG(1, 1)))
	f.Apply(1)

	if a.VX != 0 || b.VX != 0 {
		t.Errorf("nodes beyond distanceMax interacted: %v %v", a.VX, b.VX)
	}
}

func TestCenter(t *testing.T) {
	nodes := []*Node{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 30}}
	c := NewCenter(100, 100)
	c.Initialize(nodes, nil)
	c.Apply(1)

	var sx, sy float64
	for _, n := range nodes {
		sx += n.X
		sy += n.Y
	}
	if !near(sx/3, 100, 1e-9) || !near(sy/3, 100, 1e-9) {
		t.Errorf("centroid = (%v, %v), want (100, 100)", sx/3, sy/3)
	}
	if !near(nodes[1].X-nodes[0].X, 10, 1e-9) {
		t.Error("centering changed relative positions")
	}
	for _, n := range nodes {
		if n.VX != 0 || n.VY != 0 {
			t.Error("centering changed velocity")
		}
	}
}

func TestCenterHalfStrength(t *testing.T) {
	nodes := []*Node{{X: 0, Y: 0}}
	c := NewCenter(10, 0).Strength(0.5)
	c.Initialize(nodes, nil)
	c.Apply(1)
	if nodes[0].X != 5 {
		t.Errorf("X = %v, want 5", nodes[0].X)
	}
}

func TestCenterEmpty(t *testing.T) {
	c := NewCenter(1, 1)
	c.Initialize(nil, nil)
	c.Apply(1)
}

func TestQuadtreeAccumulate(t *testing.T) {
	nodes := []*Node{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}}
	root := buildQuadtree(nodes)
	root.accumulate(func(*Node) float64 { return -2 })

	if root.value != -8 {
		t.Errorf("root value = %v, want -8", root.value)
	}
	if !near(root.cx, 5, 1e-9) || !near(root.cy, 5, 1e-9) {
		t.Errorf("root center = (%v, %v), want (5, 5)", root.cx, root.cy)
	}

	leaves := 0
	root.visit(func(q *quad) bool {
		if !q.internal {
			leaves += len(q.bodies)
		}
		return false
	})
	if leaves != 4 {
		t.Errorf("bodies in leaves = %d, want 4", leaves)
	}
}

func TestQuadtreeEmpty(t *testing.T) {
	if buildQuadtree(nil) != nil {
		t.Error("buildQuadtree(nil) != nil")
	}
}
