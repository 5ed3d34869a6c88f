package simulation

// maxQuadDepth bounds subdivision when points are nearly coincident.
const maxQuadDepth = 32

// quad is a square region of a Barnes–Hut quadtree. Leaves hold one or more
// bodies; internal quads hold up to four children.
type quad struct {
	x0, y0, size float64
	depth        int

	children [4]*quad
	bodies   []*Node
	internal bool

	// Filled in by accumulate.
	value  float64 // summed strength
	cx, cy float64 // |strength|-weighted center
}

func newQuad(x0, y0, size float64, depth int) *quad {
	return &quad{x0: x0, y0: y0, size: size, depth: depth}
}

// buildQuadtree returns a square tree covering every node, or nil when there
// are none.
func buildQuadtree(nodes []*Node) *quad {
	if len(nodes) == 0 {
		return nil
	}

	minX, maxX := nodes[0].X, nodes[0].X
	minY, maxY := nodes[0].Y, nodes[0].Y
	for _, n := range nodes[1:] {
		minX, maxX = min(minX, n.X), max(maxX, n.X)
		minY, maxY = min(minY, n.Y), max(maxY, n.Y)
	}

	// Square the bounds and widen by one unit so points on the max edge
	// fall inside.
	size := max(maxX-minX, maxY-minY) + 1
	root := newQuad(minX, minY, size, 0)
	for _, n := range nodes {
		root.insert(n)
	}
	return root
}

func (q *quad) insert(n *Node) {
	if !q.internal {
		if len(q.bodies) == 0 || q.depth >= maxQuadDepth || samePoint(q.bodies[0], n) {
			q.bodies = append(q.bodies, n)
			return
		}

		// Split the leaf and push its bodies down.
		q.internal = true
		existing := q.bodies
		q.bodies = nil
		for _, b := range existing {
			q.child(b).insert(b)
		}
	}
	q.child(n).insert(n)
}

// child returns the quadrant containing n, creating it on demand.
func (q *quad) child(n *Node) *quad {
	half := q.size / 2
	mx, my := q.x0+half, q.y0+half

	i := 0
	x0, y0 := q.x0, q.y0
	if n.X >= mx {
		i |= 1
		x0 = mx
	}
	if n.Y >= my {
		i |= 2
		y0 = my
	}
	if q.children[i] == nil {
		q.children[i] = newQuad(x0, y0, half, q.depth+1)
	}
	return q.children[i]
}

func samePoint(a, b *Node) bool { return a.X == b.X && a.Y == b.Y }

// accumulate computes value and weighted centers bottom-up. strength maps a
// body to its charge.
func (q *quad) accumulate(strength func(*Node) float64) {
	if !q.internal {
		var sx, sy float64
		for _, b := range q.bodies {
			q.value += strength(b)
			sx += b.X
			sy += b.Y
		}
		k := float64(len(q.bodies))
		q.cx, q.cy = sx/k, sy/k
		return
	}

	var sx, sy, weight float64
	for _, c := range q.children {
		if c == nil {
			continue
		}
		c.accumulate(strength)
		w := abs(c.value)
		q.value += c.value
		sx += w * c.cx
		sy += w * c.cy
		weight += w
	}
	if weight > 0 {
		q.cx, q.cy = sx/weight, sy/weight
	}
}

// visit walks the tree depth first. When fn returns true the quad's
// children are skipped.
func (q *quad) visit(fn func(*quad) bool) {
	if fn(q) || !q.internal {
		return
	}
	for _, c := range q.children {
		if c != nil {
			c.visit(fn)
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
