package scene

import (
	"math"

	"github.com/google/uuid"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/interaction"
	"github.com/matzehuels/forcegraph/pkg/simulation"
)

// NodeElement is a drawn node: a circle and an optional label.
type NodeElement struct {
	ID       string
	Category graph.Category
	Node     *simulation.Node

	R      float64
	Fill   string
	Stroke string
	Label  string

	// Updated by Sync.
	CX, CY         float64
	LabelX, LabelY float64
}

// LinkElement is a drawn link: a line and an optional relationship label.
type LinkElement struct {
	Source   string
	Target   string
	Type     string
	Relation graph.Relation
	Link     *simulation.Link

	Stroke  string
	Opacity float64
	Width   float64
	Label   string
	LabelDY float64

	// Updated by Sync.
	X1, Y1, X2, Y2 float64
	LabelX, LabelY float64
}

// Scene is everything a renderer draws for one dataset.
type Scene struct {
	ID        string
	Width     float64
	Height    float64
	Options   Options
	Transform interaction.Transform

	Links  []*LinkElement
	Nodes  []*NodeElement
	Legend Legend

	syncs int
}

// Build creates the scene for a bound dataset. nodes and links must be the
// simulation's view of b.Nodes and b.Links, index for index.
func Build(b *graph.Bound, nodes []*simulation.Node, links []*simulation.Link, opts Options, width, height float64) (*Scene, error) {
	if b == nil {
		return nil, errors.New(errors.ErrCodeConstruction, "no bound dataset")
	}
	if len(nodes) != len(b.Nodes) {
		return nil, errors.New(errors.ErrCodeConstruction, "have %d simulation nodes for %d dataset nodes", len(nodes), len(b.Nodes))
	}
	if len(links) != len(b.Links) {
		return nil, errors.New(errors.ErrCodeConstruction, "have %d simulation links for %d dataset links", len(links), len(b.Links))
	}
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	s := &Scene{
		ID:        uuid.NewString(),
		Width:     width,
		Height:    height,
		Options:   opts,
		Transform: interaction.Identity,
		Links:     make([]*LinkElement, len(links)),
		Nodes:     make([]*NodeElement, len(nodes)),
		Legend:    NewLegend(),
	}

	for i, bl := range b.Links {
		l := links[i]
		if l == nil || l.Source == nil || l.Target == nil {
			return nil, errors.New(errors.ErrCodeConstruction, "link %d is not bound", i)
		}
		s.Links[i] = &LinkElement{
			Source:   b.Nodes[bl.Source].ID,
			Target:   b.Nodes[bl.Target].ID,
			Type:     bl.Type,
			Relation: bl.Relation,
			Link:     l,
			Stroke:   Stroke(bl.Relation),
			Opacity:  LinkOpacity,
			Width:    LinkWidth,
			Label:    LinkLabel(bl.Type, opts),
			LabelDY:  LinkLabelDY(bl.Relation),
		}
	}

	for i := range b.Nodes {
		rec := &b.Nodes[i]
		if nodes[i] == nil {
			return nil, errors.New(errors.ErrCodeConstruction, "node %q has no simulation body", rec.ID)
		}
		cat := rec.Category()
		s.Nodes[i] = &NodeElement{
			ID:       rec.ID,
			Category: cat,
			Node:     nodes[i],
			R:        Radius(cat, opts.NodeSize),
			Fill:     Fill(cat),
			Stroke:   NodeStroke,
			Label:    NodeLabel(rec, opts),
		}
	}

	s.Sync()
	return s, nil
}

// Sync copies live positions into every element. Nothing but coordinates
// changes.
func (s *Scene) Sync() {
	for _, l := range s.Links {
		src, tgt := l.Link.Source, l.Link.Target
		l.X1, l.Y1 = finite(src.X), finite(src.Y)
		l.X2, l.Y2 = finite(tgt.X), finite(tgt.Y)
		l.LabelX = (l.X1 + l.X2) / 2
		l.LabelY = (l.Y1+l.Y2)/2 + l.LabelDY
	}
	for _, n := range s.Nodes {
		n.CX, n.CY = finite(n.Node.X), finite(n.Node.Y)
		n.LabelX = n.CX + n.R + NodeLabelGap
		n.LabelY = n.CY + NodeLabelDY
	}
	s.syncs++
}

// Syncs returns how many times positions were synchronized.
func (s *Scene) Syncs() int { return s.syncs }

// HitTest returns the topmost node whose circle contains the world point
// (x, y), allowing slop extra units of radius.
func (s *Scene) HitTest(x, y, slop float64) *NodeElement {
	for i := len(s.Nodes) - 1; i >= 0; i-- {
		n := s.Nodes[i]
		dx, dy := x-n.CX, y-n.CY
		r := n.R + slop
		if dx*dx+dy*dy <= r*r {
			return n
		}
	}
	return nil
}

// Node returns the element for a node id.
func (s *Scene) Node(id string) *NodeElement {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Bounds returns the world-space box around every node circle. An empty
// scene reports the viewport.
func (s *Scene) Bounds() (minX, minY, maxX, maxY float64) {
	if len(s.Nodes) == 0 {
		return 0, 0, s.Width, s.Height
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range s.Nodes {
		minX = min(minX, n.CX-n.R)
		minY = min(minY, n.CY-n.R)
		maxX = max(maxX, n.CX+n.R)
		maxY = max(maxY, n.CY+n.R)
	}
	return minX, minY, maxX, maxY
}

// finite maps NaN and infinities to zero so a diverging body never poisons a
// renderer.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Bodies creates the simulation nodes and links for a bound dataset, index
// for index. Nodes start unplaced.
func Bodies(b *graph.Bound) ([]*simulation.Node, []*simulation.Link) {
	nodes := make([]*simulation.Node, len(b.Nodes))
	for i := range b.Nodes {
		nodes[i] = simulation.NewNode(b.Nodes[i].ID)
	}
	links := make([]*simulation.Link, len(b.Links))
	for i, l := range b.Links {
		links[i] = &simulation.Link{Source: nodes[l.Source], Target: nodes[l.Target], Index: i}
	}
	return nodes, links
}
