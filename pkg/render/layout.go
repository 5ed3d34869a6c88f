package render

import (
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/scene"
)

// Snapshot captures the scene's current positions and styling. alpha and
// steps describe the simulation at capture time.
func Snapshot(s *scene.Scene, alpha float64, steps int) graph.Layout {
	l := graph.Layout{
		ID:        s.ID,
		Width:     s.Width,
		Height:    s.Height,
		Transform: graph.Transform{X: s.Transform.X, Y: s.Transform.Y, K: s.Transform.K},
		Alpha:     alpha,
		Steps:     steps,
		Nodes:     make([]graph.PlacedNode, len(s.Nodes)),
		Links:     make([]graph.PlacedLink, len(s.Links)),
	}
	for i, n := range s.Nodes {
		l.Nodes[i] = graph.PlacedNode{
			ID:       n.ID,
			Category: n.Category,
			X:        n.CX,
			Y:        n.CY,
			Radius:   n.R,
			Fill:     n.Fill,
			Label:    n.Label,
			Pinned:   n.Node.Pinned(),
		}
	}
	for i, e := range s.Links {
		l.Links[i] = graph.PlacedLink{
			Source:   e.Source,
			Target:   e.Target,
			Relation: e.Relation,
			Type:     e.Type,
			X1:       e.X1,
			Y1:       e.Y1,
			X2:       e.X2,
			Y2:       e.Y2,
			Stroke:   e.Stroke,
			Label:    e.Label,
		}
	}
	return l
}

// JSON serializes a layout snapshot.
func JSON(l graph.Layout) ([]byte, error) {
	return graph.MarshalLayout(l)
}
