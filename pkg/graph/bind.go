package graph

// BoundLink is a link whose endpoints have been resolved to node indices.
type BoundLink struct {
	Source   int
	Target   int
	Type     string
	Relation Relation
}

// Bound is a validated dataset ready for simulation. Nodes keep dataset
// order; Links keep dataset order minus the dropped ones.
type Bound struct {
	Nodes   []Node
	Links   []BoundLink
	Dropped []Link
	index   map[string]int
}

// Bind validates ds and resolves link endpoints. Links referencing an
// unknown node id are dropped and listed in Dropped; callers are expected
// to log them.
func Bind(ds *Dataset) (*Bound, error) {
	if err := Validate(ds); err != nil {
		return nil, err
	}

	b := &Bound{
		Nodes: ds.Nodes,
		Links: make([]BoundLink, 0, len(ds.Links)),
		index: make(map[string]int, len(ds.Nodes)),
	}
	for i := range ds.Nodes {
		b.index[ds.Nodes[i].ID] = i
	}

	for _, l := range ds.Links {
		s, okS := b.index[l.Source]
		t, okT := b.index[l.Target]
		if !okS || !okT {
			b.Dropped = append(b.Dropped, l)
			continue
		}
		b.Links = append(b.Links, BoundLink{
			Source:   s,
			Target:   t,
			Type:     l.Type,
			Relation: l.Relation(),
		})
	}
	return b, nil
}

// Index returns the position of the node with the given id.
func (b *Bound) Index(id string) (int, bool) {
	i, ok := b.index[id]
	return i, ok
}
