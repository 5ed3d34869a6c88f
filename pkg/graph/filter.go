package graph

import (
	"fmt"

	"github.com/matzehuels/forcegraph/pkg/errors"
)

// Operator is a year comparison offered by the settings panel.
type Operator string

// Supported comparison operators.
const (
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
	OpEqual        Operator = "="
	OpNotEqual     Operator = "<>"
)

// Operators lists every supported operator in display order.
var Operators = []Operator{OpGreater, OpLess, OpGreaterEqual, OpLessEqual, OpEqual, OpNotEqual}

// ParseOperator validates s as an operator.
func ParseOperator(s string) (Operator, error) {
	for _, op := range Operators {
		if string(op) == s {
			return op, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidSettings, "unknown operator %q", s)
}

// Compare reports whether "a op b" holds.
func (op Operator) Compare(a, b int) bool {
	switch op {
	case OpGreater:
		return a > b
	case OpLess:
		return a < b
	case OpGreaterEqual:
		return a >= b
	case OpLessEqual:
		return a <= b
	case OpEqual:
		return a == b
	case OpNotEqual:
		return a != b
	}
	return false
}

// Query narrows a dataset to movies released relative to a year.
type Query struct {
	Year     int
	Operator Operator
	Limit    int
}

// String renders the query the way it appears in log output.
func (q Query) String() string {
	return fmt.Sprintf("year %s %d limit %d", q.Operator, q.Year, q.Limit)
}

// Filter returns the sub-dataset made of links that touch at least one movie
// whose year satisfies the query, together with the nodes those links
// connect. Link order and node order follow ds.
//
// q.Limit caps result rows, where a link yields one row per matching movie
// endpoint: a link between two matching movies uses two rows but appears
// once. A link is kept while rows remain, even if its second row would not
// fit. A non-positive limit keeps every matching link.
//
// Dangling links are ignored. The input is not modified.
func Filter(ds *Dataset, q Query) *Dataset {
	out := &Dataset{Nodes: []Node{}, Links: []Link{}}
	if ds == nil {
		return out
	}

	byID := make(map[string]*Node, len(ds.Nodes))
	for i := range ds.Nodes {
		byID[ds.Nodes[i].ID] = &ds.Nodes[i]
	}

	matches := func(n *Node) bool {
		if n.Category() != CategoryMovie {
			return false
		}
		y, ok := n.Year()
		return ok && q.Operator.Compare(y, q.Year)
	}

	keep := make(map[string]struct{})
	rows := 0
	for _, l := range ds.Links {
		if q.Limit > 0 && rows >= q.Limit {
			break
		}
		src, okS := byID[l.Source]
		tgt, okT := byID[l.Target]
		if !okS || !okT {
			continue
		}
		n := 0
		if matches(src) {
			n++
		}
		if matches(tgt) {
			n++
		}
		if n == 0 {
			continue
		}
		rows += n
		out.Links = append(out.Links, l)
		keep[l.Source] = struct{}{}
		keep[l.Target] = struct{}{}
	}

	for _, n := range ds.Nodes {
		if _, ok := keep[n.ID]; ok {
			out.Nodes = append(out.Nodes, n)
		}
	}
	return out
}
