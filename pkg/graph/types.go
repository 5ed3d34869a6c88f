package graph

import (
	"strconv"
	"strings"
)

// =============================================================================
// Categories and Relations
// =============================================================================

// Category classifies a node by its first label.
type Category string

// Known node categories. Anything unrecognized maps to CategoryOther.
const (
	CategoryMovie  Category = "Movie"
	CategoryPerson Category = "Person"
	CategoryUser   Category = "User"
	CategoryGenre  Category = "Genre"
	CategoryTag    Category = "Tag"
	CategoryOther  Category = "Other"
)

// ParseCategory maps a label onto the closed category set.
func ParseCategory(label string) Category {
	switch Category(label) {
	case CategoryMovie, CategoryPerson, CategoryUser, CategoryGenre, CategoryTag:
		return Category(label)
	}
	return CategoryOther
}

// Relation classifies a link by its type string.
type Relation string

// A link is either a rating or a tag relation. Every type other than
// "Rating" is a tag relation.
const (
	RelationRating Relation = "Rating"
	RelationTag    Relation = "Tag"
)

// ParseRelation maps a link type onto the closed relation set.
func ParseRelation(typ string) Relation {
	if typ == string(RelationRating) {
		return RelationRating
	}
	return RelationTag
}

// Property keys with special meaning.
const (
	PropTitle = "title"
	PropYear  = "year"
)

// =============================================================================
// Dataset
// =============================================================================

// Dataset is the document handed to the visualization.
//
// A nil Nodes or Links slice means the collection is missing, which callers
// treat differently from an empty one.
type Dataset struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Links []Link `json:"links" yaml:"links"`
}

// Node is a single vertex of the dataset.
type Node struct {
	ID         string         `json:"id" yaml:"id"`
	Labels     []string       `json:"labels,omitempty" yaml:"labels,omitempty"`
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Category returns the category of the node's first label.
func (n *Node) Category() Category {
	if len(n.Labels) == 0 {
		return CategoryOther
	}
	return ParseCategory(n.Labels[0])
}

// Title returns the "title" property as a string, or "" when absent.
func (n *Node) Title() string {
	switch v := n.Properties[PropTitle].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return strings.TrimSpace(toString(v))
	}
}

// Year returns the "year" property. JSON numbers, YAML integers and numeric
// strings are all accepted.
func (n *Node) Year() (int, bool) {
	switch v := n.Properties[PropYear].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		y, err := strconv.Atoi(strings.TrimSpace(v))
		return y, err == nil
	}
	return 0, false
}

// Link connects two nodes by id.
type Link struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Type   string `json:"type" yaml:"type"`
}

// Relation returns the link's relation class.
func (l *Link) Relation() Relation { return ParseRelation(l.Type) }

// Clone returns a deep copy of the dataset's collections. Property maps are
// copied shallowly.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	out := &Dataset{}
	if d.Nodes != nil {
		out.Nodes = make([]Node, len(d.Nodes))
		for i, n := range d.Nodes {
			out.Nodes[i] = Node{
				ID:         n.ID,
				Labels:     append([]string(nil), n.Labels...),
				Properties: copyProps(n.Properties),
			}
		}
	}
	if d.Links != nil {
		out.Links = append(make([]Link, 0, len(d.Links)), d.Links...)
	}
	return out
}

func copyProps(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	result := make(map[string]any, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

func toString(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	}
	return ""
}
