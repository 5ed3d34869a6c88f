package scene

import (
	"strings"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Palette.
const (
	ColorMovie  = "#ff7f0e"
	ColorPerson = "#1f77b4"
	ColorRating = "#999999"
	ColorTag    = "#d62728"

	NodeStroke      = "#ffffff"
	LinkOpacity     = 0.6
	LinkWidth       = 1.0
	movieRadiusBump = 2.0
)

// Label placement relative to the anchor.
const (
	NodeLabelGap     = 4.0
	NodeLabelDY      = 4.0
	RatingLabelDY    = -6.0
	TagLabelDY       = 12.0
	DefaultLabelFont = 10.0
)

// BaseRadius returns the radius for a node size.
func BaseRadius(size NodeSize) float64 {
	switch size {
	case SizeMedium:
		return 6
	case SizeLarge:
		return 10
	}
	return 3
}

// Radius returns the circle radius for a node category at a size. Movies
// are drawn slightly larger.
func Radius(cat graph.Category, size NodeSize) float64 {
	r := BaseRadius(size)
	if cat == graph.CategoryMovie {
		r += movieRadiusBump
	}
	return r
}

// Fill returns the node fill color.
func Fill(cat graph.Category) string {
	if cat == graph.CategoryMovie {
		return ColorMovie
	}
	return ColorPerson
}

// Stroke returns the link color.
func Stroke(rel graph.Relation) string {
	if rel == graph.RelationRating {
		return ColorRating
	}
	return ColorTag
}

// LinkLabelDY returns the vertical offset of a relationship label from the
// link midpoint.
func LinkLabelDY(rel graph.Relation) float64 {
	if rel == graph.RelationRating {
		return RatingLabelDY
	}
	return TagLabelDY
}

// NodeLabel returns the text drawn next to a node.
func NodeLabel(n *graph.Node, opts Options) string {
	if !opts.ShowLabels {
		return ""
	}
	if n.Category() == graph.CategoryMovie {
		return n.Title()
	}
	return strings.ReplaceAll(n.ID, "_", " ")
}

// LinkLabel returns the text drawn at a link's midpoint.
func LinkLabel(typ string, opts Options) string {
	if !opts.ShowRelationships {
		return ""
	}
	return typ
}
