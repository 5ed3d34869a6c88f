package scene

import (
	"github.com/matzehuels/forcegraph/pkg/errors"
)

// NodeSize selects the base node radius.
type NodeSize string

// Node sizes.
const (
	SizeSmall  NodeSize = "small"
	SizeMedium NodeSize = "medium"
	SizeLarge  NodeSize = "large"
)

// NodeSizes lists every size from smallest to largest.
var NodeSizes = []NodeSize{SizeSmall, SizeMedium, SizeLarge}

// ParseNodeSize validates s as a node size.
func ParseNodeSize(s string) (NodeSize, error) {
	for _, n := range NodeSizes {
		if string(n) == s {
			return n, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown node size %q (want small, medium or large)", s)
}

// Next cycles small -> medium -> large -> small.
func (s NodeSize) Next() NodeSize {
	switch s {
	case SizeSmall:
		return SizeMedium
	case SizeMedium:
		return SizeLarge
	}
	return SizeSmall
}

// Options are the visual options of a render call.
type Options struct {
	ShowLabels        bool     `json:"showLabels"`
	ShowRelationships bool     `json:"showRelationships"`
	NodeSize          NodeSize `json:"nodeSize"`
}

// DefaultOptions are used when a caller supplies no visual options.
func DefaultOptions() Options {
	return Options{ShowLabels: false, ShowRelationships: false, NodeSize: SizeSmall}
}

// WithDefaults fills unset fields from DefaultOptions.
func (o Options) WithDefaults() Options {
	if o.NodeSize == "" {
		o.NodeSize = DefaultOptions().NodeSize
	}
	return o
}

// Validate reports unknown enum values.
func (o Options) Validate() error {
	_, err := ParseNodeSize(string(o.NodeSize))
	return err
}
