package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Settled Diagram Format
// =============================================================================

// Layout is the serialized snapshot of a rendered diagram: node positions as
// the simulation left them plus the styling the scene applied.
type Layout struct {
	ID     string  `json:"id,omitempty"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Transform Transform `json:"transform"`
	Alpha     float64   `json:"alpha"`
	Steps     int       `json:"steps"`

	Nodes []PlacedNode `json:"nodes"`
	Links []PlacedLink `json:"links"`
}

// Transform is the view pan/zoom at export time.
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// PlacedNode is a node with its final position and style.
type PlacedNode struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Radius   float64  `json:"r"`
	Fill     string   `json:"fill"`
	Label    string   `json:"label,omitempty"`
	Pinned   bool     `json:"pinned,omitempty"`
}

// PlacedLink is a link with its final endpoints.
type PlacedLink struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Relation Relation `json:"relation"`
	Type     string   `json:"type"`
	X1       float64  `json:"x1"`
	Y1       float64  `json:"y1"`
	X2       float64  `json:"x2"`
	Y2       float64  `json:"y2"`
	Stroke   string   `json:"stroke"`
	Label    string   `json:"label,omitempty"`
}

// MarshalLayout serializes a layout to indented JSON.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes to a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// ReadLayoutFile reads a layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
