package scene

// Shape is the marker drawn for a legend entry.
type Shape string

// Legend marker shapes.
const (
	ShapeCircle Shape = "circle"
	ShapeLine   Shape = "line"
)

// LegendEntry is one row of the legend.
type LegendEntry struct {
	Label string
	Shape Shape
	Color string
}

// Legend is a translucent panel pinned to the top-left of the viewport. It
// lives in screen space and is not affected by the view transform.
type Legend struct {
	X, Y          float64
	Width, Height float64
	Fill          string
	Opacity       float64
	RowHeight     float64
	Entries       []LegendEntry
}

// Legend geometry.
const (
	legendMargin    = 20.0
	legendPadding   = 10.0
	legendWidth     = 110.0
	legendRowHeight = 20.0
)

// NewLegend returns the fixed four-entry legend. The entries do not depend
// on the dataset.
func NewLegend() Legend {
	entries := []LegendEntry{
		{Label: "Movie", Shape: ShapeCircle, Color: ColorMovie},
		{Label: "Person", Shape: ShapeCircle, Color: ColorPerson},
		{Label: "Rating", Shape: ShapeLine, Color: ColorRating},
		{Label: "Tags", Shape: ShapeLine, Color: ColorTag},
	}
	return Legend{
		X:         legendMargin,
		Y:         legendMargin,
		Width:     legendWidth,
		Height:    2*legendPadding + float64(len(entries))*legendRowHeight,
		Fill:      "#ffffff",
		Opacity:   0.8,
		RowHeight: legendRowHeight,
		Entries:   entries,
	}
}

// RowY returns the vertical center of entry i in screen space.
func (l Legend) RowY(i int) float64 {
	return l.Y + legendPadding + (float64(i)+0.5)*l.RowHeight
}

// MarkerX returns the horizontal center of entry markers.
func (l Legend) MarkerX() float64 { return l.X + legendPadding + 6 }

// TextX returns where entry labels start.
func (l Legend) TextX() float64 { return l.X + legendPadding + 20 }
