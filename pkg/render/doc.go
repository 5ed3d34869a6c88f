// Package render turns a [scene.Scene] into output documents.
//
// # Overview
//
// Every sink reads the scene as it is at call time. Nothing here touches
// the simulation, so a renderer can run on a settled layout or between two
// ticks of a live one.
//
//   - [SVG]: standalone SVG with the view transform and legend
//   - [Snapshot] and [JSON]: the settled positions as a [graph.Layout]
//   - [DOT]: Graphviz source with every node pinned where the simulation left it
//   - [Graphviz]: PNG, JPG or SVG rasterized by go-graphviz using neato
//   - [ToPDF]: SVG to PDF through rsvg-convert
//   - [Raster]: a character grid for terminal previews
//
// # Formats
//
// [ParseFormats] validates a comma separated list such as "svg,json" and
// [Encode] dispatches one format:
//
//	formats, err := render.ParseFormats("svg,png")
//	for _, f := range formats {
//	    data, err := render.Encode(ctx, s, layout, f)
//	}
//
// [scene.Scene]: github.com/matzehuels/forcegraph/pkg/scene.Scene
// [graph.Layout]: github.com/matzehuels/forcegraph/pkg/graph.Layout
package render
