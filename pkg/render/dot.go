package render

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/scene"
)

// pointsPerInch converts scene units, which are pixels, into Graphviz
// points.
const pointsPerInch = 72.0

// DOT converts the scene to Graphviz source. Every node carries a pinned
// pos so neato keeps the simulated layout; y is flipped because Graphviz
// grows upward.
func DOT(s *scene.Scene) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  graph [layout=neato, inputscale=%.0f, splines=false, overlap=true, bgcolor=\"white\", outputorder=edgesfirst];\n", pointsPerInch)
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontname=\"Helvetica\", fontsize=8, penwidth=1.5];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("\n")

	for _, n := range s.Nodes {
		d := 2 * n.R / pointsPerInch
		fmt.Fprintf(&buf, "  %q [pos=\"%.2f,%.2f!\", width=%.3f, height=%.3f, fillcolor=%q, color=%q, label=\"\", xlabel=%q];\n",
			n.ID, n.CX, -n.CY, d, d, n.Fill, n.Stroke, n.Label)
	}

	buf.WriteString("\n")
	for _, l := range s.Links {
		fmt.Fprintf(&buf, "  %q -> %q [color=\"%s%02x\", label=%q, fontcolor=%q, fontsize=7];\n",
			l.Source, l.Target, l.Stroke, int(math.Round(l.Opacity*255)), l.Label, l.Stroke)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// Graphviz renders the scene through go-graphviz. f must be PNG, JPG or
// SVG.
func Graphviz(ctx context.Context, s *scene.Scene, f Format) ([]byte, error) {
	var gvFormat graphviz.Format
	switch f {
	case FormatPNG:
		gvFormat = graphviz.PNG
	case FormatJPG:
		gvFormat = graphviz.JPG
	case FormatSVG:
		gvFormat = graphviz.SVG
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "graphviz cannot render %s", f)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExport, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(DOT(s)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExport, err, "parse DOT")
	}
	defer g.Close()

	gv.SetLayout(graphviz.NEATO)

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExport, err, "render %s", f)
	}
	return buf.Bytes(), nil
}
