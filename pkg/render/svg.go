package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/forcegraph/pkg/interaction"
	"github.com/matzehuels/forcegraph/pkg/scene"
)

const fontFamily = "sans-serif"

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	legend     bool
	background string
	transform  *interaction.Transform
	fontSize   float64
}

// WithoutLegend omits the legend panel.
func WithoutLegend() SVGOption { return func(r *svgRenderer) { r.legend = false } }

// WithBackground fills the canvas with a color before drawing.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithTransform overrides the scene's view transform.
func WithTransform(t interaction.Transform) SVGOption {
	return func(r *svgRenderer) { r.transform = &t }
}

// WithFontSize sets the label font size.
func WithFontSize(px float64) SVGOption { return func(r *svgRenderer) { r.fontSize = px } }

// SVG renders the scene as a standalone SVG document. Links are drawn
// beneath nodes; the legend is drawn in screen space on top.
func SVG(s *scene.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{legend: true, fontSize: scene.DefaultLabelFont}
	for _, opt := range opts {
		opt(&r)
	}
	t := s.Transform
	if r.transform != nil {
		t = *r.transform
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.Width, s.Height, s.Width, s.Height)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", EscapeXML(r.background))
	}

	fmt.Fprintf(&buf, `  <g class="view" transform="translate(%.2f,%.2f) scale(%.4f)">`+"\n", t.X, t.Y, t.K)
	renderLinks(&buf, s, r.fontSize)
	renderNodes(&buf, s, r.fontSize)
	buf.WriteString("  </g>\n")

	if r.legend {
		renderLegend(&buf, s.Legend, r.fontSize)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// LegendSVG renders only the legend panel.
func LegendSVG(l scene.Legend) []byte {
	var buf bytes.Buffer
	w, h := l.X*2+l.Width, l.Y*2+l.Height
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	renderLegend(&buf, l, scene.DefaultLabelFont)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderLinks(buf *bytes.Buffer, s *scene.Scene, fontSize float64) {
	buf.WriteString(`    <g class="links">` + "\n")
	for _, l := range s.Links {
		fmt.Fprintf(buf, `      <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-opacity="%.2f" stroke-width="%.1f" data-source="%s" data-target="%s"/>`+"\n",
			l.X1, l.Y1, l.X2, l.Y2, l.Stroke, l.Opacity, l.Width, EscapeXML(l.Source), EscapeXML(l.Target))
	}
	for _, l := range s.Links {
		if l.Label == "" {
			continue
		}
		fmt.Fprintf(buf, `      <text class="link-label" x="%.2f" y="%.2f" text-anchor="middle" font-family="%s" font-size="%.0f" fill="%s">%s</text>`+"\n",
			l.LabelX, l.LabelY, fontFamily, fontSize, l.Stroke, EscapeXML(l.Label))
	}
	buf.WriteString("    </g>\n")
}

func renderNodes(buf *bytes.Buffer, s *scene.Scene, fontSize float64) {
	buf.WriteString(`    <g class="nodes">` + "\n")
	for _, n := range s.Nodes {
		fmt.Fprintf(buf, `      <circle id="node-%s" cx="%.2f" cy="%.2f" r="%.1f" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
			EscapeXML(n.ID), n.CX, n.CY, n.R, n.Fill, n.Stroke)
	}
	for _, n := range s.Nodes {
		if n.Label == "" {
			continue
		}
		fmt.Fprintf(buf, `      <text class="node-label" x="%.2f" y="%.2f" font-family="%s" font-size="%.0f" fill="#333333">%s</text>`+"\n",
			n.LabelX, n.LabelY, fontFamily, fontSize, EscapeXML(n.Label))
	}
	buf.WriteString("    </g>\n")
}

func renderLegend(buf *bytes.Buffer, l scene.Legend, fontSize float64) {
	buf.WriteString(`  <g class="legend">` + "\n")
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" fill-opacity="%.1f" stroke="#cccccc" rx="4"/>`+"\n",
		l.X, l.Y, l.Width, l.Height, l.Fill, l.Opacity)
	mx := l.MarkerX()
	for i, e := range l.Entries {
		y := l.RowY(i)
		switch e.Shape {
		case scene.ShapeCircle:
			fmt.Fprintf(buf, `    <circle cx="%.1f" cy="%.1f" r="5" fill="%s"/>`+"\n", mx, y, e.Color)
		case scene.ShapeLine:
			fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>`+"\n",
				mx-6, y, mx+6, y, e.Color)
		}
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" dominant-baseline="middle" font-family="%s" font-size="%.0f">%s</text>`+"\n",
			l.TextX(), y, fontFamily, fontSize+2, EscapeXML(e.Label))
	}
	buf.WriteString("  </g>\n")
}

// EscapeXML escapes s for use in SVG text and attributes.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
