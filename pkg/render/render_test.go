package render

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/interaction"
	"github.com/matzehuels/forcegraph/pkg/scene"
)

func testScene(t *testing.T, opts scene.Options) *scene.Scene {
	t.Helper()
	ds := &graph.Dataset{
		Nodes: []graph.Node{
			{ID: "m1", Labels: []string{"Movie"}, Properties: map[string]any{"title": "Matrix & Co"}},
			{ID: "p_1", Labels: []string{"Person"}},
		},
		Links: []graph.Link{{Source: "m1", Target: "p_1", Type: "Rating"}},
	}
	b, err := graph.Bind(ds)
	if err != nil {
		t.Fatal(err)
	}
	nodes, links := scene.Bodies(b)
	nodes[0].X, nodes[0].Y = 100, 100
	nodes[1].X, nodes[1].Y = 300, 200
	s, err := scene.Build(b, nodes, links, opts, 400, 300)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSVG(t *testing.T) {
	s := testScene(t, scene.Options{ShowLabels: true, ShowRelationships: true, NodeSize: scene.SizeMedium})
	svg := string(SVG(s))

	for _, want := range []string{
		`viewBox="0 0 400.0 300.0"`,
		`<circle id="node-m1" cx="100.00" cy="100.00" r="8.0" fill="#ff7f0e"`,
		`fill="#1f77b4"`,
		`stroke="#999999" stroke-opacity="0.60"`,
		`>Matrix &amp; Co</text>`,
		`>p 1</text>`,
		`>Rating</text>`,
		`class="legend"`,
		`>Tags</text>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Index(svg, "<line x1") > strings.Index(svg, "<circle id=") {
		t.Error("links must be drawn beneath nodes")
	}
}

func TestSVGOptions(t *testing.T) {
	s := testScene(t, scene.DefaultOptions())
	svg := string(SVG(s, WithoutLegend(), WithBackground("#000000"),
		WithTransform(interaction.Transform{X: 10, Y: 20, K: 2})))

	if strings.Contains(svg, `class="legend"`) {
		t.Error("legend rendered despite WithoutLegend")
	}
	if !strings.Contains(svg, `fill="#000000"`) {
		t.Error("background missing")
	}
	if !strings.Contains(svg, `translate(10.00,20.00) scale(2.0000)`) {
		t.Error("transform not applied")
	}
	if strings.Contains(svg, `class="node-label"`) {
		t.Error("labels rendered while hidden")
	}
}

func TestLegendSVG(t *testing.T) {
	svg := string(LegendSVG(scene.NewLegend()))
	if got := strings.Count(svg, "<text"); got != 4 {
		t.Errorf("legend has %d labels, want 4", got)
	}
}

func TestSnapshot(t *testing.T) {
	s := testScene(t, scene.Options{ShowLabels: true})
	s.Nodes[1].Node.Pin(300, 200)

	l := Snapshot(s, 0.01, 42)
	if l.Steps != 42 || l.Alpha != 0.01 {
		t.Errorf("meta = %v / %d", l.Alpha, l.Steps)
	}
	if len(l.Nodes) != 2 || len(l.Links) != 1 {
		t.Fatalf("got %d nodes, %d links", len(l.Nodes), len(l.Links))
	}
	if n := l.Nodes[0]; n.X != 100 || n.Y != 100 || n.Label != "Matrix & Co" || n.Category != graph.CategoryMovie {
		t.Errorf("node 0 = %+v", n)
	}
	if !l.Nodes[1].Pinned {
		t.Error("pinned flag lost")
	}

	data, err := JSON(l)
	if err != nil {
		t.Fatal(err)
	}
	back, err := graph.UnmarshalLayout(data)
	if err != nil {
		t.Fatal(err)
	}
	if back.Links[0].X2 != 300 || back.Links[0].Relation != graph.RelationRating {
		t.Errorf("link = %+v", back.Links[0])
	}
}

func TestDOT(t *testing.T) {
	s := testScene(t, scene.Options{ShowLabels: true, ShowRelationships: true})
	dot := DOT(s)
	for _, want := range []string{
		"layout=neato",
		`"m1" [pos="100.00,-100.00!"`,
		`xlabel="Matrix & Co"`,
		`"m1" -> "p_1" [color="#99999999", label="Rating"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
}

func TestGraphvizRejectsFormat(t *testing.T) {
	s := testScene(t, scene.DefaultOptions())
	if _, err := Graphviz(context.Background(), s, FormatJSON); err == nil {
		t.Fatal("expected error for json")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    []Format
		wantErr bool
	}{
		{"svg", []Format{FormatSVG}, false},
		{"svg, json,svg", []Format{FormatSVG, FormatJSON}, false},
		{"JPEG,dot", []Format{FormatJPG, FormatDOT}, false},
		{"", nil, true},
		{"gif", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseFormats(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormats(%q) err = %v", tt.in, err)
			continue
		}
		if strings.Join(toStrings(got), ",") != strings.Join(toStrings(tt.want), ",") {
			t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEncodeText(t *testing.T) {
	s := testScene(t, scene.DefaultOptions())
	ctx := context.Background()
	for _, f := range []Format{FormatSVG, FormatDOT, FormatJSON} {
		data, err := Encode(ctx, s, Snapshot(s, 0, 0), f)
		if err != nil || len(data) == 0 {
			t.Errorf("Encode(%s) = %d bytes, %v", f, len(data), err)
		}
	}
	if _, err := Encode(ctx, s, Snapshot(s, 0, 0), "gif"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRaster(t *testing.T) {
	s := testScene(t, scene.DefaultOptions())
	c := Raster(s, 40, 30)

	if got := c.At(10, 10).Rune; got != glyphMovie {
		t.Errorf("movie cell = %q", got)
	}
	if got := c.At(30, 20).Rune; got != glyphNode {
		t.Errorf("person cell = %q", got)
	}
	if got := c.At(20, 15); got.Rune != glyphLink || got.Color != scene.ColorRating {
		t.Errorf("midpoint cell = %+v", got)
	}
	lines := strings.Split(c.Plain(), "\n")
	if len(lines) != 30 {
		t.Errorf("got %d rows", len(lines))
	}
	if c.String() == "" {
		t.Error("empty colored output")
	}
}

func TestRasterClipsOffscreenLinks(t *testing.T) {
	s := testScene(t, scene.DefaultOptions())
	s.Links[0].X1, s.Links[0].Y1 = -1e12, -1e12
	c := Raster(s, 20, 10)
	if !strings.ContainsRune(c.Plain(), glyphLink) {
		t.Error("clipped link should still enter the grid")
	}
}

func TestRasterLabels(t *testing.T) {
	labeled := scene.Options{ShowLabels: true, ShowRelationships: true, NodeSize: scene.SizeSmall}

	tests := []struct {
		name string
		opts scene.Options
		want bool
	}{
		{"labels on", labeled, true},
		{"labels off", scene.DefaultOptions(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := strings.Split(Raster(testScene(t, tt.opts), 40, 30).Plain(), "\n")
			checks := []struct {
				row  int
				text string
			}{
				{10, "Matrix & Co"},
				{20, "p 1"},
				{14, "Rating"},
			}
			for _, c := range checks {
				if got := strings.Contains(rows[c.row], c.text); got != tt.want {
					t.Errorf("row %d contains %q = %v, want %v: %q", c.row, c.text, got, tt.want, rows[c.row])
				}
			}
		})
	}
}

func TestRasterLabelClearsNode(t *testing.T) {
	s := testScene(t, scene.Options{ShowLabels: true, NodeSize: scene.SizeLarge})
	c := Raster(s, 40, 30)
	if got := c.At(10, 10).Rune; got != glyphMovie {
		t.Errorf("label overwrote the movie glyph: %q", got)
	}
	if got := c.At(30, 20).Rune; got != glyphNode {
		t.Errorf("label overwrote the person glyph: %q", got)
	}
}

func TestRasterNodeSize(t *testing.T) {
	count := func(size scene.NodeSize) int {
		s := testScene(t, scene.Options{NodeSize: size})
		return strings.Count(Raster(s, 40, 30).Plain(), string(glyphMovie))
	}
	small, large := count(scene.SizeSmall), count(scene.SizeLarge)
	if small < 1 {
		t.Fatalf("small movie covers %d cells", small)
	}
	if large <= small {
		t.Errorf("large movie covers %d cells, small covers %d", large, small)
	}

	s := testScene(t, scene.Options{NodeSize: scene.SizeSmall})
	s.Transform = interaction.Transform{X: -300, Y: -300, K: 4}
	zoomed := strings.Count(Raster(s, 40, 30).Plain(), string(glyphMovie))
	if zoomed <= small {
		t.Errorf("zoomed movie covers %d cells, unzoomed %d", zoomed, small)
	}
}

func TestToPDFWithoutLibrsvg(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	s := testScene(t, scene.DefaultOptions())

	_, err := Encode(context.Background(), s, Snapshot(s, 0, 0), FormatPDF)
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Encode(pdf) error = %v, want UNSUPPORTED", err)
	}
}

func TestToPDF(t *testing.T) {
	if _, err := exec.LookPath(rsvgBinary); err != nil {
		t.Skip("rsvg-convert not installed")
	}
	s := testScene(t, scene.DefaultOptions())

	pdf, err := ToPDF(context.Background(), SVG(s))
	if err != nil {
		t.Fatalf("ToPDF() error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("ToPDF() output starts with %q", pdf[:min(len(pdf), 8)])
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ToPDF(ctx, SVG(s)); err == nil {
		t.Error("ToPDF() with a cancelled context succeeded")
	}
}

func toStrings(fs []Format) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = string(f)
	}
	return out
}
