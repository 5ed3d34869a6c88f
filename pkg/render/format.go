package render

import (
	"context"
	"slices"
	"strings"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/scene"
)

// Format is an output format.
type Format string

// Supported output formats.
const (
	FormatSVG  Format = "svg"
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
	FormatPNG  Format = "png"
	FormatJPG  Format = "jpg"
	FormatPDF  Format = "pdf"
)

// Formats lists every supported format.
var Formats = []Format{FormatSVG, FormatJSON, FormatDOT, FormatPNG, FormatJPG, FormatPDF}

// ParseFormats parses a comma separated format list. Duplicates are
// removed and order is kept.
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	for _, part := range strings.Split(s, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		if f == "" {
			continue
		}
		if f == "jpeg" {
			f = FormatJPG
		}
		if !slices.Contains(Formats, f) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", part)
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no output format given")
	}
	return out, nil
}

// Encode renders s in format f. layout is only used for JSON.
func Encode(ctx context.Context, s *scene.Scene, layout graph.Layout, f Format) ([]byte, error) {
	switch f {
	case FormatSVG:
		return SVG(s), nil
	case FormatJSON:
		return JSON(layout)
	case FormatDOT:
		return []byte(DOT(s)), nil
	case FormatPNG, FormatJPG:
		return Graphviz(ctx, s, f)
	case FormatPDF:
		return ToPDF(ctx, SVG(s))
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
}
