package render

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/forcegraph/pkg/scene"
)

// Glyphs used by the terminal raster.
const (
	glyphEmpty = ' '
	glyphLink  = '·'
	glyphNode  = '●'
	glyphMovie = '◉'
)

// Cell is one character of a raster.
type Cell struct {
	Rune  rune
	Color string
}

// Canvas is a character grid of a scene in screen space.
type Canvas struct {
	Cols, Rows int
	cells      []Cell
}

// Raster draws the scene into a cols×rows grid, mapping the scene's
// viewport onto the grid after the view transform. Draw order is links,
// relationship labels, node footprints, then node labels. A node label sits
// on the node's row, right of its footprint.
func Raster(s *scene.Scene, cols, rows int) *Canvas {
	c := &Canvas{Cols: max(cols, 1), Rows: max(rows, 1)}
	c.cells = make([]Cell, c.Cols*c.Rows)
	for i := range c.cells {
		c.cells[i].Rune = glyphEmpty
	}
	if s.Width <= 0 || s.Height <= 0 {
		return c
	}

	sx := float64(c.Cols) / s.Width
	sy := float64(c.Rows) / s.Height
	toCell := func(x, y float64) (float64, float64) {
		px, py := s.Transform.Apply(x, y)
		return px * sx, py * sy
	}

	for _, l := range s.Links {
		x0, y0 := toCell(l.X1, l.Y1)
		x1, y1 := toCell(l.X2, l.Y2)
		if x0, y0, x1, y1, ok := c.clip(x0, y0, x1, y1); ok {
			c.line(floor(x0), floor(y0), floor(x1), floor(y1), Cell{Rune: glyphLink, Color: l.Stroke})
		}
	}
	for _, l := range s.Links {
		if l.Label == "" {
			continue
		}
		fx, fy := toCell(l.LabelX, l.LabelY)
		n := utf8.RuneCountInString(l.Label)
		c.text(floor(fx)-n/2, floor(fy), l.Label, l.Stroke)
	}

	type placed struct {
		x, y, right int
		label       string
	}
	labels := make([]placed, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		f := footprintOf(s, n, sx, sy)
		g := glyphNode
		if n.Fill == scene.ColorMovie {
			g = glyphMovie
		}
		right := c.disc(f, Cell{Rune: g, Color: n.Fill})
		if n.Label != "" {
			lx, _ := toCell(n.LabelX, n.CY)
			labels = append(labels, placed{x: floor(lx), y: f.y, right: right, label: n.Label})
		}
	}
	for _, p := range labels {
		c.text(max(p.x, p.right+1), p.y, p.label, "")
	}
	return c
}

// footprint is the cell ellipse a node covers. rx and ry already include
// the half cell that keeps the centre cell inside.
type footprint struct {
	x, y   int
	rx, ry float64
}

func footprintOf(s *scene.Scene, n *scene.NodeElement, sx, sy float64) footprint {
	k := s.Transform.K
	if k <= 0 {
		k = 1
	}
	px, py := s.Transform.Apply(n.CX, n.CY)
	return footprint{
		x:  floor(px * sx),
		y:  floor(py * sy),
		rx: n.R*k*sx + 0.5,
		ry: n.R*k*sy + 0.5,
	}
}

func (f footprint) covers(x, y int) bool {
	nx, ny := float64(x-f.x)/f.rx, float64(y-f.y)/f.ry
	return nx*nx+ny*ny <= 1
}

// disc fills the footprint and returns its rightmost column.
func (c *Canvas) disc(f footprint, cell Cell) int {
	right := f.x
	for y := f.y - int(f.ry); y <= f.y+int(f.ry); y++ {
		for x := f.x - int(f.rx); x <= f.x+int(f.rx); x++ {
			if !f.covers(x, y) {
				continue
			}
			c.Set(x, y, cell)
			right = max(right, x)
		}
	}
	return right
}

// NodeAt returns the topmost node whose glyph covers cell (col, row) when s
// is rastered into a cols×rows grid, or nil.
func NodeAt(s *scene.Scene, cols, rows, col, row int) *scene.NodeElement {
	if s == nil || s.Width <= 0 || s.Height <= 0 {
		return nil
	}
	sx := float64(max(cols, 1)) / s.Width
	sy := float64(max(rows, 1)) / s.Height
	for i := len(s.Nodes) - 1; i >= 0; i-- {
		if footprintOf(s, s.Nodes[i], sx, sy).covers(col, row) {
			return s.Nodes[i]
		}
	}
	return nil
}

// text writes s left to right starting at (x, y). An empty color keeps the
// terminal's default foreground.
func (c *Canvas) text(x, y int, s, color string) {
	for _, r := range s {
		c.Set(x, y, Cell{Rune: r, Color: color})
		x++
	}
}

// At returns the cell at (x, y). Out of range cells are empty.
func (c *Canvas) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= c.Cols || y >= c.Rows {
		return Cell{Rune: glyphEmpty}
	}
	return c.cells[y*c.Cols+x]
}

// Set writes a cell, ignoring out of range coordinates.
func (c *Canvas) Set(x, y int, cell Cell) {
	if x < 0 || y < 0 || x >= c.Cols || y >= c.Rows {
		return
	}
	c.cells[y*c.Cols+x] = cell
}

// clip restricts a segment to the grid (Liang–Barsky). ok is false when
// the segment misses the grid entirely.
func (c *Canvas) clip(x0, y0, x1, y1 float64) (float64, float64, float64, float64, bool) {
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x0},
		{dx, float64(c.Cols) - 1e-9 - x0},
		{-dy, y0},
		{dy, float64(c.Rows) - 1e-9 - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			t0 = max(t0, r)
		} else {
			t1 = min(t1, r)
		}
		if t0 > t1 {
			return 0, 0, 0, 0, false
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

// line draws a Bresenham line between two cells.
func (c *Canvas) line(x0, y0, x1, y1 int, cell Cell) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	stepX, stepY := 1, 1
	if x0 > x1 {
		stepX = -1
	}
	if y0 > y1 {
		stepY = -1
	}
	e := dx + dy
	for {
		c.Set(x0, y0, cell)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += stepX
		}
		if e2 <= dx {
			e += dx
			y0 += stepY
		}
	}
}

func floor(v float64) int { return int(math.Floor(v)) }

// Plain returns the grid without colors.
func (c *Canvas) Plain() string {
	var b strings.Builder
	for y := range c.Rows {
		for x := range c.Cols {
			b.WriteRune(c.cells[y*c.Cols+x].Rune)
		}
		if y < c.Rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// String renders the grid with lipgloss colors.
func (c *Canvas) String() string {
	styles := map[string]lipgloss.Style{}
	var b strings.Builder
	for y := range c.Rows {
		for x := range c.Cols {
			cell := c.cells[y*c.Cols+x]
			if cell.Color == "" {
				b.WriteRune(cell.Rune)
				continue
			}
			st, ok := styles[cell.Color]
			if !ok {
				st = lipgloss.NewStyle().Foreground(lipgloss.Color(cell.Color))
				styles[cell.Color] = st
			}
			b.WriteString(st.Render(string(cell.Rune)))
		}
		if y < c.Rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
