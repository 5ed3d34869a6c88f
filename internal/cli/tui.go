package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/forcegraph/pkg/eventloop"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/interaction"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/scene"
	"github.com/matzehuels/forcegraph/pkg/visualization"
)

// Terminal cells are mapped to viewport units at this size, so the scene
// keeps roughly the proportions it would have in a window.
const (
	cellWidth  = 8.0
	cellHeight = 16.0

	// headerRows and footerRows frame the canvas.
	headerRows = 1
	footerRows = 2

	// viewSelector names the terminal container.
	viewSelector = "#terminal"

	// mousePointer identifies the mouse among pointer gestures.
	mousePointer interaction.PointerID = 1

	// keyZoomFactor and keyPanStep drive keyboard navigation.
	keyZoomFactor = 1.25
	keyPanStep    = 4 * cellWidth

	// wheelDelta is the pixel delta one wheel notch stands for.
	wheelDelta = 100.0
)

// =============================================================================
// termContainer - the terminal as a visualization.Container
// =============================================================================

// termContainer keeps the latest presented scene and rasterizes it when the
// model is drawn.
type termContainer struct {
	cols, rows int
	handlers   map[int]func()
	nextID     int
	scene      *scene.Scene
	presents   int
}

func newTermContainer(cols, rows int) *termContainer {
	return &termContainer{cols: max(cols, 1), rows: max(rows, 1), handlers: make(map[int]func())}
}

func (c *termContainer) Size() (float64, float64) {
	return float64(c.cols) * cellWidth, float64(c.rows) * cellHeight
}

func (c *termContainer) OnResize(fn func()) func() {
	c.nextID++
	id := c.nextID
	c.handlers[id] = fn
	return func() { delete(c.handlers, id) }
}

func (c *termContainer) Present(s *scene.Scene) {
	c.scene = s
	c.presents++
}

func (c *termContainer) Erase() { c.scene = nil }

// resize changes the grid and notifies the controller.
func (c *termContainer) resize(cols, rows int) {
	cols, rows = max(cols, 1), max(rows, 1)
	if cols == c.cols && rows == c.rows {
		return
	}
	c.cols, c.rows = cols, rows
	for _, fn := range c.handlers {
		fn()
	}
}

// canvas rasterizes the current scene.
func (c *termContainer) canvas() *render.Canvas {
	if c.scene == nil {
		return render.Raster(&scene.Scene{}, c.cols, c.rows)
	}
	return render.Raster(c.scene, c.cols, c.rows)
}

// toScreen maps a grid cell to the viewport point at its center.
func toScreen(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * cellWidth, (float64(row) + 0.5) * cellHeight
}

// termHost resolves the single terminal container.
type termHost struct{ c *termContainer }

func (h termHost) Container(selector string) visualization.Container {
	if selector != viewSelector {
		return nil
	}
	return h.c
}

// =============================================================================
// Key Bindings
// =============================================================================

type viewKeyMap struct {
	Labels        key.Binding
	Relationships key.Binding
	Size          key.Binding
	ZoomIn        key.Binding
	ZoomOut       key.Binding
	Up            key.Binding
	Down          key.Binding
	Left          key.Binding
	Right         key.Binding
	Reset         key.Binding
	Reheat        key.Binding
	Clear         key.Binding
	Help          key.Binding
	Quit          key.Binding
}

var viewKeys = viewKeyMap{
	Labels: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "labels"),
	),
	Relationships: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "relationships"),
	),
	Size: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "node size"),
	),
	ZoomIn: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "zoom in"),
	),
	ZoomOut: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "zoom out"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "pan up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "pan down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "pan left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "pan right"),
	),
	Reset: key.NewBinding(
		key.WithKeys("0"),
		key.WithHelp("0", "reset view"),
	),
	Reheat: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "re-render"),
	),
	Clear: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}

func (k viewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Labels, k.Relationships, k.Size, k.ZoomIn, k.ZoomOut, k.Help, k.Quit}
}

func (k viewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Labels, k.Relationships, k.Size},
		{k.ZoomIn, k.ZoomOut, k.Reset},
		{k.Up, k.Down, k.Left, k.Right},
		{k.Reheat, k.Clear, k.Help, k.Quit},
	}
}

// helpRows is the height of the expanded help: its tallest column.
func helpRows(k viewKeyMap) int {
	rows := 0
	for _, col := range k.FullHelp() {
		rows = max(rows, len(col))
	}
	return rows
}

// =============================================================================
// viewModel - bubbletea model driving the controller
// =============================================================================

// frameMsg advances the event loop by one frame.
type frameMsg time.Time

func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// viewModel owns the controller. bubbletea calls Update on one goroutine,
// which is therefore the goroutine running the event loop.
type viewModel struct {
	ctrl     *visualization.Controller
	loop     *eventloop.Loop
	cont     *termContainer
	interval time.Duration

	title string
	data  *graph.Dataset
	opts  scene.Options

	keys viewKeyMap
	help help.Model

	width, height int
	cleared       bool
	err           error
}

// newViewModel binds a controller to the terminal and renders data once at
// the initial size.
func newViewModel(title string, data *graph.Dataset, opts scene.Options, ctrlOpts ...visualization.Option) (*viewModel, error) {
	m := &viewModel{
		loop:     eventloop.New(),
		cont:     newTermContainer(80, 24-headerRows-footerRows),
		interval: eventloop.DefaultInterval,
		title:    title,
		data:     data,
		opts:     opts.WithDefaults(),
		keys:     viewKeys,
		help:     help.New(),
		width:    80,
		height:   24,
	}
	m.ctrl = visualization.New(termHost{m.cont}, m.loop, ctrlOpts...)
	if err := m.ctrl.Init(viewSelector); err != nil {
		return nil, err
	}
	if err := m.ctrl.Render(data, m.opts); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *viewModel) Init() tea.Cmd {
	return frameCmd(m.interval)
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.fit()

	case frameMsg:
		m.loop.RunFrame()
		return m, frameCmd(m.interval)

	case tea.MouseMsg:
		m.mouse(msg)

	case tea.KeyMsg:
		return m, m.keypress(msg)
	}
	return m, nil
}

// fit sizes the container to the terminal minus the chrome. The controller
// re-renders through its resize listener.
func (m *viewModel) fit() {
	chrome := headerRows + footerRows
	if m.help.ShowAll {
		chrome += helpRows(m.keys)
	}
	m.cont.resize(m.width, m.height-chrome)
}

func (m *viewModel) keypress(msg tea.KeyMsg) tea.Cmd {
	cx, cy := m.cont.Size()
	cx, cy = cx/2, cy/2
	zoom := m.ctrl.Zoom()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Close()
		return tea.Quit
	case key.Matches(msg, m.keys.Labels):
		m.opts.ShowLabels = !m.opts.ShowLabels
		m.rerender()
	case key.Matches(msg, m.keys.Relationships):
		m.opts.ShowRelationships = !m.opts.ShowRelationships
		m.rerender()
	case key.Matches(msg, m.keys.Size):
		m.opts.NodeSize = m.opts.NodeSize.Next()
		m.rerender()
	case key.Matches(msg, m.keys.ZoomIn):
		zoom.ScaleBy(keyZoomFactor, cx, cy)
	case key.Matches(msg, m.keys.ZoomOut):
		zoom.ScaleBy(1/keyZoomFactor, cx, cy)
	case key.Matches(msg, m.keys.Up):
		zoom.PanBy(0, keyPanStep)
	case key.Matches(msg, m.keys.Down):
		zoom.PanBy(0, -keyPanStep)
	case key.Matches(msg, m.keys.Left):
		zoom.PanBy(keyPanStep, 0)
	case key.Matches(msg, m.keys.Right):
		zoom.PanBy(-keyPanStep, 0)
	case key.Matches(msg, m.keys.Reset):
		zoom.Reset()
	case key.Matches(msg, m.keys.Reheat):
		m.rerender()
	case key.Matches(msg, m.keys.Clear):
		if m.cleared {
			m.rerender()
		} else {
			m.ctrl.Clear()
			m.cleared = true
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.fit()
	}
	return nil
}

func (m *viewModel) rerender() {
	m.err = m.ctrl.Render(m.data, m.opts)
	m.cleared = m.err != nil
}

func (m *viewModel) mouse(msg tea.MouseMsg) {
	row := msg.Y - headerRows
	sx, sy := toScreen(msg.X, row)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.ctrl.Wheel(-wheelDelta, sx, sy)
		return
	case tea.MouseButtonWheelDown:
		m.ctrl.Wheel(wheelDelta, sx, sy)
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && row >= 0 && row < m.cont.rows {
			sx, sy = m.pick(msg.X, row, sx, sy)
			m.ctrl.PointerDown(mousePointer, sx, sy)
		}
	case tea.MouseActionMotion:
		m.ctrl.PointerMove(mousePointer, sx, sy)
	case tea.MouseActionRelease:
		m.ctrl.PointerUp(mousePointer)
	}
}

// pick snaps a press onto the node whose glyph covers the cell, since a
// cell centre can sit further from the node than its pick radius.
func (m *viewModel) pick(col, row int, sx, sy float64) (float64, float64) {
	s := m.ctrl.Scene()
	n := render.NodeAt(s, m.cont.cols, m.cont.rows, col, row)
	if n == nil {
		return sx, sy
	}
	return s.Transform.Apply(n.CX, n.CY)
}

func (m *viewModel) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.cont.canvas().String())
	b.WriteString("\n")
	b.WriteString(legendLine(scene.NewLegend()))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(m.help.View(m.keys)))
	return b.String()
}

func (m *viewModel) header() string {
	parts := []string{StyleTitle.Render(appName), StyleDim.Render(m.title)}

	if s := m.ctrl.Scene(); s != nil {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d nodes · %d links", len(s.Nodes), len(s.Links))))
	}
	if sim := m.ctrl.Simulation(); sim != nil {
		state := StyleSuccess.Render(iconSettled)
		if sim.Active() {
			state = StyleNumber.Render(fmt.Sprintf("α %.3f", sim.Alpha()))
		}
		parts = append(parts, state)
	}
	parts = append(parts, StyleHighlight.Render(fmt.Sprintf("%.2f×", m.ctrl.Transform().K)))
	if n := len(m.ctrl.Dropped()); n > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d dropped", n)))
	}
	if m.err != nil {
		parts = append(parts, styleIconError.Render(iconError+" "+m.err.Error()))
	}
	return strings.Join(parts, "  ")
}

// legendLine renders the legend entries on one line.
func legendLine(l scene.Legend) string {
	var parts []string
	for _, e := range l.Entries {
		marker := "●"
		if e.Shape == scene.ShapeLine {
			marker = "─"
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color))
		parts = append(parts, style.Render(marker)+" "+StyleDim.Render(e.Label))
	}
	return strings.Join(parts, "   ")
}
