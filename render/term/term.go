// Package term renders the scene as characters in a terminal. Bodies are
// projected with the scene camera onto a grid of cells, two rows of pixels
// per cell, and the mouse drives the pointer.
package term

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/handswarm/render"
)

var (
	swarmStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	controlStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	debugStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// backdropSamples is the number of steps along each backdrop edge
const backdropSamples = 64

type cell struct {
	glyph rune
	style *lipgloss.Style
	depth float64
}

// Engine is a bubbletea program around a scene
type Engine struct {
	*render.Scene

	FPS       int
	MaxFrames int
	// Input and Output replace the terminal when set
	Input  io.Reader
	Output io.Writer

	cols, rows int
	frames     int
	view       string
	status     string
	debug      []float32

	pointerU, pointerV float64
	pointerOK          bool
}

// New creates an engine for a cols x rows terminal, resized as soon as the
// program receives the real size.
func New(cols, rows int) *Engine {
	e := &Engine{Scene: render.NewScene(1, 1), FPS: 60}
	e.Resize(cols, rows)

	return e
}

// Resize takes a size in cells
func (e *Engine) Resize(cols, rows int) {
	// one line is kept for the status
	rows = max(rows-1, 1)
	e.cols, e.rows = max(cols, 1), rows
	e.Scene.Resize(e.cols, e.rows*2)
}

func (e *Engine) Pointer() (u, v float64, ok bool) {
	return e.pointerU, e.pointerV, e.pointerOK
}

func (e *Engine) SetDebugLines(vertices, _ []float32) {
	e.debug = vertices
}

func (e *Engine) SetStatus(status string) {
	e.status = status
}

// View returns the last rendered frame
func (e *Engine) View() string {
	return e.view
}

func (e *Engine) Run(ctx context.Context, frame render.FrameFunc) error {
	m := &model{engine: e, frame: frame}
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithMouseAllMotion()}
	if e.Input != nil {
		opts = append(opts, tea.WithInput(e.Input))
	} else {
		opts = append(opts, tea.WithAltScreen())
	}
	if e.Output != nil {
		opts = append(opts, tea.WithOutput(e.Output))
	}

	_, err := tea.NewProgram(m, opts...).Run()
	if m.err != nil {
		return m.err
	}
	if ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}

	return err
}

// Render rasterizes the scene into the view
func (e *Engine) Render() error {
	grid := make([][]cell, e.rows)
	for i := range grid {
		grid[i] = make([]cell, e.cols)
		for j := range grid[i] {
			grid[i][j] = cell{glyph: ' ', depth: math.Inf(1)}
		}
	}

	plot := func(x, y, depth float64, glyph rune, style *lipgloss.Style) {
		col, row := int(x), int(y/2)
		if col < 0 || col >= e.cols || row < 0 || row >= e.rows {
			return
		}
		if depth < grid[row][col].depth {
			grid[row][col] = cell{glyph: glyph, style: style, depth: depth}
		}
	}

	for _, node := range e.Nodes {
		x, y, depth, ok := e.Project(node.Position)
		if !ok {
			continue
		}
		switch node.Geometry {
		case render.GeometryIcosphere:
			plot(x, y, depth, 'o', &controlStyle)
		default:
			plot(x, y, depth, glyphFor(node.Scale), &swarmStyle)
		}
	}

	if corners, ok := e.Backdrop(); ok {
		for i, from := range corners {
			to := corners[(i+1)%len(corners)]
			glyph := '-'
			if i%2 == 1 {
				glyph = '|'
			}
			for k := range backdropSamples + 1 {
				p := from.Add(to.Sub(from).Mul(float64(k) / backdropSamples))
				if x, y, depth, ok := e.Project(p); ok {
					// nodes on the plane stay in front
					plot(x, y, depth+1e-6, glyph, &helpStyle)
				}
			}
		}
	}

	for i := 0; i+2 < len(e.debug); i += 3 {
		x, y, depth, ok := e.Project(vec3(e.debug[i : i+3]))
		if ok {
			plot(x, y, depth-1e-6, '·', &debugStyle)
		}
	}

	var b strings.Builder
	for _, line := range grid {
		for _, c := range line {
			if c.style == nil {
				b.WriteRune(c.glyph)
				continue
			}
			b.WriteString(c.style.Render(string(c.glyph)))
		}
		b.WriteByte('\n')
	}
	b.WriteString(statusStyle.Render(e.status))
	b.WriteString(helpStyle.Render("  q quit"))
	e.view = b.String()

	return nil
}

func vec3(v []float32) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

func glyphFor(scale float64) rune {
	if scale >= 0.3 {
		return '▲'
	}
	return '^'
}

type tickMsg time.Time

type model struct {
	engine *Engine
	frame  render.FrameFunc
	err    error
}

func (m *model) tick() tea.Cmd {
	interval := time.Second / 60
	if m.engine.FPS > 0 {
		interval = time.Second / time.Duration(m.engine.FPS)
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *model) Init() tea.Cmd {
	return m.tick()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	e := m.engine
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		e.Resize(msg.Width, msg.Height)
	case tea.MouseMsg:
		e.pointerU = (float64(msg.X) + 0.5) / float64(e.cols)
		e.pointerV = (float64(msg.Y) + 0.5) / float64(e.rows)
		e.pointerOK = msg.Y < e.rows
	case tickMsg:
		e.frames++
		if err := m.frame(); err != nil {
			m.err = err
			return m, tea.Quit
		}
		if e.MaxFrames > 0 && e.frames >= e.MaxFrames {
			return m, tea.Quit
		}
		return m, m.tick()
	}

	return m, nil
}

func (m *model) View() string {
	return m.engine.view
}
