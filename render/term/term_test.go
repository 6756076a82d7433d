package term

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akmonengine/handswarm/render"
)

func TestResizeKeepsStatusLine(t *testing.T) {
	e := New(80, 25)

	assert.Equal(t, render.Viewport{Width: 80, Height: 48}, e.Viewport())

	e.Resize(0, 0)
	assert.Equal(t, render.Viewport{Width: 1, Height: 2}, e.Viewport())
}

func TestRenderDrawsVisibleNodes(t *testing.T) {
	e := New(40, 21)
	control := e.NewMesh(render.GeometryIcosphere, render.ControlMaterial)
	control.SetPosition(mgl64.Vec3{0, 0, 0})
	parked := e.NewMesh(render.GeometryIcosphere, render.ControlMaterial)
	parked.SetPosition(mgl64.Vec3{0, 0, 10})
	e.SetStatus("ready")

	require.NoError(t, e.Render())

	view := e.View()
	lines := strings.Split(view, "\n")
	assert.Len(t, lines, 21)
	assert.Equal(t, 1, strings.Count(view, "o"), "parked proxy behind the camera was drawn")
	assert.Contains(t, lines[len(lines)-1], "ready")
	assert.Contains(t, lines[len(lines)-1], "q quit")
}

func TestRenderDepthOrder(t *testing.T) {
	e := New(40, 21)
	body := e.NewMesh(render.GeometryTetra, render.SwarmMaterial)
	body.SetScale(0.4)
	body.SetPosition(mgl64.Vec3{0, 0, 0})
	control := e.NewMesh(render.GeometryIcosphere, render.ControlMaterial)
	control.SetPosition(mgl64.Vec3{0, 0, 1})

	require.NoError(t, e.Render())

	assert.Contains(t, e.View(), "o")
	assert.NotContains(t, e.View(), "▲")
}

func TestRenderDebugPoints(t *testing.T) {
	e := New(40, 21)
	e.SetDebugLines([]float32{-1, 0, 0, 1, 0, 0}, nil)

	require.NoError(t, e.Render())

	assert.Equal(t, 2, strings.Count(e.View(), "·"))
}

func TestRenderBackdropOutline(t *testing.T) {
	e := New(40, 21)
	require.NoError(t, e.Render())
	grid := strings.Join(strings.Split(e.View(), "\n")[:20], "\n")
	assert.NotContains(t, grid, "-")

	e.SetBackdrop(4, 3)
	corner := e.NewMesh(render.GeometryIcosphere, render.ControlMaterial)
	corner.SetPosition(mgl64.Vec3{-2, 1.5, 0})

	require.NoError(t, e.Render())

	grid = strings.Join(strings.Split(e.View(), "\n")[:20], "\n")
	assert.Contains(t, grid, "-")
	assert.Contains(t, grid, "|")
	assert.Equal(t, 1, strings.Count(grid, "o"), "outline covered the node on the plane")
}

func TestGlyphFor(t *testing.T) {
	assert.Equal(t, '▲', glyphFor(0.4))
	assert.Equal(t, '^', glyphFor(0.25))
}

func TestModelQuitKeys(t *testing.T) {
	m := &model{engine: New(20, 10), frame: func() error { return nil }}

	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
	} {
		_, cmd := m.Update(key)
		require.NotNil(t, cmd, "key %q", key.String())
		assert.Equal(t, tea.QuitMsg{}, cmd(), "key %q", key.String())
	}
}

func TestModelMouseMovesPointer(t *testing.T) {
	e := New(20, 10)
	m := &model{engine: e}

	_, _, ok := e.Pointer()
	assert.False(t, ok)

	m.Update(tea.MouseMsg{X: 9, Y: 4})
	u, v, ok := e.Pointer()
	assert.True(t, ok)
	assert.InDelta(t, 0.475, u, 1e-12)
	assert.InDelta(t, 0.5, v, 1e-12)

	// the status line is outside the viewport
	m.Update(tea.MouseMsg{X: 9, Y: 9})
	_, _, ok = e.Pointer()
	assert.False(t, ok)
}

func TestModelWindowSize(t *testing.T) {
	e := New(20, 10)
	m := &model{engine: e}

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 31})

	assert.Equal(t, render.Viewport{Width: 100, Height: 60}, e.Viewport())
}

func TestModelTick(t *testing.T) {
	e := New(20, 10)
	e.MaxFrames = 2
	calls := 0
	m := &model{engine: e, frame: func() error { calls++; return nil }}

	_, cmd := m.Update(tickMsg(time.Now()))
	assert.Equal(t, 1, calls)
	require.NotNil(t, cmd)

	_, cmd = m.Update(tickMsg(time.Now()))
	assert.Equal(t, 2, calls)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModelTickError(t *testing.T) {
	boom := errors.New("world corrupt")
	m := &model{engine: New(20, 10), frame: func() error { return boom }}

	_, cmd := m.Update(tickMsg(time.Now()))

	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.ErrorIs(t, m.err, boom)
}
