// Package raylib draws the scene in a raylib window
package raylib

import (
	"context"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/handswarm/render"
)

var (
	colBg      = rl.NewColor(10, 10, 10, 255)
	colText    = rl.NewColor(140, 140, 140, 255)
	colTextDim = rl.NewColor(60, 60, 60, 255)
)

// tetra is a regular tetrahedron inscribed in the unit sphere
var tetra = [4]mgl64.Vec3{
	{0, 1, 0},
	{0.9428, -0.3333, 0},
	{-0.4714, -0.3333, 0.8165},
	{-0.4714, -0.3333, -0.8165},
}

var tetraEdges = [6][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {2, 3}, {3, 1}}

// Engine owns a raylib window. Run must be called from the main goroutine.
type Engine struct {
	*render.Scene

	Title     string
	FPS       int
	MaxFrames int

	status       string
	debug        []float32
	debugColors  []float32
	windowOpened bool
}

func New(width, height int) *Engine {
	return &Engine{
		Scene: render.NewScene(width, height),
		Title: "handswarm",
		FPS:   60,
	}
}

func (e *Engine) Run(ctx context.Context, frame render.FrameFunc) error {
	viewport := e.Viewport()
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(viewport.Width), int32(viewport.Height), e.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(e.FPS))
	e.windowOpened = true
	defer func() { e.windowOpened = false }()

	for frames := 0; !rl.WindowShouldClose(); frames++ {
		if ctx.Err() != nil || (e.MaxFrames > 0 && frames >= e.MaxFrames) {
			return nil
		}
		if rl.IsWindowResized() {
			e.Resize(rl.GetScreenWidth(), rl.GetScreenHeight())
		}
		if err := frame(); err != nil {
			return err
		}
	}

	return nil
}

// Pointer is the mouse position over the window
func (e *Engine) Pointer() (u, v float64, ok bool) {
	if !e.windowOpened || !rl.IsCursorOnScreen() {
		return 0, 0, false
	}
	viewport := e.Viewport()
	mouse := rl.GetMousePosition()

	return float64(mouse.X) / float64(viewport.Width), float64(mouse.Y) / float64(viewport.Height), true
}

func (e *Engine) SetDebugLines(vertices, colors []float32) {
	e.debug, e.debugColors = vertices, colors
}

func (e *Engine) SetStatus(status string) {
	e.status = status
}

func (e *Engine) Render() error {
	rl.BeginDrawing()
	rl.ClearBackground(colBg)

	rl.BeginMode3D(e.camera())
	for _, node := range e.Nodes {
		switch node.Geometry {
		case render.GeometryIcosphere:
			rl.DrawSphere(vector3(node.Position), float32(node.Scale), color(node.Material))
		default:
			drawTetra(node)
		}
	}
	if corners, ok := e.Backdrop(); ok {
		for i := range corners {
			rl.DrawLine3D(vector3(corners[i]), vector3(corners[(i+1)%len(corners)]), colTextDim)
		}
	}
	for i := 0; i+5 < len(e.debug) && i+5 < len(e.debugColors); i += 6 {
		c := rl.NewColor(uint8(e.debugColors[i]*255), uint8(e.debugColors[i+1]*255), uint8(e.debugColors[i+2]*255), 255)
		rl.DrawLine3D(
			rl.NewVector3(e.debug[i], e.debug[i+1], e.debug[i+2]),
			rl.NewVector3(e.debug[i+3], e.debug[i+4], e.debug[i+5]),
			c)
	}
	rl.EndMode3D()

	rl.DrawText(e.status, 10, int32(e.Viewport().Height)-24, 16, colText)
	rl.DrawText("esc quit", 10, 10, 16, colTextDim)
	rl.DrawFPS(int32(e.Viewport().Width)-90, 10)

	rl.EndDrawing()

	return nil
}

func (e *Engine) camera() rl.Camera3D {
	return rl.NewCamera3D(
		vector3(e.Camera.Position),
		vector3(e.Camera.Target),
		vector3(e.Camera.Up),
		float32(e.Camera.Fovy),
		rl.CameraPerspective,
	)
}

func drawTetra(node *render.Node) {
	var corners [4]rl.Vector3
	for i, v := range tetra {
		corners[i] = vector3(node.Rotation.Rotate(v.Mul(node.Scale)).Add(node.Position))
	}

	fill := rl.NewColor(0, 0, 0, uint8(math.Round(node.Material.Opacity*255)))
	rl.DrawTriangle3D(corners[0], corners[1], corners[2], fill)
	rl.DrawTriangle3D(corners[0], corners[2], corners[3], fill)
	rl.DrawTriangle3D(corners[0], corners[3], corners[1], fill)
	rl.DrawTriangle3D(corners[1], corners[3], corners[2], fill)

	if node.Material.Wireframe {
		wire := color(node.Material)
		for _, edge := range tetraEdges {
			rl.DrawLine3D(corners[edge[0]], corners[edge[1]], wire)
		}
	}
}

func vector3(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}

func color(material render.Material) rl.Color {
	return rl.NewColor(material.Color.R, material.Color.G, material.Color.B, material.Color.A)
}
