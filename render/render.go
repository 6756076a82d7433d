// Package render holds the rendering-engine side of the simulation: meshes
// with a transform, a camera, a viewport and an engine that calls the frame
// function once per refresh.
package render

import (
	"context"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

type Geometry int

const (
	// GeometryTetra is the wireframe tetrahedron of the swarm bodies
	GeometryTetra Geometry = iota
	// GeometryIcosphere is the smooth ball of the control points
	GeometryIcosphere
)

func (g Geometry) String() string {
	switch g {
	case GeometryTetra:
		return "tetra"
	case GeometryIcosphere:
		return "icosphere"
	}

	return "unknown"
}

type Material struct {
	Color     color.RGBA
	Opacity   float64
	Wireframe bool
}

var (
	// SwarmMaterial is translucent black with a white wireframe overlay
	SwarmMaterial = Material{Color: color.RGBA{R: 255, G: 255, B: 255, A: 255}, Opacity: 0.8, Wireframe: true}
	// ControlMaterial is plain white
	ControlMaterial = Material{Color: color.RGBA{R: 255, G: 255, B: 255, A: 255}, Opacity: 1}
)

// Mesh is a visual handle. Engines own the meshes they create.
type Mesh interface {
	SetPosition(position mgl64.Vec3)
	SetRotation(rotation mgl64.Quat)
	SetScale(scale float64)
}

// FrameFunc is called once per display refresh. A non-nil error stops the
// engine and is returned by Run.
type FrameFunc func() error

// Engine is a rendering engine
type Engine interface {
	NewMesh(geometry Geometry, material Material) Mesh
	// Run calls frame once per refresh until ctx is done, the window is
	// closed or frame fails.
	Run(ctx context.Context, frame FrameFunc) error
	Viewport() Viewport
	// Resize resizes the output surface and updates the camera projection
	Resize(width, height int)
	// Render submits the scene
	Render() error
}

// PointerSource is implemented by engines with a pointing device.
// u and v are normalized over the viewport, (0,0) top-left.
type PointerSource interface {
	Pointer() (u, v float64, ok bool)
}

// Unprojector maps normalized viewport coordinates back into the world, on
// the plane z = depth. Every engine embedding a Scene implements it.
type Unprojector interface {
	Unproject(u, v, depth float64) (mgl64.Vec3, bool)
}

// BackdropSetter is implemented by engines outlining the video backdrop
type BackdropSetter interface {
	SetBackdrop(width, height float64)
}

// DebugDrawer is implemented by engines able to draw the physics debug view
type DebugDrawer interface {
	SetDebugLines(vertices, colors []float32)
}

// StatusSetter is implemented by engines with an overlay line
type StatusSetter interface {
	SetStatus(status string)
}
