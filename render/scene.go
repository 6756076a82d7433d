package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Viewport is the output surface size in the engine's units (pixels, cells)
type Viewport struct {
	Width  int
	Height int
}

// Aspect returns width / height, 1 for a degenerate viewport
func (v Viewport) Aspect() float64 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}

	return float64(v.Width) / float64(v.Height)
}

// Node is the mesh implementation shared by the engines
type Node struct {
	Geometry Geometry
	Material Material
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    float64
}

func (n *Node) SetPosition(position mgl64.Vec3) { n.Position = position }
func (n *Node) SetRotation(rotation mgl64.Quat) { n.Rotation = rotation }
func (n *Node) SetScale(scale float64)          { n.Scale = scale }

// Camera is a perspective camera looking at Target
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3
	// Fovy is the vertical field of view in degrees
	Fovy   float64
	Aspect float64
	Near   float64
	Far    float64

	projection mgl64.Mat4
}

// DefaultCamera sits on +Z, 5 units away from the origin, 75° fov
func DefaultCamera(aspect float64) Camera {
	c := Camera{
		Position: mgl64.Vec3{0, 0, 5},
		Up:       mgl64.Vec3{0, 1, 0},
		Fovy:     75,
		Aspect:   aspect,
		Near:     1,
		Far:      1000,
	}
	c.UpdateProjection()

	return c
}

// UpdateProjection recomputes the projection after a Fovy or Aspect change
func (c *Camera) UpdateProjection() {
	c.projection = mgl64.Perspective(mgl64.DegToRad(c.Fovy), c.Aspect, c.Near, c.Far)
}

func (c *Camera) Projection() mgl64.Mat4 {
	return c.projection
}

func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target, c.Up)
}

// Scene is the set of meshes of an engine, with its camera and viewport.
// Engines embed it.
type Scene struct {
	Nodes  []*Node
	Camera Camera

	viewport Viewport
	backdrop mgl64.Vec2
}

func NewScene(width, height int) *Scene {
	s := &Scene{viewport: Viewport{Width: width, Height: height}}
	s.Camera = DefaultCamera(s.viewport.Aspect())

	return s
}

func (s *Scene) NewMesh(geometry Geometry, material Material) Mesh {
	node := &Node{
		Geometry: geometry,
		Material: material,
		Rotation: mgl64.QuatIdent(),
		Scale:    1,
	}
	s.Nodes = append(s.Nodes, node)

	return node
}

func (s *Scene) Viewport() Viewport {
	return s.viewport
}

func (s *Scene) Resize(width, height int) {
	s.viewport = Viewport{Width: width, Height: height}
	s.Camera.Aspect = s.viewport.Aspect()
	s.Camera.UpdateProjection()
}

// SetBackdrop sets the size of the video backdrop, centered on the origin
// in the plane z = 0.
func (s *Scene) SetBackdrop(width, height float64) {
	s.backdrop = mgl64.Vec2{width, height}
}

// Backdrop returns the corners of the backdrop, top-left first and going
// clockwise as seen from the camera. ok is false until a size is set.
func (s *Scene) Backdrop() (corners [4]mgl64.Vec3, ok bool) {
	w, h := s.backdrop.X()/2, s.backdrop.Y()/2
	if w <= 0 || h <= 0 {
		return corners, false
	}

	return [4]mgl64.Vec3{{-w, h, 0}, {w, h, 0}, {w, -h, 0}, {-w, -h, 0}}, true
}

// Project maps a world position to viewport coordinates. ok is false for
// points behind the camera or outside the clip volume.
func (s *Scene) Project(position mgl64.Vec3) (x, y, depth float64, ok bool) {
	clip := s.Camera.Projection().Mul4(s.Camera.View()).Mul4x1(position.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, 0, false
	}

	ndc := clip.Vec3().Mul(1 / clip.W())
	if math.Abs(ndc.X()) > 1 || math.Abs(ndc.Y()) > 1 || math.Abs(ndc.Z()) > 1 {
		return 0, 0, 0, false
	}

	x = (ndc.X() + 1) / 2 * float64(s.viewport.Width)
	y = (1 - ndc.Y()) / 2 * float64(s.viewport.Height)

	return x, y, ndc.Z(), true
}

// Unproject casts normalized viewport coordinates, (0,0) top-left, through
// the camera onto the plane z = depth. ok is false when the ray misses the
// plane in front of the camera.
func (s *Scene) Unproject(u, v, depth float64) (mgl64.Vec3, bool) {
	c := s.Camera
	forward := c.Target.Sub(c.Position).Normalize()
	right := forward.Cross(c.Up).Normalize()
	up := right.Cross(forward)

	tanY := math.Tan(mgl64.DegToRad(c.Fovy) / 2)
	tanX := tanY * c.Aspect
	dir := forward.
		Add(right.Mul((2*u - 1) * tanX)).
		Add(up.Mul((1 - 2*v) * tanY))

	if math.Abs(dir.Z()) < 1e-12 {
		return mgl64.Vec3{}, false
	}
	t := (depth - c.Position.Z()) / dir.Z()
	if t <= 0 {
		return mgl64.Vec3{}, false
	}

	return c.Position.Add(dir.Mul(t)), true
}
