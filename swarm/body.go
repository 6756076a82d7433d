package swarm

import (
	"fmt"

	"github.com/akmonengine/handswarm/actor"
	"github.com/akmonengine/handswarm/render"
	"github.com/go-gl/mathgl/mgl64"
)

// Updatable is anything the loop or a mapper can place in the world
type Updatable interface {
	MoveTo(position mgl64.Vec3)
}

// DynamicBody is a swarm member: a dynamic sphere in the physics world and
// the mesh showing it.
type DynamicBody struct {
	ID      int
	Size    float64
	Density float64
	Rigid   *actor.RigidBody
	Visual  render.Mesh
}

// NewDynamicBody creates the rigid body at position with a sphere collider of
// radius size, and scales mesh to match.
func NewDynamicBody(id int, position mgl64.Vec3, size, density float64, mesh render.Mesh) *DynamicBody {
	rigid := actor.NewRigidBody(actor.At(position), actor.NewSphere(size), actor.BodyTypeDynamic, density)
	b := &DynamicBody{
		ID:      id,
		Size:    size,
		Density: density,
		Rigid:   rigid,
		Visual:  mesh,
	}
	mesh.SetScale(size)
	b.SyncVisual()

	return b
}

func (b *DynamicBody) Position() mgl64.Vec3 {
	b.mustBeValid()
	return b.Rigid.Translation()
}

func (b *DynamicBody) Orientation() mgl64.Quat {
	b.mustBeValid()
	return b.Rigid.Rotation()
}

// ApplyField replaces the force accumulated on the rigid body with the
// field's force at the current position, and returns it. The force is
// integrated by the next world step.
func (b *DynamicBody) ApplyField(field AttractionField) mgl64.Vec3 {
	b.mustBeValid()

	b.Rigid.ResetForces()
	force := field.ComputeForce(b.Rigid.Translation())
	b.Rigid.AddForce(force)

	return force
}

// SyncVisual copies the physics pose onto the mesh, as is
func (b *DynamicBody) SyncVisual() {
	b.mustBeValid()

	b.Visual.SetPosition(b.Rigid.Translation())
	b.Visual.SetRotation(b.Rigid.Rotation())
}

// MoveTo teleports the body at rest
func (b *DynamicBody) MoveTo(position mgl64.Vec3) {
	b.mustBeValid()

	b.Rigid.SetTranslation(position)
	b.SyncVisual()
}

func (b *DynamicBody) mustBeValid() {
	if b.Rigid == nil || b.Visual == nil {
		panic(fmt.Sprintf("swarm: dynamic body %d used without its handles", b.ID))
	}
}
