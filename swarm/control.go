package swarm

import (
	"github.com/akmonengine/handswarm/actor"
	"github.com/akmonengine/handswarm/render"
	"github.com/go-gl/mathgl/mgl64"
)

// ControlPoint is a kinematic proxy. It collides with the swarm but is only
// ever moved by MoveTo.
type ControlPoint struct {
	Slot       int
	Rigid      *actor.RigidBody
	Visual     render.Mesh
	LastTarget mgl64.Vec3
}

// NewControlPoint creates the proxy of slot at parked. The mesh is scaled to
// size, the collider has colliderRadius.
func NewControlPoint(slot int, size, colliderRadius float64, parked mgl64.Vec3, mesh render.Mesh) *ControlPoint {
	rigid := actor.NewRigidBody(actor.At(parked), actor.NewSphere(colliderRadius), actor.BodyTypeKinematic, 0)
	c := &ControlPoint{
		Slot:   slot,
		Rigid:  rigid,
		Visual: mesh,
	}
	mesh.SetScale(size)
	c.MoveTo(parked)

	return c
}

// MoveTo places the physics proxy and its mesh at target
func (c *ControlPoint) MoveTo(target mgl64.Vec3) {
	c.Rigid.SetTranslation(target)
	c.Visual.SetPosition(c.Rigid.Translation())
	c.LastTarget = target
}

func (c *ControlPoint) Position() mgl64.Vec3 {
	return c.Rigid.Translation()
}
