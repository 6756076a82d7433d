package constraint

import (
	"math"

	"github.com/akmonengine/handswarm/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// ComputeRestitution averages both materials
func ComputeRestitution(matA, matB actor.Material) float64 {
	return (matA.Restitution + matB.Restitution) / 2.0
}

// ComputeStaticFriction is the geometric mean of both coefficients
func ComputeStaticFriction(matA, matB actor.Material) float64 {
	return math.Sqrt(matA.StaticFriction * matB.StaticFriction)
}

func ComputeDynamicFriction(matA, matB actor.Material) float64 {
	return math.Sqrt(matA.DynamicFriction * matB.DynamicFriction)
}

func clampSmallVelocities(rb *actor.RigidBody) {
	const velocityThreshold = 1e-5

	if rb.BodyType != actor.BodyTypeDynamic {
		return
	}
	if rb.Velocity.Len() < velocityThreshold {
		rb.Velocity = mgl64.Vec3{0, 0, 0}
	}
	if rb.AngularVelocity.Len() < velocityThreshold {
		rb.AngularVelocity = mgl64.Vec3{0, 0, 0}
	}
}
