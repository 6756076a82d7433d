package constraint

import (
	"math"

	"github.com/akmonengine/handswarm/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultCompliance controls soft constraint stiffness for contact resolution.
	// Lower values = stiffer contacts (less penetration, potential jitter)
	// Higher values = softer contacts (more penetration, smoother)
	DefaultCompliance = 1e-7
)

type ContactPoint struct {
	Position    mgl64.Vec3
	Penetration float64
}

// ContactConstraint keeps two overlapping bodies apart.
// Normal points from BodyA to BodyB.
type ContactConstraint struct {
	BodyA      *actor.RigidBody
	BodyB      *actor.RigidBody
	Points     []ContactPoint
	Normal     mgl64.Vec3
	Compliance float64
}

// NewSphereContact builds the constraint for two overlapping sphere bodies, or
// returns nil when they do not touch.
func NewSphereContact(bodyA, bodyB *actor.RigidBody) *ContactConstraint {
	sphereA, okA := bodyA.Shape.(*actor.Sphere)
	sphereB, okB := bodyB.Shape.(*actor.Sphere)
	if !okA || !okB {
		return nil
	}

	normal, point, penetration, ok := actor.SphereContact(sphereA, bodyA.Transform.Position, sphereB, bodyB.Transform.Position)
	if !ok {
		return nil
	}

	return &ContactConstraint{
		BodyA:      bodyA,
		BodyB:      bodyB,
		Normal:     normal,
		Compliance: DefaultCompliance,
		Points:     []ContactPoint{{Position: point, Penetration: penetration}},
	}
}

// MaxPenetration returns the deepest penetration among the contact points
func (c *ContactConstraint) MaxPenetration() float64 {
	deepest := 0.0
	for _, p := range c.Points {
		deepest = math.Max(deepest, p.Penetration)
	}

	return deepest
}

// SolvePosition resolves penetration (XPBD, no lambda accumulation)
func (c *ContactConstraint) SolvePosition(dt float64) {
	if len(c.Points) == 0 || dt <= 0 {
		return
	}

	bodyA := c.BodyA
	bodyB := c.BodyB

	invMassA := bodyA.Material.InverseMass()
	invMassB := bodyB.Material.InverseMass()
	IA_inv := bodyA.GetInverseInertiaWorld()
	IB_inv := bodyB.GetInverseInertiaWorld()

	// ========== 1. Total effective weight ==========
	var totalWeight float64
	var totalPenetration float64

	for _, point := range c.Points {
		if point.Penetration <= 1e-8 {
			continue
		}

		rA := point.Position.Sub(bodyA.Transform.Position)
		rB := point.Position.Sub(bodyB.Transform.Position)

		rA_cross_n := rA.Cross(c.Normal)
		rB_cross_n := rB.Cross(c.Normal)

		wA := invMassA + IA_inv.Mul3x1(rA_cross_n).Dot(rA_cross_n)
		wB := invMassB + IB_inv.Mul3x1(rB_cross_n).Dot(rB_cross_n)
		totalWeight += wA + wB

		totalPenetration += point.Penetration
	}

	if totalWeight <= 1e-8 {
		return
	}

	// ========== 2. Global correction ==========
	alphaTilde := c.Compliance / (dt * dt)
	deltaLambda := -totalPenetration / (totalWeight + alphaTilde)
	totalImpulse := c.Normal.Mul(deltaLambda)

	// ========== 3. Linear corrections ==========
	// A is pushed against the normal, B along it
	if bodyA.BodyType == actor.BodyTypeDynamic {
		bodyA.Transform.Position = bodyA.Transform.Position.Add(totalImpulse.Mul(invMassA))
	}
	if bodyB.BodyType == actor.BodyTypeDynamic {
		bodyB.Transform.Position = bodyB.Transform.Position.Sub(totalImpulse.Mul(invMassB))
	}

	// ========== 4. Angular corrections ==========
	var totalTorqueA, totalTorqueB mgl64.Vec3
	for _, point := range c.Points {
		if point.Penetration <= 1e-8 {
			continue
		}

		rA := point.Position.Sub(bodyA.Transform.Position)
		rB := point.Position.Sub(bodyB.Transform.Position)

		totalTorqueA = totalTorqueA.Add(rA.Cross(totalImpulse))
		totalTorqueB = totalTorqueB.Add(rB.Cross(totalImpulse.Mul(-1)))
	}

	applyRotation(bodyA, IA_inv.Mul3x1(totalTorqueA))
	applyRotation(bodyB, IB_inv.Mul3x1(totalTorqueB))
}

// applyRotation rotates a dynamic body by the small angle deltaRot
func applyRotation(body *actor.RigidBody, deltaRot mgl64.Vec3) {
	if body.BodyType != actor.BodyTypeDynamic || deltaRot.Len() <= 1e-10 {
		return
	}

	qDelta := mgl64.Quat{W: 1.0, V: deltaRot.Mul(0.5)}.Normalize()
	body.Transform.Rotation = qDelta.Mul(body.Transform.Rotation).Normalize()
	body.Transform.InverseRotation = body.Transform.Rotation.Inverse()
}

// SolveVelocity applies restitution and friction
func (c *ContactConstraint) SolveVelocity(dt float64) {
	if len(c.Points) == 0 {
		return
	}

	bodyA := c.BodyA
	bodyB := c.BodyB

	invMassA := bodyA.Material.InverseMass()
	invMassB := bodyB.Material.InverseMass()
	IA_inv := bodyA.GetInverseInertiaWorld()
	IB_inv := bodyB.GetInverseInertiaWorld()

	restitution := ComputeRestitution(bodyA.Material, bodyB.Material)
	staticFriction := ComputeStaticFriction(bodyA.Material, bodyB.Material)
	dynamicFriction := ComputeDynamicFriction(bodyA.Material, bodyB.Material)

	var linearA, linearB, angularA, angularB mgl64.Vec3

	for _, point := range c.Points {
		rA := point.Position.Sub(bodyA.Transform.Position)
		rB := point.Position.Sub(bodyB.Transform.Position)

		vA := bodyA.Velocity.Add(bodyA.AngularVelocity.Cross(rA))
		vB := bodyB.Velocity.Add(bodyB.AngularVelocity.Cross(rB))
		relativeVel := vB.Sub(vA)
		normalVel := relativeVel.Dot(c.Normal)

		vAPrev := bodyA.PresolveVelocity.Add(bodyA.PresolveAngularVelocity.Cross(rA))
		vBPrev := bodyB.PresolveVelocity.Add(bodyB.PresolveAngularVelocity.Cross(rB))
		normalVelPrev := vBPrev.Sub(vAPrev).Dot(c.Normal)

		// ========== NORMAL ==========
		rA_cross_n := rA.Cross(c.Normal)
		rB_cross_n := rB.Cross(c.Normal)
		effectiveMassNormal := invMassA + invMassB +
			IA_inv.Mul3x1(rA_cross_n).Dot(rA_cross_n) +
			IB_inv.Mul3x1(rB_cross_n).Dot(rB_cross_n)
		if effectiveMassNormal < 1e-10 {
			continue
		}

		targetVel := -restitution * normalVelPrev
		lambdaNormal := (targetVel - normalVel) / effectiveMassNormal
		// never pull bodies together
		if lambdaNormal < 0 {
			lambdaNormal = 0
		}

		normalImpulse := c.Normal.Mul(lambdaNormal)
		linearA = linearA.Sub(normalImpulse.Mul(invMassA))
		linearB = linearB.Add(normalImpulse.Mul(invMassB))
		angularA = angularA.Add(IA_inv.Mul3x1(rA.Cross(normalImpulse.Mul(-1))))
		angularB = angularB.Add(IB_inv.Mul3x1(rB.Cross(normalImpulse)))

		// ========== TANGENT (friction) ==========
		if lambdaNormal <= 0 {
			continue
		}

		tangentVel := relativeVel.Sub(c.Normal.Mul(normalVel))
		tangentSpeed := tangentVel.Len()
		if tangentSpeed <= 1e-6 {
			continue
		}

		tangentDir := tangentVel.Mul(1.0 / tangentSpeed)
		rA_cross_t := rA.Cross(tangentDir)
		rB_cross_t := rB.Cross(tangentDir)
		effectiveMassTangent := invMassA + invMassB +
			IA_inv.Mul3x1(rA_cross_t).Dot(rA_cross_t) +
			IB_inv.Mul3x1(rB_cross_t).Dot(rB_cross_t)
		if effectiveMassTangent < 1e-10 {
			continue
		}

		lambdaTangent := -tangentSpeed / effectiveMassTangent

		// Coulomb: |F_friction| <= μ |F_normal|
		var frictionImpulse mgl64.Vec3
		if math.Abs(lambdaTangent) <= staticFriction*lambdaNormal {
			frictionImpulse = tangentDir.Mul(lambdaTangent)
		} else {
			frictionImpulse = tangentDir.Mul(-dynamicFriction * lambdaNormal)
		}

		linearA = linearA.Sub(frictionImpulse.Mul(invMassA))
		linearB = linearB.Add(frictionImpulse.Mul(invMassB))
		angularA = angularA.Add(IA_inv.Mul3x1(rA.Cross(frictionImpulse.Mul(-1))))
		angularB = angularB.Add(IB_inv.Mul3x1(rB.Cross(frictionImpulse)))
	}

	if bodyA.BodyType == actor.BodyTypeDynamic {
		bodyA.Velocity = bodyA.Velocity.Add(linearA)
		bodyA.AngularVelocity = bodyA.AngularVelocity.Add(angularA)
	}
	if bodyB.BodyType == actor.BodyTypeDynamic {
		bodyB.Velocity = bodyB.Velocity.Add(linearB)
		bodyB.AngularVelocity = bodyB.AngularVelocity.Add(angularB)
	}

	clampSmallVelocities(bodyA)
	clampSmallVelocities(bodyB)
}
