package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are moved by forces and collisions
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	BodyTypeStatic

	// BodyTypeKinematic bodies have infinite mass and are placed directly by
	// the application. They push dynamic bodies but are never pushed back.
	BodyTypeKinematic
)

func (t BodyType) String() string {
	switch t {
	case BodyTypeDynamic:
		return "dynamic"
	case BodyTypeStatic:
		return "static"
	case BodyTypeKinematic:
		return "kinematic"
	}

	return "unknown"
}

type Material struct {
	Density     float64
	mass        float64
	Restitution float64 // 0= no rebound, 1= perfect restitution

	StaticFriction  float64
	DynamicFriction float64
	LinearDamping   float64 // per second, 0 disables
	AngularDamping  float64 // per second, 0 disables
}

func (material Material) GetMass() float64 {
	return material.mass
}

// InverseMass is zero for static and kinematic bodies
func (material Material) InverseMass() float64 {
	if material.mass == 0 || math.IsInf(material.mass, 1) {
		return 0
	}

	return 1.0 / material.mass
}

// RigidBody represents a rigid body in the physics simulation
type RigidBody struct {
	// Spatial properties
	PreviousTransform Transform
	Transform         Transform

	// Linear motion
	PresolveVelocity mgl64.Vec3
	Velocity         mgl64.Vec3 // m/s

	// Angular motion
	PresolveAngularVelocity mgl64.Vec3
	AngularVelocity         mgl64.Vec3 // rad/s

	InertiaLocal        mgl64.Mat3
	InverseInertiaLocal mgl64.Mat3

	accumulatedForce mgl64.Vec3

	// Physical properties
	Material Material
	BodyType BodyType

	// Collision shape
	Shape ShapeInterface
}

// NewRigidBody creates a new rigid body with the given properties.
// density is used to calculate mass for dynamic bodies, it is ignored for
// static and kinematic ones.
func NewRigidBody(transform Transform, shape ShapeInterface, bodyType BodyType, density float64) *RigidBody {
	transform = transform.normalized()
	rb := &RigidBody{
		PreviousTransform: transform,
		Transform:         transform,
		Shape:             shape,
		BodyType:          bodyType,
	}

	if bodyType == BodyTypeDynamic {
		rb.Material = Material{
			Density: density,
			mass:    shape.ComputeMass(density),
		}
		rb.InertiaLocal = shape.ComputeInertia(rb.Material.mass)
		rb.InverseInertiaLocal = rb.InertiaLocal.Inv()
	} else {
		rb.Material = Material{mass: math.Inf(1)}
		// the inverse tensor of an immovable body is zero, Inv() of an
		// infinite tensor would produce NaN
		rb.InertiaLocal = mgl64.Diag3(mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)})
	}

	rb.Shape.ComputeAABB(rb.Transform)

	return rb
}

// IsValid reports whether the body's state holds only finite numbers
func (rb *RigidBody) IsValid() bool {
	for _, v := range [...]mgl64.Vec3{rb.Transform.Position, rb.Velocity, rb.AngularVelocity, rb.Transform.Rotation.V} {
		for _, c := range v {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return false
			}
		}
	}
	w := rb.Transform.Rotation.W

	return !math.IsNaN(w) && !math.IsInf(w, 0)
}

// Integrate predicts the body's next pose from its velocity and the forces
// accumulated since the last ResetForces.
// Accumulated forces are kept: they are reset by the caller, once per frame.
func (rb *RigidBody) Integrate(dt float64, gravity mgl64.Vec3) {
	rb.PreviousTransform = rb.Transform

	if rb.BodyType != BodyTypeDynamic {
		return
	}

	// ========== LINEAR ==========
	acceleration := gravity.Add(rb.accumulatedForce.Mul(rb.Material.InverseMass()))
	rb.Velocity = rb.Velocity.Add(acceleration.Mul(dt))
	rb.Velocity = rb.Velocity.Mul(math.Exp(-rb.Material.LinearDamping * dt))
	rb.Transform.Position = rb.Transform.Position.Add(rb.Velocity.Mul(dt))

	// ========== ANGULAR ==========
	// no torque is ever applied, spin only comes from contacts
	rb.AngularVelocity = rb.AngularVelocity.Mul(math.Exp(-rb.Material.AngularDamping * dt))

	// q' = q + 0.5 * ω * q * dt
	omegaQuat := mgl64.Quat{V: rb.AngularVelocity, W: 0}
	qDot := omegaQuat.Mul(rb.Transform.Rotation).Scale(0.5)
	rb.Transform.Rotation = rb.Transform.Rotation.Add(qDot.Scale(dt)).Normalize()
	rb.Transform.InverseRotation = rb.Transform.Rotation.Inverse()

	rb.PresolveVelocity = rb.Velocity
	rb.PresolveAngularVelocity = rb.AngularVelocity

	rb.Shape.ComputeAABB(rb.Transform)
}

// Update derives velocities from the solved pose (position based dynamics)
func (rb *RigidBody) Update(dt float64) {
	if rb.BodyType != BodyTypeDynamic || dt <= 0 {
		return
	}

	rb.Velocity = rb.Transform.Position.Sub(rb.PreviousTransform.Position).Mul(1.0 / dt)
	qDelta := rb.Transform.Rotation.Mul(rb.PreviousTransform.Rotation.Conjugate()).Normalize()
	if qDelta.W >= 0.0 {
		rb.AngularVelocity = qDelta.V.Mul(2.0 / dt)
	} else {
		rb.AngularVelocity = qDelta.V.Mul(-2.0 / dt)
	}

	rb.Shape.ComputeAABB(rb.Transform)
}

// AddForce accumulates a force in Newtons, applied at the center of mass
// during the next Integrate.
func (rb *RigidBody) AddForce(force mgl64.Vec3) {
	if rb.BodyType == BodyTypeDynamic {
		rb.accumulatedForce = rb.accumulatedForce.Add(force)
	}
}

// AccumulatedForce returns the force that the next Integrate will apply
func (rb *RigidBody) AccumulatedForce() mgl64.Vec3 {
	return rb.accumulatedForce
}

// ResetForces zeroes the accumulated force
func (rb *RigidBody) ResetForces() {
	rb.accumulatedForce = mgl64.Vec3{0, 0, 0}
}

// Translation returns the body's current position
func (rb *RigidBody) Translation() mgl64.Vec3 {
	return rb.Transform.Position
}

// Rotation returns the body's current orientation
func (rb *RigidBody) Rotation() mgl64.Quat {
	return rb.Transform.Rotation
}

// SetTranslation teleports the body. Both the current and previous poses are
// moved so that no velocity is inferred from the jump.
func (rb *RigidBody) SetTranslation(position mgl64.Vec3) {
	rb.Transform.Position = position
	rb.PreviousTransform.Position = position
	if rb.BodyType == BodyTypeDynamic {
		rb.Velocity = mgl64.Vec3{}
		rb.PresolveVelocity = mgl64.Vec3{}
	}
	rb.Shape.ComputeAABB(rb.Transform)
}

// GetInverseInertiaWorld returns R * I_local^-1 * R^T, zero when immovable
func (rb *RigidBody) GetInverseInertiaWorld() mgl64.Mat3 {
	if rb.BodyType != BodyTypeDynamic {
		return mgl64.Mat3{}
	}

	R := rb.Transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InverseInertiaLocal).Mul3(R.Transpose())
}
