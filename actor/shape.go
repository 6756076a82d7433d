package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeInterface is the interface that all collision shapes must implement
type ShapeInterface interface {
	// ComputeAABB calculates the axis-aligned bounding box for the shape
	// at the given transform
	ComputeAABB(transform Transform)
	GetAABB() AABB
	// ComputeMass calculates the mass of the shape given a density
	ComputeMass(density float64) float64
	ComputeInertia(mass float64) mgl64.Mat3
}

// Sphere represents a spherical collision shape, the only collider the swarm
// and its control proxies use.
type Sphere struct {
	Radius float64
	aabb   AABB
}

// NewSphere creates a sphere collider of the given radius
func NewSphere(radius float64) *Sphere {
	return &Sphere{Radius: radius}
}

// ComputeAABB calculates the axis-aligned bounding box for the sphere
func (s *Sphere) ComputeAABB(transform Transform) {
	// rotation does not change a sphere's bounds
	s.aabb = CubeAround(transform.Position, s.Radius)
}

func (s *Sphere) GetAABB() AABB {
	return s.aabb
}

// ComputeMass returns density * (4/3)πr³
func (s *Sphere) ComputeMass(density float64) float64 {
	volume := (4.0 / 3.0) * math.Pi * math.Pow(s.Radius, 3)

	return density * volume
}

// ComputeInertia returns the solid sphere tensor (2/5)mr² on each axis
func (s *Sphere) ComputeInertia(mass float64) mgl64.Mat3 {
	i := (2.0 / 5.0) * mass * s.Radius * s.Radius

	return mgl64.Mat3{
		i, 0, 0,
		0, i, 0,
		0, 0, i,
	}
}

// SphereContact tests two spheres for overlap.
// The normal points from a to b; penetration is positive when overlapping.
// Coincident centers resolve along +Y.
func SphereContact(a *Sphere, posA mgl64.Vec3, b *Sphere, posB mgl64.Vec3) (normal mgl64.Vec3, point mgl64.Vec3, penetration float64, ok bool) {
	delta := posB.Sub(posA)
	distance := delta.Len()
	radii := a.Radius + b.Radius

	if distance >= radii {
		return mgl64.Vec3{}, mgl64.Vec3{}, 0, false
	}

	if distance < 1e-12 {
		normal = mgl64.Vec3{0, 1, 0}
	} else {
		normal = delta.Mul(1.0 / distance)
	}
	penetration = radii - distance

	// midpoint of the overlapping segment
	surfaceA := posA.Add(normal.Mul(a.Radius))
	point = surfaceA.Sub(normal.Mul(penetration * 0.5))

	return normal, point, penetration, true
}
