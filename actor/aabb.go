package actor

import "github.com/go-gl/mathgl/mgl64"

// AABB is an axis-aligned bounding box, used by the broad phase
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// CubeAround returns the box of half side halfSize centered on center
func CubeAround(center mgl64.Vec3, halfSize float64) AABB {
	half := mgl64.Vec3{halfSize, halfSize, halfSize}

	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// ContainsPoint checks if a point is inside the AABB, bounds included
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	for i := range 3 {
		if point[i] < a.Min[i] || point[i] > a.Max[i] {
			return false
		}
	}

	return true
}

// Overlaps checks if two AABBs overlap on every axis. Touching counts.
func (a AABB) Overlaps(other AABB) bool {
	for i := range 3 {
		if a.Max[i] < other.Min[i] || a.Min[i] > other.Max[i] {
			return false
		}
	}

	return true
}
