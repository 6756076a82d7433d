package swarm

import "github.com/go-gl/mathgl/mgl64"

// AttractionField pulls every body toward Center with the same Strength,
// whatever the distance.
type AttractionField struct {
	Center   mgl64.Vec3
	Strength float64
}

// ComputeForce returns -Strength * normalize(position - Center).
// A body sitting exactly on the center gets no force.
func (f AttractionField) ComputeForce(position mgl64.Vec3) mgl64.Vec3 {
	offset := position.Sub(f.Center)
	distance := offset.Len()
	if distance == 0 {
		return mgl64.Vec3{}
	}

	return offset.Mul(-f.Strength / distance)
}
