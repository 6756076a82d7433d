package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform is a rigid placement in world space
type Transform struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	InverseRotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position:        mgl64.Vec3{0, 0, 0},
		Rotation:        mgl64.QuatIdent(),
		InverseRotation: mgl64.QuatIdent(),
	}
}

// At returns an unrotated transform located at position
func At(position mgl64.Vec3) Transform {
	t := NewTransform()
	t.Position = position

	return t
}

// normalized fills a zero rotation with identity, so that a Transform literal
// with only a Position is usable as-is.
func (t Transform) normalized() Transform {
	if t.Rotation == (mgl64.Quat{}) {
		t.Rotation = mgl64.QuatIdent()
	}
	t.InverseRotation = t.Rotation.Inverse()

	return t
}
