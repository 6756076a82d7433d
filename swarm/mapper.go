package swarm

import (
	"github.com/akmonengine/handswarm/perception"
	"github.com/akmonengine/handswarm/render"
	"github.com/go-gl/mathgl/mgl64"
)

// Plane is the size, in world units, of the video backdrop
type Plane struct {
	Width  float64
	Height float64
}

// Project maps a normalized landmark onto the backdrop. The image is
// mirrored horizontally, like a selfie view.
func Project(point perception.Point, plane Plane) mgl64.Vec3 {
	return mgl64.Vec3{
		(point.U*plane.Width - plane.Width/2) * -1,
		-point.V*plane.Height + plane.Height/2,
		point.Depth,
	}
}

// TrackingMapper places a fixed pool of proxies on detected landmarks.
//
// Every point set writes the same slots: landmark j of each set goes to
// pool[j], so with several hands the last one wins. A set shorter than the
// pool leaves the remaining slots where they were, a longer one is truncated.
// With no set at all, every slot is parked.
type TrackingMapper struct {
	Parked mgl64.Vec3
}

// MapResult describes one Apply call
type MapResult struct {
	Sets    int
	Parked  bool
	Clamped int // sets whose length differed from the pool size
}

func (m TrackingMapper) Apply(frame perception.Frame, pool []Updatable, plane Plane) MapResult {
	if frame.Empty() {
		for _, slot := range pool {
			slot.MoveTo(m.Parked)
		}
		return MapResult{Parked: true}
	}

	result := MapResult{Sets: len(frame.Sets)}
	for _, set := range frame.Sets {
		if len(set) != len(pool) {
			result.Clamped++
		}
		for j := range min(len(pool), len(set)) {
			pool[j].MoveTo(Project(set[j], plane))
		}
	}

	return result
}

// PointerMapper drives the pointer proxy at a fixed Depth. With a camera the
// pointer is cast onto the plane z = Depth so the proxy sits under the
// cursor; without one the normalized position is spread over the backdrop.
type PointerMapper struct {
	Depth float64
}

// Target returns the backdrop position of a normalized pointer position
func (m PointerMapper) Target(u, v float64, plane Plane) mgl64.Vec3 {
	return mgl64.Vec3{
		(u - 0.5) * plane.Width,
		(0.5 - v) * plane.Height,
		m.Depth,
	}
}

// Apply moves every proxy of pool onto the pointer. camera may be nil.
func (m PointerMapper) Apply(u, v float64, pool []Updatable, plane Plane, camera render.Unprojector) {
	target := m.Target(u, v, plane)
	if camera != nil {
		if p, ok := camera.Unproject(u, v, m.Depth); ok {
			target = p
		}
	}

	for _, slot := range pool {
		slot.MoveTo(target)
	}
}
