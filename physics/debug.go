package physics

import (
	"math"

	"github.com/akmonengine/handswarm/actor"
)

var (
	debugDynamicColor   = [3]float32{0.2, 0.8, 1.0}
	debugKinematicColor = [3]float32{1.0, 0.6, 0.1}
	debugContactColor   = [3]float32{1.0, 0.1, 0.1}
)

// DebugRender returns line segments describing the current contact state, as
// flat xyz vertex and rgb color buffers (two vertices per segment).
// Each body gets a short vertical tick through its center, each contact a
// segment along its normal, scaled by the penetration.
func (w *World) DebugRender() (vertices []float32, colors []float32) {
	vertices = make([]float32, 0, (len(w.Bodies)+len(w.contacts))*6)
	colors = make([]float32, 0, cap(vertices))

	segment := func(ax, ay, az, bx, by, bz float64, color [3]float32) {
		vertices = append(vertices, float32(ax), float32(ay), float32(az), float32(bx), float32(by), float32(bz))
		colors = append(colors, color[0], color[1], color[2], color[0], color[1], color[2])
	}

	for _, body := range w.Bodies {
		if body.BodyType == actor.BodyTypeStatic {
			continue
		}
		color := debugDynamicColor
		if body.BodyType == actor.BodyTypeKinematic {
			color = debugKinematicColor
		}

		tick := 0.05
		if sphere, ok := body.Shape.(*actor.Sphere); ok {
			tick = sphere.Radius
		}
		p := body.Transform.Position
		segment(p.X(), p.Y()-tick, p.Z(), p.X(), p.Y()+tick, p.Z(), color)
	}

	for _, c := range w.contacts {
		for _, point := range c.Points {
			length := math.Max(point.Penetration, 0.02)
			end := point.Position.Add(c.Normal.Mul(length))
			segment(point.Position.X(), point.Position.Y(), point.Position.Z(), end.X(), end.Y(), end.Z(), debugContactColor)
		}
	}

	return vertices, colors
}
