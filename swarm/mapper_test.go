package swarm

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akmonengine/handswarm/perception"
	"github.com/akmonengine/handswarm/render"
)

type slot struct {
	position mgl64.Vec3
	moves    int
}

func (s *slot) MoveTo(p mgl64.Vec3) { s.position = p; s.moves++ }

func newSlots(n int) ([]*slot, []Updatable) {
	slots := make([]*slot, n)
	pool := make([]Updatable, n)
	for i := range n {
		slots[i] = &slot{}
		pool[i] = slots[i]
	}
	return slots, pool
}

var (
	testPlane  = Plane{Width: 6, Height: 4}
	testParked = mgl64.Vec3{0, 0, 10}
)

func TestProject(t *testing.T) {
	tests := []struct {
		name     string
		point    perception.Point
		expected mgl64.Vec3
	}{
		{"center", perception.Point{U: 0.5, V: 0.5}, mgl64.Vec3{0, 0, 0}},
		{"top left is mirrored", perception.Point{U: 0, V: 0}, mgl64.Vec3{3, 2, 0}},
		{"bottom right", perception.Point{U: 1, V: 1}, mgl64.Vec3{-3, -2, 0}},
		{"depth is kept", perception.Point{U: 0.25, V: 0.75, Depth: -0.1}, mgl64.Vec3{1.5, -1, -0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project(tt.point, testPlane)
			assert.True(t, got.ApproxEqual(tt.expected), "Project = %v, want %v", got, tt.expected)
		})
	}
}

func TestTrackingMapperParksOnEmptyFrame(t *testing.T) {
	slots, pool := newSlots(21)
	mapper := TrackingMapper{Parked: testParked}

	result := mapper.Apply(perception.Frame{}, pool, testPlane)
	assert.True(t, result.Parked)
	for i, s := range slots {
		assert.Equal(t, testParked, s.position, "slot %d", i)
	}

	// parking again changes nothing
	mapper.Apply(perception.Frame{}, pool, testPlane)
	for i, s := range slots {
		assert.Equal(t, testParked, s.position, "slot %d", i)
	}
}

func TestTrackingMapperSingleSet(t *testing.T) {
	slots, pool := newSlots(3)
	set := hand([3]float64{0.5, 0.5, 0}, [3]float64{0, 0, 0.1}, [3]float64{1, 1, -0.2})

	result := TrackingMapper{Parked: testParked}.Apply(perception.Frame{Sets: []perception.PointSet{set}}, pool, testPlane)

	assert.Equal(t, MapResult{Sets: 1}, result)
	for j, s := range slots {
		assert.Equal(t, Project(set[j], testPlane), s.position, "slot %d", j)
	}
}

func TestTrackingMapperLastSetWins(t *testing.T) {
	slots, pool := newSlots(2)
	first := hand([3]float64{0.1, 0.1, 0}, [3]float64{0.2, 0.2, 0})
	second := hand([3]float64{0.9, 0.9, 0}, [3]float64{0.8, 0.8, 0})

	TrackingMapper{}.Apply(perception.Frame{Sets: []perception.PointSet{first, second}}, pool, testPlane)

	for j, s := range slots {
		assert.Equal(t, Project(second[j], testPlane), s.position, "slot %d", j)
		assert.Equal(t, 2, s.moves, "slot %d", j)
	}
}

func TestTrackingMapperClampsSetLength(t *testing.T) {
	t.Run("short set leaves the tail", func(t *testing.T) {
		slots, pool := newSlots(3)
		mapper := TrackingMapper{Parked: testParked}
		mapper.Apply(perception.Frame{}, pool, testPlane)

		set := hand([3]float64{0.5, 0.5, 0})
		result := mapper.Apply(perception.Frame{Sets: []perception.PointSet{set}}, pool, testPlane)

		assert.Equal(t, 1, result.Clamped)
		assert.Equal(t, mgl64.Vec3{0, 0, 0}, slots[0].position)
		assert.Equal(t, testParked, slots[1].position)
		assert.Equal(t, testParked, slots[2].position)
	})

	t.Run("long set is truncated", func(t *testing.T) {
		slots, pool := newSlots(2)
		set := hand([3]float64{0, 0, 0}, [3]float64{1, 1, 0}, [3]float64{0.5, 0.5, 0})

		result := TrackingMapper{}.Apply(perception.Frame{Sets: []perception.PointSet{set}}, pool, testPlane)

		assert.Equal(t, 1, result.Clamped)
		assert.Equal(t, mgl64.Vec3{3, 2, 0}, slots[0].position)
		assert.Equal(t, mgl64.Vec3{-3, -2, 0}, slots[1].position)
	})
}

func TestTrackingMapperHandThenNothing(t *testing.T) {
	slots, pool := newSlots(4)
	mapper := TrackingMapper{Parked: testParked}

	mapper.Apply(perception.Frame{Sets: []perception.PointSet{perception.HandAt(0.3, 0.6)[:4]}}, pool, testPlane)
	assert.NotEqual(t, testParked, slots[0].position)

	mapper.Apply(perception.Frame{}, pool, testPlane)
	for i, s := range slots {
		assert.Equal(t, testParked, s.position, "slot %d", i)
	}
}

func TestPointerMapper(t *testing.T) {
	slots, pool := newSlots(1)
	mapper := PointerMapper{Depth: 0.2}

	assert.Equal(t, mgl64.Vec3{0, 0, 0.2}, mapper.Target(0.5, 0.5, testPlane))
	assert.Equal(t, mgl64.Vec3{-3, 2, 0.2}, mapper.Target(0, 0, testPlane))

	mapper.Apply(1, 1, pool, testPlane, nil)
	assert.Equal(t, mgl64.Vec3{3, -2, 0.2}, slots[0].position)
}

func TestPointerMapperFollowsCamera(t *testing.T) {
	slots, pool := newSlots(2)
	mapper := PointerMapper{Depth: 0.2}
	scene := render.NewScene(400, 200)

	mapper.Apply(0.8, 0.3, pool, testPlane, scene)

	for i, s := range slots {
		x, y, _, ok := scene.Project(s.position)
		require.True(t, ok, "slot %d off screen", i)
		assert.InDelta(t, 320, x, 1e-6, "slot %d", i)
		assert.InDelta(t, 60, y, 1e-6, "slot %d", i)
		assert.InDelta(t, 0.2, s.position.Z(), 1e-9, "slot %d", i)
	}
	// the backdrop spread would have put it elsewhere
	assert.False(t, slots[0].position.ApproxEqual(mapper.Target(0.8, 0.3, testPlane)))
}

func TestPointerMapperFallsBackToBackdrop(t *testing.T) {
	slots, pool := newSlots(1)
	mapper := PointerMapper{Depth: 6}
	scene := render.NewScene(400, 200)

	// the plane z = 6 is behind the camera
	mapper.Apply(0.5, 0.5, pool, testPlane, scene)

	assert.Equal(t, mgl64.Vec3{0, 0, 6}, slots[0].position)
}

func TestBackdrop(t *testing.T) {
	backdrop := NewBackdrop(0.01, 640, 480)
	assert.InDelta(t, 6.4, backdrop.Plane().Width, 1e-12)
	assert.InDelta(t, 4.8, backdrop.Plane().Height, 1e-12)

	backdrop.SetVideoSize(600, 400)
	assert.InDelta(t, 6, backdrop.Plane().Width, 1e-12)
	assert.InDelta(t, 4, backdrop.Plane().Height, 1e-12)

	backdrop.SetVideoSize(0, 720)
	backdrop.SetVideoSize(1280, -1)
	assert.InDelta(t, 6, backdrop.Plane().Width, 1e-12, "non-positive size was applied")
}

func TestControlPointMoveTo(t *testing.T) {
	mesh := &recordingMesh{}
	control := NewControlPoint(4, 0.075, 0.75, testParked, mesh)

	assert.Equal(t, testParked, control.Position())
	assert.Equal(t, 0.075, mesh.scale)
	assert.Equal(t, 0.75, control.Rigid.Shape.GetAABB().Max.X()-control.Position().X())

	control.MoveTo(mgl64.Vec3{1, 2, 0})
	assert.Equal(t, mgl64.Vec3{1, 2, 0}, control.Position())
	assert.Equal(t, mgl64.Vec3{1, 2, 0}, control.Rigid.PreviousTransform.Position)
	assert.Equal(t, mgl64.Vec3{1, 2, 0}, mesh.position)
	assert.Equal(t, mgl64.Vec3{1, 2, 0}, control.LastTarget)
}
