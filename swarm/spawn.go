package swarm

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Spawner draws initial body positions uniformly in a cube of side Range
// centered on Offset. Two spawners with the same seed draw the same positions.
type Spawner struct {
	Rand   *rand.Rand
	Range  float64
	Offset mgl64.Vec3
}

func NewSpawner(seed int64, size float64, offset mgl64.Vec3) *Spawner {
	return &Spawner{
		Rand:   rand.New(rand.NewSource(seed)),
		Range:  size,
		Offset: offset,
	}
}

func (s *Spawner) Next() mgl64.Vec3 {
	var p mgl64.Vec3
	for i := range p {
		p[i] = s.Rand.Float64()*s.Range - s.Range*0.5 + s.Offset[i]
	}

	return p
}
