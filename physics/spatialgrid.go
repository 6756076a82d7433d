package physics

import (
	"math"
	"slices"

	"github.com/akmonengine/handswarm/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// CellKey is the integer coordinate of a grid cell
type CellKey struct {
	X, Y, Z int
}

// Cell holds the indices of the bodies overlapping it
type Cell struct {
	bodyIndices []int
}

// Pair is two bodies whose bounds overlap
type Pair struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

// SpatialGrid is a uniform hashed grid for the broad phase.
// Distinct cells may share a bucket; that only costs extra AABB tests.
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int
}

// NewSpatialGrid creates a grid of cellSize wide cells hashed into numCells
// buckets, rounded up to a power of two.
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].bodyIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert registers a body in every cell its AABB covers
func (sg *SpatialGrid) Insert(bodyIndex int, body *actor.RigidBody) {
	sg.forEachCell(body.Shape.GetAABB(), func(cellIdx int) {
		sg.cells[cellIdx].bodyIndices = append(sg.cells[cellIdx].bodyIndices, bodyIndex)
	})
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].bodyIndices = sg.cells[i].bodyIndices[:0]
	}
}

// SortCells orders each bucket so that pairs come out in a deterministic order
func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].bodyIndices) > 1 {
			slices.Sort(sg.cells[i].bodyIndices)
		}
	}
}

// FindPairs returns each overlapping pair once, lower body index first.
// Pairs of immovable bodies (static or kinematic) are skipped.
func (sg *SpatialGrid) FindPairs(bodies []*actor.RigidBody) []Pair {
	pairs := make([]Pair, 0, len(bodies)/2)
	seen := make([]int, len(bodies))
	for i := range seen {
		seen[i] = -1
	}

	for bodyIdx, bodyA := range bodies {
		aabbA := bodyA.Shape.GetAABB()

		sg.forEachCell(aabbA, func(cellIdx int) {
			for _, otherIdx := range sg.cells[cellIdx].bodyIndices {
				// (A,B) only, and once even if they share several cells
				if otherIdx <= bodyIdx || seen[otherIdx] == bodyIdx {
					continue
				}
				seen[otherIdx] = bodyIdx

				bodyB := bodies[otherIdx]
				if bodyA.BodyType != actor.BodyTypeDynamic && bodyB.BodyType != actor.BodyTypeDynamic {
					continue
				}
				if aabbA.Overlaps(bodyB.Shape.GetAABB()) {
					pairs = append(pairs, Pair{BodyA: bodyA, BodyB: bodyB})
				}
			}
		})
	}

	return pairs
}

func (sg *SpatialGrid) forEachCell(aabb actor.AABB, fn func(cellIdx int)) {
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				fn(sg.hashCell(CellKey{x, y, z}))
			}
		}
	}
}

func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
