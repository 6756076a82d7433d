package physics

import (
	"github.com/akmonengine/handswarm/actor"
	"github.com/akmonengine/handswarm/constraint"
)

// BroadPhase rebuilds the grid and returns the pairs whose AABBs overlap
func BroadPhase(spatialGrid *SpatialGrid, bodies []*actor.RigidBody) []Pair {
	spatialGrid.Clear()
	for i, body := range bodies {
		spatialGrid.Insert(i, body)
	}
	spatialGrid.SortCells()

	return spatialGrid.FindPairs(bodies)
}

// NarrowPhase turns overlapping pairs into contact constraints.
// Every collider is a sphere, so the test is analytic. The output keeps the
// order of pairs, whatever the number of workers.
func NarrowPhase(pairs []Pair, workersCount int) []*constraint.ContactConstraint {
	results := make([]*constraint.ContactConstraint, len(pairs))
	indices := make([]int, len(pairs))
	for i := range indices {
		indices[i] = i
	}

	task(workersCount, indices, func(i int) {
		results[i] = constraint.NewSphereContact(pairs[i].BodyA, pairs[i].BodyB)
	})

	contacts := results[:0]
	for _, c := range results {
		if c != nil {
			contacts = append(contacts, c)
		}
	}

	return contacts
}
