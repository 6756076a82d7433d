package physics

import (
	"errors"
	"fmt"

	"github.com/akmonengine/handswarm/actor"
	"github.com/akmonengine/handswarm/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

const DEFAULT_WORKERS = 1

// ErrInvalidBody is returned by Step when a body holds NaN or Inf after
// integration or solving. The world must not be stepped again.
var ErrInvalidBody = errors.New("physics: body state is not finite")

type World struct {
	// List of all rigid bodies in the world
	Bodies []*actor.RigidBody
	// Gravity acceleration (m/s²)
	Gravity     mgl64.Vec3
	Substeps    int
	SpatialGrid *SpatialGrid
	Workers     int

	Events Events

	contacts []*constraint.ContactConstraint
}

// NewWorld creates a world without gravity, stepped once per call to Step.
// cellSize should be about the diameter of the largest collider.
func NewWorld(cellSize float64, numCells int) *World {
	return &World{
		Substeps:    1,
		SpatialGrid: NewSpatialGrid(cellSize, numCells),
		Workers:     DEFAULT_WORKERS,
		Events:      NewEvents(),
	}
}

// AddBody adds a rigid body to the world
func (w *World) AddBody(body *actor.RigidBody) {
	w.Bodies = append(w.Bodies, body)
}

// RemoveBody removes a rigid body from the world
func (w *World) RemoveBody(body *actor.RigidBody) {
	k := -1
	for i, b := range w.Bodies {
		if b == body {
			k = i
			break
		}
	}

	if k != -1 {
		w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)
	}
	w.Events.forget(body)
}

// Contacts returns the contacts solved during the last substep
func (w *World) Contacts() []*constraint.ContactConstraint {
	return w.contacts
}

// Step advances the world by dt. Forces accumulated on bodies are applied
// during every substep and are left for the caller to reset.
func (w *World) Step(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("physics: step dt must be positive, got %v", dt)
	}
	if w.SpatialGrid == nil {
		w.SpatialGrid = NewSpatialGrid(1.0, 1024)
	}
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	substeps := max(1, w.Substeps)
	h := dt / float64(substeps)

	for range substeps {
		w.integrate(h)
		if err := w.validate("integrate"); err != nil {
			return err
		}

		// broad phase then narrow phase
		w.contacts = w.detectCollision()
		w.Events.recordCollisions(w.contacts)

		// one solver iteration is enough with substeps
		w.solvePosition(h, w.contacts)
		w.update(h)
		w.solveVelocity(h, w.contacts)

		if err := w.validate("solve"); err != nil {
			return err
		}
	}

	w.Events.flush()

	return nil
}

func (w *World) integrate(h float64) {
	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.Integrate(h, w.Gravity)
	})
}

func (w *World) detectCollision() []*constraint.ContactConstraint {
	return NarrowPhase(BroadPhase(w.SpatialGrid, w.Bodies), w.Workers)
}

// solvePosition runs sequentially: two contacts may share a body
func (w *World) solvePosition(h float64, constraints []*constraint.ContactConstraint) {
	for _, c := range constraints {
		c.SolvePosition(h)
	}
}

func (w *World) update(h float64) {
	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.Update(h)
	})
}

func (w *World) solveVelocity(h float64, constraints []*constraint.ContactConstraint) {
	for _, c := range constraints {
		c.SolveVelocity(h)
	}
}

func (w *World) validate(phase string) error {
	for i, body := range w.Bodies {
		if !body.IsValid() {
			return fmt.Errorf("%w: body %d (%s) after %s", ErrInvalidBody, i, body.BodyType, phase)
		}
	}

	return nil
}
