package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/akmonengine/handswarm/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

func TestStepRejectsNonPositiveDt(t *testing.T) {
	world := NewWorld(1.0, 64)

	for _, dt := range []float64{0, -1.0 / 60} {
		if err := world.Step(dt); err == nil {
			t.Errorf("Step(%v) returned nil, want an error", dt)
		}
	}
}

func TestStepIntegratesAccumulatedForce(t *testing.T) {
	world := NewWorld(1.0, 64)
	body := createTestSphere(mgl64.Vec3{0, 0, 0}, 0.5, actor.BodyTypeDynamic)
	world.AddBody(body)

	mass := body.Material.GetMass()
	force := mgl64.Vec3{2, 0, 0}
	dt := 0.1
	body.AddForce(force)

	if err := world.Step(dt); err != nil {
		t.Fatalf("Step returned %v", err)
	}

	// semi-implicit Euler: v = F/m dt, x = v dt
	wantVelocity := force.X() / mass * dt
	if math.Abs(body.Velocity.X()-wantVelocity) > epsilon {
		t.Errorf("velocity = %v, want %v", body.Velocity.X(), wantVelocity)
	}
	if math.Abs(body.Translation().X()-wantVelocity*dt) > epsilon {
		t.Errorf("position = %v, want %v", body.Translation().X(), wantVelocity*dt)
	}

	// the force is kept until reset
	if body.AccumulatedForce() != force {
		t.Errorf("accumulated force = %v, want %v", body.AccumulatedForce(), force)
	}
}

func TestStepLeavesKinematicBodiesInPlace(t *testing.T) {
	world := NewWorld(1.0, 64)
	proxy := createTestSphere(mgl64.Vec3{0, 0, 0}, 0.5, actor.BodyTypeKinematic)
	body := createTestSphere(mgl64.Vec3{0.6, 0, 0}, 0.5, actor.BodyTypeDynamic)
	world.AddBody(proxy)
	world.AddBody(body)

	for range 10 {
		if err := world.Step(1.0 / 60); err != nil {
			t.Fatalf("Step returned %v", err)
		}
	}

	if proxy.Translation() != (mgl64.Vec3{0, 0, 0}) {
		t.Errorf("kinematic body moved to %v", proxy.Translation())
	}
	if body.Translation().X() <= 0.6 {
		t.Errorf("dynamic body at %v was not pushed away", body.Translation())
	}
}

func TestStepSeparatesOverlappingBodies(t *testing.T) {
	world := NewWorld(1.0, 64)
	a := createTestSphere(mgl64.Vec3{0, 0, 0}, 0.5, actor.BodyTypeDynamic)
	b := createTestSphere(mgl64.Vec3{0.5, 0, 0}, 0.5, actor.BodyTypeDynamic)
	world.AddBody(a)
	world.AddBody(b)

	if err := world.Step(1.0 / 60); err != nil {
		t.Fatalf("Step returned %v", err)
	}

	if len(world.Contacts()) != 1 {
		t.Fatalf("got %d contacts, want 1", len(world.Contacts()))
	}
	distance := b.Translation().Sub(a.Translation()).Len()
	if distance <= 0.5 {
		t.Errorf("distance after step = %v, want more than 0.5", distance)
	}
	// equal masses move symmetrically
	if math.Abs(a.Translation().X()+b.Translation().X()-0.5) > 1e-6 {
		t.Errorf("center moved: a=%v b=%v", a.Translation(), b.Translation())
	}
}

func TestStepReportsInvalidBody(t *testing.T) {
	world := NewWorld(1.0, 64)
	body := createTestSphere(mgl64.Vec3{0, 0, 0}, 0.5, actor.BodyTypeDynamic)
	world.AddBody(body)
	body.AddForce(mgl64.Vec3{math.NaN(), 0, 0})

	err := world.Step(1.0 / 60)
	if !errors.Is(err, ErrInvalidBody) {
		t.Errorf("Step returned %v, want ErrInvalidBody", err)
	}
}

func TestStepWithWorkersMatchesSequential(t *testing.T) {
	build := func(workers int) *World {
		world := NewWorld(1.0, 256)
		world.Workers = workers
		for i := range 12 {
			p := mgl64.Vec3{float64(i%4) * 0.7, float64(i/4) * 0.7, 0}
			world.AddBody(createTestSphere(p, 0.4, actor.BodyTypeDynamic))
		}
		return world
	}

	sequential, parallel := build(1), build(4)
	for range 30 {
		for i := range sequential.Bodies {
			toCenter := sequential.Bodies[i].Translation().Mul(-0.1)
			sequential.Bodies[i].ResetForces()
			sequential.Bodies[i].AddForce(toCenter)
			parallel.Bodies[i].ResetForces()
			parallel.Bodies[i].AddForce(toCenter)
		}
		if err := sequential.Step(1.0 / 60); err != nil {
			t.Fatal(err)
		}
		if err := parallel.Step(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}

	for i := range sequential.Bodies {
		if !sequential.Bodies[i].Translation().ApproxEqualThreshold(parallel.Bodies[i].Translation(), 1e-12) {
			t.Errorf("body %d: sequential %v, parallel %v", i, sequential.Bodies[i].Translation(), parallel.Bodies[i].Translation())
		}
	}
}

func TestRemoveBody(t *testing.T) {
	world := NewWorld(1.0, 64)
	a := createTestSphere(mgl64.Vec3{0, 0, 0}, 0.5, actor.BodyTypeDynamic)
	b := createTestSphere(mgl64.Vec3{3, 0, 0}, 0.5, actor.BodyTypeDynamic)
	world.AddBody(a)
	world.AddBody(b)

	world.RemoveBody(a)
	world.RemoveBody(a)

	if len(world.Bodies) != 1 || world.Bodies[0] != b {
		t.Errorf("bodies after removal = %v", world.Bodies)
	}
}

func TestSubstepsSplitDt(t *testing.T) {
	world := NewWorld(1.0, 64)
	world.Substeps = 4
	body := createTestSphere(mgl64.Vec3{0, 0, 0}, 0.5, actor.BodyTypeDynamic)
	world.AddBody(body)
	world.Gravity = mgl64.Vec3{0, -10, 0}

	if err := world.Step(0.4); err != nil {
		t.Fatal(err)
	}

	// the velocity only depends on the total time
	if math.Abs(body.Velocity.Y()+4) > 1e-9 {
		t.Errorf("velocity = %v, want -4", body.Velocity.Y())
	}
	// h = 0.1: y = -10 h² (1+2+3+4)
	if math.Abs(body.Translation().Y()+1.0) > 1e-9 {
		t.Errorf("position = %v, want -1", body.Translation().Y())
	}
}
