package physics

import (
	"testing"

	"github.com/akmonengine/handswarm/actor"
	"github.com/akmonengine/handswarm/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

func createTestConstraint(bodyA, bodyB *actor.RigidBody) *constraint.ContactConstraint {
	return &constraint.ContactConstraint{
		BodyA:  bodyA,
		BodyB:  bodyB,
		Normal: mgl64.Vec3{1, 0, 0},
		Points: []constraint.ContactPoint{
			{Position: mgl64.Vec3{0, 0, 0}, Penetration: 0.1},
		},
	}
}

type eventCapture struct {
	events []Event
}

func (ec *eventCapture) capture(event Event) {
	ec.events = append(ec.events, event)
}

func (ec *eventCapture) reset() {
	ec.events = ec.events[:0]
}

func (ec *eventCapture) count(eventType EventType) int {
	n := 0
	for _, e := range ec.events {
		if e.Type() == eventType {
			n++
		}
	}
	return n
}

func subscribeAll(events *Events, capture *eventCapture) {
	events.Subscribe(COLLISION_ENTER, capture.capture)
	events.Subscribe(COLLISION_STAY, capture.capture)
	events.Subscribe(COLLISION_EXIT, capture.capture)
}

func TestEvents_Subscribe(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}

	events.Subscribe(COLLISION_ENTER, capture.capture)

	if len(events.listeners[COLLISION_ENTER]) != 1 {
		t.Errorf("Expected 1 listener for COLLISION_ENTER, got %d", len(events.listeners[COLLISION_ENTER]))
	}
}

func TestEvents_SubscribeOnZeroValue(t *testing.T) {
	var events Events
	capture := &eventCapture{}

	events.Subscribe(COLLISION_ENTER, capture.capture)
	a := createTestSphere(mgl64.Vec3{}, 1, actor.BodyTypeDynamic)
	b := createTestSphere(mgl64.Vec3{}, 1, actor.BodyTypeDynamic)
	events.recordCollisions([]*constraint.ContactConstraint{createTestConstraint(a, b)})
	events.flush()

	if capture.count(COLLISION_ENTER) != 1 {
		t.Errorf("Expected 1 enter event, got %d", capture.count(COLLISION_ENTER))
	}
}

func TestEvents_EnterStayExit(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	subscribeAll(&events, capture)

	a := createTestSphere(mgl64.Vec3{}, 1, actor.BodyTypeDynamic)
	b := createTestSphere(mgl64.Vec3{}, 1, actor.BodyTypeDynamic)
	contact := []*constraint.ContactConstraint{createTestConstraint(a, b)}

	steps := []struct {
		name     string
		contacts []*constraint.ContactConstraint
		expected EventType
	}{
		{"first contact", contact, COLLISION_ENTER},
		{"still touching", contact, COLLISION_STAY},
		{"separated", nil, COLLISION_EXIT},
	}

	for _, step := range steps {
		capture.reset()
		events.recordCollisions(step.contacts)
		events.flush()

		if len(capture.events) != 1 {
			t.Fatalf("%s: got %d events, want 1", step.name, len(capture.events))
		}
		if capture.events[0].Type() != step.expected {
			t.Errorf("%s: got %s, want %s", step.name, capture.events[0].Type(), step.expected)
		}
	}

	capture.reset()
	events.flush()
	if len(capture.events) != 0 {
		t.Errorf("no contact twice: got %d events, want 0", len(capture.events))
	}
}

func TestEvents_PairOrderDoesNotMatter(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	subscribeAll(&events, capture)

	a := createTestSphere(mgl64.Vec3{}, 1, actor.BodyTypeDynamic)
	b := createTestSphere(mgl64.Vec3{}, 1, actor.BodyTypeDynamic)

	events.recordCollisions([]*constraint.ContactConstraint{createTestConstraint(a, b)})
	events.flush()
	capture.reset()
	events.recordCollisions([]*constraint.ContactConstraint{createTestConstraint(b, a)})
	events.flush()

	if capture.count(COLLISION_STAY) != 1 {
		t.Errorf("swapped pair: got %v, want a single stay", capture.events)
	}
}

func TestEvents_ForgetRemovedBody(t *testing.T) {
	world := NewWorld(1.0, 64)
	capture := &eventCapture{}
	subscribeAll(&world.Events, capture)

	a := createTestSphere(mgl64.Vec3{0, 0, 0}, 0.5, actor.BodyTypeKinematic)
	b := createTestSphere(mgl64.Vec3{0.5, 0, 0}, 0.5, actor.BodyTypeDynamic)
	world.AddBody(a)
	world.AddBody(b)

	if err := world.Step(1.0 / 60); err != nil {
		t.Fatal(err)
	}
	if capture.count(COLLISION_ENTER) != 1 {
		t.Fatalf("got %d enter events, want 1", capture.count(COLLISION_ENTER))
	}

	capture.reset()
	world.RemoveBody(a)
	if err := world.Step(1.0 / 60); err != nil {
		t.Fatal(err)
	}
	if capture.count(COLLISION_EXIT) != 0 {
		t.Errorf("removed body produced %d exit events", capture.count(COLLISION_EXIT))
	}
}

func TestEventType_String(t *testing.T) {
	tests := map[EventType]string{
		COLLISION_ENTER: "collision_enter",
		COLLISION_STAY:  "collision_stay",
		COLLISION_EXIT:  "collision_exit",
	}
	for eventType, expected := range tests {
		if eventType.String() != expected {
			t.Errorf("String() = %q, want %q", eventType.String(), expected)
		}
	}
}
