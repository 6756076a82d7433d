package physics

import (
	"unsafe"

	"github.com/akmonengine/handswarm/actor"
	"github.com/akmonengine/handswarm/constraint"
)

const (
	COLLISION_ENTER EventType = iota
	COLLISION_STAY
	COLLISION_EXIT
)

type EventType uint8

func (t EventType) String() string {
	switch t {
	case COLLISION_ENTER:
		return "collision_enter"
	case COLLISION_STAY:
		return "collision_stay"
	case COLLISION_EXIT:
		return "collision_exit"
	}

	return "unknown"
}

type pairKey struct {
	bodyA *actor.RigidBody
	bodyB *actor.RigidBody
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(bodyA, bodyB *actor.RigidBody) pairKey {
	if uintptr(unsafe.Pointer(bodyB)) < uintptr(unsafe.Pointer(bodyA)) {
		bodyA, bodyB = bodyB, bodyA
	}

	return pairKey{bodyA: bodyA, bodyB: bodyB}
}

// Event is published once per World.Step, after the last substep
type Event interface {
	Type() EventType
	Bodies() (*actor.RigidBody, *actor.RigidBody)
}

type CollisionEnterEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }
func (e CollisionEnterEvent) Bodies() (*actor.RigidBody, *actor.RigidBody) {
	return e.BodyA, e.BodyB
}

type CollisionStayEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }
func (e CollisionStayEvent) Bodies() (*actor.RigidBody, *actor.RigidBody) {
	return e.BodyA, e.BodyB
}

type CollisionExitEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }
func (e CollisionExitEvent) Bodies() (*actor.RigidBody, *actor.RigidBody) {
	return e.BodyA, e.BodyB
}

// EventListener - callback for events
type EventListener func(event Event)

// Events tracks contact pairs across steps and dispatches Enter/Stay/Exit
type Events struct {
	listeners map[EventType][]EventListener
	buffer    []Event

	previousActivePairs map[pairKey]bool
	currentActivePairs  map[pairKey]bool
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 64),
		previousActivePairs: make(map[pairKey]bool),
		currentActivePairs:  make(map[pairKey]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	if e.listeners == nil {
		*e = NewEvents()
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordCollisions is called every substep with the contacts found
func (e *Events) recordCollisions(constraints []*constraint.ContactConstraint) {
	if e.currentActivePairs == nil {
		return
	}
	for _, c := range constraints {
		e.currentActivePairs[makePairKey(c.BodyA, c.BodyB)] = true
	}
}

// forget drops any pair involving body
func (e *Events) forget(body *actor.RigidBody) {
	for pair := range e.previousActivePairs {
		if pair.bodyA == body || pair.bodyB == body {
			delete(e.previousActivePairs, pair)
		}
	}
}

// processCollisionEvents compares current and previous pairs
func (e *Events) processCollisionEvents() {
	for pair := range e.currentActivePairs {
		if e.previousActivePairs[pair] {
			e.buffer = append(e.buffer, CollisionStayEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		} else {
			e.buffer = append(e.buffer, CollisionEnterEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		}
	}

	for pair := range e.previousActivePairs {
		if !e.currentActivePairs[pair] {
			e.buffer = append(e.buffer, CollisionExitEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		}
	}

	// swap for next step and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	clear(e.currentActivePairs)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	if e.currentActivePairs == nil {
		return
	}
	e.processCollisionEvents()

	for _, event := range e.buffer {
		for _, listener := range e.listeners[event.Type()] {
			listener(event)
		}
	}
	e.buffer = e.buffer[:0]
}
