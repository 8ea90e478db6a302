package sinew

import (
	"github.com/akmonengine/sinew/actor"
	"github.com/akmonengine/sinew/constraint"
)

const (
	LIMIT_REACHED EventType = iota
	LIMIT_RELEASED
	ON_SLEEP
	ON_WAKE
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Limit events
type LimitReachedEvent struct {
	Hinge *constraint.Hinge
	Side  constraint.LimitSide
	Angle float64
}

func (e LimitReachedEvent) Type() EventType { return LIMIT_REACHED }

type LimitReleasedEvent struct {
	Hinge *constraint.Hinge
	Side  constraint.LimitSide
	Angle float64
}

func (e LimitReleasedEvent) Type() EventType { return LIMIT_RELEASED }

// Sleep/Wake events
type SleepEvent struct {
	Body *actor.RigidBody
}

func (e SleepEvent) Type() EventType { return ON_SLEEP }

type WakeEvent struct {
	Body *actor.RigidBody
}

func (e WakeEvent) Type() EventType { return ON_WAKE }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Limit state of every hinge seen at the previous step
	limitStates map[*constraint.Hinge]constraint.HingeLimit

	sleepStates map[*actor.RigidBody]bool
}

func NewEvents() Events {
	return Events{
		listeners:   make(map[EventType][]EventListener),
		buffer:      make([]Event, 0, 64),
		limitStates: make(map[*constraint.Hinge]constraint.HingeLimit),
		sleepStates: make(map[*actor.RigidBody]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// processLimitEvents compares the hinge limit states with the previous step.
// A hinge seen for the first time is compared with a free limit.
func (e *Events) processLimitEvents(joints []constraint.Joint) {
	for _, joint := range joints {
		hinge, ok := joint.(*constraint.Hinge)
		if !ok {
			continue
		}

		previous := e.limitStates[hinge]
		current := hinge.LimitState()
		e.limitStates[hinge] = current

		wasReached := previous.State == constraint.HingeLimitReached
		isReached := current.State == constraint.HingeLimitReached

		if wasReached && (!isReached || previous.Side != current.Side) {
			e.buffer = append(e.buffer, LimitReleasedEvent{Hinge: hinge, Side: previous.Side, Angle: hinge.Angle()})
		}
		if isReached && (!wasReached || previous.Side != current.Side) {
			e.buffer = append(e.buffer, LimitReachedEvent{Hinge: hinge, Side: current.Side, Angle: hinge.Angle()})
		}
	}
}

func (e *Events) processSleepEvents(bodies []*actor.RigidBody) {
	for _, body := range bodies {
		trackedState, exists := e.sleepStates[body]
		if !exists {
			e.sleepStates[body] = body.IsSleeping
			continue
		}

		if !trackedState && body.IsSleeping {
			e.buffer = append(e.buffer, SleepEvent{Body: body})
			e.sleepStates[body] = true
		} else if trackedState && !body.IsSleeping {
			e.buffer = append(e.buffer, WakeEvent{Body: body})
			e.sleepStates[body] = false
		}
	}
}

// forgetBody drops the tracked state of a removed body
func (e *Events) forgetBody(body *actor.RigidBody) {
	delete(e.sleepStates, body)
}

// forgetJoint drops the tracked state of a removed joint
func (e *Events) forgetJoint(joint constraint.Joint) {
	if hinge, ok := joint.(*constraint.Hinge); ok {
		delete(e.limitStates, hinge)
	}
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
