package sinew

import (
	"testing"

	"github.com/akmonengine/sinew/actor"
	"github.com/akmonengine/sinew/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

type eventCapture struct {
	events []Event
}

func (ec *eventCapture) capture(event Event) {
	ec.events = append(ec.events, event)
}

func (ec *eventCapture) reset() {
	ec.events = ec.events[:0]
}

func (ec *eventCapture) count() int {
	return len(ec.events)
}

func (ec *eventCapture) hasEventType(eventType EventType) bool {
	for _, e := range ec.events {
		if e.Type() == eventType {
			return true
		}
	}
	return false
}

// createLimitedHinge returns a hinge limited to [-0.5, 0.5] and a helper moving it
func createLimitedHinge() (*constraint.Hinge, func(angle, omega float64)) {
	ground := createTestBody("ground", mgl64.Vec3{}, actor.BodyTypeStatic)
	door := createTestBody("door", mgl64.Vec3{}, actor.BodyTypeDynamic)
	hinge := constraint.NewHinge(mgl64.Ident4(), door, ground)
	hinge.EnableLimits(true, -0.5, 0.5)

	step := func(angle, omega float64) {
		door.Transform.Rotation = mgl64.QuatRotate(angle, mgl64.Vec3{1, 0, 0})
		door.AngularVelocity = mgl64.Vec3{omega, 0, 0}
		if err := constraint.Submit(hinge, constraint.NewDescriptor(constraint.MaxDOF), testTimestep); err != nil {
			panic(err)
		}
	}
	return hinge, step
}

// =============================================================================
// Subscribe and Listeners Tests
// =============================================================================

func TestEvents_Subscribe(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}

	events.Subscribe(LIMIT_REACHED, capture.capture)

	if len(events.listeners[LIMIT_REACHED]) != 1 {
		t.Errorf("Expected 1 listener for LIMIT_REACHED, got %d", len(events.listeners[LIMIT_REACHED]))
	}
}

func TestEvents_MultipleListeners(t *testing.T) {
	events := NewEvents()
	captures := []*eventCapture{{}, {}, {}}
	for _, capture := range captures {
		events.Subscribe(LIMIT_REACHED, capture.capture)
	}

	hinge, step := createLimitedHinge()
	step(0.7, 0)
	events.processLimitEvents([]constraint.Joint{hinge})
	events.flush()

	for i, capture := range captures {
		if capture.count() != 1 {
			t.Errorf("Capture%d expected 1 event, got %d", i+1, capture.count())
		}
	}
}

// =============================================================================
// Limit Events Tests
// =============================================================================

func TestEvents_LimitReached(t *testing.T) {
	tests := []struct {
		name     string
		angle    float64
		wantSide constraint.LimitSide
	}{
		{"upper", 0.7, constraint.LimitUpper},
		{"lower", -0.7, constraint.LimitLower},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := NewEvents()
			capture := &eventCapture{}
			events.Subscribe(LIMIT_REACHED, capture.capture)

			hinge, step := createLimitedHinge()
			step(tt.angle, 0)
			events.processLimitEvents([]constraint.Joint{hinge})
			events.flush()

			if capture.count() != 1 {
				t.Fatalf("Expected 1 event, got %d", capture.count())
			}
			event := capture.events[0].(LimitReachedEvent)
			if event.Hinge != hinge || event.Side != tt.wantSide {
				t.Errorf("LimitReachedEvent = %+v, want side %v", event, tt.wantSide)
			}
			if event.Angle != hinge.Angle() {
				t.Errorf("Angle = %v, want %v", event.Angle, hinge.Angle())
			}
		})
	}
}

func TestEvents_LimitStay_NoRepeat(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(LIMIT_REACHED, capture.capture)
	events.Subscribe(LIMIT_RELEASED, capture.capture)

	hinge, step := createLimitedHinge()
	for i := 0; i < 4; i++ {
		step(0.7, 0)
		events.processLimitEvents([]constraint.Joint{hinge})
		events.flush()
	}

	if capture.count() != 1 {
		t.Errorf("Expected 1 event over 4 frames at the limit, got %d", capture.count())
	}
}

func TestEvents_LimitReleased(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(LIMIT_RELEASED, capture.capture)

	hinge, step := createLimitedHinge()
	step(0.7, 0)
	events.processLimitEvents([]constraint.Joint{hinge})
	events.flush()

	// back inside, still pushing on the bound
	step(0.45, 1)
	events.processLimitEvents([]constraint.Joint{hinge})
	events.flush()
	if capture.count() != 0 {
		t.Fatalf("Expected no release while pushing on the bound, got %d", capture.count())
	}

	step(0.4, -1)
	events.processLimitEvents([]constraint.Joint{hinge})
	events.flush()

	if capture.count() != 1 {
		t.Fatalf("Expected 1 LIMIT_RELEASED, got %d", capture.count())
	}
	if event := capture.events[0].(LimitReleasedEvent); event.Side != constraint.LimitUpper {
		t.Errorf("Released side = %v, want upper", event.Side)
	}
}

func TestEvents_LimitSwitchSide(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(LIMIT_REACHED, capture.capture)
	events.Subscribe(LIMIT_RELEASED, capture.capture)

	hinge, step := createLimitedHinge()
	step(0.7, 0)
	events.processLimitEvents([]constraint.Joint{hinge})
	events.flush()
	capture.reset()

	step(-0.7, 0)
	events.processLimitEvents([]constraint.Joint{hinge})
	events.flush()

	if capture.count() != 2 {
		t.Fatalf("Expected release then reach, got %d events", capture.count())
	}
	if capture.events[0].Type() != LIMIT_RELEASED || capture.events[1].Type() != LIMIT_REACHED {
		t.Errorf("Unexpected order: %v", capture.events)
	}
}

func TestEvents_LimitIgnoresOtherJoints(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(LIMIT_REACHED, capture.capture)

	ground := createTestBody("ground", mgl64.Vec3{}, actor.BodyTypeStatic)
	hand := createTestBody("hand", mgl64.Vec3{}, actor.BodyTypeDynamic)
	effector := constraint.NewIkSwivelPositionEffector(mgl64.Ident4(), mgl64.Ident4(), mgl64.Ident4(), hand, ground)

	events.processLimitEvents([]constraint.Joint{effector})
	events.flush()

	if capture.count() != 0 || len(events.limitStates) != 0 {
		t.Errorf("Effector should not produce limit events or state")
	}
}

func TestEvents_ForgetJoint(t *testing.T) {
	events := NewEvents()
	hinge, step := createLimitedHinge()
	step(0.7, 0)
	events.processLimitEvents([]constraint.Joint{hinge})

	events.forgetJoint(hinge)

	if _, ok := events.limitStates[hinge]; ok {
		t.Error("Expected the hinge state to be dropped")
	}
}

// =============================================================================
// Sleep/Wake Events Tests
// =============================================================================

func TestEvents_OnSleep(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(ON_SLEEP, capture.capture)

	// Body starts awake
	body := createTestBody("A", mgl64.Vec3{}, actor.BodyTypeDynamic)
	bodies := []*actor.RigidBody{body}

	// Frame 1: Initialize state
	events.processSleepEvents(bodies)
	events.flush()

	if capture.count() != 0 {
		t.Errorf("Expected no events on initialization, got %d", capture.count())
	}

	// Frame 2: Body goes to sleep
	body.IsSleeping = true
	events.processSleepEvents(bodies)
	events.flush()

	if capture.count() != 1 {
		t.Fatalf("Expected 1 event, got %d", capture.count())
	}
	if event := capture.events[0].(SleepEvent); event.Body != body {
		t.Error("SleepEvent should contain the correct body")
	}
}

func TestEvents_OnWake(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(ON_WAKE, capture.capture)

	body := createTestBody("A", mgl64.Vec3{}, actor.BodyTypeDynamic)
	body.IsSleeping = true
	bodies := []*actor.RigidBody{body}

	events.processSleepEvents(bodies)
	events.flush()

	body.IsSleeping = false
	events.processSleepEvents(bodies)
	events.flush()

	if capture.count() != 1 || !capture.hasEventType(ON_WAKE) {
		t.Errorf("Expected 1 ON_WAKE event, got %v", capture.events)
	}
}

func TestEvents_ForgetBody(t *testing.T) {
	events := NewEvents()
	body := createTestBody("A", mgl64.Vec3{}, actor.BodyTypeDynamic)
	events.processSleepEvents([]*actor.RigidBody{body})

	events.forgetBody(body)

	if _, ok := events.sleepStates[body]; ok {
		t.Error("Expected the body state to be dropped")
	}
}

// =============================================================================
// Flush Tests
// =============================================================================

func TestEvents_Flush_ClearsBuffer(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(LIMIT_REACHED, capture.capture)

	hinge, step := createLimitedHinge()
	step(0.7, 0)
	events.processLimitEvents([]constraint.Joint{hinge})

	if len(events.buffer) != 1 {
		t.Fatalf("Expected 1 buffered event, got %d", len(events.buffer))
	}

	events.flush()
	events.flush()

	if len(events.buffer) != 0 {
		t.Errorf("Expected empty buffer after flush, got %d", len(events.buffer))
	}
	if capture.count() != 1 {
		t.Errorf("Expected the event to be delivered once, got %d", capture.count())
	}
}

func TestEvents_NoListeners(t *testing.T) {
	events := NewEvents()
	hinge, step := createLimitedHinge()
	step(0.7, 0)
	events.processLimitEvents([]constraint.Joint{hinge})

	// Should not panic
	events.flush()
}
