package reactphysics3d

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/farpoke/reactphysics3d/contact"
	"github.com/farpoke/reactphysics3d/shape"
)

// eventBox creates a unit cube collider for event testing
func eventBox(id interface{}, position mgl64.Vec3, rotation mgl64.Quat) *Collider {
	return &Collider{
		Id:        id,
		Shape:     shape.NewBox(mgl64.Vec3{0.5, 0.5, 0.5}),
		Transform: shape.Transform{Position: position, Rotation: rotation},
	}
}

// contactResult fabricates a colliding narrow-phase result for a pair
func contactResult(pair *Pair) Result {
	var manifold contact.Manifold
	manifold.Add(mgl64.Vec3{1, 0, 0}, 0.1, mgl64.Vec3{}, mgl64.Vec3{})

	return Result{Pair: pair, Colliding: true, Manifold: manifold}
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

// =============================================================================
// Subscribe and Listeners Tests
// =============================================================================

func TestEvents_Subscribe(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}

	events.Subscribe(CONTACT_ENTER, capture.capture)

	// Verify listener is registered
	if len(events.listeners[CONTACT_ENTER]) != 1 {
		t.Errorf("Expected 1 listener for CONTACT_ENTER, got %d", len(events.listeners[CONTACT_ENTER]))
	}
}

func TestEvents_MultipleListeners(t *testing.T) {
	events := NewEvents()
	capture1 := &eventCapture{}
	capture2 := &eventCapture{}
	capture3 := &eventCapture{}

	// Subscribe multiple listeners to the same event type
	events.Subscribe(CONTACT_ENTER, capture1.capture)
	events.Subscribe(CONTACT_ENTER, capture2.capture)
	events.Subscribe(CONTACT_ENTER, capture3.capture)

	// Verify all listeners are registered
	if len(events.listeners[CONTACT_ENTER]) != 3 {
		t.Errorf("Expected 3 listeners for CONTACT_ENTER, got %d", len(events.listeners[CONTACT_ENTER]))
	}

	// Trigger an event
	a := eventBox("A", mgl64.Vec3{}, mgl64.QuatIdent())
	b := eventBox("B", mgl64.Vec3{0.9, 0, 0}, mgl64.QuatIdent())
	pair := &Pair{A: a, B: b}

	events.recordContacts([]Result{contactResult(pair)})
	events.flush()

	// All listeners should have received the event
	if capture1.count() != 1 {
		t.Errorf("Capture1 expected 1 event, got %d", capture1.count())
	}
	if capture2.count() != 1 {
		t.Errorf("Capture2 expected 1 event, got %d", capture2.count())
	}
	if capture3.count() != 1 {
		t.Errorf("Capture3 expected 1 event, got %d", capture3.count())
	}
}

func TestEvents_DifferentEventTypes(t *testing.T) {
	events := NewEvents()
	captureContact := &eventCapture{}
	captureOverlap := &eventCapture{}

	events.Subscribe(CONTACT_ENTER, captureContact.capture)
	events.Subscribe(OVERLAP_ENTER, captureOverlap.capture)

	// Record a contact without its broad-phase overlap
	a := eventBox("A", mgl64.Vec3{}, mgl64.QuatIdent())
	b := eventBox("B", mgl64.Vec3{0.9, 0, 0}, mgl64.QuatIdent())
	pair := &Pair{A: a, B: b}

	events.recordContacts([]Result{contactResult(pair)})
	events.flush()

	// Only the contact listener should receive an event
	if captureContact.count() != 1 {
		t.Errorf("Contact capture expected 1 event, got %d", captureContact.count())
	}
	if captureOverlap.count() != 0 {
		t.Errorf("Overlap capture expected 0 events, got %d", captureOverlap.count())
	}
}

// =============================================================================
// record Tests
// =============================================================================

func TestEvents_RecordOverlaps(t *testing.T) {
	events := NewEvents()

	a := eventBox("A", mgl64.Vec3{}, mgl64.QuatIdent())
	b := eventBox("B", mgl64.Vec3{0.9, 0, 0}, mgl64.QuatIdent())
	pair := &Pair{A: a, B: b}

	events.recordOverlaps([]*Pair{pair})

	if !events.currentOverlapPairs[makePairKey(a, b)] {
		t.Error("Overlapping pair should be recorded in currentOverlapPairs")
	}
}

func TestEvents_RecordContacts(t *testing.T) {
	events := NewEvents()

	a := eventBox("A", mgl64.Vec3{}, mgl64.QuatIdent())
	b := eventBox("B", mgl64.Vec3{0.9, 0, 0}, mgl64.QuatIdent())
	c := eventBox("C", mgl64.Vec3{0, 5, 0}, mgl64.QuatIdent())

	colliding := &Pair{A: a, B: b}
	separated := &Pair{A: a, B: c}

	events.recordContacts([]Result{
		contactResult(colliding),
		{Pair: separated, Colliding: false},
	})

	points, recorded := events.currentContacts[makePairKey(a, b)]
	if !recorded {
		t.Error("Colliding pair should be recorded in currentContacts")
	}
	if len(points) != 1 {
		t.Errorf("Expected the recorded contact to keep its 1 point, got %d", len(points))
	}

	if _, recorded := events.currentContacts[makePairKey(a, c)]; recorded {
		t.Error("Separated pair should not be recorded in currentContacts")
	}
}

// =============================================================================
// OVERLAP Events Tests
// =============================================================================

func TestEvents_OverlapEnter(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(OVERLAP_ENTER, capture.capture)

	a := eventBox("A", mgl64.Vec3{}, mgl64.QuatIdent())
	b := eventBox("B", mgl64.Vec3{0.9, 0, 0}, mgl64.QuatIdent())
	pair := &Pair{A: a, B: b}

	events.recordOverlaps([]*Pair{pair})
	events.flush()

	if !capture.hasEventType(OVERLAP_ENTER) {
		t.Error("Expected OVERLAP_ENTER event")
	}
	if capture.count() != 1 {
		t.Errorf("Expected 1 event, got %d", capture.count())
	}

	// Verify event contents
	event := capture.events[0].(OverlapEnterEvent)
	if event.ColliderA == nil || event.ColliderB == nil {
		t.Error("OverlapEnterEvent should have both colliders")
	}
}

func TestEvents_OverlapStay(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(OVERLAP_STAY, capture.capture)

	a := eventBox("A", mgl64.Vec3{}, mgl64.QuatIdent())
	b := eventBox("B", mgl64.Vec3{0.9, 0, 0}, mgl64.QuatIdent())
	pair := &Pair{A: a, B: b}

	// Frame 1: Enter (should not trigger STAY)
	events.recordOverlaps([]*Pair{pair})
	events.flush()

	if capture.hasEventType(OVERLAP_STAY) {
		t.Error("OVERLAP_STAY should not occur on first frame")
	}

	capture.reset()

	// Frame 2: Stay
	events.recordOverlaps([]*Pair{pair})
	events.flush()

	if !capture.hasEventType(OVERLAP_STAY) {
		t.Error("Expected OVERLAP_STAY event on second frame")
	}
}

func TestEvents_OverlapExit(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(OVERLAP_EXIT, capture.capture)

	a := eventBox("A", mgl64.Vec3{}, mgl64.QuatIdent())
	b := eventBox("B", mgl64.Vec3{0.9, 0, 0}, mgl64.QuatIdent())
	pair := &Pair{A: a, B: b}

	// Frame 1: Enter
	events.recordOverlaps([]*Pair{pair})
	events.flush()

	capture.reset()

	// Frame 2: Exit (no overlap)
	events.recordOverlaps([]*Pair{})
	events.flush()

	if !capture.hasEventType(OVERLAP_EXIT) {
		t.Error("Expected OVERLAP_EXIT event")
	}
}

// =============================================================================
// CONTACT Events Tests
// =============================================================================

func TestEvents_ContactEnter(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(CONTACT_ENTER, capture.capture)

	a := eventBox("A", mgl64.Vec3{}, mgl64.QuatIdent())
	b := eventBox("B", mgl64.Vec3{0.9, 0, 0}, mgl64.QuatIdent())
	pair := &Pair{A: a, B: b}

	events.recordContacts([]Result{contactResult(pair)})
	events.flush()

	if !capture.hasEventType(CONTACT_ENTER) {
		t.Error("Expected CONTACT_ENTER event")
	}
	if capture.count() != 1 {
		t.Errorf("Expected 1 event, got %d", capture.count())
	}

	// Verify event contents, including the contact points of the frame
	event := capture.events[0].(ContactEnterEvent)
	if event.ColliderA == nil || event.ColliderB == nil {
		t.Error("ContactEnterEvent should have both colliders")
	}
	if len(event.Points) != 1 {
		t.Errorf("Expected the event to carry 1 contact point, got %d", len(event.Points))
	}
}

func TestEvents_ContactStay(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(CONTACT_STAY, capture.capture)

	a := eventBox("A", mgl64.Vec3{}, mgl64.QuatIdent())
	b := eventBox("B", mgl64.Vec3{0.9, 0, 0}, mgl64.QuatIdent())
	pair := &Pair{A: a, B: b}

	// Frame 1: Enter (should not trigger STAY)
	events.recordContacts([]Result{contactResult(pair)})
	events.flush()

	if capture.hasEventType(CONTACT_STAY) {
		t.Error("CONTACT_STAY should not occur on first frame")
	}

	capture.reset()

	// Frame 2: Stay
	events.recordContacts([]Result{contactResult(pair)})
	events.flush()

	if !capture.hasEventType(CONTACT_STAY) {
		t.Error("Expected CONTACT_STAY event on second frame")
	}

	event := capture.events[0].(ContactStayEvent)
	if len(event.Points) != 1 {
		t.Errorf("Expected the stay event to carry the fresh points, got %d", len(event.Points))
	}
}

func TestEvents_ContactExit(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(CONTACT_EXIT, capture.capture)

	a := eventBox("A", mgl64.Vec3{}, mgl64.QuatIdent())
	b := eventBox("B", mgl64.Vec3{0.9, 0, 0}, mgl64.QuatIdent())
	pair := &Pair{A: a, B: b}

	// Frame 1: Enter
	events.recordContacts([]Result{contactResult(pair)})
	events.flush()

	capture.reset()

	// Frame 2: Exit (no contact)
	events.recordContacts([]Result{})
	events.flush()

	if !capture.hasEventType(CONTACT_EXIT) {
		t.Error("Expected CONTACT_EXIT event")
	}
}

// =============================================================================
// Integration Tests
// =============================================================================

func TestEvents_CompleteWorkflow(t *testing.T) {
	events := NewEvents()
	captureEnter := &eventCapture{}
	captureStay := &eventCapture{}
	captureExit := &eventCapture{}

	events.Subscribe(CONTACT_ENTER, captureEnter.capture)
	events.Subscribe(CONTACT_STAY, captureStay.capture)
	events.Subscribe(CONTACT_EXIT, captureExit.capture)

	a := eventBox("A", mgl64.Vec3{}, mgl64.QuatIdent())
	b := eventBox("B", mgl64.Vec3{0.9, 0, 0}, mgl64.QuatIdent())
	pair := &Pair{A: a, B: b}

	// Frame 1: Enter
	events.recordContacts([]Result{contactResult(pair)})
	events.flush()

	if captureEnter.count() != 1 {
		t.Errorf("Frame 1: Expected 1 ENTER event, got %d", captureEnter.count())
	}
	if captureStay.count() != 0 {
		t.Errorf("Frame 1: Expected 0 STAY events, got %d", captureStay.count())
	}
	if captureExit.count() != 0 {
		t.Errorf("Frame 1: Expected 0 EXIT events, got %d", captureExit.count())
	}

	// Frame 2: Stay
	captureEnter.reset()
	events.recordContacts([]Result{contactResult(pair)})
	events.flush()

	if captureEnter.count() != 0 {
		t.Errorf("Frame 2: Expected 0 ENTER events, got %d", captureEnter.count())
	}
	if captureStay.count() != 1 {
		t.Errorf("Frame 2: Expected 1 STAY event, got %d", captureStay.count())
	}
	if captureExit.count() != 0 {
		t.Errorf("Frame 2: Expected 0 EXIT events, got %d", captureExit.count())
	}

	// Frame 3: Exit
	captureStay.reset()
	events.recordContacts([]Result{})
	events.flush()

	if captureEnter.count() != 0 {
		t.Errorf("Frame 3: Expected 0 ENTER events, got %d", captureEnter.count())
	}
	if captureStay.count() != 0 {
		t.Errorf("Frame 3: Expected 0 STAY events, got %d", captureStay.count())
	}
	if captureExit.count() != 1 {
		t.Errorf("Frame 3: Expected 1 EXIT event, got %d", captureExit.count())
	}
}

// The bounding boxes of a tilted cube reach further than its faces: the
// pair overlaps for the broad phase while the narrow phase keeps them
// apart, until the cubes really meet.
func TestWorldDetect_EventLifecycle(t *testing.T) {
	world := World{Events: NewEvents()}

	cube := eventBox("cube", mgl64.Vec3{}, mgl64.QuatIdent())
	diamond := eventBox("diamond", mgl64.Vec3{3, 3, 0},
		mgl64.QuatRotate(mgl64.DegToRad(45), mgl64.Vec3{0, 0, 1}))
	world.AddCollider(cube)
	world.AddCollider(diamond)

	captureOverlapEnter := &eventCapture{}
	captureOverlapExit := &eventCapture{}
	captureContactEnter := &eventCapture{}
	captureContactStay := &eventCapture{}
	captureContactExit := &eventCapture{}

	world.Events.Subscribe(OVERLAP_ENTER, captureOverlapEnter.capture)
	world.Events.Subscribe(OVERLAP_EXIT, captureOverlapExit.capture)
	world.Events.Subscribe(CONTACT_ENTER, captureContactEnter.capture)
	world.Events.Subscribe(CONTACT_STAY, captureContactStay.capture)
	world.Events.Subscribe(CONTACT_EXIT, captureContactExit.capture)

	resetAll := func() {
		captureOverlapEnter.reset()
		captureOverlapExit.reset()
		captureContactEnter.reset()
		captureContactStay.reset()
		captureContactExit.reset()
	}

	// Frame 1: far apart, nothing happens
	results := world.Detect()
	if len(results) != 0 {
		t.Fatalf("Frame 1: expected no pairs, got %d", len(results))
	}
	if captureOverlapEnter.count() != 0 {
		t.Errorf("Frame 1: expected no overlap yet")
	}

	// Frame 2: the AABBs overlap but the faces stay apart
	diamond.Transform.Position = mgl64.Vec3{0.95, 0.95, 0}
	results = world.Detect()

	if len(results) != 1 || results[0].Colliding {
		t.Fatalf("Frame 2: expected one separated pair")
	}
	if captureOverlapEnter.count() != 1 {
		t.Errorf("Frame 2: expected 1 OVERLAP_ENTER, got %d", captureOverlapEnter.count())
	}
	if captureContactEnter.count() != 0 {
		t.Errorf("Frame 2: expected no contact while separated, got %d", captureContactEnter.count())
	}

	// Frame 3: the diamond face reaches the cube corner
	resetAll()
	diamond.Transform.Position = mgl64.Vec3{0.8, 0.8, 0}
	results = world.Detect()

	if len(results) != 1 || !results[0].Colliding {
		t.Fatalf("Frame 3: expected the pair to collide")
	}
	if captureContactEnter.count() != 1 {
		t.Errorf("Frame 3: expected 1 CONTACT_ENTER, got %d", captureContactEnter.count())
	}

	event := captureContactEnter.events[0].(ContactEnterEvent)
	if len(event.Points) == 0 {
		t.Error("Frame 3: expected the contact event to carry points")
	}
	ids := map[interface{}]bool{event.ColliderA.Id: true, event.ColliderB.Id: true}
	if !ids["cube"] || !ids["diamond"] {
		t.Errorf("Frame 3: expected the event to name both colliders, got %v", ids)
	}

	// Frame 4: still touching
	resetAll()
	results = world.Detect()

	if captureContactEnter.count() != 0 {
		t.Errorf("Frame 4: expected no second CONTACT_ENTER")
	}
	if captureContactStay.count() != 1 {
		t.Errorf("Frame 4: expected 1 CONTACT_STAY, got %d", captureContactStay.count())
	}

	// Frame 5: gone
	resetAll()
	diamond.Transform.Position = mgl64.Vec3{5, 5, 0}
	results = world.Detect()

	if len(results) != 0 {
		t.Fatalf("Frame 5: expected the pair to be dropped, got %d results", len(results))
	}
	if captureContactExit.count() != 1 {
		t.Errorf("Frame 5: expected 1 CONTACT_EXIT, got %d", captureContactExit.count())
	}
	if captureOverlapExit.count() != 1 {
		t.Errorf("Frame 5: expected 1 OVERLAP_EXIT, got %d", captureOverlapExit.count())
	}
}

func TestWorld_RemoveCollider_DropsTracking(t *testing.T) {
	world := World{Events: NewEvents()}

	a := eventBox("A", mgl64.Vec3{}, mgl64.QuatIdent())
	b := eventBox("B", mgl64.Vec3{0.9, 0, 0}, mgl64.QuatIdent())
	world.AddCollider(a)
	world.AddCollider(b)

	captureExit := &eventCapture{}
	world.Events.Subscribe(CONTACT_EXIT, captureExit.capture)
	world.Events.Subscribe(OVERLAP_EXIT, captureExit.capture)

	// Frame 1: the cubes touch
	results := world.Detect()
	if len(results) != 1 || !results[0].Colliding {
		t.Fatalf("Expected the cubes to collide")
	}

	// The removed collider takes its pair history with it
	world.RemoveCollider(b)

	if len(world.Colliders) != 1 || world.Colliders[0] != a {
		t.Errorf("Expected only collider A to remain")
	}

	results = world.Detect()
	if len(results) != 0 {
		t.Fatalf("Expected no pairs after the removal, got %d", len(results))
	}
	if captureExit.count() != 0 {
		t.Errorf("Expected no Exit events for a removed collider, got %d", captureExit.count())
	}
}

// =============================================================================
// Edge Cases Tests
// =============================================================================

func TestEvents_Flush_ClearsBuffer(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(CONTACT_ENTER, capture.capture)

	a := eventBox("A", mgl64.Vec3{}, mgl64.QuatIdent())
	b := eventBox("B", mgl64.Vec3{0.9, 0, 0}, mgl64.QuatIdent())
	pair := &Pair{A: a, B: b}

	// Add events to buffer
	events.recordContacts([]Result{contactResult(pair)})
	events.flush()

	// Buffer should be cleared after flush
	if len(events.buffer) != 0 {
		t.Errorf("Expected buffer to be empty after flush, got %d events", len(events.buffer))
	}

	// Listener should have received the event
	if capture.count() != 1 {
		t.Errorf("Expected 1 event received, got %d", capture.count())
	}
}

func TestEvents_EmptyBuffer_Flush(t *testing.T) {
	events := NewEvents()

	// Flush with empty buffer should not crash
	events.flush()
}

func TestEvents_NoListeners(t *testing.T) {
	events := NewEvents()

	a := eventBox("A", mgl64.Vec3{}, mgl64.QuatIdent())
	b := eventBox("B", mgl64.Vec3{0.9, 0, 0}, mgl64.QuatIdent())
	pair := &Pair{A: a, B: b}

	// Process events without any listeners
	events.recordOverlaps([]*Pair{pair})
	events.recordContacts([]Result{contactResult(pair)})
	events.flush()
}

func TestEvents_MultipleFrames_EnterExitEnter(t *testing.T) {
	events := NewEvents()
	captureEnter := &eventCapture{}
	captureExit := &eventCapture{}

	events.Subscribe(CONTACT_ENTER, captureEnter.capture)
	events.Subscribe(CONTACT_EXIT, captureExit.capture)

	a := eventBox("A", mgl64.Vec3{}, mgl64.QuatIdent())
	b := eventBox("B", mgl64.Vec3{0.9, 0, 0}, mgl64.QuatIdent())
	pair := &Pair{A: a, B: b}

	// Frame 1: Enter
	events.recordContacts([]Result{contactResult(pair)})
	events.flush()

	if captureEnter.count() != 1 {
		t.Error("Expected ENTER on frame 1")
	}

	// Frame 2: Exit
	captureEnter.reset()
	events.recordContacts([]Result{})
	events.flush()

	if captureExit.count() != 1 {
		t.Error("Expected EXIT on frame 2")
	}

	// Frame 3: Enter again
	captureExit.reset()
	events.recordContacts([]Result{contactResult(pair)})
	events.flush()

	if captureEnter.count() != 1 {
		t.Error("Expected ENTER again on frame 3")
	}
}
