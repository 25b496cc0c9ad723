package reactphysics3d

import (
	"github.com/farpoke/reactphysics3d/contact"
)

const (
	OVERLAP_ENTER EventType = iota
	CONTACT_ENTER
	OVERLAP_STAY
	CONTACT_STAY
	OVERLAP_EXIT
	CONTACT_EXIT
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Overlap events: the bounding boxes of two colliders overlap, whether
// or not the shapes actually touch
type OverlapEnterEvent struct {
	ColliderA *Collider
	ColliderB *Collider
}

func (e OverlapEnterEvent) Type() EventType { return OVERLAP_ENTER }

type OverlapStayEvent struct {
	ColliderA *Collider
	ColliderB *Collider
}

func (e OverlapStayEvent) Type() EventType { return OVERLAP_STAY }

type OverlapExitEvent struct {
	ColliderA *Collider
	ColliderB *Collider
}

func (e OverlapExitEvent) Type() EventType { return OVERLAP_EXIT }

// Contact events: the narrow phase confirmed the shapes touch. Enter
// and Stay carry the contact points of the frame.
type ContactEnterEvent struct {
	ColliderA *Collider
	ColliderB *Collider
	Points    []contact.Point
}

func (e ContactEnterEvent) Type() EventType { return CONTACT_ENTER }

type ContactStayEvent struct {
	ColliderA *Collider
	ColliderB *Collider
	Points    []contact.Point
}

func (e ContactStayEvent) Type() EventType { return CONTACT_STAY }

type ContactExitEvent struct {
	ColliderA *Collider
	ColliderB *Collider
}

func (e ContactExitEvent) Type() EventType { return CONTACT_EXIT }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Pair tracking for Enter/Stay/Exit detection
	previousOverlapPairs map[pairKey]bool
	currentOverlapPairs  map[pairKey]bool

	previousContacts map[pairKey][]contact.Point
	currentContacts  map[pairKey][]contact.Point
}

func NewEvents() Events {
	return Events{
		listeners:            make(map[EventType][]EventListener),
		buffer:               make([]Event, 0, 256),
		previousOverlapPairs: make(map[pairKey]bool),
		currentOverlapPairs:  make(map[pairKey]bool),
		previousContacts:     make(map[pairKey][]contact.Point),
		currentContacts:      make(map[pairKey][]contact.Point),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordOverlaps is called once per frame with the broad-phase pairs
func (e *Events) recordOverlaps(pairs []*Pair) {
	for _, pair := range pairs {
		e.currentOverlapPairs[makePairKey(pair.A, pair.B)] = true
	}
}

// recordContacts is called once per frame with the narrow-phase results
func (e *Events) recordContacts(results []Result) {
	for _, result := range results {
		if !result.Colliding {
			continue
		}

		key := makePairKey(result.Pair.A, result.Pair.B)
		e.currentContacts[key] = result.Manifold.Points
	}
}

// processPairEvents compares current and previous pairs to detect Enter/Stay/Exit
// Should be called after the frame's detection
func (e *Events) processPairEvents() {
	// Detect Enter and Stay events
	for pair := range e.currentOverlapPairs {
		if e.previousOverlapPairs[pair] {
			// Pair was overlapping before and still is, Stay
			e.buffer = append(e.buffer, OverlapStayEvent{
				ColliderA: pair.a,
				ColliderB: pair.b,
			})
		} else {
			// New pair, Enter
			e.buffer = append(e.buffer, OverlapEnterEvent{
				ColliderA: pair.a,
				ColliderB: pair.b,
			})
		}
	}

	for pair, points := range e.currentContacts {
		if _, stay := e.previousContacts[pair]; stay {
			e.buffer = append(e.buffer, ContactStayEvent{
				ColliderA: pair.a,
				ColliderB: pair.b,
				Points:    points,
			})
		} else {
			e.buffer = append(e.buffer, ContactEnterEvent{
				ColliderA: pair.a,
				ColliderB: pair.b,
				Points:    points,
			})
		}
	}

	// Detect Exit events
	for pair := range e.previousOverlapPairs {
		if !e.currentOverlapPairs[pair] {
			// Pair was overlapping but is no longer, Exit
			e.buffer = append(e.buffer, OverlapExitEvent{
				ColliderA: pair.a,
				ColliderB: pair.b,
			})
		}
	}

	for pair := range e.previousContacts {
		if _, stay := e.currentContacts[pair]; !stay {
			e.buffer = append(e.buffer, ContactExitEvent{
				ColliderA: pair.a,
				ColliderB: pair.b,
			})
		}
	}

	// Swap for next frame and clear current
	e.previousOverlapPairs, e.currentOverlapPairs = e.currentOverlapPairs, e.previousOverlapPairs
	clear(e.currentOverlapPairs)

	e.previousContacts, e.currentContacts = e.currentContacts, e.previousContacts
	clear(e.currentContacts)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processPairEvents()

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
