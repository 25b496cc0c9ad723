package reactphysics3d

const DEFAULT_WORKERS = 1

type World struct {
	// List of all colliders in the world
	Colliders []*Collider
	// Tracked broad-phase pairs, created on first Detect when left nil
	Pairs   *PairSet
	Workers int

	Events Events
}

// AddCollider adds a collider to the world
func (w *World) AddCollider(collider *Collider) {
	w.Colliders = append(w.Colliders, collider)
}

// RemoveCollider removes a collider from the world
func (w *World) RemoveCollider(collider *Collider) {
	k := -1
	for i, c := range w.Colliders {
		if c == collider {
			k = i
			break
		}
	}

	if k != -1 {
		w.Colliders = append(w.Colliders[:k], w.Colliders[k+1:]...)
	}

	// Forget the pair history so a collider that is gone never fires
	// an Exit event
	for pair := range w.Events.previousOverlapPairs {
		if pair.a == collider || pair.b == collider {
			delete(w.Events.previousOverlapPairs, pair)
		}
	}
	for pair := range w.Events.previousContacts {
		if pair.a == collider || pair.b == collider {
			delete(w.Events.previousContacts, pair)
		}
	}
}

// Detect runs one frame of collision detection and returns the results
// in pair creation order.
func (w *World) Detect() []Result {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)

	if w.Pairs == nil {
		w.Pairs = NewPairSet()
	}
	if w.Events.listeners == nil {
		w.Events = NewEvents()
	}

	// Phase 1: Collision pair finding - Broad phase
	pairs := w.Pairs.Update(w.Colliders)

	// Phase 2: SAT on every tracked pair - narrow phase
	results := CollidePairs(pairs, w.Workers)

	w.Events.recordOverlaps(pairs)
	w.Events.recordContacts(results)
	w.Events.flush()

	return results
}
