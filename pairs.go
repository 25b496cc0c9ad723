package reactphysics3d

import (
	"unsafe"

	"github.com/farpoke/reactphysics3d/shape"
)

type pairKey struct {
	a *Collider
	b *Collider
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(a, b *Collider) pairKey {
	ptrA := uintptr(unsafe.Pointer(a))
	ptrB := uintptr(unsafe.Pointer(b))

	if ptrB < ptrA {
		a, b = b, a
	}

	return pairKey{a: a, b: b}
}

// Grid defaults, sized for scenes of a few hundred colliders
const (
	DEFAULT_CELL_SIZE = 6.0
	DEFAULT_NUM_CELLS = 4096
)

// PairSet tracks the collider pairs whose bounding boxes overlap and
// owns their lifetime: a pair starts being tracked the frame its AABBs
// begin to overlap and is dropped, SAT cache included, the frame they
// stop. Pairs keep their creation order between frames so batch results
// stay deterministic.
type PairSet struct {
	pairs   map[pairKey]*Pair
	ordered []*Pair
	grid    *SpatialGrid
}

func NewPairSet() *PairSet {
	return &PairSet{
		pairs: make(map[pairKey]*Pair),
		grid:  NewSpatialGrid(DEFAULT_CELL_SIZE, DEFAULT_NUM_CELLS),
	}
}

// Update diffs the current AABB overlaps against the tracked pairs and
// returns the tracked pairs in creation order. The spatial grid feeds
// the overlap candidates; two colliders never sharing a cell never
// become a pair, which is exactly the AABB overlap condition since an
// overlap implies a shared cell.
func (s *PairSet) Update(colliders []*Collider) []*Pair {
	aabbs := make([]shape.AABB, len(colliders))
	s.grid.Clear()
	for i, collider := range colliders {
		aabbs[i] = collider.AABB()
		s.grid.Insert(i, aabbs[i])
	}

	current := make(map[pairKey]bool, len(s.pairs))
	for _, indices := range s.grid.FindPairs(aabbs) {
		key := makePairKey(colliders[indices[0]], colliders[indices[1]])
		current[key] = true

		if _, tracked := s.pairs[key]; !tracked {
			pair := &Pair{A: colliders[indices[0]], B: colliders[indices[1]]}
			s.pairs[key] = pair
			s.ordered = append(s.ordered, pair)
		}
	}

	// Les paires dont les AABB se sont séparées disparaissent, avec leur cache
	n := 0
	for _, pair := range s.ordered {
		key := makePairKey(pair.A, pair.B)
		if current[key] {
			s.ordered[n] = pair
			n++
		} else {
			delete(s.pairs, key)
		}
	}
	s.ordered = s.ordered[:n]

	return s.ordered
}

// Len returns the number of tracked pairs
func (s *PairSet) Len() int {
	return len(s.pairs)
}
