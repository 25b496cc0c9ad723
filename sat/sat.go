// Package sat implements narrow-phase collision detection with the
// Separating Axis Theorem (SAT).
//
// Two convex shapes overlap if and only if there is no direction along
// which their projections are disjoint. The tests enumerate the bounded
// families of candidate directions (face normals, edge cross products
// pruned on the Gauss map), keep the axis of minimum penetration, and
// clip the shapes against each other to build a contact manifold for
// the solver.
//
// Each tracked shape pair carries a LastFrameInfo cache: when the pair
// barely moved since the previous frame, re-checking the cached axis
// replaces the full scan (temporal coherence).
//
// References:
//   - Gregorius: "The Separating Axis Test between Convex Polyhedra" (GDC 2013)
//   - Ericson: "Real-Time Collision Detection" (2005)
package sat

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/farpoke/reactphysics3d/contact"
)

// SeparatingAxisBias stabilizes which axis family wins between two
// nearly tied candidates in the polyhedron vs polyhedron test. Without
// it, near-degenerate configurations flicker between face contacts and
// edge contacts from one frame to the next.
const SeparatingAxisBias = 0.001

// addContact appends a contact point, swapping the two local points
// when the caller passed its shapes in the opposite order
func addContact(manifold *contact.Manifold, normal mgl64.Vec3, depth float64, swap bool, point1, point2 mgl64.Vec3) {
	if swap {
		manifold.Add(normal, depth, point2, point1)
	} else {
		manifold.Add(normal, depth, point1, point2)
	}
}
