// Package contact defines the contact points produced by narrow-phase
// collision tests and consumed by a physics solver.
package contact

import "github.com/go-gl/mathgl/mgl64"

// Point is a single contact between two shapes
type Point struct {
	// Normal is the unit contact normal in world space, pointing from
	// the first shape toward the second
	Normal mgl64.Vec3
	// Penetration is the positive penetration depth along the normal
	Penetration float64
	// LocalA is the contact position in the first shape's local space
	LocalA mgl64.Vec3
	// LocalB is the contact position in the second shape's local space
	LocalB mgl64.Vec3
}

// Manifold collects the contact points found between one pair of shapes.
// Points are appended in discovery order and never removed by the
// narrow phase.
type Manifold struct {
	Points []Point
}

// Add appends a contact point to the manifold
func (m *Manifold) Add(normal mgl64.Vec3, penetration float64, localA, localB mgl64.Vec3) {
	m.Points = append(m.Points, Point{
		Normal:      normal,
		Penetration: penetration,
		LocalA:      localA,
		LocalB:      localB,
	})
}

// Reset clears the manifold so it can be reused for another test
func (m *Manifold) Reset() {
	m.Points = m.Points[:0]
}
