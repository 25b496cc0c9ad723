package shape

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeSphere ShapeType = iota
	ShapeTypeCapsule
	ShapeTypeConvexPolyhedron
)

func (t ShapeType) String() string {
	switch t {
	case ShapeTypeSphere:
		return "sphere"
	case ShapeTypeCapsule:
		return "capsule"
	case ShapeTypeConvexPolyhedron:
		return "convex polyhedron"
	}

	return "unknown"
}

// Shape is the interface that all collision shapes implement.
//
// Shapes are immutable while collision tests run: nothing is cached on
// the shape, bounding boxes are computed from the transform on demand.
type Shape interface {
	Type() ShapeType
	// Support returns the local-space point of the shape farthest along
	// the given direction
	Support(direction mgl64.Vec3) mgl64.Vec3
	// ComputeAABB calculates the world-space axis-aligned bounding box
	// of the shape at the given transform
	ComputeAABB(transform Transform) AABB
}

// Sphere represents a spherical collision shape centered on its local origin
type Sphere struct {
	Radius float64
}

func (s *Sphere) Type() ShapeType {
	return ShapeTypeSphere
}

// ComputeAABB calculates the axis-aligned bounding box for the sphere
func (s *Sphere) ComputeAABB(transform Transform) AABB {
	// Sphere AABB is not affected by rotation, only by position
	radiusVec := mgl64.Vec3{s.Radius, s.Radius, s.Radius}

	return AABB{
		Min: transform.Position.Sub(radiusVec),
		Max: transform.Position.Add(radiusVec),
	}
}

func (s *Sphere) Support(direction mgl64.Vec3) mgl64.Vec3 {
	return direction.Normalize().Mul(s.Radius)
}

// Capsule represents a capsule collision shape: a segment of the given
// height along the local Y axis, inflated by the radius
type Capsule struct {
	Radius float64
	Height float64
}

func (c *Capsule) Type() ShapeType {
	return ShapeTypeCapsule
}

// InnerSegment returns the two local-space endpoints of the capsule's
// inner segment, bottom first
func (c *Capsule) InnerSegment() (mgl64.Vec3, mgl64.Vec3) {
	halfHeight := c.Height * 0.5

	return mgl64.Vec3{0, -halfHeight, 0}, mgl64.Vec3{0, halfHeight, 0}
}

// ComputeAABB calculates the axis-aligned bounding box for the capsule
func (c *Capsule) ComputeAABB(transform Transform) AABB {
	bottom, top := c.InnerSegment()
	bottomWorld := transform.Apply(bottom)
	topWorld := transform.Apply(top)

	min := mgl64.Vec3{
		math.Min(bottomWorld.X(), topWorld.X()) - c.Radius,
		math.Min(bottomWorld.Y(), topWorld.Y()) - c.Radius,
		math.Min(bottomWorld.Z(), topWorld.Z()) - c.Radius,
	}
	max := mgl64.Vec3{
		math.Max(bottomWorld.X(), topWorld.X()) + c.Radius,
		math.Max(bottomWorld.Y(), topWorld.Y()) + c.Radius,
		math.Max(bottomWorld.Z(), topWorld.Z()) + c.Radius,
	}

	return AABB{Min: min, Max: max}
}

// Support returns the inner-segment endpoint most aligned with the
// direction, pushed out along the direction by the radius
func (c *Capsule) Support(direction mgl64.Vec3) mgl64.Vec3 {
	if direction.LenSqr() < 1e-12 {
		return mgl64.Vec3{0, 0, c.Radius}
	}

	bottom, top := c.InnerSegment()
	endpoint := bottom
	if direction.Dot(top) > direction.Dot(bottom) {
		endpoint = top
	}

	return endpoint.Add(direction.Normalize().Mul(c.Radius))
}
