package shape

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a position and orientation in 3D space
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
	}
}

// Apply transforms a point from local space into the parent space
func (t Transform) Apply(point mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(point).Add(t.Position)
}

// Inverse returns the transform mapping the parent space back to local space
func (t Transform) Inverse() Transform {
	// Pour un quaternion unitaire, le conjugué est l'inverse
	inverse := t.Rotation.Conjugate()

	return Transform{
		Position: inverse.Rotate(t.Position).Mul(-1),
		Rotation: inverse,
	}
}

// Mul composes two transforms; the result applies other first, then t
func (t Transform) Mul(other Transform) Transform {
	return Transform{
		Position: t.Rotation.Rotate(other.Position).Add(t.Position),
		Rotation: t.Rotation.Mul(other.Rotation),
	}
}
