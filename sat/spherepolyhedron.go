package sat

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/farpoke/reactphysics3d/contact"
	"github.com/farpoke/reactphysics3d/shape"
)

// CollideSpherePolyhedron tests a sphere against a convex polyhedron.
//
// The candidate axes are the polyhedron's face normals: for a sphere,
// the axis of least penetration is always the normal of the face the
// center is closest to. sphereIsFirst tells which shape the caller
// listed first, so the contact normal keeps pointing from the first
// shape toward the second.
//
// On overlap, one contact point is appended to the manifold. info is
// consulted for the temporal coherence shortcut and updated on every
// outcome, except for triangle polyhedra which are never cached.
func CollideSpherePolyhedron(sphere *shape.Sphere, sphereTransform shape.Transform,
	polyhedron *shape.ConvexPolyhedron, polyhedronTransform shape.Transform,
	sphereIsFirst bool, info *LastFrameInfo, manifold *contact.Manifold) bool {

	sphereCenter := polyhedronTransform.Inverse().Apply(sphereTransform.Position)

	minDepth := math.MaxFloat64
	minFace := 0

	canCache := !polyhedron.IsTriangle()
	shortcut := false

	if canCache && info.Valid && info.UsedSAT && info.Kind == AxisFacePolyhedron1 {
		depth := sphereFaceDepth(polyhedron, info.FaceIndex, sphereCenter, sphere.Radius)
		if depth <= 0 {
			// L'axe séparateur de la frame précédente sépare toujours
			info.WasColliding = false
			return false
		}
		if info.WasColliding {
			shortcut = true
			minDepth = depth
			minFace = info.FaceIndex
		}
	}

	if !shortcut {
		for f := 0; f < polyhedron.FaceCount(); f++ {
			depth := sphereFaceDepth(polyhedron, f, sphereCenter, sphere.Radius)
			if depth <= 0 {
				if canCache {
					info.setFace(AxisFacePolyhedron1, f, false)
				}
				return false
			}
			if depth < minDepth {
				minDepth = depth
				minFace = f
			}
		}
	}

	faceNormal := polyhedron.FaceNormal(minFace)
	faceNormalWorld := polyhedronTransform.Rotation.Rotate(faceNormal)

	normalWorld := faceNormalWorld
	if sphereIsFirst {
		// La normale va de la première forme vers la seconde
		normalWorld = normalWorld.Mul(-1)
	}

	contactSphere := sphereTransform.Rotation.Conjugate().Rotate(faceNormalWorld).Mul(-sphere.Radius)
	contactPolyhedron := sphereCenter.Add(faceNormal.Mul(minDepth - sphere.Radius))

	addContact(manifold, normalWorld, minDepth, !sphereIsFirst, contactSphere, contactPolyhedron)

	if canCache {
		info.setFace(AxisFacePolyhedron1, minFace, true)
	}

	return true
}

// sphereFaceDepth computes the penetration of the sphere along one face
// normal, negative when the face plane separates the two shapes
func sphereFaceDepth(polyhedron *shape.ConvexPolyhedron, faceIndex int, sphereCenter mgl64.Vec3, radius float64) float64 {
	face := polyhedron.Face(faceIndex)
	faceVertex := polyhedron.Vertex(face.Vertices[0])

	return faceVertex.Sub(sphereCenter).Dot(polyhedron.FaceNormal(faceIndex)) + radius
}
