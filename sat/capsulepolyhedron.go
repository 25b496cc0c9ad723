package sat

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/farpoke/reactphysics3d/contact"
	"github.com/farpoke/reactphysics3d/shape"
)

// CollideCapsulePolyhedron tests a capsule against a convex polyhedron.
//
// The candidate axes are the polyhedron's face normals and the cross
// products of the capsule inner segment with the polyhedron's edges.
// An edge only qualifies when the segment direction crosses the edge's
// arc on the Gauss map, meaning the segment could actually reach the
// edge from outside. capsuleIsFirst tells which shape the caller listed
// first, so the contact normal keeps pointing from the first shape
// toward the second.
//
// A face axis produces up to two contact points by clipping the inner
// segment against the face prism; an edge axis produces one, at the
// closest points between the segment and the edge. info is consulted
// for the temporal coherence shortcut and updated on every outcome,
// except for triangle polyhedra which are never cached.
func CollideCapsulePolyhedron(capsule *shape.Capsule, capsuleTransform shape.Transform,
	polyhedron *shape.ConvexPolyhedron, polyhedronTransform shape.Transform,
	capsuleIsFirst bool, info *LastFrameInfo, manifold *contact.Manifold) bool {

	polyhedronToCapsule := capsuleTransform.Inverse().Mul(polyhedronTransform)

	segA, segB := capsule.InnerSegment()
	segmentAxis := segB.Sub(segA)

	minDepth := math.MaxFloat64
	minFace := 0
	minEdge := 0
	minIsFace := false
	var axisCapsuleSpace mgl64.Vec3
	var separatingEdgeV1, separatingEdgeV2 mgl64.Vec3

	canCache := !polyhedron.IsTriangle()
	shortcut := false

	if canCache && info.Valid && info.UsedSAT {
		switch info.Kind {
		case AxisFacePolyhedron1:
			depth, axis := capsuleFaceDepth(polyhedron, info.FaceIndex, capsule, polyhedronToCapsule)
			if depth <= 0 {
				info.WasColliding = false
				return false
			}
			if info.WasColliding {
				shortcut = true
				minDepth = depth
				minFace = info.FaceIndex
				minIsFace = true
				axisCapsuleSpace = axis
			}

		case AxisEdgeEdge:
			edge := polyhedron.HalfEdge(info.Edge1Index)
			edgeV1 := polyhedron.Vertex(edge.Vertex)
			edgeV2 := polyhedron.Vertex(polyhedron.HalfEdge(edge.Next).Vertex)

			// Si l'arête est devenue parallèle au segment, l'axe n'existe
			// plus et on refait le test complet
			depth, axis, ok := capsuleEdgeDepth(polyhedron, capsule, segmentAxis, edgeV1, edgeV2, polyhedronToCapsule)
			if ok {
				if depth <= 0 {
					info.WasColliding = false
					return false
				}
				if info.WasColliding {
					shortcut = true
					minDepth = depth
					minEdge = info.Edge1Index
					axisCapsuleSpace = axis
					separatingEdgeV1 = edgeV1
					separatingEdgeV2 = edgeV2
				}
			}
		}
	}

	if !shortcut {
		for f := 0; f < polyhedron.FaceCount(); f++ {
			depth, axis := capsuleFaceDepth(polyhedron, f, capsule, polyhedronToCapsule)
			if depth <= 0 {
				if canCache {
					info.setFace(AxisFacePolyhedron1, f, false)
				}
				return false
			}
			if depth < minDepth {
				minDepth = depth
				minFace = f
				minIsFace = true
				axisCapsuleSpace = axis
			}
		}

		for _, e := range polyhedron.UndirectedEdges() {
			edge := polyhedron.HalfEdge(e)
			twin := polyhedron.HalfEdge(edge.Twin)
			edgeV1 := polyhedron.Vertex(edge.Vertex)
			edgeV2 := polyhedron.Vertex(polyhedron.HalfEdge(edge.Next).Vertex)

			adjacentNormal1 := polyhedronToCapsule.Rotation.Rotate(polyhedron.FaceNormal(edge.Face))
			adjacentNormal2 := polyhedronToCapsule.Rotation.Rotate(polyhedron.FaceNormal(twin.Face))

			// L'arête n'est candidate que si le segment intérieur croise
			// son arc sur la sphère de Gauss
			if segmentAxis.Dot(adjacentNormal1)*segmentAxis.Dot(adjacentNormal2) >= 0 {
				continue
			}

			depth, axis, ok := capsuleEdgeDepth(polyhedron, capsule, segmentAxis, edgeV1, edgeV2, polyhedronToCapsule)
			if !ok {
				continue
			}
			if depth <= 0 {
				if canCache {
					info.setEdges(e, 0, false)
				}
				return false
			}
			if depth < minDepth {
				minDepth = depth
				minEdge = e
				minIsFace = false
				axisCapsuleSpace = axis
				separatingEdgeV1 = edgeV1
				separatingEdgeV2 = edgeV2
			}
		}
	}

	capsuleToPolyhedron := polyhedronToCapsule.Inverse()
	segAPolyhedron := capsuleToPolyhedron.Apply(segA)
	segBPolyhedron := capsuleToPolyhedron.Apply(segB)

	normalWorld := capsuleTransform.Rotation.Rotate(axisCapsuleSpace)
	if capsuleIsFirst {
		// La normale va de la première forme vers la seconde
		normalWorld = normalWorld.Mul(-1)
	}

	if minIsFace {
		capsuleFaceContacts(polyhedron, minFace, capsule.Radius, minDepth, polyhedronToCapsule,
			normalWorld, axisCapsuleSpace, segAPolyhedron, segBPolyhedron, capsuleIsFirst, manifold)

		if canCache {
			info.setFace(AxisFacePolyhedron1, minFace, true)
		}
	} else {
		closestCapsule, closestEdge := closestPointsBetweenSegments(segAPolyhedron, segBPolyhedron, separatingEdgeV1, separatingEdgeV2)

		// Projeter le point du segment intérieur sur la surface de la capsule
		contactCapsule := polyhedronToCapsule.Apply(closestCapsule).Sub(axisCapsuleSpace.Mul(capsule.Radius))

		addContact(manifold, normalWorld, minDepth, !capsuleIsFirst, contactCapsule, closestEdge)

		if canCache {
			info.setEdges(minEdge, 0, true)
		}
	}

	return true
}

// capsuleFaceDepth computes the penetration of the capsule along one
// face normal of the polyhedron. The axis is returned in capsule space.
func capsuleFaceDepth(polyhedron *shape.ConvexPolyhedron, faceIndex int, capsule *shape.Capsule,
	polyhedronToCapsule shape.Transform) (float64, mgl64.Vec3) {

	face := polyhedron.Face(faceIndex)
	faceNormal := polyhedronToCapsule.Rotation.Rotate(polyhedron.FaceNormal(faceIndex))

	capsuleSupport := capsule.Support(faceNormal.Mul(-1))
	faceVertex := polyhedronToCapsule.Apply(polyhedron.Vertex(face.Vertices[0]))

	return faceVertex.Sub(capsuleSupport).Dot(faceNormal), faceNormal
}

// capsuleEdgeDepth computes the penetration along the cross product of
// the capsule inner segment and a polyhedron edge, oriented out of the
// polyhedron. ok is false when the edge runs parallel to the segment
// and the cross product carries no direction.
func capsuleEdgeDepth(polyhedron *shape.ConvexPolyhedron, capsule *shape.Capsule,
	segmentAxis, edgeV1, edgeV2 mgl64.Vec3, polyhedronToCapsule shape.Transform) (float64, mgl64.Vec3, bool) {

	edgeDirection := polyhedronToCapsule.Rotation.Rotate(edgeV2.Sub(edgeV1))

	axis := segmentAxis.Cross(edgeDirection)
	if axis.LenSqr() < parallelEdgesEpsilon {
		return 0, mgl64.Vec3{}, false
	}

	centroid := polyhedronToCapsule.Apply(polyhedron.Centroid())
	pointOnEdge := polyhedronToCapsule.Apply(edgeV1)

	// Orienter l'axe du polyèdre vers la capsule
	if axis.Dot(pointOnEdge.Sub(centroid)) < 0 {
		axis = axis.Mul(-1)
	}
	axis = axis.Normalize()

	capsuleSupport := capsule.Support(axis.Mul(-1))

	return pointOnEdge.Sub(capsuleSupport).Dot(axis), axis, true
}

// capsuleFaceContacts clips the capsule inner segment against the prism
// of the reference face and emits one contact point per clipped vertex
func capsuleFaceContacts(polyhedron *shape.ConvexPolyhedron, referenceFace int, capsuleRadius, depth float64,
	polyhedronToCapsule shape.Transform, normalWorld, axisCapsuleSpace mgl64.Vec3,
	segAPolyhedron, segBPolyhedron mgl64.Vec3, capsuleIsFirst bool, manifold *contact.Manifold) {

	planesPoints, planesNormals := faceClipPlanes(polyhedron, referenceFace)
	clipped := clipSegmentWithPlanes(segAPolyhedron, segBPolyhedron, planesPoints, planesNormals)

	faceNormal := polyhedron.FaceNormal(referenceFace)

	if len(clipped) < 2 {
		// Segment entièrement hors du prisme, garder le bout le plus profond
		deepest := segAPolyhedron
		if segBPolyhedron.Dot(faceNormal) < segAPolyhedron.Dot(faceNormal) {
			deepest = segBPolyhedron
		}
		clipped = append(clipped[:0], deepest)
	}

	for _, point := range clipped {
		contactPolyhedron := point.Add(faceNormal.Mul(depth - capsuleRadius))
		contactCapsule := polyhedronToCapsule.Apply(point).Sub(axisCapsuleSpace.Mul(capsuleRadius))

		addContact(manifold, normalWorld, depth, !capsuleIsFirst, contactCapsule, contactPolyhedron)
	}
}
