package sat

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/farpoke/reactphysics3d/contact"
	"github.com/farpoke/reactphysics3d/shape"
)

// CollidePolyhedra tests two convex polyhedra, triangles included.
//
// Three families of candidate axes are scanned: the face normals of
// each polyhedron, then the cross products of every edge pair that
// builds a face of the Minkowski difference. A face axis produces a
// polygon of contact points by clipping the incident face against the
// reference face prism; an edge axis produces one point, at the closest
// points between the two edges.
//
// A small bias stabilizes the winner between families: an axis from a
// later family must beat the running minimum by SeparatingAxisBias,
// which keeps near-tied configurations from flickering between face
// and edge contacts across frames.
//
// The contact normal points from the first polyhedron toward the
// second. info is consulted for the temporal coherence shortcut and
// updated on every outcome, except when either polyhedron is a
// triangle, which is never cached.
func CollidePolyhedra(polyhedron1 *shape.ConvexPolyhedron, transform1 shape.Transform,
	polyhedron2 *shape.ConvexPolyhedron, transform2 shape.Transform,
	info *LastFrameInfo, manifold *contact.Manifold) bool {

	oneToTwo := transform2.Inverse().Mul(transform1)
	twoToOne := oneToTwo.Inverse()

	minDepth := math.MaxFloat64
	minFace := 0
	minIsFace := false
	minIsFacePolyhedron1 := false
	minEdge1 := 0
	minEdge2 := 0
	var separatingEdge1A, separatingEdge1B mgl64.Vec3
	var separatingEdge2A, separatingEdge2B mgl64.Vec3
	var edgeAxisPolyhedron2Space mgl64.Vec3

	canCache := !polyhedron1.IsTriangle() && !polyhedron2.IsTriangle()
	shortcut := false

	if canCache && info.Valid && info.UsedSAT {
		switch info.Kind {
		case AxisFacePolyhedron1:
			depth := polyhedronFaceDepth(polyhedron1, polyhedron2, oneToTwo, info.FaceIndex)
			if depth <= 0 {
				info.WasColliding = false
				return false
			}
			if info.WasColliding {
				shortcut = true
				minDepth = depth
				minFace = info.FaceIndex
				minIsFace = true
				minIsFacePolyhedron1 = true
			}

		case AxisFacePolyhedron2:
			depth := polyhedronFaceDepth(polyhedron2, polyhedron1, twoToOne, info.FaceIndex)
			if depth <= 0 {
				info.WasColliding = false
				return false
			}
			if info.WasColliding {
				shortcut = true
				minDepth = depth
				minFace = info.FaceIndex
				minIsFace = true
				minIsFacePolyhedron1 = false
			}

		case AxisEdgeEdge:
			edge1 := polyhedron1.HalfEdge(info.Edge1Index)
			edge2 := polyhedron2.HalfEdge(info.Edge2Index)

			edge1A := oneToTwo.Apply(polyhedron1.Vertex(edge1.Vertex))
			edge1B := oneToTwo.Apply(polyhedron1.Vertex(polyhedron1.HalfEdge(edge1.Next).Vertex))
			edge2A := polyhedron2.Vertex(edge2.Vertex)
			edge2B := polyhedron2.Vertex(polyhedron2.HalfEdge(edge2.Next).Vertex)

			// Si les arêtes sont devenues parallèles, l'axe n'existe plus
			// et on refait le test complet
			depth, axis, ok := edgeDistance(edge1A, edge2A, polyhedron2.Centroid(), edge1B.Sub(edge1A), edge2B.Sub(edge2A))
			if ok {
				if depth <= 0 {
					info.WasColliding = false
					return false
				}
				if info.WasColliding {
					shortcut = true
					minDepth = depth
					minEdge1 = info.Edge1Index
					minEdge2 = info.Edge2Index
					separatingEdge1A, separatingEdge1B = edge1A, edge1B
					separatingEdge2A, separatingEdge2B = edge2A, edge2B
					edgeAxisPolyhedron2Space = axis
				}
			}
		}
	}

	if !shortcut {
		depth, face := polyhedronFacesMinDepth(polyhedron1, polyhedron2, oneToTwo)
		if depth <= 0 {
			if canCache {
				info.setFace(AxisFacePolyhedron1, face, false)
			}
			return false
		}
		if depth < minDepth-SeparatingAxisBias {
			minDepth = depth
			minFace = face
			minIsFace = true
			minIsFacePolyhedron1 = true
		}

		depth, face = polyhedronFacesMinDepth(polyhedron2, polyhedron1, twoToOne)
		if depth <= 0 {
			if canCache {
				info.setFace(AxisFacePolyhedron2, face, false)
			}
			return false
		}
		if depth < minDepth-SeparatingAxisBias {
			minDepth = depth
			minFace = face
			minIsFace = true
			minIsFacePolyhedron1 = false
		}

		for _, i := range polyhedron1.UndirectedEdges() {
			edge1 := polyhedron1.HalfEdge(i)
			edge1A := oneToTwo.Apply(polyhedron1.Vertex(edge1.Vertex))
			edge1B := oneToTwo.Apply(polyhedron1.Vertex(polyhedron1.HalfEdge(edge1.Next).Vertex))

			for _, j := range polyhedron2.UndirectedEdges() {
				edge2 := polyhedron2.HalfEdge(j)
				edge2A := polyhedron2.Vertex(edge2.Vertex)
				edge2B := polyhedron2.Vertex(polyhedron2.HalfEdge(edge2.Next).Vertex)

				// Seules les paires d'arêtes formant une face de la
				// différence de Minkowski peuvent porter le minimum
				if !edgesFormMinkowskiFace(polyhedron1, edge1, polyhedron2, edge2, oneToTwo) {
					continue
				}

				depth, axis, ok := edgeDistance(edge1A, edge2A, polyhedron2.Centroid(), edge1B.Sub(edge1A), edge2B.Sub(edge2A))
				if !ok {
					continue
				}
				if depth <= 0 {
					if canCache {
						info.setEdges(i, j, false)
					}
					return false
				}
				if depth < minDepth-SeparatingAxisBias {
					minDepth = depth
					minIsFace = false
					minEdge1 = i
					minEdge2 = j
					separatingEdge1A, separatingEdge1B = edge1A, edge1B
					separatingEdge2A, separatingEdge2B = edge2A, edge2B
					edgeAxisPolyhedron2Space = axis
				}
			}
		}
	}

	if minIsFace {
		polyhedronFaceContacts(polyhedron1, polyhedron2, transform1, transform2, oneToTwo, twoToOne,
			minIsFacePolyhedron1, minFace, minDepth, manifold)

		if canCache {
			if minIsFacePolyhedron1 {
				info.setFace(AxisFacePolyhedron1, minFace, true)
			} else {
				info.setFace(AxisFacePolyhedron2, minFace, true)
			}
		}
	} else {
		closest1, closest2 := closestPointsBetweenSegments(separatingEdge1A, separatingEdge1B, separatingEdge2A, separatingEdge2B)

		// Ramener le point du premier polyèdre dans son espace local
		normalWorld := transform2.Rotation.Rotate(edgeAxisPolyhedron2Space)
		manifold.Add(normalWorld, minDepth, twoToOne.Apply(closest1), closest2)

		if canCache {
			info.setEdges(minEdge1, minEdge2, true)
		}
	}

	return true
}

// polyhedronFaceDepth computes the penetration of the other polyhedron
// along one face normal of the reference polyhedron, evaluated in the
// other polyhedron's space
func polyhedronFaceDepth(reference, other *shape.ConvexPolyhedron, referenceToOther shape.Transform, faceIndex int) float64 {
	faceNormal := referenceToOther.Rotation.Rotate(reference.FaceNormal(faceIndex))

	support := other.Support(faceNormal.Mul(-1))
	faceVertex := referenceToOther.Apply(reference.Vertex(reference.Face(faceIndex).Vertices[0]))

	return faceVertex.Sub(support).Dot(faceNormal)
}

// polyhedronFacesMinDepth scans every face normal of the reference
// polyhedron for the axis of least penetration. A non-positive depth
// means the returned face separates the two shapes.
func polyhedronFacesMinDepth(reference, other *shape.ConvexPolyhedron, referenceToOther shape.Transform) (float64, int) {
	minDepth := math.MaxFloat64
	minFace := 0

	for f := 0; f < reference.FaceCount(); f++ {
		depth := polyhedronFaceDepth(reference, other, referenceToOther, f)
		if depth <= 0 {
			return depth, f
		}
		if depth < minDepth {
			minDepth = depth
			minFace = f
		}
	}

	return minDepth, minFace
}

// edgeDistance computes the penetration depth between two edges along
// their cross product, oriented from the first polyhedron toward the
// second. Everything is evaluated in the second polyhedron's space.
// ok is false for parallel edges, whose cross product carries no
// direction.
func edgeDistance(edge1A, edge2A, polyhedron2Centroid, edge1Direction, edge2Direction mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	cross := edge1Direction.Cross(edge2Direction)
	if cross.LenSqr() < parallelEdgesEpsilon {
		return 0, mgl64.Vec3{}, false
	}

	axis := cross.Normalize()

	// L'axe doit aller du premier polyèdre vers le second
	if axis.Dot(edge2A.Sub(polyhedron2Centroid)) > 0 {
		axis = axis.Mul(-1)
	}

	return -axis.Dot(edge2A.Sub(edge1A)), axis, true
}

// edgesFormMinkowskiFace reports whether the cross product of the two
// edges is a real separating axis candidate, which is the case exactly
// when their arcs cross on the Gauss map of the Minkowski difference.
// The second polyhedron's normals are negated because the difference
// mirrors its Gauss map.
func edgesFormMinkowskiFace(polyhedron1 *shape.ConvexPolyhedron, edge1 shape.HalfEdge,
	polyhedron2 *shape.ConvexPolyhedron, edge2 shape.HalfEdge, oneToTwo shape.Transform) bool {

	twin1 := polyhedron1.HalfEdge(edge1.Twin)
	twin2 := polyhedron2.HalfEdge(edge2.Twin)

	a := oneToTwo.Rotation.Rotate(polyhedron1.FaceNormal(edge1.Face))
	b := oneToTwo.Rotation.Rotate(polyhedron1.FaceNormal(twin1.Face))
	c := polyhedron2.FaceNormal(edge2.Face)
	d := polyhedron2.FaceNormal(twin2.Face)

	// Les directions d'arêtes valent les produits b×a et d×c à un
	// facteur positif près
	bCrossA := oneToTwo.Rotation.Rotate(polyhedron1.Vertex(twin1.Vertex).Sub(polyhedron1.Vertex(edge1.Vertex)))
	dCrossC := polyhedron2.Vertex(twin2.Vertex).Sub(polyhedron2.Vertex(edge2.Vertex))

	return gaussMapArcsIntersect(a, b, c.Mul(-1), d.Mul(-1), bCrossA, dCrossC)
}

// polyhedronFaceContacts clips the incident face against the reference
// face prism and emits one contact point per clipped vertex on or below
// the reference face. When no vertex lies below it, the deepest clipped
// vertex is kept so a detected collision never reports an empty
// manifold.
func polyhedronFaceContacts(polyhedron1, polyhedron2 *shape.ConvexPolyhedron,
	transform1, transform2 shape.Transform, oneToTwo, twoToOne shape.Transform,
	referenceIsPolyhedron1 bool, referenceFaceIndex int, depth float64, manifold *contact.Manifold) {

	reference, incident := polyhedron1, polyhedron2
	referenceToIncident, incidentToReference := oneToTwo, twoToOne
	if !referenceIsPolyhedron1 {
		reference, incident = polyhedron2, polyhedron1
		referenceToIncident, incidentToReference = twoToOne, oneToTwo
	}

	axisReference := reference.FaceNormal(referenceFaceIndex)
	axisIncident := referenceToIncident.Rotation.Rotate(axisReference)

	var normalWorld mgl64.Vec3
	if referenceIsPolyhedron1 {
		normalWorld = transform1.Rotation.Rotate(axisReference)
	} else {
		// La normale va de la première forme vers la seconde
		normalWorld = transform2.Rotation.Rotate(axisReference).Mul(-1)
	}

	// Face incidente: celle dont la normale est la plus anti-parallèle
	incidentFace := incident.Face(mostAntiParallelFace(incident, axisIncident))

	polygon := make([]mgl64.Vec3, 0, len(incidentFace.Vertices))
	for _, v := range incidentFace.Vertices {
		polygon = append(polygon, incidentToReference.Apply(incident.Vertex(v)))
	}

	planesPoints, planesNormals := faceClipPlanes(reference, referenceFaceIndex)
	clipped := clipPolygonWithPlanes(polygon, planesPoints, planesNormals)

	referenceFaceVertex := reference.Vertex(reference.Face(referenceFaceIndex).Vertices[0])

	emitted := 0
	deepest := 0
	deepestDist := math.MaxFloat64
	for i, point := range clipped {
		dist := point.Sub(referenceFaceVertex).Dot(axisReference)
		if dist < deepestDist {
			deepestDist = dist
			deepest = i
		}
		if dist > 0 {
			continue
		}

		contactReference := point.Add(axisReference.Mul(depth))
		contactIncident := referenceToIncident.Apply(point)
		addContact(manifold, normalWorld, depth, !referenceIsPolyhedron1, contactReference, contactIncident)
		emitted++
	}

	if emitted == 0 && len(clipped) > 0 {
		point := clipped[deepest]
		contactReference := point.Add(axisReference.Mul(depth))
		contactIncident := referenceToIncident.Apply(point)
		addContact(manifold, normalWorld, depth, !referenceIsPolyhedron1, contactReference, contactIncident)
	}
}
