package sat

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/farpoke/reactphysics3d/shape"
)

const (
	// planeParallelEpsilon rejects plane-segment intersections when the
	// segment runs along the plane
	planeParallelEpsilon = 0.0001
	// parallelEdgesEpsilon skips cross-product axes between nearly
	// parallel edges, whose direction is numerically meaningless
	parallelEdgesEpsilon = 0.00001
	// degenerateSegmentEpsilon treats a segment shorter than this as a point
	degenerateSegmentEpsilon = 1e-12
)

// planeSegmentIntersection returns the parameter t at which the segment
// from segA to segB crosses the plane, or -1 when the segment runs
// parallel to it
func planeSegmentIntersection(segA, segB, planePoint, planeNormal mgl64.Vec3) float64 {
	nDotAB := planeNormal.Dot(segB.Sub(segA))
	if math.Abs(nDotAB) < planeParallelEpsilon {
		return -1
	}
	return planeNormal.Dot(planePoint.Sub(segA)) / nDotAB
}

// clipSegmentWithPlanes clips a segment against a set of planes,
// keeping for each plane the part on the side its normal points to.
// The result has two points, or none when the segment lies entirely
// behind one of the planes.
func clipSegmentWithPlanes(segA, segB mgl64.Vec3, planesPoints, planesNormals []mgl64.Vec3) []mgl64.Vec3 {
	output := []mgl64.Vec3{segA, segB}

	for p := range planesPoints {
		if len(output) != 2 {
			break
		}
		v1, v2 := output[0], output[1]
		v1Dist := v1.Sub(planesPoints[p]).Dot(planesNormals[p])
		v2Dist := v2.Sub(planesPoints[p]).Dot(planesNormals[p])

		switch {
		case v1Dist >= 0 && v2Dist >= 0:
			// Segment entier du bon côté du plan, rien à couper
		case v1Dist < 0 && v2Dist < 0:
			output = output[:0]
		default:
			t := mgl64.Clamp(planeSegmentIntersection(v1, v2, planesPoints[p], planesNormals[p]), 0, 1)
			intersection := v1.Add(v2.Sub(v1).Mul(t))
			if v1Dist >= 0 {
				output = []mgl64.Vec3{v1, intersection}
			} else {
				output = []mgl64.Vec3{intersection, v2}
			}
		}
	}

	return output
}

// clipPolygonWithPlanes clips a polygon with the Sutherland-Hodgman
// algorithm, keeping for each plane the part on the side its normal
// points to. The vertex order of the input polygon is preserved.
func clipPolygonWithPlanes(polygon []mgl64.Vec3, planesPoints, planesNormals []mgl64.Vec3) []mgl64.Vec3 {
	output := polygon

	for p := range planesPoints {
		if len(output) == 0 {
			break
		}
		input := output
		output = make([]mgl64.Vec3, 0, len(input)+1)

		for i := range input {
			current := input[i]
			next := input[(i+1)%len(input)]

			currentDist := current.Sub(planesPoints[p]).Dot(planesNormals[p])
			nextDist := next.Sub(planesPoints[p]).Dot(planesNormals[p])

			if currentDist >= 0 {
				output = append(output, current)
			}
			// Le segment traverse le plan, garder l'intersection
			if (currentDist >= 0) != (nextDist >= 0) {
				t := mgl64.Clamp(planeSegmentIntersection(current, next, planesPoints[p], planesNormals[p]), 0, 1)
				output = append(output, current.Add(next.Sub(current).Mul(t)))
			}
		}
	}

	return output
}

// closestPointsBetweenSegments returns the pair of closest points
// between the segments [seg1A, seg1B] and [seg2A, seg2B]. Degenerate
// and parallel segments fall back to the segment endpoints.
//
// Ericson, "Real-Time Collision Detection", section 5.1.9.
func closestPointsBetweenSegments(seg1A, seg1B, seg2A, seg2B mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	d1 := seg1B.Sub(seg1A)
	d2 := seg2B.Sub(seg2A)
	r := seg1A.Sub(seg2A)

	a := d1.LenSqr()
	e := d2.LenSqr()
	f := d2.Dot(r)

	var s, t float64

	switch {
	case a < degenerateSegmentEpsilon && e < degenerateSegmentEpsilon:
		return seg1A, seg2A
	case a < degenerateSegmentEpsilon:
		s = 0
		t = mgl64.Clamp(f/e, 0, 1)
	case e < degenerateSegmentEpsilon:
		t = 0
		s = mgl64.Clamp(-d1.Dot(r)/a, 0, 1)
	default:
		c := d1.Dot(r)
		b := d1.Dot(d2)
		denom := a*e - b*b

		if denom != 0 {
			s = mgl64.Clamp((b*f-c*e)/denom, 0, 1)
		} else {
			s = 0
		}

		t = (b*s + f) / e
		if t < 0 {
			t = 0
			s = mgl64.Clamp(-c/a, 0, 1)
		} else if t > 1 {
			t = 1
			s = mgl64.Clamp((b-c)/a, 0, 1)
		}
	}

	return seg1A.Add(d1.Mul(s)), seg2A.Add(d2.Mul(t))
}

// gaussMapArcsIntersect reports whether the arc between face normals a
// and b crosses the arc between c and d on the unit sphere. bCrossA and
// dCrossC are the respective edge directions, which equal those cross
// products up to a positive scale.
func gaussMapArcsIntersect(a, b, c, d, bCrossA, dCrossC mgl64.Vec3) bool {
	cba := c.Dot(bCrossA)
	dba := d.Dot(bCrossA)
	adc := a.Dot(dCrossC)
	bdc := b.Dot(dCrossC)

	// c et d de part et d'autre du plan de (a, b), a et b de part et
	// d'autre du plan de (c, d), et les deux arcs du même hémisphère
	return cba*dba < 0 && adc*bdc < 0 && cba*bdc > 0
}

// mostAntiParallelFace returns the face of the polyhedron whose normal
// is most opposed to the given direction
func mostAntiParallelFace(polyhedron *shape.ConvexPolyhedron, direction mgl64.Vec3) int {
	mostAntiParallel := 0
	minDot := math.MaxFloat64

	for f := 0; f < polyhedron.FaceCount(); f++ {
		d := polyhedron.FaceNormal(f).Dot(direction)
		if d < minDot {
			minDot = d
			mostAntiParallel = f
		}
	}

	return mostAntiParallel
}

// faceClipPlanes builds one clipping plane per border edge of a face.
// Each plane passes through the edge origin with its normal pointing
// over the face, so the inside half-spaces of all the planes together
// form the prism above the face. The normals are perpendicular to the
// face normal, which keeps the planes meaningful for triangles whose
// two faces share every edge.
func faceClipPlanes(polyhedron *shape.ConvexPolyhedron, faceIndex int) ([]mgl64.Vec3, []mgl64.Vec3) {
	face := polyhedron.Face(faceIndex)
	faceNormal := polyhedron.FaceNormal(faceIndex)

	points := make([]mgl64.Vec3, 0, len(face.Vertices))
	normals := make([]mgl64.Vec3, 0, len(face.Vertices))

	edgeIndex := face.Edge
	for {
		edge := polyhedron.HalfEdge(edgeIndex)
		next := polyhedron.HalfEdge(edge.Next)

		edgeV1 := polyhedron.Vertex(edge.Vertex)
		edgeV2 := polyhedron.Vertex(next.Vertex)

		points = append(points, edgeV1)
		normals = append(normals, faceNormal.Cross(edgeV2.Sub(edgeV1)))

		edgeIndex = edge.Next
		if edgeIndex == face.Edge {
			break
		}
	}

	return points, normals
}
