package sat

// AxisKind identifies which family the last separating or penetration
// axis of a pair belonged to.
type AxisKind int

const (
	// AxisFacePolyhedron1 is a face normal of the first polyhedron, or
	// of the only polyhedron for the sphere and capsule tests.
	AxisFacePolyhedron1 AxisKind = iota
	// AxisFacePolyhedron2 is a face normal of the second polyhedron.
	AxisFacePolyhedron2
	// AxisEdgeEdge is a cross product of two edges, or of the capsule
	// inner segment and a polyhedron edge.
	AxisEdgeEdge
)

// LastFrameInfo caches the outcome of the previous SAT test for one
// shape pair. When the shapes barely moved, the cached axis is very
// likely still the separating axis or the axis of minimum penetration,
// and testing it alone replaces the full scan.
//
// Valid must be false the first frame a pair exists. The pair tests
// set the remaining fields on every run; callers only read them.
type LastFrameInfo struct {
	// Valid reports whether the cache holds data from a previous frame
	Valid bool
	// UsedSAT reports whether SAT produced the cached axis. Pipelines
	// mixing SAT with other narrow-phase algorithms must clear it when
	// another algorithm handled the pair.
	UsedSAT bool
	// WasColliding reports whether the shapes overlapped last frame
	WasColliding bool

	Kind       AxisKind
	FaceIndex  int
	Edge1Index int
	Edge2Index int
}

func (info *LastFrameInfo) setFace(kind AxisKind, faceIndex int, colliding bool) {
	info.Valid = true
	info.UsedSAT = true
	info.WasColliding = colliding
	info.Kind = kind
	info.FaceIndex = faceIndex
	info.Edge1Index = 0
	info.Edge2Index = 0
}

func (info *LastFrameInfo) setEdges(edge1, edge2 int, colliding bool) {
	info.Valid = true
	info.UsedSAT = true
	info.WasColliding = colliding
	info.Kind = AxisEdgeEdge
	info.FaceIndex = 0
	info.Edge1Index = edge1
	info.Edge2Index = edge2
}
