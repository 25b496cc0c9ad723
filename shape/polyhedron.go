package shape

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ConvexPolyhedron represents a convex polyhedron collision shape backed
// by a half-edge mesh.
//
// Face normals are outward unit vectors in local space, computed once at
// construction. Triangles are polyhedra with two opposite-winding faces
// over the same three vertices; they are flagged so callers can treat
// them specially.
type ConvexPolyhedron struct {
	vertices    []mgl64.Vec3
	mesh        *HalfEdgeMesh
	faceNormals []mgl64.Vec3
	centroid    mgl64.Vec3
	triangle    bool
}

// NewConvexPolyhedron builds a polyhedron from vertex positions and face
// vertex loops. Faces must be planar, convex and wound counter-clockwise
// seen from outside; the loops must describe a closed mesh.
func NewConvexPolyhedron(vertices []mgl64.Vec3, faceLoops [][]int) (*ConvexPolyhedron, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("a polyhedron needs at least 3 vertices, got %d", len(vertices))
	}

	mesh, err := NewHalfEdgeMesh(faceLoops, len(vertices))
	if err != nil {
		return nil, err
	}

	normals := make([]mgl64.Vec3, len(faceLoops))
	for f, loop := range faceLoops {
		normal, err := newellNormal(vertices, loop)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", f, err)
		}
		normals[f] = normal
	}

	var centroid mgl64.Vec3
	for _, vertex := range vertices {
		centroid = centroid.Add(vertex)
	}
	centroid = centroid.Mul(1.0 / float64(len(vertices)))

	return &ConvexPolyhedron{
		vertices:    append([]mgl64.Vec3(nil), vertices...),
		mesh:        mesh,
		faceNormals: normals,
		centroid:    centroid,
	}, nil
}

// newellNormal computes the outward unit normal of a counter-clockwise
// face loop with Newell's method
func newellNormal(vertices []mgl64.Vec3, loop []int) (mgl64.Vec3, error) {
	var normal mgl64.Vec3
	for i, index := range loop {
		v1 := vertices[index]
		v2 := vertices[loop[(i+1)%len(loop)]]

		normal[0] += (v1.Y() - v2.Y()) * (v1.Z() + v2.Z())
		normal[1] += (v1.Z() - v2.Z()) * (v1.X() + v2.X())
		normal[2] += (v1.X() - v2.X()) * (v1.Y() + v2.Y())
	}

	if normal.LenSqr() < 1e-12 {
		return mgl64.Vec3{}, fmt.Errorf("degenerate face, normal has zero length")
	}

	return normal.Normalize(), nil
}

// NewBox builds the polyhedron of a box from its half-extents
func NewBox(halfExtents mgl64.Vec3) *ConvexPolyhedron {
	hx, hy, hz := halfExtents.X(), halfExtents.Y(), halfExtents.Z()

	// Les 8 coins de la boîte en espace local
	vertices := []mgl64.Vec3{
		{-hx, -hy, -hz},
		{+hx, -hy, -hz},
		{+hx, +hy, -hz},
		{-hx, +hy, -hz},
		{-hx, -hy, +hz},
		{+hx, -hy, +hz},
		{+hx, +hy, +hz},
		{-hx, +hy, +hz},
	}

	// Les 6 faces, ordre CCW vu de l'extérieur
	faceLoops := [][]int{
		{0, 4, 7, 3}, // -X
		{1, 2, 6, 5}, // +X
		{0, 1, 5, 4}, // -Y
		{3, 7, 6, 2}, // +Y
		{0, 3, 2, 1}, // -Z
		{4, 5, 6, 7}, // +Z
	}

	box, err := NewConvexPolyhedron(vertices, faceLoops)
	if err != nil {
		panic(err) // the box tables always describe a closed mesh
	}

	return box
}

// NewTriangle builds the degenerate polyhedron of a triangle: two
// opposite-winding faces over the same three vertices
func NewTriangle(v1, v2, v3 mgl64.Vec3) (*ConvexPolyhedron, error) {
	triangle, err := NewConvexPolyhedron(
		[]mgl64.Vec3{v1, v2, v3},
		[][]int{{0, 1, 2}, {0, 2, 1}},
	)
	if err != nil {
		return nil, err
	}

	triangle.triangle = true

	return triangle, nil
}

func (p *ConvexPolyhedron) Type() ShapeType {
	return ShapeTypeConvexPolyhedron
}

// IsTriangle reports whether the polyhedron is a two-faced triangle
func (p *ConvexPolyhedron) IsTriangle() bool {
	return p.triangle
}

// FaceCount returns the number of faces
func (p *ConvexPolyhedron) FaceCount() int {
	return p.mesh.FaceCount()
}

// Face returns the face at the given index
func (p *ConvexPolyhedron) Face(index int) Face {
	return p.mesh.Face(index)
}

// FaceNormal returns the outward unit normal of a face, in local space
func (p *ConvexPolyhedron) FaceNormal(index int) mgl64.Vec3 {
	return p.faceNormals[index]
}

// HalfEdgeCount returns the number of half-edges
func (p *ConvexPolyhedron) HalfEdgeCount() int {
	return p.mesh.HalfEdgeCount()
}

// HalfEdge returns the half-edge at the given index
func (p *ConvexPolyhedron) HalfEdge(index int) HalfEdge {
	return p.mesh.HalfEdge(index)
}

// UndirectedEdges returns one representative half-edge index per
// undirected edge. The slice is shared and must not be modified.
func (p *ConvexPolyhedron) UndirectedEdges() []int {
	return p.mesh.UndirectedEdges()
}

// VertexCount returns the number of vertices
func (p *ConvexPolyhedron) VertexCount() int {
	return len(p.vertices)
}

// Vertex returns the local-space position of a vertex
func (p *ConvexPolyhedron) Vertex(index int) mgl64.Vec3 {
	return p.vertices[index]
}

// Centroid returns the local-space centroid of the vertices
func (p *ConvexPolyhedron) Centroid() mgl64.Vec3 {
	return p.centroid
}

// Support returns the vertex farthest along the given direction, without
// any collision margin
func (p *ConvexPolyhedron) Support(direction mgl64.Vec3) mgl64.Vec3 {
	best := p.vertices[0]
	bestDot := direction.Dot(best)

	for _, vertex := range p.vertices[1:] {
		if dot := direction.Dot(vertex); dot > bestDot {
			bestDot = dot
			best = vertex
		}
	}

	return best
}

// SupportWithMargin returns the support point inflated by a collision
// margin along the direction
func (p *ConvexPolyhedron) SupportWithMargin(direction mgl64.Vec3, margin float64) mgl64.Vec3 {
	support := p.Support(direction)
	if direction.LenSqr() < 1e-12 {
		return support
	}

	return support.Add(direction.Normalize().Mul(margin))
}

// ComputeAABB calculates the world-space bounding box of the polyhedron
func (p *ConvexPolyhedron) ComputeAABB(transform Transform) AABB {
	world := transform.Apply(p.vertices[0])
	min := world
	max := world

	// Transformer tous les autres sommets et étendre l'AABB
	for _, vertex := range p.vertices[1:] {
		world = transform.Apply(vertex)

		min[0] = math.Min(min[0], world[0])
		min[1] = math.Min(min[1], world[1])
		min[2] = math.Min(min[2], world[2])

		max[0] = math.Max(max[0], world[0])
		max[1] = math.Max(max[1], world[1])
		max[2] = math.Max(max[2], world[2])
	}

	return AABB{Min: min, Max: max}
}
