package shape

import "fmt"

// Face is one flat polygonal face of a half-edge mesh
type Face struct {
	Vertices []int // vertex indices, counter-clockwise seen from outside
	Edge     int   // index of one half-edge bordering the face
}

// HalfEdge is one directed side of an undirected mesh edge
type HalfEdge struct {
	Vertex int // origin vertex index
	Next   int // next half-edge around the owning face
	Twin   int // opposite half-edge of the same undirected edge
	Face   int // owning face index
}

// HalfEdgeMesh stores the boundary topology of a closed polyhedron.
//
// Every undirected edge is split into two directed half-edges, one per
// adjacent face. Following Next from a face's edge walks the face loop;
// Twin crosses to the neighbouring face. The mesh is immutable once built.
type HalfEdgeMesh struct {
	faces      []Face
	halfEdges  []HalfEdge
	undirected []int // one representative half-edge per undirected edge
}

// NewHalfEdgeMesh builds the topology from face vertex loops.
//
// Each loop lists the vertex indices of one face, counter-clockwise seen
// from outside the polyhedron. The mesh must be closed: every directed
// edge needs an opposite directed edge on the adjacent face, otherwise an
// error is returned.
func NewHalfEdgeMesh(faceLoops [][]int, vertexCount int) (*HalfEdgeMesh, error) {
	type directedEdge struct {
		from, to int
	}

	mesh := &HalfEdgeMesh{faces: make([]Face, len(faceLoops))}
	edgeIndex := make(map[directedEdge]int)

	for f, loop := range faceLoops {
		if len(loop) < 3 {
			return nil, fmt.Errorf("face %d has %d vertices, a face needs at least 3", f, len(loop))
		}

		first := len(mesh.halfEdges)
		for i, vertex := range loop {
			if vertex < 0 || vertex >= vertexCount {
				return nil, fmt.Errorf("face %d references vertex %d, the mesh has %d vertices", f, vertex, vertexCount)
			}

			head := loop[(i+1)%len(loop)]
			if head == vertex {
				return nil, fmt.Errorf("face %d contains the degenerate edge (%d,%d)", f, vertex, head)
			}

			key := directedEdge{vertex, head}
			if _, duplicated := edgeIndex[key]; duplicated {
				return nil, fmt.Errorf("directed edge (%d,%d) appears on two faces", vertex, head)
			}
			edgeIndex[key] = first + i

			mesh.halfEdges = append(mesh.halfEdges, HalfEdge{
				Vertex: vertex,
				Next:   first + (i+1)%len(loop),
				Twin:   -1,
				Face:   f,
			})
		}

		mesh.faces[f] = Face{
			Vertices: append([]int(nil), loop...),
			Edge:     first,
		}
	}

	// Relier chaque demi-arête à sa jumelle sur la face voisine
	for e := range mesh.halfEdges {
		edge := &mesh.halfEdges[e]
		if edge.Twin >= 0 {
			continue
		}

		head := mesh.halfEdges[edge.Next].Vertex
		twin, closed := edgeIndex[directedEdge{head, edge.Vertex}]
		if !closed {
			return nil, fmt.Errorf("edge (%d,%d) has no twin, the mesh is not closed", edge.Vertex, head)
		}

		edge.Twin = twin
		mesh.halfEdges[twin].Twin = e
		mesh.undirected = append(mesh.undirected, e)
	}

	return mesh, nil
}

// FaceCount returns the number of faces
func (m *HalfEdgeMesh) FaceCount() int {
	return len(m.faces)
}

// Face returns the face at the given index
func (m *HalfEdgeMesh) Face(index int) Face {
	return m.faces[index]
}

// HalfEdgeCount returns the number of half-edges
func (m *HalfEdgeMesh) HalfEdgeCount() int {
	return len(m.halfEdges)
}

// HalfEdge returns the half-edge at the given index
func (m *HalfEdgeMesh) HalfEdge(index int) HalfEdge {
	return m.halfEdges[index]
}

// UndirectedEdges returns one representative half-edge index per
// undirected edge, in a stable order. The slice is shared and must not
// be modified.
func (m *HalfEdgeMesh) UndirectedEdges() []int {
	return m.undirected
}
