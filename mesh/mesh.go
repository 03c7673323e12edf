// Package mesh defines the narrow surface-mesh contract the containment
// index consumes, and a flat-storage implementation of it. Mesh file
// parsing and regeneration live with the callers; this package only deals
// in vertices and triangle index triples.
package mesh

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// NoVertex marks the absence of a vertex index.
const NoVertex = -1

// Mesh is a triangle surface addressed by vertex and triangle indices.
//
// Reindex replaces the mesh's vertex and triangle storage in place:
// vertexMap maps every old vertex index to its new index (several old
// vertices may map to one new vertex after welding), newVertexCount is the
// size of the new vertex set, and triangles left with fewer than three
// distinct vertex indices are dropped. It returns the number of dropped
// triangles. It is called exactly once, by the index builder, after
// vertex welding.
type Mesh interface {
	VertexCount() int
	VertexPosition(i int) r3.Vector

	TriangleCount() int
	TriangleVertices(i int) (int, int, int)

	Reindex(newVertexCount int, vertexMap []int) int
}

// TriangleSoup is a Mesh backed by flat slices. Duplicate vertices are
// allowed (and expected, for meshes read from triangle-soup formats); the
// index builder welds them during construction.
type TriangleSoup struct {
	positions []r3.Vector
	triangles []int // 3 vertex indices per triangle
}

// NewTriangleSoup creates a mesh from vertex positions and triangle vertex
// index triples. Triangle indices must refer to the given vertices.
func NewTriangleSoup(vertices []r3.Vector, triangles [][3]int) (*TriangleSoup, error) {
	tris := make([]int, 0, 3*len(triangles))
	for i, tv := range triangles {
		for _, v := range tv {
			if v < 0 || v >= len(vertices) {
				return nil, errors.Errorf("triangle %d references vertex %d, mesh has %d vertices", i, v, len(vertices))
			}
			tris = append(tris, v)
		}
	}
	return &TriangleSoup{positions: vertices, triangles: tris}, nil
}

// VertexCount returns the number of vertices.
func (m *TriangleSoup) VertexCount() int {
	return len(m.positions)
}

// VertexPosition returns the position of vertex i.
func (m *TriangleSoup) VertexPosition(i int) r3.Vector {
	return m.positions[i]
}

// TriangleCount returns the number of triangles.
func (m *TriangleSoup) TriangleCount() int {
	return len(m.triangles) / 3
}

// TriangleVertices returns the three vertex indices of triangle i.
func (m *TriangleSoup) TriangleVertices(i int) (int, int, int) {
	return m.triangles[3*i], m.triangles[3*i+1], m.triangles[3*i+2]
}

// Reindex implements the Mesh contract. See the interface documentation.
func (m *TriangleSoup) Reindex(newVertexCount int, vertexMap []int) int {
	newPositions := make([]r3.Vector, newVertexCount)
	for i, pos := range m.positions {
		if newIdx := vertexMap[i]; newIdx != NoVertex {
			newPositions[newIdx] = pos
		}
	}

	dropped := 0
	newTriangles := make([]int, 0, len(m.triangles))
	for i := 0; i < len(m.triangles); i += 3 {
		a := vertexMap[m.triangles[i]]
		b := vertexMap[m.triangles[i+1]]
		c := vertexMap[m.triangles[i+2]]

		// Welding can collapse a triangle's corners together; such triangles
		// carry no surface and are removed.
		if a == b || b == c || c == a {
			dropped++
			continue
		}
		newTriangles = append(newTriangles, a, b, c)
	}

	m.positions = newPositions
	m.triangles = newTriangles
	return dropped
}
