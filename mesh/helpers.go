package mesh

import (
	"github.com/meshkit/geom/spatialmath"
)

// TrianglePositions returns triangle i of the mesh as a spatial triangle.
func TrianglePositions(m Mesh, i int) *spatialmath.Triangle {
	a, b, c := m.TriangleVertices(i)
	return spatialmath.NewTriangle(m.VertexPosition(a), m.VertexPosition(b), m.VertexPosition(c))
}

// TriangleBoundingBox returns the bounding box of triangle i of the mesh.
func TriangleBoundingBox(m Mesh, i int) spatialmath.BoundingBox {
	a, b, c := m.TriangleVertices(i)
	return spatialmath.BoundingBoxFromPoints(m.VertexPosition(a), m.VertexPosition(b), m.VertexPosition(c))
}

// BoundingBox returns the bounding box of every vertex in the mesh.
func BoundingBox(m Mesh) spatialmath.BoundingBox {
	bb := spatialmath.NewEmptyBox()
	for i := 0; i < m.VertexCount(); i++ {
		bb.AddPoint(m.VertexPosition(i))
	}
	return bb
}

// IncidentInVertex reports whether triangle i references vertex v.
func IncidentInVertex(m Mesh, i, v int) bool {
	a, b, c := m.TriangleVertices(i)
	return a == v || b == v || c == v
}

// SharedVertex returns a vertex index referenced by both triangles, if any.
func SharedVertex(m Mesh, t0, t1 int) (int, bool) {
	a, b, c := m.TriangleVertices(t1)
	for _, v := range [3]int{a, b, c} {
		if IncidentInVertex(m, t0, v) {
			return v, true
		}
	}
	return NoVertex, false
}

// SharedVertex3 returns a vertex index referenced by all three triangles,
// if any.
func SharedVertex3(m Mesh, t0, t1, t2 int) (int, bool) {
	a, b, c := m.TriangleVertices(t2)
	for _, v := range [3]int{a, b, c} {
		if IncidentInVertex(m, t0, v) && IncidentInVertex(m, t1, v) {
			return v, true
		}
	}
	return NoVertex, false
}
