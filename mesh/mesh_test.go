package mesh

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestNewTriangleSoup(t *testing.T) {
	verts := []r3.Vector{{}, {X: 1}, {Y: 1}, {Z: 1}}

	t.Run("valid", func(t *testing.T) {
		m, err := NewTriangleSoup(verts, [][3]int{{0, 1, 2}, {0, 2, 3}})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, m.VertexCount(), test.ShouldEqual, 4)
		test.That(t, m.TriangleCount(), test.ShouldEqual, 2)

		a, b, c := m.TriangleVertices(1)
		test.That(t, a, test.ShouldEqual, 0)
		test.That(t, b, test.ShouldEqual, 2)
		test.That(t, c, test.ShouldEqual, 3)
		test.That(t, m.VertexPosition(3), test.ShouldResemble, r3.Vector{Z: 1})
	})

	t.Run("out of range index", func(t *testing.T) {
		_, err := NewTriangleSoup(verts, [][3]int{{0, 1, 4}})
		test.That(t, err, test.ShouldNotBeNil)
		_, err = NewTriangleSoup(verts, [][3]int{{0, -1, 2}})
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestReindex(t *testing.T) {
	// Vertices 1 and 3 are duplicates at (1,0,0); welding maps 3 onto 1.
	verts := []r3.Vector{{}, {X: 1}, {Y: 1}, {X: 1}, {Z: 1}}
	m, err := NewTriangleSoup(verts, [][3]int{
		{0, 1, 2},
		{0, 3, 4}, // references the duplicate; survives with remapped indices
		{1, 3, 4}, // collapses once 1 and 3 merge
	})
	test.That(t, err, test.ShouldBeNil)

	vertexMap := []int{0, 1, 2, 1, 3}
	dropped := m.Reindex(4, vertexMap)

	test.That(t, dropped, test.ShouldEqual, 1)
	test.That(t, m.VertexCount(), test.ShouldEqual, 4)
	test.That(t, m.TriangleCount(), test.ShouldEqual, 2)
	test.That(t, m.VertexPosition(1), test.ShouldResemble, r3.Vector{X: 1})
	test.That(t, m.VertexPosition(3), test.ShouldResemble, r3.Vector{Z: 1})

	a, b, c := m.TriangleVertices(1)
	test.That(t, [3]int{a, b, c}, test.ShouldResemble, [3]int{0, 1, 3})
}

func TestHelpers(t *testing.T) {
	verts := []r3.Vector{{}, {X: 2}, {Y: 2}, {Z: 2}}
	m, err := NewTriangleSoup(verts, [][3]int{
		{0, 1, 2},
		{0, 2, 3},
		{0, 3, 1},
		{1, 3, 2},
	})
	test.That(t, err, test.ShouldBeNil)

	t.Run("triangle positions", func(t *testing.T) {
		tri := TrianglePositions(m, 0)
		test.That(t, tri.Points()[1], test.ShouldResemble, r3.Vector{X: 2})
		test.That(t, tri.Area(), test.ShouldAlmostEqual, 2)

		bb := TriangleBoundingBox(m, 3)
		test.That(t, bb.Min, test.ShouldResemble, r3.Vector{})
		test.That(t, bb.Max, test.ShouldResemble, r3.Vector{X: 2, Y: 2, Z: 2})
	})

	t.Run("mesh bounding box", func(t *testing.T) {
		bb := BoundingBox(m)
		test.That(t, bb.Min, test.ShouldResemble, r3.Vector{})
		test.That(t, bb.Max, test.ShouldResemble, r3.Vector{X: 2, Y: 2, Z: 2})
	})

	t.Run("incidence", func(t *testing.T) {
		test.That(t, IncidentInVertex(m, 0, 1), test.ShouldBeTrue)
		test.That(t, IncidentInVertex(m, 1, 1), test.ShouldBeFalse)
	})

	t.Run("shared vertices", func(t *testing.T) {
		v, ok := SharedVertex(m, 0, 1)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, IncidentInVertex(m, 0, v), test.ShouldBeTrue)
		test.That(t, IncidentInVertex(m, 1, v), test.ShouldBeTrue)

		v, ok = SharedVertex3(m, 0, 1, 2)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, v, test.ShouldEqual, 0)

		// Triangles 0, 1 and 3 only pairwise share vertices with triangle 2
		// removed from the picture; all three share vertex 2.
		v, ok = SharedVertex3(m, 0, 1, 3)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, v, test.ShouldEqual, 2)
	})
}
