package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestTriangleBasics(t *testing.T) {
	tri := NewTriangle(
		r3.Vector{},
		r3.Vector{X: 1},
		r3.Vector{Y: 1},
	)

	test.That(t, tri.Area(), test.ShouldAlmostEqual, 0.5)
	test.That(t, tri.UnitNormal(), test.ShouldResemble, r3.Vector{Z: 1})
	test.That(t, tri.Centroid().X, test.ShouldAlmostEqual, 1./3.)
	test.That(t, tri.Centroid().Y, test.ShouldAlmostEqual, 1./3.)
	test.That(t, tri.Degenerate(), test.ShouldBeFalse)

	bb := tri.BoundingBox()
	test.That(t, bb.Min, test.ShouldResemble, r3.Vector{})
	test.That(t, bb.Max, test.ShouldResemble, r3.Vector{X: 1, Y: 1})
}

func TestTriangleDegenerate(t *testing.T) {
	tri := NewTriangle(
		r3.Vector{},
		r3.Vector{X: 1},
		r3.Vector{X: 2},
	)
	test.That(t, tri.Degenerate(), test.ShouldBeTrue)
	test.That(t, tri.UnitNormal(), test.ShouldResemble, r3.Vector{})
}

func TestClosestPointToPoint(t *testing.T) {
	tri := NewTriangle(
		r3.Vector{},
		r3.Vector{X: 2},
		r3.Vector{Y: 2},
	)

	t.Run("projection inside", func(t *testing.T) {
		pt := r3.Vector{X: 0.5, Y: 0.5, Z: 3}
		closest := tri.ClosestPointToPoint(pt)
		test.That(t, closest.X, test.ShouldAlmostEqual, 0.5)
		test.That(t, closest.Y, test.ShouldAlmostEqual, 0.5)
		test.That(t, closest.Z, test.ShouldAlmostEqual, 0)
		test.That(t, tri.DistanceSquaredToPoint(pt), test.ShouldAlmostEqual, 9)
	})

	t.Run("projection outside snaps to edge", func(t *testing.T) {
		pt := r3.Vector{X: -1, Y: 1, Z: 0}
		closest := tri.ClosestPointToPoint(pt)
		test.That(t, closest.X, test.ShouldAlmostEqual, 0)
		test.That(t, closest.Y, test.ShouldAlmostEqual, 1)
		test.That(t, tri.DistanceSquaredToPoint(pt), test.ShouldAlmostEqual, 1)
	})

	t.Run("projection outside snaps to corner", func(t *testing.T) {
		pt := r3.Vector{X: 3, Y: -1, Z: 0}
		closest := tri.ClosestPointToPoint(pt)
		test.That(t, closest.X, test.ShouldAlmostEqual, 2)
		test.That(t, closest.Y, test.ShouldAlmostEqual, 0)
		test.That(t, tri.DistanceSquaredToPoint(pt), test.ShouldAlmostEqual, 2)
	})
}

func TestClosestPointSegmentPoint(t *testing.T) {
	a := r3.Vector{}
	b := r3.Vector{X: 4}

	test.That(t, ClosestPointSegmentPoint(a, b, r3.Vector{X: 2, Y: 1}), test.ShouldResemble, r3.Vector{X: 2})
	test.That(t, ClosestPointSegmentPoint(a, b, r3.Vector{X: -2}), test.ShouldResemble, a)
	test.That(t, ClosestPointSegmentPoint(a, b, r3.Vector{X: 6}), test.ShouldResemble, b)
	// Degenerate segment collapses to a point.
	test.That(t, ClosestPointSegmentPoint(a, a, r3.Vector{X: 6}), test.ShouldResemble, a)
}

func TestTriangleNormalMagnitude(t *testing.T) {
	tri := NewTriangle(
		r3.Vector{X: 1, Y: 1, Z: 1},
		r3.Vector{X: 3, Y: 1, Z: 1},
		r3.Vector{X: 1, Y: 4, Z: 1},
	)
	// The cached normal's magnitude is twice the area.
	test.That(t, tri.Normal().Norm(), test.ShouldAlmostEqual, 2*tri.Area())
	test.That(t, math.Abs(tri.UnitNormal().Z), test.ShouldAlmostEqual, 1)
}
