package spatialmath

import (
	"github.com/golang/geo/r3"
)

// Triangle is a triangle in 3-space with a cached plane normal. The cached
// normal is not normalized; its magnitude is twice the triangle's area.
type Triangle struct {
	p0 r3.Vector
	p1 r3.Vector
	p2 r3.Vector

	normal r3.Vector
}

// NewTriangle creates a triangle from its three corners.
func NewTriangle(p0, p1, p2 r3.Vector) *Triangle {
	return &Triangle{
		p0:     p0,
		p1:     p1,
		p2:     p2,
		normal: p1.Sub(p0).Cross(p2.Sub(p0)),
	}
}

// Points returns the three corners of the triangle.
func (t *Triangle) Points() []r3.Vector {
	return []r3.Vector{t.p0, t.p1, t.p2}
}

// Normal returns the cached plane normal. It is not unit length.
func (t *Triangle) Normal() r3.Vector {
	return t.normal
}

// UnitNormal returns the normalized plane normal. The zero vector is
// returned for degenerate triangles.
func (t *Triangle) UnitNormal() r3.Vector {
	if t.Degenerate() {
		return r3.Vector{}
	}
	return t.normal.Normalize()
}

// Area returns the area of the triangle.
func (t *Triangle) Area() float64 {
	return t.normal.Norm() / 2
}

// Centroid returns the barycenter of the triangle.
func (t *Triangle) Centroid() r3.Vector {
	return t.p0.Add(t.p1).Add(t.p2).Mul(1. / 3.)
}

// Degenerate reports whether the triangle has (numerically) zero area.
func (t *Triangle) Degenerate() bool {
	return t.normal.Norm2() < floatEpsilon*floatEpsilon
}

// BoundingBox returns the axis-aligned bounding box of the triangle.
func (t *Triangle) BoundingBox() BoundingBox {
	return BoundingBoxFromPoints(t.p0, t.p1, t.p2)
}

// ClosestInsidePoint returns the closest point on the triangle's plane to
// the query point IF AND ONLY IF its projection falls within the triangle.
// The boolean reports whether the projection was inside.
func (t *Triangle) ClosestInsidePoint(point r3.Vector) (r3.Vector, bool) {
	eps := 1e-6

	// Parametrize the triangle s.t. a point inside the triangle is
	// Q = p0 + u * e0 + v * e1, when 0 <= u <= 1, 0 <= v <= 1, and
	// 0 <= u + v <= 1. Let e0 = (p1 - p0) and e1 = (p2 - p0).
	// We analytically minimize the distance between the point pt and Q.
	e0 := t.p1.Sub(t.p0)
	e1 := t.p2.Sub(t.p0)
	a := e0.Norm2()
	b := e0.Dot(e1)
	c := e1.Norm2()
	d := point.Sub(t.p0)
	// The determinant is 0 only if the angle between e1 and e0 is 0
	// (i.e. the triangle has overlapping lines).
	det := (a*c - b*b)
	u := (c*e0.Dot(d) - b*e1.Dot(d)) / det
	v := (-b*e0.Dot(d) + a*e1.Dot(d)) / det
	inside := (0 <= u+eps) && (u <= 1+eps) && (0 <= v+eps) && (v <= 1+eps) && (u+v <= 1+eps)
	return t.p0.Add(e0.Mul(u)).Add(e1.Mul(v)), inside
}

// ClosestPointToPoint returns the closest point on the triangle (interior,
// edge, or corner) to the given point.
func (t *Triangle) ClosestPointToPoint(point r3.Vector) r3.Vector {
	closestPtInside, inside := t.ClosestInsidePoint(point)
	if inside {
		return closestPtInside
	}

	// If the closest point is outside the triangle, it must be on an edge, so we
	// check each triangle edge for a closest point to the point pt.
	closestPt := ClosestPointSegmentPoint(t.p0, t.p1, point)
	bestDist := point.Sub(closestPt).Norm2()

	newPt := ClosestPointSegmentPoint(t.p1, t.p2, point)
	if newDist := point.Sub(newPt).Norm2(); newDist < bestDist {
		closestPt = newPt
		bestDist = newDist
	}

	newPt = ClosestPointSegmentPoint(t.p2, t.p0, point)
	if newDist := point.Sub(newPt).Norm2(); newDist < bestDist {
		return newPt
	}
	return closestPt
}

// DistanceSquaredToPoint returns the squared distance from the point to the
// nearest point on the triangle.
func (t *Triangle) DistanceSquaredToPoint(point r3.Vector) float64 {
	return point.Sub(t.ClosestPointToPoint(point)).Norm2()
}

// ClosestPointSegmentPoint returns the closest point on the segment ab to
// the query point.
func ClosestPointSegmentPoint(a, b, pt r3.Vector) r3.Vector {
	ab := b.Sub(a)
	abLen := ab.Norm2()
	if abLen < floatEpsilon*floatEpsilon {
		return a
	}
	s := pt.Sub(a).Dot(ab) / abLen
	if s < 0 {
		return a
	}
	if s > 1 {
		return b
	}
	return a.Add(ab.Mul(s))
}
