package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// IntersectsBox reports whether the triangle and the axis-aligned box
// overlap, using the 13-axis separating axis test: the three box face
// normals, the triangle's plane normal, and the nine cross products of a
// box axis with a triangle edge. If no axis separates them, they intersect.
func IntersectsBox(t *Triangle, bb BoundingBox) bool {
	const eps = 1e-12

	c := bb.Center()
	h := bb.Range().Mul(0.5)

	// Work in the box's frame: translate the triangle so the box is
	// centered at the origin.
	v0 := t.p0.Sub(c)
	v1 := t.p1.Sub(c)
	v2 := t.p2.Sub(c)

	e0 := v1.Sub(v0)
	e1 := v2.Sub(v1)
	e2 := v0.Sub(v2)

	// --- 3 box face axes: equivalent to an AABB/AABB overlap test ---
	if min3(v0.X, v1.X, v2.X) > h.X+eps || max3(v0.X, v1.X, v2.X) < -h.X-eps {
		return false
	}
	if min3(v0.Y, v1.Y, v2.Y) > h.Y+eps || max3(v0.Y, v1.Y, v2.Y) < -h.Y-eps {
		return false
	}
	if min3(v0.Z, v1.Z, v2.Z) > h.Z+eps || max3(v0.Z, v1.Z, v2.Z) < -h.Z-eps {
		return false
	}

	// --- triangle plane axis ---
	n := t.normal
	r := h.X*math.Abs(n.X) + h.Y*math.Abs(n.Y) + h.Z*math.Abs(n.Z)
	if d := n.Dot(v0); math.Abs(d) > r+eps {
		return false
	}

	// --- 9 edge cross axes ---
	for _, e := range []r3.Vector{e0, e1, e2} {
		// axis = X x e = (0, -e.Z, e.Y)
		if axisSeparates(v0, v1, v2, r3.Vector{X: 0, Y: -e.Z, Z: e.Y}, h, eps) {
			return false
		}
		// axis = Y x e = (e.Z, 0, -e.X)
		if axisSeparates(v0, v1, v2, r3.Vector{X: e.Z, Y: 0, Z: -e.X}, h, eps) {
			return false
		}
		// axis = Z x e = (-e.Y, e.X, 0)
		if axisSeparates(v0, v1, v2, r3.Vector{X: -e.Y, Y: e.X, Z: 0}, h, eps) {
			return false
		}
	}

	return true
}

// axisSeparates projects the triangle's corners and the box's half extents
// onto the axis and reports whether their intervals are disjoint. Degenerate
// (near-zero) axes never separate.
func axisSeparates(v0, v1, v2, axis, h r3.Vector, eps float64) bool {
	if axis.Norm2() < eps {
		return false
	}
	p0 := v0.Dot(axis)
	p1 := v1.Dot(axis)
	p2 := v2.Dot(axis)
	r := h.X*math.Abs(axis.X) + h.Y*math.Abs(axis.Y) + h.Z*math.Abs(axis.Z)
	return min3(p0, p1, p2) > r+eps || max3(p0, p1, p2) < -r-eps
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
