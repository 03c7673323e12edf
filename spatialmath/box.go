// Package spatialmath defines the geometric primitives that the containment
// index is built on: axis-aligned bounding boxes, triangles with cached
// normals, and the intersection and distance tests between them.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// floatEpsilon is the tolerance used when comparing floating point values
// that are expected to be equal up to roundoff.
const floatEpsilon = 1e-10

// BoundingBox is an axis-aligned box spanning [Min, Max). The half-open
// convention matters: the leaves of an octree level tile space exactly once,
// so a point on a shared face must belong to exactly one of the two leaves.
type BoundingBox struct {
	Min r3.Vector
	Max r3.Vector
}

// NewBoundingBox creates a box from its extreme corners.
func NewBoundingBox(min, max r3.Vector) BoundingBox {
	return BoundingBox{Min: min, Max: max}
}

// NewEmptyBox creates an inverted box that contains nothing. Adding points
// with AddPoint grows it into the bounding box of those points.
func NewEmptyBox() BoundingBox {
	return BoundingBox{
		Min: r3.Vector{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64},
		Max: r3.Vector{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64},
	}
}

// BoundingBoxFromPoints returns the smallest box containing all given points.
func BoundingBoxFromPoints(pts ...r3.Vector) BoundingBox {
	bb := NewEmptyBox()
	for _, pt := range pts {
		bb.AddPoint(pt)
	}
	return bb
}

// AddPoint grows the box to contain pt.
func (bb *BoundingBox) AddPoint(pt r3.Vector) {
	bb.Min.X = math.Min(bb.Min.X, pt.X)
	bb.Min.Y = math.Min(bb.Min.Y, pt.Y)
	bb.Min.Z = math.Min(bb.Min.Z, pt.Z)
	bb.Max.X = math.Max(bb.Max.X, pt.X)
	bb.Max.Y = math.Max(bb.Max.Y, pt.Y)
	bb.Max.Z = math.Max(bb.Max.Z, pt.Z)
}

// IsValid returns true if the box has non-negative extent on every axis.
func (bb BoundingBox) IsValid() bool {
	return bb.Min.X <= bb.Max.X && bb.Min.Y <= bb.Max.Y && bb.Min.Z <= bb.Max.Z
}

// Contains reports whether pt lies in the half-open interval [Min, Max).
func (bb BoundingBox) Contains(pt r3.Vector) bool {
	return pt.X >= bb.Min.X && pt.X < bb.Max.X &&
		pt.Y >= bb.Min.Y && pt.Y < bb.Max.Y &&
		pt.Z >= bb.Min.Z && pt.Z < bb.Max.Z
}

// Center returns the centroid of the box.
func (bb BoundingBox) Center() r3.Vector {
	return bb.Min.Add(bb.Max).Mul(0.5)
}

// Range returns the per-axis extent of the box.
func (bb BoundingBox) Range() r3.Vector {
	return bb.Max.Sub(bb.Min)
}

// Scale returns a copy of the box inflated (or deflated) about its centroid
// by the given factor.
func (bb BoundingBox) Scale(factor float64) BoundingBox {
	c := bb.Center()
	return BoundingBox{
		Min: c.Add(bb.Min.Sub(c).Mul(factor)),
		Max: c.Add(bb.Max.Sub(c).Mul(factor)),
	}
}

// IntersectsBox reports whether the two boxes overlap, treating both as
// closed intervals.
func (bb BoundingBox) IntersectsBox(other BoundingBox) bool {
	return bb.Min.X <= other.Max.X && other.Min.X <= bb.Max.X &&
		bb.Min.Y <= other.Max.Y && other.Min.Y <= bb.Max.Y &&
		bb.Min.Z <= other.Max.Z && other.Min.Z <= bb.Max.Z
}

// String returns a human readable representation of the box.
func (bb BoundingBox) String() string {
	return fmt.Sprintf("box{min: %v, max: %v}", bb.Min, bb.Max)
}
