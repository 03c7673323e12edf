package inout

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/meshkit/geom/spatialmath"
)

func TestBlockIndexArithmetic(t *testing.T) {
	blk := BlockIndex{Point: GridPoint{X: 2, Y: 5, Z: 1}, Level: 3}

	t.Run("children and parents", func(t *testing.T) {
		seen := map[GridPoint]bool{}
		for c := 0; c < numChildren; c++ {
			child := blk.Child(c)
			test.That(t, child.Level, test.ShouldEqual, 4)
			test.That(t, child.Parent(), test.ShouldResemble, blk)
			seen[child.Point] = true
		}
		test.That(t, len(seen), test.ShouldEqual, numChildren)

		first := blk.Child(0)
		test.That(t, first.Point, test.ShouldResemble, GridPoint{X: 4, Y: 10, Z: 2})
		last := blk.Child(7)
		test.That(t, last.Point, test.ShouldResemble, GridPoint{X: 5, Y: 11, Z: 3})
	})

	t.Run("face neighbors", func(t *testing.T) {
		seen := map[GridPoint]bool{}
		for n := 0; n < numFaceNeighbors; n++ {
			nbr := blk.FaceNeighbor(n)
			test.That(t, nbr.Level, test.ShouldEqual, blk.Level)
			dx := abs(nbr.Point.X-blk.Point.X) + abs(nbr.Point.Y-blk.Point.Y) + abs(nbr.Point.Z-blk.Point.Z)
			test.That(t, dx, test.ShouldEqual, 1)
			seen[nbr.Point] = true
		}
		test.That(t, len(seen), test.ShouldEqual, numFaceNeighbors)
	})

	t.Run("validity", func(t *testing.T) {
		test.That(t, blk.IsValid(), test.ShouldBeTrue)
		test.That(t, invalidBlock.IsValid(), test.ShouldBeFalse)
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func testBounds() spatialmath.BoundingBox {
	return spatialmath.NewBoundingBox(r3.Vector{}, r3.Vector{X: 8, Y: 8, Z: 8})
}

func TestOctreeQuantize(t *testing.T) {
	o := newOctree(testBounds(), 6)

	test.That(t, o.quantize(r3.Vector{X: 1, Y: 1, Z: 1}, 0), test.ShouldResemble, GridPoint{})
	test.That(t, o.quantize(r3.Vector{X: 3, Y: 5, Z: 7}, 3), test.ShouldResemble, GridPoint{X: 3, Y: 5, Z: 7})

	// Points on the upper boundary clamp into the last cell.
	test.That(t, o.quantize(r3.Vector{X: 8, Y: 8, Z: 8}, 2), test.ShouldResemble, GridPoint{X: 3, Y: 3, Z: 3})

	bb := o.blockBounds(BlockIndex{Point: GridPoint{X: 1, Y: 0, Z: 3}, Level: 2})
	test.That(t, bb.Min, test.ShouldResemble, r3.Vector{X: 2, Y: 0, Z: 6})
	test.That(t, bb.Max, test.ShouldResemble, r3.Vector{X: 4, Y: 2, Z: 8})
}

func TestOctreeInBounds(t *testing.T) {
	o := newOctree(testBounds(), 4)

	test.That(t, o.inBounds(BlockIndex{Point: GridPoint{}, Level: 0}), test.ShouldBeTrue)
	test.That(t, o.inBounds(BlockIndex{Point: GridPoint{X: 3, Y: 3, Z: 3}, Level: 2}), test.ShouldBeTrue)
	test.That(t, o.inBounds(BlockIndex{Point: GridPoint{X: 4, Y: 0, Z: 0}, Level: 2}), test.ShouldBeFalse)
	test.That(t, o.inBounds(BlockIndex{Point: GridPoint{X: -1, Y: 0, Z: 0}, Level: 2}), test.ShouldBeFalse)
	test.That(t, o.inBounds(BlockIndex{Point: GridPoint{}, Level: 5}), test.ShouldBeFalse)
	test.That(t, o.inBounds(invalidBlock), test.ShouldBeFalse)
}

func TestOctreeRefineAndFind(t *testing.T) {
	o := newOctree(testBounds(), 6)

	pt := r3.Vector{X: 1, Y: 1, Z: 1}
	blk, err := o.findLeaf(pt, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, blk, test.ShouldResemble, BlockIndex{})

	// Refine the root, then one child; the leaf containing pt gets deeper
	// each time, regardless of the level the search starts at.
	o.refineLeaf(blk, o.state(blk))
	for start := 0; start <= 6; start++ {
		blk, err = o.findLeaf(pt, start)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, blk.Level, test.ShouldEqual, 1)
		test.That(t, blk.Point, test.ShouldResemble, GridPoint{})
	}

	o.refineLeaf(blk, o.state(blk))
	blk, err = o.findLeaf(pt, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, blk.Level, test.ShouldEqual, 2)

	// Points in an unrefined octant still resolve at level 1.
	other, err := o.findLeaf(r3.Vector{X: 7, Y: 7, Z: 7}, 4)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, other, test.ShouldResemble, BlockIndex{Point: GridPoint{X: 1, Y: 1, Z: 1}, Level: 1})
}

func TestOctreeCoveringLeaf(t *testing.T) {
	o := newOctree(testBounds(), 6)
	root := BlockIndex{}
	o.refineLeaf(root, o.state(root))
	child := root.Child(0)
	o.refineLeaf(child, o.state(child))

	t.Run("self when already a leaf", func(t *testing.T) {
		leaf := child.Child(3)
		test.That(t, o.coveringLeaf(leaf), test.ShouldResemble, leaf)
	})

	t.Run("ancestor when address is deeper than the leaf", func(t *testing.T) {
		// (2,2,2)@2 is inside the unrefined level-1 block (1,1,1).
		deep := BlockIndex{Point: GridPoint{X: 2, Y: 2, Z: 2}, Level: 2}
		test.That(t, o.coveringLeaf(deep), test.ShouldResemble,
			BlockIndex{Point: GridPoint{X: 1, Y: 1, Z: 1}, Level: 1})
	})

	t.Run("invalid when region is refined finer", func(t *testing.T) {
		test.That(t, o.coveringLeaf(child).IsValid(), test.ShouldBeFalse)
		test.That(t, o.coveringLeaf(root).IsValid(), test.ShouldBeFalse)
	})

	t.Run("invalid outside the bounds", func(t *testing.T) {
		outside := BlockIndex{Point: GridPoint{X: -1, Y: 0, Z: 0}, Level: 1}
		test.That(t, o.coveringLeaf(outside).IsValid(), test.ShouldBeFalse)
	})
}
