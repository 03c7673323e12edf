package inout

import "fmt"

// numChildren is the number of children of a refined octree block.
const numChildren = 8

// numFaceNeighbors is the number of face-adjacent blocks at the same level.
const numFaceNeighbors = 6

// GridPoint addresses one cell of the octree's integer grid at some level.
// Valid coordinates at level L lie in [0, 2^L) per axis.
type GridPoint struct {
	X, Y, Z int
}

// BlockIndex identifies one octree block: a grid point plus the level it
// lives at.
type BlockIndex struct {
	Point GridPoint
	Level int
}

// invalidBlock marks block addresses that fall outside the tree, such as
// face neighbors past the root's extent.
var invalidBlock = BlockIndex{Level: -1}

// IsValid reports whether the index addresses a block inside the tree's
// coordinate system.
func (b BlockIndex) IsValid() bool {
	return b.Level >= 0
}

// Child returns the i-th child of the block, i in [0, 8). Bit k of i
// selects the upper half along axis k.
func (b BlockIndex) Child(i int) BlockIndex {
	return BlockIndex{
		Point: GridPoint{
			X: 2*b.Point.X + (i & 1),
			Y: 2*b.Point.Y + ((i >> 1) & 1),
			Z: 2*b.Point.Z + ((i >> 2) & 1),
		},
		Level: b.Level + 1,
	}
}

// Parent returns the block's parent at the next coarser level.
func (b BlockIndex) Parent() BlockIndex {
	return BlockIndex{
		Point: GridPoint{X: b.Point.X >> 1, Y: b.Point.Y >> 1, Z: b.Point.Z >> 1},
		Level: b.Level - 1,
	}
}

// ChildLevel returns the level of the block's children.
func (b BlockIndex) ChildLevel() int {
	return b.Level + 1
}

// faceNeighborOffsets are the six axis-aligned unit steps to face-adjacent
// blocks.
var faceNeighborOffsets = [numFaceNeighbors]GridPoint{
	{X: -1}, {X: 1},
	{Y: -1}, {Y: 1},
	{Z: -1}, {Z: 1},
}

// FaceNeighbor returns the same-level block sharing face i with this block.
// The result may lie outside the root's extent; callers bounds-check it.
func (b BlockIndex) FaceNeighbor(i int) BlockIndex {
	off := faceNeighborOffsets[i]
	return BlockIndex{
		Point: GridPoint{X: b.Point.X + off.X, Y: b.Point.Y + off.Y, Z: b.Point.Z + off.Z},
		Level: b.Level,
	}
}

// String returns a human readable representation of the block index.
func (b BlockIndex) String() string {
	return fmt.Sprintf("block{(%d,%d,%d) @ level %d}", b.Point.X, b.Point.Y, b.Point.Z, b.Level)
}
