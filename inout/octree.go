package inout

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/meshkit/geom/spatialmath"
)

// levelMap is the sparse storage for one octree level.
type levelMap map[GridPoint]*blockState

// octree is a sparse spatial octree over a fixed bounding box. Each level
// holds only the blocks that exist, keyed by their grid point. A block is
// either a leaf or internal; internal blocks always have all eight children
// present at the next level.
type octree struct {
	bounds   spatialmath.BoundingBox
	maxLevel int

	// Per-level cell extents and their reciprocals, for point quantization.
	cellExtent    []r3.Vector
	invCellExtent []r3.Vector

	levels []levelMap
}

// newOctree creates an octree over the given bounds with a single root
// leaf. Levels 0 through maxLevel are addressable.
func newOctree(bounds spatialmath.BoundingBox, maxLevel int) *octree {
	o := &octree{
		bounds:        bounds,
		maxLevel:      maxLevel,
		cellExtent:    make([]r3.Vector, maxLevel+1),
		invCellExtent: make([]r3.Vector, maxLevel+1),
		levels:        make([]levelMap, maxLevel+1),
	}
	extent := bounds.Range()
	for lev := 0; lev <= maxLevel; lev++ {
		cells := float64(int(1) << uint(lev))
		o.cellExtent[lev] = extent.Mul(1 / cells)
		o.invCellExtent[lev] = r3.Vector{
			X: cells / extent.X,
			Y: cells / extent.Y,
			Z: cells / extent.Z,
		}
		o.levels[lev] = make(levelMap)
	}
	o.levels[0][GridPoint{}] = newLeafState()
	return o
}

// inBounds reports whether the block address lies within the root's extent.
func (o *octree) inBounds(b BlockIndex) bool {
	if b.Level < 0 || b.Level > o.maxLevel {
		return false
	}
	max := int(1) << uint(b.Level)
	p := b.Point
	return p.X >= 0 && p.X < max && p.Y >= 0 && p.Y < max && p.Z >= 0 && p.Z < max
}

// quantize maps a point inside the bounds to its grid cell at the given
// level, clamping to the valid range so points on the upper boundary land
// in the last cell.
func (o *octree) quantize(pt r3.Vector, level int) GridPoint {
	d := pt.Sub(o.bounds.Min)
	inv := o.invCellExtent[level]
	max := (int(1) << uint(level)) - 1
	return GridPoint{
		X: clampInt(int(d.X*inv.X), 0, max),
		Y: clampInt(int(d.Y*inv.Y), 0, max),
		Z: clampInt(int(d.Z*inv.Z), 0, max),
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// blockBounds returns the spatial region covered by the block. Regions are
// half open, so every point in the root bounds lies in exactly one block
// per level.
func (o *octree) blockBounds(b BlockIndex) spatialmath.BoundingBox {
	d := o.cellExtent[b.Level]
	p := b.Point
	min := o.bounds.Min.Add(r3.Vector{X: float64(p.X) * d.X, Y: float64(p.Y) * d.Y, Z: float64(p.Z) * d.Z})
	return spatialmath.NewBoundingBox(min, min.Add(d))
}

// state returns the block's record, or nil if the block is not in the tree.
func (o *octree) state(b BlockIndex) *blockState {
	if b.Level < 0 || b.Level > o.maxLevel {
		return nil
	}
	return o.levels[b.Level][b.Point]
}

// findLeaf locates the unique leaf block containing the point, which must
// lie within the tree's bounds. The search bisects over levels: a missing
// block means the leaf is coarser, an internal block means it is finer.
func (o *octree) findLeaf(pt r3.Vector, startLevel int) (BlockIndex, error) {
	minLev, maxLev := 0, o.maxLevel
	lev := clampInt(startLevel, minLev, maxLev)
	for minLev <= maxLev {
		b := BlockIndex{Point: o.quantize(pt, lev), Level: lev}
		st := o.state(b)
		switch {
		case st == nil:
			maxLev = lev - 1
		case st.isLeaf():
			return b, nil
		default:
			minLev = lev + 1
		}
		lev = (minLev + maxLev) / 2
	}
	return invalidBlock, errors.Errorf("no leaf block contains point %v; octree structure is inconsistent", pt)
}

// refineLeaf converts a leaf into an internal block and inserts its eight
// children as empty leaves. The leaf's payload must already be cleared or
// reassigned by the caller.
func (o *octree) refineLeaf(b BlockIndex, st *blockState) {
	st.setInternal()
	childLevel := o.levels[b.ChildLevel()]
	for i := 0; i < numChildren; i++ {
		childLevel[b.Child(i).Point] = newLeafState()
	}
}

// coveringLeaf walks from the given block address toward the root and
// returns the leaf whose region covers it. It returns an invalid block when
// the address is out of bounds or when the region is partitioned finer than
// the address (an internal block is hit first).
func (o *octree) coveringLeaf(b BlockIndex) BlockIndex {
	if !o.inBounds(b) {
		return invalidBlock
	}
	for cur := b; cur.Level >= 0; cur = cur.Parent() {
		st := o.state(cur)
		if st == nil {
			continue
		}
		if st.isLeaf() {
			return cur
		}
		return invalidBlock
	}
	return invalidBlock
}
