package inout

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats/scalar"
)

// colorLeaves assigns black or white to every non-gray leaf by flooding
// colors across face neighbors, deepest level first. Gray leaves were
// colored during triangle distribution and seed the flood.
func (i *Index) colorLeaves() error {
	for lev := i.tree.maxLevel; lev >= 0; lev-- {
		level := i.tree.levels[lev]
		if len(level) == 0 {
			continue
		}

		var uncolored []GridPoint
		for pt, st := range level {
			if !st.isLeaf() {
				continue
			}
			if !i.colorLeafAndNeighbors(BlockIndex{Point: pt, Level: lev}, st) {
				uncolored = append(uncolored, pt)
			}
		}

		// Within a level, colors can arrive late via neighbors colored
		// after a block was first visited. Re-sweep until settled; every
		// pass must make progress or the surface is not closed.
		for len(uncolored) > 0 {
			remaining := uncolored[:0]
			for _, pt := range uncolored {
				if !i.colorLeafAndNeighbors(BlockIndex{Point: pt, Level: lev}, level[pt]) {
					remaining = append(remaining, pt)
				}
			}
			if len(remaining) == len(uncolored) {
				return errors.Errorf(
					"leaf coloring stalled at level %d with %d uncolored blocks (first: %v); "+
						"the surface is likely not closed", lev, len(remaining),
					BlockIndex{Point: remaining[0], Level: lev})
			}
			uncolored = remaining
		}
	}
	return nil
}

// colorLeafAndNeighbors tries to color the leaf from its already colored
// face neighbors and, once the leaf has a color, pushes that color onto any
// uncolored neighbors. It reports whether the leaf is colored afterwards.
func (i *Index) colorLeafAndNeighbors(blk BlockIndex, st *blockState) bool {
	if st.color == Undetermined {
		// Adopt a color from any colored same-level face neighbor.
		for n := 0; n < numFaceNeighbors && st.color == Undetermined; n++ {
			nbrBlk := blk.FaceNeighbor(n)
			if !i.tree.inBounds(nbrBlk) {
				continue
			}
			nbrState := i.tree.state(nbrBlk)
			if nbrState == nil || !nbrState.isLeaf() {
				continue
			}
			switch nbrState.color {
			case Black:
				st.color = Black
			case White:
				st.color = White
			case Gray:
				if i.withinGrayBlock(i.tree.blockBounds(blk).Center(), nbrBlk, nbrState) {
					st.color = Black
				} else {
					st.color = White
				}
			}
		}
		if st.color == Undetermined {
			return false
		}
	}

	// Propagate our color to uncolored covering leaves of our neighbors.
	// These can be at our level or coarser.
	for n := 0; n < numFaceNeighbors; n++ {
		nbrBlk := i.tree.coveringLeaf(blk.FaceNeighbor(n))
		if !nbrBlk.IsValid() {
			continue
		}
		nbrState := i.tree.state(nbrBlk)
		if nbrState.color != Undetermined {
			continue
		}
		switch st.color {
		case Black:
			nbrState.color = Black
		case White:
			nbrState.color = White
		case Gray:
			if i.withinGrayBlock(i.tree.blockBounds(nbrBlk).Center(), blk, st) {
				nbrState.color = Black
			} else {
				nbrState.color = White
			}
		}
	}
	return true
}

// withinGrayBlock decides containment for a point whose leaf intersects the
// surface, using the leaf's triangle set. When every triangle agrees on the
// sign of the point against its plane, that sign answers directly.
// Otherwise the point is compared against the pseudonormal built from the
// triangles closest to it.
func (i *Index) withinGrayBlock(pt r3.Vector, blk BlockIndex, st *blockState) bool {
	rel := &i.grayLevels[blk.Level]
	v := rel.vertex[st.data]
	tris := rel.triangles(st.data)

	// Direction from the leaf's surface vertex to the query point. Signs
	// are measured against this ray.
	dir := pt.Sub(i.mesh.VertexPosition(v))

	pos, neg := 0, 0
	for _, t := range tris {
		if dir.Dot(i.triangle(t).Normal()) >= 0 {
			pos++
		} else {
			neg++
		}
	}
	// Unanimous triangles answer directly: all normals pointing toward the
	// point means outside, all away means inside.
	switch {
	case neg == 0:
		return false
	case pos == 0:
		return true
	}

	// Mixed signs. Average the unit normals of the triangles nearest the
	// point and test against that pseudonormal.
	dists := make([]float64, len(tris))
	minDist := -1.0
	for k, t := range tris {
		dists[k] = i.triangle(t).DistanceSquaredToPoint(pt)
		if minDist < 0 || dists[k] < minDist {
			minDist = dists[k]
		}
	}
	var pseudonormal r3.Vector
	for k, t := range tris {
		if scalar.EqualWithinAbsOrRel(dists[k], minDist, i.opts.tieAbsTol, i.opts.tieRelTol) {
			pseudonormal = pseudonormal.Add(i.triangle(t).UnitNormal())
		}
	}
	return dir.Dot(pseudonormal) < 0
}
