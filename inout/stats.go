package inout

import (
	"fmt"
	"strings"
)

// LevelStats counts the blocks of one octree level by kind and color.
type LevelStats struct {
	Blocks   int
	Internal int
	Leaves   int

	Black int
	White int
	Gray  int

	// TriangleRefs counts triangle references held by the level's gray
	// leaves. One triangle may be referenced by several leaves.
	TriangleRefs int
}

func (l *LevelStats) add(other LevelStats) {
	l.Blocks += other.Blocks
	l.Internal += other.Internal
	l.Leaves += other.Leaves
	l.Black += other.Black
	l.White += other.White
	l.Gray += other.Gray
	l.TriangleRefs += other.TriangleRefs
}

// Stats summarizes the structure of a built index.
type Stats struct {
	// Levels holds per-level counts, indexed by level, through the deepest
	// level that has blocks.
	Levels []LevelStats
	// Total aggregates all levels.
	Total LevelStats
	// DeepestLevel is the deepest level with blocks.
	DeepestLevel int

	MeshVertices     int
	MeshTriangles    int
	WeldedVertices   int
	DroppedTriangles int
}

// TotalBlocks returns the number of blocks across all levels.
func (s Stats) TotalBlocks() int { return s.Total.Blocks }

// TotalLeaves returns the number of leaves across all levels.
func (s Stats) TotalLeaves() int { return s.Total.Leaves }

// Stats computes structure counts for the index.
func (i *Index) Stats() Stats {
	s := Stats{
		MeshVertices:     i.mesh.VertexCount(),
		MeshTriangles:    i.mesh.TriangleCount(),
		WeldedVertices:   i.weldedVertices,
		DroppedTriangles: i.droppedTriangles,
	}

	deepest := 0
	perLevel := make([]LevelStats, i.tree.maxLevel+1)
	for lev, level := range i.tree.levels {
		if len(level) == 0 {
			continue
		}
		deepest = lev
		ls := &perLevel[lev]
		for _, st := range level {
			ls.Blocks++
			if !st.isLeaf() {
				ls.Internal++
				continue
			}
			ls.Leaves++
			switch st.color {
			case Black:
				ls.Black++
			case White:
				ls.White++
			case Gray:
				ls.Gray++
			}
		}
		ls.TriangleRefs = len(i.grayLevels[lev].triIndices)
	}

	s.DeepestLevel = deepest
	s.Levels = perLevel[:deepest+1]
	for _, ls := range s.Levels {
		s.Total.add(ls)
	}
	return s
}

// String renders the stats as a per-level table.
func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "mesh: %d vertices (%d welded), %d triangles (%d dropped)\n",
		s.MeshVertices, s.WeldedVertices, s.MeshTriangles, s.DroppedTriangles)
	fmt.Fprintf(&b, "octree: %d blocks, %d leaves, deepest level %d\n",
		s.Total.Blocks, s.Total.Leaves, s.DeepestLevel)
	for lev, ls := range s.Levels {
		if ls.Blocks == 0 {
			continue
		}
		fmt.Fprintf(&b, "  level %2d: %6d blocks (%d internal, %d leaves: %d black, %d white, %d gray), %d triangle refs\n",
			lev, ls.Blocks, ls.Internal, ls.Leaves, ls.Black, ls.White, ls.Gray, ls.TriangleRefs)
	}
	return b.String()
}
