// Package inout builds a spatial containment index over a closed triangle
// surface and answers point-in-surface queries against it.
//
// The index is an adaptive octree over the mesh bounding box. Construction
// welds duplicate vertices, distributes triangles into leaves until every
// leaf's triangles share a common vertex, and then colors each leaf as
// inside (black), outside (white), or surface intersecting (gray). Queries
// locate the leaf containing the point; black and white leaves answer
// immediately, gray leaves resolve against their local triangles.
package inout

import (
	"time"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/meshkit/geom/mesh"
	"github.com/meshkit/geom/spatialmath"
)

// boundsInflation grows the mesh bounding box slightly so every vertex lies
// strictly inside the root block.
const boundsInflation = 1.0001

type options struct {
	maxDepth  int
	weldEpsSq float64
	tieAbsTol float64
	tieRelTol float64
}

func defaultOptions() options {
	return options{
		maxDepth:  20,
		weldEpsSq: 1e-18,
		tieAbsTol: 1e-8,
		tieRelTol: 1e-6,
	}
}

// Option configures index construction.
type Option func(*options)

// WithMaxDepth sets the deepest octree level construction may refine to.
// Construction fails if distinct vertices cannot be separated within this
// many levels.
func WithMaxDepth(depth int) Option {
	return func(o *options) { o.maxDepth = depth }
}

// WithWeldEpsilon sets the distance below which two mesh vertices are
// treated as the same point and welded.
func WithWeldEpsilon(eps float64) Option {
	return func(o *options) { o.weldEpsSq = eps * eps }
}

// WithDistanceTieTolerance sets the absolute and relative tolerances used to
// decide when two triangles are equally close to a query point, in which
// case their normals are averaged.
func WithDistanceTieTolerance(abs, rel float64) Option {
	return func(o *options) {
		o.tieAbsTol = abs
		o.tieRelTol = rel
	}
}

// Index answers inside/outside queries for points against a closed triangle
// surface. An Index is immutable once built and safe for concurrent queries.
type Index struct {
	tree   *octree
	mesh   mesh.Mesh
	logger golog.Logger
	opts   options

	// vertexToBlock maps each welded mesh vertex to the leaf that owns it.
	vertexToBlock []BlockIndex
	// grayLevels holds, per octree level, the triangle sets of that level's
	// gray leaves.
	grayLevels []grayRelation

	weldedVertices   int
	droppedTriangles int
}

// Build constructs a containment index over the mesh. The mesh must
// describe a closed surface (watertight, consistently oriented); Build does
// not verify closure, but queries against an index over an open surface are
// meaningless. The mesh is reindexed in place when construction welds
// duplicate vertices.
//
// Build fails on conditions it detects while constructing (unseparable
// vertices, refinement past the max depth, a stalled coloring flood) and
// never returns a partial index. The full structural sweep, including
// adjacent leaf color agreement, is a separate pass: run Validate on the
// result when the input mesh is untrusted.
func Build(m mesh.Mesh, logger golog.Logger, opts ...Option) (*Index, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxDepth < 1 || cfg.maxDepth > 30 {
		return nil, errors.Errorf("max depth %d out of range [1,30]", cfg.maxDepth)
	}
	if m == nil || m.VertexCount() == 0 || m.TriangleCount() == 0 {
		return nil, errors.New("mesh must have at least one vertex and one triangle")
	}

	bounds := mesh.BoundingBox(m).Scale(boundsInflation)
	if ext := bounds.Range(); !(ext.X > 0 && ext.Y > 0 && ext.Z > 0) {
		return nil, errors.Errorf("mesh bounding box %v has no volume; the mesh cannot enclose any point", bounds)
	}

	idx := &Index{
		tree:       newOctree(bounds, cfg.maxDepth),
		mesh:       m,
		logger:     logger,
		opts:       cfg,
		grayLevels: make([]grayRelation, cfg.maxDepth+1),
	}

	start := time.Now()
	if err := idx.insertVertices(); err != nil {
		return nil, err
	}
	logger.Debugf("inserted %d vertices in %v", m.VertexCount(), time.Since(start))

	start = time.Now()
	if err := idx.weldVertices(); err != nil {
		return nil, err
	}
	logger.Debugf("welded %d vertices, dropped %d degenerate triangles in %v",
		idx.weldedVertices, idx.droppedTriangles, time.Since(start))

	start = time.Now()
	if err := idx.insertTriangles(); err != nil {
		return nil, err
	}
	logger.Debugf("distributed %d triangles in %v", m.TriangleCount(), time.Since(start))

	start = time.Now()
	if err := idx.colorLeaves(); err != nil {
		return nil, err
	}
	logger.Debugf("colored leaves in %v", time.Since(start))

	stats := idx.Stats()
	logger.Infof("built containment index: %d blocks, %d leaves (%d black, %d white, %d gray) over %d levels",
		stats.TotalBlocks(), stats.TotalLeaves(), stats.Total.Black, stats.Total.White, stats.Total.Gray,
		stats.DeepestLevel+1)

	return idx, nil
}

// Contains reports whether the point lies inside the surface. Points on the
// surface may report either way. An error is returned only if the index is
// internally inconsistent.
func (i *Index) Contains(pt r3.Vector) (bool, error) {
	if !i.tree.bounds.Contains(pt) {
		return false, nil
	}
	blk, err := i.tree.findLeaf(pt, i.tree.maxLevel/2)
	if err != nil {
		return false, err
	}
	st := i.tree.state(blk)
	switch st.color {
	case Black:
		return true, nil
	case White:
		return false, nil
	case Gray:
		return i.withinGrayBlock(pt, blk, st), nil
	default:
		return false, errors.Errorf("query reached uncolored %v", blk)
	}
}

// triangle returns triangle t of the mesh with its positions resolved.
func (i *Index) triangle(t int) *spatialmath.Triangle {
	return mesh.TrianglePositions(i.mesh, t)
}

// Bounds returns the spatial region the index covers, a slightly inflated
// copy of the mesh bounding box. Points outside it are outside the surface.
func (i *Index) Bounds() spatialmath.BoundingBox {
	return i.tree.bounds
}

// WeldedVertexCount returns how many mesh vertices construction merged into
// other vertices.
func (i *Index) WeldedVertexCount() int {
	return i.weldedVertices
}

// DroppedTriangleCount returns how many triangles construction removed
// because welding collapsed them.
func (i *Index) DroppedTriangleCount() int {
	return i.droppedTriangles
}
