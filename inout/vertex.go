package inout

import (
	"github.com/pkg/errors"

	"github.com/meshkit/geom/mesh"
)

// insertVertices distributes every mesh vertex into the octree, refining
// until each leaf owns at most one distinct position. Vertices closer than
// the weld epsilon resolve to the vertex already in the leaf.
func (i *Index) insertVertices() error {
	for v := 0; v < i.mesh.VertexCount(); v++ {
		if err := i.insertVertex(v, 0); err != nil {
			return err
		}
	}
	return nil
}

// insertVertex places vertex v into the leaf containing its position,
// starting the leaf search at the given level. A leaf already owning a
// distinct vertex is refined and both vertices are reinserted among its
// children.
func (i *Index) insertVertex(v, startLevel int) error {
	pos := i.mesh.VertexPosition(v)
	blk, err := i.tree.findLeaf(pos, startLevel)
	if err != nil {
		return err
	}
	st := i.tree.state(blk)

	if st.payload != payloadVertex {
		st.setVertex(v)
		return nil
	}

	other := st.data
	otherPos := i.mesh.VertexPosition(other)
	if pos.Sub(otherPos).Norm2() < i.opts.weldEpsSq {
		// Within weld distance of the resident vertex. The welding pass
		// maps v onto it.
		return nil
	}

	if blk.ChildLevel() > i.tree.maxLevel {
		return errors.Errorf(
			"vertices %d %v and %d %v are distinct but cannot be separated within %d octree levels; "+
				"raise the max depth or the weld epsilon", v, pos, other, otherPos, i.tree.maxLevel)
	}

	st.clearPayload()
	i.tree.refineLeaf(blk, st)
	if err := i.insertVertex(other, blk.ChildLevel()); err != nil {
		return err
	}
	return i.insertVertex(v, blk.ChildLevel())
}

// weldVertices renumbers the mesh so every set of welded vertices becomes a
// single vertex, drops triangles the welding collapsed, and records the
// owning leaf of each surviving vertex.
func (i *Index) weldVertices() error {
	orig := i.mesh.VertexCount()
	vertexMap := make([]int, orig)
	unique := 0
	for v := 0; v < orig; v++ {
		blk, err := i.tree.findLeaf(i.mesh.VertexPosition(v), 0)
		if err != nil {
			return err
		}
		st := i.tree.state(blk)
		if st.payload != payloadVertex {
			return errors.Errorf("leaf %v containing vertex %d owns no vertex", blk, v)
		}
		owner := st.data
		if owner == v {
			vertexMap[v] = unique
			unique++
		} else {
			// owner < v is not guaranteed in general, but the owner of a
			// leaf is always the first of its welded set to stay resident,
			// so it was numbered before any vertex welded onto it.
			vertexMap[v] = vertexMap[owner]
		}
	}

	i.droppedTriangles = i.mesh.Reindex(unique, vertexMap)
	i.weldedVertices = orig - unique

	// Leaf payloads still hold old vertex indices; rebind them to the new
	// numbering and record the reverse mapping.
	i.vertexToBlock = make([]BlockIndex, unique)
	for v := 0; v < unique; v++ {
		blk, err := i.tree.findLeaf(i.mesh.VertexPosition(v), 0)
		if err != nil {
			return err
		}
		i.tree.state(blk).setVertex(v)
		i.vertexToBlock[v] = blk
	}
	return nil
}

// blockOwnsVertex reports whether the leaf at blk owns mesh vertex v.
func (i *Index) blockOwnsVertex(v int, blk BlockIndex) bool {
	return v != mesh.NoVertex && v < len(i.vertexToBlock) && i.vertexToBlock[v] == blk
}

// blockOwnsTriangleVertex reports whether the leaf at blk owns any vertex of
// triangle t.
func (i *Index) blockOwnsTriangleVertex(t int, blk BlockIndex) bool {
	a, b, c := i.mesh.TriangleVertices(t)
	return i.blockOwnsVertex(a, blk) || i.blockOwnsVertex(b, blk) || i.blockOwnsVertex(c, blk)
}
