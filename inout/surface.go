package inout

import (
	"github.com/pkg/errors"

	"github.com/meshkit/geom/mesh"
	"github.com/meshkit/geom/spatialmath"
)

// grayRelation stores, for every gray leaf of one octree level, the leaf's
// owning vertex and its triangle set, in compressed sparse row form.
type grayRelation struct {
	vertex     []int
	triOffsets []int
	triIndices []int
}

// triangles returns the triangle indices of the relation's i-th leaf.
func (r *grayRelation) triangles(i int) []int {
	return r.triIndices[r.triOffsets[i] : r.triOffsets[i+1]]
}

func (r *grayRelation) append(vertex int, tris []int) int {
	idx := len(r.vertex)
	r.vertex = append(r.vertex, vertex)
	r.triIndices = append(r.triIndices, tris...)
	r.triOffsets = append(r.triOffsets, len(r.triIndices))
	return idx
}

// transientBlock carries a block's triangle set while its level is being
// distributed. The set is discarded once the block finalizes or hands its
// triangles to its children.
type transientBlock struct {
	vertex    int
	isLeaf    bool
	triangles []int
}

// insertTriangles distributes the mesh triangles level by level. A leaf
// finalizes when all its triangles share a common vertex; otherwise it is
// refined and its triangles are pushed to whichever children they touch.
// Finalized leaves with triangles become gray and their triangle sets move
// into the level's gray relation.
func (i *Index) insertTriangles() error {
	root := BlockIndex{}
	rootState := i.tree.state(root)

	allTris := make([]int, i.mesh.TriangleCount())
	for t := range allTris {
		allTris[t] = t
	}
	rootVertex := mesh.NoVertex
	if rootState.payload == payloadVertex {
		rootVertex = rootState.data
	}
	current := []*transientBlock{{vertex: rootVertex, isLeaf: rootState.isLeaf(), triangles: allTris}}
	rootState.setTransient(0)

	for lev := 0; lev <= i.tree.maxLevel; lev++ {
		rel := grayRelation{triOffsets: []int{0}}
		var next []*transientBlock

		for pt, st := range i.tree.levels[lev] {
			if st.payload != payloadTransient {
				continue
			}
			blk := BlockIndex{Point: pt, Level: lev}
			blockData := current[st.data]

			if st.isLeaf() {
				if i.allTrianglesShareVertex(blk, blockData) {
					st.setGray(rel.append(blockData.vertex, blockData.triangles))
					continue
				}
				if blk.ChildLevel() > i.tree.maxLevel {
					return errors.Errorf(
						"%v holds %d triangles with no common vertex but cannot be refined past the max depth %d; "+
							"raise the max depth", blk, len(blockData.triangles), i.tree.maxLevel)
				}
				// Too complex to finalize; split and push the vertex down.
				v := blockData.vertex
				st.clearPayload()
				i.tree.refineLeaf(blk, st)
				blockData.isLeaf = false
				if i.blockOwnsVertex(v, blk) {
					if err := i.insertVertex(v, blk.ChildLevel()); err != nil {
						return err
					}
					newBlk, err := i.tree.findLeaf(i.mesh.VertexPosition(v), blk.ChildLevel())
					if err != nil {
						return err
					}
					i.vertexToBlock[v] = newBlk
				}
			} else {
				st.clearPayload()
			}

			if err := i.pushToChildren(blk, blockData, &next); err != nil {
				return err
			}
		}

		i.grayLevels[lev] = rel
		if len(next) == 0 {
			break
		}
		current = next
	}
	return nil
}

// pushToChildren distributes a refined block's triangles among its eight
// children. A triangle goes to a leaf child when the child owns one of its
// vertices or the triangle intersects the child's region; internal children
// take it on bounding box overlap and resolve precisely at finer levels.
func (i *Index) pushToChildren(blk BlockIndex, blockData *transientBlock, next *[]*transientBlock) error {
	var childBlk [numChildren]BlockIndex
	var childBB [numChildren]spatialmath.BoundingBox
	var childData [numChildren]*transientBlock
	for c := 0; c < numChildren; c++ {
		childBlk[c] = blk.Child(c)
		childBB[c] = i.tree.blockBounds(childBlk[c])
	}

	for _, t := range blockData.triangles {
		tri := mesh.TrianglePositions(i.mesh, t)
		triBB := tri.BoundingBox()
		for c := 0; c < numChildren; c++ {
			childState := i.tree.state(childBlk[c])
			var hit bool
			if childState.isLeaf() {
				hit = i.blockOwnsTriangleVertex(t, childBlk[c]) || spatialmath.IntersectsBox(tri, childBB[c])
			} else {
				hit = triBB.IntersectsBox(childBB[c])
			}
			if !hit {
				continue
			}
			if childData[c] == nil {
				v := mesh.NoVertex
				if childState.payload == payloadVertex {
					v = childState.data
				}
				childData[c] = &transientBlock{vertex: v, isLeaf: childState.isLeaf()}
				childState.setTransient(len(*next))
				*next = append(*next, childData[c])
			}
			childData[c].triangles = append(childData[c].triangles, t)
		}
	}
	return nil
}

// allTrianglesShareVertex reports whether every triangle in the block is
// incident on one common vertex. On success the common vertex is recorded
// in the block's transient data.
func (i *Index) allTrianglesShareVertex(blk BlockIndex, blockData *transientBlock) bool {
	tris := blockData.triangles

	// If the block owns a vertex, the common vertex can only be that one.
	if i.blockOwnsVertex(blockData.vertex, blk) {
		for _, t := range tris {
			if !mesh.IncidentInVertex(i.mesh, t, blockData.vertex) {
				return false
			}
		}
		return true
	}

	switch len(tris) {
	case 1:
		// A single triangle trivially shares a vertex with itself.
		blockData.vertex, _, _ = i.mesh.TriangleVertices(tris[0])
		return true
	case 2:
		v, ok := mesh.SharedVertex(i.mesh, tris[0], tris[1])
		if ok {
			blockData.vertex = v
		}
		return ok
	default:
		// Find a vertex common to the first three triangles, then verify it
		// against the rest.
		v, ok := mesh.SharedVertex3(i.mesh, tris[0], tris[1], tris[2])
		if !ok {
			return false
		}
		for _, t := range tris[3:] {
			if !mesh.IncidentInVertex(i.mesh, t, v) {
				return false
			}
		}
		blockData.vertex = v
		return true
	}
}
