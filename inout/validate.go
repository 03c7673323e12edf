package inout

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"github.com/meshkit/geom/mesh"
)

// Validate checks the structural invariants of a built index: every leaf is
// colored, internal blocks are fully refined and payload free, gray leaves
// reference only triangles incident on their vertex, adjacent non-gray
// leaves agree on color, and mesh vertices and triangles are indexed by the
// leaves containing them. It returns all violations found, combined.
func (i *Index) Validate() error {
	var mu sync.Mutex
	var allErrs error
	collect := func(err error) {
		if err == nil {
			return
		}
		mu.Lock()
		allErrs = multierr.Combine(allErrs, err)
		mu.Unlock()
	}

	// Per-level checks only read the tree, so levels are validated in
	// parallel.
	var wg sync.WaitGroup
	for lev := range i.tree.levels {
		if len(i.tree.levels[lev]) == 0 {
			continue
		}
		lev := lev
		wg.Add(1)
		goutils.PanicCapturingGo(func() {
			defer wg.Done()
			collect(i.validateLevelStructure(lev))
			collect(i.validateLevelNeighbors(lev))
		})
	}
	wg.Wait()

	collect(i.validateVertexIndexing())
	collect(i.validateTriangleIndexing())
	return allErrs
}

func (i *Index) validateLevelStructure(lev int) error {
	var errs error
	rel := &i.grayLevels[lev]
	for pt, st := range i.tree.levels[lev] {
		blk := BlockIndex{Point: pt, Level: lev}

		if !st.isLeaf() {
			if st.color != Undetermined || st.payload != payloadNone {
				errs = multierr.Combine(errs, errors.Errorf("internal %v carries color or payload", blk))
			}
			for c := 0; c < numChildren; c++ {
				if i.tree.state(blk.Child(c)) == nil {
					errs = multierr.Combine(errs, errors.Errorf("internal %v is missing child %d", blk, c))
				}
			}
			continue
		}

		switch st.color {
		case Undetermined:
			errs = multierr.Combine(errs, errors.Errorf("leaf %v is uncolored", blk))
		case Gray:
			if st.payload != payloadGray || st.data < 0 || st.data >= len(rel.vertex) {
				errs = multierr.Combine(errs, errors.Errorf("gray leaf %v has no valid gray relation entry", blk))
				continue
			}
			v := rel.vertex[st.data]
			tris := rel.triangles(st.data)
			if len(tris) == 0 {
				errs = multierr.Combine(errs, errors.Errorf("gray leaf %v references no triangles", blk))
			}
			for _, t := range tris {
				if !mesh.IncidentInVertex(i.mesh, t, v) {
					errs = multierr.Combine(errs,
						errors.Errorf("gray leaf %v references triangle %d not incident on its vertex %d", blk, t, v))
				}
			}
		default:
			if st.payload == payloadGray || st.payload == payloadTransient {
				errs = multierr.Combine(errs, errors.Errorf("%s leaf %v carries a stale payload", st.color, blk))
			}
		}
	}
	return errs
}

func (i *Index) validateLevelNeighbors(lev int) error {
	var errs error
	for pt, st := range i.tree.levels[lev] {
		if !st.isLeaf() || st.color == Gray {
			continue
		}
		blk := BlockIndex{Point: pt, Level: lev}
		for n := 0; n < numFaceNeighbors; n++ {
			nbrBlk := i.tree.coveringLeaf(blk.FaceNeighbor(n))
			if !nbrBlk.IsValid() {
				continue
			}
			nbrState := i.tree.state(nbrBlk)
			if nbrState.color != Gray && nbrState.color != st.color {
				errs = multierr.Combine(errs,
					errors.Errorf("adjacent leaves %v (%s) and %v (%s) disagree", blk, st.color, nbrBlk, nbrState.color))
			}
		}
	}
	return errs
}

// leafVertex returns the mesh vertex recorded for the leaf, or NoVertex.
func (i *Index) leafVertex(blk BlockIndex, st *blockState) int {
	switch st.payload {
	case payloadVertex:
		return st.data
	case payloadGray:
		return i.grayLevels[blk.Level].vertex[st.data]
	default:
		return mesh.NoVertex
	}
}

func (i *Index) validateVertexIndexing() error {
	var errs error
	for v := 0; v < i.mesh.VertexCount(); v++ {
		blk, err := i.tree.findLeaf(i.mesh.VertexPosition(v), 0)
		if err != nil {
			errs = multierr.Combine(errs, err)
			continue
		}
		if blk != i.vertexToBlock[v] {
			errs = multierr.Combine(errs,
				errors.Errorf("vertex %d resolves to %v but is recorded in %v", v, blk, i.vertexToBlock[v]))
			continue
		}
		st := i.tree.state(blk)
		if owner := i.leafVertex(blk, st); owner != v {
			errs = multierr.Combine(errs, errors.Errorf("leaf %v containing vertex %d records vertex %d", blk, v, owner))
		}
	}
	return errs
}

func (i *Index) validateTriangleIndexing() error {
	var errs error
	for t := 0; t < i.mesh.TriangleCount(); t++ {
		a, b, c := i.mesh.TriangleVertices(t)
		for _, v := range [3]int{a, b, c} {
			blk := i.vertexToBlock[v]
			st := i.tree.state(blk)
			if st.payload != payloadGray {
				errs = multierr.Combine(errs,
					errors.Errorf("leaf %v of vertex %d has incident triangle %d but no triangle set", blk, v, t))
				continue
			}
			found := false
			for _, bt := range i.grayLevels[blk.Level].triangles(st.data) {
				if bt == t {
					found = true
					break
				}
			}
			if !found {
				errs = multierr.Combine(errs,
					errors.Errorf("leaf %v of vertex %d does not reference incident triangle %d", blk, v, t))
			}
		}
	}
	return errs
}
