package inout

// Color classifies an octree leaf with respect to the surface.
type Color uint8

const (
	// Undetermined marks a leaf not yet classified. No leaf of a built
	// index carries this color.
	Undetermined Color = iota
	// White marks a leaf whose region lies entirely outside the surface.
	White
	// Black marks a leaf whose region lies entirely inside the surface.
	Black
	// Gray marks a leaf whose region intersects the surface.
	Gray
)

// String returns the color's name.
func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	case Gray:
		return "gray"
	default:
		return "undetermined"
	}
}

// payloadKind tags what a block's data field means, so each build phase
// decodes only payloads it wrote.
type payloadKind uint8

const (
	// payloadNone means the data field is unused.
	payloadNone payloadKind = iota
	// payloadVertex means data is a mesh vertex index owned by the leaf.
	payloadVertex
	// payloadTransient means data indexes the triangle distribution table
	// for the level currently being built.
	payloadTransient
	// payloadGray means data indexes the leaf's entry in its level's gray
	// relation.
	payloadGray
)

// blockKind distinguishes leaves from refined blocks.
type blockKind uint8

const (
	kindLeaf blockKind = iota
	kindInternal
)

// blockState is the per-block record stored in the octree's level maps.
type blockState struct {
	kind    blockKind
	color   Color
	payload payloadKind
	data    int
}

func newLeafState() *blockState {
	return &blockState{kind: kindLeaf}
}

func (s *blockState) isLeaf() bool {
	return s.kind == kindLeaf
}

// setInternal converts the block into an internal block. Internal blocks
// carry no color and no payload.
func (s *blockState) setInternal() {
	s.kind = kindInternal
	s.color = Undetermined
	s.payload = payloadNone
	s.data = 0
}

func (s *blockState) setVertex(v int) {
	s.payload = payloadVertex
	s.data = v
}

func (s *blockState) setTransient(idx int) {
	s.payload = payloadTransient
	s.data = idx
}

// setGray commits the leaf as a surface-intersecting leaf whose gray
// relation entry is idx.
func (s *blockState) setGray(idx int) {
	s.color = Gray
	s.payload = payloadGray
	s.data = idx
}

func (s *blockState) clearPayload() {
	s.payload = payloadNone
	s.data = 0
}
