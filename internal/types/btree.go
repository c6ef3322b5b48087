package types

// B-Trees (Technical Note TN1150, "B-Trees")
// The catalog, extents overflow and attributes files of HFS, HFS+ and HFSX volumes are all
// stored as B*-trees made of fixed-size nodes. Every node starts with a node descriptor and
// ends with a table of record offsets stored in reverse order.

// NodeKind identifies the role of a B-tree node.
// The values are identical for classic HFS and HFS+.
type NodeKind int8

const (
	// NodeKindLeaf is a leaf node holding data records.
	NodeKindLeaf NodeKind = -1

	// NodeKindIndex is an index node holding pointer records.
	NodeKindIndex NodeKind = 0

	// NodeKindHeader is the first node of the tree (node 0).
	NodeKindHeader NodeKind = 1

	// NodeKindMap is a map node extending the allocation bitmap of the header node.
	NodeKindMap NodeKind = 2
)

// String returns the name of the node kind
func (k NodeKind) String() string {
	switch k {
	case NodeKindLeaf:
		return "leaf"
	case NodeKindIndex:
		return "index"
	case NodeKindHeader:
		return "header"
	case NodeKindMap:
		return "map"
	default:
		return "unknown"
	}
}

// NodeDescriptorSize is the size of the descriptor at the start of every node.
const NodeDescriptorSize = 14

// BTNodeDescriptor is the fixed header of a B-tree node.
type BTNodeDescriptor struct {
	// The node number of the next node of this kind, or 0 if this is the last node.
	FLink uint32

	// The node number of the previous node of this kind, or 0 if this is the first node.
	BLink uint32

	// The kind of node. See NodeKind.
	Kind NodeKind

	// The level of the node in the tree. Leaf nodes have height 1.
	Height uint8

	// The number of records contained in the node.
	NumRecords uint16

	// Reserved, zero on disk.
	Reserved uint16
}

// BTHeaderRecordSize is the on-disk size of the header record for both dialects.
const BTHeaderRecordSize = 106

// BTUserDataRecordSize is the size of the second record of the header node.
const BTUserDataRecordSize = 128

// BTHeaderNodeRecordCount is the number of records a header node always carries:
// header record, user data record and map record.
const BTHeaderNodeRecordCount = 3

// Node size limits. Node sizes are powers of two; classic HFS always uses 512 byte nodes.
const (
	MinNodeSize = 512
	MaxNodeSize = 32768
)

// BTHeaderRec is the first record of the header node.
// Classic HFS (BTHdrRec) shares the first 30 bytes and reserves the rest.
type BTHeaderRec struct {
	// The current depth of the tree.
	TreeDepth uint16

	// The node number of the root node, or 0 if the tree is empty.
	RootNode uint32

	// The total number of records in all leaf nodes.
	LeafRecords uint32

	// The node number of the first leaf node.
	FirstLeafNode uint32

	// The node number of the last leaf node.
	LastLeafNode uint32

	// The size of a node in bytes. A power of two from 512 through 32768.
	NodeSize uint16

	// The maximum length of a key in an index or leaf node.
	MaxKeyLength uint16

	// The total number of nodes, free or used.
	TotalNodes uint32

	// The number of unused nodes.
	FreeNodes uint32

	// HFS+ only from here on.
	Reserved1 uint16

	// Ignored by implementations.
	ClumpSize uint32

	// 0 for catalog, extents and attributes trees, 128 for hot-file trees.
	BTreeType uint8

	// HFSX catalog trees only. See KeyCompareType.
	KeyCompareType uint8

	// Tree attribute bits. See BTBigKeysMask and friends.
	Attributes uint32

	// Reserved.
	Reserved3 [16]uint32
}

// KeyCompareType selects how HFSX catalog keys are ordered.
type KeyCompareType uint8

const (
	// KeyCompareCaseFolding orders names with the HFS+ fast unicode compare (kHFSCaseFolding).
	KeyCompareCaseFolding KeyCompareType = 0xCF

	// KeyCompareBinary orders names by raw UTF-16 code unit value (kHFSBinaryCompare).
	KeyCompareBinary KeyCompareType = 0xBC

	// KeyCompareBytes orders classic HFS names by unsigned MacRoman byte value.
	// It has no on-disk encoding.
	KeyCompareBytes KeyCompareType = 0x00
)

// String returns the name of the compare type
func (c KeyCompareType) String() string {
	switch c {
	case KeyCompareCaseFolding:
		return "case-folding"
	case KeyCompareBinary:
		return "binary"
	case KeyCompareBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// B-tree attribute bits
const (
	BTBadCloseMask          uint32 = 0x00000001
	BTBigKeysMask           uint32 = 0x00000002
	BTVariableIndexKeysMask uint32 = 0x00000004
)

// IndexRecordPointerSize is the size of the child node number following an index key.
const IndexRecordPointerSize = 4
