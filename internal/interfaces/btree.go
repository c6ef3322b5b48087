// File: internal/interfaces/btree.go
package interfaces

import (
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// NodeDescriptorReader provides methods for reading the fixed header of a B-tree node
type NodeDescriptorReader interface {
	// ForwardLink returns the node number of the next node of the same kind
	ForwardLink() uint32

	// BackwardLink returns the node number of the previous node of the same kind
	BackwardLink() uint32

	// Kind returns the node kind
	Kind() types.NodeKind

	// Height returns the level of the node in the tree
	Height() uint8

	// NumRecords returns the number of records stored in the node
	NumRecords() uint16

	// Bytes returns the 14-byte on-disk encoding of the descriptor
	Bytes() []byte
}

// BTreeKey is a key stored at the start of an index or leaf record
type BTreeKey interface {
	// Bytes returns the on-disk encoding of the key, including its length field
	Bytes() []byte

	// OccupiedSize returns the number of record bytes the key occupies, padding included
	OccupiedSize() int
}

// BTreeRecord is a record carved from a B-tree node
type BTreeRecord interface {
	// Bytes returns the on-disk encoding of the record
	Bytes() []byte

	// Size returns the length of the record in bytes
	Size() int
}

// BTreeHeaderReader provides methods for reading the header record of a B-tree
type BTreeHeaderReader interface {
	// TreeDepth returns the current depth of the tree
	TreeDepth() uint16

	// RootNode returns the node number of the root node
	RootNode() uint32

	// LeafRecords returns the total number of leaf records
	LeafRecords() uint32

	// FirstLeafNode returns the node number of the first leaf node
	FirstLeafNode() uint32

	// LastLeafNode returns the node number of the last leaf node
	LastLeafNode() uint32

	// NodeSize returns the node size in bytes
	NodeSize() uint16

	// MaxKeyLength returns the maximum key length
	MaxKeyLength() uint16

	// TotalNodes returns the total number of nodes
	TotalNodes() uint32

	// FreeNodes returns the number of free nodes
	FreeNodes() uint32

	// KeyCompareType returns the catalog key ordering of the tree
	KeyCompareType() types.KeyCompareType
}

// NodeSource provides the raw bytes of B-tree nodes by node number
type NodeSource interface {
	// NodeSize returns the size of every node in bytes
	NodeSize() int

	// ReadNode returns the bytes of a node
	ReadNode(nodeNumber uint32) ([]byte, error)
}

// OrderedKey is a BTreeKey that knows the ordering of its tree
type OrderedKey interface {
	BTreeKey

	// Compare returns -1, 0 or +1 as the key sorts before, equal to or after other
	Compare(other BTreeKey) int
}
