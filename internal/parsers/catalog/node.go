package catalog

import (
	"github.com/deploymenttheory/go-hfs/internal/parsers/btrees"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// LeafNode is a catalog leaf node
type LeafNode struct {
	*btrees.Node[LeafRecord]
}

// DecodeLeafNode decodes the catalog leaf node at offset. header may be nil for HFS and HFS+.
func DecodeLeafNode(data []byte, offset, nodeSize int, dialect types.Dialect, header *btrees.HeaderRecord) (*LeafNode, error) {
	node, err := btrees.DecodeNodeOfKind[LeafRecord](data, offset, nodeSize, types.NodeKindLeaf,
		LeafRecordFactory(dialect, header))
	if err != nil {
		return nil, err
	}
	return &LeafNode{Node: node}, nil
}

// DecodeIndexNode decodes the catalog index node at offset
func DecodeIndexNode(data []byte, offset, nodeSize int, dialect types.Dialect, header *btrees.HeaderRecord) (*btrees.IndexNode[*Key], error) {
	return btrees.DecodeIndexNode[*Key](data, offset, nodeSize, KeyDecoder(dialect, CompareTypeFor(dialect, header)))
}
