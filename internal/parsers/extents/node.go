package extents

import (
	"github.com/deploymenttheory/go-hfs/internal/parsers/btrees"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// LeafNode is a leaf node of the extents overflow file
type LeafNode struct {
	*btrees.Node[*LeafRecord]
}

// DecodeLeafNode decodes the extents leaf node at offset
func DecodeLeafNode(data []byte, offset, nodeSize int, dialect types.Dialect) (*LeafNode, error) {
	node, err := btrees.DecodeNodeOfKind[*LeafRecord](data, offset, nodeSize, types.NodeKindLeaf,
		func(data []byte, offset, length, _ int) (*LeafRecord, error) {
			return DecodeLeafRecord(data, offset, length, dialect)
		})
	if err != nil {
		return nil, err
	}
	return &LeafNode{Node: node}, nil
}

// DecodeIndexNode decodes the extents index node at offset
func DecodeIndexNode(data []byte, offset, nodeSize int, dialect types.Dialect) (*btrees.IndexNode[*Key], error) {
	return btrees.DecodeIndexNode[*Key](data, offset, nodeSize, KeyDecoder(dialect))
}
