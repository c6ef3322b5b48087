package attributes

import (
	"github.com/deploymenttheory/go-hfs/internal/parsers/btrees"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// LeafNode is an attributes file leaf node
type LeafNode struct {
	*btrees.Node[LeafRecord]
}

// DecodeLeafNode decodes the attributes leaf node at offset
func DecodeLeafNode(data []byte, offset, nodeSize int) (*LeafNode, error) {
	node, err := btrees.DecodeNodeOfKind[LeafRecord](data, offset, nodeSize, types.NodeKindLeaf,
		func(data []byte, offset, length, _ int) (LeafRecord, error) {
			return DecodeLeafRecord(data, offset, length)
		})
	if err != nil {
		return nil, err
	}
	return &LeafNode{Node: node}, nil
}

// DecodeIndexNode decodes the attributes index node at offset
func DecodeIndexNode(data []byte, offset, nodeSize int) (*btrees.IndexNode[*Key], error) {
	return btrees.DecodeIndexNode[*Key](data, offset, nodeSize, KeyDecoder)
}
