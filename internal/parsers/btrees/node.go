package btrees

import (
	"bytes"
	"fmt"

	"github.com/deploymenttheory/go-hfs/internal/interfaces"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// Node is a decoded node: its descriptor and its records in on-disk order
type Node[R any] struct {
	descriptor interfaces.NodeDescriptorReader
	records    []R
}

// DecodeNode decodes the descriptor of the node at offset and carves its records with factory
func DecodeNode[R any](data []byte, offset, nodeSize int, factory RecordFactory[R]) (*Node[R], error) {
	descriptor, err := NewNodeDescriptorReader(data, offset)
	if err != nil {
		return nil, err
	}
	return carveNode(descriptor, data, offset, nodeSize, factory)
}

// DecodeNodeOfKind is DecodeNode that additionally requires the descriptor kind
func DecodeNodeOfKind[R any](data []byte, offset, nodeSize int, kind types.NodeKind, factory RecordFactory[R]) (*Node[R], error) {
	descriptor, err := NewNodeDescriptorReader(data, offset)
	if err != nil {
		return nil, err
	}
	if descriptor.Kind() != kind {
		return nil, types.NewDecodeError("node", offset, types.ErrInvalidNodeKind,
			"expected %s node, found %s", kind, descriptor.Kind())
	}
	return carveNode(descriptor, data, offset, nodeSize, factory)
}

func carveNode[R any](descriptor interfaces.NodeDescriptorReader, data []byte, offset, nodeSize int, factory RecordFactory[R]) (*Node[R], error) {
	records, err := CarveRecords(descriptor, data, offset, nodeSize, factory)
	if err != nil {
		return nil, fmt.Errorf("failed to carve %s node: %w", descriptor.Kind(), err)
	}
	return &Node[R]{descriptor: descriptor, records: records}, nil
}

// Descriptor returns the node descriptor
func (n *Node[R]) Descriptor() interfaces.NodeDescriptorReader {
	return n.descriptor
}

// Records returns the decoded records
func (n *Node[R]) Records() []R {
	return n.records
}

// Record returns the record at index i
func (n *Node[R]) Record(i int) R {
	return n.records[i]
}

// NumRecords returns the number of decoded records
func (n *Node[R]) NumRecords() int {
	return len(n.records)
}

// IndexNode is a node whose records point to child nodes
type IndexNode[K interfaces.BTreeKey] struct {
	*Node[*IndexRecord[K]]
}

// DecodeIndexNode decodes an index node whose keys are decoded with decodeKey
func DecodeIndexNode[K interfaces.BTreeKey](data []byte, offset, nodeSize int, decodeKey KeyDecoder[K]) (*IndexNode[K], error) {
	node, err := DecodeNodeOfKind[*IndexRecord[K]](data, offset, nodeSize, types.NodeKindIndex,
		func(data []byte, offset, length, _ int) (*IndexRecord[K], error) {
			return DecodeIndexRecord(data, offset, length, decodeKey)
		})
	if err != nil {
		return nil, err
	}
	return &IndexNode[K]{Node: node}, nil
}

// ChildNodes returns the child node numbers in record order
func (n *IndexNode[K]) ChildNodes() []uint32 {
	children := make([]uint32, 0, len(n.records))
	for _, r := range n.records {
		children = append(children, r.ChildNode())
	}
	return children
}

// HeaderNode is node 0 of a B-tree
type HeaderNode struct {
	descriptor interfaces.NodeDescriptorReader
	header     *HeaderRecord
	userData   []byte
	mapRecord  []byte
}

// DecodeHeaderNode decodes the header node at offset. It must hold exactly three records.
func DecodeHeaderNode(data []byte, offset, nodeSize int, dialect types.Dialect) (*HeaderNode, error) {
	descriptor, err := NewNodeDescriptorReader(data, offset)
	if err != nil {
		return nil, err
	}
	if descriptor.Kind() != types.NodeKindHeader {
		return nil, types.NewDecodeError("header node", offset, types.ErrInvalidNodeKind,
			"found %s node", descriptor.Kind())
	}
	if descriptor.NumRecords() != types.BTHeaderNodeRecordCount {
		return nil, types.NewDecodeError("header node", offset, types.ErrHeaderRecordCount,
			"%d records", descriptor.NumRecords())
	}

	records, err := CarveRecords[*Record](descriptor, data, offset, nodeSize, RawRecordFactory)
	if err != nil {
		return nil, fmt.Errorf("failed to carve header node: %w", err)
	}

	header, err := HeaderRecordFactory(dialect)(records[0].data, 0, records[0].Size(), 0)
	if err != nil {
		return nil, err
	}

	return &HeaderNode{
		descriptor: descriptor,
		header:     header,
		userData:   records[1].data,
		mapRecord:  records[2].data,
	}, nil
}

// Descriptor returns the node descriptor
func (hn *HeaderNode) Descriptor() interfaces.NodeDescriptorReader {
	return hn.descriptor
}

// HeaderRecord returns the B-tree header record
func (hn *HeaderNode) HeaderRecord() *HeaderRecord {
	return hn.header
}

// UserData returns the 128-byte user data record
func (hn *HeaderNode) UserData() []byte {
	return bytes.Clone(hn.userData)
}

// MapRecord returns the node allocation bitmap stored in the header node
func (hn *HeaderNode) MapRecord() []byte {
	return bytes.Clone(hn.mapRecord)
}

// IsNodeAllocated reports whether the header node's map record marks node n as in use.
// Nodes beyond the header map are described by map nodes and report false.
func (hn *HeaderNode) IsNodeAllocated(n uint32) bool {
	idx := n / 8
	if int(idx) >= len(hn.mapRecord) {
		return false
	}
	return hn.mapRecord[idx]&(0x80>>(n%8)) != 0
}

// MapNode carries a continuation of the node allocation bitmap
type MapNode struct {
	*Node[*Record]
}

// DecodeMapNode decodes a map node at offset
func DecodeMapNode(data []byte, offset, nodeSize int) (*MapNode, error) {
	node, err := DecodeNodeOfKind[*Record](data, offset, nodeSize, types.NodeKindMap, RawRecordFactory)
	if err != nil {
		return nil, err
	}
	return &MapNode{Node: node}, nil
}
