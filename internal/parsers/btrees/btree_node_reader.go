package btrees

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-hfs/internal/interfaces"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// nodeDescriptorReader implements the NodeDescriptorReader interface
type nodeDescriptorReader struct {
	descriptor *types.BTNodeDescriptor
}

// NewNodeDescriptorReader decodes the node descriptor at offset.
// The layout is the same for classic HFS and HFS+.
func NewNodeDescriptorReader(data []byte, offset int) (interfaces.NodeDescriptorReader, error) {
	if offset < 0 || len(data)-offset < types.NodeDescriptorSize {
		return nil, fmt.Errorf("data too small for node descriptor: %d bytes at offset %d", len(data), offset)
	}

	descriptor, err := parseNodeDescriptor(data[offset : offset+types.NodeDescriptorSize])
	if err != nil {
		return nil, fmt.Errorf("failed to parse node descriptor: %w", err)
	}

	return &nodeDescriptorReader{descriptor: descriptor}, nil
}

// parseNodeDescriptor parses raw bytes into a BTNodeDescriptor structure
func parseNodeDescriptor(data []byte) (*types.BTNodeDescriptor, error) {
	descriptor := &types.BTNodeDescriptor{
		FLink:      binary.BigEndian.Uint32(data[0:4]),
		BLink:      binary.BigEndian.Uint32(data[4:8]),
		Kind:       types.NodeKind(int8(data[8])),
		Height:     data[9],
		NumRecords: binary.BigEndian.Uint16(data[10:12]),
		Reserved:   binary.BigEndian.Uint16(data[12:14]),
	}

	switch descriptor.Kind {
	case types.NodeKindLeaf, types.NodeKindIndex, types.NodeKindHeader, types.NodeKindMap:
	default:
		return nil, types.NewDecodeError("node descriptor", 8, types.ErrInvalidNodeKind, "kind byte 0x%02x", data[8])
	}

	return descriptor, nil
}

// ForwardLink returns the node number of the next node of the same kind
func (ndr *nodeDescriptorReader) ForwardLink() uint32 {
	return ndr.descriptor.FLink
}

// BackwardLink returns the node number of the previous node of the same kind
func (ndr *nodeDescriptorReader) BackwardLink() uint32 {
	return ndr.descriptor.BLink
}

// Kind returns the node kind
func (ndr *nodeDescriptorReader) Kind() types.NodeKind {
	return ndr.descriptor.Kind
}

// Height returns the level of the node in the tree
func (ndr *nodeDescriptorReader) Height() uint8 {
	return ndr.descriptor.Height
}

// NumRecords returns the number of records stored in the node
func (ndr *nodeDescriptorReader) NumRecords() uint16 {
	return ndr.descriptor.NumRecords
}

// Bytes returns the on-disk encoding of the descriptor
func (ndr *nodeDescriptorReader) Bytes() []byte {
	data := make([]byte, types.NodeDescriptorSize)
	binary.BigEndian.PutUint32(data[0:4], ndr.descriptor.FLink)
	binary.BigEndian.PutUint32(data[4:8], ndr.descriptor.BLink)
	data[8] = byte(ndr.descriptor.Kind)
	data[9] = ndr.descriptor.Height
	binary.BigEndian.PutUint16(data[10:12], ndr.descriptor.NumRecords)
	binary.BigEndian.PutUint16(data[12:14], ndr.descriptor.Reserved)
	return data
}
