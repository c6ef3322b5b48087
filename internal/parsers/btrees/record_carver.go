package btrees

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-hfs/internal/interfaces"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// RecordFactory builds a typed record from the span [offset, offset+length) of data.
// index is the position of the record within its node.
type RecordFactory[R any] func(data []byte, offset, length, index int) (R, error)

// RecordOffsets reads the reverse-order offset table at the tail of the node starting at
// offset. It returns numRecords+1 offsets relative to the node start, in record order;
// the last one is the start of free space.
func RecordOffsets(descriptor interfaces.NodeDescriptorReader, data []byte, offset, nodeSize int) ([]int, error) {
	if offset < 0 || nodeSize <= 0 || len(data)-offset < nodeSize {
		return nil, fmt.Errorf("node of %d bytes at offset %d exceeds %d bytes of data", nodeSize, offset, len(data))
	}

	count := int(descriptor.NumRecords())
	tableStart := nodeSize - 2*(count+1)
	if tableStart < types.NodeDescriptorSize {
		return nil, types.NewDecodeError("node", offset, types.ErrRecordOutOfBounds,
			"offset table for %d records does not fit in a %d byte node", count, nodeSize)
	}

	offsets := make([]int, count+1)
	for i := range offsets {
		pos := offset + nodeSize - 2*(i+1)
		offsets[i] = int(binary.BigEndian.Uint16(data[pos : pos+2]))
	}

	low := types.NodeDescriptorSize
	for i, off := range offsets {
		if off < low || off > tableStart {
			return nil, types.NewDecodeError("node", offset, types.ErrRecordOutOfBounds,
				"record offset %d = %d outside [%d, %d]", i, off, low, tableStart)
		}
		low = off
	}

	return offsets, nil
}

// CarveRecords splits the node at offset into descriptor.NumRecords() spans using the
// offset table and hands each span to factory.
func CarveRecords[R any](descriptor interfaces.NodeDescriptorReader, data []byte, offset, nodeSize int, factory RecordFactory[R]) ([]R, error) {
	offsets, err := RecordOffsets(descriptor, data, offset, nodeSize)
	if err != nil {
		return nil, err
	}

	records := make([]R, 0, len(offsets)-1)
	for i := 0; i < len(offsets)-1; i++ {
		start := offset + offsets[i]
		length := offsets[i+1] - offsets[i]
		record, err := factory(data, start, length, i)
		if err != nil {
			return nil, fmt.Errorf("failed to decode record %d at offset %d: %w", i, start, err)
		}
		records = append(records, record)
	}

	return records, nil
}
