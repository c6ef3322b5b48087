package attributes

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-hfs/internal/parsers/extents"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// LeafRecord is an attributes leaf record: *InlineDataRecord, *ForkDataRecord or *ExtentsRecord
type LeafRecord interface {
	Key() *Key
	RecordType() types.AttributeRecordType
	Bytes() []byte
	Size() int
}

type leafRecord struct {
	key      *Key
	reserved uint32
}

func (r *leafRecord) Key() *Key { return r.key }

func (r *leafRecord) header(recordType types.AttributeRecordType) []byte {
	out := r.key.Bytes()
	out = binary.BigEndian.AppendUint32(out, uint32(recordType))
	return binary.BigEndian.AppendUint32(out, r.reserved)
}

// InlineDataRecord holds the attribute value in the record (HFSPlusAttrInlineData)
type InlineDataRecord struct {
	leafRecord
	reserved2 uint32
	data      []byte
	trailing  []byte
}

func (r *InlineDataRecord) RecordType() types.AttributeRecordType { return types.AttributeInlineData }

// Data returns the attribute value
func (r *InlineDataRecord) Data() []byte { return bytes.Clone(r.data) }

// LogicalSize returns the attrSize field
func (r *InlineDataRecord) LogicalSize() uint32 { return uint32(len(r.data)) }

func (r *InlineDataRecord) Bytes() []byte {
	out := r.header(types.AttributeInlineData)
	out = binary.BigEndian.AppendUint32(out, r.reserved2)
	out = binary.BigEndian.AppendUint32(out, uint32(len(r.data)))
	out = append(out, r.data...)
	return append(out, r.trailing...)
}

func (r *InlineDataRecord) Size() int {
	return r.key.OccupiedSize() + types.AttributeInlineHeaderSize + len(r.data) + len(r.trailing)
}

// ForkDataRecord describes a large attribute value stored in allocation blocks (HFSPlusAttrForkData)
type ForkDataRecord struct {
	leafRecord
	fork     *extents.ForkData
	trailing []byte
}

func (r *ForkDataRecord) RecordType() types.AttributeRecordType { return types.AttributeForkData }

// Fork returns the attribute's fork
func (r *ForkDataRecord) Fork() *extents.ForkData { return r.fork }

func (r *ForkDataRecord) Bytes() []byte {
	out := append(r.header(types.AttributeForkData), r.fork.Bytes()...)
	return append(out, r.trailing...)
}

func (r *ForkDataRecord) Size() int {
	return r.key.OccupiedSize() + types.AttributeForkDataRecordSize + len(r.trailing)
}

// ExtentsRecord continues the extents of a fork data attribute (HFSPlusAttrExtents)
type ExtentsRecord struct {
	leafRecord
	extents  [types.HFSPlusExtentRecordCount]types.ExtentDescriptor
	trailing []byte
}

func (r *ExtentsRecord) RecordType() types.AttributeRecordType { return types.AttributeExtents }

// Extents returns the overflow extent descriptors
func (r *ExtentsRecord) Extents() []types.ExtentDescriptor {
	return append([]types.ExtentDescriptor(nil), r.extents[:]...)
}

func (r *ExtentsRecord) Bytes() []byte {
	out := extents.EncodeHFSPlusExtentRecord(r.header(types.AttributeExtents), r.extents)
	return append(out, r.trailing...)
}

func (r *ExtentsRecord) Size() int {
	return r.key.OccupiedSize() + types.AttributeExtentsRecordSize + len(r.trailing)
}

// DecodeLeafRecord decodes the attributes leaf record spanning [offset, offset+length).
// The 32-bit record type after the key selects the layout.
func DecodeLeafRecord(data []byte, offset, length int) (LeafRecord, error) {
	if offset < 0 || length < 0 || offset+length > len(data) {
		return nil, fmt.Errorf("attribute leaf record span [%d, %d) exceeds %d bytes", offset, offset+length, len(data))
	}
	end := offset + length
	record := data[:end]

	key, err := DecodeKey(record, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to decode attribute key: %w", err)
	}

	at := offset + key.OccupiedSize()
	if end-at < 8 {
		return nil, types.NewDecodeError("attribute leaf record", at, types.ErrInsufficientData, "no record type")
	}
	recordType := types.AttributeRecordType(binary.BigEndian.Uint32(record[at : at+4]))
	base := leafRecord{key: key, reserved: binary.BigEndian.Uint32(record[at+4 : at+8])}

	switch recordType {
	case types.AttributeInlineData:
		if end-at < types.AttributeInlineHeaderSize {
			return nil, types.NewDecodeError("inline attribute record", at, types.ErrInsufficientData,
				"need %d bytes, have %d", types.AttributeInlineHeaderSize, end-at)
		}
		size := int(binary.BigEndian.Uint32(record[at+12 : at+16]))
		dataAt := at + types.AttributeInlineHeaderSize
		if size > end-dataAt {
			return nil, types.NewDecodeError("inline attribute record", at, types.ErrRecordOutOfBounds,
				"attribute size %d exceeds %d remaining bytes", size, end-dataAt)
		}
		return &InlineDataRecord{
			leafRecord: base,
			reserved2:  binary.BigEndian.Uint32(record[at+8 : at+12]),
			data:       bytes.Clone(record[dataAt : dataAt+size]),
			trailing:   bytes.Clone(record[dataAt+size : end]),
		}, nil

	case types.AttributeForkData:
		fork, err := extents.DecodeHFSPlusForkData(record, at+8)
		if err != nil {
			return nil, fmt.Errorf("failed to decode attribute fork: %w", err)
		}
		return &ForkDataRecord{
			leafRecord: base,
			fork:       fork,
			trailing:   bytes.Clone(record[at+types.AttributeForkDataRecordSize : end]),
		}, nil

	case types.AttributeExtents:
		rec, err := extents.DecodeHFSPlusExtentRecord(record, at+8)
		if err != nil {
			return nil, fmt.Errorf("failed to decode attribute extents: %w", err)
		}
		return &ExtentsRecord{
			leafRecord: base,
			extents:    rec,
			trailing:   bytes.Clone(record[at+types.AttributeExtentsRecordSize : end]),
		}, nil

	default:
		return nil, types.NewDecodeError("attribute leaf record", at, types.ErrInvalidRecordType,
			"record type 0x%x", uint32(recordType))
	}
}
