package btrees

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

// HeaderRecord is the tree-wide metadata record of a B-tree (BTHeaderRec / BTHdrRec)
type HeaderRecord struct {
	header  types.BTHeaderRec
	dialect types.Dialect

	// Classic HFS keeps bytes 30..105 reserved.
	hfsReserved [types.BTHeaderRecordSize - 30]byte
}

// DecodeHeaderRecord decodes the header record starting at offset
func DecodeHeaderRecord(data []byte, offset int, dialect types.Dialect) (*HeaderRecord, error) {
	if offset < 0 || len(data)-offset < types.BTHeaderRecordSize {
		return nil, types.NewDecodeError("header record", offset, types.ErrInsufficientData,
			"need %d bytes, have %d", types.BTHeaderRecordSize, len(data)-offset)
	}

	b := data[offset : offset+types.BTHeaderRecordSize]
	hr := &HeaderRecord{
		dialect: dialect,
		header: types.BTHeaderRec{
			TreeDepth:     binary.BigEndian.Uint16(b[0:2]),
			RootNode:      binary.BigEndian.Uint32(b[2:6]),
			LeafRecords:   binary.BigEndian.Uint32(b[6:10]),
			FirstLeafNode: binary.BigEndian.Uint32(b[10:14]),
			LastLeafNode:  binary.BigEndian.Uint32(b[14:18]),
			NodeSize:      binary.BigEndian.Uint16(b[18:20]),
			MaxKeyLength:  binary.BigEndian.Uint16(b[20:22]),
			TotalNodes:    binary.BigEndian.Uint32(b[22:26]),
			FreeNodes:     binary.BigEndian.Uint32(b[26:30]),
		},
	}

	if dialect == types.DialectHFS {
		copy(hr.hfsReserved[:], b[30:])
		return hr, nil
	}

	hr.header.Reserved1 = binary.BigEndian.Uint16(b[30:32])
	hr.header.ClumpSize = binary.BigEndian.Uint32(b[32:36])
	hr.header.BTreeType = b[36]
	hr.header.KeyCompareType = b[37]
	hr.header.Attributes = binary.BigEndian.Uint32(b[38:42])
	for i := range hr.header.Reserved3 {
		hr.header.Reserved3[i] = binary.BigEndian.Uint32(b[42+4*i : 46+4*i])
	}

	return hr, nil
}

// HeaderRecordFactory returns a RecordFactory decoding header records of the given dialect
func HeaderRecordFactory(dialect types.Dialect) RecordFactory[*HeaderRecord] {
	return func(data []byte, offset, length, _ int) (*HeaderRecord, error) {
		if length != types.BTHeaderRecordSize {
			return nil, fmt.Errorf("header record is %d bytes, expected %d", length, types.BTHeaderRecordSize)
		}
		return DecodeHeaderRecord(data, offset, dialect)
	}
}

// Bytes returns the on-disk encoding of the header record
func (hr *HeaderRecord) Bytes() []byte {
	b := make([]byte, types.BTHeaderRecordSize)
	h := &hr.header
	binary.BigEndian.PutUint16(b[0:2], h.TreeDepth)
	binary.BigEndian.PutUint32(b[2:6], h.RootNode)
	binary.BigEndian.PutUint32(b[6:10], h.LeafRecords)
	binary.BigEndian.PutUint32(b[10:14], h.FirstLeafNode)
	binary.BigEndian.PutUint32(b[14:18], h.LastLeafNode)
	binary.BigEndian.PutUint16(b[18:20], h.NodeSize)
	binary.BigEndian.PutUint16(b[20:22], h.MaxKeyLength)
	binary.BigEndian.PutUint32(b[22:26], h.TotalNodes)
	binary.BigEndian.PutUint32(b[26:30], h.FreeNodes)

	if hr.dialect == types.DialectHFS {
		copy(b[30:], hr.hfsReserved[:])
		return b
	}

	binary.BigEndian.PutUint16(b[30:32], h.Reserved1)
	binary.BigEndian.PutUint32(b[32:36], h.ClumpSize)
	b[36] = h.BTreeType
	b[37] = h.KeyCompareType
	binary.BigEndian.PutUint32(b[38:42], h.Attributes)
	for i, v := range h.Reserved3 {
		binary.BigEndian.PutUint32(b[42+4*i:46+4*i], v)
	}
	return b
}

// Size returns the length of the record in bytes
func (hr *HeaderRecord) Size() int {
	return types.BTHeaderRecordSize
}

// Dialect returns the dialect the record was decoded as
func (hr *HeaderRecord) Dialect() types.Dialect {
	return hr.dialect
}

// Raw returns a copy of the decoded structure
func (hr *HeaderRecord) Raw() types.BTHeaderRec {
	return hr.header
}

// TreeDepth returns the current depth of the tree
func (hr *HeaderRecord) TreeDepth() uint16 { return hr.header.TreeDepth }

// RootNode returns the node number of the root node
func (hr *HeaderRecord) RootNode() uint32 { return hr.header.RootNode }

// LeafRecords returns the total number of leaf records
func (hr *HeaderRecord) LeafRecords() uint32 { return hr.header.LeafRecords }

// FirstLeafNode returns the node number of the first leaf node
func (hr *HeaderRecord) FirstLeafNode() uint32 { return hr.header.FirstLeafNode }

// LastLeafNode returns the node number of the last leaf node
func (hr *HeaderRecord) LastLeafNode() uint32 { return hr.header.LastLeafNode }

// NodeSize returns the node size in bytes
func (hr *HeaderRecord) NodeSize() uint16 { return hr.header.NodeSize }

// MaxKeyLength returns the maximum key length
func (hr *HeaderRecord) MaxKeyLength() uint16 { return hr.header.MaxKeyLength }

// TotalNodes returns the total number of nodes
func (hr *HeaderRecord) TotalNodes() uint32 { return hr.header.TotalNodes }

// FreeNodes returns the number of free nodes
func (hr *HeaderRecord) FreeNodes() uint32 { return hr.header.FreeNodes }

// Attributes returns the tree attribute bits (zero for classic HFS)
func (hr *HeaderRecord) Attributes() uint32 { return hr.header.Attributes }

// HasBigKeys reports whether key length fields are 16 bits wide
func (hr *HeaderRecord) HasBigKeys() bool {
	return hr.header.Attributes&types.BTBigKeysMask != 0
}

// HasVariableIndexKeys reports whether index keys are stored at their actual length
func (hr *HeaderRecord) HasVariableIndexKeys() bool {
	return hr.header.Attributes&types.BTVariableIndexKeysMask != 0
}

// RawKeyCompareType returns the on-disk key compare byte
func (hr *HeaderRecord) RawKeyCompareType() uint8 {
	return hr.header.KeyCompareType
}

// KeyCompareType returns the catalog key ordering of the tree.
// Classic HFS compares bytes and HFS+ always folds case; only HFSX reads the on-disk flag.
// The flag holds kHFSCaseFolding (0xCF) or kHFSBinaryCompare (0xBC), not 0 or 1: only 0xBC
// selects binary order, and every other byte, 0 and 1 included, folds case.
func (hr *HeaderRecord) KeyCompareType() types.KeyCompareType {
	switch hr.dialect {
	case types.DialectHFS:
		return types.KeyCompareBytes
	case types.DialectHFSX:
		if types.KeyCompareType(hr.header.KeyCompareType) == types.KeyCompareBinary {
			return types.KeyCompareBinary
		}
		return types.KeyCompareCaseFolding
	default:
		return types.KeyCompareCaseFolding
	}
}
