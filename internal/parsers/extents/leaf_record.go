package extents

import (
	"bytes"
	"fmt"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

// LeafRecord is an extents overflow leaf record: a key and the extent record it describes
type LeafRecord struct {
	key      *Key
	extents  []types.ExtentDescriptor
	trailing []byte
}

// DecodeLeafRecord decodes the extents leaf record spanning [offset, offset+length)
func DecodeLeafRecord(data []byte, offset, length int, dialect types.Dialect) (*LeafRecord, error) {
	if offset < 0 || length < 0 || offset+length > len(data) {
		return nil, fmt.Errorf("extent leaf record span [%d, %d) exceeds %d bytes", offset, offset+length, len(data))
	}
	end := offset + length

	key, err := DecodeKey(data[:end], offset, dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to decode extent key: %w", err)
	}

	at := offset + key.OccupiedSize()
	var rec []types.ExtentDescriptor
	var recSize int
	if dialect == types.DialectHFS {
		r, err := DecodeHFSExtentRecord(data[:end], at)
		if err != nil {
			return nil, err
		}
		rec, recSize = r[:], types.HFSExtentRecordSize
	} else {
		r, err := DecodeHFSPlusExtentRecord(data[:end], at)
		if err != nil {
			return nil, err
		}
		rec, recSize = r[:], types.HFSPlusExtentRecordSize
	}

	return &LeafRecord{
		key:      key,
		extents:  rec,
		trailing: bytes.Clone(data[at+recSize : end]),
	}, nil
}

// Key returns the record key
func (r *LeafRecord) Key() *Key {
	return r.key
}

// Extents returns all descriptors of the record, including unused ones
func (r *LeafRecord) Extents() []types.ExtentDescriptor {
	return append([]types.ExtentDescriptor(nil), r.extents...)
}

// Bytes returns the key followed by the extent record
func (r *LeafRecord) Bytes() []byte {
	out := r.key.Bytes()
	if r.key.dialect == types.DialectHFS {
		var rec [types.HFSExtentRecordCount]types.ExtentDescriptor
		copy(rec[:], r.extents)
		out = EncodeHFSExtentRecord(out, rec)
	} else {
		var rec [types.HFSPlusExtentRecordCount]types.ExtentDescriptor
		copy(rec[:], r.extents)
		out = EncodeHFSPlusExtentRecord(out, rec)
	}
	return append(out, r.trailing...)
}

// Size returns the length of the record in bytes
func (r *LeafRecord) Size() int {
	if r.key.dialect == types.DialectHFS {
		return types.HFSExtentKeySize + types.HFSExtentRecordSize + len(r.trailing)
	}
	return types.HFSPlusExtentKeySize + types.HFSPlusExtentRecordSize + len(r.trailing)
}
