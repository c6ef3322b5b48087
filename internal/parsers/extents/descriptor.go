package extents

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

// DecodeHFSExtentRecord decodes the three 16-bit extent descriptors of an HFS extent record
func DecodeHFSExtentRecord(data []byte, offset int) ([types.HFSExtentRecordCount]types.ExtentDescriptor, error) {
	var rec [types.HFSExtentRecordCount]types.ExtentDescriptor
	if offset < 0 || len(data)-offset < types.HFSExtentRecordSize {
		return rec, types.NewDecodeError("HFS extent record", offset, types.ErrInsufficientData,
			"need %d bytes, have %d", types.HFSExtentRecordSize, len(data)-offset)
	}
	for i := range rec {
		at := offset + i*types.HFSExtentDescriptorSize
		rec[i] = types.ExtentDescriptor{
			StartBlock: uint32(binary.BigEndian.Uint16(data[at : at+2])),
			BlockCount: uint32(binary.BigEndian.Uint16(data[at+2 : at+4])),
		}
	}
	return rec, nil
}

// EncodeHFSExtentRecord appends the on-disk form of an HFS extent record to dst
func EncodeHFSExtentRecord(dst []byte, rec [types.HFSExtentRecordCount]types.ExtentDescriptor) []byte {
	for _, e := range rec {
		dst = binary.BigEndian.AppendUint16(dst, uint16(e.StartBlock))
		dst = binary.BigEndian.AppendUint16(dst, uint16(e.BlockCount))
	}
	return dst
}

// DecodeHFSPlusExtentRecord decodes the eight 32-bit extent descriptors of an HFS+ extent record
func DecodeHFSPlusExtentRecord(data []byte, offset int) ([types.HFSPlusExtentRecordCount]types.ExtentDescriptor, error) {
	var rec [types.HFSPlusExtentRecordCount]types.ExtentDescriptor
	if offset < 0 || len(data)-offset < types.HFSPlusExtentRecordSize {
		return rec, types.NewDecodeError("HFS+ extent record", offset, types.ErrInsufficientData,
			"need %d bytes, have %d", types.HFSPlusExtentRecordSize, len(data)-offset)
	}
	for i := range rec {
		at := offset + i*types.HFSPlusExtentDescriptorSize
		rec[i] = types.ExtentDescriptor{
			StartBlock: binary.BigEndian.Uint32(data[at : at+4]),
			BlockCount: binary.BigEndian.Uint32(data[at+4 : at+8]),
		}
	}
	return rec, nil
}

// EncodeHFSPlusExtentRecord appends the on-disk form of an HFS+ extent record to dst
func EncodeHFSPlusExtentRecord(dst []byte, rec [types.HFSPlusExtentRecordCount]types.ExtentDescriptor) []byte {
	for _, e := range rec {
		dst = binary.BigEndian.AppendUint32(dst, e.StartBlock)
		dst = binary.BigEndian.AppendUint32(dst, e.BlockCount)
	}
	return dst
}

// UsedExtents returns the leading descriptors with a non-zero block count.
// An empty descriptor ends the record.
func UsedExtents(rec []types.ExtentDescriptor) []types.ExtentDescriptor {
	for i, e := range rec {
		if e.BlockCount == 0 {
			return rec[:i]
		}
	}
	return rec
}

// BlockCount returns the total number of blocks covered by the descriptors
func BlockCount(rec []types.ExtentDescriptor) uint64 {
	var n uint64
	for _, e := range rec {
		n += uint64(e.BlockCount)
	}
	return n
}
