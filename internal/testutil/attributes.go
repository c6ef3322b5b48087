package testutil

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

// AttributeKey encodes an attributes file key
func AttributeKey(fileID uint32, name string, startBlock uint32) []byte {
	nameBytes := UTF16BE(name)
	b := make([]byte, 14, 14+len(nameBytes))
	binary.BigEndian.PutUint16(b[0:2], uint16(types.AttributeKeyMinLength+len(nameBytes)))
	binary.BigEndian.PutUint32(b[4:8], fileID)
	binary.BigEndian.PutUint32(b[8:12], startBlock)
	binary.BigEndian.PutUint16(b[12:14], uint16(len(nameBytes)/2))
	return append(b, nameBytes...)
}

// InlineAttribute encodes the body of an inline data attribute record
func InlineAttribute(data []byte) []byte {
	b := make([]byte, types.AttributeInlineHeaderSize, types.AttributeInlineHeaderSize+len(data))
	binary.BigEndian.PutUint32(b[0:4], uint32(types.AttributeInlineData))
	binary.BigEndian.PutUint32(b[12:16], uint32(len(data)))
	return append(b, data...)
}

// ForkAttribute encodes the body of a fork data attribute record
func ForkAttribute(logicalSize uint64, extents ...types.ExtentDescriptor) []byte {
	b := make([]byte, 8, types.AttributeForkDataRecordSize)
	binary.BigEndian.PutUint32(b[0:4], uint32(types.AttributeForkData))
	return append(b, HFSPlusForkData(logicalSize, 0, extents)...)
}

// ExtentsAttribute encodes the body of an attribute extents record
func ExtentsAttribute(extents ...types.ExtentDescriptor) []byte {
	b := make([]byte, 8, types.AttributeExtentsRecordSize)
	binary.BigEndian.PutUint32(b[0:4], uint32(types.AttributeExtents))
	return append(b, HFSPlusExtentRecord(extents...)...)
}

// DecmpfsHeader encodes a little-endian decmpfs header
func DecmpfsHeader(magic, compressionType uint32, size uint64) []byte {
	b := make([]byte, types.DecmpfsHeaderSize)
	binary.LittleEndian.PutUint32(b[0:4], magic)
	binary.LittleEndian.PutUint32(b[4:8], compressionType)
	binary.LittleEndian.PutUint64(b[8:16], size)
	return b
}
