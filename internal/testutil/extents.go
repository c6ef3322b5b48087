package testutil

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

// HFSPlusExtentKey encodes an HFS+ extents overflow key
func HFSPlusExtentKey(fileID uint32, forkType types.ForkType, startBlock uint32) []byte {
	b := make([]byte, types.HFSPlusExtentKeySize)
	binary.BigEndian.PutUint16(b[0:2], types.HFSPlusExtentKeyLength)
	b[2] = byte(forkType)
	binary.BigEndian.PutUint32(b[4:8], fileID)
	binary.BigEndian.PutUint32(b[8:12], startBlock)
	return b
}

// HFSExtentKey encodes a classic HFS extents overflow key
func HFSExtentKey(fileID uint32, forkType types.ForkType, startBlock uint16) []byte {
	b := make([]byte, types.HFSExtentKeySize)
	b[0] = types.HFSExtentKeyLength
	b[1] = byte(forkType)
	binary.BigEndian.PutUint32(b[2:6], fileID)
	binary.BigEndian.PutUint16(b[6:8], startBlock)
	return b
}

// HFSPlusExtentRecord encodes up to eight extent descriptors as an HFS+ extent record
func HFSPlusExtentRecord(extents ...types.ExtentDescriptor) []byte {
	b := make([]byte, types.HFSPlusExtentRecordSize)
	for i, e := range extents {
		binary.BigEndian.PutUint32(b[8*i:], e.StartBlock)
		binary.BigEndian.PutUint32(b[8*i+4:], e.BlockCount)
	}
	return b
}

// HFSExtentRecord encodes up to three extent descriptors as an HFS extent record
func HFSExtentRecord(extents ...types.ExtentDescriptor) []byte {
	b := make([]byte, types.HFSExtentRecordSize)
	for i, e := range extents {
		binary.BigEndian.PutUint16(b[4*i:], uint16(e.StartBlock))
		binary.BigEndian.PutUint16(b[4*i+2:], uint16(e.BlockCount))
	}
	return b
}

// IndexRecord appends a child node pointer to an encoded key
func IndexRecord(key []byte, child uint32) []byte {
	return binary.BigEndian.AppendUint32(append([]byte(nil), key...), child)
}
