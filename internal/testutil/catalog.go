package testutil

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

// HFSFolderRecord encodes a classic HFS directory record (CdrDirRec)
func HFSFolderRecord(dirID uint32, valence uint16, modifyDate uint32) []byte {
	b := make([]byte, types.HFSFolderRecordSize)
	b[0] = byte(types.CatalogFolderRecord)
	binary.BigEndian.PutUint16(b[4:6], valence)
	binary.BigEndian.PutUint32(b[6:10], dirID)
	binary.BigEndian.PutUint32(b[10:14], modifyDate)
	binary.BigEndian.PutUint32(b[14:18], modifyDate)
	return b
}

// HFSFileRecord encodes a classic HFS file record (CdrFilRec) with a data fork
func HFSFileRecord(fileID, dataSize uint32, extents ...types.ExtentDescriptor) []byte {
	b := make([]byte, types.HFSFileRecordSize)
	b[0] = byte(types.CatalogFileRecord)
	binary.BigEndian.PutUint32(b[4:8], uint32(types.NewFourCC("TEXT")))
	binary.BigEndian.PutUint32(b[8:12], uint32(types.NewFourCC("ttxt")))
	binary.BigEndian.PutUint32(b[20:24], fileID)
	binary.BigEndian.PutUint32(b[26:30], dataSize)
	binary.BigEndian.PutUint32(b[30:34], (dataSize+511)/512*512)
	copy(b[74:86], HFSExtentRecord(extents...))
	return b
}

// HFSThreadRecord encodes a classic HFS thread record
func HFSThreadRecord(recordType types.CatalogRecordType, parentID uint32, name []byte) []byte {
	b := make([]byte, types.HFSThreadRecordSize)
	b[0] = byte(recordType)
	binary.BigEndian.PutUint32(b[10:14], parentID)
	b[14] = byte(len(name))
	copy(b[15:], name)
	return b
}

// Pad appends a zero byte to b if its length is odd
func Pad(b []byte) []byte {
	if len(b)%2 != 0 {
		return append(b, 0)
	}
	return b
}
