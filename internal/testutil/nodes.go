// Package testutil builds synthetic on-disk structures for tests.
package testutil

import (
	"encoding/binary"
	"unicode/utf16"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

// BuildNode lays out a B-tree node of nodeSize bytes holding records in order,
// followed by the reverse-order offset table.
func BuildNode(nodeSize int, kind types.NodeKind, height uint8, fLink, bLink uint32, records ...[]byte) []byte {
	node := make([]byte, nodeSize)
	binary.BigEndian.PutUint32(node[0:4], fLink)
	binary.BigEndian.PutUint32(node[4:8], bLink)
	node[8] = byte(kind)
	node[9] = height
	binary.BigEndian.PutUint16(node[10:12], uint16(len(records)))

	pos := types.NodeDescriptorSize
	for i, r := range records {
		copy(node[pos:], r)
		putOffset(node, nodeSize, i, pos)
		pos += len(r)
	}
	putOffset(node, nodeSize, len(records), pos)
	return node
}

func putOffset(node []byte, nodeSize, i, value int) {
	at := nodeSize - 2*(i+1)
	binary.BigEndian.PutUint16(node[at:at+2], uint16(value))
}

// HeaderRecordOptions are the fields of a synthetic B-tree header record
type HeaderRecordOptions struct {
	Depth          uint16
	Root           uint32
	LeafRecords    uint32
	FirstLeaf      uint32
	LastLeaf       uint32
	NodeSize       uint16
	MaxKeyLength   uint16
	TotalNodes     uint32
	FreeNodes      uint32
	KeyCompareType uint8
	Attributes     uint32
}

// BuildHeaderRecord encodes an HFS+ layout header record
func BuildHeaderRecord(o HeaderRecordOptions) []byte {
	b := make([]byte, types.BTHeaderRecordSize)
	binary.BigEndian.PutUint16(b[0:2], o.Depth)
	binary.BigEndian.PutUint32(b[2:6], o.Root)
	binary.BigEndian.PutUint32(b[6:10], o.LeafRecords)
	binary.BigEndian.PutUint32(b[10:14], o.FirstLeaf)
	binary.BigEndian.PutUint32(b[14:18], o.LastLeaf)
	binary.BigEndian.PutUint16(b[18:20], o.NodeSize)
	binary.BigEndian.PutUint16(b[20:22], o.MaxKeyLength)
	binary.BigEndian.PutUint32(b[22:26], o.TotalNodes)
	binary.BigEndian.PutUint32(b[26:30], o.FreeNodes)
	b[37] = o.KeyCompareType
	binary.BigEndian.PutUint32(b[38:42], o.Attributes)
	return b
}

// BuildHeaderNode builds node 0 of a tree with the header, user data and map records.
// Nodes 0..allocated-1 are marked in use in the map record.
func BuildHeaderNode(o HeaderRecordOptions, allocated int) []byte {
	nodeSize := int(o.NodeSize)
	mapLen := nodeSize - types.NodeDescriptorSize - types.BTHeaderRecordSize - types.BTUserDataRecordSize - 8
	bitmap := make([]byte, mapLen)
	for n := 0; n < allocated; n++ {
		bitmap[n/8] |= 0x80 >> (n % 8)
	}
	return BuildNode(nodeSize, types.NodeKindHeader, 0, 0, 0,
		BuildHeaderRecord(o), make([]byte, types.BTUserDataRecordSize), bitmap)
}

// UTF16BE encodes s as big-endian UTF-16 code units
func UTF16BE(s string) []byte {
	units := utf16.Encode([]rune(s))
	b := make([]byte, 2*len(units))
	for i, u := range units {
		binary.BigEndian.PutUint16(b[2*i:], u)
	}
	return b
}

// HFSPlusCatalogKey encodes an HFS+ catalog key
func HFSPlusCatalogKey(parentID uint32, name string) []byte {
	nameBytes := UTF16BE(name)
	b := make([]byte, 8, 8+len(nameBytes))
	binary.BigEndian.PutUint16(b[0:2], uint16(6+len(nameBytes)))
	binary.BigEndian.PutUint32(b[2:6], parentID)
	binary.BigEndian.PutUint16(b[6:8], uint16(len(nameBytes)/2))
	return append(b, nameBytes...)
}

// HFSCatalogKey encodes a classic HFS catalog key with a MacRoman name, unpadded
func HFSCatalogKey(parentID uint32, name []byte) []byte {
	b := make([]byte, 7, 7+len(name))
	b[0] = byte(6 + len(name))
	binary.BigEndian.PutUint32(b[2:6], parentID)
	b[6] = byte(len(name))
	return append(b, name...)
}

// HFSPlusFolderRecord encodes an HFS+ folder record body
func HFSPlusFolderRecord(folderID, valence uint32, createDate uint32) []byte {
	b := make([]byte, types.HFSPlusFolderRecordSize)
	binary.BigEndian.PutUint16(b[0:2], uint16(types.CatalogFolderRecord))
	binary.BigEndian.PutUint32(b[4:8], valence)
	binary.BigEndian.PutUint32(b[8:12], folderID)
	binary.BigEndian.PutUint32(b[12:16], createDate)
	binary.BigEndian.PutUint32(b[16:20], createDate)
	binary.BigEndian.PutUint16(b[42:44], types.ModeDirectory|0755)
	return b
}

// HFSPlusFileRecordOptions are the fields of a synthetic HFS+ file record
type HFSPlusFileRecordOptions struct {
	FileID      uint32
	CreateDate  uint32
	ModifyDate  uint32
	OwnerFlags  uint8
	FileMode    uint16
	Special     uint32
	FileType    string
	Creator     string
	DataSize    uint64
	DataExtents []types.ExtentDescriptor
	Flags       uint16
}

// HFSPlusFileRecord encodes an HFS+ file record body
func HFSPlusFileRecord(o HFSPlusFileRecordOptions) []byte {
	b := make([]byte, types.HFSPlusFileRecordSize)
	binary.BigEndian.PutUint16(b[0:2], uint16(types.CatalogFileRecord))
	binary.BigEndian.PutUint16(b[2:4], o.Flags)
	binary.BigEndian.PutUint32(b[8:12], o.FileID)
	binary.BigEndian.PutUint32(b[12:16], o.CreateDate)
	binary.BigEndian.PutUint32(b[16:20], o.ModifyDate)
	b[41] = o.OwnerFlags
	binary.BigEndian.PutUint16(b[42:44], o.FileMode)
	binary.BigEndian.PutUint32(b[44:48], o.Special)
	if o.FileType != "" {
		binary.BigEndian.PutUint32(b[48:52], uint32(types.NewFourCC(o.FileType)))
	}
	if o.Creator != "" {
		binary.BigEndian.PutUint32(b[52:56], uint32(types.NewFourCC(o.Creator)))
	}
	copy(b[88:168], HFSPlusForkData(o.DataSize, 4096, o.DataExtents))
	return b
}

// HFSPlusForkData encodes an HFS+ fork data structure
func HFSPlusForkData(logicalSize uint64, clumpSize uint32, extents []types.ExtentDescriptor) []byte {
	b := make([]byte, types.HFSPlusForkDataSize)
	binary.BigEndian.PutUint64(b[0:8], logicalSize)
	binary.BigEndian.PutUint32(b[8:12], clumpSize)
	var total uint32
	for i, e := range extents {
		if i >= types.HFSPlusExtentRecordCount {
			break
		}
		binary.BigEndian.PutUint32(b[16+8*i:], e.StartBlock)
		binary.BigEndian.PutUint32(b[20+8*i:], e.BlockCount)
		total += e.BlockCount
	}
	binary.BigEndian.PutUint32(b[12:16], total)
	return b
}

// HFSPlusThreadRecord encodes an HFS+ thread record body
func HFSPlusThreadRecord(recordType types.CatalogRecordType, parentID uint32, name string) []byte {
	nameBytes := UTF16BE(name)
	b := make([]byte, 10, 10+len(nameBytes))
	binary.BigEndian.PutUint16(b[0:2], uint16(recordType))
	binary.BigEndian.PutUint32(b[4:8], parentID)
	binary.BigEndian.PutUint16(b[8:10], uint16(len(nameBytes)/2))
	return append(b, nameBytes...)
}

// Concat joins byte slices
func Concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
