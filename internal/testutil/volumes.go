package testutil

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

// MDBOptions are the fields of a synthetic Master Directory Block
type MDBOptions struct {
	AllocationBlockStart uint16
	TotalBlocks          uint16
	BlockSize            uint32
	FreeBlocks           uint16
	NextCatalogID        uint32
	Name                 string
	CreateDate           uint32
	FileCount            uint32
	FolderCount          uint32
	ExtentsFileSize      uint32
	ExtentsFile          []types.ExtentDescriptor
	CatalogFileSize      uint32
	CatalogFile          []types.ExtentDescriptor
	EmbedSignature       uint16
	EmbedExtent          types.ExtentDescriptor
}

// MasterDirectoryBlock encodes a classic HFS MDB
func MasterDirectoryBlock(o MDBOptions) []byte {
	b := make([]byte, types.MasterDirectoryBlockSize)
	be := binary.BigEndian
	be.PutUint16(b[types.MDBSigWordOffset:], types.SignatureHFS)
	be.PutUint32(b[types.MDBCrDateOffset:], o.CreateDate)
	be.PutUint32(b[types.MDBLsModOffset:], o.CreateDate)
	be.PutUint16(b[types.MDBVBMStOffset:], 3)
	be.PutUint16(b[types.MDBNmAlBlksOffset:], o.TotalBlocks)
	be.PutUint32(b[types.MDBAlBlkSizOffset:], o.BlockSize)
	be.PutUint16(b[types.MDBAlBlStOffset:], o.AllocationBlockStart)
	be.PutUint32(b[types.MDBNxtCNIDOffset:], o.NextCatalogID)
	be.PutUint16(b[types.MDBFreeBksOffset:], o.FreeBlocks)
	b[types.MDBVNOffset] = byte(len(o.Name))
	copy(b[types.MDBVNOffset+1:], o.Name)
	be.PutUint32(b[types.MDBFilCntOffset:], o.FileCount)
	be.PutUint32(b[types.MDBDirCntOffset:], o.FolderCount)
	be.PutUint16(b[types.MDBEmbedSigWordOffset:], o.EmbedSignature)
	be.PutUint16(b[types.MDBEmbedExtentOffset:], uint16(o.EmbedExtent.StartBlock))
	be.PutUint16(b[types.MDBEmbedExtentOffset+2:], uint16(o.EmbedExtent.BlockCount))
	be.PutUint32(b[types.MDBXTFlSizeOffset:], o.ExtentsFileSize)
	copy(b[types.MDBXTExtRecOffset:], HFSExtentRecord(o.ExtentsFile...))
	be.PutUint32(b[types.MDBCTFlSizeOffset:], o.CatalogFileSize)
	copy(b[types.MDBCTExtRecOffset:], HFSExtentRecord(o.CatalogFile...))
	return b
}

// VolumeHeaderOptions are the fields of a synthetic HFS+ volume header
type VolumeHeaderOptions struct {
	Signature        uint16
	Attributes       uint32
	JournalInfoBlock uint32
	CreateDate       uint32
	FileCount        uint32
	FolderCount      uint32
	BlockSize        uint32
	TotalBlocks      uint32
	FreeBlocks       uint32
	NextCatalogID    uint32
	AllocationFile   []byte
	ExtentsFile      []byte
	CatalogFile      []byte
	AttributesFile   []byte
	StartupFile      []byte
}

// HFSPlusVolumeHeader encodes an HFS+ volume header. Fork fields are HFSPlusForkData encodings.
func HFSPlusVolumeHeader(o VolumeHeaderOptions) []byte {
	b := make([]byte, types.HFSPlusVolumeHeaderSize)
	be := binary.BigEndian
	sig := o.Signature
	if sig == 0 {
		sig = types.SignatureHFSPlus
	}
	be.PutUint16(b[types.VHSignatureOffset:], sig)
	be.PutUint16(b[types.VHVersionOffset:], types.HFSPlusVersion)
	be.PutUint32(b[types.VHAttributesOffset:], o.Attributes)
	be.PutUint32(b[types.VHLastMountedVersionOffset:], uint32(types.NewFourCC("10.0")))
	be.PutUint32(b[types.VHJournalInfoBlockOffset:], o.JournalInfoBlock)
	be.PutUint32(b[types.VHCreateDateOffset:], o.CreateDate)
	be.PutUint32(b[types.VHModifyDateOffset:], o.CreateDate)
	be.PutUint32(b[types.VHFileCountOffset:], o.FileCount)
	be.PutUint32(b[types.VHFolderCountOffset:], o.FolderCount)
	be.PutUint32(b[types.VHBlockSizeOffset:], o.BlockSize)
	be.PutUint32(b[types.VHTotalBlocksOffset:], o.TotalBlocks)
	be.PutUint32(b[types.VHFreeBlocksOffset:], o.FreeBlocks)
	be.PutUint32(b[types.VHNextCatalogIDOffset:], o.NextCatalogID)
	copy(b[types.VHAllocationFileOffset:], o.AllocationFile)
	copy(b[types.VHExtentsFileOffset:], o.ExtentsFile)
	copy(b[types.VHCatalogFileOffset:], o.CatalogFile)
	copy(b[types.VHAttributesFileOffset:], o.AttributesFile)
	copy(b[types.VHStartupFileOffset:], o.StartupFile)
	return b
}

// JournalInfoBlock encodes a journal info block
func JournalInfoBlock(flags uint32, offset, size uint64) []byte {
	b := make([]byte, types.JournalInfoBlockSize)
	binary.BigEndian.PutUint32(b[0:4], flags)
	binary.BigEndian.PutUint64(b[36:44], offset)
	binary.BigEndian.PutUint64(b[44:52], size)
	return b
}
