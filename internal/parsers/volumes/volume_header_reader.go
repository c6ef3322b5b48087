package volumes

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/deploymenttheory/go-hfs/internal/parsers/catalog"
	"github.com/deploymenttheory/go-hfs/internal/parsers/extents"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// VolumeHeader is either a classic HFS Master Directory Block or an HFS+/HFSX volume header.
// Exactly one of mdb and plus is set.
type VolumeHeader struct {
	dialect types.Dialect
	mdb     *types.MasterDirectoryBlock
	plus    *types.HFSPlusVolumeHeader
	raw     []byte
}

// DetectDialect maps a volume signature to the dialect it announces
func DetectDialect(signature uint16) (types.Dialect, error) {
	switch signature {
	case types.SignatureHFS:
		return types.DialectHFS, nil
	case types.SignatureHFSPlus:
		return types.DialectHFSPlus, nil
	case types.SignatureHFSX:
		return types.DialectHFSX, nil
	default:
		return 0, fmt.Errorf("signature 0x%04X: %w", signature, types.ErrInvalidSignature)
	}
}

// DecodeVolumeHeader decodes the header at the start of data using the layout of dialect.
// The signature must agree with the dialect.
func DecodeVolumeHeader(data []byte, dialect types.Dialect) (*VolumeHeader, error) {
	if dialect == types.DialectHFS {
		mdb, err := DecodeMasterDirectoryBlock(data)
		if err != nil {
			return nil, err
		}
		return &VolumeHeader{
			dialect: dialect,
			mdb:     mdb,
			raw:     bytes.Clone(data[:types.MasterDirectoryBlockSize]),
		}, nil
	}

	vh, err := DecodeHFSPlusVolumeHeader(data)
	if err != nil {
		return nil, err
	}
	want := types.SignatureHFSPlus
	if dialect == types.DialectHFSX {
		want = types.SignatureHFSX
	}
	if vh.Signature != want {
		return nil, types.NewDecodeError("volume header", 0, types.ErrInvalidSignature,
			"found 0x%04X, %s expects 0x%04X", vh.Signature, dialect, want)
	}
	return &VolumeHeader{
		dialect: dialect,
		plus:    vh,
		raw:     bytes.Clone(data[:types.HFSPlusVolumeHeaderSize]),
	}, nil
}

// DecodeAnyVolumeHeader reads the signature and decodes the header in the layout it announces
func DecodeAnyVolumeHeader(data []byte) (*VolumeHeader, error) {
	if len(data) < 2 {
		return nil, types.NewDecodeError("volume header", 0, types.ErrInsufficientData, "no signature")
	}
	dialect, err := DetectDialect(binary.BigEndian.Uint16(data[0:2]))
	if err != nil {
		return nil, err
	}
	return DecodeVolumeHeader(data, dialect)
}

// DecodeMasterDirectoryBlock decodes a classic HFS MDB
func DecodeMasterDirectoryBlock(data []byte) (*types.MasterDirectoryBlock, error) {
	if len(data) < types.MasterDirectoryBlockSize {
		return nil, types.NewDecodeError("master directory block", 0, types.ErrInsufficientData,
			"need %d bytes, have %d", types.MasterDirectoryBlockSize, len(data))
	}

	be := binary.BigEndian
	mdb := &types.MasterDirectoryBlock{
		SigWord:  be.Uint16(data[types.MDBSigWordOffset:]),
		CrDate:   be.Uint32(data[types.MDBCrDateOffset:]),
		LsMod:    be.Uint32(data[types.MDBLsModOffset:]),
		Atrb:     be.Uint16(data[types.MDBAtrbOffset:]),
		NmFls:    be.Uint16(data[types.MDBNmFlsOffset:]),
		VBMSt:    be.Uint16(data[types.MDBVBMStOffset:]),
		AllocPtr: be.Uint16(data[types.MDBAllocPtrOffset:]),
		NmAlBlks: be.Uint16(data[types.MDBNmAlBlksOffset:]),
		AlBlkSiz: be.Uint32(data[types.MDBAlBlkSizOffset:]),
		ClpSiz:   be.Uint32(data[types.MDBClpSizOffset:]),
		AlBlSt:   be.Uint16(data[types.MDBAlBlStOffset:]),
		NxtCNID:  be.Uint32(data[types.MDBNxtCNIDOffset:]),
		FreeBks:  be.Uint16(data[types.MDBFreeBksOffset:]),
		VolBkUp:  be.Uint32(data[types.MDBVolBkUpOffset:]),
		VSeqNum:  be.Uint16(data[types.MDBVSeqNumOffset:]),
		WrCnt:    be.Uint32(data[types.MDBWrCntOffset:]),
		XTClpSiz: be.Uint32(data[types.MDBXTClpSizOffset:]),
		CTClpSiz: be.Uint32(data[types.MDBCTClpSizOffset:]),
		NmRtDirs: be.Uint16(data[types.MDBNmRtDirsOffset:]),
		FilCnt:   be.Uint32(data[types.MDBFilCntOffset:]),
		DirCnt:   be.Uint32(data[types.MDBDirCntOffset:]),
		XTFlSize: be.Uint32(data[types.MDBXTFlSizeOffset:]),
		CTFlSize: be.Uint32(data[types.MDBCTFlSizeOffset:]),
	}
	if mdb.SigWord != types.SignatureHFS {
		return nil, types.NewDecodeError("master directory block", 0, types.ErrInvalidSignature,
			"found 0x%04X", mdb.SigWord)
	}

	copy(mdb.VN[:], data[types.MDBVNOffset:types.MDBVNOffset+len(mdb.VN)])
	for i := range mdb.FndrInfo {
		mdb.FndrInfo[i] = be.Uint32(data[types.MDBFndrInfoOffset+4*i:])
	}
	mdb.EmbedSigWord = be.Uint16(data[types.MDBEmbedSigWordOffset:])
	mdb.EmbedExtent = types.ExtentDescriptor{
		StartBlock: uint32(be.Uint16(data[types.MDBEmbedExtentOffset:])),
		BlockCount: uint32(be.Uint16(data[types.MDBEmbedExtentOffset+2:])),
	}

	var err error
	if mdb.XTExtRec, err = extents.DecodeHFSExtentRecord(data, types.MDBXTExtRecOffset); err != nil {
		return nil, fmt.Errorf("failed to decode extents file extents: %w", err)
	}
	if mdb.CTExtRec, err = extents.DecodeHFSExtentRecord(data, types.MDBCTExtRecOffset); err != nil {
		return nil, fmt.Errorf("failed to decode catalog file extents: %w", err)
	}
	return mdb, nil
}

// DecodeHFSPlusVolumeHeader decodes an HFS+ or HFSX volume header
func DecodeHFSPlusVolumeHeader(data []byte) (*types.HFSPlusVolumeHeader, error) {
	if len(data) < types.HFSPlusVolumeHeaderSize {
		return nil, types.NewDecodeError("volume header", 0, types.ErrInsufficientData,
			"need %d bytes, have %d", types.HFSPlusVolumeHeaderSize, len(data))
	}

	be := binary.BigEndian
	vh := &types.HFSPlusVolumeHeader{
		Signature:          be.Uint16(data[types.VHSignatureOffset:]),
		Version:            be.Uint16(data[types.VHVersionOffset:]),
		Attributes:         be.Uint32(data[types.VHAttributesOffset:]),
		LastMountedVersion: be.Uint32(data[types.VHLastMountedVersionOffset:]),
		JournalInfoBlock:   be.Uint32(data[types.VHJournalInfoBlockOffset:]),
		CreateDate:         be.Uint32(data[types.VHCreateDateOffset:]),
		ModifyDate:         be.Uint32(data[types.VHModifyDateOffset:]),
		BackupDate:         be.Uint32(data[types.VHBackupDateOffset:]),
		CheckedDate:        be.Uint32(data[types.VHCheckedDateOffset:]),
		FileCount:          be.Uint32(data[types.VHFileCountOffset:]),
		FolderCount:        be.Uint32(data[types.VHFolderCountOffset:]),
		BlockSize:          be.Uint32(data[types.VHBlockSizeOffset:]),
		TotalBlocks:        be.Uint32(data[types.VHTotalBlocksOffset:]),
		FreeBlocks:         be.Uint32(data[types.VHFreeBlocksOffset:]),
		NextAllocation:     be.Uint32(data[types.VHNextAllocationOffset:]),
		RsrcClumpSize:      be.Uint32(data[types.VHRsrcClumpSizeOffset:]),
		DataClumpSize:      be.Uint32(data[types.VHDataClumpSizeOffset:]),
		NextCatalogID:      types.CatalogNodeID(be.Uint32(data[types.VHNextCatalogIDOffset:])),
		WriteCount:         be.Uint32(data[types.VHWriteCountOffset:]),
		EncodingsBitmap:    be.Uint64(data[types.VHEncodingsBitmapOffset:]),
	}
	if vh.Signature != types.SignatureHFSPlus && vh.Signature != types.SignatureHFSX {
		return nil, types.NewDecodeError("volume header", 0, types.ErrInvalidSignature,
			"found 0x%04X", vh.Signature)
	}
	for i := range vh.FinderInfo {
		vh.FinderInfo[i] = be.Uint32(data[types.VHFinderInfoOffset+4*i:])
	}

	forks := []struct {
		offset int
		dst    *types.HFSPlusForkData
	}{
		{types.VHAllocationFileOffset, &vh.AllocationFile},
		{types.VHExtentsFileOffset, &vh.ExtentsFile},
		{types.VHCatalogFileOffset, &vh.CatalogFile},
		{types.VHAttributesFileOffset, &vh.AttributesFile},
		{types.VHStartupFileOffset, &vh.StartupFile},
	}
	for _, f := range forks {
		fork, err := extents.DecodeHFSPlusForkData(data, f.offset)
		if err != nil {
			return nil, fmt.Errorf("failed to decode system fork at %d: %w", f.offset, err)
		}
		*f.dst = fork.Raw()
	}
	return vh, nil
}

// Dialect returns the on-disk variant of the volume
func (v *VolumeHeader) Dialect() types.Dialect { return v.dialect }

// MDB returns the classic header, or nil for HFS+ volumes
func (v *VolumeHeader) MDB() *types.MasterDirectoryBlock { return v.mdb }

// HFSPlus returns the HFS+ header, or nil for classic HFS volumes
func (v *VolumeHeader) HFSPlus() *types.HFSPlusVolumeHeader { return v.plus }

func (v *VolumeHeader) Signature() uint16 {
	if v.mdb != nil {
		return v.mdb.SigWord
	}
	return v.plus.Signature
}

func (v *VolumeHeader) BlockSize() uint32 {
	if v.mdb != nil {
		return v.mdb.AlBlkSiz
	}
	return v.plus.BlockSize
}

func (v *VolumeHeader) TotalBlocks() uint32 {
	if v.mdb != nil {
		return uint32(v.mdb.NmAlBlks)
	}
	return v.plus.TotalBlocks
}

func (v *VolumeHeader) FreeBlocks() uint32 {
	if v.mdb != nil {
		return uint32(v.mdb.FreeBks)
	}
	return v.plus.FreeBlocks
}

// AllocationBlockStart returns the byte offset of allocation block 0.
// HFS+ allocation blocks start at the beginning of the volume.
func (v *VolumeHeader) AllocationBlockStart() int64 {
	if v.mdb != nil {
		return int64(v.mdb.AlBlSt) * types.SectorSize
	}
	return 0
}

// FileSystemEnd returns the number of bytes the volume occupies.
// HFS+ allocation blocks cover the whole volume. Classic HFS allocation blocks cover only the
// data region after drAlBlSt sectors, and two more sectors hold the alternate MDB and a reserved sector.
func (v *VolumeHeader) FileSystemEnd() int64 {
	if v.mdb != nil {
		return v.AllocationBlockStart() +
			int64(v.mdb.NmAlBlks)*int64(v.mdb.AlBlkSiz) +
			2*types.SectorSize
	}
	return int64(v.plus.TotalBlocks) * int64(v.plus.BlockSize)
}

// BlockOffset returns the byte offset of allocation block n from the start of the volume
func (v *VolumeHeader) BlockOffset(n uint32) int64 {
	return v.AllocationBlockStart() + int64(n)*int64(v.BlockSize())
}

func (v *VolumeHeader) CreateDate() time.Time {
	if v.mdb != nil {
		return types.MacTimeToTime(v.mdb.CrDate)
	}
	return types.MacTimeToTime(v.plus.CreateDate)
}

func (v *VolumeHeader) ModifyDate() time.Time {
	if v.mdb != nil {
		return types.MacTimeToTime(v.mdb.LsMod)
	}
	return types.MacTimeToTime(v.plus.ModifyDate)
}

func (v *VolumeHeader) BackupDate() time.Time {
	if v.mdb != nil {
		return types.MacTimeToTime(v.mdb.VolBkUp)
	}
	return types.MacTimeToTime(v.plus.BackupDate)
}

// CheckedDate returns the date of the last consistency check; classic HFS does not record one
func (v *VolumeHeader) CheckedDate() (time.Time, bool) {
	if v.mdb != nil {
		return time.Time{}, false
	}
	return types.MacTimeToTime(v.plus.CheckedDate), true
}

func (v *VolumeHeader) NextCatalogID() types.CatalogNodeID {
	if v.mdb != nil {
		return types.CatalogNodeID(v.mdb.NxtCNID)
	}
	return v.plus.NextCatalogID
}

func (v *VolumeHeader) FileCount() uint32 {
	if v.mdb != nil {
		return v.mdb.FilCnt
	}
	return v.plus.FileCount
}

func (v *VolumeHeader) FolderCount() uint32 {
	if v.mdb != nil {
		return v.mdb.DirCnt
	}
	return v.plus.FolderCount
}

// Attributes returns the volume attribute bits
func (v *VolumeHeader) Attributes() uint32 {
	if v.mdb != nil {
		return uint32(v.mdb.Atrb)
	}
	return v.plus.Attributes
}

// HasAttribute reports whether the volume attribute bit is set
func (v *VolumeHeader) HasAttribute(bit int) bool {
	return v.Attributes()&(1<<bit) != 0
}

func (v *VolumeHeader) IsJournaled() bool {
	return v.plus != nil && v.HasAttribute(types.VolumeJournaledBit)
}

func (v *VolumeHeader) JournalInfoBlock() uint32 {
	if v.plus == nil {
		return 0
	}
	return v.plus.JournalInfoBlock
}

// LastMountedVersion returns the FourCC of the implementation that last mounted the volume
func (v *VolumeHeader) LastMountedVersion() types.FourCC {
	if v.plus == nil {
		return 0
	}
	return types.FourCC(v.plus.LastMountedVersion)
}

// VolumeName returns the classic HFS volume name. HFS+ keeps the name in the root folder thread.
func (v *VolumeHeader) VolumeName() (catalog.CatalogString, bool) {
	if v.mdb == nil {
		return catalog.CatalogString{}, false
	}
	n := int(v.mdb.VN[0])
	if n > len(v.mdb.VN)-1 {
		n = len(v.mdb.VN) - 1
	}
	return catalog.NewHFSString(v.mdb.VN[1 : 1+n]), true
}

// SystemFork returns the fork of one of the special files.
// Classic HFS describes only the extents and catalog files.
func (v *VolumeHeader) SystemFork(file types.SystemFile) (*extents.ForkData, bool) {
	if v.mdb != nil {
		switch file {
		case types.SystemFileExtents:
			return extents.NewHFSForkData(v.mdb.XTFlSize, v.mdb.XTFlSize, v.mdb.XTExtRec), true
		case types.SystemFileCatalog:
			return extents.NewHFSForkData(v.mdb.CTFlSize, v.mdb.CTFlSize, v.mdb.CTExtRec), true
		default:
			return nil, false
		}
	}

	var fork types.HFSPlusForkData
	switch file {
	case types.SystemFileAllocation:
		fork = v.plus.AllocationFile
	case types.SystemFileExtents:
		fork = v.plus.ExtentsFile
	case types.SystemFileCatalog:
		fork = v.plus.CatalogFile
	case types.SystemFileAttributes:
		fork = v.plus.AttributesFile
	case types.SystemFileStartup:
		fork = v.plus.StartupFile
	default:
		return nil, false
	}
	return extents.NewHFSPlusForkData(fork), true
}

// EmbeddedVolume reports whether an HFS wrapper holds an HFS+ volume and returns its byte
// offset and length relative to the start of the wrapper
func (v *VolumeHeader) EmbeddedVolume() (offset, length int64, ok bool) {
	if v.mdb == nil || v.mdb.EmbedSigWord != types.SignatureHFSPlus {
		return 0, 0, false
	}
	blockSize := int64(v.mdb.AlBlkSiz)
	offset = v.AllocationBlockStart() + int64(v.mdb.EmbedExtent.StartBlock)*blockSize
	length = int64(v.mdb.EmbedExtent.BlockCount) * blockSize
	return offset, length, true
}

// VolumeBitmapStart returns the sector holding the classic HFS volume bitmap
func (v *VolumeHeader) VolumeBitmapStart() (uint16, bool) {
	if v.mdb == nil {
		return 0, false
	}
	return v.mdb.VBMSt, true
}

// Bytes returns the on-disk header bytes
func (v *VolumeHeader) Bytes() []byte {
	return bytes.Clone(v.raw)
}
