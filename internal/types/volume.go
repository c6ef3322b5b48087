package types

// Volume Header (TN1150 "Volume Header") and Master Directory Block (Inside Macintosh: Files)

// Volume signatures found at VolumeHeaderOffset
const (
	SignatureHFS     uint16 = 0x4244 // 'BD'
	SignatureHFSPlus uint16 = 0x482B // 'H+'
	SignatureHFSX    uint16 = 0x4858 // 'HX'
)

// VolumeHeaderOffset is the byte offset of the volume header (or MDB) from the start of the volume.
const VolumeHeaderOffset = 1024

// SectorSize is the unit used for classic HFS boot blocks and allocation block start.
const SectorSize = 512

// Structure sizes
const (
	HFSPlusVolumeHeaderSize  = 512
	MasterDirectoryBlockSize = 162
	JournalInfoBlockSize     = 180
)

// Master Directory Block field offsets
const (
	MDBSigWordOffset      = 0x00
	MDBCrDateOffset       = 0x02
	MDBLsModOffset        = 0x06
	MDBAtrbOffset         = 0x0A
	MDBNmFlsOffset        = 0x0C
	MDBVBMStOffset        = 0x0E
	MDBAllocPtrOffset     = 0x10
	MDBNmAlBlksOffset     = 0x12
	MDBAlBlkSizOffset     = 0x14
	MDBClpSizOffset       = 0x18
	MDBAlBlStOffset       = 0x1C
	MDBNxtCNIDOffset      = 0x1E
	MDBFreeBksOffset      = 0x22
	MDBVNOffset           = 0x24
	MDBVolBkUpOffset      = 0x40
	MDBVSeqNumOffset      = 0x44
	MDBWrCntOffset        = 0x46
	MDBXTClpSizOffset     = 0x4A
	MDBCTClpSizOffset     = 0x4E
	MDBNmRtDirsOffset     = 0x52
	MDBFilCntOffset       = 0x54
	MDBDirCntOffset       = 0x58
	MDBFndrInfoOffset     = 0x5C
	MDBEmbedSigWordOffset = 0x7C
	MDBEmbedExtentOffset  = 0x7E
	MDBXTFlSizeOffset     = 0x82
	MDBXTExtRecOffset     = 0x86
	MDBCTFlSizeOffset     = 0x92
	MDBCTExtRecOffset     = 0x96
)

// HFS+ volume header field offsets
const (
	VHSignatureOffset          = 0
	VHVersionOffset            = 2
	VHAttributesOffset         = 4
	VHLastMountedVersionOffset = 8
	VHJournalInfoBlockOffset   = 12
	VHCreateDateOffset         = 16
	VHModifyDateOffset         = 20
	VHBackupDateOffset         = 24
	VHCheckedDateOffset        = 28
	VHFileCountOffset          = 32
	VHFolderCountOffset        = 36
	VHBlockSizeOffset          = 40
	VHTotalBlocksOffset        = 44
	VHFreeBlocksOffset         = 48
	VHNextAllocationOffset     = 52
	VHRsrcClumpSizeOffset      = 56
	VHDataClumpSizeOffset      = 60
	VHNextCatalogIDOffset      = 64
	VHWriteCountOffset         = 68
	VHEncodingsBitmapOffset    = 72
	VHFinderInfoOffset         = 80
	VHAllocationFileOffset     = 112
	VHExtentsFileOffset        = 192
	VHCatalogFileOffset        = 272
	VHAttributesFileOffset     = 352
	VHStartupFileOffset        = 432
)

// Volume attribute bits (both dialects)
const (
	VolumeHardwareLockBit           = 7
	VolumeUnmountedBit              = 8
	VolumeSparedBlocksBit           = 9
	VolumeNoCacheRequiredBit        = 10
	VolumeBootVolumeInconsistentBit = 11
	VolumeCatalogNodeIDsReusedBit   = 12
	VolumeJournaledBit              = 13
	VolumeSoftwareLockBit           = 15
)

// SystemFile identifies one of the five special files described by the volume header.
type SystemFile int

const (
	SystemFileAllocation SystemFile = iota
	SystemFileExtents
	SystemFileCatalog
	SystemFileAttributes
	SystemFileStartup
)

// AllSystemFiles lists the system files in volume header order.
var AllSystemFiles = []SystemFile{
	SystemFileAllocation,
	SystemFileExtents,
	SystemFileCatalog,
	SystemFileAttributes,
	SystemFileStartup,
}

// String returns the name of the system file
func (s SystemFile) String() string {
	switch s {
	case SystemFileAllocation:
		return "allocation"
	case SystemFileExtents:
		return "extents"
	case SystemFileCatalog:
		return "catalog"
	case SystemFileAttributes:
		return "attributes"
	case SystemFileStartup:
		return "startup"
	default:
		return "unknown"
	}
}

// CNID returns the reserved catalog node ID that owns the system file's extents.
func (s SystemFile) CNID() CatalogNodeID {
	switch s {
	case SystemFileAllocation:
		return CNIDAllocationFile
	case SystemFileExtents:
		return CNIDExtentsFile
	case SystemFileCatalog:
		return CNIDCatalogFile
	case SystemFileAttributes:
		return CNIDAttributesFile
	case SystemFileStartup:
		return CNIDStartupFile
	default:
		return 0
	}
}

// Journal info block flags
const (
	JournalInFSMask          uint32 = 0x00000001
	JournalOnOtherDeviceMask uint32 = 0x00000002
	JournalNeedInitMask      uint32 = 0x00000004
)

// JournalInfoBlock locates the journal of a journaled HFS+ volume.
type JournalInfoBlock struct {
	// See JournalInFSMask and friends.
	Flags uint32

	// Identifies the device containing the journal when it is not on this volume.
	DeviceSignature [32]byte

	// Byte offset of the journal header relative to the start of the volume.
	Offset uint64

	// Size of the journal in bytes, including the header.
	Size uint64

	Reserved [128]byte
}

// MasterDirectoryBlock is the classic HFS volume header (HFSMasterDirectoryBlock).
type MasterDirectoryBlock struct {
	SigWord      uint16
	CrDate       uint32
	LsMod        uint32
	Atrb         uint16
	NmFls        uint16
	VBMSt        uint16
	AllocPtr     uint16
	NmAlBlks     uint16
	AlBlkSiz     uint32
	ClpSiz       uint32
	AlBlSt       uint16
	NxtCNID      uint32
	FreeBks      uint16
	VN           [28]byte
	VolBkUp      uint32
	VSeqNum      uint16
	WrCnt        uint32
	XTClpSiz     uint32
	CTClpSiz     uint32
	NmRtDirs     uint16
	FilCnt       uint32
	DirCnt       uint32
	FndrInfo     [8]uint32
	EmbedSigWord uint16
	EmbedExtent  ExtentDescriptor
	XTFlSize     uint32
	XTExtRec     [HFSExtentRecordCount]ExtentDescriptor
	CTFlSize     uint32
	CTExtRec     [HFSExtentRecordCount]ExtentDescriptor
}

// HFSPlusVolumeHeader is the HFS+ and HFSX volume header.
type HFSPlusVolumeHeader struct {
	Signature          uint16
	Version            uint16
	Attributes         uint32
	LastMountedVersion uint32
	JournalInfoBlock   uint32
	CreateDate         uint32
	ModifyDate         uint32
	BackupDate         uint32
	CheckedDate        uint32
	FileCount          uint32
	FolderCount        uint32
	BlockSize          uint32
	TotalBlocks        uint32
	FreeBlocks         uint32
	NextAllocation     uint32
	RsrcClumpSize      uint32
	DataClumpSize      uint32
	NextCatalogID      CatalogNodeID
	WriteCount         uint32
	EncodingsBitmap    uint64
	FinderInfo         [8]uint32
	AllocationFile     HFSPlusForkData
	ExtentsFile        HFSPlusForkData
	CatalogFile        HFSPlusForkData
	AttributesFile     HFSPlusForkData
	StartupFile        HFSPlusForkData
}

// HFS+ volume header versions
const (
	HFSPlusVersion = 4
	HFSXVersion    = 5
)
