package types

// Catalog File (TN1150 "Catalog File", Inside Macintosh: Files "Catalog File")

// CatalogNodeID is the unique number of a file or folder (CNID).
type CatalogNodeID uint32

// Reserved catalog node IDs
const (
	CNIDRootParent        CatalogNodeID = 1
	CNIDRootFolder        CatalogNodeID = 2
	CNIDExtentsFile       CatalogNodeID = 3
	CNIDCatalogFile       CatalogNodeID = 4
	CNIDBadBlocksFile     CatalogNodeID = 5
	CNIDAllocationFile    CatalogNodeID = 6
	CNIDStartupFile       CatalogNodeID = 7
	CNIDAttributesFile    CatalogNodeID = 8
	CNIDRepairCatalogFile CatalogNodeID = 14
	CNIDBogusExtentFile   CatalogNodeID = 15
	CNIDFirstUserCatalog  CatalogNodeID = 16
)

// CatalogRecordType is the tag following a catalog leaf key.
// HFS stores it as an 8-bit value, HFS+ as a 16-bit value; the numbers are the same.
type CatalogRecordType uint16

const (
	// CatalogFolderRecord (cdrDirRec / kHFSPlusFolderRecord)
	CatalogFolderRecord CatalogRecordType = 0x0001

	// CatalogFileRecord (cdrFilRec / kHFSPlusFileRecord)
	CatalogFileRecord CatalogRecordType = 0x0002

	// CatalogFolderThreadRecord (cdrThdRec / kHFSPlusFolderThreadRecord)
	CatalogFolderThreadRecord CatalogRecordType = 0x0003

	// CatalogFileThreadRecord (cdrFThdRec / kHFSPlusFileThreadRecord)
	CatalogFileThreadRecord CatalogRecordType = 0x0004
)

// String returns the name of the record type
func (t CatalogRecordType) String() string {
	switch t {
	case CatalogFolderRecord:
		return "folder"
	case CatalogFileRecord:
		return "file"
	case CatalogFolderThreadRecord:
		return "folder-thread"
	case CatalogFileThreadRecord:
		return "file-thread"
	default:
		return "unknown"
	}
}

// Catalog key sizes
const (
	// HFSCatalogKeyMinLength is the smallest keyLen value of an HFS key (reserved + parID + name length byte).
	HFSCatalogKeyMinLength = 6

	// HFSCatalogIndexKeyLength is the fixed keyLen of HFS index node keys.
	HFSCatalogIndexKeyLength = 37

	// HFSMaxNameLength is the maximum length of a classic HFS file name (Str31).
	HFSMaxNameLength = 31

	// HFSPlusCatalogKeyMinLength is the smallest keyLength value of an HFS+ key (parentID + name length).
	HFSPlusCatalogKeyMinLength = 6

	// HFSPlusMaxNameLength is the maximum number of UTF-16 code units in a name.
	HFSPlusMaxNameLength = 255
)

// Catalog record sizes
const (
	HFSFolderRecordSize     = 70
	HFSFileRecordSize       = 102
	HFSThreadRecordSize     = 46
	HFSPlusFolderRecordSize = 88
	HFSPlusFileRecordSize   = 248

	// HFSPlusThreadRecordMinSize covers recordType, reserved, parentID and the name length.
	HFSPlusThreadRecordMinSize = 10
)

// Catalog record flags
const (
	HFSFileLockedMask     uint16 = 0x0001
	HFSThreadExistsMask   uint16 = 0x0002
	HFSHasAttributesMask  uint16 = 0x0004
	HFSHasSecurityMask    uint16 = 0x0008
	HFSHasFolderCountMask uint16 = 0x0010
	HFSHasLinkChainMask   uint16 = 0x0020
	HFSHasChildLinkMask   uint16 = 0x0040
	HFSHasDateAddedMask   uint16 = 0x0080
)

// Hard link Finder codes
var (
	// HardLinkFileType marks a file hard link ('hlnk').
	HardLinkFileType = NewFourCC("hlnk")

	// HFSPlusCreator is the creator of file hard links ('hfs+').
	HFSPlusCreator = NewFourCC("hfs+")

	// DirLinkFileType marks a directory hard link ('fdrp').
	DirLinkFileType = NewFourCC("fdrp")

	// MacsCreator is the creator of directory hard links ('MACS').
	MacsCreator = NewFourCC("MACS")

	// SymLinkFileType and SymLinkCreator mark symbolic links ('slnk', 'rhap').
	SymLinkFileType = NewFourCC("slnk")
	SymLinkCreator  = NewFourCC("rhap")
)

// BSDInfoSize is the size of HFSPlusBSDInfo.
const BSDInfoSize = 16

// HFSPlusBSDInfo holds the POSIX ownership and permissions of an HFS+ catalog object.
type HFSPlusBSDInfo struct {
	// The user ID of the owner.
	OwnerID uint32

	// The group ID.
	GroupID uint32

	// Flags settable only by the super-user (SF_ARCHIVED, SF_IMMUTABLE, SF_APPEND).
	AdminFlags uint8

	// Flags settable by the owner (UF_NODUMP, UF_IMMUTABLE, UF_APPEND, UF_OPAQUE).
	OwnerFlags uint8

	// The file type and permission bits, as in st_mode.
	FileMode uint16

	// The inode number for hard links, the link count for indirect nodes,
	// or the device number for block and character devices.
	Special uint32
}

// FinderInfoSize is the size of FileInfo/FolderInfo and of their extended counterparts.
const FinderInfoSize = 16

// FileInfo is the Finder information of a file (FInfo).
type FileInfo struct {
	FileType    FourCC
	FileCreator FourCC
	FinderFlags uint16
	LocationV   int16
	LocationH   int16
	Reserved    uint16
}

// FolderInfo is the Finder information of a folder (DInfo).
type FolderInfo struct {
	WindowTop    int16
	WindowLeft   int16
	WindowBottom int16
	WindowRight  int16
	FinderFlags  uint16
	LocationV    int16
	LocationH    int16
	Reserved     uint16
}

// Finder flags
const (
	FinderIsOnDesk      uint16 = 0x0001
	FinderColor         uint16 = 0x000E
	FinderIsShared      uint16 = 0x0040
	FinderHasNoINITs    uint16 = 0x0080
	FinderHasBeenInited uint16 = 0x0100
	FinderHasCustomIcon uint16 = 0x0400
	FinderIsStationery  uint16 = 0x0800
	FinderNameLocked    uint16 = 0x1000
	FinderHasBundle     uint16 = 0x2000
	FinderIsInvisible   uint16 = 0x4000
	FinderIsAlias       uint16 = 0x8000
)

// HFSPlusCatalogFolder is the folder record of an HFS+ catalog leaf (HFSPlusCatalogFolder).
type HFSPlusCatalogFolder struct {
	RecordType       uint16
	Flags            uint16
	Valence          uint32
	FolderID         CatalogNodeID
	CreateDate       uint32
	ContentModDate   uint32
	AttributeModDate uint32
	AccessDate       uint32
	BackupDate       uint32
	Permissions      HFSPlusBSDInfo
	UserInfo         FolderInfo

	// ExtendedFolderInfo, kept undecoded.
	FinderInfo [FinderInfoSize]byte

	TextEncoding uint32

	// Number of subfolders when HFSHasFolderCountMask is set, reserved otherwise.
	FolderCount uint32
}

// HFSPlusCatalogFile is the file record of an HFS+ catalog leaf (HFSPlusCatalogFile).
type HFSPlusCatalogFile struct {
	RecordType       uint16
	Flags            uint16
	Reserved1        uint32
	FileID           CatalogNodeID
	CreateDate       uint32
	ContentModDate   uint32
	AttributeModDate uint32
	AccessDate       uint32
	BackupDate       uint32
	Permissions      HFSPlusBSDInfo
	UserInfo         FileInfo

	// ExtendedFileInfo, kept undecoded.
	FinderInfo [FinderInfoSize]byte

	TextEncoding uint32
	Reserved2    uint32
	DataFork     HFSPlusForkData
	ResourceFork HFSPlusForkData
}

// HFSPlusCatalogThread links a CNID back to its parent and name (HFSPlusCatalogThread).
type HFSPlusCatalogThread struct {
	RecordType uint16
	Reserved   uint16
	ParentID   CatalogNodeID

	// UTF-16 code units of the node name.
	NodeName []uint16
}

// HFSCatalogFolder is the directory record of a classic HFS catalog leaf (CdrDirRec).
type HFSCatalogFolder struct {
	RecordType uint8
	Reserved2  uint8
	Flags      uint16
	Valence    uint16
	DirID      CatalogNodeID
	CreateDate uint32
	ModifyDate uint32
	BackupDate uint32
	UserInfo   FolderInfo

	// DXInfo, kept undecoded.
	FinderInfo [FinderInfoSize]byte

	Reserved [4]uint32
}

// HFSCatalogFile is the file record of a classic HFS catalog leaf (CdrFilRec).
type HFSCatalogFile struct {
	RecordType uint8
	Reserved2  uint8
	Flags      uint8

	// Version number, always zero.
	FileType uint8

	UserInfo FileInfo
	FileID   CatalogNodeID

	// First allocation block of the data and resource forks, unused.
	DataStartBlock uint16

	DataLogicalSize      uint32
	DataPhysicalSize     uint32
	ResourceStartBlock   uint16
	ResourceLogicalSize  uint32
	ResourcePhysicalSize uint32
	CreateDate           uint32
	ModifyDate           uint32
	BackupDate           uint32

	// FXInfo, kept undecoded.
	FinderInfo [FinderInfoSize]byte

	ClumpSize       uint16
	DataExtents     [HFSExtentRecordCount]ExtentDescriptor
	ResourceExtents [HFSExtentRecordCount]ExtentDescriptor
	Reserved        uint32
}

// HFSCatalogThread is a classic HFS thread record (CdrThdRec / CdrFThdRec).
type HFSCatalogThread struct {
	RecordType uint8
	Reserved2  uint8
	Reserved   [8]byte
	ParentID   CatalogNodeID

	// Str31: a length byte followed by up to 31 MacRoman bytes, zero padded.
	NodeName [HFSMaxNameLength + 1]byte
}
